package service

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dtroode/autoxmail-server/internal/gmail"
)

// clientCache is a bounded LRU of Gmail clients keyed by account id.
type clientCache = lru.Cache[uuid.UUID, gmail.API]

func newClientCache(size int) *clientCache {
	if size <= 0 {
		size = 1
	}
	// lru.New only fails for a non-positive size.
	c, _ := lru.New[uuid.UUID, gmail.API](size)
	return c
}
