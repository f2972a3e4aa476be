package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/autoxmail-server/internal/mocks"
)

func TestClientCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newClientCache(2)
	a, b, d := uuid.New(), uuid.New(), uuid.New()
	ca, cb, cd := &mocks.GmailAPI{}, &mocks.GmailAPI{}, &mocks.GmailAPI{}

	c.Add(a, ca)
	c.Add(b, cb)
	_, ok := c.Get(a) // a is now most recent
	assert.True(t, ok)

	c.Add(d, cd)
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get(b)
	assert.False(t, ok, "b should be evicted")
	got, ok := c.Get(a)
	assert.True(t, ok)
	assert.Same(t, ca, got)
	got, ok = c.Get(d)
	assert.True(t, ok)
	assert.Same(t, cd, got)
}

func TestClientCache_ReplaceAndRemove(t *testing.T) {
	c := newClientCache(0)
	id := uuid.New()
	first, second := &mocks.GmailAPI{}, &mocks.GmailAPI{}

	c.Add(id, first)
	c.Add(id, second)
	got, ok := c.Get(id)
	assert.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, c.Len())

	assert.True(t, c.Remove(id))
	assert.False(t, c.Remove(id))
	_, ok = c.Get(id)
	assert.False(t, ok)
}
