package main

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid telegram user id %q", s)
	}
	return id, nil
}

func parseAccountID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid account id %q: %w", s, err)
	}
	return id, nil
}

// parseSeconds accepts a non-negative number of seconds; 0 turns auto-delete off.
func parseSeconds(s string) (int, error) {
	secs, err := strconv.Atoi(s)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("invalid number of seconds %q", s)
	}
	return secs, nil
}
