package model

import "errors"

var (
	// ErrConfiguration reports a fatal startup misconfiguration, such as a missing master key.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrDecryption reports a ciphertext that cannot be opened with the derived key.
	ErrDecryption = errors.New("failed to decrypt payload")
	// ErrNotFound reports an absent or inactive entity.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists reports a uniqueness violation.
	ErrAlreadyExists = errors.New("already exists")
	// ErrReauthorizationRequired reports a refresh token the provider no longer accepts.
	ErrReauthorizationRequired = errors.New("account must be reconnected")
	// ErrTransientProvider reports a network or 5xx failure from Google.
	ErrTransientProvider = errors.New("transient provider error")
	// ErrMalformedEvent reports a push payload that cannot be decoded.
	ErrMalformedEvent = errors.New("malformed push event")
	// ErrHistoryExpired reports a history cursor the provider no longer recognises.
	ErrHistoryExpired = errors.New("history cursor expired")
	ErrAccountLimit       = errors.New("account limit reached")
	ErrSessionExpired     = errors.New("oauth session expired")
	ErrInvalidCredentials = errors.New("invalid client credentials")
	ErrInvalidState       = errors.New("invalid oauth state")
	ErrInvalidPushMode    = errors.New("invalid push mode")
	ErrCodeRejected       = errors.New("authorization code rejected")
	ErrInvalidSenderEntry = errors.New("invalid sender entry")
)
