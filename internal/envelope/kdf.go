// Package envelope derives per-user keys from a master secret and seals
// payloads with them using AES-256-GCM.
package envelope

import (
	"crypto/sha256"
	"fmt"
	"strconv"

	"golang.org/x/crypto/argon2"

	"github.com/dtroode/autoxmail-server/internal/model"
)

// Purpose separates keys derived for the same user.
type Purpose string

const (
	PurposeCredentials Purpose = "credentials"
	PurposeToken       Purpose = "token"
	PurposeSession     Purpose = "session"
	PurposeOAuthState  Purpose = "oauth-state"
)

// KeySize is the length of derived keys in bytes.
const KeySize = 32

const saltDomain = "autoxmail/v1"

// KDFParams are the Argon2id cost parameters.
type KDFParams struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultKDFParams matches the cost used for user master keys elsewhere in the stack.
var DefaultKDFParams = KDFParams{Time: 1, MemoryKiB: 64 * 1024, Threads: 4}

func (p KDFParams) withDefaults() KDFParams {
	if p.Time == 0 {
		p.Time = DefaultKDFParams.Time
	}
	if p.MemoryKiB == 0 {
		p.MemoryKiB = DefaultKDFParams.MemoryKiB
	}
	if p.Threads == 0 {
		p.Threads = DefaultKDFParams.Threads
	}
	return p
}

// DeriveKey deterministically derives a key for (userID, purpose) from master.
// The salt is bound to the purpose, so credential and token keys of the same
// user are unrelated.
func DeriveKey(master []byte, userID int64, purpose Purpose, params KDFParams) ([]byte, error) {
	if len(master) == 0 {
		return nil, fmt.Errorf("%w: master key is empty", model.ErrConfiguration)
	}
	if purpose == "" {
		return nil, fmt.Errorf("key purpose is empty")
	}

	p := params.withDefaults()
	return argon2.IDKey(master, salt(userID, purpose), p.Time, p.MemoryKiB, p.Threads, KeySize), nil
}

func salt(userID int64, purpose Purpose) []byte {
	h := sha256.New()
	h.Write([]byte(saltDomain))
	h.Write([]byte(purpose))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(userID, 10)))
	return h.Sum(nil)
}

// Wipe zeroes b in place.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
