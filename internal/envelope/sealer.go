package envelope

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/semaphore"

	"github.com/dtroode/autoxmail-server/internal/model"
)

const (
	formatV1   byte = 1
	headerSize      = 2
)

// Sealer encrypts payloads under keys derived from a versioned keyring.
//
// Blob layout: format (1 byte) | key version (1 byte) | nonce | ciphertext.
// The header, purpose and user id are authenticated as associated data,
// so a blob copied to another user or purpose fails to open.
type Sealer struct {
	current byte
	masters map[byte][]byte
	params  KDFParams
	sem     *semaphore.Weighted
}

// NewSealer creates a Sealer. masters maps key versions to master secrets and
// must contain current with a non-empty secret.
func NewSealer(current byte, masters map[byte][]byte, params KDFParams) (*Sealer, error) {
	if len(masters[current]) == 0 {
		return nil, fmt.Errorf("%w: no master key for version %d", model.ErrConfiguration, current)
	}

	keyring := make(map[byte][]byte, len(masters))
	for v, m := range masters {
		if len(m) == 0 {
			return nil, fmt.Errorf("%w: empty master key for version %d", model.ErrConfiguration, v)
		}
		keyring[v] = append([]byte(nil), m...)
	}

	return &Sealer{
		current: current,
		masters: keyring,
		params:  params.withDefaults(),
		sem:     semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}, nil
}

// CurrentVersion returns the key version used for new blobs.
func (s *Sealer) CurrentVersion() byte {
	return s.current
}

// Seal encrypts plaintext for (userID, purpose) under the current key version.
func (s *Sealer) Seal(ctx context.Context, userID int64, purpose Purpose, plaintext []byte) ([]byte, error) {
	header := []byte{formatV1, s.current}

	key, err := s.derive(ctx, s.current, userID, purpose)
	if err != nil {
		return nil, err
	}
	defer Wipe(key)

	sealed, err := Encrypt(plaintext, key, aad(header, userID, purpose))
	if err != nil {
		return nil, fmt.Errorf("failed to seal payload: %w", err)
	}

	return append(header, sealed...), nil
}

// Open decrypts a blob produced by Seal for the same (userID, purpose).
func (s *Sealer) Open(ctx context.Context, userID int64, purpose Purpose, blob []byte) ([]byte, error) {
	version, err := KeyVersion(blob)
	if err != nil {
		return nil, err
	}
	if _, ok := s.masters[version]; !ok {
		return nil, fmt.Errorf("%w: unknown key version %d", model.ErrDecryption, version)
	}

	key, err := s.derive(ctx, version, userID, purpose)
	if err != nil {
		return nil, err
	}
	defer Wipe(key)

	return Decrypt(blob[headerSize:], key, aad(blob[:headerSize], userID, purpose))
}

// Reseal re-encrypts blob under the current key version. Blobs already on the
// current version are returned unchanged.
func (s *Sealer) Reseal(ctx context.Context, userID int64, purpose Purpose, blob []byte) ([]byte, bool, error) {
	version, err := KeyVersion(blob)
	if err != nil {
		return nil, false, err
	}
	if version == s.current {
		return blob, false, nil
	}

	plaintext, err := s.Open(ctx, userID, purpose, blob)
	if err != nil {
		return nil, false, err
	}
	defer Wipe(plaintext)

	sealed, err := s.Seal(ctx, userID, purpose, plaintext)
	if err != nil {
		return nil, false, err
	}
	return sealed, true, nil
}

// NeedsRotation reports whether blob was sealed under an older key version.
func (s *Sealer) NeedsRotation(blob []byte) bool {
	version, err := KeyVersion(blob)
	return err == nil && version != s.current
}

// DeriveKey exposes a derived key for callers that sign rather than encrypt,
// such as the OAuth state signer. The caller owns the returned slice.
func (s *Sealer) DeriveKey(ctx context.Context, userID int64, purpose Purpose) ([]byte, error) {
	return s.derive(ctx, s.current, userID, purpose)
}

// KeyVersion returns the key version recorded in a blob header.
func KeyVersion(blob []byte) (byte, error) {
	if len(blob) < headerSize {
		return 0, fmt.Errorf("%w: blob too short", model.ErrDecryption)
	}
	if blob[0] != formatV1 {
		return 0, fmt.Errorf("%w: unknown blob format %d", model.ErrDecryption, blob[0])
	}
	return blob[1], nil
}

func (s *Sealer) derive(ctx context.Context, version byte, userID int64, purpose Purpose) ([]byte, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire derivation slot: %w", err)
	}
	defer s.sem.Release(1)

	return DeriveKey(s.masters[version], userID, purpose, s.params)
}

func aad(header []byte, userID int64, purpose Purpose) []byte {
	out := make([]byte, 0, len(header)+len(purpose)+24)
	out = append(out, header...)
	out = append(out, purpose...)
	out = append(out, 0)
	return strconv.AppendInt(out, userID, 10)
}
