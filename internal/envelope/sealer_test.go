package envelope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/autoxmail-server/internal/model"
)

func newTestSealer(t *testing.T, current byte, masters map[byte][]byte) *Sealer {
	t.Helper()
	s, err := NewSealer(current, masters, testParams)
	require.NoError(t, err)
	return s
}

func TestNewSealer(t *testing.T) {
	tests := []struct {
		name    string
		current byte
		masters map[byte][]byte
		wantErr bool
	}{
		{name: "valid", current: 1, masters: map[byte][]byte{1: []byte("k")}},
		{name: "missing current", current: 2, masters: map[byte][]byte{1: []byte("k")}, wantErr: true},
		{name: "empty current", current: 1, masters: map[byte][]byte{1: {}}, wantErr: true},
		{name: "empty previous", current: 1, masters: map[byte][]byte{1: []byte("k"), 0: nil}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSealer(tt.current, tt.masters, testParams)
			if tt.wantErr {
				require.ErrorIs(t, err, model.ErrConfiguration)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.current, s.CurrentVersion())
		})
	}
}

func TestSealer_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSealer(t, 1, map[byte][]byte{1: []byte("s3cr3t")})

	payloads := [][]byte{
		[]byte(`{"client_id":"abc"}`),
		{},
		make([]byte, 4096),
	}

	for _, p := range payloads {
		blob, err := s.Seal(ctx, 42, PurposeCredentials, p)
		require.NoError(t, err)

		got, err := s.Open(ctx, 42, PurposeCredentials, blob)
		require.NoError(t, err)
		assert.Equal(t, len(p), len(got))
		assert.Equal(t, string(p), string(got))
	}
}

func TestSealer_NonceIsRandom(t *testing.T) {
	ctx := context.Background()
	s := newTestSealer(t, 1, map[byte][]byte{1: []byte("s3cr3t")})

	b1, err := s.Seal(ctx, 42, PurposeToken, []byte("same"))
	require.NoError(t, err)
	b2, err := s.Seal(ctx, 42, PurposeToken, []byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, b1, b2)
}

func TestSealer_OpenFailures(t *testing.T) {
	ctx := context.Background()
	s := newTestSealer(t, 1, map[byte][]byte{1: []byte("s3cr3t")})

	blob, err := s.Seal(ctx, 42, PurposeCredentials, []byte("payload"))
	require.NoError(t, err)

	tampered := append([]byte(nil), blob...)
	tampered[len(tampered)-1] ^= 0xff

	unknownVersion := append([]byte(nil), blob...)
	unknownVersion[1] = 9

	otherMaster := newTestSealer(t, 1, map[byte][]byte{1: []byte("rotated")})

	tests := []struct {
		name    string
		sealer  *Sealer
		userID  int64
		purpose Purpose
		blob    []byte
	}{
		{name: "other user", sealer: s, userID: 43, purpose: PurposeCredentials, blob: blob},
		{name: "other purpose", sealer: s, userID: 42, purpose: PurposeToken, blob: blob},
		{name: "tampered", sealer: s, userID: 42, purpose: PurposeCredentials, blob: tampered},
		{name: "truncated", sealer: s, userID: 42, purpose: PurposeCredentials, blob: blob[:10]},
		{name: "empty", sealer: s, userID: 42, purpose: PurposeCredentials, blob: nil},
		{name: "unknown format", sealer: s, userID: 42, purpose: PurposeCredentials, blob: append([]byte{7}, blob[1:]...)},
		{name: "unknown version", sealer: s, userID: 42, purpose: PurposeCredentials, blob: unknownVersion},
		{name: "master rotated without re-encryption", sealer: otherMaster, userID: 42, purpose: PurposeCredentials, blob: blob},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.sealer.Open(ctx, tt.userID, tt.purpose, tt.blob)
			require.ErrorIs(t, err, model.ErrDecryption)
			assert.Nil(t, got)
		})
	}
}

func TestSealer_Rotation(t *testing.T) {
	ctx := context.Background()
	old := newTestSealer(t, 1, map[byte][]byte{1: []byte("old")})
	blob, err := old.Seal(ctx, 7, PurposeToken, []byte("token"))
	require.NoError(t, err)

	s := newTestSealer(t, 2, map[byte][]byte{1: []byte("old"), 2: []byte("new")})
	assert.True(t, s.NeedsRotation(blob))

	got, err := s.Open(ctx, 7, PurposeToken, blob)
	require.NoError(t, err)
	assert.Equal(t, "token", string(got))

	resealed, changed, err := s.Reseal(ctx, 7, PurposeToken, blob)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, s.NeedsRotation(resealed))

	version, err := KeyVersion(resealed)
	require.NoError(t, err)
	assert.Equal(t, byte(2), version)

	again, changed, err := s.Reseal(ctx, 7, PurposeToken, resealed)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, resealed, again)

	_, _, err = s.Reseal(ctx, 7, PurposeToken, []byte{1})
	require.ErrorIs(t, err, model.ErrDecryption)
}

func TestSealer_CanceledContext(t *testing.T) {
	s := newTestSealer(t, 1, map[byte][]byte{1: []byte("k")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for s.sem.TryAcquire(1) {
	}

	_, err := s.Seal(ctx, 1, PurposeToken, []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}
