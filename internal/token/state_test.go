package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/autoxmail-server/internal/model"
)

func TestStateSigner_Roundtrip(t *testing.T) {
	s := NewStateSigner([]byte("secret"), 5*time.Minute)
	sid := uuid.New()

	state, err := s.GenerateState(sid, 42)
	require.NoError(t, err)

	gotSID, gotUser, err := s.ParseState(state)
	require.NoError(t, err)
	require.Equal(t, sid, gotSID)
	require.Equal(t, int64(42), gotUser)
}

func TestStateSigner_UniquePerCall(t *testing.T) {
	s := NewStateSigner([]byte("secret"), time.Minute)
	sid := uuid.New()

	a, err := s.GenerateState(sid, 1)
	require.NoError(t, err)
	b, err := s.GenerateState(sid, 1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestStateSigner_Expired(t *testing.T) {
	s := NewStateSigner([]byte("secret"), time.Minute)
	issued := time.Now()
	s.now = func() time.Time { return issued }

	state, err := s.GenerateState(uuid.New(), 1)
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, _, err = s.ParseState(state)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrSessionExpired)
}

func TestStateSigner_WrongKey(t *testing.T) {
	state, err := NewStateSigner([]byte("one"), time.Minute).GenerateState(uuid.New(), 1)
	require.NoError(t, err)

	_, _, err = NewStateSigner([]byte("two"), time.Minute).ParseState(state)
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestStateSigner_Garbage(t *testing.T) {
	s := NewStateSigner([]byte("secret"), time.Minute)

	_, _, err := s.ParseState("not-a-jwt")
	assert.ErrorIs(t, err, model.ErrInvalidState)

	_, _, err = s.ParseState("")
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestStateSigner_TypeMismatch(t *testing.T) {
	key := []byte("secret")
	now := time.Now()
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))},
		SessionID:        uuid.New(),
		UserID:           1,
		TokenType:        "access",
	}).SignedString(key)
	require.NoError(t, err)

	_, _, err = NewStateSigner(key, time.Minute).ParseState(forged)
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestStateSigner_RequiresExpiry(t *testing.T) {
	key := []byte("secret")
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID: uuid.New(),
		UserID:    1,
		TokenType: typeState,
	}).SignedString(key)
	require.NoError(t, err)

	_, _, err = NewStateSigner(key, time.Minute).ParseState(forged)
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestStateSigner_RejectsNoneAlg(t *testing.T) {
	forged, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
		SessionID:        uuid.New(),
		TokenType:        typeState,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = NewStateSigner([]byte("secret"), time.Minute).ParseState(forged)
	assert.ErrorIs(t, err, model.ErrInvalidState)
}
