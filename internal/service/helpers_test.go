package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/autoxmail-server/internal/envelope"
	"github.com/dtroode/autoxmail-server/internal/model"
)

// Cheap Argon2 cost so tests stay fast.
var testParams = envelope.KDFParams{Time: 1, MemoryKiB: 64, Threads: 1}

func newTestSealer(t *testing.T) *envelope.Sealer {
	t.Helper()
	s, err := envelope.NewSealer(1, map[byte][]byte{1: []byte("s3cr3t")}, testParams)
	require.NoError(t, err)
	return s
}

// inlineTx runs fn directly.
type inlineTx struct{}

func (inlineTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memUsers struct {
	mu  sync.Mutex
	ids map[int64]bool
}

func newMemUsers() *memUsers { return &memUsers{ids: map[int64]bool{}} }

func (u *memUsers) Ensure(_ context.Context, id int64) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.ids[id] = true
	return nil
}

func (u *memUsers) GetByID(_ context.Context, id int64) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.ids[id] {
		return model.User{}, model.ErrNotFound
	}
	return model.User{ID: id}, nil
}

// memAccounts is an in-memory model.AccountStore with the same semantics as
// the postgres repository. GetByIDForUpdate takes a per-row lock released by
// the enclosing lockingTx.
type memAccounts struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]model.Account
	locks map[uuid.UUID]*sync.Mutex

	updateTokenCalls int
}

func newMemAccounts() *memAccounts {
	return &memAccounts{rows: map[uuid.UUID]model.Account{}, locks: map[uuid.UUID]*sync.Mutex{}}
}

func (m *memAccounts) put(a model.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[a.ID] = a
}

func (m *memAccounts) get(id uuid.UUID) model.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

func (m *memAccounts) Create(_ context.Context, a model.Account) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, row := range m.rows {
		if row.UserID == a.UserID && row.Email == a.Email {
			if row.Active {
				return model.Account{}, model.ErrAlreadyExists
			}
			row.CredentialsCiphertext = a.CredentialsCiphertext
			row.TokenCiphertext = a.TokenCiphertext
			row.Active = true
			row.ReauthRequired = false
			m.rows[id] = row
			return row, nil
		}
	}
	a.CreatedAt = time.Now()
	m.rows[a.ID] = a
	return a, nil
}

func (m *memAccounts) GetByID(_ context.Context, id uuid.UUID) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return a, nil
}

func (m *memAccounts) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (model.Account, error) {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.mu.Unlock()

	l.Lock()
	if held, ok := ctx.Value(heldLocksKey{}).(*[]*sync.Mutex); ok {
		*held = append(*held, l)
	} else {
		l.Unlock()
	}
	return m.GetByID(ctx, id)
}

func (m *memAccounts) filter(keep func(model.Account) bool) []model.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Account
	for _, a := range m.rows {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (m *memAccounts) ListActiveByEmail(_ context.Context, email string) ([]model.Account, error) {
	return m.filter(func(a model.Account) bool { return a.Active && a.Email == email }), nil
}

func (m *memAccounts) ListActiveByUser(_ context.Context, userID int64) ([]model.Account, error) {
	return m.filter(func(a model.Account) bool { return a.Active && a.UserID == userID }), nil
}

func (m *memAccounts) ListActive(_ context.Context) ([]model.Account, error) {
	return m.filter(func(a model.Account) bool { return a.Active }), nil
}

func (m *memAccounts) ListAll(_ context.Context) ([]model.Account, error) {
	return m.filter(func(model.Account) bool { return true }), nil
}

func (m *memAccounts) CountActiveByUser(ctx context.Context, userID int64) (int, error) {
	list, _ := m.ListActiveByUser(ctx, userID)
	return len(list), nil
}

func (m *memAccounts) update(id uuid.UUID, activeOnly bool, fn func(*model.Account)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok || (activeOnly && !a.Active) {
		return model.ErrNotFound
	}
	fn(&a)
	m.rows[id] = a
	return nil
}

func (m *memAccounts) UpdateToken(_ context.Context, id uuid.UUID, ct []byte) error {
	m.mu.Lock()
	m.updateTokenCalls++
	m.mu.Unlock()
	return m.update(id, true, func(a *model.Account) {
		a.TokenCiphertext = ct
		a.ReauthRequired = false
	})
}

func (m *memAccounts) UpdateCiphertexts(_ context.Context, id uuid.UUID, creds, token []byte) error {
	return m.update(id, false, func(a *model.Account) {
		a.CredentialsCiphertext = creds
		a.TokenCiphertext = token
	})
}

func (m *memAccounts) MarkReauthRequired(_ context.Context, id uuid.UUID) error {
	return m.update(id, false, func(a *model.Account) { a.ReauthRequired = true })
}

func (m *memAccounts) AdvanceHistoryCursor(_ context.Context, id uuid.UUID, historyID uint64) error {
	return m.update(id, false, func(a *model.Account) {
		if a.LastHistoryID == nil || *a.LastHistoryID < historyID {
			v := historyID
			a.LastHistoryID = &v
		}
	})
}

func (m *memAccounts) SetAutoDelete(_ context.Context, id uuid.UUID, secs int) error {
	return m.update(id, true, func(a *model.Account) { a.AutoDeleteSecs = secs })
}

func (m *memAccounts) Deactivate(_ context.Context, id uuid.UUID) error {
	return m.update(id, true, func(a *model.Account) { a.Active = false })
}

type heldLocksKey struct{}

// lockingTx releases row locks taken by memAccounts when fn returns.
type lockingTx struct{}

func (lockingTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	var held []*sync.Mutex
	defer func() {
		for _, l := range held {
			l.Unlock()
		}
	}()
	return fn(context.WithValue(ctx, heldLocksKey{}, &held))
}

func ptr[T any](v T) *T { return &v }
