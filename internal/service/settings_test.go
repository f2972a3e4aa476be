package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/autoxmail-server/internal/mocks"
	"github.com/dtroode/autoxmail-server/internal/model"
	"github.com/dtroode/autoxmail-server/internal/testutil"
)

func TestNormalizeSenderEntry(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Boss@Corp.com", want: "boss@corp.com"},
		{in: "  @Newsletter.COM ", want: "@newsletter.com"},
		{in: `"The Boss" <Boss@Corp.com>`, want: "boss@corp.com"},
		{in: "@localhost", wantErr: true},
		{in: "@", wantErr: true},
		{in: "@a@b.com", wantErr: true},
		{in: "not an address", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeSenderEntry(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidSenderEntry)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newTestSettingsService(t *testing.T) (*SettingsService, *mocks.SettingsStore, *mocks.SenderListStore, *memAccounts) {
	t.Helper()
	settings := mocks.NewSettingsStore(t)
	lists := mocks.NewSenderListStore(t)
	creds, accounts := newTestCredentialStore(t)
	return NewSettingsService(settings, lists, creds, testutil.MakeNoopLogger()), settings, lists, accounts
}

func TestSettingsService_SenderLists(t *testing.T) {
	ctx := context.Background()
	svc, _, lists, _ := newTestSettingsService(t)

	lists.On("Add", ctx, model.SenderListVIP, int64(1), "boss@corp.com").Return(nil).Once()
	got, err := svc.AddSender(ctx, model.SenderListVIP, 1, "Boss@Corp.com")
	require.NoError(t, err)
	assert.Equal(t, "boss@corp.com", got)

	_, err = svc.AddSender(ctx, model.SenderListBlock, 1, "nonsense")
	assert.ErrorIs(t, err, model.ErrInvalidSenderEntry)

	lists.On("Add", ctx, model.SenderListBlock, int64(1), "@spam.biz").Return(errors.New("db down")).Once()
	_, err = svc.AddSender(ctx, model.SenderListBlock, 1, "@spam.biz")
	assert.Error(t, err)

	lists.On("Remove", ctx, model.SenderListBlock, int64(1), "@spam.biz").Return(nil).Once()
	require.NoError(t, svc.RemoveSender(ctx, model.SenderListBlock, 1, " @SPAM.biz"))

	lists.On("List", ctx, model.SenderListVIP, int64(1)).
		Return([]model.SenderEntry{{UserID: 1, Value: "a@b.c"}, {UserID: 1, Value: "@corp.com"}}, nil).Once()
	values, err := svc.ListSenders(ctx, model.SenderListVIP, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.c", "@corp.com"}, values)
}

func TestSettingsService_SetPushMode(t *testing.T) {
	ctx := context.Background()
	svc, settings, _, _ := newTestSettingsService(t)

	settings.On("GetNotificationSettings", ctx, int64(1)).Return(model.DefaultNotificationSettings(1), nil).Once()
	settings.On("SaveNotificationSettings", ctx, model.NotificationSettings{
		UserID:            1,
		PushMode:          model.PushModeOTP,
		ExcludeSpam:       true,
		ExcludePromotions: true,
	}).Return(nil).Once()
	require.NoError(t, svc.SetPushMode(ctx, 1, " OTP "))

	err := svc.SetPushMode(ctx, 1, "loud")
	assert.ErrorIs(t, err, model.ErrInvalidPushMode)
}

func TestSettingsService_SetExclusions(t *testing.T) {
	ctx := context.Background()
	svc, settings, _, _ := newTestSettingsService(t)

	settings.On("GetNotificationSettings", ctx, int64(1)).Return(model.NotificationSettings{
		UserID: 1, PushMode: model.PushModeVIP, ExcludeSpam: true, ExcludePromotions: true,
	}, nil).Once()
	settings.On("SaveNotificationSettings", ctx, model.NotificationSettings{
		UserID: 1, PushMode: model.PushModeVIP, ExcludeSpam: false, ExcludePromotions: true,
	}).Return(nil).Once()
	require.NoError(t, svc.SetExclusions(ctx, 1, false, true))

	settings.On("GetNotificationSettings", ctx, int64(2)).Return(model.NotificationSettings{}, errors.New("db down")).Once()
	assert.Error(t, svc.SetExclusions(ctx, 2, true, true))
	settings.AssertNumberOfCalls(t, "SaveNotificationSettings", 1)
}

func TestSettingsService_AutoDelete(t *testing.T) {
	ctx := context.Background()
	svc, settings, _, accounts := newTestSettingsService(t)

	settings.On("SavePrivacySettings", ctx, model.PrivacySettings{UserID: 1, GlobalAutoDeleteSecs: 300}).Return(nil).Once()
	require.NoError(t, svc.SetGlobalAutoDelete(ctx, 1, 300))
	assert.Error(t, svc.SetGlobalAutoDelete(ctx, 1, -1))

	account := model.Account{ID: uuid.New(), UserID: 1, Email: "a@b.c", Active: true}
	accounts.put(account)

	require.NoError(t, svc.SetAccountAutoDelete(ctx, 1, account.ID, 30))
	assert.Equal(t, 30, accounts.get(account.ID).AutoDeleteSecs)

	err := svc.SetAccountAutoDelete(ctx, 2, account.ID, 60)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 30, accounts.get(account.ID).AutoDeleteSecs)

	settings.On("GetPrivacySettings", ctx, int64(1)).Return(model.PrivacySettings{UserID: 1, GlobalAutoDeleteSecs: 300}, nil).Once()
	p, err := svc.PrivacySettings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 300, p.GlobalAutoDeleteSecs)

	settings.AssertNotCalled(t, "SaveNotificationSettings", mock.Anything, mock.Anything)
}
