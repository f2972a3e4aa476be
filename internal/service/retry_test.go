package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/autoxmail-server/internal/model"
)

func TestRetryTransient(t *testing.T) {
	policy := RetryPolicy{Retries: 2, BaseDelay: time.Millisecond}

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{name: "success", errs: []error{nil}, wantCalls: 1},
		{name: "recovers", errs: []error{model.ErrTransientProvider, fmt.Errorf("wrapped: %w", model.ErrTransientProvider), nil}, wantCalls: 3},
		{name: "exhausted", errs: []error{model.ErrTransientProvider, model.ErrTransientProvider, model.ErrTransientProvider}, wantCalls: 3, wantErr: model.ErrTransientProvider},
		{name: "terminal", errs: []error{model.ErrReauthorizationRequired}, wantCalls: 1, wantErr: model.ErrReauthorizationRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retryTransient(context.Background(), policy, func(context.Context) error {
				err := tt.errs[calls]
				calls++
				return err
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetryTransient_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retryTransient(ctx, RetryPolicy{Retries: 5, BaseDelay: time.Hour}, func(context.Context) error {
		return model.ErrTransientProvider
	})
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, model.ErrTransientProvider))
}
