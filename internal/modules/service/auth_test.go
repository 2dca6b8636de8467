package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/folio-works/portfolio/internal/config"
	"github.com/folio-works/portfolio/internal/modules/model"
)

func TestAuthService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	configs := map[string]config.AdminCfg{
		"plaintext password": {Username: "admin", Password: "s3cret-pass"},
		"precomputed hash":   {Username: "admin", PasswordHash: string(hash)},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			svc, err := NewAuthService(cfg, zap.NewNop())
			require.NoError(t, err)
			ctx := context.Background()

			u, err := svc.Authenticate(ctx, "admin", "s3cret-pass")
			require.NoError(t, err)
			assert.Equal(t, &model.User{ID: model.AdminUserID, Username: "admin", IsAdmin: true}, u)

			_, err = svc.Authenticate(ctx, "admin", "wrong")
			assert.ErrorIs(t, err, ErrInvalidCredentials)

			_, err = svc.Authenticate(ctx, "root", "s3cret-pass")
			assert.ErrorIs(t, err, ErrInvalidCredentials)

			_, err = svc.Authenticate(ctx, "", "")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestNewAuthService_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.AdminCfg
	}{
		{"no username", config.AdminCfg{Password: "x"}},
		{"no password", config.AdminCfg{Username: "admin"}},
		{"malformed hash", config.AdminCfg{Username: "admin", PasswordHash: "not-a-bcrypt-hash"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAuthService(tt.cfg, zap.NewNop())
			assert.Error(t, err)
		})
	}
}
