package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/folio-works/portfolio/internal/config"
	"github.com/folio-works/portfolio/internal/modules/model"
)

var ErrInvalidCredentials = errors.New("incorrect username or password")

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

type authService struct {
	username []byte
	hash     []byte
	log      *zap.Logger
}

// NewAuthService prepares the single admin account. A plaintext password is hashed once here
// and discarded; only the bcrypt hash is ever compared.
func NewAuthService(cfg config.AdminCfg, log *zap.Logger) (AuthService, error) {
	if cfg.Username == "" {
		return nil, errors.New("admin username is empty")
	}

	var hash []byte
	switch {
	case cfg.PasswordHash != "":
		hash = []byte(cfg.PasswordHash)
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
	case cfg.Password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = h
	default:
		return nil, errors.New("admin password is not configured")
	}

	return &authService{username: []byte(cfg.Username), hash: hash, log: log}, nil
}

func (s *authService) Authenticate(_ context.Context, username, password string) (*model.User, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), s.username) == 1
	// always pay for the hash comparison so a wrong username is not faster to detect
	passErr := bcrypt.CompareHashAndPassword(s.hash, []byte(password))

	if !userOK || passErr != nil {
		s.log.Sugar().Warnw("admin login rejected", "username", username)
		return nil, ErrInvalidCredentials
	}
	return &model.User{ID: model.AdminUserID, Username: string(s.username), IsAdmin: true}, nil
}
