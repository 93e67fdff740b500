// Package auth authenticates the single back-office admin.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/narusushi/lunch-backend/pkg/auth"
	"github.com/narusushi/lunch-backend/pkg/config"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
	"github.com/narusushi/lunch-backend/pkg/logger"
	"github.com/narusushi/lunch-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the admin login controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type service struct {
	admin config.AdminConfig
	jwt   config.JWTConfig
	logg  *logger.Logger
	now   func() time.Time
}

// ServiceParams bundles the dependencies required to build the login service.
type ServiceParams struct {
	Admin  config.AdminConfig
	JWT    config.JWTConfig
	Logger *logger.Logger
	Clock  func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if strings.TrimSpace(params.Admin.PasswordHash) == "" {
		return nil, fmt.Errorf("admin password hash is required")
	}
	if strings.TrimSpace(params.JWT.Secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &service{admin: params.Admin, jwt: params.JWT, logg: params.Logger, now: now}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}

	// Both checks always run so timing does not reveal which one failed.
	userOK := security.EqualStrings(username, s.admin.Username)
	passOK, err := security.VerifyPassword(req.Password, s.admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify admin password")
	}
	if !userOK || !passOK {
		s.logg.Warn(ctx, "admin login rejected")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, expiresAt, err := pkgAuth.MintAdminToken(s.jwt, s.now(), username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	s.logg.Info(ctx, "admin login succeeded")
	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Username:    username,
	}, nil
}
