package service

import (
	"context"
	"crypto/subtle"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model/dto"
	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/logger"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/token"
)

// AuthService covers both sides of authentication: passkey lookup for field
// devices and token-backed login for the admin surface.
type AuthService struct {
	store  repository.Store
	tokens token.Store
}

func NewAuthService(store repository.Store, tokens token.Store) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

// VerifyPasskey resolves a device passkey to its user. Unknown passkeys are
// indistinguishable from empty ones on purpose.
func (s *AuthService) VerifyPasskey(ctx context.Context, passkey string) (*dto.UserInfoResponse, error) {
	if passkey == "" {
		return nil, errors.InvalidPasskey
	}

	u, err := s.store.Users().GetByPasskey(ctx, passkey)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.InvalidPasskey
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &dto.UserInfoResponse{
		UserID:         u.UserID,
		UserName:       u.UserName,
		Department:     u.Department,
		DepartmentName: u.DepartmentName,
	}, nil
}

func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (*dto.AdminLoginResponse, error) {
	a, err := s.store.Admins().GetByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.AdminLoginFailed
		}
		return nil, fmt.Errorf("failed to query admin: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(a.Password), []byte(password)) != 1 {
		return nil, errors.AdminLoginFailed
	}

	tok, expiresIn, err := s.tokens.Issue(ctx, token.Session{
		Username:   a.Username,
		Role:       string(a.Role),
		Department: a.Department,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Logger.Info("Admin logged in",
		zap.String("username", a.Username),
		zap.String("role", string(a.Role)),
	)

	return &dto.AdminLoginResponse{
		Token:     tok,
		ExpiresIn: expiresIn,
		Role:      string(a.Role),
	}, nil
}

func (s *AuthService) AdminLogout(ctx context.Context, tok string) error {
	return s.tokens.Revoke(ctx, tok)
}

// ValidateAdminToken is what the admin middleware calls per request.
func (s *AuthService) ValidateAdminToken(ctx context.Context, tok string) (*token.Session, error) {
	return s.tokens.Validate(ctx, tok)
}
