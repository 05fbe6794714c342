package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/model/auth"
)

// NoAuthnUseCase skips authentication and acts as a fixed user. For
// development and testing only.
type NoAuthnUseCase struct {
	sub   string
	email string
	name  string
}

var _ AuthUseCaseInterface = &NoAuthnUseCase{}

// NewNoAuthnUseCase creates a new NoAuthnUseCase instance with specified user info
func NewNoAuthnUseCase(sub, email, name string) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		sub:   sub,
		email: email,
		name:  name,
	}
}

// Login always succeeds with a token for the configured user.
func (uc *NoAuthnUseCase) Login(ctx context.Context, email, password string) (*auth.Token, error) {
	return auth.NewToken(uc.sub, uc.email, uc.name), nil
}

// ValidateToken always returns a token for the configured user.
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	return auth.NewToken(uc.sub, uc.email, uc.name), nil
}

// Logout does nothing in no-auth mode.
func (uc *NoAuthnUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	return nil
}

// RequestPasswordReset is not available without real accounts.
func (uc *NoAuthnUseCase) RequestPasswordReset(ctx context.Context, email string) (*PasswordReset, error) {
	return nil, goerr.New("password reset is not available in no-auth mode")
}

// ConfirmPasswordReset is not available without real accounts.
func (uc *NoAuthnUseCase) ConfirmPasswordReset(ctx context.Context, resetToken, code, newPassword string) error {
	return goerr.New("password reset is not available in no-auth mode")
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
