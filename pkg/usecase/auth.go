package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
	"github.com/docket-hq/docket/pkg/domain/model/auth"
)

// AuthUseCaseInterface abstracts authentication so the HTTP layer works
// the same with real login and the no-auth development mode.
type AuthUseCaseInterface interface {
	Login(ctx context.Context, email, password string) (*auth.Token, error)
	ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error)
	Logout(ctx context.Context, tokenID auth.TokenID) error
	RequestPasswordReset(ctx context.Context, email string) (*PasswordReset, error)
	ConfirmPasswordReset(ctx context.Context, resetToken, code, newPassword string) error
	IsNoAuthn() bool
}

// PasswordResetTTL bounds how long a reset code stays usable.
const PasswordResetTTL = 10 * time.Minute

// PasswordReset is the outcome of a reset request. Token is the opaque
// handle the client must present on confirm; Code is the one-time code
// delivered to the user out of band.
type PasswordReset struct {
	Token     string
	Code      string `masq:"secret"`
	ExpiresAt time.Time
}

type AuthUseCase struct {
	repo    interfaces.Repository
	users   []*auth.User
	signKey []byte
	cache   *authCache

	// usedResets tracks consumed reset token IDs until their expiry, so
	// a stateless reset JWT cannot be replayed.
	usedResets sync.Map
}

var _ AuthUseCaseInterface = &AuthUseCase{}

// NewAuthUseCase builds the real authentication use case. users is the
// provisioned account list; signKey signs password-reset tokens.
func NewAuthUseCase(repo interfaces.Repository, users []*auth.User, signKey []byte) (*AuthUseCase, error) {
	if len(signKey) == 0 {
		return nil, goerr.New("auth sign key is required")
	}
	for _, u := range users {
		if err := u.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid user configuration")
		}
	}

	return &AuthUseCase{
		repo:    repo,
		users:   users,
		signKey: signKey,
		cache:   newAuthCache(),
	}, nil
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

func (uc *AuthUseCase) findUser(email string) *auth.User {
	for _, u := range uc.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

// Login verifies the credentials and issues a session token. The error is
// the same whether the account is unknown or the password is wrong.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*auth.Token, error) {
	user := uc.findUser(email)
	if user == nil {
		return nil, goerr.Wrap(ErrLoginFailed, "unknown account")
	}
	if err := user.CheckPassword(password); err != nil {
		return nil, goerr.Wrap(ErrLoginFailed, "password mismatch")
	}

	token := auth.NewToken(user.ID, user.Email, user.Name)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, goerr.Wrap(err, "failed to store token")
	}

	return token, nil
}

// ValidateToken validates the session and returns its token record.
func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	return uc.validateTokenWithCache(ctx, tokenID, tokenSecret)
}

// Logout deletes the session token.
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	uc.cache.remove(tokenID)
	return uc.repo.DeleteToken(ctx, tokenID)
}

// newResetCode draws a 6-digit one-time code.
func newResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate reset code")
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestPasswordReset issues a one-time 6-digit code for the account.
// The code itself never leaves the server response path: only a bcrypt
// hash of it travels inside the signed reset token. The error for an
// unknown account matches the success path shape at the HTTP layer, so
// this returning ErrLoginFailed must not leak to the client verbatim.
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, email string) (*PasswordReset, error) {
	user := uc.findUser(email)
	if user == nil {
		return nil, goerr.Wrap(ErrLoginFailed, "unknown account")
	}

	code, err := newResetCode()
	if err != nil {
		return nil, err
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to hash reset code")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(PasswordResetTTL)
	tok, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Subject(user.ID).
		Claim("email", user.Email).
		Claim("code_hash", string(codeHash)).
		IssuedAt(now).
		Expiration(expiresAt).
		Build()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build reset token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, uc.signKey))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sign reset token")
	}

	return &PasswordReset{
		Token:     string(signed),
		Code:      code,
		ExpiresAt: expiresAt,
	}, nil
}

// ConfirmPasswordReset checks the reset token and code, then replaces the
// account's password hash. Each reset token works at most once.
func (uc *AuthUseCase) ConfirmPasswordReset(ctx context.Context, resetToken, code, newPassword string) error {
	if newPassword == "" {
		return goerr.New("new password is required")
	}

	tok, err := jwt.Parse([]byte(resetToken),
		jwt.WithKey(jwa.HS256, uc.signKey),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(10*time.Second))
	if err != nil {
		return goerr.Wrap(ErrResetInvalid, "failed to verify reset token")
	}

	if _, used := uc.usedResets.Load(tok.JwtID()); used {
		return goerr.Wrap(ErrResetInvalid, "reset token already used")
	}

	hashClaim, ok := tok.Get("code_hash")
	if !ok {
		return goerr.Wrap(ErrResetInvalid, "code_hash claim not found")
	}
	codeHash, ok := hashClaim.(string)
	if !ok {
		return goerr.Wrap(ErrResetInvalid, "code_hash claim is not a string")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(codeHash), []byte(code)); err != nil {
		return goerr.Wrap(ErrResetInvalid, "reset code mismatch")
	}

	emailClaim, ok := tok.Get("email")
	if !ok {
		return goerr.Wrap(ErrResetInvalid, "email claim not found")
	}
	email, ok := emailClaim.(string)
	if !ok {
		return goerr.Wrap(ErrResetInvalid, "email claim is not a string")
	}

	user := uc.findUser(email)
	if user == nil {
		return goerr.Wrap(ErrResetInvalid, "account no longer exists")
	}

	if err := user.SetPassword(newPassword); err != nil {
		return goerr.Wrap(err, "failed to set password")
	}

	// Mark consumed only after success so a mistyped code does not burn
	// the token.
	uc.usedResets.Store(tok.JwtID(), tok.Expiration())
	uc.pruneUsedResets()
	return nil
}

// pruneUsedResets drops consumed reset IDs whose tokens have expired
// anyway.
func (uc *AuthUseCase) pruneUsedResets() {
	now := time.Now()
	uc.usedResets.Range(func(key, value any) bool {
		if exp, ok := value.(time.Time); ok && now.After(exp) {
			uc.usedResets.Delete(key)
		}
		return true
	})
}
