package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TokenID identifies a session token. The secret is the proof of
// possession and never appears in logs.
type TokenID string

// TokenSecret is the session secret paired with a TokenID.
type TokenSecret string

// TokenTTL is the session lifetime.
const TokenTTL = 7 * 24 * time.Hour

// AnonymousUserID is the subject used when authentication is disabled.
const AnonymousUserID = "anonymous"

// Token is a server-side session record.
type Token struct {
	ID        TokenID     `json:"id"`
	Secret    TokenSecret `json:"secret" masq:"secret"`
	Sub       string      `json:"sub"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// NewToken issues a fresh session token for the given user.
func NewToken(sub, email, name string) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        TokenID(uuid.NewString()),
		Secret:    TokenSecret(uuid.NewString()),
		Sub:       sub,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(TokenTTL),
	}
}

// NewAnonymousUser returns a token representing the anonymous user for
// no-auth deployments.
func NewAnonymousUser() *Token {
	return NewToken(AnonymousUserID, "", "Anonymous")
}

// Validate checks structural validity of the token.
func (t *Token) Validate() error {
	if t.ID == "" {
		return goerr.New("token ID is empty")
	}
	if t.Secret == "" {
		return goerr.New("token secret is empty")
	}
	if t.Sub == "" {
		return goerr.New("token subject is empty")
	}
	return nil
}

// IsExpired reports whether the token is past its expiry.
func (t *Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (id TokenID) Validate() error {
	if id == "" {
		return goerr.New("token ID is empty")
	}
	return nil
}

func (id TokenID) String() string {
	return string(id)
}

func (s TokenSecret) String() string {
	return string(s)
}

type ctxTokenKey struct{}

// ContextWithToken binds the authenticated token to the context.
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext extracts the authenticated token from the context.
func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok || token == nil {
		return nil, goerr.New("no token in context")
	}
	return token, nil
}
