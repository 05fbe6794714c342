package interfaces

import (
	"context"

	"github.com/docket-hq/docket/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence
type Repository interface {
	Case() CaseRepository
	Document() DocumentRepository

	// Auth methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error

	Close() error
}
