package interfaces

import (
	"context"

	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
)

// DocumentRepository defines the interface for document metadata access.
// It owns metadata only; the backing blobs live in a Storage and are
// coordinated by the document use case.
type DocumentRepository interface {
	// Add appends all given documents in one batch and persists the
	// snapshot. Backing blobs are assumed to already exist; the
	// repository does not verify them. IDs must not collide with
	// existing records (caller precondition).
	Add(ctx context.Context, docs []*model.Document) error

	// Get retrieves a document by ID.
	// Returns nil, nil if no document exists with the given ID.
	Get(ctx context.Context, id types.DocumentID) (*model.Document, error)

	// List retrieves all documents in insertion order.
	List(ctx context.Context) ([]*model.Document, error)

	// UpdateTags replaces the tag list of the matching document and
	// persists. A missing ID is a silent no-op.
	UpdateTags(ctx context.Context, id types.DocumentID, tags []string) error

	// Remove deletes the document metadata by ID and persists. A missing
	// ID is a silent no-op.
	Remove(ctx context.Context, id types.DocumentID) error

	// Subscribe registers an observer of the document snapshot, replayed
	// immediately and after every mutation. The returned function
	// unsubscribes.
	Subscribe(fn func([]*model.Document)) func()
}
