package interfaces

import (
	"context"

	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
)

// CaseRepository defines the interface for case record access. Records
// keep insertion order; no sorting is applied by the repository.
type CaseRepository interface {
	// Add appends a case. The caller guarantees the ID does not collide
	// with an existing record; no collision detection is performed.
	Add(ctx context.Context, c *model.Case) error

	// Get retrieves a case by ID.
	// Returns nil, nil if no case exists with the given ID.
	Get(ctx context.Context, id types.CaseID) (*model.Case, error)

	// List retrieves all cases in insertion order.
	List(ctx context.Context) ([]*model.Case, error)

	// Update replaces the case whose ID matches c.ID verbatim, keeping
	// its position. A missing ID is a silent no-op.
	Update(ctx context.Context, c *model.Case) error

	// Remove deletes the case by ID. A missing ID is a silent no-op, so
	// Remove is idempotent.
	Remove(ctx context.Context, id types.CaseID) error

	// Subscribe registers an observer of the case snapshot. The observer
	// fires once immediately with the current snapshot and again after
	// every mutation. The returned function unsubscribes.
	Subscribe(fn func([]*model.Case)) func()
}
