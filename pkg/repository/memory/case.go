package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
	"github.com/docket-hq/docket/pkg/utils/snapshot"
)

// caseRepository keeps the ordered case list in memory. The slice is the
// canonical state; snap mirrors it for observers.
type caseRepository struct {
	mu      sync.RWMutex
	records []*model.Case
	snap    *snapshot.Value[[]*model.Case]
}

func newCaseRepository() (*caseRepository, error) {
	seed, err := model.SeedCases()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load seed cases")
	}

	return &caseRepository{
		records: seed,
		snap:    snapshot.New(cloneCases(seed)),
	}, nil
}

func cloneCases(cases []*model.Case) []*model.Case {
	cloned := make([]*model.Case, len(cases))
	for i, c := range cases {
		cloned[i] = c.Clone()
	}
	return cloned
}

// Mutators clone the records under mu, then notify after releasing it:
// snap.Set runs observers synchronously, and an observer may call back
// into the repository.

func (r *caseRepository) Add(ctx context.Context, c *model.Case) error {
	if err := c.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid case")
	}

	r.mu.Lock()
	r.records = append(r.records, c.Clone())
	next := cloneCases(r.records)
	r.mu.Unlock()

	r.snap.Set(next)
	return nil
}

func (r *caseRepository) Get(ctx context.Context, id types.CaseID) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.records {
		if c.ID == id {
			return c.Clone(), nil
		}
	}
	return nil, nil
}

func (r *caseRepository) List(ctx context.Context) ([]*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneCases(r.records), nil
}

func (r *caseRepository) Update(ctx context.Context, c *model.Case) error {
	r.mu.Lock()
	changed := false
	for i, existing := range r.records {
		if existing.ID == c.ID {
			r.records[i] = c.Clone()
			changed = true
			break
		}
	}
	if !changed {
		r.mu.Unlock()
		return nil
	}
	next := cloneCases(r.records)
	r.mu.Unlock()

	r.snap.Set(next)
	return nil
}

func (r *caseRepository) Remove(ctx context.Context, id types.CaseID) error {
	r.mu.Lock()
	filtered := r.records[:0]
	changed := false
	for _, c := range r.records {
		if c.ID == id {
			changed = true
			continue
		}
		filtered = append(filtered, c)
	}
	if !changed {
		r.mu.Unlock()
		return nil
	}
	r.records = filtered
	next := cloneCases(r.records)
	r.mu.Unlock()

	r.snap.Set(next)
	return nil
}

func (r *caseRepository) Subscribe(fn func([]*model.Case)) func() {
	return r.snap.Subscribe(fn)
}
