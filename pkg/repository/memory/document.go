package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
	"github.com/docket-hq/docket/pkg/utils/snapshot"
)

type documentRepository struct {
	mu      sync.RWMutex
	records []*model.Document
	snap    *snapshot.Value[[]*model.Document]
}

func newDocumentRepository() *documentRepository {
	return &documentRepository{
		snap: snapshot.New([]*model.Document{}),
	}
}

func cloneDocuments(docs []*model.Document) []*model.Document {
	cloned := make([]*model.Document, len(docs))
	for i, d := range docs {
		cloned[i] = d.Clone()
	}
	return cloned
}

// Mutators clone the records under mu, then notify after releasing it:
// snap.Set runs observers synchronously, and an observer may call back
// into the repository.

func (r *documentRepository) Add(ctx context.Context, docs []*model.Document) error {
	for _, d := range docs {
		if err := d.Validate(); err != nil {
			return goerr.Wrap(err, "invalid document")
		}
	}

	r.mu.Lock()
	for _, d := range docs {
		added := d.Clone()
		added.Normalize()
		r.records = append(r.records, added)
	}
	next := cloneDocuments(r.records)
	r.mu.Unlock()

	r.snap.Set(next)
	return nil
}

func (r *documentRepository) Get(ctx context.Context, id types.DocumentID) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.records {
		if d.ID == id {
			return d.Clone(), nil
		}
	}
	return nil, nil
}

func (r *documentRepository) List(ctx context.Context) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneDocuments(r.records), nil
}

func (r *documentRepository) UpdateTags(ctx context.Context, id types.DocumentID, tags []string) error {
	r.mu.Lock()
	changed := false
	for _, d := range r.records {
		if d.ID == id {
			d.Tags = append([]string{}, tags...)
			changed = true
			break
		}
	}
	if !changed {
		r.mu.Unlock()
		return nil
	}
	next := cloneDocuments(r.records)
	r.mu.Unlock()

	r.snap.Set(next)
	return nil
}

func (r *documentRepository) Remove(ctx context.Context, id types.DocumentID) error {
	r.mu.Lock()
	filtered := r.records[:0]
	changed := false
	for _, d := range r.records {
		if d.ID == id {
			changed = true
			continue
		}
		filtered = append(filtered, d)
	}
	if !changed {
		r.mu.Unlock()
		return nil
	}
	r.records = filtered
	next := cloneDocuments(r.records)
	r.mu.Unlock()

	r.snap.Set(next)
	return nil
}

func (r *documentRepository) Subscribe(fn func([]*model.Document)) func() {
	return r.snap.Subscribe(fn)
}
