package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
	"github.com/docket-hq/docket/pkg/utils/logging"
	"github.com/docket-hq/docket/pkg/utils/snapshot"
)

// indexFileName is the fixed name of the document index under the root.
const indexFileName = "documents.json"

type documentRepository struct {
	mu        sync.RWMutex
	indexPath string
	records   []*model.Document
	snap      *snapshot.Value[[]*model.Document]
}

func newDocumentRepository(root string) *documentRepository {
	r := &documentRepository{
		indexPath: filepath.Join(root, indexFileName),
	}
	r.records = r.load()
	r.snap = snapshot.New(cloneDocuments(r.records))
	return r
}

// load reads the index file. Any failure (missing file, bad JSON) yields
// an empty list: the index is a cache of record metadata, not the only
// copy of the blobs, so starting over beats refusing to start.
func (r *documentRepository) load() []*model.Document {
	data, err := os.ReadFile(r.indexPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Default().Warn("failed to read document index, starting empty",
				"path", r.indexPath, "error", err.Error())
		}
		return []*model.Document{}
	}

	var docs []*model.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		logging.Default().Warn("document index is malformed, starting empty",
			"path", r.indexPath, "error", err.Error())
		return []*model.Document{}
	}

	// A null element decodes without error but yields a nil record.
	records := make([]*model.Document, 0, len(docs))
	for _, d := range docs {
		if d == nil {
			logging.Default().Warn("document index contains a null record, skipping",
				"path", r.indexPath)
			continue
		}
		d.Normalize()
		records = append(records, d)
	}
	return records
}

// persist rewrites the whole index file. Must be called with mu held. The
// write is staged to a temp file and renamed so a crash mid-write cannot
// leave a truncated index.
func (r *documentRepository) persist() error {
	data, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode document index")
	}

	dir := filepath.Dir(r.indexPath)
	tmp, err := os.CreateTemp(dir, ".index-*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp index file", goerr.V("dir", dir))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return goerr.Wrap(err, "failed to write document index")
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close temp index file")
	}
	if err := os.Rename(tmp.Name(), r.indexPath); err != nil {
		return goerr.Wrap(err, "failed to replace document index", goerr.V("path", r.indexPath))
	}
	return nil
}

func cloneDocuments(docs []*model.Document) []*model.Document {
	cloned := make([]*model.Document, len(docs))
	for i, d := range docs {
		cloned[i] = d.Clone()
	}
	return cloned
}

// flush rewrites the index and clones the records for publication. Must be
// called with mu held; the caller hands the clone to snap.Set only after
// releasing the lock, since observers run synchronously and may call back
// into the repository. The in-memory state is the source of truth even
// when persistence fails, so observers are notified either way.
func (r *documentRepository) flush(ctx context.Context) ([]*model.Document, error) {
	next := cloneDocuments(r.records)
	if err := r.persist(); err != nil {
		logging.From(ctx).Error("failed to persist document index, in-memory snapshot retained",
			"path", r.indexPath, "error", err.Error())
		return next, err
	}
	return next, nil
}

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
	next, err := r.flush(ctx)
	r.mu.Unlock()

	r.snap.Set(next)
	return err
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
	next, err := r.flush(ctx)
	r.mu.Unlock()

	r.snap.Set(next)
	return err
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
	next, err := r.flush(ctx)
	r.mu.Unlock()

	r.snap.Set(next)
	return err
}

func (r *documentRepository) Subscribe(fn func([]*model.Document)) func() {
	return r.snap.Subscribe(fn)
}
