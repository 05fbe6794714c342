// Package jsonfile is the local repository backend. Case records stay in
// memory (seeded, not persisted); document metadata is persisted as a
// single JSON array index file under the storage root, rewritten in full
// on every mutation.
package jsonfile

import (
	"os"

	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
	"github.com/docket-hq/docket/pkg/repository/memory"
)

// Repository is the jsonfile-backed repository. It reuses the in-memory
// backend for cases and session tokens and persists only documents.
type Repository struct {
	*memory.Memory
	documents *documentRepository
}

var _ interfaces.Repository = &Repository{}

// New creates a repository rooted at the given directory, creating it if
// needed. Loading the document index is best-effort: a missing or
// malformed index yields an empty document list, never an error.
func New(root string) (*Repository, error) {
	if root == "" {
		return nil, goerr.New("storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage root", goerr.V("root", root))
	}

	mem, err := memory.New()
	if err != nil {
		return nil, err
	}

	return &Repository{
		Memory:    mem,
		documents: newDocumentRepository(root),
	}, nil
}

func (r *Repository) Document() interfaces.DocumentRepository {
	return r.documents
}
