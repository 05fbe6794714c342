// Package firestore is the network-backed repository backend. Unlike the
// local backends, case records are durable here; the embedded seed list
// is not used.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
)

// ErrNotFound is returned by token lookups for unknown IDs.
var ErrNotFound = goerr.New("not found")

type Firestore struct {
	client    *firestore.Client
	cases     *caseRepository
	documents *documentRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, mainly for tests
// sharing one database.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.cases.collectionPrefix = prefix
		f.documents.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:    client,
		cases:     newCaseRepository(client),
		documents: newDocumentRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	// Prime local snapshots so subscribers see current server state.
	if err := f.cases.refresh(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to load cases")
	}
	if err := f.documents.refresh(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to load documents")
	}

	return f, nil
}

func (f *Firestore) Case() interfaces.CaseRepository {
	return f.cases
}

func (f *Firestore) Document() interfaces.DocumentRepository {
	return f.documents
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
