package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
	"github.com/docket-hq/docket/pkg/utils/snapshot"
)

type documentRepository struct {
	client           *firestore.Client
	collectionPrefix string
	snap             *snapshot.Value[[]*model.Document]
}

type documentDoc struct {
	Document *model.Document `firestore:"document"`
	AddedAt  time.Time       `firestore:"added_at"`
}

func newDocumentRepository(client *firestore.Client) *documentRepository {
	return &documentRepository{
		client: client,
		snap:   snapshot.New([]*model.Document{}),
	}
}

func (r *documentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_documents"
	}
	return "documents"
}

func (r *documentRepository) list(ctx context.Context) ([]*model.Document, error) {
	iter := r.client.Collection(r.collection()).OrderBy("added_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	docs := []*model.Document{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents")
		}

		var d documentDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode document", goerr.V("doc_id", docSnap.Ref.ID))
		}
		if d.Document == nil {
			continue
		}
		d.Document.Normalize()
		docs = append(docs, d.Document)
	}

	return docs, nil
}

func (r *documentRepository) refresh(ctx context.Context) error {
	docs, err := r.list(ctx)
	if err != nil {
		return err
	}
	r.snap.Set(docs)
	return nil
}

func (r *documentRepository) Add(ctx context.Context, docs []*model.Document) error {
	for _, d := range docs {
		if err := d.Validate(); err != nil {
			return goerr.Wrap(err, "invalid document")
		}
	}

	// Batch timestamps keep the upload order stable within one call.
	base := time.Now().UTC()
	bw := r.client.BulkWriter(ctx)
	for i, d := range docs {
		added := d.Clone()
		added.Normalize()
		doc := documentDoc{Document: added, AddedAt: base.Add(time.Duration(i) * time.Microsecond)}
		if _, err := bw.Set(r.client.Collection(r.collection()).Doc(added.ID.String()), doc); err != nil {
			return goerr.Wrap(err, "failed to queue document write", goerr.V("id", added.ID))
		}
	}
	bw.End()

	return r.refresh(ctx)
}

func (r *documentRepository) Get(ctx context.Context, id types.DocumentID) (*model.Document, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get document", goerr.V("id", id))
	}

	var d documentDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode document", goerr.V("id", id))
	}
	if d.Document == nil {
		return nil, nil
	}
	d.Document.Normalize()

	return d.Document, nil
}

func (r *documentRepository) List(ctx context.Context) ([]*model.Document, error) {
	return r.list(ctx)
}

func (r *documentRepository) UpdateTags(ctx context.Context, id types.DocumentID, tags []string) error {
	ref := r.client.Collection(r.collection()).Doc(id.String())

	docSnap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return goerr.Wrap(err, "failed to get document", goerr.V("id", id))
	}

	var d documentDoc
	if err := docSnap.DataTo(&d); err != nil {
		return goerr.Wrap(err, "failed to decode document", goerr.V("id", id))
	}
	if d.Document == nil {
		return nil
	}

	d.Document.Tags = append([]string{}, tags...)
	if _, err := ref.Set(ctx, d); err != nil {
		return goerr.Wrap(err, "failed to update document tags", goerr.V("id", id))
	}

	return r.refresh(ctx)
}

func (r *documentRepository) Remove(ctx context.Context, id types.DocumentID) error {
	if _, err := r.client.Collection(r.collection()).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to remove document", goerr.V("id", id))
	}

	return r.refresh(ctx)
}

func (r *documentRepository) Subscribe(fn func([]*model.Document)) func() {
	return r.snap.Subscribe(fn)
}
