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

type caseRepository struct {
	client           *firestore.Client
	collectionPrefix string
	snap             *snapshot.Value[[]*model.Case]
}

// caseDoc wraps a case with the field that preserves insertion order
// across queries.
type caseDoc struct {
	Case    *model.Case `firestore:"case"`
	AddedAt time.Time   `firestore:"added_at"`
}

func newCaseRepository(client *firestore.Client) *caseRepository {
	return &caseRepository{
		client: client,
		snap:   snapshot.New([]*model.Case{}),
	}
}

func (r *caseRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_cases"
	}
	return "cases"
}

func (r *caseRepository) list(ctx context.Context) ([]*model.Case, error) {
	iter := r.client.Collection(r.collection()).OrderBy("added_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	cases := []*model.Case{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate cases")
		}

		var d caseDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode case", goerr.V("doc_id", docSnap.Ref.ID))
		}
		cases = append(cases, d.Case)
	}

	return cases, nil
}

// refresh reloads the local snapshot from the server and notifies
// subscribers. Mutations from other processes are only observed here.
func (r *caseRepository) refresh(ctx context.Context) error {
	cases, err := r.list(ctx)
	if err != nil {
		return err
	}
	r.snap.Set(cases)
	return nil
}

func (r *caseRepository) Add(ctx context.Context, c *model.Case) error {
	if err := c.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid case")
	}

	d := caseDoc{Case: c, AddedAt: time.Now().UTC()}
	if _, err := r.client.Collection(r.collection()).Doc(c.ID.String()).Set(ctx, d); err != nil {
		return goerr.Wrap(err, "failed to add case", goerr.V("id", c.ID))
	}

	return r.refresh(ctx)
}

func (r *caseRepository) Get(ctx context.Context, id types.CaseID) (*model.Case, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V("id", id))
	}

	var d caseDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode case", goerr.V("id", id))
	}

	return d.Case, nil
}

func (r *caseRepository) List(ctx context.Context) ([]*model.Case, error) {
	return r.list(ctx)
}

func (r *caseRepository) Update(ctx context.Context, c *model.Case) error {
	ref := r.client.Collection(r.collection()).Doc(c.ID.String())

	docSnap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return goerr.Wrap(err, "failed to get case", goerr.V("id", c.ID))
	}

	var existing caseDoc
	if err := docSnap.DataTo(&existing); err != nil {
		return goerr.Wrap(err, "failed to decode case", goerr.V("id", c.ID))
	}

	// Keep the original position in the ordered snapshot.
	d := caseDoc{Case: c, AddedAt: existing.AddedAt}
	if _, err := ref.Set(ctx, d); err != nil {
		return goerr.Wrap(err, "failed to update case", goerr.V("id", c.ID))
	}

	return r.refresh(ctx)
}

func (r *caseRepository) Remove(ctx context.Context, id types.CaseID) error {
	// Delete is a no-op when the document does not exist.
	if _, err := r.client.Collection(r.collection()).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to remove case", goerr.V("id", id))
	}

	return r.refresh(ctx)
}

func (r *caseRepository) Subscribe(fn func([]*model.Case)) func() {
	return r.snap.Subscribe(fn)
}
