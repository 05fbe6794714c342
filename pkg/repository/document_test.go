package repository_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
	"github.com/docket-hq/docket/pkg/repository/jsonfile"
	"github.com/docket-hq/docket/pkg/repository/memory"
)

func sampleDocument(id string) *model.Document {
	return &model.Document{
		ID:         types.DocumentID(id),
		Name:       "FIR.pdf",
		Type:       types.DocTypePDF,
		Size:       "245 KB",
		CaseName:   "Singh vs. State",
		UploadedAt: "Dec 10, 2024",
		Category:   "FIR",
		FileName:   id + ".pdf",
		Tags:       []string{},
	}
}

func runDocumentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Add batch preserves order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		batch := []*model.Document{
			sampleDocument("d1"), sampleDocument("d2"), sampleDocument("d3"),
		}
		gt.NoError(t, repo.Document().Add(ctx, batch)).Required()

		docs, err := repo.Document().List(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, len(docs)).Equal(3)
		gt.Value(t, docs[0].ID).Equal(types.DocumentID("d1"))
		gt.Value(t, docs[1].ID).Equal(types.DocumentID("d2"))
		gt.Value(t, docs[2].ID).Equal(types.DocumentID("d3"))
	})

	t.Run("Get returns nil for unknown id", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		got, err := repo.Document().Get(ctx, "no-such-doc")
		gt.NoError(t, err).Required()
		gt.Value(t, got).Nil()
	})

	t.Run("UpdateTags replaces the tag list", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Document().Add(ctx, []*model.Document{sampleDocument("d1")})).Required()
		gt.NoError(t, repo.Document().UpdateTags(ctx, "d1", []string{"urgent", "evidence"})).Required()

		got, err := repo.Document().Get(ctx, "d1")
		gt.NoError(t, err).Required()
		gt.Value(t, got).NotNil().Required()
		gt.Array(t, got.Tags).Equal([]string{"urgent", "evidence"})

		// Missing id is a no-op.
		gt.NoError(t, repo.Document().UpdateTags(ctx, "no-such-doc", []string{"x"}))
	})

	t.Run("Remove is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Document().Add(ctx, []*model.Document{sampleDocument("d1")})).Required()
		gt.NoError(t, repo.Document().Remove(ctx, "d1")).Required()
		gt.NoError(t, repo.Document().Remove(ctx, "d1")).Required()

		docs, err := repo.Document().List(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, len(docs)).Equal(0)
	})

	t.Run("missing category defaults on insert", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		doc := sampleDocument("d1")
		doc.Category = ""
		doc.Tags = nil
		gt.NoError(t, repo.Document().Add(ctx, []*model.Document{doc})).Required()

		got, err := repo.Document().Get(ctx, "d1")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Category).Equal(model.DefaultCategory)
		gt.Value(t, got.Tags).NotNil()
		gt.Value(t, len(got.Tags)).Equal(0)
	})

	t.Run("observer can read back during notification", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		// The observer queries the repository from inside the callback;
		// this hangs if mutations notify while holding the write lock.
		var seen int
		unsub := repo.Document().Subscribe(func(docs []*model.Document) {
			listed, err := repo.Document().List(ctx)
			gt.NoError(t, err)
			seen = len(listed)
		})
		defer unsub()

		gt.NoError(t, repo.Document().Add(ctx, []*model.Document{sampleDocument("d1")})).Required()
		gt.Value(t, seen).Equal(1)
	})

	t.Run("Subscribe replays and observes mutations", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var snapshots [][]*model.Document
		unsub := repo.Document().Subscribe(func(docs []*model.Document) {
			snapshots = append(snapshots, docs)
		})
		defer unsub()

		gt.Value(t, len(snapshots)).Equal(1)

		gt.NoError(t, repo.Document().Add(ctx, []*model.Document{sampleDocument("d1")})).Required()
		gt.Value(t, len(snapshots)).Equal(2)
		gt.Value(t, len(snapshots[1])).Equal(1)
	})
}

func TestDocumentRepository_Memory(t *testing.T) {
	runDocumentRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := memory.New()
		gt.NoError(t, err).Required()
		return repo
	})
}

func TestDocumentRepository_JSONFile(t *testing.T) {
	runDocumentRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := jsonfile.New(t.TempDir())
		gt.NoError(t, err).Required()
		return repo
	})
}

func TestDocumentIndex_RoundTrip(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	repo, err := jsonfile.New(root)
	gt.NoError(t, err).Required()

	doc := sampleDocument("d1")
	doc.CaseID = "seed-1"
	doc.Tags = []string{"urgent"}
	second := sampleDocument("d2")
	second.Tags = []string{}
	gt.NoError(t, repo.Document().Add(ctx, []*model.Document{doc, second})).Required()

	// A fresh repository over the same root reads the persisted index.
	reopened, err := jsonfile.New(root)
	gt.NoError(t, err).Required()

	docs, err := reopened.Document().List(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, len(docs)).Equal(2)

	got := docs[0]
	gt.Value(t, got.ID).Equal(types.DocumentID("d1"))
	gt.Value(t, got.Name).Equal("FIR.pdf")
	gt.Value(t, got.Type).Equal(types.DocTypePDF)
	gt.Value(t, got.Size).Equal("245 KB")
	gt.Value(t, got.CaseID).Equal(types.CaseID("seed-1"))
	gt.Value(t, got.CaseName).Equal("Singh vs. State")
	gt.Value(t, got.UploadedAt).Equal("Dec 10, 2024")
	gt.Value(t, got.Category).Equal("FIR")
	gt.Value(t, got.FileName).Equal("d1.pdf")
	gt.Array(t, got.Tags).Equal([]string{"urgent"})

	// Empty tags survive as an empty array, not null.
	gt.Value(t, docs[1].Tags).NotNil()
	gt.Value(t, len(docs[1].Tags)).Equal(0)
}

func TestDocumentIndex_Encoding(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	repo, err := jsonfile.New(root)
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Document().Add(ctx, []*model.Document{sampleDocument("d1")})).Required()

	data, err := os.ReadFile(filepath.Join(root, "documents.json"))
	gt.NoError(t, err).Required()

	// The index is one JSON array of objects with the documented fields.
	var raw []map[string]any
	gt.NoError(t, json.Unmarshal(data, &raw)).Required()
	gt.Value(t, len(raw)).Equal(1)
	gt.Value(t, raw[0]["id"]).Equal("d1")
	gt.Value(t, raw[0]["type"]).Equal("pdf")
	gt.Value(t, raw[0]["fileName"]).Equal("d1.pdf")

	tags, ok := raw[0]["tags"].([]any)
	gt.Value(t, ok).Equal(true)
	gt.Value(t, len(tags)).Equal(0)
}

func TestDocumentIndex_MissingTagsKey(t *testing.T) {
	root := t.TempDir()

	// Hand-written index without a tags key: loads as empty tags.
	index := `[{"id":"d1","name":"FIR.pdf","type":"pdf","size":"245 KB",` +
		`"caseName":"Singh vs. State","uploadedAt":"Dec 10, 2024",` +
		`"category":"FIR","fileName":"d1.pdf"}]`
	gt.NoError(t, os.WriteFile(filepath.Join(root, "documents.json"), []byte(index), 0o644)).Required()

	repo, err := jsonfile.New(root)
	gt.NoError(t, err).Required()

	docs, err := repo.Document().List(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, len(docs)).Equal(1)
	gt.Value(t, docs[0].Tags).NotNil()
	gt.Value(t, len(docs[0].Tags)).Equal(0)
}

func TestDocumentIndex_NullRecord(t *testing.T) {
	root := t.TempDir()

	// A null array element is valid JSON but decodes to a nil record; the
	// load must drop it and keep the rest instead of crashing.
	index := `[null, {"id":"d1","name":"FIR.pdf","type":"pdf","size":"245 KB",` +
		`"caseName":"Singh vs. State","uploadedAt":"Dec 10, 2024",` +
		`"category":"FIR","fileName":"d1.pdf","tags":[]}]`
	gt.NoError(t, os.WriteFile(filepath.Join(root, "documents.json"), []byte(index), 0o644)).Required()

	repo, err := jsonfile.New(root)
	gt.NoError(t, err).Required()

	docs, err := repo.Document().List(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, len(docs)).Equal(1)
	gt.Value(t, docs[0].ID).Equal(types.DocumentID("d1"))
}

func TestDocumentIndex_CorruptRecovery(t *testing.T) {
	root := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(root, "documents.json"), []byte("{not json"), 0o644)).Required()

	repo, err := jsonfile.New(root)
	gt.NoError(t, err).Required()

	docs, err := repo.Document().List(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, len(docs)).Equal(0)

	// The store works normally after recovery.
	gt.NoError(t, repo.Document().Add(context.Background(), []*model.Document{sampleDocument("d1")})).Required()
	docs, err = repo.Document().List(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, len(docs)).Equal(1)
}
