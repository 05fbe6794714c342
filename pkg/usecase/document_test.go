package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
	"github.com/docket-hq/docket/pkg/usecase"
)

func TestUpload(t *testing.T) {
	uc := newUseCases(t)
	ctx := context.Background()

	c, err := uc.Case.CreateCase(ctx, &model.Case{Title: "Singh vs. State"})
	gt.NoError(t, err).Required()

	docs, err := uc.Document.Upload(ctx, usecase.UploadInput{
		CaseID:   c.ID,
		Category: "Evidence",
		Tags:     []string{"urgent"},
		Files: []usecase.UploadFile{
			{Name: "fir.pdf", Reader: bytes.NewReader([]byte("pdf"))},
			{Name: "scene.jpg", Reader: bytes.NewReader([]byte("image-data"))},
			{Name: "notes", Reader: bytes.NewReader([]byte("misc"))},
		},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, len(docs)).Equal(3)

	// IDs are distinct even within one batch.
	gt.Value(t, docs[0].ID).NotEqual(docs[1].ID)
	gt.Value(t, docs[1].ID).NotEqual(docs[2].ID)

	gt.Value(t, docs[0].Type).Equal(types.DocTypePDF)
	gt.Value(t, docs[1].Type).Equal(types.DocTypeImage)
	gt.Value(t, docs[2].Type).Equal(types.DocTypeFile)

	gt.Value(t, docs[0].CaseName).Equal("Singh vs. State")
	gt.Value(t, docs[0].Category).Equal("Evidence")
	gt.Array(t, docs[0].Tags).Equal([]string{"urgent"})
	gt.Value(t, docs[0].Size).Equal("3 B")
	gt.Value(t, docs[0].FileName).Equal(string(docs[0].ID) + ".pdf")

	// Blob content round-trips through storage.
	meta, rc, err := uc.Document.OpenDocument(ctx, docs[1].ID)
	gt.NoError(t, err).Required()
	defer rc.Close()
	gt.Value(t, meta.Name).Equal("scene.jpg")
	data, err := io.ReadAll(rc)
	gt.NoError(t, err).Required()
	gt.Value(t, string(data)).Equal("image-data")
}

func TestUpload_UnknownCase(t *testing.T) {
	uc := newUseCases(t)

	_, err := uc.Document.Upload(context.Background(), usecase.UploadInput{
		CaseID: "no-such-case",
		Files: []usecase.UploadFile{
			{Name: "fir.pdf", Reader: bytes.NewReader([]byte("pdf"))},
		},
	})
	gt.Value(t, errors.Is(err, usecase.ErrCaseNotFound)).Equal(true)
}

func TestUpload_EmptyBatch(t *testing.T) {
	uc := newUseCases(t)

	_, err := uc.Document.Upload(context.Background(), usecase.UploadInput{})
	gt.Value(t, err).NotNil()
}

func TestUpdateTags(t *testing.T) {
	uc := newUseCases(t)
	ctx := context.Background()

	docs, err := uc.Document.Upload(ctx, usecase.UploadInput{
		Files: []usecase.UploadFile{
			{Name: "fir.pdf", Reader: bytes.NewReader([]byte("pdf"))},
		},
	})
	gt.NoError(t, err).Required()

	updated, err := uc.Document.UpdateTags(ctx, docs[0].ID, []string{"evidence", "urgent"})
	gt.NoError(t, err).Required()
	gt.Array(t, updated.Tags).Equal([]string{"evidence", "urgent"})

	cleared, err := uc.Document.UpdateTags(ctx, docs[0].ID, nil)
	gt.NoError(t, err).Required()
	gt.Value(t, cleared.Tags).NotNil()
	gt.Value(t, len(cleared.Tags)).Equal(0)

	_, err = uc.Document.UpdateTags(ctx, "no-such-doc", []string{"x"})
	gt.Value(t, errors.Is(err, usecase.ErrDocumentNotFound)).Equal(true)
}

func TestRemoveDocument(t *testing.T) {
	uc := newUseCases(t)
	ctx := context.Background()

	docs, err := uc.Document.Upload(ctx, usecase.UploadInput{
		Files: []usecase.UploadFile{
			{Name: "fir.pdf", Reader: bytes.NewReader([]byte("pdf"))},
		},
	})
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Document.RemoveDocument(ctx, docs[0].ID)).Required()

	_, err = uc.Document.GetDocument(ctx, docs[0].ID)
	gt.Value(t, errors.Is(err, usecase.ErrDocumentNotFound)).Equal(true)

	_, _, err = uc.Document.OpenDocument(ctx, docs[0].ID)
	gt.Value(t, err).NotNil()

	// Removing an unknown ID is a no-op.
	gt.NoError(t, uc.Document.RemoveDocument(ctx, docs[0].ID))
}
