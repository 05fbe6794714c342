package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
	"github.com/docket-hq/docket/pkg/repository/memory"
	"github.com/docket-hq/docket/pkg/storage/fs"
	"github.com/docket-hq/docket/pkg/usecase"
)

func newUseCases(t *testing.T) *usecase.UseCases {
	t.Helper()
	repo, err := memory.New()
	gt.NoError(t, err).Required()
	st, err := fs.New(t.TempDir())
	gt.NoError(t, err).Required()
	return usecase.New(repo, usecase.WithStorage(st))
}

func TestCreateCase(t *testing.T) {
	uc := newUseCases(t)
	ctx := context.Background()

	created, err := uc.Case.CreateCase(ctx, &model.Case{
		Title:      "Verma vs. Verma",
		CaseNumber: "FAM/2025/0042",
		Type:       "Family",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, created.ID).NotEqual(types.CaseID(""))
	gt.Value(t, created.Status).Equal(types.CaseStatusActive)

	got, err := uc.Case.GetCase(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Title).Equal("Verma vs. Verma")
}

func TestCreateCase_RequiresTitle(t *testing.T) {
	uc := newUseCases(t)

	_, err := uc.Case.CreateCase(context.Background(), &model.Case{})
	gt.Value(t, err).NotNil()
}

func TestGetCase_NotFound(t *testing.T) {
	uc := newUseCases(t)

	_, err := uc.Case.GetCase(context.Background(), "no-such-case")
	gt.Value(t, errors.Is(err, usecase.ErrCaseNotFound)).Equal(true)
}

func TestUpdateCase(t *testing.T) {
	uc := newUseCases(t)
	ctx := context.Background()

	created, err := uc.Case.CreateCase(ctx, &model.Case{Title: "Verma vs. Verma"})
	gt.NoError(t, err).Required()

	created.Status = types.CaseStatusClosed
	created.Description = "Settled out of court"
	updated, err := uc.Case.UpdateCase(ctx, created)
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Status).Equal(types.CaseStatusClosed)

	got, err := uc.Case.GetCase(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Description).Equal("Settled out of court")

	// Unknown IDs are rejected here even though the repository treats
	// them as a no-op.
	_, err = uc.Case.UpdateCase(ctx, &model.Case{ID: "no-such-case", Title: "x"})
	gt.Value(t, errors.Is(err, usecase.ErrCaseNotFound)).Equal(true)
}

func TestDeleteCase_CascadesDocuments(t *testing.T) {
	uc := newUseCases(t)
	ctx := context.Background()

	created, err := uc.Case.CreateCase(ctx, &model.Case{Title: "Verma vs. Verma"})
	gt.NoError(t, err).Required()

	docs, err := uc.Document.Upload(ctx, usecase.UploadInput{
		CaseID: created.ID,
		Files: []usecase.UploadFile{
			{Name: "petition.pdf", Reader: bytes.NewReader([]byte("petition"))},
		},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, len(docs)).Equal(1)

	gt.NoError(t, uc.Case.DeleteCase(ctx, created.ID)).Required()

	_, err = uc.Case.GetCase(ctx, created.ID)
	gt.Value(t, errors.Is(err, usecase.ErrCaseNotFound)).Equal(true)

	remaining, err := uc.Document.ListDocuments(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, len(remaining)).Equal(0)
}
