package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
)

type CaseUseCase struct {
	repo      interfaces.Repository
	documents *DocumentUseCase
}

func NewCaseUseCase(repo interfaces.Repository, documents *DocumentUseCase) *CaseUseCase {
	return &CaseUseCase{
		repo:      repo,
		documents: documents,
	}
}

// CreateCase registers a new case. The ID is generated here unless the
// caller supplies one; the status defaults to active.
func (uc *CaseUseCase) CreateCase(ctx context.Context, c *model.Case) (*model.Case, error) {
	if c.Title == "" {
		return nil, goerr.New("case title is required")
	}

	created := c.Clone()
	if created.ID == "" {
		created.ID = types.NewCaseID()
	}
	created.Status = created.Status.Normalize()

	if err := uc.repo.Case().Add(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create case", goerr.V(CaseIDKey, created.ID))
	}

	return created, nil
}

func (uc *CaseUseCase) GetCase(ctx context.Context, id types.CaseID) (*model.Case, error) {
	c, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, id))
	}
	if c == nil {
		return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, id))
	}
	return c, nil
}

func (uc *CaseUseCase) ListCases(ctx context.Context) ([]*model.Case, error) {
	cases, err := uc.repo.Case().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}
	return cases, nil
}

// UpdateCase replaces the stored record verbatim with c, keeping its
// position in the listing.
func (uc *CaseUseCase) UpdateCase(ctx context.Context, c *model.Case) (*model.Case, error) {
	if err := c.ID.Validate(); err != nil {
		return nil, err
	}
	if c.Title == "" {
		return nil, goerr.New("case title is required", goerr.V(CaseIDKey, c.ID))
	}

	existing, err := uc.repo.Case().Get(ctx, c.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, c.ID))
	}
	if existing == nil {
		return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, c.ID))
	}

	updated := c.Clone()
	updated.Status = updated.Status.Normalize()

	if err := uc.repo.Case().Update(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V(CaseIDKey, c.ID))
	}

	return updated, nil
}

// DeleteCase removes the case and every document filed under it,
// including the backing blobs.
func (uc *CaseUseCase) DeleteCase(ctx context.Context, id types.CaseID) error {
	existing, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, id))
	}
	if existing == nil {
		return goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, id))
	}

	docs, err := uc.repo.Document().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list documents for case", goerr.V(CaseIDKey, id))
	}
	for _, d := range docs {
		if d.CaseID != id {
			continue
		}
		if err := uc.documents.RemoveDocument(ctx, d.ID); err != nil {
			return goerr.Wrap(err, "failed to remove document of case",
				goerr.V(CaseIDKey, id),
				goerr.V(DocumentIDKey, d.ID))
		}
	}

	if err := uc.repo.Case().Remove(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to remove case", goerr.V(CaseIDKey, id))
	}

	return nil
}
