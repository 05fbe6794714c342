package usecase

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
	"github.com/docket-hq/docket/pkg/utils/async"
	"github.com/docket-hq/docket/pkg/utils/errutil"
)

type DocumentUseCase struct {
	repo    interfaces.Repository
	storage interfaces.Storage
}

func NewDocumentUseCase(repo interfaces.Repository, storage interfaces.Storage) *DocumentUseCase {
	return &DocumentUseCase{
		repo:    repo,
		storage: storage,
	}
}

// UploadFile is one file of an upload batch. The reader must be safe to
// consume independently of the others; callers streaming from a multipart
// request buffer each part first.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// UploadInput groups a batch of files with the metadata they share.
type UploadInput struct {
	CaseID   types.CaseID
	Category string
	Tags     []string
	Files    []UploadFile
}

// Upload stores the batch: every file is copied to blob storage under a
// name derived from its generated document ID, then the metadata records
// are added to the repository in one batch. File copies run concurrently.
// On any failure the already-stored blobs are deleted best-effort and no
// metadata is recorded.
func (uc *DocumentUseCase) Upload(ctx context.Context, input UploadInput) ([]*model.Document, error) {
	if uc.storage == nil {
		return nil, goerr.New("blob storage is not configured")
	}
	if len(input.Files) == 0 {
		return nil, goerr.New("no files to upload")
	}

	caseName := ""
	if input.CaseID != "" {
		c, err := uc.repo.Case().Get(ctx, input.CaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, input.CaseID))
		}
		if c == nil {
			return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, input.CaseID))
		}
		caseName = c.Title
	}

	now := time.Now().UTC()
	docs := make([]*model.Document, len(input.Files))
	for i, f := range input.Files {
		id := types.NewDocumentID(now, i)
		docs[i] = &model.Document{
			ID:         id,
			Name:       f.Name,
			Type:       types.ClassifyDocType(f.Name),
			CaseID:     input.CaseID,
			CaseName:   caseName,
			UploadedAt: now.Format("Jan 2, 2006"),
			Category:   input.Category,
			FileName:   string(id) + filepath.Ext(f.Name),
			Tags:       append([]string{}, input.Tags...),
		}
		docs[i].Normalize()
	}

	sizes := make([]int64, len(input.Files))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, f := range input.Files {
		eg.Go(func() error {
			size, err := uc.storage.Put(egCtx, docs[i].FileName, f.Reader)
			if err != nil {
				return goerr.Wrap(err, "failed to store blob",
					goerr.V(DocumentIDKey, docs[i].ID),
					goerr.V("fileName", docs[i].FileName))
			}
			sizes[i] = size
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		uc.cleanupBlobs(ctx, docs)
		return nil, err
	}

	for i := range docs {
		docs[i].Size = humanize.Bytes(uint64(sizes[i]))
	}

	if err := uc.repo.Document().Add(ctx, docs); err != nil {
		uc.cleanupBlobs(ctx, docs)
		return nil, goerr.Wrap(err, "failed to add documents")
	}

	return docs, nil
}

// cleanupBlobs removes blobs of a failed upload in the background, so the
// caller gets its error without waiting on storage round trips. Failures
// here only leave orphaned files behind, so they are logged and swallowed.
func (uc *DocumentUseCase) cleanupBlobs(ctx context.Context, docs []*model.Document) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		for _, d := range docs {
			if err := uc.storage.Delete(ctx, d.FileName); err != nil {
				_ = errutil.Handle(ctx, err, "failed to clean up blob of aborted upload")
			}
		}
		return nil
	})
}

func (uc *DocumentUseCase) GetDocument(ctx context.Context, id types.DocumentID) (*model.Document, error) {
	d, err := uc.repo.Document().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get document", goerr.V(DocumentIDKey, id))
	}
	if d == nil {
		return nil, goerr.Wrap(ErrDocumentNotFound, "document not found", goerr.V(DocumentIDKey, id))
	}
	return d, nil
}

func (uc *DocumentUseCase) ListDocuments(ctx context.Context) ([]*model.Document, error) {
	docs, err := uc.repo.Document().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents")
	}
	return docs, nil
}

// UpdateTags replaces the tag list of the document.
func (uc *DocumentUseCase) UpdateTags(ctx context.Context, id types.DocumentID, tags []string) (*model.Document, error) {
	if _, err := uc.GetDocument(ctx, id); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []string{}
	}
	if err := uc.repo.Document().UpdateTags(ctx, id, tags); err != nil {
		return nil, goerr.Wrap(err, "failed to update tags", goerr.V(DocumentIDKey, id))
	}

	return uc.GetDocument(ctx, id)
}

// RemoveDocument deletes the metadata record and its backing blob. An
// unknown ID or an already-missing blob is not an error, so removal is
// idempotent.
func (uc *DocumentUseCase) RemoveDocument(ctx context.Context, id types.DocumentID) error {
	d, err := uc.repo.Document().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get document", goerr.V(DocumentIDKey, id))
	}
	if d == nil {
		return nil
	}

	if err := uc.repo.Document().Remove(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to remove document", goerr.V(DocumentIDKey, id))
	}

	if uc.storage != nil {
		if err := uc.storage.Delete(ctx, d.FileName); err != nil {
			return goerr.Wrap(err, "failed to delete blob",
				goerr.V(DocumentIDKey, id),
				goerr.V("fileName", d.FileName))
		}
	}

	return nil
}

// OpenDocument returns the document metadata together with a reader over
// its blob content. The caller closes the reader.
func (uc *DocumentUseCase) OpenDocument(ctx context.Context, id types.DocumentID) (*model.Document, io.ReadCloser, error) {
	if uc.storage == nil {
		return nil, nil, goerr.New("blob storage is not configured")
	}

	d, err := uc.GetDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := uc.storage.Open(ctx, d.FileName)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open blob",
			goerr.V(DocumentIDKey, id),
			goerr.V("fileName", d.FileName))
	}

	return d, rc, nil
}
