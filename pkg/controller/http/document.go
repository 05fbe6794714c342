package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
	"github.com/docket-hq/docket/pkg/usecase"
	"github.com/docket-hq/docket/pkg/utils/errutil"
	"github.com/docket-hq/docket/pkg/utils/safe"
)

// maxUploadBytes bounds one upload request.
const maxUploadBytes = 256 << 20

type documentsResponse struct {
	Documents []*model.Document `json:"documents"`
}

func listDocumentsHandler(uc *usecase.DocumentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := uc.ListDocuments(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		// Optional filter by case.
		if caseID := r.URL.Query().Get("caseId"); caseID != "" {
			filtered := make([]*model.Document, 0, len(docs))
			for _, d := range docs {
				if d.CaseID == types.CaseID(caseID) {
					filtered = append(filtered, d)
				}
			}
			docs = filtered
		}

		writeJSON(r.Context(), w, http.StatusOK, documentsResponse{Documents: docs})
	}
}

// uploadDocumentsHandler accepts a multipart form with one or more "files"
// parts plus optional caseId, category and tags fields. Parts are buffered
// here because a multipart body must be consumed sequentially while the
// upload use case copies files concurrently.
func uploadDocumentsHandler(uc *usecase.DocumentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid multipart form"), http.StatusBadRequest)
			return
		}

		input := usecase.UploadInput{
			CaseID:   types.CaseID(r.FormValue("caseId")),
			Category: r.FormValue("category"),
		}
		if tags := r.FormValue("tags"); tags != "" {
			if err := json.Unmarshal([]byte(tags), &input.Tags); err != nil {
				errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid tags field"), http.StatusBadRequest)
				return
			}
		}

		for _, fh := range r.MultipartForm.File["files"] {
			f, err := fh.Open()
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to open uploaded file"), http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			safe.Close(r.Context(), f)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to read uploaded file"), http.StatusBadRequest)
				return
			}
			input.Files = append(input.Files, usecase.UploadFile{
				Name:   fh.Filename,
				Reader: bytes.NewReader(data),
			})
		}

		docs, err := uc.Upload(r.Context(), input)
		if err != nil {
			if errors.Is(err, usecase.ErrCaseNotFound) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "case not found"})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, documentsResponse{Documents: docs})
	}
}

func getDocumentHandler(uc *usecase.DocumentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.DocumentID(chi.URLParam(r, "documentID"))

		d, err := uc.GetDocument(r.Context(), id)
		if err != nil {
			if errors.Is(err, usecase.ErrDocumentNotFound) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "document not found"})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, d)
	}
}

func downloadDocumentHandler(uc *usecase.DocumentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.DocumentID(chi.URLParam(r, "documentID"))

		d, rc, err := uc.OpenDocument(r.Context(), id)
		if err != nil {
			if errors.Is(err, usecase.ErrDocumentNotFound) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "document not found"})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		defer safe.Close(r.Context(), rc)

		contentType := mime.TypeByExtension(filepath.Ext(d.FileName))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.Name}))

		safe.Copy(r.Context(), w, rc)
	}
}

func updateDocumentTagsHandler(uc *usecase.DocumentUseCase) http.HandlerFunc {
	type tagsRequest struct {
		Tags []string `json:"tags"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id := types.DocumentID(chi.URLParam(r, "documentID"))

		var req tagsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid tags payload"), http.StatusBadRequest)
			return
		}

		updated, err := uc.UpdateTags(r.Context(), id, req.Tags)
		if err != nil {
			if errors.Is(err, usecase.ErrDocumentNotFound) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "document not found"})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, updated)
	}
}

func deleteDocumentHandler(uc *usecase.DocumentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.DocumentID(chi.URLParam(r, "documentID"))

		if err := uc.RemoveDocument(r.Context(), id); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}
