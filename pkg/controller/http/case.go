package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/types"
	"github.com/docket-hq/docket/pkg/usecase"
	"github.com/docket-hq/docket/pkg/utils/errutil"
)

type casesResponse struct {
	Cases []*model.Case `json:"cases"`
}

func listCasesHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cases, err := uc.ListCases(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, casesResponse{Cases: cases})
	}
}

func createCaseHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c model.Case
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid case payload"), http.StatusBadRequest)
			return
		}
		// The server generates IDs; one in the payload is ignored.
		c.ID = ""

		created, err := uc.CreateCase(r.Context(), &c)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, created)
	}
}

func getCaseHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.CaseID(chi.URLParam(r, "caseID"))

		c, err := uc.GetCase(r.Context(), id)
		if err != nil {
			if errors.Is(err, usecase.ErrCaseNotFound) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "case not found"})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, c)
	}
}

func updateCaseHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.CaseID(chi.URLParam(r, "caseID"))

		var c model.Case
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid case payload"), http.StatusBadRequest)
			return
		}
		c.ID = id

		updated, err := uc.UpdateCase(r.Context(), &c)
		if err != nil {
			if errors.Is(err, usecase.ErrCaseNotFound) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "case not found"})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, updated)
	}
}

func deleteCaseHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.CaseID(chi.URLParam(r, "caseID"))

		if err := uc.DeleteCase(r.Context(), id); err != nil {
			if errors.Is(err, usecase.ErrCaseNotFound) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "case not found"})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}
