package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/types"
	"github.com/docket-hq/docket/pkg/usecase"
	"github.com/docket-hq/docket/pkg/utils/errutil"
)

// assistHandler answers a question about one case with the AI assistant
func assistHandler(uc *usecase.AssistUseCase) http.HandlerFunc {
	type assistRequest struct {
		CaseID   string `json:"caseId"`
		Question string `json:"question"`
	}
	type assistResponse struct {
		Answer string `json:"answer"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req assistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid assist request"), http.StatusBadRequest)
			return
		}
		if req.CaseID == "" || req.Question == "" {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "caseId and question are required"})
			return
		}

		answer, err := uc.Ask(r.Context(), types.CaseID(req.CaseID), req.Question)
		if err != nil {
			if errors.Is(err, usecase.ErrCaseNotFound) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "case not found"})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, assistResponse{Answer: answer})
	}
}
