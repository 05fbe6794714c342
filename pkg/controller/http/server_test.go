package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	controller "github.com/docket-hq/docket/pkg/controller/http"
	"github.com/docket-hq/docket/pkg/domain/model"
	"github.com/docket-hq/docket/pkg/domain/model/auth"
	"github.com/docket-hq/docket/pkg/repository/memory"
	"github.com/docket-hq/docket/pkg/storage/fs"
	"github.com/docket-hq/docket/pkg/usecase"
)

func newTestServer(t *testing.T, authUC usecase.AuthUseCaseInterface) *controller.Server {
	t.Helper()

	repo, err := memory.New()
	gt.NoError(t, err).Required()
	st, err := fs.New(t.TempDir())
	gt.NoError(t, err).Required()

	uc := usecase.New(repo, usecase.WithStorage(st), usecase.WithAuth(authUC))

	srv, err := controller.New(uc)
	gt.NoError(t, err).Required()
	return srv
}

func newNoAuthServer(t *testing.T) *controller.Server {
	t.Helper()
	return newTestServer(t, usecase.NewNoAuthnUseCase(auth.AnonymousUserID, "", "Anonymous"))
}

func doJSON(t *testing.T, srv *controller.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v)).Required()
	return v
}

func TestListCases_Seeded(t *testing.T) {
	srv := newNoAuthServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/cases", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	resp := decodeBody[struct {
		Cases []*model.Case `json:"cases"`
	}](t, rec)
	gt.Value(t, len(resp.Cases)).Equal(6)
	gt.Value(t, resp.Cases[0].Title).Equal("Singh vs. State of Maharashtra")
}

func TestCaseCRUD(t *testing.T) {
	srv := newNoAuthServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/cases", map[string]any{
		"title":      "Verma vs. Verma",
		"caseNumber": "FAM/2025/0042",
		"type":       "Family",
	})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	created := decodeBody[*model.Case](t, rec)
	gt.Value(t, created.ID).NotEqual("")
	gt.Value(t, created.Status.String()).Equal("active")

	rec = doJSON(t, srv, http.MethodGet, "/api/cases/"+created.ID.String(), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = doJSON(t, srv, http.MethodPut, "/api/cases/"+created.ID.String(), map[string]any{
		"title":  "Verma vs. Verma",
		"status": "closed",
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	updated := decodeBody[*model.Case](t, rec)
	gt.Value(t, updated.Status.String()).Equal("closed")

	rec = doJSON(t, srv, http.MethodDelete, "/api/cases/"+created.ID.String(), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = doJSON(t, srv, http.MethodGet, "/api/cases/"+created.ID.String(), nil)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestCaseNotFound(t *testing.T) {
	srv := newNoAuthServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/cases/no-such-case", nil)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)

	rec = doJSON(t, srv, http.MethodPut, "/api/cases/no-such-case", map[string]any{"title": "x"})
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)

	rec = doJSON(t, srv, http.MethodDelete, "/api/cases/no-such-case", nil)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func uploadFiles(t *testing.T, srv *controller.Server, caseID string, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if caseID != "" {
		gt.NoError(t, mw.WriteField("caseId", caseID)).Required()
	}
	gt.NoError(t, mw.WriteField("category", "Evidence")).Required()
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		gt.NoError(t, err).Required()
		_, err = fw.Write([]byte(content))
		gt.NoError(t, err).Required()
	}
	gt.NoError(t, mw.Close()).Required()

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestDocumentLifecycle(t *testing.T) {
	srv := newNoAuthServer(t)

	rec := uploadFiles(t, srv, "seed-1", map[string]string{"fir.pdf": "pdf-bytes"})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	resp := decodeBody[struct {
		Documents []*model.Document `json:"documents"`
	}](t, rec)
	gt.Value(t, len(resp.Documents)).Equal(1)
	doc := resp.Documents[0]
	gt.Value(t, doc.CaseName).Equal("Singh vs. State of Maharashtra")
	gt.Value(t, doc.Category).Equal("Evidence")

	// Listing filtered by case.
	rec = doJSON(t, srv, http.MethodGet, "/api/documents?caseId=seed-1", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	listed := decodeBody[struct {
		Documents []*model.Document `json:"documents"`
	}](t, rec)
	gt.Value(t, len(listed.Documents)).Equal(1)

	// Download round-trips the content.
	rec = doJSON(t, srv, http.MethodGet, "/api/documents/"+doc.ID.String()+"/download", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Body.String()).Equal("pdf-bytes")
	gt.Value(t, rec.Header().Get("Content-Type")).Equal("application/pdf")

	// Tag update.
	rec = doJSON(t, srv, http.MethodPut, "/api/documents/"+doc.ID.String()+"/tags", map[string]any{
		"tags": []string{"urgent"},
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	tagged := decodeBody[*model.Document](t, rec)
	gt.Array(t, tagged.Tags).Equal([]string{"urgent"})

	// Delete, then the record and blob are gone.
	rec = doJSON(t, srv, http.MethodDelete, "/api/documents/"+doc.ID.String(), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = doJSON(t, srv, http.MethodGet, "/api/documents/"+doc.ID.String(), nil)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)

	rec = doJSON(t, srv, http.MethodGet, "/api/documents/"+doc.ID.String()+"/download", nil)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestUpload_UnknownCaseID(t *testing.T) {
	srv := newNoAuthServer(t)

	rec := uploadFiles(t, srv, "no-such-case", map[string]string{"fir.pdf": "x"})
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func newRealAuth(t *testing.T) (*usecase.AuthUseCase, *memory.Memory) {
	t.Helper()

	repo, err := memory.New()
	gt.NoError(t, err).Required()

	user := &auth.User{ID: "user-1", Email: "advocate@example.com", Name: "Adv. Kulkarni"}
	gt.NoError(t, user.SetPassword("correct-horse")).Required()

	authUC, err := usecase.NewAuthUseCase(repo, []*auth.User{user}, []byte("test-sign-key"))
	gt.NoError(t, err).Required()
	return authUC, repo
}

func TestAuthFlow(t *testing.T) {
	authUC, _ := newRealAuth(t)
	srv := newTestServer(t, authUC)

	// Protected routes reject requests without a session.
	rec := doJSON(t, srv, http.MethodGet, "/api/cases", nil)
	gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)

	// Login issues session cookies.
	rec = doJSON(t, srv, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "advocate@example.com",
		"password": "correct-horse",
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	cookies := rec.Result().Cookies()
	gt.Value(t, len(cookies) >= 2).Equal(true)

	withSession := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		out := httptest.NewRecorder()
		srv.ServeHTTP(out, req)
		return out
	}

	rec = withSession(http.MethodGet, "/api/cases")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = withSession(http.MethodGet, "/api/auth/me")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	me := decodeBody[struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}](t, rec)
	gt.Value(t, me.Sub).Equal("user-1")
	gt.Value(t, me.Email).Equal("advocate@example.com")

	// Logout invalidates the session.
	rec = withSession(http.MethodPost, "/api/auth/logout")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = withSession(http.MethodGet, "/api/cases")
	gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
}

func TestLogin_BadPassword(t *testing.T) {
	authUC, _ := newRealAuth(t)
	srv := newTestServer(t, authUC)

	rec := doJSON(t, srv, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "advocate@example.com",
		"password": "wrong",
	})
	gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
}

func TestPasswordResetEndpoints(t *testing.T) {
	authUC, _ := newRealAuth(t)
	srv := newTestServer(t, authUC)
	ctx := context.Background()

	rec := doJSON(t, srv, http.MethodPost, "/api/auth/reset/request", map[string]any{
		"email": "advocate@example.com",
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	resp := decodeBody[struct {
		ResetToken string `json:"resetToken"`
	}](t, rec)
	gt.Value(t, resp.ResetToken).NotEqual("")

	// Unknown accounts get the same 200 with an empty body shape.
	rec = doJSON(t, srv, http.MethodPost, "/api/auth/reset/request", map[string]any{
		"email": "stranger@example.com",
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	unknown := decodeBody[struct {
		ResetToken string `json:"resetToken"`
	}](t, rec)
	gt.Value(t, unknown.ResetToken).Equal("")

	// Wrong code fails with 400. The real code only reaches the operator
	// log, so this exercises the rejection path end to end.
	rec = doJSON(t, srv, http.MethodPost, "/api/auth/reset/confirm", map[string]any{
		"resetToken":  resp.ResetToken,
		"code":        "999999",
		"newPassword": "new-password",
	})
	if rec.Code == http.StatusOK {
		// One-in-a-million collision with the generated code.
		_, err := authUC.Login(ctx, "advocate@example.com", "new-password")
		gt.NoError(t, err)
		return
	}
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}
