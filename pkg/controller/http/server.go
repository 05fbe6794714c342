package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/docket-hq/docket/pkg/usecase"
	"github.com/docket-hq/docket/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	authUC AuthUseCase
}

type Options func(*Server)

func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{
		router: r,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.authUC == nil {
		s.authUC = uc.Auth
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	// Auth endpoints. Login and password reset stay outside the auth
	// middleware; everything else requires a session.
	if s.authUC != nil {
		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/login", authLoginHandler(s.authUC))
			r.Post("/logout", authLogoutHandler(s.authUC))
			r.Get("/me", authMeHandler(s.authUC))
			r.Post("/reset/request", authResetRequestHandler(s.authUC))
			r.Post("/reset/confirm", authResetConfirmHandler(s.authUC))
		})
	}

	r.Route("/api/cases", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))
		r.Get("/", listCasesHandler(uc.Case))
		r.Post("/", createCaseHandler(uc.Case))
		r.Get("/{caseID}", getCaseHandler(uc.Case))
		r.Put("/{caseID}", updateCaseHandler(uc.Case))
		r.Delete("/{caseID}", deleteCaseHandler(uc.Case))
	})

	r.Route("/api/documents", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))
		r.Get("/", listDocumentsHandler(uc.Document))
		r.Post("/", uploadDocumentsHandler(uc.Document))
		r.Get("/{documentID}", getDocumentHandler(uc.Document))
		r.Get("/{documentID}/download", downloadDocumentHandler(uc.Document))
		r.Put("/{documentID}/tags", updateDocumentTagsHandler(uc.Document))
		r.Delete("/{documentID}", deleteDocumentHandler(uc.Document))
	})

	if uc.Assist != nil {
		r.Route("/api/assist", func(r chi.Router) {
			r.Use(authMiddleware(s.authUC))
			r.Post("/", assistHandler(uc.Assist))
		})
	}

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
