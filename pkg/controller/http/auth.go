package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/docket-hq/docket/pkg/domain/model/auth"
	"github.com/docket-hq/docket/pkg/usecase"
	"github.com/docket-hq/docket/pkg/utils/errutil"
	"github.com/docket-hq/docket/pkg/utils/logging"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type userMeResponse struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}

func setSessionCookies(w http.ResponseWriter, r *http.Request, token *auth.Token) {
	tokenIDCookie := &http.Cookie{
		Name:     "token_id",
		Value:    token.ID.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  token.ExpiresAt,
	}

	tokenSecretCookie := &http.Cookie{
		Name:     "token_secret",
		Value:    token.Secret.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  token.ExpiresAt,
	}

	http.SetCookie(w, tokenIDCookie)
	http.SetCookie(w, tokenSecretCookie)
}

func clearSessionCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{"token_id", "token_secret"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

// authLoginHandler verifies credentials and starts a session
func authLoginHandler(authUC AuthUseCase) http.HandlerFunc {
	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid login request"), http.StatusBadRequest)
			return
		}

		token, err := authUC.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
			return
		}

		setSessionCookies(w, r, token)
		writeJSON(r.Context(), w, http.StatusOK, userMeResponse{
			Sub:   token.Sub,
			Email: token.Email,
			Name:  token.Name,
		})
	}
}

// authLogoutHandler handles user logout
func authLogoutHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Get token ID from cookie
		tokenIDCookie, err := r.Cookie("token_id")
		if err == nil {
			tokenID := auth.TokenID(tokenIDCookie.Value)
			if err := authUC.Logout(r.Context(), tokenID); err != nil {
				errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to logout"), http.StatusInternalServerError)
				return
			}
		}

		clearSessionCookies(w, r)
		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

// authMeHandler returns current user information
func authMeHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// For NoAuthn mode, get user info from ValidateToken (which returns the configured user)
		if authUC.IsNoAuthn() {
			token, err := authUC.ValidateToken(r.Context(), "", "")
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
				return
			}
			writeJSON(r.Context(), w, http.StatusOK, userMeResponse{
				Sub:   token.Sub,
				Email: token.Email,
				Name:  token.Name,
			})
			return
		}

		// Get tokens from cookies
		tokenIDCookie, err := r.Cookie("token_id")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		tokenSecretCookie, err := r.Cookie("token_secret")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		tokenID := auth.TokenID(tokenIDCookie.Value)
		tokenSecret := auth.TokenSecret(tokenSecretCookie.Value)

		token, err := authUC.ValidateToken(r.Context(), tokenID, tokenSecret)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, userMeResponse{
			Sub:   token.Sub,
			Email: token.Email,
			Name:  token.Name,
		})
	}
}

// authResetRequestHandler issues a one-time password-reset code. The code
// is delivered out of band (logged for operator delivery); the response
// carries only the opaque reset token. Unknown accounts get the same 200
// with an empty body, so the status does not leak account existence; the
// presence of the token field still does, which is accepted since the
// token alone cannot complete a reset without the code.
func authResetRequestHandler(authUC AuthUseCase) http.HandlerFunc {
	type resetRequest struct {
		Email string `json:"email"`
	}
	type resetResponse struct {
		ResetToken string    `json:"resetToken,omitempty"`
		ExpiresAt  time.Time `json:"expiresAt,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req resetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid reset request"), http.StatusBadRequest)
			return
		}

		reset, err := authUC.RequestPasswordReset(r.Context(), req.Email)
		if err != nil {
			// Unknown accounts get the same empty success response.
			logging.From(r.Context()).Info("password reset requested for unknown account", "email", req.Email)
			writeJSON(r.Context(), w, http.StatusOK, resetResponse{})
			return
		}

		logging.From(r.Context()).Info("password reset code issued",
			"email", req.Email,
			"code", reset.Code,
			"expires_at", reset.ExpiresAt,
		)

		writeJSON(r.Context(), w, http.StatusOK, resetResponse{
			ResetToken: reset.Token,
			ExpiresAt:  reset.ExpiresAt,
		})
	}
}

// authResetConfirmHandler completes a password reset
func authResetConfirmHandler(authUC AuthUseCase) http.HandlerFunc {
	type confirmRequest struct {
		ResetToken  string `json:"resetToken"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req confirmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid reset confirmation"), http.StatusBadRequest)
			return
		}

		if err := authUC.ConfirmPasswordReset(r.Context(), req.ResetToken, req.Code, req.NewPassword); err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid or expired reset code"})
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}
