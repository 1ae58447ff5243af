package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/wofodev/meerkat/internal"
	"github.com/wofodev/meerkat/internal/transport"
	"github.com/wofodev/meerkat/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingCredentials):
			h.WriteError(w, http.StatusBadRequest, "user code and password are required")
		case errors.Is(err, ErrInvalidCredentials):
			h.WriteError(w, http.StatusUnauthorized, "invalid user code or password")
		case errors.Is(err, ErrStoreUnavailable):
			h.WriteError(w, http.StatusServiceUnavailable, "login is temporarily unavailable, please retry")
		default:
			h.Logger.Error("authentication failed", "error", err)
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, token)
}

// Logout is stateless: the token is validated and the client discards it.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	if _, err := h.Service.ValidateSessionToken(token); err != nil {
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "no active session")
		return
	}
	h.WriteJSON(w, http.StatusOK, sess)
}

// SessionMiddleware validates the bearer token and rebuilds the session for
// the request. Any failure, including store unavailability, denies.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateSessionToken(token)
		if err != nil {
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		resolveCtx, cancel := internal.WithTimeout(r.Context(), 0)
		defer cancel()

		sess, err := h.Service.ResolveSession(resolveCtx, claims)
		if err != nil {
			h.Logger.Error("session resolution failed", "user_code", claims.UserCode, "error", err)
			h.WriteError(w, http.StatusServiceUnavailable, "session could not be verified, please retry")
			return
		}

		ctx := internal.ContextWithSession(r.Context(), sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
