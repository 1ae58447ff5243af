package authz

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/wofodev/meerkat/internal"
)

// AdminChecker is what the gate needs from the authorization service.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userCode string) (bool, error)
}

// Gate wraps handlers that require administrative privilege.
type Gate struct {
	checker AdminChecker
	logger  *slog.Logger
}

func NewGate(checker AdminChecker, logger *slog.Logger) *Gate {
	return &Gate{
		checker: checker,
		logger:  logger,
	}
}

// RequireAdmin denies unless the caller's effective group is the admin
// group. Evaluation errors deny with 503, never allow.
func (g *Gate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := internal.SessionFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			isAdmin, err := g.checker.IsAdmin(r.Context(), sess.UserCode)
			if err != nil {
				g.logger.ErrorContext(r.Context(), "admin check failed", "user_code", sess.UserCode, "error", err)
				http.Error(w, "Authorization temporarily unavailable", http.StatusServiceUnavailable)
				return
			}

			if !isAdmin {
				g.logger.WarnContext(r.Context(), "access denied: admin group required",
					"user_code", sess.UserCode,
					"effective_group", sess.EffectiveGroup)
				http.Error(w, "Forbidden: admin group required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
