package report

import (
	"net/http"

	"github.com/go-chi/chi"

	internal "github.com/wofodev/meerkat/internal"
	"github.com/wofodev/meerkat/internal/transport"
	"github.com/wofodev/meerkat/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

type reportsResponse struct {
	Reports []Descriptor `json:"reports"`
}

type sectionsResponse struct {
	Sections []string `json:"sections"`
}

// List serves the report menu for the logged-in user. An optional ?prefix=
// query narrows the listing to one feature family.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	reports, err := h.Service.AccessibleReports(r.Context(), sess.UserCode, r.URL.Query().Get("prefix"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, reportsResponse{Reports: reports})
}

func (h *Handler) Sections(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	sections, err := h.Service.AccessibleSections(r.Context(), sess.UserCode)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sectionsResponse{Sections: sections})
}

// Open resolves one report by reference, enforcing section access.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	d, err := h.Service.OpenReport(r.Context(), sess.UserCode, chi.URLParam(r, "ref"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, d)
}
