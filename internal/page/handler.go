package page

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/wofodev/meerkat/internal/transport"
	"github.com/wofodev/meerkat/pkg/logger"
)

type ServiceAPI interface {
	CreatePage(ctx context.Context, dto PageDTO) (*PageResponse, error)
	ListPages(ctx context.Context) ([]PageResponse, error)
	UpdatePage(ctx context.Context, originalRef string, dto PageDTO) (*PageResponse, error)
	DeletePage(ctx context.Context, ref string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto PageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.CreatePage(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.Service.ListPages(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, PagesResponse{Pages: pages})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	var dto PageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.UpdatePage(r.Context(), ref, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	if err := h.Service.DeletePage(r.Context(), ref); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
