package pricelists

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/menu"
	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Handler manages price list endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    menu.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate menu.Middleware) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers price list routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireView("/masterdata/price-lists"))
		r.Get("/price-lists", h.list)
		r.Get("/price-lists/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireEdit("/masterdata/price-lists"))
		r.Post("/price-lists", h.save)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	lists, err := h.service.List(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"price_lists": lists})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.Validationf("invalid price list id"))
		return
	}
	list, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var list erpapi.PriceList
	if err := httpx.DecodeJSON(r, &list); err != nil {
		httpx.RespondError(w, shared.Validationf("invalid request body"))
		return
	}
	saved, err := h.service.Save(r.Context(), list)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}
