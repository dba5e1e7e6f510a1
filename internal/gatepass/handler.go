package gatepass

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-erp/meridian-erp/internal/menu"
	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Handler manages gate pass endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	gate     menu.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate menu.Middleware) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New(), gate: gate}
}

// MountRoutes registers gate pass routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireView("/gate-passes"))
		r.Get("/gate-passes", h.list)
		r.Get("/gate-passes/prefill", h.prefill)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireEdit("/gate-passes"))
		r.Post("/gate-passes", h.create)
		r.Post("/gate-passes/{id}/cancel", h.cancel)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	perPage := 20
	passes, err := h.service.List(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"gate_passes": passes,
		"pagination":  shared.NewPagination(page, perPage, len(passes)),
	})
}

// prefill seeds the gate pass form with the follow-up parameters a saved
// return hands back.
func (h *Handler) prefill(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	refNumber := q.Get("reference_number")
	if refNumber == "" {
		httpx.RespondError(w, shared.Validationf("reference_number is required"))
		return
	}
	refID, _ := strconv.ParseInt(q.Get("reference_id"), 10, 64)
	quantity, _ := strconv.ParseFloat(q.Get("quantity"), 64)
	httpx.JSON(w, http.StatusOK, PrefillFromReturn(refNumber, refID, quantity, q.Get("party_name")))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.Validationf("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, shared.Validationf("invalid request: %v", err))
		return
	}
	createdBy := ""
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		createdBy = sess.User()
	}
	pass, err := h.service.Create(r.Context(), req, createdBy)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, pass)
}

type cancelRequest struct {
	Status Status `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.Validationf("invalid gate pass id"))
		return
	}
	var req cancelRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.Validationf("invalid request body"))
		return
	}
	if err := h.service.Cancel(r.Context(), id, req.Status, req.Reason); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": string(StatusCancelled)})
}
