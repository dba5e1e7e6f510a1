package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-erp/meridian-erp/internal/menu"
	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Handler manages product catalogue endpoints.
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

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireView("/masterdata/products"))
		r.Get("/products", h.list)
		r.Get("/products/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireEdit("/masterdata/products"))
		r.Post("/products", h.create)
		r.Put("/products/{id}", h.update)
	})
}

type productRequest struct {
	Code          string  `json:"code" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	CategoryID    int64   `json:"category_id" validate:"required,gt=0"`
	SubcategoryID int64   `json:"subcategory_id"`
	Rate          float64 `json:"rate" validate:"gte=0"`
	TaxPercent    float64 `json:"tax_percent" validate:"gte=0,lte=100"`
	UOM           string  `json:"uom"`
	IsActive      bool    `json:"is_active"`
}

func (r productRequest) toInput() erpapi.ProductInput {
	return erpapi.ProductInput{
		Code:          r.Code,
		Name:          r.Name,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		Rate:          r.Rate,
		TaxPercent:    r.TaxPercent,
		UOM:           r.UOM,
		IsActive:      r.IsActive,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	products, pagination, err := h.service.Search(r.Context(), r.URL.Query().Get("search"), page, 20)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": products, "pagination": pagination})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.Validationf("invalid product id"))
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.Validationf("invalid product id"))
		return
	}
	var req productRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Update(r.Context(), id, req.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) decode(r *http.Request, dst any) error {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		return shared.Validationf("invalid request body")
	}
	if err := h.validate.Struct(dst); err != nil {
		return shared.Validationf("invalid request: %v", err)
	}
	return nil
}
