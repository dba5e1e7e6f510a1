package returns

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-erp/meridian-erp/internal/menu"
	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	sharederr "github.com/meridian-erp/meridian-erp/internal/shared"
)

// DocumentPrinter renders a persisted return for printing.
type DocumentPrinter interface {
	RenderCreditNote(ctx context.Context, headerID int64) ([]byte, error)
	RenderCreditNotePDF(ctx context.Context, headerID int64) ([]byte, error)
}

// IdempotencyChecker guards against double submission of the same request.
type IdempotencyChecker interface {
	CheckAndInsert(ctx context.Context, key, module string) error
}

// Handler manages the return workflow endpoints.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	printer     DocumentPrinter
	idempotency IdempotencyChecker
	validate    *validator.Validate
	gate        menu.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, printer DocumentPrinter, idempotency IdempotencyChecker, gate menu.Middleware) *Handler {
	return &Handler{
		logger:      logger,
		service:     service,
		printer:     printer,
		idempotency: idempotency,
		validate:    validator.New(),
		gate:        gate,
	}
}

// MountRoutes registers the return workflow routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireView("/sales/returns"))
		r.Get("/returns", h.list)
		r.Get("/returns/draft", h.showDraft)
		r.Post("/returns/draft/customer", h.selectCustomer)
		r.Post("/returns/draft/order", h.selectOrder)
		r.Post("/returns/draft/quantity", h.setQuantity)
		r.Post("/returns/draft/remarks", h.setRemarks)
		r.Post("/returns/submit", h.submit)
		r.Get("/returns/{id}", h.show)
		r.Get("/returns/{id}/print", h.printHTML)
		r.Get("/returns/{id}/print.pdf", h.printPDF)
	})
}

type selectCustomerRequest struct {
	CustomerID int64 `json:"customer_id" validate:"required,gt=0"`
}

type selectOrderRequest struct {
	SaleOrderID int64 `json:"sale_order_id" validate:"required,gt=0"`
}

type setQuantityRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"gte=0"`
}

type setRemarksRequest struct {
	Remarks string `json:"remarks" validate:"max=500"`
}

func (h *Handler) showDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Draft(r.Context(), h.sessionID(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, draft)
}

func (h *Handler) selectCustomer(w http.ResponseWriter, r *http.Request) {
	var req selectCustomerRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	draft, err := h.service.SelectCustomer(r.Context(), h.sessionID(r), req.CustomerID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, draft)
}

func (h *Handler) selectOrder(w http.ResponseWriter, r *http.Request) {
	var req selectOrderRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	draft, err := h.service.SelectOrder(r.Context(), h.sessionID(r), req.SaleOrderID)
	if err != nil {
		if draft != nil {
			// order stays selected with no items; surface the load failure
			h.logger.Warn("order items load failed", slog.Any("error", err))
			httpx.JSON(w, http.StatusBadGateway, map[string]any{
				"draft": draft,
				"error": sharederr.UserSafeMessage(sharederr.ErrFetch),
			})
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, draft)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	draft, err := h.service.SetReturnQuantity(r.Context(), h.sessionID(r), req.ProductID, req.Quantity)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, draft)
}

func (h *Handler) setRemarks(w http.ResponseWriter, r *http.Request) {
	var req setRemarksRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	draft, err := h.service.SetRemarks(r.Context(), h.sessionID(r), req.Remarks)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, draft)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	sess := sharederr.SessionFromContext(r.Context())
	submittedBy := ""
	if sess != nil {
		submittedBy = sess.User()
	}
	if key := r.Header.Get("Idempotency-Key"); key != "" && h.idempotency != nil {
		if err := h.idempotency.CheckAndInsert(r.Context(), key, "sales.returns"); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}
	outcome, err := h.service.Submit(r.Context(), h.sessionID(r), submittedBy)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, outcome)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	perPage := 20
	docs, err := h.service.List(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"returns":    docs,
		"pagination": sharederr.NewPagination(page, perPage, len(docs)),
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, sharederr.Validationf("invalid return id"))
		return
	}
	doc, err := h.service.Document(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) printHTML(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, sharederr.Validationf("invalid return id"))
		return
	}
	html, err := h.printer.RenderCreditNote(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func (h *Handler) printPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, sharederr.Validationf("invalid return id"))
		return
	}
	pdf, err := h.printer.RenderCreditNotePDF(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="credit-note.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) decode(r *http.Request, dst any) error {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		return sharederr.Validationf("invalid request body")
	}
	if err := h.validate.Struct(dst); err != nil {
		return sharederr.Validationf("invalid request: %v", err)
	}
	return nil
}

func (h *Handler) sessionID(r *http.Request) string {
	if sess := sharederr.SessionFromContext(r.Context()); sess != nil {
		return sess.ID
	}
	return ""
}
