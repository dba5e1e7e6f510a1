package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-erp/meridian-erp/internal/auth"
	"github.com/meridian-erp/meridian-erp/internal/dashboard"
	"github.com/meridian-erp/meridian-erp/internal/gatepass"
	"github.com/meridian-erp/meridian-erp/internal/masterdata/categories"
	"github.com/meridian-erp/meridian-erp/internal/masterdata/pricelists"
	"github.com/meridian-erp/meridian-erp/internal/masterdata/products"
	"github.com/meridian-erp/meridian-erp/internal/menu"
	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	"github.com/meridian-erp/meridian-erp/internal/procurement"
	"github.com/meridian-erp/meridian-erp/internal/sales/customers"
	"github.com/meridian-erp/meridian-erp/internal/sales/orders"
	"github.com/meridian-erp/meridian-erp/internal/sales/returns"
	"github.com/meridian-erp/meridian-erp/internal/shared"
	"github.com/meridian-erp/meridian-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	MenuService *menu.Service

	AuthHandler        *auth.Handler
	CustomersHandler   *customers.Handler
	OrdersHandler      *orders.Handler
	ReturnsHandler     *returns.Handler
	GatePassHandler    *gatepass.Handler
	ProductsHandler    *products.Handler
	CategoriesHandler  *categories.Handler
	PriceListsHandler  *pricelists.Handler
	ProcurementHandler *procurement.Handler
	DashboardHandler   *dashboard.Handler
	JobsHandler        *jobs.Handler
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// The navigation menu doubles as the permission manifest. It is fetched
	// fresh per request so revoked grants disappear on the next page load.
	r.Get("/menu", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.Token() == "" {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		items, err := params.MenuService.Menu(r.Context(), sess.ID)
		if err != nil {
			params.Logger.Error("fetch menu", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"menu": items})
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/sales", func(r chi.Router) {
		params.CustomersHandler.MountRoutes(r)
		params.OrdersHandler.MountRoutes(r)
		params.ReturnsHandler.MountRoutes(r)
	})

	r.Route("/masterdata", func(r chi.Router) {
		params.ProductsHandler.MountRoutes(r)
		params.CategoriesHandler.MountRoutes(r)
		params.PriceListsHandler.MountRoutes(r)
	})

	r.Route("/procurement", params.ProcurementHandler.MountRoutes)

	params.GatePassHandler.MountRoutes(r)
	params.DashboardHandler.MountRoutes(r)

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	return r
}
