package menu

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Middleware wires route-level permission checks for HTTP handlers. Every
// decision is fail-closed: no session, no grant, or a failed fetch all deny.
type Middleware struct {
	Service *Service
	Audit   AuditRecorder
	Logger  *slog.Logger
}

// AuditRecorder appends denial events to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// RequireView blocks requests whose session cannot view the route.
func (m Middleware) RequireView(route string) func(http.Handler) http.Handler {
	return m.require(route, func(ctx context.Context, sessionID string) (bool, error) {
		return m.Service.CanView(ctx, sessionID, route)
	})
}

// RequireEdit blocks requests whose session cannot modify data on the route.
func (m Middleware) RequireEdit(route string) func(http.Handler) http.Handler {
	return m.require(route, func(ctx context.Context, sessionID string) (bool, error) {
		return m.Service.CanEdit(ctx, sessionID, route)
	})
}

func (m Middleware) require(route string, check func(context.Context, string) (bool, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.Token() == "" {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			allowed, err := check(r.Context(), sess.ID)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("menu permission fetch", slog.String("route", route), slog.Any("error", err))
				}
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			if !allowed {
				m.recordDenial(r, route, sess.User())
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) recordDenial(r *http.Request, route, actor string) {
	if m.Audit == nil {
		return
	}
	log := shared.AuditLog{
		ActorID:  actor,
		Action:   shared.AuditActionMenuDenied,
		Entity:   "route",
		EntityID: route,
	}
	if err := m.Audit.Record(r.Context(), log); err != nil && m.Logger != nil {
		m.Logger.Warn("audit denial", slog.Any("error", err))
	}
}
