package menu

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type mockFetcher struct {
	mu    sync.Mutex
	menu  []erpapi.MenuPermission
	err   error
	calls int
}

func (m *mockFetcher) MenuForUser(ctx context.Context) ([]erpapi.MenuPermission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.menu, nil
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestCanViewMatchesRoute(t *testing.T) {
	fetcher := &mockFetcher{menu: []erpapi.MenuPermission{
		{Route: "/sales/returns", Title: "Sale Returns", CanView: true, CanEdit: false},
		{Route: "/masterdata/products/", Title: "Products", CanView: true, CanEdit: true},
	}}
	svc := NewService(fetcher)

	ok, err := svc.CanView(context.Background(), "sess-1", "/sales/returns")
	require.NoError(t, err)
	assert.True(t, ok)

	// trailing slash on either side is ignored
	ok, err = svc.CanView(context.Background(), "sess-1", "/masterdata/products")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanEdit(context.Background(), "sess-1", "/sales/returns")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanViewDeniesUnknownRoute(t *testing.T) {
	svc := NewService(&mockFetcher{})
	ok, err := svc.CanView(context.Background(), "sess-1", "/admin")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPermissionsFetchedFreshPerEvaluation(t *testing.T) {
	fetcher := &mockFetcher{menu: []erpapi.MenuPermission{{Route: "/a", CanView: true}}}
	svc := NewService(fetcher)

	for range 3 {
		_, err := svc.CanView(context.Background(), "sess-1", "/a")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, fetcher.callCount())
}

func TestFetchFailureDenies(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("upstream down")}
	svc := NewService(fetcher)

	ok, err := svc.CanView(context.Background(), "sess-1", "/sales/returns")
	require.Error(t, err)
	assert.False(t, ok)
}

func newGatedRequest(t *testing.T, svc *Service, token string) *httptest.ResponseRecorder {
	t.Helper()
	mw := Middleware{Service: svc, Logger: slog.New(slog.DiscardHandler)}
	handler := mw.RequireView("/sales/returns")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	sess := &shared.Session{ID: "sess-1"}
	if token != "" {
		sess.SetToken(token)
	}
	req := httptest.NewRequest(http.MethodGet, "/sales/returns", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareAllowsGrantedRoute(t *testing.T) {
	fetcher := &mockFetcher{menu: []erpapi.MenuPermission{{Route: "/sales/returns", CanView: true}}}
	rec := newGatedRequest(t, NewService(fetcher), "tok")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewareDeniesWithoutGrant(t *testing.T) {
	fetcher := &mockFetcher{menu: []erpapi.MenuPermission{{Route: "/sales/returns", CanView: false}}}
	rec := newGatedRequest(t, NewService(fetcher), "tok")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddlewareFailsClosedOnFetchError(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("upstream down")}
	rec := newGatedRequest(t, NewService(fetcher), "tok")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddlewareRejectsAnonymousSession(t *testing.T) {
	fetcher := &mockFetcher{menu: []erpapi.MenuPermission{{Route: "/sales/returns", CanView: true}}}
	rec := newGatedRequest(t, NewService(fetcher), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, fetcher.callCount())
}
