// Package menu evaluates route access against the caller's menu permissions.
// Permissions are fetched fresh from the remote API on every evaluation; a
// stale grant must never outlive a role change, so nothing is cached across
// requests.
package menu

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Fetcher retrieves the caller's menu/permission set.
type Fetcher interface {
	MenuForUser(ctx context.Context) ([]erpapi.MenuPermission, error)
}

// Service fetches and evaluates menu permissions. Concurrent fetches for the
// same session are coalesced with singleflight; the result is discarded as
// soon as every waiter has it.
type Service struct {
	fetcher Fetcher
	group   singleflight.Group
}

// NewService builds Service instance.
func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Menu returns the caller's full menu for rendering navigation.
func (s *Service) Menu(ctx context.Context, sessionID string) ([]erpapi.MenuPermission, error) {
	return s.fetch(ctx, sessionID)
}

// CanView reports whether the caller may view the route. Any fetch failure
// denies access.
func (s *Service) CanView(ctx context.Context, sessionID, route string) (bool, error) {
	perms, err := s.fetch(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("fetch menu: %w", err)
	}
	for _, p := range perms {
		if routeMatches(p.Route, route) {
			return p.CanView, nil
		}
	}
	return false, nil
}

// CanEdit reports whether the caller may modify data under the route.
func (s *Service) CanEdit(ctx context.Context, sessionID, route string) (bool, error) {
	perms, err := s.fetch(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("fetch menu: %w", err)
	}
	for _, p := range perms {
		if routeMatches(p.Route, route) {
			return p.CanEdit, nil
		}
	}
	return false, nil
}

func (s *Service) fetch(ctx context.Context, sessionID string) ([]erpapi.MenuPermission, error) {
	if sessionID == "" {
		return nil, shared.ErrUnauthorized
	}
	v, err, _ := s.group.Do(sessionID, func() (any, error) {
		defer s.group.Forget(sessionID)
		return s.fetcher.MenuForUser(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]erpapi.MenuPermission), nil
}

func routeMatches(granted, requested string) bool {
	granted = strings.TrimRight(granted, "/")
	requested = strings.TrimRight(requested, "/")
	return strings.EqualFold(granted, requested)
}
