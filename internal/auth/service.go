// Package auth signs users in against the remote ERP API and manages the
// local session lifecycle: token storage, theme preference and idle logout.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Gateway authenticates against the remote API.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*erpapi.LoginResult, error)
}

// AuditRecorder appends auth events to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles login and logout.
type Service struct {
	gateway Gateway
	audit   AuditRecorder
}

// NewService builds Service instance.
func NewService(gateway Gateway, audit AuditRecorder) *Service {
	return &Service{gateway: gateway, audit: audit}
}

// Login authenticates and primes the session with the token and identity.
func (s *Service) Login(ctx context.Context, sess *shared.Session, email, password string) (*erpapi.LoginResult, error) {
	result, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("login: %w", shared.ErrUnauthorized)
	}

	sess.SetUser(fmt.Sprintf("%d", result.UserID), result.UserName)
	sess.SetToken(result.Token)
	sess.Touch(time.Now())

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  fmt.Sprintf("%d", result.UserID),
			Action:   shared.AuditActionLogin,
			Entity:   "user",
			EntityID: email,
			At:       time.Now(),
		})
	}
	return result, nil
}
