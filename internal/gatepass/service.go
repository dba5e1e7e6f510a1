// Package gatepass issues gate passes for goods moving through the premises.
// The return workflow hands its follow-up parameters here so the form is
// prefilled; nothing forces the user to complete it.
package gatepass

import (
	"context"
	"fmt"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Gateway persists gate passes behind the remote API.
type Gateway interface {
	CreateGatePass(ctx context.Context, in erpapi.GatePassInput) (*erpapi.GatePass, error)
	ListGatePasses(ctx context.Context, limit, offset int) ([]erpapi.GatePass, error)
	CancelGatePass(ctx context.Context, id int64, reason string) error
}

// CreateRequest is the validated input for issuing a gate pass.
type CreateRequest struct {
	Direction       string  `json:"direction" validate:"required,oneof=INWARD OUTWARD"`
	ReferenceNumber string  `json:"reference_number" validate:"required"`
	ReferenceID     int64   `json:"reference_id"`
	PartyName       string  `json:"party_name" validate:"required"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	VehicleNumber   string  `json:"vehicle_number"`
	Remarks         string  `json:"remarks" validate:"max=500"`
}

// Service issues and lists gate passes.
type Service struct {
	gateway Gateway
}

// NewService builds Service instance.
func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// Create issues a gate pass.
func (s *Service) Create(ctx context.Context, req CreateRequest, createdBy string) (*erpapi.GatePass, error) {
	if !Direction(req.Direction).IsValid() {
		return nil, shared.Validationf("invalid gate pass direction %q", req.Direction)
	}
	if req.Quantity <= 0 {
		return nil, shared.Validationf("gate pass quantity must be positive")
	}
	pass, err := s.gateway.CreateGatePass(ctx, erpapi.GatePassInput{
		Direction:       req.Direction,
		ReferenceNumber: req.ReferenceNumber,
		ReferenceID:     req.ReferenceID,
		PartyName:       req.PartyName,
		Quantity:        req.Quantity,
		VehicleNumber:   req.VehicleNumber,
		Remarks:         req.Remarks,
		CreatedBy:       createdBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create gate pass: %w", err)
	}
	return pass, nil
}

// List returns gate passes, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]erpapi.GatePass, error) {
	return s.gateway.ListGatePasses(ctx, limit, offset)
}

// Cancel voids an issued pass.
func (s *Service) Cancel(ctx context.Context, id int64, currentStatus Status, reason string) error {
	if !currentStatus.CanCancel() {
		return shared.Validationf("gate pass in status %s cannot be cancelled", currentStatus)
	}
	if err := s.gateway.CancelGatePass(ctx, id, reason); err != nil {
		return fmt.Errorf("cancel gate pass: %w", err)
	}
	return nil
}

// PrefillFromReturn builds a create request from return follow-up parameters.
func PrefillFromReturn(referenceNumber string, referenceID int64, totalQuantity float64, partyName string) CreateRequest {
	return CreateRequest{
		Direction:       string(DirectionInward),
		ReferenceNumber: referenceNumber,
		ReferenceID:     referenceID,
		PartyName:       partyName,
		Quantity:        totalQuantity,
	}
}
