// Package ledger posts financial side effects of front-office workflows to
// the remote ledger. Postings are best effort by contract: callers decide
// how a failure degrades their outcome, nothing here retries.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// PaymentModeCreditNote marks entries originating from sale returns.
const PaymentModeCreditNote = "CREDIT_NOTE"

// Gateway posts entries to the remote ledger.
type Gateway interface {
	PostLedgerEntry(ctx context.Context, entry erpapi.LedgerEntry) error
}

// Service validates and posts ledger entries.
type Service struct {
	gateway Gateway
}

// NewService builds Service instance.
func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// PostReturnCredit records the credit owed to a customer for a saved return.
func (s *Service) PostReturnCredit(ctx context.Context, customerID int64, amount float64, referenceNumber, postedBy string) error {
	if customerID <= 0 {
		return shared.Validationf("customer required for ledger entry")
	}
	if amount <= 0 {
		return shared.Validationf("ledger amount must be positive")
	}
	if referenceNumber == "" {
		return shared.Validationf("ledger reference required")
	}
	entry := erpapi.LedgerEntry{
		CustomerID:      customerID,
		Amount:          amount,
		PaymentMode:     PaymentModeCreditNote,
		ReferenceNumber: referenceNumber,
		PaymentDate:     time.Now(),
		Remarks:         "credit note " + referenceNumber,
		CreatedBy:       postedBy,
	}
	if err := s.gateway.PostLedgerEntry(ctx, entry); err != nil {
		return fmt.Errorf("post ledger entry: %w: %w", shared.ErrSideEffect, err)
	}
	return nil
}
