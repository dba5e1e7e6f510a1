package returns

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	sharederr "github.com/meridian-erp/meridian-erp/internal/shared"
)

// OrderGateway supplies customers, their sale orders and order lines.
type OrderGateway interface {
	GetCustomer(ctx context.Context, id int64) (*erpapi.Customer, error)
	SaleOrdersByCustomer(ctx context.Context, customerID int64) ([]erpapi.SaleOrder, error)
	SaleOrderLines(ctx context.Context, orderID int64) ([]erpapi.OrderLine, error)
}

// ReturnGateway persists and re-fetches sale returns.
type ReturnGateway interface {
	SubmitReturn(ctx context.Context, sub erpapi.ReturnSubmission) (*erpapi.ReturnReceipt, error)
	GetReturn(ctx context.Context, headerID int64) (*erpapi.ReturnDocument, error)
	ListReturns(ctx context.Context, limit, offset int) ([]erpapi.ReturnDocument, error)
}

// LedgerPoster records the credit side effect of a saved return.
type LedgerPoster interface {
	PostReturnCredit(ctx context.Context, customerID int64, amount float64, referenceNumber, postedBy string) error
}

// AuditRecorder appends workflow events to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, log sharederr.AuditLog) error
}

// Service drives the return workflow for browser sessions.
type Service struct {
	logger  *slog.Logger
	store   *DraftStore
	orders  OrderGateway
	returns ReturnGateway
	ledger  LedgerPoster
	audit   AuditRecorder

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, store *DraftStore, orders OrderGateway, returns ReturnGateway, ledger LedgerPoster, audit AuditRecorder) *Service {
	return &Service{
		logger:   logger,
		store:    store,
		orders:   orders,
		returns:  returns,
		ledger:   ledger,
		audit:    audit,
		inFlight: make(map[string]struct{}),
	}
}

// Draft returns the session's current draft.
func (s *Service) Draft(ctx context.Context, sessionID string) (*Draft, error) {
	return s.store.Load(ctx, sessionID)
}

// SelectCustomer verifies the customer exists and re-homes the draft on it,
// clearing any previously selected order and items.
func (s *Service) SelectCustomer(ctx context.Context, sessionID string, customerID int64) (*Draft, error) {
	customer, err := s.orders.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("verify customer: %w", err)
	}
	draft, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.SelectCustomer(customer.ID, customer.Name)
	if err := s.store.Save(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SelectOrder picks a source order and loads its lines. When the line fetch
// fails the order stays selected with no items; the caller may retry by
// selecting the order again, nothing retries automatically.
func (s *Service) SelectOrder(ctx context.Context, sessionID string, orderID int64) (*Draft, error) {
	draft, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.CustomerID == 0 {
		return nil, sharederr.Validationf("select a customer first")
	}

	orders, err := s.orders.SaleOrdersByCustomer(ctx, draft.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var number string
	found := false
	for _, o := range orders {
		if o.ID == orderID {
			number = o.Number
			found = true
			break
		}
	}
	if !found {
		return nil, sharederr.Validationf("order %d does not belong to the selected customer", orderID)
	}

	if err := draft.SelectSourceOrder(orderID, number); err != nil {
		return nil, err
	}

	lines, err := s.orders.SaleOrderLines(ctx, orderID)
	if err != nil {
		if saveErr := s.store.Save(ctx, sessionID, draft); saveErr != nil {
			return nil, saveErr
		}
		return draft, fmt.Errorf("load order items: %w", err)
	}

	items := make([]Line, 0, len(lines))
	for _, l := range lines {
		items = append(items, Line{
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			OrderedQuantity: l.Quantity,
			Rate:            l.Rate,
			DiscountPercent: l.DiscountPercent,
			TaxPercent:      l.TaxPercent,
		})
	}
	if err := draft.LoadItems(items); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SetReturnQuantity updates one line's quantity and recomputes totals.
func (s *Service) SetReturnQuantity(ctx context.Context, sessionID string, productID int64, qty float64) (*Draft, error) {
	draft, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := draft.SetReturnQuantity(productID, qty); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SetRemarks stores free-text remarks on the draft.
func (s *Service) SetRemarks(ctx context.Context, sessionID, remarks string) (*Draft, error) {
	draft, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.Remarks = remarks
	if err := s.store.Save(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Submit validates the draft locally, persists the return and posts the
// ledger credit best-effort. A ledger failure degrades the outcome with a
// warning but never rolls the saved return back. One submission per session
// may be in flight at a time.
func (s *Service) Submit(ctx context.Context, sessionID, submittedBy string) (*SubmitOutcome, error) {
	if !s.begin(sessionID) {
		return nil, sharederr.Validationf("a submission is already in progress")
	}
	defer s.end(sessionID)

	draft, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := draft.ValidateForSubmit(); err != nil {
		return nil, err
	}

	draft.State = StateSubmitting

	items := make([]erpapi.ReturnItem, 0, len(draft.Lines))
	for _, l := range draft.Lines {
		if l.ReturnQuantity <= 0 {
			continue
		}
		items = append(items, erpapi.ReturnItem{
			ProductID:       l.ProductID,
			Quantity:        l.ReturnQuantity,
			Rate:            l.Rate,
			DiscountPercent: l.DiscountPercent,
			TaxPercent:      l.TaxPercent,
			Amount:          l.Amounts.Total,
		})
	}

	receipt, err := s.returns.SubmitReturn(ctx, erpapi.ReturnSubmission{
		ReturnDate:  draft.ReturnDate,
		SaleOrderID: draft.SaleOrderID,
		CustomerID:  draft.CustomerID,
		Remarks:     draft.Remarks,
		Items:       items,
		CreatedBy:   submittedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("submit return: %w: %w", sharederr.ErrSubmission, err)
	}

	outcome := &SubmitOutcome{
		ReturnNumber: receipt.ReturnNumber,
		HeaderID:     receipt.SaleReturnHeaderID,
		LedgerPosted: true,
		GatePass: GatePassParams{
			ReferenceNumber: receipt.ReturnNumber,
			ReferenceID:     receipt.SaleReturnHeaderID,
			TotalQuantity:   draft.TotalReturnQuantity(),
			PartyName:       draft.CustomerName,
		},
	}

	s.recordAudit(ctx, sharederr.AuditLog{
		ActorID:  submittedBy,
		Action:   sharederr.AuditActionReturnSubmit,
		Entity:   "sale_return",
		EntityID: receipt.ReturnNumber,
		Meta:     map[string]any{"grand_total": draft.Totals.GrandTotal, "order": draft.SaleOrderNumber},
		At:       time.Now(),
	})

	if err := s.ledger.PostReturnCredit(ctx, draft.CustomerID, draft.Totals.GrandTotal, receipt.ReturnNumber, submittedBy); err != nil {
		s.logger.Warn("ledger posting failed after return save",
			slog.String("return", receipt.ReturnNumber),
			slog.Any("error", err))
		outcome.LedgerPosted = false
		outcome.Warning = "return saved, but the credit could not be posted to the customer ledger"
		s.recordAudit(ctx, sharederr.AuditLog{
			ActorID:  submittedBy,
			Action:   sharederr.AuditActionLedgerDegraded,
			Entity:   "sale_return",
			EntityID: receipt.ReturnNumber,
			At:       time.Now(),
		})
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("discard submitted draft", slog.Any("error", err))
	}
	return outcome, nil
}

// Document re-fetches a persisted return for display.
func (s *Service) Document(ctx context.Context, headerID int64) (*erpapi.ReturnDocument, error) {
	return s.returns.GetReturn(ctx, headerID)
}

// List returns persisted sale returns, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]erpapi.ReturnDocument, error) {
	return s.returns.ListReturns(ctx, limit, offset)
}

func (s *Service) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *Service) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

func (s *Service) recordAudit(ctx context.Context, log sharederr.AuditLog) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, log); err != nil {
		s.logger.Warn("audit record failed", slog.String("action", log.Action), slog.Any("error", err))
	}
}
