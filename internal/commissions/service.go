package commissions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rentfolio/rentfolio/internal/shared"
)

// auditContext tags every commission audit entry.
const auditContext = "commission"

// RepositoryPort abstracts commission persistence.
type RepositoryPort interface {
	GetContract(ctx context.Context, contractID string) (Contract, error)
	InsertCommission(ctx context.Context, c Commission) error
}

// AuditPort records commission events for compliance.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service computes and persists commissions for invoices.
type Service struct {
	repo       RepositoryPort
	aggregator *Aggregator
	audit      AuditPort
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs the commissions service.
func NewService(repo RepositoryPort, aggregator *Aggregator, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, aggregator: aggregator, audit: audit, logger: logger, now: time.Now}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// RecordForInvoice computes the invoice's commissions and persists them.
// Every inserted record produces one audit entry created by SYSTEM.
func (s *Service) RecordForInvoice(ctx context.Context, inv Invoice) ([]Commission, error) {
	if inv.ID == "" {
		return nil, errors.New("commissions: invoice id required")
	}
	if inv.ContractID == "" {
		return nil, errors.New("commissions: contract id required")
	}
	contract, err := s.repo.GetContract(ctx, inv.ContractID)
	if err != nil {
		return nil, fmt.Errorf("commissions: load contract %s: %w", inv.ContractID, err)
	}

	records := s.aggregator.Compute(inv, contract)
	for i := range records {
		records[i].ID = uuid.New().String()
		records[i].CreatedAt = s.now()
		if err := s.repo.InsertCommission(ctx, records[i]); err != nil {
			return nil, fmt.Errorf("commissions: insert commission for invoice %s: %w", inv.ID, err)
		}
		if s.audit != nil {
			_ = s.audit.Record(ctx, shared.AuditLog{
				Actor:    shared.SystemActor,
				Context:  auditContext,
				Action:   "commission.create",
				Entity:   "commission",
				EntityID: records[i].ID,
				Meta: map[string]any{
					"type":        string(records[i].Type),
					"invoice_id":  inv.ID,
					"account_id":  inv.AccountID,
					"property_id": inv.PropertyID,
					"tenant_id":   inv.TenantID,
					"branch_id":   inv.BranchID,
				},
				At: s.now(),
			})
		}
	}
	if len(records) > 0 {
		s.logger.Info("commissions recorded",
			slog.String("invoice_id", inv.ID),
			slog.Int("count", len(records)))
	}
	return records, nil
}
