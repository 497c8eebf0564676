package commissions

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfolio/rentfolio/internal/shared"
)

type mockCommissionsRepo struct {
	contracts map[string]Contract
	inserted  []Commission
}

func (m *mockCommissionsRepo) GetContract(_ context.Context, contractID string) (Contract, error) {
	c, ok := m.contracts[contractID]
	if !ok {
		return Contract{}, ErrContractNotFound
	}
	return c, nil
}

func (m *mockCommissionsRepo) InsertCommission(_ context.Context, c Commission) error {
	m.inserted = append(m.inserted, c)
	return nil
}

type mockAudit struct {
	logs []shared.AuditLog
}

func (m *mockAudit) Record(_ context.Context, log shared.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func TestRecordForInvoice(t *testing.T) {
	repo := &mockCommissionsRepo{contracts: map[string]Contract{
		"K1": {
			ID:                               "K1",
			Type:                             ContractRentalManagement,
			RentalManagementCommissionType:   RatePercent,
			RentalManagementCommissionAmount: dec("10"),
		},
	}}
	audit := &mockAudit{}
	svc := NewService(repo, NewAggregator(), audit, slog.New(slog.NewTextHandler(io.Discard, nil)))
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return at })

	inv := Invoice{ID: "I1", ContractID: "K1", CommissionableTotal: dec("5000"), TenantID: "T1", BranchID: "B1"}
	records, err := svc.RecordForInvoice(context.Background(), inv)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, at, records[0].CreatedAt)
	require.Len(t, repo.inserted, 1)

	require.Len(t, audit.logs, 1)
	entry := audit.logs[0]
	assert.Equal(t, shared.SystemActor, entry.Actor)
	assert.Equal(t, "commission", entry.Context)
	assert.Equal(t, "commission.create", entry.Action)
	assert.Equal(t, records[0].ID, entry.EntityID)
	assert.Equal(t, "I1", entry.Meta["invoice_id"])
	assert.Equal(t, "T1", entry.Meta["tenant_id"])
	assert.Equal(t, "B1", entry.Meta["branch_id"])
}

func TestRecordForInvoiceContractNotFound(t *testing.T) {
	repo := &mockCommissionsRepo{contracts: map[string]Contract{}}
	svc := NewService(repo, NewAggregator(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.RecordForInvoice(context.Background(), Invoice{ID: "I1", ContractID: "missing"})
	assert.ErrorIs(t, err, ErrContractNotFound)
}

func TestRecordForInvoiceValidation(t *testing.T) {
	svc := NewService(&mockCommissionsRepo{}, NewAggregator(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.RecordForInvoice(context.Background(), Invoice{ContractID: "K1"})
	assert.Error(t, err)

	_, err = svc.RecordForInvoice(context.Background(), Invoice{ID: "I1"})
	assert.Error(t, err)
}
