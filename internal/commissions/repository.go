package commissions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentfolio/rentfolio/internal/shared"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ErrContractNotFound indicates the owning contract is absent.
var ErrContractNotFound = errors.New("commissions: contract not found")

// Repository provides PostgreSQL backed persistence for commissions.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetContract loads the commission configuration for a contract.
func (r *Repository) GetContract(ctx context.Context, contractID string) (Contract, error) {
	var c Contract
	err := r.pool.QueryRow(ctx, `SELECT id, type, rental_management_commission_type, rental_management_commission_amount,
brokering_commission_type, brokering_commission_amount, monthly_rent_amount
FROM contracts WHERE id=$1`, contractID).
		Scan(&c.ID, &c.Type, &c.RentalManagementCommissionType, &c.RentalManagementCommissionAmount,
			&c.BrokeringCommissionType, &c.BrokeringCommissionAmount, &c.MonthlyRentAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Contract{}, ErrContractNotFound
		}
		return Contract{}, err
	}
	return c, nil
}

// InsertCommission persists a computed commission record.
func (r *Repository) InsertCommission(ctx context.Context, c Commission) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO commissions
(id, type, amount, invoice_id, addon_id, payout_id, commission_id,
 partner_id, account_id, property_id, agent_id, branch_id, tenant_id, created_at)
VALUES ($1,$2,$3,$4,NULLIF($5,''),NULLIF($6,''),NULLIF($7,''),$8,$9,$10,$11,$12,$13,$14)`,
		c.ID, c.Type, c.Amount, c.InvoiceID, c.AddonID, c.PayoutID, c.CommissionID,
		c.PartnerID, c.AccountID, c.PropertyID, c.AgentID, c.BranchID, c.TenantID, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrConflict
		}
		return err
	}
	return nil
}
