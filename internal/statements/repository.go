package statements

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentfolio/rentfolio/internal/ledger"
)

// Repository provides PostgreSQL backed persistence for statements.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListContracts pages a partner's contracts ordered by contract ID.
func (r *Repository) ListContracts(ctx context.Context, partnerID string, limit, offset int) ([]Contract, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, partner_id, tenant_id, agent_id, branch_id, account_id, property_id
FROM contracts WHERE partner_id=$1 ORDER BY id LIMIT $2 OFFSET $3`, partnerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var contracts []Contract
	for rows.Next() {
		var c Contract
		if err := rows.Scan(&c.ID, &c.PartnerID, &c.TenantID, &c.AgentID, &c.BranchID, &c.AccountID, &c.PropertyID); err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

// ExistingContractIDs returns contract IDs already covered by a statement.
func (r *Repository) ExistingContractIDs(ctx context.Context, partnerID string, year int) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT contract_id FROM annual_statements WHERE partner_id=$1 AND statement_year=$2`, partnerID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// ContractTransactions fetches the contract's transactions whose period falls
// in the statement year.
func (r *Repository) ContractTransactions(ctx context.Context, contractID string, year int) ([]ledger.Transaction, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, type, sub_type, amount, amount_excl_tax, amount_total_tax, credit_tax_percentage,
partner_id, contract_id, account_id, tenant_id, property_id, agent_id, branch_id, period, debit_account_code, credit_account_code, created_at
FROM transactions WHERE contract_id=$1 AND period LIKE $2`, contractID, fmt.Sprintf("%d-%%", year))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	for rows.Next() {
		var tx ledger.Transaction
		if err := rows.Scan(&tx.ID, &tx.Type, &tx.SubType, &tx.Amount, &tx.AmountExclTax, &tx.AmountTotalTax, &tx.CreditTaxPercentage,
			&tx.PartnerID, &tx.ContractID, &tx.AccountID, &tx.TenantID, &tx.PropertyID, &tx.AgentID, &tx.BranchID,
			&tx.Period, &tx.DebitAccountCode, &tx.CreditAccountCode, &tx.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// PartnerSettings loads the partner's invoice settings snapshot.
func (r *Repository) PartnerSettings(ctx context.Context, partnerID string) (PartnerSettings, error) {
	var settings PartnerSettings
	err := r.pool.QueryRow(ctx, `SELECT number_of_decimals_in_invoice FROM partner_settings WHERE partner_id=$1`, partnerID).
		Scan(&settings.NumberOfDecimalsInInvoice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PartnerSettings{}, nil
		}
		return PartnerSettings{}, err
	}
	return settings, nil
}

// InsertStatement persists a generated statement. The upsert is keyed on
// (contract_id, statement_year), so at most one statement exists per contract
// and year; a regenerate run replaces the prior row in place.
func (r *Repository) InsertStatement(ctx context.Context, st AnnualStatement) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO annual_statements
(id, partner_id, contract_id, tenant_id, agent_id, branch_id, account_id, property_id,
 rent_total_excl_tax, rent_total_tax, rent_total, landlord_total, landlord_total_tax, landlord_total_excl_tax,
 total_payouts, status, statement_year, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
ON CONFLICT (contract_id, statement_year) DO UPDATE SET
 id=EXCLUDED.id, partner_id=EXCLUDED.partner_id, tenant_id=EXCLUDED.tenant_id, agent_id=EXCLUDED.agent_id,
 branch_id=EXCLUDED.branch_id, account_id=EXCLUDED.account_id, property_id=EXCLUDED.property_id,
 rent_total_excl_tax=EXCLUDED.rent_total_excl_tax, rent_total_tax=EXCLUDED.rent_total_tax,
 rent_total=EXCLUDED.rent_total, landlord_total=EXCLUDED.landlord_total,
 landlord_total_tax=EXCLUDED.landlord_total_tax, landlord_total_excl_tax=EXCLUDED.landlord_total_excl_tax,
 total_payouts=EXCLUDED.total_payouts, status=EXCLUDED.status, created_at=EXCLUDED.created_at`,
		st.ID, st.PartnerID, st.ContractID, st.TenantID, st.AgentID, st.BranchID, st.AccountID, st.PropertyID,
		st.RentTotalExclTax, st.RentTotalTax, st.RentTotal, st.LandlordTotal, st.LandlordTotalTax, st.LandlordTotalExclTax,
		st.TotalPayouts, st.Status, st.StatementYear, st.CreatedAt)
	return err
}
