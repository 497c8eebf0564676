package reconcile

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentfolio/rentfolio/internal/ledger"
)

// Repository provides the PostgreSQL backed transaction source for
// reconciliation runs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TransactionsSince fetches the partner's transactions created on or after
// the integration's from date. An empty accountID matches all accounts, for
// global integrations.
func (r *Repository) TransactionsSince(ctx context.Context, partnerID, accountID string, from time.Time) ([]ledger.Transaction, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, type, sub_type, amount, amount_excl_tax, amount_total_tax, credit_tax_percentage,
partner_id, contract_id, account_id, tenant_id, property_id, agent_id, branch_id, period,
COALESCE(debit_account_code, ''), COALESCE(credit_account_code, ''), created_at
FROM transactions
WHERE partner_id=$1 AND ($2='' OR account_id=$2) AND created_at >= $3`, partnerID, accountID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
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

// LedgerAccounts resolves the chart-of-accounts entries for the given codes.
func (r *Repository) LedgerAccounts(ctx context.Context, codes []string) ([]ledger.Account, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT a.account_number, a.tax_code_id, COALESCE(t.code, '')
FROM ledger_accounts a
LEFT JOIN tax_codes t ON t.id = a.tax_code_id
WHERE a.account_number = ANY($1)`, codes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []ledger.Account
	for rows.Next() {
		var acc ledger.Account
		if err := rows.Scan(&acc.AccountNumber, &acc.TaxCodeID, &acc.TaxCode); err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}
