package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for integrations.
// Mapping collections are stored as jsonb documents.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const integrationColumns = `id, partner_id, account_id, type, status, is_global, from_date,
application_key, client_key, api_token, mappings, created_at, updated_at`

type mappingsDoc struct {
	Accounts    []AccountMapping    `json:"accounts,omitempty"`
	Branches    []BranchMapping     `json:"branches,omitempty"`
	Groups      []GroupMapping      `json:"groups,omitempty"`
	TaxCodes    []TaxCodeMapping    `json:"taxCodes,omitempty"`
	Assignments []InternalIDMapping `json:"assignments,omitempty"`
	Leases      []InternalIDMapping `json:"leases,omitempty"`
	Employees   []EmployeeMapping   `json:"employees,omitempty"`
	ObjectKinds []ObjectKindMapping `json:"objectKinds,omitempty"`
}

func scanIntegration(row pgx.Row) (Integration, error) {
	var (
		integ Integration
		doc   []byte
	)
	err := row.Scan(&integ.ID, &integ.PartnerID, &integ.AccountID, &integ.Type, &integ.Status, &integ.IsGlobal, &integ.FromDate,
		&integ.ApplicationKey, &integ.ClientKey, &integ.APIToken, &doc, &integ.CreatedAt, &integ.UpdatedAt)
	if err != nil {
		return Integration{}, err
	}
	var m mappingsDoc
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, &m); err != nil {
			return Integration{}, fmt.Errorf("integrations: decode mappings for %s: %w", integ.ID, err)
		}
	}
	integ.MapAccounts = m.Accounts
	integ.MapBranches = m.Branches
	integ.MapGroups = m.Groups
	integ.MapTaxCodes = m.TaxCodes
	integ.MapAssignments = m.Assignments
	integ.MapLeases = m.Leases
	integ.MapEmployees = m.Employees
	integ.MapObjectKinds = m.ObjectKinds
	return integ, nil
}

// Get resolves the integration for the (partner, account, type) tuple.
// When the partner has no per-account document the global integration is the
// fallback. Exactly one document per tuple is an invariant enforced here.
func (r *Repository) Get(ctx context.Context, partnerID, accountID string, typ SystemType) (Integration, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+integrationColumns+` FROM integrations
WHERE partner_id=$1 AND account_id=$2 AND type=$3`, partnerID, accountID, typ)
	if err != nil {
		return Integration{}, err
	}
	integs, err := collectIntegrations(rows)
	if err != nil {
		return Integration{}, err
	}
	switch len(integs) {
	case 1:
		return integs[0], nil
	case 0:
		return r.getGlobal(ctx, partnerID, typ)
	default:
		return Integration{}, ErrDuplicate
	}
}

func (r *Repository) getGlobal(ctx context.Context, partnerID string, typ SystemType) (Integration, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+integrationColumns+` FROM integrations
WHERE partner_id=$1 AND type=$2 AND is_global`, partnerID, typ)
	if err != nil {
		return Integration{}, err
	}
	integs, err := collectIntegrations(rows)
	if err != nil {
		return Integration{}, err
	}
	switch len(integs) {
	case 1:
		return integs[0], nil
	case 0:
		return Integration{}, ErrNotFound
	default:
		return Integration{}, ErrDuplicate
	}
}

func collectIntegrations(rows pgx.Rows) ([]Integration, error) {
	defer rows.Close()
	var integs []Integration
	for rows.Next() {
		integ, err := scanIntegration(rows)
		if err != nil {
			return nil, err
		}
		integs = append(integs, integ)
	}
	return integs, rows.Err()
}

// GetByID loads one integration document.
func (r *Repository) GetByID(ctx context.Context, id string) (Integration, error) {
	integ, err := scanIntegration(r.pool.QueryRow(ctx, `SELECT `+integrationColumns+` FROM integrations WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Integration{}, ErrNotFound
		}
		return Integration{}, err
	}
	return integ, nil
}

// SaveMappings replaces the stored mapping document.
func (r *Repository) SaveMappings(ctx context.Context, integ Integration) error {
	doc, err := json.Marshal(mappingsDoc{
		Accounts:    integ.MapAccounts,
		Branches:    integ.MapBranches,
		Groups:      integ.MapGroups,
		TaxCodes:    integ.MapTaxCodes,
		Assignments: integ.MapAssignments,
		Leases:      integ.MapLeases,
		Employees:   integ.MapEmployees,
		ObjectKinds: integ.MapObjectKinds,
	})
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `UPDATE integrations SET mappings=$2, updated_at=$3 WHERE id=$1`, integ.ID, doc, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus records a status transition. The update is conditional so a
// concurrent identical transition is a no-op rather than a lost update.
func (r *Repository) SetStatus(ctx context.Context, id string, to Status) error {
	_, err := r.pool.Exec(ctx, `UPDATE integrations SET status=$2, updated_at=$3 WHERE id=$1 AND status<>$2`, id, to, time.Now())
	return err
}
