package statements

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates statement lifecycle values.
type Status string

const (
	StatusCreated   Status = "created"
	StatusCompleted Status = "completed"
)

// AnnualStatement is the yearly rollup of rent and landlord totals for one
// lease contract. All monetary fields are rounded to the partner's configured
// decimal count.
type AnnualStatement struct {
	ID                   string
	PartnerID            string
	ContractID           string
	TenantID             string
	AgentID              string
	BranchID             string
	AccountID            string
	PropertyID           string
	RentTotalExclTax     decimal.Decimal
	RentTotalTax         decimal.Decimal
	RentTotal            decimal.Decimal
	LandlordTotal        decimal.Decimal
	LandlordTotalTax     decimal.Decimal
	LandlordTotalExclTax decimal.Decimal
	TotalPayouts         decimal.Decimal
	Status               Status
	StatementYear        int
	CreatedAt            time.Time
}

// Contract carries the ownership fields copied onto a statement.
type Contract struct {
	ID         string
	PartnerID  string
	TenantID   string
	AgentID    string
	BranchID   string
	AccountID  string
	PropertyID string
}

// PartnerSettings is the snapshot of partner invoice configuration relevant
// to statement generation.
type PartnerSettings struct {
	// NumberOfDecimalsInInvoice is 0 or 2; zero-value means "unset".
	NumberOfDecimalsInInvoice *int32
}

const defaultDecimals int32 = 2

// Decimals returns the configured rounding precision, defaulting to 2.
func (s PartnerSettings) Decimals() int32 {
	if s.NumberOfDecimalsInInvoice == nil {
		return defaultDecimals
	}
	return *s.NumberOfDecimalsInInvoice
}
