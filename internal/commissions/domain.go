package commissions

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type enumerates commission record kinds. The type doubles as the
// accounting sub-type used when the record is later posted as a transaction.
type Type string

const (
	TypeBrokeringContract        Type = "brokering_contract"
	TypeRentalManagementContract Type = "rental_management_contract"
	TypeAssignmentAddonIncome    Type = "assignment_addon_income"
	TypeAddonCommission          Type = "addon_commission"
)

// RateType selects between a flat amount and a percentage formula.
type RateType string

const (
	RateFixed   RateType = "fixed"
	RatePercent RateType = "percent"
)

// ContractType enumerates the contract models a commission derives from.
type ContractType string

const (
	ContractBrokering        ContractType = "brokering"
	ContractRentalManagement ContractType = "rental_management"
	ContractAssignment       ContractType = "assignment"
)

// Commission is a computed fee owed to the managing party, derived from an
// invoice. Records with a zero amount are never persisted.
type Commission struct {
	ID        string
	Type      Type
	Amount    decimal.Decimal
	InvoiceID string
	AddonID   string
	PayoutID  string
	// CommissionID self-references the original commission when this record
	// credits one back.
	CommissionID string
	PartnerID    string
	AccountID    string
	PropertyID   string
	AgentID      string
	BranchID     string
	TenantID     string
	CreatedAt    time.Time
}

// Contract carries the commission configuration agreed with the landlord.
type Contract struct {
	ID                               string
	Type                             ContractType
	RentalManagementCommissionType   RateType
	RentalManagementCommissionAmount decimal.Decimal
	BrokeringCommissionType          RateType
	BrokeringCommissionAmount        decimal.Decimal
	MonthlyRentAmount                decimal.Decimal
}

// Addon is an invoice line item that may carry its own commission terms.
type Addon struct {
	ID                   string
	Total                decimal.Decimal
	CommissionEnabled    bool
	CommissionPercentage decimal.NullDecimal
	// ContractType is the addon's contract-level type; assignment addons
	// produce a straight income pass-through instead of a commission.
	ContractType ContractType
}

// Invoice is the commission base produced by the upstream invoicing process.
type Invoice struct {
	ID                  string
	ContractID          string
	CommissionableTotal decimal.Decimal
	Addons              []Addon
	PartnerID           string
	AccountID           string
	PropertyID          string
	AgentID             string
	BranchID            string
	TenantID            string
}
