package commissions

import (
	"github.com/shopspring/decimal"

	"github.com/rentfolio/rentfolio/internal/money"
)

// Aggregator computes commission records for an invoice using the owning
// contract's formulas. It is a pure computation; persistence and audit
// logging live in the service.
type Aggregator struct{}

// NewAggregator constructs an aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Compute derives zero or more commission records from the invoice. Addons
// are processed first and each commissioned addon's total is subtracted from
// the running commissionable total, so addons are commissioned on top of the
// base commission rather than duplicated within it. Zero-amount records are
// dropped.
func (a *Aggregator) Compute(inv Invoice, contract Contract) []Commission {
	var records []Commission
	base := inv.CommissionableTotal

	for _, addon := range inv.Addons {
		if addon.ContractType == ContractAssignment {
			// Assignment addon income passes the addon total straight through.
			records = appendNonZero(records, buildRecord(inv, TypeAssignmentAddonIncome, addon.ID, money.Round2(addon.Total)))
			base = base.Sub(addon.Total)
			continue
		}
		if !addon.CommissionEnabled {
			continue
		}
		pct, ok := addonPercentage(addon, contract)
		if !ok {
			continue
		}
		amount := money.Round2(money.Percentage(addon.Total, pct))
		records = appendNonZero(records, buildRecord(inv, TypeAddonCommission, addon.ID, amount))
		base = base.Sub(addon.Total)
	}

	switch contract.Type {
	case ContractRentalManagement:
		amount := rateAmount(contract.RentalManagementCommissionType, contract.RentalManagementCommissionAmount, base)
		records = appendNonZero(records, buildRecord(inv, TypeRentalManagementContract, "", money.Round2(amount)))
	case ContractBrokering:
		amount := rateAmount(contract.BrokeringCommissionType, contract.BrokeringCommissionAmount, contract.MonthlyRentAmount)
		records = appendNonZero(records, buildRecord(inv, TypeBrokeringContract, "", money.Round2(amount)))
	}

	return records
}

// addonPercentage resolves the percentage an addon is commissioned at. The
// addon's own percentage wins; otherwise the contract's rental-management
// percentage applies, but only when that configuration is itself
// percent-based.
func addonPercentage(addon Addon, contract Contract) (decimal.Decimal, bool) {
	if addon.CommissionPercentage.Valid {
		return addon.CommissionPercentage.Decimal, true
	}
	if contract.RentalManagementCommissionType == RatePercent {
		return contract.RentalManagementCommissionAmount, true
	}
	return decimal.Zero, false
}

func rateAmount(rate RateType, configured, base decimal.Decimal) decimal.Decimal {
	switch rate {
	case RateFixed:
		return configured
	case RatePercent:
		return money.Percentage(base, configured)
	default:
		return decimal.Zero
	}
}

func buildRecord(inv Invoice, typ Type, addonID string, amount decimal.Decimal) Commission {
	return Commission{
		Type:       typ,
		Amount:     amount,
		InvoiceID:  inv.ID,
		AddonID:    addonID,
		PartnerID:  inv.PartnerID,
		AccountID:  inv.AccountID,
		PropertyID: inv.PropertyID,
		AgentID:    inv.AgentID,
		BranchID:   inv.BranchID,
		TenantID:   inv.TenantID,
	}
}

func appendNonZero(records []Commission, c Commission) []Commission {
	if c.Amount.IsZero() {
		return records
	}
	return append(records, c)
}
