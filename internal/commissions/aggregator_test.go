package commissions

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestComputeRentalManagementPercent(t *testing.T) {
	agg := NewAggregator()
	inv := Invoice{ID: "I1", CommissionableTotal: dec("5000")}
	contract := Contract{
		Type:                             ContractRentalManagement,
		RentalManagementCommissionType:   RatePercent,
		RentalManagementCommissionAmount: dec("10"),
	}

	records := agg.Compute(inv, contract)

	require.Len(t, records, 1)
	assert.Equal(t, TypeRentalManagementContract, records[0].Type)
	assert.True(t, records[0].Amount.Equal(dec("500")), "amount = %s", records[0].Amount)
}

func TestComputeRentalManagementFixed(t *testing.T) {
	agg := NewAggregator()
	inv := Invoice{ID: "I1", CommissionableTotal: dec("5000")}
	contract := Contract{
		Type:                             ContractRentalManagement,
		RentalManagementCommissionType:   RateFixed,
		RentalManagementCommissionAmount: dec("750"),
	}

	records := agg.Compute(inv, contract)

	require.Len(t, records, 1)
	assert.True(t, records[0].Amount.Equal(dec("750")))
}

func TestComputeBrokeringUsesMonthlyRent(t *testing.T) {
	agg := NewAggregator()
	// Percent brokering commissions run off the monthly rent, not the invoice.
	inv := Invoice{ID: "I1", CommissionableTotal: dec("99999")}
	contract := Contract{
		Type:                      ContractBrokering,
		BrokeringCommissionType:   RatePercent,
		BrokeringCommissionAmount: dec("8"),
		MonthlyRentAmount:         dec("12000"),
	}

	records := agg.Compute(inv, contract)

	require.Len(t, records, 1)
	assert.Equal(t, TypeBrokeringContract, records[0].Type)
	assert.True(t, records[0].Amount.Equal(dec("960")), "amount = %s", records[0].Amount)
}

func TestComputeAddonDecrementsBase(t *testing.T) {
	agg := NewAggregator()
	inv := Invoice{
		ID:                  "I1",
		CommissionableTotal: dec("5000"),
		Addons: []Addon{
			{ID: "A1", Total: dec("1000"), CommissionEnabled: true, CommissionPercentage: nullDec("20")},
		},
	}
	contract := Contract{
		Type:                             ContractRentalManagement,
		RentalManagementCommissionType:   RatePercent,
		RentalManagementCommissionAmount: dec("10"),
	}

	records := agg.Compute(inv, contract)

	require.Len(t, records, 2)
	assert.Equal(t, TypeAddonCommission, records[0].Type)
	assert.Equal(t, "A1", records[0].AddonID)
	assert.True(t, records[0].Amount.Equal(dec("200")), "addon commission = %s", records[0].Amount)
	// Contract commission applies to 5000 - 1000 = 4000.
	assert.Equal(t, TypeRentalManagementContract, records[1].Type)
	assert.True(t, records[1].Amount.Equal(dec("400")), "contract commission = %s", records[1].Amount)
}

func TestComputeAddonPercentageFallback(t *testing.T) {
	agg := NewAggregator()
	addon := Addon{ID: "A1", Total: dec("1000"), CommissionEnabled: true}

	// Contract percent config backs the addon when it has no rate of its own.
	percentContract := Contract{
		Type:                             ContractRentalManagement,
		RentalManagementCommissionType:   RatePercent,
		RentalManagementCommissionAmount: dec("5"),
	}
	records := agg.Compute(Invoice{ID: "I1", CommissionableTotal: dec("1000"), Addons: []Addon{addon}}, percentContract)
	require.Len(t, records, 1)
	assert.Equal(t, TypeAddonCommission, records[0].Type)
	assert.True(t, records[0].Amount.Equal(dec("50")))

	// Fixed contract config cannot back a percentage; the addon is skipped
	// and its total stays in the contract base.
	fixedContract := Contract{
		Type:                             ContractRentalManagement,
		RentalManagementCommissionType:   RateFixed,
		RentalManagementCommissionAmount: dec("100"),
	}
	records = agg.Compute(Invoice{ID: "I1", CommissionableTotal: dec("1000"), Addons: []Addon{addon}}, fixedContract)
	require.Len(t, records, 1)
	assert.Equal(t, TypeRentalManagementContract, records[0].Type)
	assert.True(t, records[0].Amount.Equal(dec("100")))
}

func TestComputeAssignmentAddonPassThrough(t *testing.T) {
	agg := NewAggregator()
	inv := Invoice{
		ID:                  "I1",
		CommissionableTotal: dec("3000"),
		Addons: []Addon{
			{ID: "A1", Total: dec("500"), ContractType: ContractAssignment},
		},
	}
	contract := Contract{
		Type:                             ContractRentalManagement,
		RentalManagementCommissionType:   RatePercent,
		RentalManagementCommissionAmount: dec("10"),
	}

	records := agg.Compute(inv, contract)

	require.Len(t, records, 2)
	assert.Equal(t, TypeAssignmentAddonIncome, records[0].Type)
	assert.True(t, records[0].Amount.Equal(dec("500")))
	// Base drops to 2500 before the contract commission.
	assert.True(t, records[1].Amount.Equal(dec("250")))
}

func TestComputeDropsZeroAmounts(t *testing.T) {
	agg := NewAggregator()
	inv := Invoice{ID: "I1", CommissionableTotal: decimal.Zero}
	contract := Contract{
		Type:                             ContractRentalManagement,
		RentalManagementCommissionType:   RatePercent,
		RentalManagementCommissionAmount: dec("10"),
	}

	records := agg.Compute(inv, contract)

	assert.Empty(t, records)
}

func TestComputeRoundsToTwoDecimals(t *testing.T) {
	agg := NewAggregator()
	inv := Invoice{ID: "I1", CommissionableTotal: dec("333.33")}
	contract := Contract{
		Type:                             ContractRentalManagement,
		RentalManagementCommissionType:   RatePercent,
		RentalManagementCommissionAmount: dec("10"),
	}

	records := agg.Compute(inv, contract)

	require.Len(t, records, 1)
	assert.True(t, records[0].Amount.Equal(dec("33.33")), "amount = %s", records[0].Amount)
}
