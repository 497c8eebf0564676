package statements

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rentfolio/rentfolio/internal/ledger"
	"github.com/rentfolio/rentfolio/internal/money"
)

var oneHundred = decimal.NewFromInt(100)

// Aggregator folds a contract's transactions into one annual statement.
type Aggregator struct {
	classifier *ledger.Classifier
}

// NewAggregator constructs an aggregator on top of the shared classifier.
func NewAggregator(classifier *ledger.Classifier) *Aggregator {
	return &Aggregator{classifier: classifier}
}

// Aggregate computes the statement for contract and year from the given
// transaction batch. A batch with no matching transactions yields a statement
// with all-zero totals; callers decide whether to persist it.
func (a *Aggregator) Aggregate(contract Contract, year int, txs []ledger.Transaction, settings PartnerSettings) AnnualStatement {
	tax := a.classifier.Taxonomy()
	yearToken := strconv.Itoa(year)

	var (
		rentTotalExclTax      decimal.Decimal
		rentTotalTax          decimal.Decimal
		rentTotal             decimal.Decimal
		landlordTotal         decimal.Decimal
		landlordTotalTax      decimal.Decimal
		totalPayouts          decimal.Decimal
		totalFinalSettlements decimal.Decimal
	)

	for _, tx := range txs {
		if tx.ContractID != contract.ID {
			continue
		}
		if tax.IsExcluded(tx.SubType) {
			continue
		}
		if !strings.Contains(tx.Period, yearToken) {
			continue
		}

		totalTax := decimal.Zero
		if tx.CreditTaxPercentage.Valid {
			pct := tx.CreditTaxPercentage.Decimal
			totalTax = pct.Mul(tx.Amount).Div(oneHundred.Add(pct))
		}

		if a.classifier.ContributesToRent(tx) {
			rentTotalExclTax = rentTotalExclTax.Add(money.Coalesce(tx.AmountExclTax, tx.Amount))
			rentTotalTax = rentTotalTax.Add(money.Coalesce(tx.AmountTotalTax, tx.Amount))
			rentTotal = rentTotal.Add(tx.Amount)
		}
		if a.classifier.ContributesToLandlord(tx) {
			landlordTotal = landlordTotal.Add(tx.Amount)
			landlordTotalTax = landlordTotalTax.Add(totalTax)
		}
		if tx.Type == ledger.TypePayment && tx.SubType == ledger.SubTypeFinalSettlementPayment {
			totalFinalSettlements = totalFinalSettlements.Add(tx.Amount)
		}
		if tx.Type == ledger.TypePayout {
			totalPayouts = totalPayouts.Add(tx.Amount)
		}
	}

	totalPayouts = totalPayouts.Sub(totalFinalSettlements)
	landlordTotalExclTax := landlordTotal.Sub(landlordTotalTax)

	places := settings.Decimals()
	return AnnualStatement{
		PartnerID:            contract.PartnerID,
		ContractID:           contract.ID,
		TenantID:             contract.TenantID,
		AgentID:              contract.AgentID,
		BranchID:             contract.BranchID,
		AccountID:            contract.AccountID,
		PropertyID:           contract.PropertyID,
		RentTotalExclTax:     money.Round(rentTotalExclTax, places),
		RentTotalTax:         money.Round(rentTotalTax, places),
		RentTotal:            money.Round(rentTotal, places),
		LandlordTotal:        money.Round(landlordTotal, places),
		LandlordTotalTax:     money.Round(landlordTotalTax, places),
		LandlordTotalExclTax: money.Round(landlordTotalExclTax, places),
		TotalPayouts:         money.Round(totalPayouts, places),
		Status:               StatusCreated,
		StatementYear:        year,
	}
}
