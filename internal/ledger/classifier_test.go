package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcludedSubTypes(t *testing.T) {
	tax := DefaultTaxonomy()
	excluded := []TransactionSubType{
		SubTypeInvoiceFee,
		SubTypeInvoiceFeeMoveTo,
		SubTypeCollectionNoticeFee,
		SubTypeCollectionNoticeFeeMoveTo,
		SubTypeEvictionNoticeFee,
		SubTypeEvictionNoticeFeeMoveTo,
		SubTypeAdministrationEvictionNoticeFee,
		SubTypeAdministrationEvictionNoticeFeeMoveTo,
		SubTypeUnpaidInvoiceFee,
		SubTypeUnpaidCollectionNoticeFee,
		SubTypeUnpaidEvictionNoticeFee,
		SubTypeUnpaidAdministrationEvictionNoticeFee,
		SubTypeInvoiceReminderFee,
		SubTypeLossRecognition,
		SubTypeRoundedAmount,
	}
	assert.Len(t, excluded, 15)
	for _, sub := range excluded {
		assert.True(t, tax.IsExcluded(sub), "expected %s excluded", sub)
	}
	assert.False(t, tax.IsExcluded(SubTypeRent))
	assert.False(t, tax.IsExcluded(SubTypeAddon))
}

func TestRentContribution(t *testing.T) {
	c := NewClassifier(DefaultTaxonomy())

	assert.True(t, c.ContributesToRent(Transaction{Type: TypeInvoice, SubType: SubTypeRent}))
	assert.True(t, c.ContributesToRent(Transaction{Type: TypeCreditNote, SubType: SubTypeRent}))
	assert.True(t, c.ContributesToRent(Transaction{Type: TypeCorrection, SubType: SubTypeAddon}))
	assert.False(t, c.ContributesToRent(Transaction{Type: TypeCorrection, SubType: SubTypePayoutAddon}))
	assert.False(t, c.ContributesToRent(Transaction{Type: TypePayment, SubType: SubTypeRentPayment}))
}

func TestLandlordContribution(t *testing.T) {
	c := NewClassifier(DefaultTaxonomy())

	assert.True(t, c.ContributesToLandlord(Transaction{Type: TypeCommission, SubType: SubTypeManagementCommission}))
	assert.True(t, c.ContributesToLandlord(Transaction{Type: TypeCorrection, SubType: SubTypePayoutAddon}))
	assert.False(t, c.ContributesToLandlord(Transaction{Type: TypeCorrection, SubType: SubTypeAddon}))
	assert.False(t, c.ContributesToLandlord(Transaction{Type: TypeInvoice, SubType: SubTypeRent}))
}

func TestDebitCreditBuckets(t *testing.T) {
	c := NewClassifier(DefaultTaxonomy())

	// Addon lines land in different buckets depending on the carrier type.
	invoiceAddon := Transaction{Type: TypeInvoice, SubType: SubTypeAddon}
	assert.True(t, c.IsTenantDebit(invoiceAddon))
	assert.True(t, c.IsAccountCredit(invoiceAddon))
	assert.False(t, c.IsAccountDebit(invoiceAddon))

	commissionAddon := Transaction{Type: TypeCommission, SubType: SubTypeAddon}
	assert.True(t, c.IsAccountDebit(commissionAddon))
	assert.False(t, c.IsTenantDebit(commissionAddon))

	rent := Transaction{Type: TypeInvoice, SubType: SubTypeRent}
	assert.True(t, c.IsTenantDebit(rent))
	assert.True(t, c.IsAccountCredit(rent))

	payment := Transaction{Type: TypePayment, SubType: SubTypeRentPayment}
	assert.True(t, c.IsTenantCredit(payment))
	assert.False(t, c.IsTenantDebit(payment))

	payout := Transaction{Type: TypePayout, SubType: SubTypePayoutToLandlords}
	assert.True(t, c.IsAccountDebit(payout))
}

func TestUnknownPairMatchesNothing(t *testing.T) {
	c := NewClassifier(DefaultTaxonomy())
	tx := Transaction{Type: TransactionType("mystery"), SubType: TransactionSubType("unknown")}

	assert.False(t, c.ContributesToRent(tx))
	assert.False(t, c.ContributesToLandlord(tx))
	assert.False(t, c.IsTenantDebit(tx))
	assert.False(t, c.IsTenantCredit(tx))
	assert.False(t, c.IsAccountDebit(tx))
	assert.False(t, c.IsAccountCredit(tx))
}
