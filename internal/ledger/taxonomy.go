package ledger

// Taxonomy holds the static classification tables mapping a transaction's
// (type, subType) pair to its semantic roles. The tables are explicit
// enumerations; an unknown pair simply matches no bucket, so unrecognised
// transactions undercount rather than overcount.
//
// The taxonomy is built once at startup and injected into every aggregator
// and the reconciler, so all call sites agree on the same tables.
type Taxonomy struct {
	excluded      map[TransactionSubType]struct{}
	tenantDebit   map[TransactionSubType]struct{}
	tenantCredit  map[TransactionSubType]struct{}
	accountDebit  map[TransactionSubType]struct{}
	accountCredit map[TransactionSubType]struct{}
}

// DefaultTaxonomy constructs the taxonomy used in production.
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		// Fees and penalties never count toward rent or commission totals.
		excluded: subTypeSet(
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
		),
		tenantDebit: subTypeSet(
			SubTypeRent,
			SubTypeRentWithVAT,
			SubTypeRoundedAmount,
			SubTypeInvoiceFee,
			SubTypeInvoiceFeeMoveTo,
			SubTypeCollectionNoticeFee,
			SubTypeCollectionNoticeFeeMoveTo,
			SubTypeEvictionNoticeFee,
			SubTypeEvictionNoticeFeeMoveTo,
			SubTypeAdministrationEvictionNoticeFee,
			SubTypeAdministrationEvictionNoticeFeeMoveTo,
			SubTypeInvoiceReminderFee,
		),
		tenantCredit: subTypeSet(
			SubTypeRentPayment,
			SubTypeLossRecognition,
		),
		accountDebit: subTypeSet(
			SubTypeBrokeringCommission,
			SubTypeAddonCommission,
			SubTypeManagementCommission,
			SubTypePayoutToLandlords,
			SubTypePayoutAddon,
		),
		accountCredit: subTypeSet(
			SubTypeRent,
			SubTypeRentWithVAT,
			SubTypeFinalSettlementPayment,
		),
	}
}

func subTypeSet(subs ...TransactionSubType) map[TransactionSubType]struct{} {
	set := make(map[TransactionSubType]struct{}, len(subs))
	for _, s := range subs {
		set[s] = struct{}{}
	}
	return set
}

// IsExcluded reports whether the sub-type is a fee or penalty excluded from
// every rent/landlord/commission total.
func (t *Taxonomy) IsExcluded(sub TransactionSubType) bool {
	_, ok := t.excluded[sub]
	return ok
}
