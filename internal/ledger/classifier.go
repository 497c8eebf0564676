package ledger

// Classifier tags transactions with the buckets they contribute to. The four
// debit/credit classifications are not mutually exclusive by construction;
// resolving the overlap is the reconciler's job, not the classifier's.
type Classifier struct {
	tax *Taxonomy
}

// NewClassifier wraps a taxonomy.
func NewClassifier(tax *Taxonomy) *Classifier {
	return &Classifier{tax: tax}
}

// Taxonomy exposes the underlying tables.
func (c *Classifier) Taxonomy() *Taxonomy {
	return c.tax
}

// ContributesToRent reports whether the transaction counts toward the rent
// totals of an annual statement.
func (c *Classifier) ContributesToRent(tx Transaction) bool {
	switch tx.Type {
	case TypeInvoice, TypeCreditNote:
		return true
	case TypeCorrection:
		return tx.SubType == SubTypeAddon
	default:
		return false
	}
}

// ContributesToLandlord reports whether the transaction counts toward the
// landlord/commission totals of an annual statement.
func (c *Classifier) ContributesToLandlord(tx Transaction) bool {
	if tx.Type == TypeCommission {
		return true
	}
	return tx.Type == TypeCorrection && tx.SubType == SubTypePayoutAddon
}

// isAddonOn reports whether tx is an addon line on one of the given types.
func isAddonOn(tx Transaction, types ...TransactionType) bool {
	if tx.SubType != SubTypeAddon {
		return false
	}
	for _, typ := range types {
		if tx.Type == typ {
			return true
		}
	}
	return false
}

// IsTenantDebit reports whether the transaction debits the tenant ledger.
func (c *Classifier) IsTenantDebit(tx Transaction) bool {
	if _, ok := c.tax.tenantDebit[tx.SubType]; ok {
		return true
	}
	return isAddonOn(tx, TypeInvoice, TypeCorrection)
}

// IsTenantCredit reports whether the transaction credits the tenant ledger.
func (c *Classifier) IsTenantCredit(tx Transaction) bool {
	_, ok := c.tax.tenantCredit[tx.SubType]
	return ok
}

// IsAccountDebit reports whether the transaction debits the landlord account.
func (c *Classifier) IsAccountDebit(tx Transaction) bool {
	if _, ok := c.tax.accountDebit[tx.SubType]; ok {
		return true
	}
	return isAddonOn(tx, TypeCommission)
}

// IsAccountCredit reports whether the transaction credits the landlord account.
func (c *Classifier) IsAccountCredit(tx Transaction) bool {
	if _, ok := c.tax.accountCredit[tx.SubType]; ok {
		return true
	}
	return isAddonOn(tx, TypeInvoice, TypeCorrection)
}
