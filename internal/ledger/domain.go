package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType enumerates the top-level kinds of posted financial events.
type TransactionType string

const (
	TypeInvoice    TransactionType = "invoice"
	TypeCreditNote TransactionType = "credit_note"
	TypeCorrection TransactionType = "correction"
	TypeCommission TransactionType = "commission"
	TypePayment    TransactionType = "payment"
	TypePayout     TransactionType = "payout"
)

// TransactionSubType refines a TransactionType into the concrete posting line.
type TransactionSubType string

const (
	SubTypeRent                   TransactionSubType = "rent"
	SubTypeRentWithVAT            TransactionSubType = "rent_with_vat"
	SubTypeAddon                  TransactionSubType = "addon"
	SubTypePayoutAddon            TransactionSubType = "payout_addon"
	SubTypeDeposit                TransactionSubType = "deposit"
	SubTypeRentPayment            TransactionSubType = "rent_payment"
	SubTypeFinalSettlementPayment TransactionSubType = "final_settlement_payment"
	SubTypePayoutToLandlords      TransactionSubType = "payout_to_landlords"
	SubTypeBrokeringCommission    TransactionSubType = "brokering_commission"
	SubTypeManagementCommission   TransactionSubType = "management_commission"
	SubTypeAddonCommission        TransactionSubType = "addon_commission"

	SubTypeInvoiceFee                            TransactionSubType = "invoice_fee"
	SubTypeInvoiceFeeMoveTo                      TransactionSubType = "invoice_fee_move_to"
	SubTypeCollectionNoticeFee                   TransactionSubType = "collection_notice_fee"
	SubTypeCollectionNoticeFeeMoveTo             TransactionSubType = "collection_notice_fee_move_to"
	SubTypeEvictionNoticeFee                     TransactionSubType = "eviction_notice_fee"
	SubTypeEvictionNoticeFeeMoveTo               TransactionSubType = "eviction_notice_fee_move_to"
	SubTypeAdministrationEvictionNoticeFee       TransactionSubType = "administration_eviction_notice_fee"
	SubTypeAdministrationEvictionNoticeFeeMoveTo TransactionSubType = "administration_eviction_notice_fee_move_to"
	SubTypeUnpaidInvoiceFee                      TransactionSubType = "unpaid_invoice_fee"
	SubTypeUnpaidCollectionNoticeFee             TransactionSubType = "unpaid_collection_notice_fee"
	SubTypeUnpaidEvictionNoticeFee               TransactionSubType = "unpaid_eviction_notice_fee"
	SubTypeUnpaidAdministrationEvictionNoticeFee TransactionSubType = "unpaid_administration_eviction_notice_fee"
	SubTypeInvoiceReminderFee                    TransactionSubType = "invoice_reminder_fee"
	SubTypeLossRecognition                       TransactionSubType = "loss_recognition"
	SubTypeRoundedAmount                         TransactionSubType = "rounded_amount"
)

// Transaction is an immutable posted financial event. It is created by the
// upstream invoicing and payment pipelines and is read-only here.
type Transaction struct {
	ID                  string
	Type                TransactionType
	SubType             TransactionSubType
	Amount              decimal.Decimal
	AmountExclTax       decimal.NullDecimal
	AmountTotalTax      decimal.NullDecimal
	CreditTaxPercentage decimal.NullDecimal
	PartnerID           string
	ContractID          string
	AccountID           string
	TenantID            string
	PropertyID          string
	AgentID             string
	BranchID            string
	// Period is the accounting month the event belongs to, formatted "YYYY-MM".
	Period            string
	DebitAccountCode  string
	CreditAccountCode string
	CreatedAt         time.Time
}

// Account is a chart-of-accounts entry used as read-only reference data when
// matching locally used codes against the external system.
type Account struct {
	AccountNumber string
	TaxCodeID     string
	TaxCode       string
}
