package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rentfolio/rentfolio/internal/integrations"
	"github.com/rentfolio/rentfolio/internal/ledger"
	"github.com/rentfolio/rentfolio/internal/shared"
)

// legacy suspense codes excluded from direct-partner code discovery.
var legacyAccountCodes = newSet("1500", "1501")

// accountCodeDigits is the expected account code length on both external
// systems.
const accountCodeDigits = 4

var (
	// ErrCheckInProgress indicates a concurrent check holds the integration lock.
	ErrCheckInProgress = errors.New("reconcile: reconciliation already running for integration")
	// ErrExternalAuth indicates the external system rejected the credentials
	// or none were configured. The whole check aborts; a partial report is
	// never returned.
	ErrExternalAuth = errors.New("reconcile: external system authentication failed")
)

// TransactionSource provides the partner's transactions and the local chart
// of accounts reference data.
type TransactionSource interface {
	TransactionsSince(ctx context.Context, partnerID, accountID string, from time.Time) ([]ledger.Transaction, error)
	LedgerAccounts(ctx context.Context, codes []string) ([]ledger.Account, error)
}

// IntegrationStore resolves and transitions integration documents.
type IntegrationStore interface {
	Resolve(ctx context.Context, partnerID, accountID string, typ integrations.SystemType) (integrations.Integration, error)
	SetStatus(ctx context.Context, id string, to integrations.Status) error
}

// Gateway is an authenticated session against one external accounting
// system. It returns raw lists and performs no business logic.
type Gateway interface {
	Accounts(ctx context.Context) ([]ExternalAccount, error)
	Departments(ctx context.Context) ([]ExternalEntry, error)
	Projects(ctx context.Context) ([]ExternalEntry, error)
}

// GatewayFactory authenticates against the integration's external system.
// Missing credentials or a rejected authentication are fatal to the check.
type GatewayFactory interface {
	Connect(ctx context.Context, integ integrations.Integration) (Gateway, error)
}

// Locker serialises checks per integration document.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// Reconciler validates that every locally used account code, branch and
// group has a correctly typed counterpart on the external system before a
// sync is allowed.
type Reconciler struct {
	classifier   *ledger.Classifier
	transactions TransactionSource
	store        IntegrationStore
	gateways     GatewayFactory
	locks        Locker
	logger       *slog.Logger
	lockTTL      time.Duration
}

// NewReconciler constructs the reconciler.
func NewReconciler(classifier *ledger.Classifier, transactions TransactionSource, store IntegrationStore, gateways GatewayFactory, locks Locker, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		classifier:   classifier,
		transactions: transactions,
		store:        store,
		gateways:     gateways,
		locks:        locks,
		logger:       logger,
		lockTTL:      2 * time.Minute,
	}
}

// Check runs one reconciliation for the partner's integration. On a clean
// run the integration transitions to integrated; any mismatch leaves (or
// moves) it back to pending with the itemised report. The check is
// idempotent and safe to re-run; concurrent runs against the same document
// are serialised by a per-document lock.
func (r *Reconciler) Check(ctx context.Context, partnerID, accountID string, typ integrations.SystemType, partnerKind integrations.PartnerKind) (Report, error) {
	integ, err := r.store.Resolve(ctx, partnerID, accountID, typ)
	if err != nil {
		return Report{}, err
	}

	release, err := r.locks.Acquire(ctx, shared.IntegrationLockKey(integ.ID), r.lockTTL)
	if err != nil {
		if errors.Is(err, shared.ErrLockHeld) {
			return Report{}, ErrCheckInProgress
		}
		return Report{}, fmt.Errorf("reconcile: acquire integration lock: %w", err)
	}
	defer release()

	gw, err := r.gateways.Connect(ctx, integ)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrExternalAuth, err)
	}

	txs, err := r.transactions.TransactionsSince(ctx, integ.PartnerID, integ.AccountID, integ.FromDate)
	if err != nil {
		return Report{}, fmt.Errorf("reconcile: load transactions: %w", err)
	}

	debitCodes, creditCodes := r.discoverCodes(txs, partnerKind)
	accountCodes := debitCodes.union(creditCodes)

	localAccounts, err := r.transactions.LedgerAccounts(ctx, accountCodes.values())
	if err != nil {
		return Report{}, fmt.Errorf("reconcile: load ledger accounts: %w", err)
	}
	localTaxCodes := make(map[string]string, len(localAccounts))
	for _, acc := range localAccounts {
		localTaxCodes[acc.AccountNumber] = acc.TaxCode
	}

	external, err := r.fetchExternal(ctx, gw, integ)
	if err != nil {
		return Report{}, err
	}

	externalByCode := newSet()
	externalByVAT := newSet()
	for _, acc := range external.accounts {
		if !accountCodes.has(acc.Code) {
			continue
		}
		externalByCode.add(acc.Code)
		if acc.VATCode == localTaxCodes[acc.Code] {
			externalByVAT.add(acc.Code)
		}
	}

	mapped := newSet()
	for code := range integ.MappedAccountCodes() {
		mapped.add(code)
	}

	missing := accountCodes.symDiff(externalByCode).diff(mapped)
	vatMismatch := externalByCode.symDiff(externalByVAT).diff(missing).diff(mapped)

	digitError := newSet()
	for code := range accountCodes {
		if len(code) != accountCodeDigits {
			digitError.add(code)
		}
	}
	digitError = digitError.diff(mapped)

	report := Report{
		MissingAccountCode:         joinCodes(missing),
		VATCodeMismatchAccountCode: joinCodes(vatMismatch),
		DigitErrorAccountCode:      joinCodes(digitError),
		BranchErrorCode:            mappingErrors(integ.MapBranches, external.departments, func(m integrations.BranchMapping) string { return m.ExternalCode }),
		GroupErrorCode:             mappingErrors(integ.MapGroups, external.projects, func(m integrations.GroupMapping) string { return m.ExternalCode }),
	}
	report.HasError = report.MissingAccountCode != "" ||
		report.VATCodeMismatchAccountCode != "" ||
		report.DigitErrorAccountCode != "" ||
		len(report.BranchErrorCode) > 0 ||
		len(report.GroupErrorCode) > 0

	report.Status = integrations.StatusIntegrated
	if report.HasError {
		report.Status = integrations.StatusPending
	}
	if err := r.store.SetStatus(ctx, integ.ID, report.Status); err != nil {
		return Report{}, fmt.Errorf("reconcile: update integration status: %w", err)
	}

	r.logger.Info("reconciliation finished",
		slog.String("integration_id", integ.ID),
		slog.String("status", string(report.Status)),
		slog.Bool("has_error", report.HasError))
	return report, nil
}

// discoverCodes derives the debit and credit account code sets actually used
// by the partner's transactions.
//
// For a broker partner a transaction that classifies as both a tenant debit
// and an account credit (or the reverse pair) would double-post, so the
// pairwise intersections are dropped from both sides before reading codes
// off the remaining transactions. Direct partners post each side explicitly,
// so every transaction carrying a code participates, minus two legacy
// suspense codes.
func (r *Reconciler) discoverCodes(txs []ledger.Transaction, kind integrations.PartnerKind) (set, set) {
	if kind != integrations.PartnerBroker {
		debit := newSet()
		credit := newSet()
		for _, tx := range txs {
			if tx.DebitAccountCode != "" {
				debit.add(tx.DebitAccountCode)
			}
			if tx.CreditAccountCode != "" {
				credit.add(tx.CreditAccountCode)
			}
		}
		return debit.diff(legacyAccountCodes), credit.diff(legacyAccountCodes)
	}

	tenantDebit := newSet()
	tenantCredit := newSet()
	accountDebit := newSet()
	accountCredit := newSet()
	for _, tx := range txs {
		if r.classifier.IsTenantDebit(tx) {
			tenantDebit.add(tx.ID)
		}
		if r.classifier.IsTenantCredit(tx) {
			tenantCredit.add(tx.ID)
		}
		if r.classifier.IsAccountDebit(tx) {
			accountDebit.add(tx.ID)
		}
		if r.classifier.IsAccountCredit(tx) {
			accountCredit.add(tx.ID)
		}
	}

	skipDebitCredit := tenantDebit.intersect(accountCredit)
	skipCreditDebit := accountDebit.intersect(tenantCredit)
	totalSkip := skipDebitCredit.union(skipCreditDebit)

	debitIDs := tenantDebit.union(accountDebit).diff(totalSkip)
	creditIDs := tenantCredit.union(accountCredit).diff(totalSkip)

	// Second pass joins the surviving IDs back to the codes carried on each
	// transaction.
	debitCodes := newSet()
	creditCodes := newSet()
	for _, tx := range txs {
		if debitIDs.has(tx.ID) && tx.DebitAccountCode != "" {
			debitCodes.add(tx.DebitAccountCode)
		}
		if creditIDs.has(tx.ID) && tx.CreditAccountCode != "" {
			creditCodes.add(tx.CreditAccountCode)
		}
	}
	return debitCodes, creditCodes
}

type externalData struct {
	accounts    []ExternalAccount
	departments []ExternalEntry
	projects    []ExternalEntry
}

// fetchExternal pulls the needed external lists. The three fetches are
// independent, so they run concurrently; department and project lists are
// only fetched when branch or group mappings exist.
func (r *Reconciler) fetchExternal(ctx context.Context, gw Gateway, integ integrations.Integration) (externalData, error) {
	var data externalData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := gw.Accounts(ctx)
		if err != nil {
			return fmt.Errorf("reconcile: fetch external accounts: %w", err)
		}
		data.accounts = accounts
		return nil
	})
	if len(integ.MapBranches) > 0 {
		g.Go(func() error {
			departments, err := gw.Departments(ctx)
			if err != nil {
				return fmt.Errorf("reconcile: fetch external departments: %w", err)
			}
			data.departments = departments
			return nil
		})
	}
	if len(integ.MapGroups) > 0 {
		g.Go(func() error {
			projects, err := gw.Projects(ctx)
			if err != nil {
				return fmt.Errorf("reconcile: fetch external projects: %w", err)
			}
			data.projects = projects
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return externalData{}, err
	}
	return data, nil
}

// mappingErrors flags mapped external codes absent from the external list.
func mappingErrors[T any](mappings []T, entries []ExternalEntry, codeOf func(T) string) []string {
	if len(mappings) == 0 {
		return nil
	}
	known := newSet()
	for _, e := range entries {
		known.add(e.Code)
	}
	var missing []string
	for _, m := range mappings {
		if code := codeOf(m); !known.has(code) {
			missing = append(missing, code)
		}
	}
	return missing
}

func joinCodes(s set) string {
	return strings.Join(s.values(), ",")
}
