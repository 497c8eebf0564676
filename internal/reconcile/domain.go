package reconcile

import (
	"github.com/rentfolio/rentfolio/internal/integrations"
)

// Report is the outcome of one reconciliation check. The account-code fields
// are comma-joined sorted code lists; branch and group errors are external
// codes that have no counterpart on the external system.
type Report struct {
	Status                     integrations.Status `json:"status"`
	HasError                   bool                `json:"hasError"`
	MissingAccountCode         string              `json:"missingAccountCode"`
	VATCodeMismatchAccountCode string              `json:"vatCodeMismatchAccountCode"`
	DigitErrorAccountCode      string              `json:"digitErrorAccountCode"`
	BranchErrorCode            []string            `json:"branchErrorCode"`
	GroupErrorCode             []string            `json:"groupErrorCode"`
}

// ExternalAccount is one chart-of-accounts entry on the external system.
type ExternalAccount struct {
	Code        string
	VATCode     string
	Description string
}

// ExternalEntry is a department or project on the external system.
type ExternalEntry struct {
	Code        string
	Description string
}
