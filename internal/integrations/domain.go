package integrations

import (
	"errors"
	"time"
)

// SystemType enumerates the supported external accounting systems.
type SystemType string

const (
	SystemPowerOfficeGo SystemType = "power_office_go"
	SystemXledger       SystemType = "xledger"
)

// Valid reports whether the system type is known.
func (t SystemType) Valid() bool {
	return t == SystemPowerOfficeGo || t == SystemXledger
}

// Status enumerates integration states. The only transitions are
// pending -> integrated on a clean reconciliation and integrated -> pending
// when a later check finds a mismatch.
type Status string

const (
	StatusPending    Status = "pending"
	StatusIntegrated Status = "integrated"
)

// PartnerKind selects the tenancy model governing commission and account
// code discovery rules.
type PartnerKind string

const (
	PartnerDirect PartnerKind = "direct"
	PartnerBroker PartnerKind = "broker"
)

var (
	// ErrNotFound indicates the integration document is absent.
	ErrNotFound = errors.New("integrations: integration not found")
	// ErrDuplicate indicates more than one document exists for the
	// (partner, account, type) tuple.
	ErrDuplicate = errors.New("integrations: duplicate integration for partner/account/type")
	// ErrDuplicateMapping indicates the mapping entry already exists.
	ErrDuplicateMapping = errors.New("integrations: mapping already exists")
	// ErrInvalidMapping indicates a mapping entry missing required fields.
	ErrInvalidMapping = errors.New("integrations: mapping entry missing required field")
	// ErrMissingCredentials indicates the integration has no usable keys.
	ErrMissingCredentials = errors.New("integrations: application or client key missing")
)

// AccountMapping maps a locally used account code to an external account.
type AccountMapping struct {
	Code         string `json:"code"`
	ExternalCode string `json:"externalCode"`
}

// BranchMapping maps a branch to an external department.
type BranchMapping struct {
	BranchID     string `json:"branchId"`
	ExternalCode string `json:"externalCode"`
}

// GroupMapping maps a property group to an external project.
type GroupMapping struct {
	GroupID      string `json:"groupId"`
	ExternalCode string `json:"externalCode"`
}

// TaxCodeMapping maps a local tax code to an external tax rule.
type TaxCodeMapping struct {
	TaxCode      string `json:"taxCode"`
	ExternalCode string `json:"externalCode"`
}

// InternalIDMapping links a local entity (assignment or lease) to the
// external system's internal identifier.
type InternalIDMapping struct {
	LocalID    string `json:"localId"`
	InternalID string `json:"internalId"`
}

// EmployeeMapping links an agent to an external employee.
type EmployeeMapping struct {
	AgentID    string `json:"agentId"`
	EmployeeID string `json:"employeeId"`
}

// ObjectKindMapping links a local dimension to an Xledger object kind.
type ObjectKindMapping struct {
	Kind         string `json:"kind"`
	ObjectKindID string `json:"objectKindId"`
}

// Integration is the per-partner (optionally per-account) configuration of
// one external accounting system. A global integration is the fallback used
// when a direct partner has no per-account document.
type Integration struct {
	ID        string
	PartnerID string
	AccountID string
	Type      SystemType
	Status    Status
	IsGlobal  bool
	FromDate  time.Time

	// PowerOffice Go credentials.
	ApplicationKey string
	ClientKey      string
	// Xledger API token.
	APIToken string

	MapAccounts    []AccountMapping
	MapBranches    []BranchMapping
	MapGroups      []GroupMapping
	MapTaxCodes    []TaxCodeMapping
	MapAssignments []InternalIDMapping
	MapLeases      []InternalIDMapping
	MapEmployees   []EmployeeMapping
	MapObjectKinds []ObjectKindMapping

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MappedAccountCodes returns the locally mapped account codes, which are
// excluded from reconciliation error sets.
func (i Integration) MappedAccountCodes() map[string]struct{} {
	codes := make(map[string]struct{}, len(i.MapAccounts))
	for _, m := range i.MapAccounts {
		codes[m.Code] = struct{}{}
	}
	return codes
}
