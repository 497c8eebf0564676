package integrations

import (
	"errors"
	"slices"
)

// MappingKind discriminates the mapping collections on an integration.
type MappingKind string

const (
	KindAccount    MappingKind = "account"
	KindBranch     MappingKind = "branch"
	KindGroup      MappingKind = "group"
	KindTaxCode    MappingKind = "tax_code"
	KindAssignment MappingKind = "internal_assignment_id"
	KindLease      MappingKind = "internal_lease_id"
	KindEmployee   MappingKind = "employee_id"
	KindObjectKind MappingKind = "object_kind"
)

// ErrUnknownMappingKind indicates an unsupported mapping update kind.
var ErrUnknownMappingKind = errors.New("integrations: unknown mapping kind")

// MappingEntry is the closed set of mapping update payloads. The type switch
// in WithMapping covers every member, so adding a kind without handling it is
// a compile-visible gap rather than a silent runtime fallthrough.
type MappingEntry interface {
	mappingKind() MappingKind
	validate() error
}

func (AccountMapping) mappingKind() MappingKind    { return KindAccount }
func (BranchMapping) mappingKind() MappingKind     { return KindBranch }
func (GroupMapping) mappingKind() MappingKind      { return KindGroup }
func (TaxCodeMapping) mappingKind() MappingKind    { return KindTaxCode }
func (EmployeeMapping) mappingKind() MappingKind   { return KindEmployee }
func (ObjectKindMapping) mappingKind() MappingKind { return KindObjectKind }

// AssignmentMapping and LeaseMapping share the InternalIDMapping shape but
// update different collections.
type AssignmentMapping struct{ InternalIDMapping }

func (AssignmentMapping) mappingKind() MappingKind { return KindAssignment }

type LeaseMapping struct{ InternalIDMapping }

func (LeaseMapping) mappingKind() MappingKind { return KindLease }

func (m AccountMapping) validate() error {
	return requireFields(m.Code, m.ExternalCode)
}

func (m BranchMapping) validate() error {
	return requireFields(m.BranchID, m.ExternalCode)
}

func (m GroupMapping) validate() error {
	return requireFields(m.GroupID, m.ExternalCode)
}

func (m TaxCodeMapping) validate() error {
	return requireFields(m.TaxCode, m.ExternalCode)
}

func (m InternalIDMapping) validate() error {
	return requireFields(m.LocalID, m.InternalID)
}

func (m EmployeeMapping) validate() error {
	return requireFields(m.AgentID, m.EmployeeID)
}

func (m ObjectKindMapping) validate() error {
	return requireFields(m.Kind, m.ObjectKindID)
}

func requireFields(fields ...string) error {
	for _, f := range fields {
		if f == "" {
			return ErrInvalidMapping
		}
	}
	return nil
}

// WithMapping returns a copy of the integration with the entry added. The
// receiver is never mutated, so a failed update leaves the stored document
// untouched. Duplicate entries (by natural key) are rejected.
func (i Integration) WithMapping(entry MappingEntry) (Integration, error) {
	if entry == nil {
		return Integration{}, ErrUnknownMappingKind
	}
	if err := entry.validate(); err != nil {
		return Integration{}, err
	}
	switch m := entry.(type) {
	case AccountMapping:
		if hasKey(i.MapAccounts, m.Code, func(e AccountMapping) string { return e.Code }) {
			return Integration{}, ErrDuplicateMapping
		}
		i.MapAccounts = append(slices.Clone(i.MapAccounts), m)
	case BranchMapping:
		if hasKey(i.MapBranches, m.BranchID, func(e BranchMapping) string { return e.BranchID }) {
			return Integration{}, ErrDuplicateMapping
		}
		i.MapBranches = append(slices.Clone(i.MapBranches), m)
	case GroupMapping:
		if hasKey(i.MapGroups, m.GroupID, func(e GroupMapping) string { return e.GroupID }) {
			return Integration{}, ErrDuplicateMapping
		}
		i.MapGroups = append(slices.Clone(i.MapGroups), m)
	case TaxCodeMapping:
		if hasKey(i.MapTaxCodes, m.TaxCode, func(e TaxCodeMapping) string { return e.TaxCode }) {
			return Integration{}, ErrDuplicateMapping
		}
		i.MapTaxCodes = append(slices.Clone(i.MapTaxCodes), m)
	case AssignmentMapping:
		if hasKey(i.MapAssignments, m.LocalID, func(e InternalIDMapping) string { return e.LocalID }) {
			return Integration{}, ErrDuplicateMapping
		}
		i.MapAssignments = append(slices.Clone(i.MapAssignments), m.InternalIDMapping)
	case LeaseMapping:
		if hasKey(i.MapLeases, m.LocalID, func(e InternalIDMapping) string { return e.LocalID }) {
			return Integration{}, ErrDuplicateMapping
		}
		i.MapLeases = append(slices.Clone(i.MapLeases), m.InternalIDMapping)
	case EmployeeMapping:
		if hasKey(i.MapEmployees, m.AgentID, func(e EmployeeMapping) string { return e.AgentID }) {
			return Integration{}, ErrDuplicateMapping
		}
		i.MapEmployees = append(slices.Clone(i.MapEmployees), m)
	case ObjectKindMapping:
		if hasKey(i.MapObjectKinds, m.Kind, func(e ObjectKindMapping) string { return e.Kind }) {
			return Integration{}, ErrDuplicateMapping
		}
		i.MapObjectKinds = append(slices.Clone(i.MapObjectKinds), m)
	default:
		return Integration{}, ErrUnknownMappingKind
	}
	return i, nil
}

// WithoutMapping returns a copy of the integration with the entry keyed by
// the mapping's natural key removed. Removing an absent key is a no-op.
func (i Integration) WithoutMapping(kind MappingKind, key string) (Integration, error) {
	switch kind {
	case KindAccount:
		i.MapAccounts = deleteKey(i.MapAccounts, key, func(e AccountMapping) string { return e.Code })
	case KindBranch:
		i.MapBranches = deleteKey(i.MapBranches, key, func(e BranchMapping) string { return e.BranchID })
	case KindGroup:
		i.MapGroups = deleteKey(i.MapGroups, key, func(e GroupMapping) string { return e.GroupID })
	case KindTaxCode:
		i.MapTaxCodes = deleteKey(i.MapTaxCodes, key, func(e TaxCodeMapping) string { return e.TaxCode })
	case KindAssignment:
		i.MapAssignments = deleteKey(i.MapAssignments, key, func(e InternalIDMapping) string { return e.LocalID })
	case KindLease:
		i.MapLeases = deleteKey(i.MapLeases, key, func(e InternalIDMapping) string { return e.LocalID })
	case KindEmployee:
		i.MapEmployees = deleteKey(i.MapEmployees, key, func(e EmployeeMapping) string { return e.AgentID })
	case KindObjectKind:
		i.MapObjectKinds = deleteKey(i.MapObjectKinds, key, func(e ObjectKindMapping) string { return e.Kind })
	default:
		return Integration{}, ErrUnknownMappingKind
	}
	return i, nil
}

func hasKey[T any](entries []T, key string, keyOf func(T) string) bool {
	for _, e := range entries {
		if keyOf(e) == key {
			return true
		}
	}
	return false
}

func deleteKey[T any](entries []T, key string, keyOf func(T) string) []T {
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		if keyOf(e) != key {
			out = append(out, e)
		}
	}
	return out
}
