package integrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithMapping(t *testing.T) {
	base := Integration{ID: "INT1"}

	updated, err := base.WithMapping(AccountMapping{Code: "1234", ExternalCode: "4000"})
	require.NoError(t, err)

	require.Len(t, updated.MapAccounts, 1)
	assert.Equal(t, "1234", updated.MapAccounts[0].Code)
	// The original document is untouched.
	assert.Empty(t, base.MapAccounts)
}

func TestWithMappingDuplicate(t *testing.T) {
	base := Integration{MapAccounts: []AccountMapping{{Code: "1234", ExternalCode: "4000"}}}

	_, err := base.WithMapping(AccountMapping{Code: "1234", ExternalCode: "5000"})
	assert.ErrorIs(t, err, ErrDuplicateMapping)
	require.Len(t, base.MapAccounts, 1)
	assert.Equal(t, "4000", base.MapAccounts[0].ExternalCode)
}

func TestWithMappingValidation(t *testing.T) {
	base := Integration{}

	cases := []MappingEntry{
		AccountMapping{Code: "1234"},
		BranchMapping{ExternalCode: "10"},
		GroupMapping{GroupID: "G1"},
		TaxCodeMapping{ExternalCode: "3"},
		AssignmentMapping{InternalIDMapping{LocalID: "AS1"}},
		LeaseMapping{InternalIDMapping{InternalID: "77"}},
		EmployeeMapping{AgentID: "AG1"},
		ObjectKindMapping{ObjectKindID: "OK1"},
	}
	for _, entry := range cases {
		_, err := base.WithMapping(entry)
		assert.ErrorIs(t, err, ErrInvalidMapping, "entry %T with a missing field must be rejected", entry)
	}
}

func TestWithMappingEveryKind(t *testing.T) {
	doc := Integration{}
	entries := []MappingEntry{
		AccountMapping{Code: "1234", ExternalCode: "4000"},
		BranchMapping{BranchID: "B1", ExternalCode: "10"},
		GroupMapping{GroupID: "G1", ExternalCode: "P10"},
		TaxCodeMapping{TaxCode: "high", ExternalCode: "3"},
		AssignmentMapping{InternalIDMapping{LocalID: "AS1", InternalID: "900"}},
		LeaseMapping{InternalIDMapping{LocalID: "L1", InternalID: "901"}},
		EmployeeMapping{AgentID: "AG1", EmployeeID: "E1"},
		ObjectKindMapping{Kind: "property", ObjectKindID: "OK1"},
	}
	for _, entry := range entries {
		var err error
		doc, err = doc.WithMapping(entry)
		require.NoError(t, err, "adding %T", entry)
	}

	assert.Len(t, doc.MapAccounts, 1)
	assert.Len(t, doc.MapBranches, 1)
	assert.Len(t, doc.MapGroups, 1)
	assert.Len(t, doc.MapTaxCodes, 1)
	assert.Len(t, doc.MapAssignments, 1)
	assert.Len(t, doc.MapLeases, 1)
	assert.Len(t, doc.MapEmployees, 1)
	assert.Len(t, doc.MapObjectKinds, 1)
}

func TestWithoutMapping(t *testing.T) {
	base := Integration{MapAccounts: []AccountMapping{
		{Code: "1234", ExternalCode: "4000"},
		{Code: "5678", ExternalCode: "4100"},
	}}

	updated, err := base.WithoutMapping(KindAccount, "1234")
	require.NoError(t, err)

	require.Len(t, updated.MapAccounts, 1)
	assert.Equal(t, "5678", updated.MapAccounts[0].Code)
	assert.Len(t, base.MapAccounts, 2)
}

func TestWithoutMappingAbsentKeyIsNoOp(t *testing.T) {
	base := Integration{MapBranches: []BranchMapping{{BranchID: "B1", ExternalCode: "10"}}}

	updated, err := base.WithoutMapping(KindBranch, "B9")
	require.NoError(t, err)
	assert.Len(t, updated.MapBranches, 1)
}

func TestUnknownMappingKind(t *testing.T) {
	_, err := Integration{}.WithoutMapping(MappingKind("bogus"), "x")
	assert.ErrorIs(t, err, ErrUnknownMappingKind)
}

func TestMappedAccountCodes(t *testing.T) {
	doc := Integration{MapAccounts: []AccountMapping{
		{Code: "1234", ExternalCode: "4000"},
		{Code: "5678", ExternalCode: "4100"},
	}}

	codes := doc.MappedAccountCodes()
	assert.Contains(t, codes, "1234")
	assert.Contains(t, codes, "5678")
	assert.Len(t, codes, 2)
}
