package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func datePtr(s string) *Date {
	d := MustParseDate(s)
	return &d
}

func TestContractIsActiveOn(t *testing.T) {
	today := MustParseDate("2024-06-01")

	tests := []struct {
		name    string
		endDate *Date
		want    bool
	}{
		{"open ended", nil, true},
		{"ended long ago", datePtr("2020-01-01"), false},
		{"ends far in future", datePtr("2999-01-01"), true},
		{"ends today", datePtr("2024-06-01"), true},
		{"ended yesterday", datePtr("2024-05-31"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Contract{StartDate: MustParseDate("2019-01-01"), EndDate: tt.endDate}
			require.Equal(t, tt.want, c.IsActiveOn(today))
		})
	}
}

func TestContractStatusOn(t *testing.T) {
	today := MustParseDate("2024-06-01")

	require.Equal(t, ContractStatusActive, Contract{}.StatusOn(today, 30))
	require.Equal(t, ContractStatusExpired, Contract{EndDate: datePtr("2024-05-01")}.StatusOn(today, 30))
	require.Equal(t, ContractStatusTerminating, Contract{EndDate: datePtr("2024-07-01")}.StatusOn(today, 30))
	require.Equal(t, ContractStatusActive, Contract{EndDate: datePtr("2024-07-02")}.StatusOn(today, 30))
}

func TestContractStatusFilter(t *testing.T) {
	s, err := ParseContractStatus("")
	require.NoError(t, err)
	require.Equal(t, ContractStatusAll, s)

	s, err = ParseContractStatus(" Active ")
	require.NoError(t, err)
	require.Equal(t, ContractStatusActive, s)

	_, err = ParseContractStatus("cancelled")
	require.Error(t, err)

	require.True(t, ContractStatusActive.Matches(ContractStatusTerminating))
	require.False(t, ContractStatusActive.Matches(ContractStatusExpired))
	require.False(t, ContractStatusTerminating.Matches(ContractStatusActive))
	require.True(t, ContractStatusAll.Matches(ContractStatusExpired))
}

func TestTenantPatchChangesOnlyGivenFields(t *testing.T) {
	tenant := Tenant{
		ID:          "tenant-1",
		FirstName:   "Max",
		LastName:    "Mustermann",
		Email:       "max@example.com",
		Phone:       "+49 123 456789",
		DateOfBirth: datePtr("1985-05-15"),
	}
	before := tenant.Clone()

	phone := "X"
	TenantPatch{Phone: &phone}.Apply(&tenant)

	before.Phone = "X"
	require.Equal(t, before, tenant)
}

func TestPatchClearsOptionalFields(t *testing.T) {
	year := 2010
	p := Property{ConstructionYear: &year}
	PropertyPatch{ClearConstructionYear: true}.Apply(&p)
	require.Nil(t, p.ConstructionYear)

	c := Contract{EndDate: datePtr("2024-12-31")}
	ContractPatch{ClearEndDate: true}.Apply(&c)
	require.Nil(t, c.EndDate)

	tn := Tenant{DateOfBirth: datePtr("1990-01-01")}
	TenantPatch{ClearDateOfBirth: true}.Apply(&tn)
	require.Nil(t, tn.DateOfBirth)
}

func TestApartmentPatchAmenities(t *testing.T) {
	a := Apartment{Amenities: []string{"Balkon", "Keller"}}

	ApartmentPatch{}.Apply(&a)
	require.Equal(t, []string{"Balkon", "Keller"}, a.Amenities)

	ApartmentPatch{Amenities: []string{}}.Apply(&a)
	require.Empty(t, a.Amenities)
}

func TestCloneDoesNotAlias(t *testing.T) {
	a := Apartment{Amenities: []string{"Aufzug"}}
	b := a.Clone()
	b.Amenities[0] = "Garten"
	require.Equal(t, "Aufzug", a.Amenities[0])

	c := Contract{EndDate: datePtr("2025-01-01")}
	d := c.Clone()
	*d.EndDate = MustParseDate("2030-01-01")
	require.Equal(t, "2025-01-01", c.EndDate.String())
}
