package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Property is a building or estate that contains apartments.
type Property struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Address          string `json:"address"`
	City             string `json:"city"`
	PostalCode       string `json:"postalCode"`
	ConstructionYear *int   `json:"constructionYear,omitempty"`
	// TotalApartments is the declared capacity and is never reconciled
	// with the apartments actually linked to the property.
	TotalApartments int `json:"totalApartments"`
}

// Apartment is a rentable unit inside a Property.
type Apartment struct {
	ID         string  `json:"id"`
	PropertyID string  `json:"propertyId"`
	Number     string  `json:"number"`
	Floor      int     `json:"floor"`
	Size       float64 `json:"size"`
	Rooms      int     `json:"rooms"`
	Bathrooms  int     `json:"bathrooms"`
	Price      float64 `json:"price"`
	// IsOccupied is maintained by the contract lifecycle.
	IsOccupied bool     `json:"isOccupied"`
	Amenities  []string `json:"amenities"`
}

// Tenant is a person who can hold rental contracts.
type Tenant struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth *Date  `json:"dateOfBirth,omitempty"`
	IDNumber    string `json:"idNumber,omitempty"`
}

// FullName returns "First Last".
func (t Tenant) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// Contract binds one Tenant to one Apartment over a date range.
// A nil EndDate means the contract is open-ended.
type Contract struct {
	ID          string   `json:"id"`
	ApartmentID string   `json:"apartmentId"`
	TenantID    string   `json:"tenantId"`
	StartDate   Date     `json:"startDate"`
	EndDate     *Date    `json:"endDate,omitempty"`
	RentalPrice float64  `json:"rentalPrice"`
	Deposit     float64  `json:"deposit"`
	IsPaid      bool     `json:"isPaid"`
	Documents   []string `json:"documents,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// IsActiveOn reports whether the contract has no end date or ends on or after day.
func (c Contract) IsActiveOn(day Date) bool {
	return c.EndDate == nil || !c.EndDate.Before(day)
}

// StatusOn classifies the contract on day. Active contracts whose end date
// falls within windowDays of day are terminating.
func (c Contract) StatusOn(day Date, windowDays int) ContractStatus {
	if !c.IsActiveOn(day) {
		return ContractStatusExpired
	}
	if c.EndDate != nil && !c.EndDate.After(day.AddDays(windowDays)) {
		return ContractStatusTerminating
	}
	return ContractStatusActive
}

// ContractStatus is the lifecycle classification used by contract filters.
type ContractStatus string

const (
	ContractStatusActive      ContractStatus = "active"
	ContractStatusExpired     ContractStatus = "expired"
	ContractStatusTerminating ContractStatus = "terminating"
	ContractStatusAll         ContractStatus = "all"
)

// ParseContractStatus maps a filter value to a ContractStatus. Empty means all.
func ParseContractStatus(s string) (ContractStatus, error) {
	switch ContractStatus(strings.ToLower(strings.TrimSpace(s))) {
	case "", ContractStatusAll:
		return ContractStatusAll, nil
	case ContractStatusActive:
		return ContractStatusActive, nil
	case ContractStatusExpired:
		return ContractStatusExpired, nil
	case ContractStatusTerminating:
		return ContractStatusTerminating, nil
	default:
		return "", fmt.Errorf("unknown contract status %q", s)
	}
}

// Matches reports whether a contract with status s is selected by filter f.
// Terminating contracts are still active.
func (f ContractStatus) Matches(s ContractStatus) bool {
	switch f {
	case ContractStatusAll:
		return true
	case ContractStatusActive:
		return s == ContractStatusActive || s == ContractStatusTerminating
	default:
		return f == s
	}
}

func (p Property) Clone() Property {
	if p.ConstructionYear != nil {
		y := *p.ConstructionYear
		p.ConstructionYear = &y
	}
	return p
}

func (a Apartment) Clone() Apartment {
	a.Amenities = slices.Clone(a.Amenities)
	return a
}

func (t Tenant) Clone() Tenant {
	if t.DateOfBirth != nil {
		d := *t.DateOfBirth
		t.DateOfBirth = &d
	}
	return t
}

func (c Contract) Clone() Contract {
	if c.EndDate != nil {
		d := *c.EndDate
		c.EndDate = &d
	}
	c.Documents = slices.Clone(c.Documents)
	return c
}
