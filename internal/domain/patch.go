package domain

import "slices"

// Patches carry only the fields a caller wants to change. Nil pointers and
// nil slices leave the stored value untouched; Clear* flags reset optional
// fields to absent.

type PropertyPatch struct {
	Name                  *string `json:"name,omitempty"`
	Address               *string `json:"address,omitempty"`
	City                  *string `json:"city,omitempty"`
	PostalCode            *string `json:"postalCode,omitempty"`
	ConstructionYear      *int    `json:"constructionYear,omitempty"`
	ClearConstructionYear bool    `json:"-"`
	TotalApartments       *int    `json:"totalApartments,omitempty"`
}

func (p PropertyPatch) Apply(dst *Property) {
	setIf(&dst.Name, p.Name)
	setIf(&dst.Address, p.Address)
	setIf(&dst.City, p.City)
	setIf(&dst.PostalCode, p.PostalCode)
	if p.ClearConstructionYear {
		dst.ConstructionYear = nil
	} else if p.ConstructionYear != nil {
		y := *p.ConstructionYear
		dst.ConstructionYear = &y
	}
	setIf(&dst.TotalApartments, p.TotalApartments)
}

// ApartmentPatch has no occupancy field; occupancy follows contracts.
type ApartmentPatch struct {
	PropertyID *string  `json:"propertyId,omitempty"`
	Number     *string  `json:"number,omitempty"`
	Floor      *int     `json:"floor,omitempty"`
	Size       *float64 `json:"size,omitempty"`
	Rooms      *int     `json:"rooms,omitempty"`
	Bathrooms  *int     `json:"bathrooms,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Amenities  []string `json:"amenities,omitempty"`
}

func (p ApartmentPatch) Apply(dst *Apartment) {
	setIf(&dst.PropertyID, p.PropertyID)
	setIf(&dst.Number, p.Number)
	setIf(&dst.Floor, p.Floor)
	setIf(&dst.Size, p.Size)
	setIf(&dst.Rooms, p.Rooms)
	setIf(&dst.Bathrooms, p.Bathrooms)
	setIf(&dst.Price, p.Price)
	if p.Amenities != nil {
		dst.Amenities = slices.Clone(p.Amenities)
	}
}

type TenantPatch struct {
	FirstName        *string `json:"firstName,omitempty"`
	LastName         *string `json:"lastName,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	DateOfBirth      *Date   `json:"dateOfBirth,omitempty"`
	ClearDateOfBirth bool    `json:"-"`
	IDNumber         *string `json:"idNumber,omitempty"`
}

func (p TenantPatch) Apply(dst *Tenant) {
	setIf(&dst.FirstName, p.FirstName)
	setIf(&dst.LastName, p.LastName)
	setIf(&dst.Email, p.Email)
	setIf(&dst.Phone, p.Phone)
	if p.ClearDateOfBirth {
		dst.DateOfBirth = nil
	} else if p.DateOfBirth != nil {
		d := *p.DateOfBirth
		dst.DateOfBirth = &d
	}
	setIf(&dst.IDNumber, p.IDNumber)
}

type ContractPatch struct {
	ApartmentID  *string  `json:"apartmentId,omitempty"`
	TenantID     *string  `json:"tenantId,omitempty"`
	StartDate    *Date    `json:"startDate,omitempty"`
	EndDate      *Date    `json:"endDate,omitempty"`
	ClearEndDate bool     `json:"-"`
	RentalPrice  *float64 `json:"rentalPrice,omitempty"`
	Deposit      *float64 `json:"deposit,omitempty"`
	IsPaid       *bool    `json:"isPaid,omitempty"`
	Documents    []string `json:"documents,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

func (p ContractPatch) Apply(dst *Contract) {
	setIf(&dst.ApartmentID, p.ApartmentID)
	setIf(&dst.TenantID, p.TenantID)
	setIf(&dst.StartDate, p.StartDate)
	if p.ClearEndDate {
		dst.EndDate = nil
	} else if p.EndDate != nil {
		d := *p.EndDate
		dst.EndDate = &d
	}
	setIf(&dst.RentalPrice, p.RentalPrice)
	setIf(&dst.Deposit, p.Deposit)
	setIf(&dst.IsPaid, p.IsPaid)
	if p.Documents != nil {
		dst.Documents = slices.Clone(p.Documents)
	}
	setIf(&dst.Notes, p.Notes)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
