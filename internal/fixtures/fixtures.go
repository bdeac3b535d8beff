// Package fixtures provides the demo portfolio used to seed an empty store.
package fixtures

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Set is a complete seed data set.
type Set struct {
	Properties []*domain.Property
	Apartments []*domain.Apartment
	Tenants    []*domain.Tenant
	Contracts  []*domain.Contract
}

// File is the root structure of a fixtures YAML document
type File struct {
	Properties []PropertyDef  `yaml:"properties"`
	Apartments []ApartmentDef `yaml:"apartments"`
	Tenants    []TenantDef    `yaml:"tenants"`
	Contracts  []ContractDef  `yaml:"contracts"`
}

type PropertyDef struct {
	ID               string `yaml:"id"`
	Name             string `yaml:"name"`
	Address          string `yaml:"address"`
	City             string `yaml:"city"`
	PostalCode       string `yaml:"postalCode"`
	ConstructionYear *int   `yaml:"constructionYear"`
	TotalApartments  int    `yaml:"totalApartments"`
}

type ApartmentDef struct {
	ID         string   `yaml:"id"`
	PropertyID string   `yaml:"propertyId"`
	Number     string   `yaml:"number"`
	Floor      int      `yaml:"floor"`
	Size       float64  `yaml:"size"`
	Rooms      int      `yaml:"rooms"`
	Bathrooms  int      `yaml:"bathrooms"`
	Price      float64  `yaml:"price"`
	IsOccupied bool     `yaml:"isOccupied"`
	Amenities  []string `yaml:"amenities"`
}

type TenantDef struct {
	ID          string `yaml:"id"`
	FirstName   string `yaml:"firstName"`
	LastName    string `yaml:"lastName"`
	Email       string `yaml:"email"`
	Phone       string `yaml:"phone"`
	DateOfBirth string `yaml:"dateOfBirth"` // YYYY-MM-DD, optional
	IDNumber    string `yaml:"idNumber"`
}

type ContractDef struct {
	ID          string   `yaml:"id"`
	ApartmentID string   `yaml:"apartmentId"`
	TenantID    string   `yaml:"tenantId"`
	StartDate   string   `yaml:"startDate"`
	EndDate     string   `yaml:"endDate"` // empty for open-ended contracts
	RentalPrice float64  `yaml:"rentalPrice"`
	Deposit     float64  `yaml:"deposit"`
	IsPaid      bool     `yaml:"isPaid"`
	Documents   []string `yaml:"documents"`
	Notes       string   `yaml:"notes"`
}

// Default returns the embedded demo portfolio.
func Default() (*Set, error) {
	return Parse(defaultFixtures)
}

// Parse decodes a fixtures document.
func Parse(content []byte) (*Set, error) {
	var file File
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	set := &Set{}
	for _, def := range file.Properties {
		set.Properties = append(set.Properties, &domain.Property{
			ID:               def.ID,
			Name:             def.Name,
			Address:          def.Address,
			City:             def.City,
			PostalCode:       def.PostalCode,
			ConstructionYear: def.ConstructionYear,
			TotalApartments:  def.TotalApartments,
		})
	}
	for _, def := range file.Apartments {
		amenities := def.Amenities
		if amenities == nil {
			amenities = []string{}
		}
		set.Apartments = append(set.Apartments, &domain.Apartment{
			ID:         def.ID,
			PropertyID: def.PropertyID,
			Number:     def.Number,
			Floor:      def.Floor,
			Size:       def.Size,
			Rooms:      def.Rooms,
			Bathrooms:  def.Bathrooms,
			Price:      def.Price,
			IsOccupied: def.IsOccupied,
			Amenities:  amenities,
		})
	}
	for _, def := range file.Tenants {
		dob, err := optionalDate(def.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("tenant %s: dateOfBirth: %w", def.ID, err)
		}
		set.Tenants = append(set.Tenants, &domain.Tenant{
			ID:          def.ID,
			FirstName:   def.FirstName,
			LastName:    def.LastName,
			Email:       def.Email,
			Phone:       def.Phone,
			DateOfBirth: dob,
			IDNumber:    def.IDNumber,
		})
	}
	for _, def := range file.Contracts {
		start, err := domain.ParseDate(def.StartDate)
		if err != nil {
			return nil, fmt.Errorf("contract %s: startDate: %w", def.ID, err)
		}
		end, err := optionalDate(def.EndDate)
		if err != nil {
			return nil, fmt.Errorf("contract %s: endDate: %w", def.ID, err)
		}
		set.Contracts = append(set.Contracts, &domain.Contract{
			ID:          def.ID,
			ApartmentID: def.ApartmentID,
			TenantID:    def.TenantID,
			StartDate:   start,
			EndDate:     end,
			RentalPrice: def.RentalPrice,
			Deposit:     def.Deposit,
			IsPaid:      def.IsPaid,
			Documents:   def.Documents,
			Notes:       def.Notes,
		})
	}
	return set, nil
}

func optionalDate(s string) (*domain.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Seed writes set into store, keeping the fixture ids and occupancy flags.
// It does nothing and returns false if the store already holds properties.
func Seed(ctx context.Context, store domain.Store, set *Set, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	existing, err := store.Properties().List(ctx)
	if err != nil {
		return false, fmt.Errorf("check existing properties: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("store already populated, skipping fixtures", slog.Int("properties", len(existing)))
		return false, nil
	}

	for _, p := range set.Properties {
		if err := store.Properties().Create(ctx, p); err != nil {
			return false, fmt.Errorf("seed property %s: %w", p.ID, err)
		}
	}
	for _, a := range set.Apartments {
		if err := store.Apartments().Create(ctx, a); err != nil {
			return false, fmt.Errorf("seed apartment %s: %w", a.ID, err)
		}
	}
	for _, t := range set.Tenants {
		if err := store.Tenants().Create(ctx, t); err != nil {
			return false, fmt.Errorf("seed tenant %s: %w", t.ID, err)
		}
	}
	for _, c := range set.Contracts {
		if err := store.Contracts().Create(ctx, c); err != nil {
			return false, fmt.Errorf("seed contract %s: %w", c.ID, err)
		}
	}

	logger.Info("fixtures seeded",
		slog.Int("properties", len(set.Properties)),
		slog.Int("apartments", len(set.Apartments)),
		slog.Int("tenants", len(set.Tenants)),
		slog.Int("contracts", len(set.Contracts)),
	)
	return true, nil
}
