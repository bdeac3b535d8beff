package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
)

func intPtr(v int) *int { return &v }

func datePtr(s string) *domain.Date {
	d := domain.MustParseDate(s)
	return &d
}

func sampleProperty(id string) *domain.Property {
	return &domain.Property{
		ID:               id,
		Name:             "Stadtpark Residenz",
		Address:          "Parkstraße 12",
		City:             "Berlin",
		PostalCode:       "10115",
		ConstructionYear: intPtr(2010),
		TotalApartments:  8,
	}
}

func sampleApartment(id, propertyID string) *domain.Apartment {
	return &domain.Apartment{
		ID:         id,
		PropertyID: propertyID,
		Number:     "1A",
		Floor:      1,
		Size:       75.5,
		Rooms:      3,
		Bathrooms:  1,
		Price:      850,
		Amenities:  []string{"Balkon", "Keller"},
	}
}

func sampleTenant(id string) *domain.Tenant {
	return &domain.Tenant{
		ID:          id,
		FirstName:   "Anna",
		LastName:    "Schmidt",
		Email:       "anna.schmidt@example.com",
		Phone:       "+49 234 567890",
		DateOfBirth: datePtr("1990-08-22"),
		IDNumber:    "L01X00T48",
	}
}

func sampleContract(id, apartmentID, tenantID string) *domain.Contract {
	return &domain.Contract{
		ID:          id,
		ApartmentID: apartmentID,
		TenantID:    tenantID,
		StartDate:   domain.MustParseDate("2023-03-15"),
		EndDate:     datePtr("2025-03-14"),
		RentalPrice: 1200,
		Deposit:     2400,
		IsPaid:      true,
		Documents:   []string{"mietvertrag.pdf"},
		Notes:       "Haustiere erlaubt",
	}
}

// runStoreConformance exercises the behaviour every domain.Store binding must share.
func runStoreConformance(t *testing.T, newStore func(t *testing.T) domain.Store) {
	t.Run("properties round trip and keep order", func(t *testing.T) {
		ctx := context.Background()
		repo := newStore(t).Properties()

		for _, id := range []string{"prop-b", "prop-a", "prop-c"} {
			require.NoError(t, repo.Create(ctx, sampleProperty(id)))
		}

		got, err := repo.GetByID(ctx, "prop-a")
		require.NoError(t, err)
		require.Equal(t, sampleProperty("prop-a"), got)

		got.Name = "Renamed"
		got.ConstructionYear = nil
		require.NoError(t, repo.Update(ctx, got))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		require.Equal(t, []string{"prop-b", "prop-a", "prop-c"}, []string{list[0].ID, list[1].ID, list[2].ID})
		require.Equal(t, "Renamed", list[1].Name)
		require.Nil(t, list[1].ConstructionYear)

		require.NoError(t, repo.Delete(ctx, "prop-b"))
		list, err = repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "prop-a", list[0].ID)
	})

	t.Run("missing records report ErrNotFound", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		_, err := store.Properties().GetByID(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.ErrorIs(t, store.Apartments().Update(ctx, sampleApartment("nope", "p")), domain.ErrNotFound)
		require.ErrorIs(t, store.Tenants().Delete(ctx, "nope"), domain.ErrNotFound)
		require.ErrorIs(t, store.Contracts().Delete(ctx, "nope"), domain.ErrNotFound)
	})

	t.Run("apartments filter by property", func(t *testing.T) {
		ctx := context.Background()
		repo := newStore(t).Apartments()

		require.NoError(t, repo.Create(ctx, sampleApartment("apt-1", "prop-1")))
		require.NoError(t, repo.Create(ctx, sampleApartment("apt-2", "prop-2")))
		require.NoError(t, repo.Create(ctx, sampleApartment("apt-3", "prop-1")))

		got, err := repo.ListByProperty(ctx, "prop-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "apt-1", got[0].ID)
		require.Equal(t, "apt-3", got[1].ID)
		require.Equal(t, []string{"Balkon", "Keller"}, got[0].Amenities)

		got[1].IsOccupied = true
		got[1].Amenities = []string{}
		require.NoError(t, repo.Update(ctx, got[1]))

		reloaded, err := repo.GetByID(ctx, "apt-3")
		require.NoError(t, err)
		require.True(t, reloaded.IsOccupied)
		require.Empty(t, reloaded.Amenities)

		none, err := repo.ListByProperty(ctx, "prop-9")
		require.NoError(t, err)
		require.Empty(t, none)
	})

	t.Run("tenants keep optional fields", func(t *testing.T) {
		ctx := context.Background()
		repo := newStore(t).Tenants()

		require.NoError(t, repo.Create(ctx, sampleTenant("tenant-1")))
		bare := &domain.Tenant{ID: "tenant-2", FirstName: "Julia", LastName: "Wagner", Email: "j@example.com", Phone: "1"}
		require.NoError(t, repo.Create(ctx, bare))

		got, err := repo.GetByID(ctx, "tenant-1")
		require.NoError(t, err)
		require.Equal(t, sampleTenant("tenant-1"), got)

		got, err = repo.GetByID(ctx, "tenant-2")
		require.NoError(t, err)
		require.Nil(t, got.DateOfBirth)
		require.Empty(t, got.IDNumber)
	})

	t.Run("contracts filter by apartment and tenant", func(t *testing.T) {
		ctx := context.Background()
		repo := newStore(t).Contracts()

		require.NoError(t, repo.Create(ctx, sampleContract("contract-1", "apt-1", "tenant-1")))
		open := sampleContract("contract-2", "apt-1", "tenant-2")
		open.EndDate = nil
		require.NoError(t, repo.Create(ctx, open))
		require.NoError(t, repo.Create(ctx, sampleContract("contract-3", "apt-2", "tenant-1")))

		got, err := repo.GetByID(ctx, "contract-1")
		require.NoError(t, err)
		require.Equal(t, sampleContract("contract-1", "apt-1", "tenant-1"), got)

		byApt, err := repo.ListByApartment(ctx, "apt-1")
		require.NoError(t, err)
		require.Len(t, byApt, 2)
		require.Nil(t, byApt[1].EndDate)

		byTenant, err := repo.ListByTenant(ctx, "tenant-1")
		require.NoError(t, err)
		require.Equal(t, []string{"contract-1", "contract-3"}, []string{byTenant[0].ID, byTenant[1].ID})

		got.EndDate = datePtr("2026-01-31")
		got.IsPaid = false
		require.NoError(t, repo.Update(ctx, got))

		reloaded, err := repo.GetByID(ctx, "contract-1")
		require.NoError(t, err)
		require.Equal(t, "2026-01-31", reloaded.EndDate.String())
		require.False(t, reloaded.IsPaid)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Equal(t, "contract-1", all[0].ID)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newStore(t).Ping(context.Background()))
	})
}
