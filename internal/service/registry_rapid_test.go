package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
	"github.com/aryan0dhankhar/rentalregistry/internal/repository"
)

// TestRegistryInvariants drives random operation sequences and checks after
// every step that guarded deletes never orphan a record and that an apartment
// with an active contract is occupied.
func TestRegistryInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		r := NewRegistry(repository.NewMemoryStore(), nil,
			WithClock(func() time.Time { return testToday }),
			WithStrictReferences(false),
		)

		var props, apts, tenants, contracts []string
		pick := func(label string, pool []string) string {
			if len(pool) == 0 {
				return "missing"
			}
			return rapid.SampledFrom(pool).Draw(rt, label)
		}
		// References on add are drawn from stored records only.
		live := func(list func(context.Context) ([]string, error)) []string {
			ids, err := list(ctx)
			if err != nil {
				rt.Fatal(err)
			}
			return ids
		}

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 7).Draw(rt, fmt.Sprintf("op%d", i)) {
			case 0:
				p, err := r.AddProperty(ctx, domain.Property{Name: "P", TotalApartments: 1})
				if err != nil {
					rt.Fatal(err)
				}
				props = append(props, p.ID)
			case 1:
				a, err := r.AddApartment(ctx, domain.Apartment{PropertyID: pick("property", live(r.propertyIDs)), Number: "1"})
				if err != nil {
					rt.Fatal(err)
				}
				apts = append(apts, a.ID)
			case 2:
				tn, err := r.AddTenant(ctx, domain.Tenant{FirstName: "T", LastName: "T"})
				if err != nil {
					rt.Fatal(err)
				}
				tenants = append(tenants, tn.ID)
			case 3:
				var end *domain.Date
				if rapid.Bool().Draw(rt, "expired") {
					d := domain.MustParseDate("2020-01-01")
					end = &d
				}
				c, err := r.AddContract(ctx, domain.Contract{
					ApartmentID: pick("apartment", live(r.apartmentIDs)),
					TenantID:    pick("tenant", live(r.tenantIDs)),
					StartDate:   domain.MustParseDate("2019-01-01"),
					EndDate:     end,
				})
				if err != nil {
					rt.Fatal(err)
				}
				contracts = append(contracts, c.ID)
			case 4:
				if _, err := r.DeleteProperty(ctx, pick("property", props)); err != nil {
					rt.Fatal(err)
				}
			case 5:
				if _, err := r.DeleteApartment(ctx, pick("apartment", apts)); err != nil {
					rt.Fatal(err)
				}
			case 6:
				if _, err := r.DeleteTenant(ctx, pick("tenant", tenants)); err != nil {
					rt.Fatal(err)
				}
			case 7:
				if _, err := r.DeleteContract(ctx, pick("contract", contracts)); err != nil {
					rt.Fatal(err)
				}
			}
			checkReferences(rt, r, props, apts, tenants)
		}
	})
}

func checkReferences(rt *rapid.T, r *Registry, createdProps, createdApts, createdTenants []string) {
	ctx := context.Background()
	props, err := r.ListProperties(ctx)
	if err != nil {
		rt.Fatal(err)
	}
	apts, err := r.ListApartments(ctx)
	if err != nil {
		rt.Fatal(err)
	}
	tenants, err := r.ListTenants(ctx)
	if err != nil {
		rt.Fatal(err)
	}
	contracts, err := r.ListContracts(ctx)
	if err != nil {
		rt.Fatal(err)
	}

	// deleted holds ids that were created and are no longer stored.
	deleted := map[string]bool{}
	for _, id := range createdProps {
		deleted[id] = true
	}
	for _, id := range createdApts {
		deleted[id] = true
	}
	for _, id := range createdTenants {
		deleted[id] = true
	}
	for _, p := range props {
		delete(deleted, p.ID)
	}
	aptByID := map[string]*domain.Apartment{}
	for _, a := range apts {
		delete(deleted, a.ID)
		aptByID[a.ID] = a
	}
	for _, t := range tenants {
		delete(deleted, t.ID)
	}

	for _, a := range apts {
		if deleted[a.PropertyID] {
			rt.Fatalf("apartment %s references deleted property %s", a.ID, a.PropertyID)
		}
	}
	today := r.Today()
	for _, c := range contracts {
		if deleted[c.ApartmentID] {
			rt.Fatalf("contract %s references deleted apartment %s", c.ID, c.ApartmentID)
		}
		if deleted[c.TenantID] {
			rt.Fatalf("contract %s references deleted tenant %s", c.ID, c.TenantID)
		}
		if a, ok := aptByID[c.ApartmentID]; ok && c.IsActiveOn(today) && !a.IsOccupied {
			rt.Fatalf("apartment %s has active contract %s but is vacant", a.ID, c.ID)
		}
	}
}

func (r *Registry) propertyIDs(ctx context.Context) ([]string, error) {
	props, err := r.ListProperties(ctx)
	ids := make([]string, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.ID)
	}
	return ids, err
}

func (r *Registry) apartmentIDs(ctx context.Context) ([]string, error) {
	apts, err := r.ListApartments(ctx)
	ids := make([]string, 0, len(apts))
	for _, a := range apts {
		ids = append(ids, a.ID)
	}
	return ids, err
}

func (r *Registry) tenantIDs(ctx context.Context) ([]string, error) {
	tenants, err := r.ListTenants(ctx)
	ids := make([]string, 0, len(tenants))
	for _, t := range tenants {
		ids = append(ids, t.ID)
	}
	return ids, err
}
