package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
	"github.com/aryan0dhankhar/rentalregistry/internal/observability/metrics"
)

// ContractQuery filters FindContracts. Search is matched case-insensitively
// against tenant name, apartment number and property name, address and city.
type ContractQuery struct {
	Status domain.ContractStatus
	Search string
}

// ContractDetails is a contract joined with the records it references.
// Tenant, Apartment and Property are nil when the reference does not resolve.
type ContractDetails struct {
	domain.Contract
	Status    domain.ContractStatus `json:"status"`
	Tenant    *domain.Tenant        `json:"tenant,omitempty"`
	Apartment *domain.Apartment     `json:"apartment,omitempty"`
	Property  *domain.Property      `json:"property,omitempty"`
}

// DashboardSummary is the portfolio overview.
type DashboardSummary struct {
	Properties       int                `json:"properties"`
	Apartments       int                `json:"apartments"`
	VacantApartments int                `json:"vacantApartments"`
	Tenants          int                `json:"tenants"`
	Contracts        int                `json:"contracts"`
	ActiveContracts  int                `json:"activeContracts"`
	ExpiringSoon     []*ContractDetails `json:"expiringSoon"`
	WindowDays       int                `json:"windowDays"`
	AsOf             domain.Date        `json:"asOf"`
}

type snapshot struct {
	properties map[string]*domain.Property
	apartments map[string]*domain.Apartment
	tenants    map[string]*domain.Tenant
	contracts  []*domain.Contract
	nApts      int
	nVacant    int
}

func (r *Registry) loadSnapshot(ctx context.Context) (*snapshot, error) {
	props, err := r.store.Properties().List(ctx)
	if err != nil {
		return nil, err
	}
	apts, err := r.store.Apartments().List(ctx)
	if err != nil {
		return nil, err
	}
	tenants, err := r.store.Tenants().List(ctx)
	if err != nil {
		return nil, err
	}
	contracts, err := r.store.Contracts().List(ctx)
	if err != nil {
		return nil, err
	}

	s := &snapshot{
		properties: make(map[string]*domain.Property, len(props)),
		apartments: make(map[string]*domain.Apartment, len(apts)),
		tenants:    make(map[string]*domain.Tenant, len(tenants)),
		contracts:  contracts,
		nApts:      len(apts),
	}
	for _, p := range props {
		s.properties[p.ID] = p
	}
	for _, a := range apts {
		s.apartments[a.ID] = a
		if !a.IsOccupied {
			s.nVacant++
		}
	}
	for _, t := range tenants {
		s.tenants[t.ID] = t
	}
	return s, nil
}

func (s *snapshot) details(c *domain.Contract, today domain.Date, window int) *ContractDetails {
	d := &ContractDetails{
		Contract: *c,
		Status:   c.StatusOn(today, window),
		Tenant:   s.tenants[c.TenantID],
	}
	if a := s.apartments[c.ApartmentID]; a != nil {
		d.Apartment = a
		d.Property = s.properties[a.PropertyID]
	}
	return d
}

func (d *ContractDetails) matches(term string) bool {
	if term == "" {
		return true
	}
	var fields []string
	if d.Tenant != nil {
		fields = append(fields, d.Tenant.FirstName, d.Tenant.LastName, d.Tenant.FullName())
	}
	if d.Apartment != nil {
		fields = append(fields, d.Apartment.Number)
	}
	if d.Property != nil {
		fields = append(fields, d.Property.Name, d.Property.Address, d.Property.City)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// FindContracts returns contracts matching q, active ones first and newest start date first within each group.
func (r *Registry) FindContracts(ctx context.Context, q ContractQuery) (_ []*ContractDetails, err error) {
	ctx, end := r.begin(ctx, "contract", "find")
	defer end(&err)

	s, err := r.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	status := q.Status
	if status == "" {
		status = domain.ContractStatusAll
	}
	term := strings.ToLower(strings.TrimSpace(q.Search))
	today := r.Today()

	out := make([]*ContractDetails, 0, len(s.contracts))
	for _, c := range s.contracts {
		d := s.details(c, today, r.expiringWindow)
		if status.Matches(d.Status) && d.matches(term) {
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, func(a, b *ContractDetails) int {
		aActive := a.Status != domain.ContractStatusExpired
		bActive := b.Status != domain.ContractStatusExpired
		if aActive != bActive {
			if aActive {
				return -1
			}
			return 1
		}
		return b.StartDate.Compare(a.StartDate)
	})
	return out, nil
}

// ExpiringContracts returns contracts whose end date lies between today and
// today+days inclusive, soonest first.
func (r *Registry) ExpiringContracts(ctx context.Context, days int) (_ []*ContractDetails, err error) {
	ctx, end := r.begin(ctx, "contract", "expiring")
	defer end(&err)

	s, err := r.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.expiring(r.Today(), days, r.expiringWindow), nil
}

func (s *snapshot) expiring(today domain.Date, days, window int) []*ContractDetails {
	limit := today.AddDays(days)
	out := []*ContractDetails{}
	for _, c := range s.contracts {
		if c.EndDate == nil || c.EndDate.Before(today) || c.EndDate.After(limit) {
			continue
		}
		out = append(out, s.details(c, today, window))
	}
	slices.SortStableFunc(out, func(a, b *ContractDetails) int {
		return a.EndDate.Compare(*b.EndDate)
	})
	return out
}

// Dashboard summarizes the portfolio and refreshes the portfolio gauges.
func (r *Registry) Dashboard(ctx context.Context) (_ *DashboardSummary, err error) {
	ctx, end := r.begin(ctx, "dashboard", "summary")
	defer end(&err)

	s, err := r.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	today := r.Today()
	active := 0
	for _, c := range s.contracts {
		if c.IsActiveOn(today) {
			active++
		}
	}

	summary := &DashboardSummary{
		Properties:       len(s.properties),
		Apartments:       s.nApts,
		VacantApartments: s.nVacant,
		Tenants:          len(s.tenants),
		Contracts:        len(s.contracts),
		ActiveContracts:  active,
		ExpiringSoon:     s.expiring(today, r.expiringWindow, r.expiringWindow),
		WindowDays:       r.expiringWindow,
		AsOf:             today,
	}
	metrics.SetPortfolio(summary.VacantApartments, summary.ActiveContracts)
	r.logger.Debug("dashboard computed",
		slog.Int("vacant_apartments", summary.VacantApartments),
		slog.Int("active_contracts", summary.ActiveContracts),
	)
	return summary, nil
}
