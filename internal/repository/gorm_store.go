package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
)

// Gorm row models. Dates are kept as YYYY-MM-DD strings so every dialect
// stores them the same way, and Seq carries insertion order.

type propertyModel struct {
	Seq              int64  `gorm:"not null;index"`
	ID               string `gorm:"primaryKey;size:64"`
	Name             string `gorm:"not null"`
	Address          string `gorm:"not null"`
	City             string `gorm:"not null"`
	PostalCode       string `gorm:"size:16;not null"`
	ConstructionYear *int
	TotalApartments  int `gorm:"not null"`
}

func (propertyModel) TableName() string { return "properties" }

type apartmentModel struct {
	Seq        int64  `gorm:"not null;index"`
	ID         string `gorm:"primaryKey;size:64"`
	PropertyID string `gorm:"size:64;not null;index"`
	Number     string `gorm:"not null"`
	Floor      int
	Size       float64
	Rooms      int
	Bathrooms  int
	Price      float64
	IsOccupied bool
	Amenities  datatypes.JSONSlice[string]
}

func (apartmentModel) TableName() string { return "apartments" }

type tenantModel struct {
	Seq         int64  `gorm:"not null;index"`
	ID          string `gorm:"primaryKey;size:64"`
	FirstName   string `gorm:"not null"`
	LastName    string `gorm:"not null"`
	Email       string `gorm:"not null"`
	Phone       string `gorm:"not null"`
	DateOfBirth *string `gorm:"size:10"`
	IDNumber    string
}

func (tenantModel) TableName() string { return "tenants" }

type contractModel struct {
	Seq         int64   `gorm:"not null;index"`
	ID          string  `gorm:"primaryKey;size:64"`
	ApartmentID string  `gorm:"size:64;not null;index"`
	TenantID    string  `gorm:"size:64;not null;index"`
	StartDate   string  `gorm:"size:10;not null"`
	EndDate     *string `gorm:"size:10"`
	RentalPrice float64
	Deposit     float64
	IsPaid      bool
	Documents   datatypes.JSONSlice[string]
	Notes       string
}

func (contractModel) TableName() string { return "contracts" }

// GormModels lists the row models for AutoMigrate.
func GormModels() []any {
	return []any{&propertyModel{}, &apartmentModel{}, &tenantModel{}, &contractModel{}}
}

// GormStore implements domain.Store on top of GORM.
type GormStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormStore migrates the row models and returns the store.
func NewGormStore(ctx context.Context, db *gorm.DB, logger *slog.Logger) (*GormStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := db.WithContext(ctx).AutoMigrate(GormModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate gorm models: %w", err)
	}
	return &GormStore{db: db, logger: logger}, nil
}

func (s *GormStore) Properties() domain.PropertyRepository {
	return &gormRepository[propertyModel, domain.Property]{db: s.db, name: "property", toModel: propertyToModel, fromModel: propertyFromModel}
}

func (s *GormStore) Apartments() domain.ApartmentRepository {
	return &gormApartmentRepository{gormRepository[apartmentModel, domain.Apartment]{
		db: s.db, name: "apartment", toModel: apartmentToModel, fromModel: apartmentFromModel,
	}}
}

func (s *GormStore) Tenants() domain.TenantRepository {
	return &gormRepository[tenantModel, domain.Tenant]{db: s.db, name: "tenant", toModel: tenantToModel, fromModel: tenantFromModel}
}

func (s *GormStore) Contracts() domain.ContractRepository {
	return &gormContractRepository{gormRepository[contractModel, domain.Contract]{
		db: s.db, name: "contract", toModel: contractToModel, fromModel: contractFromModel,
	}}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormRepository is the CRUD core shared by the four collections.
// M is the row model, E the domain entity.
type gormRepository[M any, E any] struct {
	db        *gorm.DB
	name      string
	toModel   func(*E) (M, error)
	fromModel func(*M) (*E, error)
}

func (r *gormRepository[M, E]) Create(ctx context.Context, e *E) error {
	m, err := r.toModel(e)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int64
		if err := tx.Model(new(M)).Select("COALESCE(MAX(seq), 0) + 1").Scan(&next).Error; err != nil {
			return err
		}
		setSeq(&m, next)
		return tx.Create(&m).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.name, err)
	}
	return nil
}

func (r *gormRepository[M, E]) GetByID(ctx context.Context, id string) (*E, error) {
	var m M
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", r.name, err)
	}
	return r.fromModel(&m)
}

func (r *gormRepository[M, E]) Update(ctx context.Context, e *E) error {
	m, err := r.toModel(e)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing M
		if err := tx.Where("id = ?", modelID(&m)).First(&existing).Error; err != nil {
			return err
		}
		setSeq(&m, modelSeq(&existing))
		return tx.Save(&m).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", r.name, err)
	}
	return nil
}

func (r *gormRepository[M, E]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(M))
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", r.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *gormRepository[M, E]) List(ctx context.Context) ([]*E, error) {
	return r.find(ctx, "", "")
}

func (r *gormRepository[M, E]) find(ctx context.Context, column, value string) ([]*E, error) {
	q := r.db.WithContext(ctx).Order("seq")
	if column != "" {
		q = q.Where(column+" = ?", value)
	}
	var models []M
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", r.name, err)
	}
	out := make([]*E, 0, len(models))
	for i := range models {
		e, err := r.fromModel(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

type gormApartmentRepository struct {
	gormRepository[apartmentModel, domain.Apartment]
}

func (r *gormApartmentRepository) ListByProperty(ctx context.Context, propertyID string) ([]*domain.Apartment, error) {
	return r.find(ctx, "property_id", propertyID)
}

type gormContractRepository struct {
	gormRepository[contractModel, domain.Contract]
}

func (r *gormContractRepository) ListByApartment(ctx context.Context, apartmentID string) ([]*domain.Contract, error) {
	return r.find(ctx, "apartment_id", apartmentID)
}

func (r *gormContractRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Contract, error) {
	return r.find(ctx, "tenant_id", tenantID)
}

func setSeq(m any, seq int64) {
	switch v := m.(type) {
	case *propertyModel:
		v.Seq = seq
	case *apartmentModel:
		v.Seq = seq
	case *tenantModel:
		v.Seq = seq
	case *contractModel:
		v.Seq = seq
	}
}

func modelSeq(m any) int64 {
	switch v := m.(type) {
	case *propertyModel:
		return v.Seq
	case *apartmentModel:
		return v.Seq
	case *tenantModel:
		return v.Seq
	case *contractModel:
		return v.Seq
	}
	return 0
}

func modelID(m any) string {
	switch v := m.(type) {
	case *propertyModel:
		return v.ID
	case *apartmentModel:
		return v.ID
	case *tenantModel:
		return v.ID
	case *contractModel:
		return v.ID
	}
	return ""
}

// ---- conversions ----

func propertyToModel(p *domain.Property) (propertyModel, error) {
	return propertyModel{
		ID:               p.ID,
		Name:             p.Name,
		Address:          p.Address,
		City:             p.City,
		PostalCode:       p.PostalCode,
		ConstructionYear: p.Clone().ConstructionYear,
		TotalApartments:  p.TotalApartments,
	}, nil
}

func propertyFromModel(m *propertyModel) (*domain.Property, error) {
	return &domain.Property{
		ID:               m.ID,
		Name:             m.Name,
		Address:          m.Address,
		City:             m.City,
		PostalCode:       m.PostalCode,
		ConstructionYear: m.ConstructionYear,
		TotalApartments:  m.TotalApartments,
	}, nil
}

func apartmentToModel(a *domain.Apartment) (apartmentModel, error) {
	return apartmentModel{
		ID:         a.ID,
		PropertyID: a.PropertyID,
		Number:     a.Number,
		Floor:      a.Floor,
		Size:       a.Size,
		Rooms:      a.Rooms,
		Bathrooms:  a.Bathrooms,
		Price:      a.Price,
		IsOccupied: a.IsOccupied,
		Amenities:  datatypes.JSONSlice[string](nonNil(a.Amenities)),
	}, nil
}

func apartmentFromModel(m *apartmentModel) (*domain.Apartment, error) {
	return &domain.Apartment{
		ID:         m.ID,
		PropertyID: m.PropertyID,
		Number:     m.Number,
		Floor:      m.Floor,
		Size:       m.Size,
		Rooms:      m.Rooms,
		Bathrooms:  m.Bathrooms,
		Price:      m.Price,
		IsOccupied: m.IsOccupied,
		Amenities:  nonNil([]string(m.Amenities)),
	}, nil
}

func tenantToModel(t *domain.Tenant) (tenantModel, error) {
	return tenantModel{
		ID:          t.ID,
		FirstName:   t.FirstName,
		LastName:    t.LastName,
		Email:       t.Email,
		Phone:       t.Phone,
		DateOfBirth: dateString(t.DateOfBirth),
		IDNumber:    t.IDNumber,
	}, nil
}

func tenantFromModel(m *tenantModel) (*domain.Tenant, error) {
	dob, err := parseDateString(m.DateOfBirth)
	if err != nil {
		return nil, err
	}
	return &domain.Tenant{
		ID:          m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		Phone:       m.Phone,
		DateOfBirth: dob,
		IDNumber:    m.IDNumber,
	}, nil
}

func contractToModel(c *domain.Contract) (contractModel, error) {
	return contractModel{
		ID:          c.ID,
		ApartmentID: c.ApartmentID,
		TenantID:    c.TenantID,
		StartDate:   c.StartDate.String(),
		EndDate:     dateString(c.EndDate),
		RentalPrice: c.RentalPrice,
		Deposit:     c.Deposit,
		IsPaid:      c.IsPaid,
		Documents:   datatypes.JSONSlice[string](nonNil(c.Documents)),
		Notes:       c.Notes,
	}, nil
}

func contractFromModel(m *contractModel) (*domain.Contract, error) {
	start, err := domain.ParseDate(m.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDateString(m.EndDate)
	if err != nil {
		return nil, err
	}
	return &domain.Contract{
		ID:          m.ID,
		ApartmentID: m.ApartmentID,
		TenantID:    m.TenantID,
		StartDate:   start,
		EndDate:     end,
		RentalPrice: m.RentalPrice,
		Deposit:     m.Deposit,
		IsPaid:      m.IsPaid,
		Documents:   nonNil([]string(m.Documents)),
		Notes:       m.Notes,
	}, nil
}

func dateString(d *domain.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseDateString(s *string) (*domain.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
