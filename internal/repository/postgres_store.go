package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
)

// PostgresStore implements domain.Store with raw SQL over lib/pq.
// Every table carries a seq column so lists come back in insertion order.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore creates a store on an open connection. Close closes db.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{db: db, logger: logger}
}

func (s *PostgresStore) Properties() domain.PropertyRepository {
	return &postgresPropertyRepository{db: s.db, logger: s.logger}
}

func (s *PostgresStore) Apartments() domain.ApartmentRepository {
	return &postgresApartmentRepository{db: s.db, logger: s.logger}
}

func (s *PostgresStore) Tenants() domain.TenantRepository {
	return &postgresTenantRepository{db: s.db, logger: s.logger}
}

func (s *PostgresStore) Contracts() domain.ContractRepository {
	return &postgresContractRepository{db: s.db, logger: s.logger}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// execAffectingOne runs a write and maps zero affected rows to domain.ErrNotFound.
func execAffectingOne(ctx context.Context, db *sql.DB, what, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// ---- properties ----

type postgresPropertyRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

const propertyColumns = `id, name, address, city, postal_code, construction_year, total_apartments`

func scanProperty(row scanner) (*domain.Property, error) {
	p := &domain.Property{}
	var year sql.NullInt64
	if err := row.Scan(&p.ID, &p.Name, &p.Address, &p.City, &p.PostalCode, &year, &p.TotalApartments); err != nil {
		return nil, err
	}
	if year.Valid {
		y := int(year.Int64)
		p.ConstructionYear = &y
	}
	return p, nil
}

func (r *postgresPropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	query := `
		INSERT INTO properties (id, name, address, city, postal_code, construction_year, total_apartments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Address, p.City, p.PostalCode, p.ConstructionYear, p.TotalApartments)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *postgresPropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	p, err := scanProperty(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return p, nil
}

func (r *postgresPropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	query := `
		UPDATE properties
		SET name = $1, address = $2, city = $3, postal_code = $4, construction_year = $5, total_apartments = $6
		WHERE id = $7
	`
	return execAffectingOne(ctx, r.db, "update property", query,
		p.Name, p.Address, p.City, p.PostalCode, p.ConstructionYear, p.TotalApartments, p.ID)
}

func (r *postgresPropertyRepository) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db, "delete property", `DELETE FROM properties WHERE id = $1`, id)
}

func (r *postgresPropertyRepository) List(ctx context.Context) ([]*domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	out := []*domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ---- apartments ----

type postgresApartmentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

const apartmentColumns = `id, property_id, number, floor, size, rooms, bathrooms, price, is_occupied, amenities`

func scanApartment(row scanner) (*domain.Apartment, error) {
	a := &domain.Apartment{}
	var amenities string
	if err := row.Scan(&a.ID, &a.PropertyID, &a.Number, &a.Floor, &a.Size, &a.Rooms, &a.Bathrooms, &a.Price, &a.IsOccupied, &amenities); err != nil {
		return nil, err
	}
	list, err := decodeList(amenities)
	if err != nil {
		return nil, err
	}
	a.Amenities = list
	return a, nil
}

func (r *postgresApartmentRepository) query(ctx context.Context, where string, args ...any) ([]*domain.Apartment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+apartmentColumns+` FROM apartments `+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list apartments: %w", err)
	}
	defer rows.Close()

	out := []*domain.Apartment{}
	for rows.Next() {
		a, err := scanApartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan apartment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *postgresApartmentRepository) Create(ctx context.Context, a *domain.Apartment) error {
	amenities, err := encodeList(a.Amenities)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO apartments (id, property_id, number, floor, size, rooms, bathrooms, price, is_occupied, amenities)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := r.db.ExecContext(ctx, query,
		a.ID, a.PropertyID, a.Number, a.Floor, a.Size, a.Rooms, a.Bathrooms, a.Price, a.IsOccupied, amenities,
	); err != nil {
		return fmt.Errorf("failed to create apartment: %w", err)
	}
	return nil
}

func (r *postgresApartmentRepository) GetByID(ctx context.Context, id string) (*domain.Apartment, error) {
	query := `SELECT ` + apartmentColumns + ` FROM apartments WHERE id = $1`
	a, err := scanApartment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get apartment: %w", err)
	}
	return a, nil
}

func (r *postgresApartmentRepository) Update(ctx context.Context, a *domain.Apartment) error {
	amenities, err := encodeList(a.Amenities)
	if err != nil {
		return err
	}
	query := `
		UPDATE apartments
		SET property_id = $1, number = $2, floor = $3, size = $4, rooms = $5, bathrooms = $6,
		    price = $7, is_occupied = $8, amenities = $9
		WHERE id = $10
	`
	return execAffectingOne(ctx, r.db, "update apartment", query,
		a.PropertyID, a.Number, a.Floor, a.Size, a.Rooms, a.Bathrooms, a.Price, a.IsOccupied, amenities, a.ID)
}

func (r *postgresApartmentRepository) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db, "delete apartment", `DELETE FROM apartments WHERE id = $1`, id)
}

func (r *postgresApartmentRepository) List(ctx context.Context) ([]*domain.Apartment, error) {
	return r.query(ctx, "")
}

func (r *postgresApartmentRepository) ListByProperty(ctx context.Context, propertyID string) ([]*domain.Apartment, error) {
	return r.query(ctx, "WHERE property_id = $1", propertyID)
}

// ---- tenants ----

type postgresTenantRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

const tenantColumns = `id, first_name, last_name, email, phone, date_of_birth, id_number`

func scanTenant(row scanner) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	if err := row.Scan(&t.ID, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.DateOfBirth, &t.IDNumber); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTenantRepository) Create(ctx context.Context, t *domain.Tenant) error {
	query := `
		INSERT INTO tenants (id, first_name, last_name, email, phone, date_of_birth, id_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query, t.ID, t.FirstName, t.LastName, t.Email, t.Phone, t.DateOfBirth, t.IDNumber); err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

func (r *postgresTenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	t, err := scanTenant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

func (r *postgresTenantRepository) Update(ctx context.Context, t *domain.Tenant) error {
	query := `
		UPDATE tenants
		SET first_name = $1, last_name = $2, email = $3, phone = $4, date_of_birth = $5, id_number = $6
		WHERE id = $7
	`
	return execAffectingOne(ctx, r.db, "update tenant", query,
		t.FirstName, t.LastName, t.Email, t.Phone, t.DateOfBirth, t.IDNumber, t.ID)
}

func (r *postgresTenantRepository) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db, "delete tenant", `DELETE FROM tenants WHERE id = $1`, id)
}

func (r *postgresTenantRepository) List(ctx context.Context) ([]*domain.Tenant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	out := []*domain.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ---- contracts ----

type postgresContractRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

const contractColumns = `id, apartment_id, tenant_id, start_date, end_date, rental_price, deposit, is_paid, documents, notes`

func scanContract(row scanner) (*domain.Contract, error) {
	c := &domain.Contract{}
	var documents string
	if err := row.Scan(&c.ID, &c.ApartmentID, &c.TenantID, &c.StartDate, &c.EndDate,
		&c.RentalPrice, &c.Deposit, &c.IsPaid, &documents, &c.Notes); err != nil {
		return nil, err
	}
	list, err := decodeList(documents)
	if err != nil {
		return nil, err
	}
	c.Documents = list
	return c, nil
}

func (r *postgresContractRepository) query(ctx context.Context, where string, args ...any) ([]*domain.Contract, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contractColumns+` FROM contracts `+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	out := []*domain.Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *postgresContractRepository) Create(ctx context.Context, c *domain.Contract) error {
	documents, err := encodeList(c.Documents)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO contracts (id, apartment_id, tenant_id, start_date, end_date, rental_price, deposit, is_paid, documents, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := r.db.ExecContext(ctx, query,
		c.ID, c.ApartmentID, c.TenantID, c.StartDate, c.EndDate, c.RentalPrice, c.Deposit, c.IsPaid, documents, c.Notes,
	); err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}
	return nil
}

func (r *postgresContractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	c, err := scanContract(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return c, nil
}

func (r *postgresContractRepository) Update(ctx context.Context, c *domain.Contract) error {
	documents, err := encodeList(c.Documents)
	if err != nil {
		return err
	}
	query := `
		UPDATE contracts
		SET apartment_id = $1, tenant_id = $2, start_date = $3, end_date = $4, rental_price = $5,
		    deposit = $6, is_paid = $7, documents = $8, notes = $9
		WHERE id = $10
	`
	return execAffectingOne(ctx, r.db, "update contract", query,
		c.ApartmentID, c.TenantID, c.StartDate, c.EndDate, c.RentalPrice, c.Deposit, c.IsPaid, documents, c.Notes, c.ID)
}

func (r *postgresContractRepository) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db, "delete contract", `DELETE FROM contracts WHERE id = $1`, id)
}

func (r *postgresContractRepository) List(ctx context.Context) ([]*domain.Contract, error) {
	return r.query(ctx, "")
}

func (r *postgresContractRepository) ListByApartment(ctx context.Context, apartmentID string) ([]*domain.Contract, error) {
	return r.query(ctx, "WHERE apartment_id = $1", apartmentID)
}

func (r *postgresContractRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Contract, error) {
	return r.query(ctx, "WHERE tenant_id = $1", tenantID)
}
