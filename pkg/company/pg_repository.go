package company

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCompanyRepository implements CompanyRepository using PostgreSQL
type PostgresCompanyRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCompanyRepository creates a new PostgreSQL-based company repository
func NewPostgresCompanyRepository(pool *pgxpool.Pool) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{
		pool: pool,
	}
}

const companyColumns = `id, company_name, COALESCE(website, ''), COALESCE(description, ''),
	COALESCE(duns_number, ''), is_verified, created_at`

func scanCompany(row pgx.Row) (ProviderCompany, error) {
	var c ProviderCompany
	err := row.Scan(&c.ID, &c.CompanyName, &c.Website, &c.Description,
		&c.DUNSNumber, &c.IsVerified, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProviderCompany{}, ErrCompanyNotFound
		}
		return ProviderCompany{}, err
	}
	return c, nil
}

func (r *PostgresCompanyRepository) CreateCompany(ctx context.Context, c ProviderCompany) (ProviderCompany, error) {
	const q = `
		INSERT INTO provider_companies (id, company_name, website, description, duns_number, is_verified, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, NOW())
		RETURNING ` + companyColumns

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return scanCompany(r.pool.QueryRow(ctx, q, c.ID, c.CompanyName, c.Website,
		c.Description, c.DUNSNumber, c.IsVerified))
}

func (r *PostgresCompanyRepository) GetCompany(ctx context.Context, id uuid.UUID) (ProviderCompany, error) {
	const q = `SELECT ` + companyColumns + ` FROM provider_companies WHERE id = $1`

	return scanCompany(r.pool.QueryRow(ctx, q, id))
}

func (r *PostgresCompanyRepository) UpdateCompany(ctx context.Context, c ProviderCompany) (ProviderCompany, error) {
	const q = `
		UPDATE provider_companies
		SET company_name = $2, website = NULLIF($3, ''), description = NULLIF($4, ''),
			duns_number = NULLIF($5, ''), is_verified = $6
		WHERE id = $1
		RETURNING ` + companyColumns

	return scanCompany(r.pool.QueryRow(ctx, q, c.ID, c.CompanyName, c.Website,
		c.Description, c.DUNSNumber, c.IsVerified))
}

func (r *PostgresCompanyRepository) AddMembership(ctx context.Context, m CompanyMembership) (CompanyMembership, error) {
	const q = `
		INSERT INTO company_memberships (id, user_id, company_id, role, added_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, user_id, company_id, role, added_at`

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	var out CompanyMembership
	err := r.pool.QueryRow(ctx, q, m.ID, m.UserID, m.CompanyID, m.Role).Scan(
		&out.ID, &out.UserID, &out.CompanyID, &out.Role, &out.AddedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return CompanyMembership{}, ErrMemberExists
		}
		return CompanyMembership{}, fmt.Errorf("failed to add membership: %w", err)
	}
	return out, nil
}

func (r *PostgresCompanyRepository) GetMembership(ctx context.Context, companyID, userID uuid.UUID) (CompanyMembership, error) {
	const q = `
		SELECT id, user_id, company_id, role, added_at
		FROM company_memberships
		WHERE company_id = $1 AND user_id = $2`

	var m CompanyMembership
	err := r.pool.QueryRow(ctx, q, companyID, userID).Scan(
		&m.ID, &m.UserID, &m.CompanyID, &m.Role, &m.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CompanyMembership{}, ErrMembershipNotFound
		}
		return CompanyMembership{}, err
	}
	return m, nil
}

func (r *PostgresCompanyRepository) UpdateMembership(ctx context.Context, m CompanyMembership) error {
	const q = `UPDATE company_memberships SET role = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, m.ID, m.Role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

func (r *PostgresCompanyRepository) RemoveMembership(ctx context.Context, companyID, userID uuid.UUID) error {
	const q = `DELETE FROM company_memberships WHERE company_id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, q, companyID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

func (r *PostgresCompanyRepository) ListMemberships(ctx context.Context, companyID uuid.UUID) ([]CompanyMembership, error) {
	const q = `
		SELECT id, user_id, company_id, role, added_at
		FROM company_memberships
		WHERE company_id = $1
		ORDER BY added_at`

	return r.queryMemberships(ctx, q, companyID)
}

func (r *PostgresCompanyRepository) ListUserMemberships(ctx context.Context, userID uuid.UUID) ([]CompanyMembership, error) {
	const q = `
		SELECT id, user_id, company_id, role, added_at
		FROM company_memberships
		WHERE user_id = $1
		ORDER BY added_at`

	return r.queryMemberships(ctx, q, userID)
}

func (r *PostgresCompanyRepository) queryMemberships(ctx context.Context, q string, arg any) ([]CompanyMembership, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CompanyMembership
	for rows.Next() {
		var m CompanyMembership
		if err := rows.Scan(&m.ID, &m.UserID, &m.CompanyID, &m.Role, &m.AddedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *PostgresCompanyRepository) CountOwners(ctx context.Context, companyID uuid.UUID) (int64, error) {
	const q = `SELECT COUNT(*) FROM company_memberships WHERE company_id = $1 AND role = $2`

	var count int64
	if err := r.pool.QueryRow(ctx, q, companyID, RoleOwner).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresCompanyRepository) CreateServiceCategory(ctx context.Context, c ServiceCategory) (ServiceCategory, error) {
	const q = `
		INSERT INTO service_categories (name, description, unspsc_code, is_active)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
		RETURNING id, name, COALESCE(description, ''), COALESCE(unspsc_code, ''), is_active`

	var out ServiceCategory
	err := r.pool.QueryRow(ctx, q, c.Name, c.Description, c.UNSPSCCode, c.IsActive).Scan(
		&out.ID, &out.Name, &out.Description, &out.UNSPSCCode, &out.IsActive)
	if err != nil {
		return ServiceCategory{}, fmt.Errorf("failed to create service category: %w", err)
	}
	return out, nil
}

func (r *PostgresCompanyRepository) GetServiceCategory(ctx context.Context, id int32) (ServiceCategory, error) {
	const q = `
		SELECT id, name, COALESCE(description, ''), COALESCE(unspsc_code, ''), is_active
		FROM service_categories
		WHERE id = $1`

	var c ServiceCategory
	err := r.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Name, &c.Description, &c.UNSPSCCode, &c.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceCategory{}, ErrCategoryNotFound
		}
		return ServiceCategory{}, err
	}
	return c, nil
}

func (r *PostgresCompanyRepository) ListServiceCategories(ctx context.Context, activeOnly bool) ([]ServiceCategory, error) {
	const q = `
		SELECT id, name, COALESCE(description, ''), COALESCE(unspsc_code, ''), is_active
		FROM service_categories
		WHERE NOT $1 OR is_active
		ORDER BY name`

	rows, err := r.pool.Query(ctx, q, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ServiceCategory
	for rows.Next() {
		var c ServiceCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.UNSPSCCode, &c.IsActive); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *PostgresCompanyRepository) AddServiceArea(ctx context.Context, a ProviderServiceArea) (ProviderServiceArea, error) {
	const q = `
		INSERT INTO provider_service_areas (id, company_id, service_category_id, area_type, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, company_id, service_category_id, area_type, is_active`

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	var out ProviderServiceArea
	err := r.pool.QueryRow(ctx, q, a.ID, a.CompanyID, a.ServiceCategoryID, a.AreaType, a.IsActive).Scan(
		&out.ID, &out.CompanyID, &out.ServiceCategoryID, &out.AreaType, &out.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ProviderServiceArea{}, ErrCategoryNotFound
		}
		return ProviderServiceArea{}, fmt.Errorf("failed to add service area: %w", err)
	}
	return out, nil
}

func (r *PostgresCompanyRepository) RemoveServiceArea(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM provider_service_areas WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceAreaNotFound
	}
	return nil
}

func (r *PostgresCompanyRepository) ListServiceAreas(ctx context.Context, companyID uuid.UUID) ([]ProviderServiceArea, error) {
	const q = `
		SELECT id, company_id, service_category_id, area_type, is_active
		FROM provider_service_areas
		WHERE company_id = $1`

	rows, err := r.pool.Query(ctx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ProviderServiceArea
	for rows.Next() {
		var a ProviderServiceArea
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.ServiceCategoryID, &a.AreaType, &a.IsActive); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
