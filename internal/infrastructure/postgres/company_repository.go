package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmahdy/jofotara-api/internal/domain"
	"github.com/mmahdy/jofotara-api/internal/domain/entity"
	"github.com/mmahdy/jofotara-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implements CompanyRepository (usable with pool or tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository builds the adapter. Pass a pool or a tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `
	id, name, COALESCE(tax_id, ''), COALESCE(country, ''),
	COALESCE(address, ''), COALESCE(city, ''), COALESCE(postal_zone, ''),
	COALESCE(phone, ''), COALESCE(email, ''),
	COALESCE(activity_number, ''), sales_tax_registered,
	integration_enabled, COALESCE(api_url, ''), COALESCE(auth_mode, ''),
	COALESCE(client_id, ''), COALESCE(secret_enc, ''), COALESCE(token_enc, ''),
	status, created_at, updated_at`

// Create persists a new company.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	if company.ID == "" {
		company.ID = uuid.New().String()
	}
	if company.Status == "" {
		company.Status = "active"
	}
	query := `
		INSERT INTO companies (id, name, tax_id, country, address, city, postal_zone,
		                       phone, email, activity_number, sales_tax_registered,
		                       integration_enabled, api_url, auth_mode, client_id, secret_enc, token_enc,
		                       status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.Name, nullIfEmpty(company.TaxID), nullIfEmpty(company.Country),
		nullIfEmpty(company.Address), nullIfEmpty(company.City), nullIfEmpty(company.PostalZone),
		nullIfEmpty(company.Phone), nullIfEmpty(company.Email),
		nullIfEmpty(company.ActivityNumber), company.SalesTaxRegistered,
		company.IntegrationEnabled, nullIfEmpty(company.APIURL), nullIfEmpty(company.AuthMode),
		nullIfEmpty(company.ClientID), nullIfEmpty(company.SecretEnc), nullIfEmpty(company.TokenEnc),
		company.Status, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("company already exists: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID fetches a company with its integration settings.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	company, err := scanCompany(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return company, nil
}

// List returns companies ordered by name.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, company)
	}
	return list, rows.Err()
}

// Update persists the registration fields of a company (not the integration
// block, which has its own narrower update).
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies
		SET name                 = $2,
		    tax_id               = $3,
		    country              = $4,
		    address              = $5,
		    city                 = $6,
		    postal_zone          = $7,
		    phone                = $8,
		    email                = $9,
		    activity_number      = $10,
		    sales_tax_registered = $11,
		    status               = $12,
		    updated_at           = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		company.ID, company.Name, nullIfEmpty(company.TaxID), nullIfEmpty(company.Country),
		nullIfEmpty(company.Address), nullIfEmpty(company.City), nullIfEmpty(company.PostalZone),
		nullIfEmpty(company.Phone), nullIfEmpty(company.Email),
		nullIfEmpty(company.ActivityNumber), company.SalesTaxRegistered,
		company.Status, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateIntegration persists only the JoFotara settings block.
func (r *CompanyRepo) UpdateIntegration(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies
		SET integration_enabled = $2,
		    api_url             = $3,
		    auth_mode           = $4,
		    client_id           = $5,
		    secret_enc          = $6,
		    token_enc           = $7,
		    updated_at          = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		company.ID,
		company.IntegrationEnabled, nullIfEmpty(company.APIURL), nullIfEmpty(company.AuthMode),
		nullIfEmpty(company.ClientID), nullIfEmpty(company.SecretEnc), nullIfEmpty(company.TokenEnc),
		company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company integration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.TaxID, &c.Country,
		&c.Address, &c.City, &c.PostalZone,
		&c.Phone, &c.Email,
		&c.ActivityNumber, &c.SalesTaxRegistered,
		&c.IntegrationEnabled, &c.APIURL, &c.AuthMode,
		&c.ClientID, &c.SecretEnc, &c.TokenEnc,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
