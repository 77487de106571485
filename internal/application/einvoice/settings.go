package einvoice

import (
	"context"
	"errors"
	"time"

	"github.com/mmahdy/jofotara-api/internal/application/dto"
	"github.com/mmahdy/jofotara-api/internal/domain"
	"github.com/mmahdy/jofotara-api/internal/domain/entity"
	"github.com/mmahdy/jofotara-api/internal/domain/repository"
	"github.com/mmahdy/jofotara-api/pkg/secrets"
)

// SettingsUseCase manages issuing companies, their JoFotara integration
// settings and the buyer registry. Credential material is sealed before it
// reaches the repository and never leaves the service decrypted.
type SettingsUseCase struct {
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	secrets      *secrets.Store
}

// NewSettingsUseCase builds the settings use case.
func NewSettingsUseCase(companyRepo repository.CompanyRepository, customerRepo repository.CustomerRepository, secretStore *secrets.Store) *SettingsUseCase {
	return &SettingsUseCase{companyRepo: companyRepo, customerRepo: customerRepo, secrets: secretStore}
}

// ── Companies ─────────────────────────────────────────────────────────────────

// CreateCompany registers an issuing company. The integration starts disabled.
func (uc *SettingsUseCase) CreateCompany(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	now := time.Now()
	company := &entity.Company{
		Name:               in.Name,
		TaxID:              in.TaxID,
		Country:            in.Country,
		Address:            in.Address,
		City:               in.City,
		PostalZone:         in.PostalZone,
		Phone:              in.Phone,
		Email:              in.Email,
		ActivityNumber:     in.ActivityNumber,
		SalesTaxRegistered: in.SalesTaxRegistered,
		Status:             "active",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// GetCompany fetches a company.
func (uc *SettingsUseCase) GetCompany(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// ListCompanies lists companies.
func (uc *SettingsUseCase) ListCompanies(ctx context.Context, page dto.PageRequest) ([]*dto.CompanyResponse, error) {
	page.DefaultPage()
	list, err := uc.companyRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CompanyResponse, len(list))
	for i, c := range list {
		out[i] = toCompanyResponse(c)
	}
	return out, nil
}

// UpdateIntegration stores the JoFotara settings of a company. Incoming
// secret/token values are sealed; empty values keep whatever was stored
// before, so re-saving the form does not wipe credentials.
func (uc *SettingsUseCase) UpdateIntegration(ctx context.Context, companyID string, in dto.UpdateIntegrationRequest) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	company.IntegrationEnabled = in.Enabled
	if in.APIURL != "" {
		company.APIURL = in.APIURL
	}
	if in.AuthMode != "" {
		company.AuthMode = in.AuthMode
	}
	if in.ClientID != "" {
		company.ClientID = in.ClientID
	}
	if in.SecretKey != "" {
		sealed, err := uc.secrets.Seal(in.SecretKey)
		if err != nil {
			if errors.Is(err, secrets.ErrNoKey) {
				return nil, domain.ErrConflict
			}
			return nil, err
		}
		company.SecretEnc = sealed
	}
	if in.Token != "" {
		sealed, err := uc.secrets.Seal(in.Token)
		if err != nil {
			if errors.Is(err, secrets.ErrNoKey) {
				return nil, domain.ErrConflict
			}
			return nil, err
		}
		company.TokenEnc = sealed
	}
	company.UpdatedAt = time.Now()

	if err := uc.companyRepo.UpdateIntegration(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// ── Customers ─────────────────────────────────────────────────────────────────

// CreateCustomer registers a buyer for a company. An existing customer with
// the same tax id is returned instead of duplicated.
func (uc *SettingsUseCase) CreateCustomer(ctx context.Context, companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.TaxID != "" {
		existing, err := uc.customerRepo.GetByCompanyAndTaxID(ctx, companyID, in.TaxID)
		if err == nil {
			return toCustomerResponse(existing), nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	now := time.Now()
	customer := &entity.Customer{
		CompanyID: companyID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// ListCustomers lists the buyers of a company.
func (uc *SettingsUseCase) ListCustomers(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.customerRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, len(list))
	for i, c := range list {
		out[i] = toCustomerResponse(c)
	}
	return out, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		TaxID:              c.TaxID,
		Country:            c.Country,
		Address:            c.Address,
		City:               c.City,
		PostalZone:         c.PostalZone,
		Phone:              c.Phone,
		Email:              c.Email,
		ActivityNumber:     c.ActivityNumber,
		SalesTaxRegistered: c.SalesTaxRegistered,
		IntegrationEnabled: c.IntegrationEnabled,
		APIURL:             c.APIURL,
		AuthMode:           c.AuthMode,
		ClientID:           c.ClientID,
		HasSecret:          c.SecretEnc != "",
		HasToken:           c.TokenEnc != "",
		Status:             c.Status,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
