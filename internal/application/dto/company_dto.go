package dto

import "time"

// CreateCompanyRequest input for registering an issuing company.
type CreateCompanyRequest struct {
	Name               string `json:"name" validate:"required,min=1,max=200"`
	TaxID              string `json:"tax_id" validate:"omitempty,max=30"`
	Country            string `json:"country" validate:"omitempty,len=2"`
	Address            string `json:"address" validate:"omitempty,max=300"`
	City               string `json:"city" validate:"omitempty,max=100"`
	PostalZone         string `json:"postal_zone" validate:"omitempty,max=20"`
	Phone              string `json:"phone" validate:"omitempty,max=30"`
	Email              string `json:"email" validate:"omitempty,email"`
	ActivityNumber     string `json:"activity_number" validate:"omitempty,max=30"`
	SalesTaxRegistered bool   `json:"sales_tax_registered"`
}

// UpdateIntegrationRequest input for the per-company JoFotara settings.
// SecretKey and Token arrive in the clear and are sealed before persistence;
// they are never echoed back.
type UpdateIntegrationRequest struct {
	Enabled   bool   `json:"enabled"`
	APIURL    string `json:"api_url" validate:"omitempty,url"`
	AuthMode  string `json:"auth_mode" validate:"omitempty,oneof=token client_secret"`
	ClientID  string `json:"client_id" validate:"omitempty,max=200"`
	SecretKey string `json:"secret_key" validate:"omitempty,max=500"`
	Token     string `json:"token" validate:"omitempty,max=2000"`
}

// CompanyResponse company output. Credential material is reduced to presence
// flags so the UI can show configuration state without exposing secrets.
type CompanyResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	TaxID              string    `json:"tax_id,omitempty"`
	Country            string    `json:"country,omitempty"`
	Address            string    `json:"address,omitempty"`
	City               string    `json:"city,omitempty"`
	PostalZone         string    `json:"postal_zone,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Email              string    `json:"email,omitempty"`
	ActivityNumber     string    `json:"activity_number,omitempty"`
	SalesTaxRegistered bool      `json:"sales_tax_registered"`
	IntegrationEnabled bool      `json:"integration_enabled"`
	APIURL             string    `json:"api_url,omitempty"`
	AuthMode           string    `json:"auth_mode,omitempty"`
	ClientID           string    `json:"client_id,omitempty"`
	HasSecret          bool      `json:"has_secret"`
	HasToken           bool      `json:"has_token"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CreateCustomerRequest input for registering a buyer.
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	TaxID string `json:"tax_id" validate:"omitempty,max=30"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}

// CustomerResponse buyer output.
type CustomerResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
