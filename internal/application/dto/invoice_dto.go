package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceLineRequest one invoice position. Amount is the extended line
// amount as computed by the caller.
type CreateInvoiceLineRequest struct {
	ItemName        string          `json:"item_name" validate:"required,min=1,max=300"`
	Quantity        decimal.Decimal `json:"quantity" validate:"required"`
	Rate            decimal.Decimal `json:"rate" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	ItemTaxTemplate string          `json:"item_tax_template" validate:"omitempty,max=200"`
}

// CreateInvoiceRequest input for recording an invoice.
type CreateInvoiceRequest struct {
	CustomerID    string                     `json:"customer_id" validate:"required,uuid"`
	Number        string                     `json:"number" validate:"required,min=1,max=50"`
	IssueDate     time.Time                  `json:"issue_date" validate:"required"`
	Currency      string                     `json:"currency" validate:"required,len=3"`
	NetTotal      decimal.Decimal            `json:"net_total"`
	TaxTotal      decimal.Decimal            `json:"tax_total"`
	GrandTotal    decimal.Decimal            `json:"grand_total" validate:"required"`
	RoundedTotal  decimal.Decimal            `json:"rounded_total"`
	IsReturn      bool                       `json:"is_return"`
	TaxesTemplate string                     `json:"taxes_template" validate:"omitempty,max=200"`
	Lines         []CreateInvoiceLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// InvoiceLineResponse one line of an invoice.
type InvoiceLineResponse struct {
	ID              string          `json:"id"`
	ItemName        string          `json:"item_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	Rate            decimal.Decimal `json:"rate"`
	Amount          decimal.Decimal `json:"amount"`
	ItemTaxTemplate string          `json:"item_tax_template,omitempty"`
}

// InvoiceResponse invoice header output including the JoFotara fields.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	CustomerID    string          `json:"customer_id"`
	Number        string          `json:"number"`
	IssueDate     time.Time       `json:"issue_date"`
	Currency      string          `json:"currency"`
	NetTotal      decimal.Decimal `json:"net_total"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	RoundedTotal  decimal.Decimal `json:"rounded_total"`
	IsReturn      bool            `json:"is_return"`
	TaxesTemplate string          `json:"taxes_template,omitempty"`

	TypeCode     string `json:"type_code,omitempty"`
	TypeLabel    string `json:"type_label,omitempty"`
	XMLGenerated bool   `json:"xml_generated"`
	XMLDigest    string `json:"xml_digest,omitempty"`

	SubmissionStatus string     `json:"submission_status"`
	SubmissionTime   *time.Time `json:"submission_time,omitempty"`
	QRCode           string     `json:"qr_code,omitempty"`
	RemoteUUID       string     `json:"remote_uuid,omitempty"`

	Lines []InvoiceLineResponse `json:"lines,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GenerateXMLResponse outcome of XML generation.
type GenerateXMLResponse struct {
	InvoiceID string `json:"invoice_id"`
	TypeCode  string `json:"type_code"`
	TypeLabel string `json:"type_label"`
	XMLPath   string `json:"xml_path"`
	XMLDigest string `json:"xml_digest"`
}

// SubmitResponse outcome of one submission attempt as reported to the API
// client. Diagnostics carry the portal's EINV_RESULTS errors verbatim.
type SubmitResponse struct {
	InvoiceID   string               `json:"invoice_id"`
	Status      string               `json:"status"`
	HTTPStatus  int                  `json:"http_status,omitempty"`
	QRCode      string               `json:"qr_code,omitempty"`
	RemoteUUID  string               `json:"remote_uuid,omitempty"`
	Diagnostics []DiagnosticResponse `json:"diagnostics,omitempty"`
	Error       string               `json:"error,omitempty"`
	SubmittedAt time.Time            `json:"submitted_at"`
}

// DiagnosticResponse one portal validation message.
type DiagnosticResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SubmissionStatusResponse light status output for polling.
type SubmissionStatusResponse struct {
	InvoiceID        string     `json:"invoice_id"`
	SubmissionStatus string     `json:"submission_status"`
	SubmissionTime   *time.Time `json:"submission_time,omitempty"`
	RemoteUUID       string     `json:"remote_uuid,omitempty"`
	QRCode           string     `json:"qr_code,omitempty"`
}
