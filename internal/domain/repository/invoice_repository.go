package repository

import (
	"context"

	"github.com/mmahdy/jofotara-api/internal/domain/entity"
)

// InvoiceRepository persists invoice headers, lines and the JoFotara fields
// written back by the integration.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice, lines []*entity.InvoiceLine) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error)

	// UpdateGeneration persists the fields produced by XML generation
	// (type code/label, artifact path, digest, generated flag).
	UpdateGeneration(ctx context.Context, invoice *entity.Invoice) error
	// UpdateSubmission persists the outcome of a submission attempt
	// (status, time, response, QR payload, remote uuid).
	UpdateSubmission(ctx context.Context, invoice *entity.Invoice) error
}
