// Package einvoice orchestrates the JoFotara lifecycle of an invoice:
// recording, XML generation, submission and the printable representation.
package einvoice

import (
	"context"

	"github.com/mmahdy/jofotara-api/internal/domain/entity"
	"github.com/mmahdy/jofotara-api/internal/infrastructure/jofotara"
)

// ArtifactStore persists generated XML documents for download and audit.
type ArtifactStore interface {
	Save(invoiceNumber, xmlDoc string) (string, error)
	Load(invoiceNumber string) ([]byte, error)
}

// PDFGenerator renders the printable representation of an invoice.
type PDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, company *entity.Company,
		customer *entity.Customer, lines []*entity.InvoiceLine) ([]byte, error)
}

// SubmitHook runs after a submission outcome has been persisted. Used for
// notifications and audit trails; a hook never influences the outcome.
type SubmitHook func(invoice *entity.Invoice, result *jofotara.SubmitResult)
