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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository (usable with pool or tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the adapter. Pass a pool or a tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persists the invoice header and its lines.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice, lines []*entity.InvoiceLine) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if invoice.SubmissionStatus == "" {
		invoice.SubmissionStatus = entity.SubmissionStatusNone
	}
	query := `
		INSERT INTO invoices (id, company_id, customer_id, number, issue_date, currency,
		                      net_total, tax_total, grand_total, rounded_total,
		                      is_return, taxes_template, submission_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CompanyID, invoice.CustomerID, invoice.Number,
		invoice.IssueDate, invoice.Currency,
		invoice.NetTotal, invoice.TaxTotal, invoice.GrandTotal, invoice.RoundedTotal,
		invoice.IsReturn, nullIfEmpty(invoice.TaxesTemplate), invoice.SubmissionStatus,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	for i, line := range lines {
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.InvoiceID = invoice.ID
		// The caller's sequence is the invoice's line order; ids are random
		// UUIDs, so the position has to be stored explicitly.
		line.LineNumber = i + 1
		lineQuery := `
			INSERT INTO invoice_lines (id, invoice_id, line_number, item_name, quantity, rate, amount, item_tax_template)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := r.q.Exec(ctx, lineQuery,
			line.ID, line.InvoiceID, line.LineNumber, line.ItemName, line.Quantity, line.Rate,
			line.Amount, nullIfEmpty(line.ItemTaxTemplate),
		)
		if err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return nil
}

// GetByID fetches the full invoice header.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `
		SELECT id, company_id, customer_id, number, issue_date, currency,
		       net_total, tax_total, grand_total, rounded_total,
		       is_return, COALESCE(taxes_template, ''),
		       COALESCE(type_code, ''), COALESCE(type_label, ''),
		       xml_generated, COALESCE(xml_path, ''), COALESCE(xml_digest, ''),
		       submission_status, submission_time,
		       COALESCE(submission_response, ''), COALESCE(qr_code, ''), COALESCE(remote_uuid, ''),
		       created_at, updated_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.Number, &inv.IssueDate, &inv.Currency,
		&inv.NetTotal, &inv.TaxTotal, &inv.GrandTotal, &inv.RoundedTotal,
		&inv.IsReturn, &inv.TaxesTemplate,
		&inv.TypeCode, &inv.TypeLabel,
		&inv.XMLGenerated, &inv.XMLPath, &inv.XMLDigest,
		&inv.SubmissionStatus, &inv.SubmissionTime,
		&inv.SubmissionResponse, &inv.QRCode, &inv.RemoteUUID,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// GetLines fetches all lines of an invoice in their recorded order.
func (r *InvoiceRepo) GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, line_number, item_name, quantity, rate, amount, COALESCE(item_tax_template, '')
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY line_number`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.LineNumber, &l.ItemName, &l.Quantity, &l.Rate, &l.Amount, &l.ItemTaxTemplate); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ListByCompany returns the invoice headers of a company, newest first.
func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, company_id, customer_id, number, issue_date, currency,
		       net_total, tax_total, grand_total, rounded_total,
		       is_return, COALESCE(type_code, ''), COALESCE(type_label, ''),
		       xml_generated, submission_status, COALESCE(remote_uuid, ''),
		       created_at, updated_at
		FROM invoices WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.Number, &inv.IssueDate, &inv.Currency,
			&inv.NetTotal, &inv.TaxTotal, &inv.GrandTotal, &inv.RoundedTotal,
			&inv.IsReturn, &inv.TypeCode, &inv.TypeLabel,
			&inv.XMLGenerated, &inv.SubmissionStatus, &inv.RemoteUUID,
			&inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// UpdateGeneration persists the fields produced by XML generation.
func (r *InvoiceRepo) UpdateGeneration(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET type_code         = $2,
		    type_label        = $3,
		    xml_generated     = $4,
		    xml_path          = $5,
		    xml_digest        = $6,
		    submission_status = $7,
		    updated_at        = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		invoice.ID,
		invoice.TypeCode, invoice.TypeLabel,
		invoice.XMLGenerated, nullIfEmpty(invoice.XMLPath), nullIfEmpty(invoice.XMLDigest),
		invoice.SubmissionStatus, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice generation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateSubmission persists the outcome of a submission attempt.
func (r *InvoiceRepo) UpdateSubmission(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET submission_status   = $2,
		    submission_time     = $3,
		    submission_response = $4,
		    qr_code             = COALESCE($5, qr_code),
		    remote_uuid         = COALESCE($6, remote_uuid),
		    updated_at          = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		invoice.ID,
		invoice.SubmissionStatus, invoice.SubmissionTime, invoice.SubmissionResponse,
		nullIfEmpty(invoice.QRCode), nullIfEmpty(invoice.RemoteUUID),
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
