package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// JoFotara submission lifecycle states. A status check before submitting is
// the double-submit guard: invoice submission to the fiscal authority is
// at-most-once, a duplicate acceptance is a business problem.
const (
	SubmissionStatusNone    = "NONE"      // never attempted
	SubmissionStatusPending = "PENDING"   // XML generated, awaiting submission
	SubmissionStatusSuccess = "SUCCESS"   // accepted by JoFotara (or simulated in dev mode)
	SubmissionStatusFailed  = "FAILED"    // rejected by the validator
	SubmissionStatusError   = "ERROR"     // transport or configuration failure
)

// Invoice is the header of an accounting invoice plus the JoFotara fields the
// integration writes back after generation and submission.
type Invoice struct {
	ID         string
	CompanyID  string
	CustomerID string
	Number     string // human-readable id, e.g. "INV-1001"; goes into cbc:ID
	IssueDate  time.Time
	Currency   string // ISO 4217, e.g. "JOD"

	NetTotal     decimal.Decimal // sum of line amounts, tax exclusive
	TaxTotal     decimal.Decimal
	GrandTotal   decimal.Decimal // tax inclusive, trusted as given
	RoundedTotal decimal.Decimal // payable amount; equals GrandTotal when no rounding applies

	IsReturn       bool   // credit/return invoice -> type code 381
	TaxesTemplate  string // header-level tax scheme reference (drives special-sales detection)

	// Fields owned by the JoFotara integration
	TypeCode     string // "388" | "381", set on generation
	TypeLabel    string // classification label, set on generation
	XMLGenerated bool
	XMLPath      string // artifact location of the generated document
	XMLDigest    string // SHA-256 of the canonicalized document

	SubmissionStatus   string
	SubmissionTime     *time.Time
	SubmissionResponse string // raw or parsed response detail, preserved verbatim
	QRCode             string // EINV_QR payload returned on acceptance
	RemoteUUID         string // EINV_INV_UUID assigned by the portal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvoiceLine is a single invoice position. Amount is trusted from the caller
// (amount ≈ quantity × rate is the caller's invariant, not enforced here).
type InvoiceLine struct {
	ID              string
	InvoiceID       string
	LineNumber      int // 1-based position within the invoice
	ItemName        string
	Quantity        decimal.Decimal
	Rate            decimal.Decimal // unit price
	Amount          decimal.Decimal // extended line amount, tax exclusive
	ItemTaxTemplate string          // line-level tax scheme reference
}
