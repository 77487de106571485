// Package jofotara implements the JoFotara integration boundary: UBL 2.1
// document assembly and synchronous submission to the ISTD portal.
package jofotara

import (
	"time"

	"github.com/mmahdy/jofotara-api/internal/domain/entity"
)

// InvoiceBuildContext carries every record the builder needs, fully resolved
// by the caller. The builder performs no lookups of its own.
type InvoiceBuildContext struct {
	Invoice  *entity.Invoice
	Company  *entity.Company  // issuer (AccountingSupplierParty)
	Customer *entity.Customer // buyer (AccountingCustomerParty)
	Lines    []*entity.InvoiceLine
}

// BuildResult is the generated document plus its derived metadata. Created per
// generation call, never mutated; a regeneration supersedes it with a fresh
// value (and a fresh correlation UUID).
type BuildResult struct {
	XML       string
	TypeCode  string // "388" | "381"
	TypeLabel string // classification label, written back by the caller
	UUID      string // correlation id embedded in cbc:UUID
}

// Credentials are company-scoped, resolved and decrypted by the caller; the
// client treats them as opaque strings.
type Credentials struct {
	Endpoint  string
	Mode      string // entity.AuthModeToken | entity.AuthModeClientSecret
	Token     string // token mode
	ClientID  string // client_secret mode
	SecretKey string // client_secret mode
}

// SubmitResult is the normalized outcome of one submission attempt. It is
// always returned — transport failures, rejections and configuration problems
// are carried in Err, never raised past the client boundary.
type SubmitResult struct {
	Status      string // "success" | "error"
	HTTPStatus  int    // zero when the call never happened
	Response    string // raw response body (bounded), preserved for display
	QRCode      string // EINV_QR payload on acceptance
	RemoteUUID  string // EINV_INV_UUID assigned by the portal
	Diagnostics []Diagnostic
	Err         error // nil on success; *ConfigError, *TransportError or *RejectedError otherwise
	SubmittedAt time.Time
}
