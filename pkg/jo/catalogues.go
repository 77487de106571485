// Package jo contains catalogues and constants aligned to the JoFotara
// e-invoicing technical specification (ISTD, Jordan) for UBL 2.1 documents.
package jo

// =============================================================================
// Invoice type codes (UNCL1001 subset accepted by the JoFotara validator)
// The code carries the credit/debit nature; the classification attribute
// ("name" on cbc:InvoiceTypeCode) is always "012" for national invoices.
// =============================================================================

const (
	InvoiceTypeSales  = "388" // Commercial invoice
	InvoiceTypeCredit = "381" // Credit note (return / reversal of a prior sale)

	// InvoiceTypeNameAttr is the fixed value of the "name" attribute on
	// cbc:InvoiceTypeCode required by the JoFotara schema.
	InvoiceTypeNameAttr = "012"
)

// Invoice type labels as displayed on the accounting record. The label is a
// derived side-output of classification; only the label varies with the
// registration / special-sales dimension, never the 381/388 code.
const (
	LabelIncomeInvoice       = "Income Invoice"
	LabelCreditIncomeInvoice = "Credit Invoice for Income Tax"
	LabelGeneralSalesInvoice = "General Sales Invoice"
	LabelCreditGeneralSales  = "Credit Invoice for General Sales"
	LabelSpecialSalesInvoice = "Special Sales Invoice"
	LabelCreditSpecialSales  = "Credit Invoice for Special Sales"
)

// SpecialSalesKeywords mark a tax-scheme reference as special sales when any
// of them appears (case-insensitively, NFKC-normalized) in its name. The two
// Arabic spellings (ta marbuta / ha) both occur in real templates.
var SpecialSalesKeywords = []string{"special", "خاصة", "خاصه"}

// =============================================================================
// Units of measure (@unitCode on cbc:InvoicedQuantity)
// =============================================================================

const (
	UnitPiece = "PCE" // Default unit for invoice lines
)

// =============================================================================
// Country / currency defaults
// =============================================================================

const (
	CountryJordan  = "JO"
	CurrencyDinar  = "JOD"
	StandardVATPct = "16.00" // General sales tax rate used in line tax categories
)

// TaxIDMaxDigits is the longest tax / activity identifier the validator
// accepts; longer digit runs are truncated before emission.
const TaxIDMaxDigits = 15

// TaxIDPlaceholder is emitted for the supplier when no tax id is configured.
// The validator rejects an omitted supplier CompanyID but tolerates "NA".
const TaxIDPlaceholder = "NA"
