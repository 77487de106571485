// Package jofotara holds the pure domain rules of the JoFotara integration:
// invoice-type classification and related helpers. No I/O, no lookups — the
// caller hands in fully resolved records so everything here is testable
// offline.
package jofotara

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mmahdy/jofotara-api/internal/domain/entity"
	"github.com/mmahdy/jofotara-api/pkg/jo"
)

// Classification is the invoice-type decision: the UNCL1001 code submitted in
// cbc:InvoiceTypeCode and the human label written back onto the invoice.
type Classification struct {
	TypeCode  string // "381" for credit/return invoices, "388" otherwise
	TypeLabel string
	NameAttr  string // fixed "name" attribute value on cbc:InvoiceTypeCode
}

// Classify reproduces the JoFotara invoice-type rules:
//
//	not tax-registered            -> Income family
//	registered + special keyword  -> Special Sales family
//	registered otherwise          -> General Sales family
//
// The 381/388 split depends only on the credit/return flag; the registration
// and special-sales dimensions vary only the label.
func Classify(inv *entity.Invoice, lines []*entity.InvoiceLine, company *entity.Company) Classification {
	code := jo.InvoiceTypeSales
	if inv.IsReturn {
		code = jo.InvoiceTypeCredit
	}

	c := Classification{TypeCode: code, NameAttr: jo.InvoiceTypeNameAttr}

	switch {
	case !company.SalesTaxRegistered:
		if inv.IsReturn {
			c.TypeLabel = jo.LabelCreditIncomeInvoice
		} else {
			c.TypeLabel = jo.LabelIncomeInvoice
		}
	case isSpecialSales(inv, lines):
		if inv.IsReturn {
			c.TypeLabel = jo.LabelCreditSpecialSales
		} else {
			c.TypeLabel = jo.LabelSpecialSalesInvoice
		}
	default:
		if inv.IsReturn {
			c.TypeLabel = jo.LabelCreditGeneralSales
		} else {
			c.TypeLabel = jo.LabelGeneralSalesInvoice
		}
	}
	return c
}

// isSpecialSales reports whether the header tax-scheme reference or any line
// item tax-scheme reference names a special-sales template.
func isSpecialSales(inv *entity.Invoice, lines []*entity.InvoiceLine) bool {
	if containsSpecialKeyword(inv.TaxesTemplate) {
		return true
	}
	for _, line := range lines {
		if containsSpecialKeyword(line.ItemTaxTemplate) {
			return true
		}
	}
	return false
}

// containsSpecialKeyword matches case-insensitively after NFKC normalization,
// so Arabic presentation forms of "خاصة"/"خاصه" compare equal to the plain
// spelling stored in the catalogue.
func containsSpecialKeyword(name string) bool {
	if name == "" {
		return false
	}
	normalized := strings.ToLower(norm.NFKC.String(name))
	for _, kw := range jo.SpecialSalesKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}
