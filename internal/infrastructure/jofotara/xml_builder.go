package jofotara

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmahdy/jofotara-api/internal/domain/entity"
	domjofotara "github.com/mmahdy/jofotara-api/internal/domain/jofotara"
	"github.com/mmahdy/jofotara-api/pkg/jo"
)

// UBL 2.1 namespaces used by JoFotara documents.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NsExt     = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"

	// profileID is the fixed cbc:ProfileID required by the portal.
	profileID = "reporting:1.0"
)

// SchemaProfile selects the document shape submitted to the validator. The
// portal historically accepted more than one shape, so the shape is a
// strategy, not a hard-coded constant.
type SchemaProfile string

const (
	// ProfileReporting is the lean shape: header, parties, monetary summary,
	// lines. No tax totals, no supplier address block.
	ProfileReporting SchemaProfile = "reporting"
	// ProfileExtended adds the supplier postal address, the activity number,
	// document and per-line tax totals, and the allowance total.
	ProfileExtended SchemaProfile = "extended"
)

// ParseProfile maps a config string to a profile, defaulting to extended.
func ParseProfile(s string) SchemaProfile {
	if s == string(ProfileReporting) {
		return ProfileReporting
	}
	return ProfileExtended
}

// BuilderService assembles the UBL 2.1 invoice document. Pure and
// deterministic for identical inputs, except for the correlation UUID
// generated per call.
type BuilderService struct {
	profile SchemaProfile
}

// NewBuilderService builds the service for the given schema profile.
func NewBuilderService(profile SchemaProfile) *BuilderService {
	if profile == "" {
		profile = ProfileExtended
	}
	return &BuilderService{profile: profile}
}

// Build generates the invoice document from fully resolved records. Fails fast
// with *BuildError on insufficient input; the returned XML always re-parses as
// well-formed.
func (s *BuilderService) Build(ctx *InvoiceBuildContext) (*BuildResult, error) {
	if ctx == nil || ctx.Invoice == nil || ctx.Company == nil || ctx.Customer == nil {
		return nil, &BuildError{Reason: "invoice, company and customer are required"}
	}
	inv := ctx.Invoice
	if inv.Number == "" {
		return nil, &BuildError{Reason: "invoice id is required"}
	}
	if inv.Currency == "" {
		return nil, &BuildError{Reason: "currency code is required"}
	}

	class := domjofotara.Classify(inv, ctx.Lines, ctx.Company)
	correlationID := uuid.New().String()

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)
	if s.profile == ProfileExtended {
		root.CreateAttr("xmlns:ext", NsExt)
	}

	root.CreateElement("cbc:ProfileID").SetText(profileID)
	root.CreateElement("cbc:ID").SetText(inv.Number)
	root.CreateElement("cbc:UUID").SetText(correlationID)
	root.CreateElement("cbc:IssueDate").SetText(inv.IssueDate.Format("2006-01-02"))

	typeCode := root.CreateElement("cbc:InvoiceTypeCode")
	typeCode.CreateAttr("name", class.NameAttr)
	typeCode.SetText(class.TypeCode)

	root.CreateElement("cbc:DocumentCurrencyCode").SetText(inv.Currency)

	s.writeSupplierParty(root, ctx)
	s.writeCustomerParty(root, ctx)

	taxExclusive := sumLineAmounts(ctx.Lines)
	if s.profile == ProfileExtended && inv.TaxTotal.IsPositive() {
		s.writeTaxTotal(root, ctx, taxExclusive)
	}
	s.writeMonetaryTotal(root, ctx, taxExclusive)

	for i, line := range ctx.Lines {
		s.writeInvoiceLine(root, ctx, i+1, line)
	}

	doc.Indent(2)
	xmlStr, err := doc.WriteToString()
	if err != nil {
		return nil, &BuildError{Reason: "serialize document: " + err.Error()}
	}

	return &BuildResult{
		XML:       xmlStr,
		TypeCode:  class.TypeCode,
		TypeLabel: class.TypeLabel,
		UUID:      correlationID,
	}, nil
}

// writeSupplierParty emits cac:AccountingSupplierParty. The supplier tax id is
// digits-only and falls back to the "NA" placeholder when absent — the
// validator rejects a missing supplier CompanyID outright.
func (s *BuilderService) writeSupplierParty(root *etree.Element, ctx *InvoiceBuildContext) {
	company := ctx.Company
	party := root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")

	if s.profile == ProfileExtended {
		party.CreateElement("cac:PartyName").CreateElement("cbc:Name").SetText(company.Name)
	}

	address := party.CreateElement("cac:PostalAddress")
	if s.profile == ProfileExtended {
		address.CreateElement("cbc:StreetName").SetText(orPlaceholder(company.Address, "N/A"))
		address.CreateElement("cbc:CityName").SetText(orPlaceholder(company.City, "N/A"))
		address.CreateElement("cbc:PostalZone").SetText(orPlaceholder(company.PostalZone, "00000"))
	}
	country := orPlaceholder(company.Country, jo.CountryJordan)
	address.CreateElement("cac:Country").CreateElement("cbc:IdentificationCode").SetText(country)

	taxID := jo.SanitizeTaxID(company.TaxID)
	if taxID == "" {
		taxID = jo.TaxIDPlaceholder
	}
	taxScheme := party.CreateElement("cac:PartyTaxScheme")
	taxScheme.CreateElement("cbc:CompanyID").SetText(taxID)
	taxScheme.CreateElement("cac:TaxScheme").CreateElement("cbc:ID").SetText("VAT")

	legal := party.CreateElement("cac:PartyLegalEntity")
	legal.CreateElement("cbc:RegistrationName").SetText(company.Name)

	if s.profile == ProfileExtended {
		if activity := jo.SanitizeTaxID(company.ActivityNumber); activity != "" {
			companyID := legal.CreateElement("cbc:CompanyID")
			companyID.CreateAttr("schemeID", "ACTIVITY")
			companyID.CreateAttr("schemeAgencyID", jo.CountryJordan)
			companyID.SetText(activity)
		}
	}
}

// writeCustomerParty emits cac:AccountingCustomerParty. Tax scheme and phone
// are optional sub-elements: omitted entirely when absent, never emitted
// empty.
func (s *BuilderService) writeCustomerParty(root *etree.Element, ctx *InvoiceBuildContext) {
	customer := ctx.Customer
	party := root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")

	party.CreateElement("cac:PartyLegalEntity").CreateElement("cbc:RegistrationName").SetText(customer.Name)

	if taxID := jo.SanitizeTaxID(customer.TaxID); taxID != "" {
		taxScheme := party.CreateElement("cac:PartyTaxScheme")
		taxScheme.CreateElement("cbc:CompanyID").SetText(taxID)
		taxScheme.CreateElement("cac:TaxScheme").CreateElement("cbc:ID").SetText("VAT")
	}

	if customer.Phone != "" {
		party.CreateElement("cac:Contact").CreateElement("cbc:Telephone").SetText(customer.Phone)
	}
}

func (s *BuilderService) writeTaxTotal(root *etree.Element, ctx *InvoiceBuildContext, taxExclusive decimal.Decimal) {
	inv := ctx.Invoice
	taxTotal := root.CreateElement("cac:TaxTotal")
	amountElem(taxTotal, "cbc:TaxAmount", inv.TaxTotal, inv.Currency)

	subtotal := taxTotal.CreateElement("cac:TaxSubtotal")
	amountElem(subtotal, "cbc:TaxableAmount", taxExclusive, inv.Currency)
	amountElem(subtotal, "cbc:TaxAmount", inv.TaxTotal, inv.Currency)

	category := subtotal.CreateElement("cac:TaxCategory")
	category.CreateElement("cbc:ID").SetText("S")
	category.CreateElement("cbc:Percent").SetText(jo.StandardVATPct)
	category.CreateElement("cac:TaxScheme").CreateElement("cbc:ID").SetText("VAT")
}

// writeMonetaryTotal emits cac:LegalMonetaryTotal. TaxExclusiveAmount is the
// sum of line extended amounts; TaxInclusiveAmount is the grand total as
// supplied by the caller, not recomputed.
func (s *BuilderService) writeMonetaryTotal(root *etree.Element, ctx *InvoiceBuildContext, taxExclusive decimal.Decimal) {
	inv := ctx.Invoice
	total := root.CreateElement("cac:LegalMonetaryTotal")

	if s.profile == ProfileExtended {
		amountElem(total, "cbc:LineExtensionAmount", taxExclusive, inv.Currency)
	}
	amountElem(total, "cbc:TaxExclusiveAmount", taxExclusive, inv.Currency)
	amountElem(total, "cbc:TaxInclusiveAmount", inv.GrandTotal, inv.Currency)
	if s.profile == ProfileExtended {
		amountElem(total, "cbc:AllowanceTotalAmount", decimal.Zero, inv.Currency)
	}

	payable := inv.RoundedTotal
	if payable.IsZero() && !inv.GrandTotal.IsZero() {
		payable = inv.GrandTotal
	}
	amountElem(total, "cbc:PayableAmount", payable, inv.Currency)
}

func (s *BuilderService) writeInvoiceLine(root *etree.Element, ctx *InvoiceBuildContext, lineNum int, line *entity.InvoiceLine) {
	inv := ctx.Invoice
	lineElem := root.CreateElement("cac:InvoiceLine")

	// Sequential 1-based id from position, never from an external key.
	lineElem.CreateElement("cbc:ID").SetText(strconv.Itoa(lineNum))

	qty := lineElem.CreateElement("cbc:InvoicedQuantity")
	qty.CreateAttr("unitCode", jo.UnitPiece)
	qty.SetText(formatAmount(line.Quantity))

	amountElem(lineElem, "cbc:LineExtensionAmount", line.Amount, inv.Currency)

	if s.profile == ProfileExtended && inv.TaxTotal.IsPositive() {
		s.writeLineTaxTotal(lineElem, ctx, line)
	}

	item := lineElem.CreateElement("cac:Item")
	item.CreateElement("cbc:Name").SetText(line.ItemName)
	if s.profile == ProfileExtended && inv.TaxTotal.IsPositive() {
		category := item.CreateElement("cac:ClassifiedTaxCategory")
		category.CreateElement("cbc:ID").SetText("S")
		category.CreateElement("cbc:Percent").SetText(jo.StandardVATPct)
		category.CreateElement("cac:TaxScheme").CreateElement("cbc:ID").SetText("VAT")
	}

	amountElem(lineElem.CreateElement("cac:Price"), "cbc:PriceAmount", line.Rate, inv.Currency)
}

// writeLineTaxTotal apportions the document tax to the line by its share of
// the tax-exclusive total.
func (s *BuilderService) writeLineTaxTotal(lineElem *etree.Element, ctx *InvoiceBuildContext, line *entity.InvoiceLine) {
	inv := ctx.Invoice
	taxExclusive := sumLineAmounts(ctx.Lines)

	lineTax := decimal.Zero
	if taxExclusive.IsPositive() {
		lineTax = line.Amount.Mul(inv.TaxTotal).Div(taxExclusive)
	}

	taxTotal := lineElem.CreateElement("cac:TaxTotal")
	amountElem(taxTotal, "cbc:TaxAmount", lineTax, inv.Currency)

	subtotal := taxTotal.CreateElement("cac:TaxSubtotal")
	amountElem(subtotal, "cbc:TaxableAmount", line.Amount, inv.Currency)
	amountElem(subtotal, "cbc:TaxAmount", lineTax, inv.Currency)

	category := subtotal.CreateElement("cac:TaxCategory")
	category.CreateElement("cbc:ID").SetText("S")
	category.CreateElement("cbc:Percent").SetText(jo.StandardVATPct)
	category.CreateElement("cac:TaxScheme").CreateElement("cbc:ID").SetText("VAT")
}

// ── helpers ──────────────────────────────────────────────────────────────────

// amountElem writes a currency-tagged monetary element with fixed two-decimal
// formatting, the canonical policy for every amount in the document.
func amountElem(parent *etree.Element, name string, value decimal.Decimal, currency string) {
	e := parent.CreateElement(name)
	e.CreateAttr("currencyID", currency)
	e.SetText(formatAmount(value))
}

func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

func sumLineAmounts(lines []*entity.InvoiceLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount)
	}
	return total
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
