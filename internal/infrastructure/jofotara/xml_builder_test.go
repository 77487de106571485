package jofotara_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmahdy/jofotara-api/internal/domain/entity"
	"github.com/mmahdy/jofotara-api/internal/infrastructure/jofotara"
)

// ──────────────────────────────────────────────────────────────────────────────
// Test fixtures
// ──────────────────────────────────────────────────────────────────────────────

func testContext() *jofotara.InvoiceBuildContext {
	return &jofotara.InvoiceBuildContext{
		Invoice: &entity.Invoice{
			ID:           "inv-uuid-1",
			Number:       "INV-1001",
			IssueDate:    time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
			Currency:     "JOD",
			NetTotal:     decimal.NewFromFloat(20.00),
			GrandTotal:   decimal.NewFromFloat(20.00),
			RoundedTotal: decimal.NewFromFloat(20.00),
		},
		Company: &entity.Company{
			Name:               "Petra Trading Co",
			TaxID:              "12345678",
			ActivityNumber:     "9876543210",
			SalesTaxRegistered: true,
		},
		Customer: &entity.Customer{Name: "Ahmad Khalil", TaxID: "87654321", Phone: "+962790000000"},
		Lines: []*entity.InvoiceLine{
			{ItemName: "Widget A", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromFloat(10.00), Amount: decimal.NewFromFloat(10.00)},
			{ItemName: "Widget B", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromFloat(5.00), Amount: decimal.NewFromFloat(10.00)},
		},
	}
}

// parse re-reads the generated document; failing to parse is itself a test
// failure since the builder must never emit malformed XML.
func parse(t *testing.T, xmlStr string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xmlStr), "generated XML must be well-formed")
	root := doc.Root()
	require.NotNil(t, root)
	return root
}

func text(root *etree.Element, path string) string {
	if e := root.FindElement(path); e != nil {
		return e.Text()
	}
	return ""
}

// ──────────────────────────────────────────────────────────────────────────────
// Scenario from the field: INV-1001, 2 lines, registered company, no special
// keyword -> 388 / General Sales Invoice / tax-exclusive 20.00.
// ──────────────────────────────────────────────────────────────────────────────

func TestBuild_GeneralSalesScenario(t *testing.T) {
	builder := jofotara.NewBuilderService(jofotara.ProfileExtended)

	res, err := builder.Build(testContext())
	require.NoError(t, err)

	assert.Equal(t, "388", res.TypeCode)
	assert.Equal(t, "General Sales Invoice", res.TypeLabel)
	assert.NotEmpty(t, res.UUID)

	root := parse(t, res.XML)
	assert.Equal(t, "INV-1001", text(root, "./cbc:ID"))
	assert.Equal(t, "JOD", text(root, "./cbc:DocumentCurrencyCode"))
	assert.Equal(t, "2025-06-15", text(root, "./cbc:IssueDate"), "issue date carries no time component")
	assert.Equal(t, "20.00", text(root, "./cac:LegalMonetaryTotal/cbc:TaxExclusiveAmount"))
	assert.Equal(t, "20.00", text(root, "./cac:LegalMonetaryTotal/cbc:TaxInclusiveAmount"))
	assert.Equal(t, "20.00", text(root, "./cac:LegalMonetaryTotal/cbc:PayableAmount"))

	typeCode := root.FindElement("./cbc:InvoiceTypeCode")
	require.NotNil(t, typeCode)
	assert.Equal(t, "388", typeCode.Text())
	assert.Equal(t, "012", typeCode.SelectAttrValue("name", ""))

	assert.Equal(t, res.UUID, text(root, "./cbc:UUID"))
}

func TestBuild_QuantitiesUseFixedTwoDecimals(t *testing.T) {
	builder := jofotara.NewBuilderService(jofotara.ProfileExtended)
	ctx := testContext()
	ctx.Lines[0].Quantity = decimal.NewFromFloat(1.5)

	res, err := builder.Build(ctx)
	require.NoError(t, err)

	root := parse(t, res.XML)
	lines := root.FindElements("./cac:InvoiceLine")
	require.Len(t, lines, 2)
	assert.Equal(t, "1.50", text(lines[0], "./cbc:InvoicedQuantity"))
	assert.Equal(t, "2.00", text(lines[1], "./cbc:InvoicedQuantity"))
}

func TestBuild_LineNumberingIsPositional(t *testing.T) {
	builder := jofotara.NewBuilderService(jofotara.ProfileReporting)
	ctx := testContext()
	ctx.Lines = nil
	for i := 0; i < 5; i++ {
		ctx.Lines = append(ctx.Lines, &entity.InvoiceLine{
			ID:       "external-key-" + strconv.Itoa(90-i), // descending external ids must not matter
			ItemName: "Item " + strconv.Itoa(i),
			Quantity: decimal.NewFromInt(1),
			Rate:     decimal.NewFromFloat(1.5),
			Amount:   decimal.NewFromFloat(1.5),
		})
	}

	res, err := builder.Build(ctx)
	require.NoError(t, err)

	root := parse(t, res.XML)
	lines := root.FindElements("./cac:InvoiceLine")
	require.Len(t, lines, 5)
	for i, line := range lines {
		idElem := line.FindElement("./cbc:ID")
		require.NotNil(t, idElem)
		assert.Equal(t, strconv.Itoa(i+1), idElem.Text())
	}
}

func TestBuild_TaxExclusiveEqualsLineSum(t *testing.T) {
	builder := jofotara.NewBuilderService(jofotara.ProfileExtended)
	ctx := testContext()
	ctx.Lines = []*entity.InvoiceLine{
		{ItemName: "A", Quantity: decimal.NewFromInt(3), Rate: decimal.NewFromFloat(3.333), Amount: decimal.NewFromFloat(9.999)},
		{ItemName: "B", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromFloat(0.001), Amount: decimal.NewFromFloat(0.001)},
	}

	res, err := builder.Build(ctx)
	require.NoError(t, err)

	root := parse(t, res.XML)
	assert.Equal(t, "10.00", text(root, "./cac:LegalMonetaryTotal/cbc:TaxExclusiveAmount"),
		"tax-exclusive amount is the 2dp sum of line extended amounts")
}

func TestBuild_SupplierTaxIDSanitized(t *testing.T) {
	builder := jofotara.NewBuilderService(jofotara.ProfileExtended)
	ctx := testContext()
	ctx.Company.TaxID = "JO-12-345"

	res, err := builder.Build(ctx)
	require.NoError(t, err)

	root := parse(t, res.XML)
	got := text(root, "./cac:AccountingSupplierParty/cac:Party/cac:PartyTaxScheme/cbc:CompanyID")
	assert.Equal(t, "12345", got)
}

func TestBuild_SupplierTaxIDPlaceholderWhenMissing(t *testing.T) {
	builder := jofotara.NewBuilderService(jofotara.ProfileReporting)
	ctx := testContext()
	ctx.Company.TaxID = ""

	res, err := builder.Build(ctx)
	require.NoError(t, err)

	root := parse(t, res.XML)
	got := text(root, "./cac:AccountingSupplierParty/cac:Party/cac:PartyTaxScheme/cbc:CompanyID")
	assert.Equal(t, "NA", got, "missing supplier tax id falls back to the placeholder, not omission")
}

func TestBuild_CustomerOptionalElementsOmitted(t *testing.T) {
	builder := jofotara.NewBuilderService(jofotara.ProfileExtended)
	ctx := testContext()
	ctx.Customer = &entity.Customer{Name: "Walk-in Customer"} // no tax id, no phone

	res, err := builder.Build(ctx)
	require.NoError(t, err)

	root := parse(t, res.XML)
	party := root.FindElement("./cac:AccountingCustomerParty/cac:Party")
	require.NotNil(t, party)
	assert.Nil(t, party.FindElement("./cac:PartyTaxScheme"), "no empty tax scheme for customers without tax id")
	assert.Nil(t, party.FindElement("./cac:Contact"), "no empty contact block without a phone")
	assert.Equal(t, "Walk-in Customer", text(party, "./cac:PartyLegalEntity/cbc:RegistrationName"))
}

func TestBuild_ZeroLines(t *testing.T) {
	builder := jofotara.NewBuilderService(jofotara.ProfileExtended)
	ctx := testContext()
	ctx.Lines = nil
	ctx.Invoice.GrandTotal = decimal.Zero
	ctx.Invoice.RoundedTotal = decimal.Zero

	res, err := builder.Build(ctx)
	require.NoError(t, err)

	root := parse(t, res.XML)
	assert.Empty(t, root.FindElements("./cac:InvoiceLine"))
	assert.Equal(t, "0.00", text(root, "./cac:LegalMonetaryTotal/cbc:TaxExclusiveAmount"))
	assert.Equal(t, "0.00", text(root, "./cac:LegalMonetaryTotal/cbc:PayableAmount"))
}

func TestBuild_TaxTotalsOnlyWhenTaxed(t *testing.T) {
	ctx := testContext()
	builder := jofotara.NewBuilderService(jofotara.ProfileExtended)

	res, err := builder.Build(ctx)
	require.NoError(t, err)
	assert.Nil(t, parse(t, res.XML).FindElement("./cac:TaxTotal"), "untaxed invoice emits no TaxTotal")

	ctx.Invoice.TaxTotal = decimal.NewFromFloat(3.20)
	ctx.Invoice.GrandTotal = decimal.NewFromFloat(23.20)
	res, err = builder.Build(ctx)
	require.NoError(t, err)

	root := parse(t, res.XML)
	require.NotNil(t, root.FindElement("./cac:TaxTotal"))
	assert.Equal(t, "3.20", text(root, "./cac:TaxTotal/cbc:TaxAmount"))
	assert.Equal(t, "20.00", text(root, "./cac:TaxTotal/cac:TaxSubtotal/cbc:TaxableAmount"))
}

func TestBuild_ReportingProfileIsLean(t *testing.T) {
	ctx := testContext()
	ctx.Invoice.TaxTotal = decimal.NewFromFloat(3.20)
	builder := jofotara.NewBuilderService(jofotara.ProfileReporting)

	res, err := builder.Build(ctx)
	require.NoError(t, err)

	root := parse(t, res.XML)
	assert.Nil(t, root.FindElement("./cac:TaxTotal"), "reporting profile never emits tax totals")
	assert.Nil(t, root.FindElement("./cac:LegalMonetaryTotal/cbc:AllowanceTotalAmount"))
	supplier := root.FindElement("./cac:AccountingSupplierParty/cac:Party")
	require.NotNil(t, supplier)
	assert.Nil(t, supplier.FindElement("./cac:PostalAddress/cbc:StreetName"))
	// Country stays in both profiles, defaulted to JO when absent.
	assert.Equal(t, "JO", text(supplier, "./cac:PostalAddress/cac:Country/cbc:IdentificationCode"))
}

func TestBuild_FailFast(t *testing.T) {
	builder := jofotara.NewBuilderService(jofotara.ProfileExtended)

	t.Run("nil context", func(t *testing.T) {
		_, err := builder.Build(nil)
		var buildErr *jofotara.BuildError
		require.ErrorAs(t, err, &buildErr)
	})

	t.Run("missing currency", func(t *testing.T) {
		ctx := testContext()
		ctx.Invoice.Currency = ""
		_, err := builder.Build(ctx)
		var buildErr *jofotara.BuildError
		require.ErrorAs(t, err, &buildErr)
	})

	t.Run("missing company", func(t *testing.T) {
		ctx := testContext()
		ctx.Company = nil
		_, err := builder.Build(ctx)
		var buildErr *jofotara.BuildError
		require.ErrorAs(t, err, &buildErr)
	})

	t.Run("missing invoice id", func(t *testing.T) {
		ctx := testContext()
		ctx.Invoice.Number = ""
		_, err := builder.Build(ctx)
		var buildErr *jofotara.BuildError
		require.ErrorAs(t, err, &buildErr)
	})
}

// Round-trip: re-parsing the document yields back the id, currency and line
// count that went in.
func TestBuild_RoundTrip(t *testing.T) {
	builder := jofotara.NewBuilderService(jofotara.ProfileExtended)
	ctx := testContext()

	res, err := builder.Build(ctx)
	require.NoError(t, err)

	root := parse(t, res.XML)
	assert.Equal(t, ctx.Invoice.Number, text(root, "./cbc:ID"))
	assert.Equal(t, ctx.Invoice.Currency, text(root, "./cbc:DocumentCurrencyCode"))
	assert.Len(t, root.FindElements("./cac:InvoiceLine"), len(ctx.Lines))
}

// Two generations of the same invoice differ only in the correlation UUID.
func TestBuild_FreshCorrelationIDPerCall(t *testing.T) {
	builder := jofotara.NewBuilderService(jofotara.ProfileExtended)
	ctx := testContext()

	first, err := builder.Build(ctx)
	require.NoError(t, err)
	second, err := builder.Build(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.UUID, second.UUID)
	assert.Equal(t, first.TypeCode, second.TypeCode)
	assert.Equal(t, first.TypeLabel, second.TypeLabel)
}

func TestBuild_CreditInvoiceTypeCode(t *testing.T) {
	builder := jofotara.NewBuilderService(jofotara.ProfileExtended)
	ctx := testContext()
	ctx.Invoice.IsReturn = true

	res, err := builder.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, "381", res.TypeCode)
	assert.Equal(t, "Credit Invoice for General Sales", res.TypeLabel)
	assert.Equal(t, "381", text(parse(t, res.XML), "./cbc:InvoiceTypeCode"))
}
