package einvoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmahdy/jofotara-api/internal/application/dto"
	"github.com/mmahdy/jofotara-api/internal/domain"
	"github.com/mmahdy/jofotara-api/internal/domain/entity"
	"github.com/mmahdy/jofotara-api/internal/domain/repository"
	"github.com/mmahdy/jofotara-api/internal/infrastructure/jofotara"
	"github.com/mmahdy/jofotara-api/pkg/logger"
	"github.com/mmahdy/jofotara-api/pkg/secrets"
)

// Mode values for the outbound integration.
const (
	ModeDev  = "dev"  // build and persist XML, never call the portal
	ModeLive = "live" // submit to the configured endpoint
)

// Config integration-wide settings the use case needs beyond its collaborators.
type Config struct {
	Mode          string
	DefaultAPIURL string // fallback endpoint for companies without their own
}

// UseCase drives the invoice lifecycle against JoFotara.
type UseCase struct {
	invoiceRepo  repository.InvoiceRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository

	builder   *jofotara.BuilderService
	submitter jofotara.Submitter
	artifacts ArtifactStore
	pdfGen    PDFGenerator
	secrets   *secrets.Store
	cfg       Config
	log       *logger.Logger

	submitHook SubmitHook
}

// NewUseCase wires the use case. submitter may be nil only in dev mode.
func NewUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	builder *jofotara.BuilderService,
	submitter jofotara.Submitter,
	artifacts ArtifactStore,
	pdfGen PDFGenerator,
	secretStore *secrets.Store,
	cfg Config,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		invoiceRepo:  invoiceRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		builder:      builder,
		submitter:    submitter,
		artifacts:    artifacts,
		pdfGen:       pdfGen,
		secrets:      secretStore,
		cfg:          cfg,
		log:          log,
	}
}

// SetSubmitHook registers the post-submission callback.
func (uc *UseCase) SetSubmitHook(hook SubmitHook) { uc.submitHook = hook }

// ── Recording ─────────────────────────────────────────────────────────────────

// CreateInvoice records an invoice with its lines, company-scoped.
func (uc *UseCase) CreateInvoice(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one line is required", domain.ErrInvalidInput)
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	inv := &entity.Invoice{
		CompanyID:        companyID,
		CustomerID:       in.CustomerID,
		Number:           in.Number,
		IssueDate:        in.IssueDate,
		Currency:         in.Currency,
		NetTotal:         in.NetTotal,
		TaxTotal:         in.TaxTotal,
		GrandTotal:       in.GrandTotal,
		RoundedTotal:     in.RoundedTotal,
		IsReturn:         in.IsReturn,
		TaxesTemplate:    in.TaxesTemplate,
		SubmissionStatus: entity.SubmissionStatusNone,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	lines := make([]*entity.InvoiceLine, len(in.Lines))
	for i, l := range in.Lines {
		lines[i] = &entity.InvoiceLine{
			ItemName:        l.ItemName,
			Quantity:        l.Quantity,
			Rate:            l.Rate,
			Amount:          l.Amount,
			ItemTaxTemplate: l.ItemTaxTemplate,
		}
	}
	if err := uc.invoiceRepo.Create(ctx, inv, lines); err != nil {
		return nil, err
	}

	uc.log.Info().Str("invoice_id", inv.ID).Str("number", inv.Number).Msg("invoice recorded")

	if company.IntegrationEnabled {
		uc.autoReport(ctx, companyID, inv.ID)
		if refreshed, err := uc.invoiceRepo.GetByID(ctx, inv.ID); err == nil {
			inv = refreshed
		}
	}
	return toInvoiceResponse(inv, lines), nil
}

// autoReport reports a freshly recorded invoice to the portal right away,
// matching the host-system flow this service grew out of. Failures land on
// the invoice record, never on the caller: the invoice itself was recorded
// fine and every step can be redriven through the on-demand endpoints.
func (uc *UseCase) autoReport(ctx context.Context, companyID, invoiceID string) {
	if _, err := uc.GenerateXML(ctx, companyID, invoiceID); err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("auto report: XML generation failed")
		return
	}
	if _, err := uc.Submit(ctx, companyID, invoiceID); err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("auto report: submission failed")
	}
}

// GetInvoice returns the invoice with its lines, company-scoped.
func (uc *UseCase) GetInvoice(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.invoiceRepo.GetLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, lines), nil
}

// ListInvoices returns the invoice headers of the company.
func (uc *UseCase) ListInvoices(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	page.DefaultPage()
	list, err := uc.invoiceRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, len(list))
	for i, inv := range list {
		out[i] = toInvoiceResponse(inv, nil)
	}
	return out, nil
}

// ── Generation ────────────────────────────────────────────────────────────────

// GenerateXML builds the UBL document, stores the artifact, records its
// canonical digest and writes the classification back to the invoice.
// Regeneration is allowed until the portal has accepted the invoice.
func (uc *UseCase) GenerateXML(ctx context.Context, companyID, invoiceID string) (*dto.GenerateXMLResponse, error) {
	inv, err := uc.ownedInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.SubmissionStatus == entity.SubmissionStatusSuccess {
		return nil, domain.ErrAlreadySubmitted
	}

	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !company.IntegrationEnabled {
		return nil, domain.ErrIntegrationOff
	}
	customer, err := uc.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.invoiceRepo.GetLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	res, err := uc.builder.Build(&jofotara.InvoiceBuildContext{
		Invoice:  inv,
		Company:  company,
		Customer: customer,
		Lines:    lines,
	})
	if err != nil {
		return nil, err
	}

	path, err := uc.artifacts.Save(inv.Number, res.XML)
	if err != nil {
		return nil, err
	}
	digest, err := jofotara.CanonicalDigest([]byte(res.XML))
	if err != nil {
		return nil, err
	}

	inv.TypeCode = res.TypeCode
	inv.TypeLabel = res.TypeLabel
	inv.XMLGenerated = true
	inv.XMLPath = path
	inv.XMLDigest = digest
	inv.SubmissionStatus = entity.SubmissionStatusPending
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.UpdateGeneration(ctx, inv); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("type_code", res.TypeCode).
		Str("type_label", res.TypeLabel).
		Msg("invoice XML generated")

	return &dto.GenerateXMLResponse{
		InvoiceID: inv.ID,
		TypeCode:  res.TypeCode,
		TypeLabel: res.TypeLabel,
		XMLPath:   path,
		XMLDigest: digest,
	}, nil
}

// DownloadXML returns the stored artifact bytes and its file name.
func (uc *UseCase) DownloadXML(ctx context.Context, companyID, invoiceID string) ([]byte, string, error) {
	inv, err := uc.ownedInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	if !inv.XMLGenerated {
		return nil, "", domain.ErrXMLNotGenerated
	}
	data, err := uc.artifacts.Load(inv.Number)
	if err != nil {
		return nil, "", err
	}
	return data, inv.Number + "_jofotara.xml", nil
}

// ── Submission ────────────────────────────────────────────────────────────────

// Submit sends the generated document to the portal once. A second call after
// acceptance fails with ErrAlreadySubmitted; every attempt's outcome is
// persisted before the hook and the response fire.
func (uc *UseCase) Submit(ctx context.Context, companyID, invoiceID string) (*dto.SubmitResponse, error) {
	inv, err := uc.ownedInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.SubmissionStatus == entity.SubmissionStatusSuccess {
		return nil, domain.ErrAlreadySubmitted
	}
	if !inv.XMLGenerated {
		return nil, domain.ErrXMLNotGenerated
	}

	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !company.IntegrationEnabled {
		return nil, domain.ErrIntegrationOff
	}

	xmlDoc, err := uc.artifacts.Load(inv.Number)
	if err != nil {
		return nil, err
	}

	var result *jofotara.SubmitResult
	switch {
	case uc.cfg.Mode == ModeDev:
		// Dev mode short-circuit: record an acceptance without touching the
		// portal so the full flow is exercisable against test data.
		result = &jofotara.SubmitResult{
			Status:      "success",
			Response:    "dev mode: submission simulated, portal not called",
			SubmittedAt: time.Now(),
		}
	case uc.submitter == nil:
		// A mode without a wired portal client is a configuration fault,
		// reported through the result like every other submission failure.
		result = &jofotara.SubmitResult{
			Status:      "error",
			Err:         &jofotara.ConfigError{Reason: fmt.Sprintf("submission mode %q has no portal client", uc.cfg.Mode)},
			SubmittedAt: time.Now(),
		}
	default:
		creds, credErr := uc.resolveCredentials(company)
		if credErr != nil {
			result = &jofotara.SubmitResult{Status: "error", Err: credErr, SubmittedAt: time.Now()}
		} else {
			result = uc.submitter.Submit(ctx, string(xmlDoc), creds)
		}
	}

	uc.applySubmitResult(inv, result)
	if err := uc.invoiceRepo.UpdateSubmission(ctx, inv); err != nil {
		return nil, err
	}
	if uc.submitHook != nil {
		uc.submitHook(inv, result)
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("status", inv.SubmissionStatus).
		Int("http_status", result.HTTPStatus).
		Msg("invoice submission finished")

	return toSubmitResponse(inv, result), nil
}

// Status returns the light submission state for polling.
func (uc *UseCase) Status(ctx context.Context, companyID, invoiceID string) (*dto.SubmissionStatusResponse, error) {
	inv, err := uc.ownedInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	return &dto.SubmissionStatusResponse{
		InvoiceID:        inv.ID,
		SubmissionStatus: inv.SubmissionStatus,
		SubmissionTime:   inv.SubmissionTime,
		RemoteUUID:       inv.RemoteUUID,
		QRCode:           inv.QRCode,
	}, nil
}

// GeneratePDF renders the printable representation.
func (uc *UseCase) GeneratePDF(ctx context.Context, companyID, invoiceID string) ([]byte, error) {
	inv, err := uc.ownedInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	customer, err := uc.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.invoiceRepo.GetLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateInvoicePDF(ctx, inv, company, customer, lines)
}

// ── Internals ─────────────────────────────────────────────────────────────────

// ownedInvoice fetches the invoice and enforces company scope.
func (uc *UseCase) ownedInvoice(ctx context.Context, companyID, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// resolveCredentials assembles and decrypts the company's portal credentials.
// Every failure is a *jofotara.ConfigError so submission reports it without
// having called out.
func (uc *UseCase) resolveCredentials(company *entity.Company) (jofotara.Credentials, error) {
	endpoint := company.APIURL
	if endpoint == "" {
		endpoint = uc.cfg.DefaultAPIURL
	}
	creds := jofotara.Credentials{Endpoint: endpoint, Mode: company.AuthMode}

	switch company.AuthMode {
	case entity.AuthModeToken:
		if company.TokenEnc == "" {
			return creds, &jofotara.ConfigError{Reason: "API token is not configured for company"}
		}
		token, err := uc.secrets.Open(company.TokenEnc)
		if err != nil {
			return creds, &jofotara.ConfigError{Reason: "cannot decrypt API token: " + err.Error()}
		}
		creds.Token = token
	case entity.AuthModeClientSecret:
		if company.ClientID == "" || company.SecretEnc == "" {
			return creds, &jofotara.ConfigError{Reason: "client id or secret key is not configured for company"}
		}
		secret, err := uc.secrets.Open(company.SecretEnc)
		if err != nil {
			return creds, &jofotara.ConfigError{Reason: "cannot decrypt secret key: " + err.Error()}
		}
		creds.ClientID = company.ClientID
		creds.SecretKey = secret
	default:
		return creds, &jofotara.ConfigError{Reason: "company has no auth mode configured"}
	}
	return creds, nil
}

// applySubmitResult maps a submission outcome onto the invoice fields.
func (uc *UseCase) applySubmitResult(inv *entity.Invoice, result *jofotara.SubmitResult) {
	now := result.SubmittedAt
	inv.SubmissionTime = &now
	inv.SubmissionResponse = result.Response
	inv.UpdatedAt = time.Now()

	switch {
	case result.Err == nil:
		inv.SubmissionStatus = entity.SubmissionStatusSuccess
		if result.QRCode != "" {
			inv.QRCode = result.QRCode
		}
		if result.RemoteUUID != "" {
			inv.RemoteUUID = result.RemoteUUID
		}
	case isRejection(result.Err):
		inv.SubmissionStatus = entity.SubmissionStatusFailed
	default:
		inv.SubmissionStatus = entity.SubmissionStatusError
	}
	if inv.SubmissionResponse == "" && result.Err != nil {
		inv.SubmissionResponse = result.Err.Error()
	}
}

func isRejection(err error) bool {
	var rejected *jofotara.RejectedError
	return errors.As(err, &rejected)
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func toInvoiceResponse(inv *entity.Invoice, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:               inv.ID,
		CompanyID:        inv.CompanyID,
		CustomerID:       inv.CustomerID,
		Number:           inv.Number,
		IssueDate:        inv.IssueDate,
		Currency:         inv.Currency,
		NetTotal:         inv.NetTotal,
		TaxTotal:         inv.TaxTotal,
		GrandTotal:       inv.GrandTotal,
		RoundedTotal:     inv.RoundedTotal,
		IsReturn:         inv.IsReturn,
		TaxesTemplate:    inv.TaxesTemplate,
		TypeCode:         inv.TypeCode,
		TypeLabel:        inv.TypeLabel,
		XMLGenerated:     inv.XMLGenerated,
		XMLDigest:        inv.XMLDigest,
		SubmissionStatus: inv.SubmissionStatus,
		SubmissionTime:   inv.SubmissionTime,
		QRCode:           inv.QRCode,
		RemoteUUID:       inv.RemoteUUID,
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.InvoiceLineResponse{
			ID:              l.ID,
			ItemName:        l.ItemName,
			Quantity:        l.Quantity,
			Rate:            l.Rate,
			Amount:          l.Amount,
			ItemTaxTemplate: l.ItemTaxTemplate,
		})
	}
	return out
}

func toSubmitResponse(inv *entity.Invoice, result *jofotara.SubmitResult) *dto.SubmitResponse {
	out := &dto.SubmitResponse{
		InvoiceID:   inv.ID,
		Status:      inv.SubmissionStatus,
		HTTPStatus:  result.HTTPStatus,
		QRCode:      inv.QRCode,
		RemoteUUID:  inv.RemoteUUID,
		SubmittedAt: result.SubmittedAt,
	}
	for _, d := range result.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, dto.DiagnosticResponse{Code: d.Code, Message: d.Message})
	}
	if result.Err != nil {
		out.Error = result.Err.Error()
	}
	return out
}
