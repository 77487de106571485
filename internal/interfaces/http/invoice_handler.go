package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mmahdy/jofotara-api/internal/application/dto"
	"github.com/mmahdy/jofotara-api/internal/application/einvoice"
	"github.com/mmahdy/jofotara-api/internal/domain"
	"github.com/mmahdy/jofotara-api/internal/infrastructure/jofotara"
)

// InvoiceHandler handles invoice recording and the JoFotara lifecycle
// (protected routes).
type InvoiceHandler struct {
	uc *einvoice.UseCase
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(uc *einvoice.UseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create godoc
// @Summary      Record an invoice
// @Description  Records the invoice with its lines. With the company integration enabled it is reported to JoFotara right away; portal failures land on the invoice record.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "invoice with lines"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.CreateInvoice(c.Context(), companyID, in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Success      200  {array}  dto.InvoiceResponse
// @Security     BearerAuth
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid pagination"})
	}
	out, err := h.uc.ListInvoices(c.Context(), companyID, page)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Get an invoice with its lines
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "invoice id"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoice(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// GenerateXML godoc
// @Summary      Generate the JoFotara UBL document
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "invoice id"
// @Success      200  {object}  dto.GenerateXMLResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/xml [post]
func (h *InvoiceHandler) GenerateXML(c *fiber.Ctx) error {
	out, err := h.uc.GenerateXML(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// DownloadXML godoc
// @Summary      Download the generated XML artifact
// @Tags         invoices
// @Produce      application/xml
// @Param        id  path  string  true  "invoice id"
// @Success      200  {string}  string  "UBL 2.1 document"
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/xml [get]
func (h *InvoiceHandler) DownloadXML(c *fiber.Ctx) error {
	data, name, err := h.uc.DownloadXML(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}

// Submit godoc
// @Summary      Submit the invoice to JoFotara
// @Description  One synchronous attempt. Portal diagnostics are returned verbatim.
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "invoice id"
// @Success      200  {object}  dto.SubmitResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/submit [post]
func (h *InvoiceHandler) Submit(c *fiber.Ctx) error {
	out, err := h.uc.Submit(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// Status godoc
// @Summary      Submission status of an invoice
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "invoice id"
// @Success      200  {object}  dto.SubmissionStatusResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/status [get]
func (h *InvoiceHandler) Status(c *fiber.Ctx) error {
	out, err := h.uc.Status(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Printable representation of an invoice
// @Tags         invoices
// @Produce      application/pdf
// @Param        id  path  string  true  "invoice id"
// @Success      200  {string}  string  "PDF bytes"
// @Security     BearerAuth
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	data, err := h.uc.GeneratePDF(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(data)
}

// mapError translates domain and integration errors to HTTP answers.
func (h *InvoiceHandler) mapError(c *fiber.Ctx, err error) error {
	var buildErr *jofotara.BuildError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "resource not found"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "access denied"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadySubmitted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_SUBMITTED", Message: "invoice already accepted by JoFotara"})
	case errors.Is(err, domain.ErrIntegrationOff):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INTEGRATION_DISABLED", Message: "e-invoicing integration is disabled for this company"})
	case errors.Is(err, domain.ErrXMLNotGenerated):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "XML_NOT_GENERATED", Message: "generate the invoice XML first"})
	case errors.As(err, &buildErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "BUILD_FAILED", Message: buildErr.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
