package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mmahdy/jofotara-api/internal/application/auth"
	"github.com/mmahdy/jofotara-api/internal/application/einvoice"
	"github.com/mmahdy/jofotara-api/internal/domain/entity"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	SettingsUC *einvoice.SettingsUseCase
	InvoiceUC  *einvoice.UseCase
	JWTSecret  string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies: registration and lookup are public (needed before signup),
	// integration settings require an admin of that company.
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.SettingsUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id/integration",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleAdmin),
		companyHandler.UpdateIntegration,
	)

	// Protected routes (Bearer token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.SettingsUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)

	// Invoices: recording for everyone, the JoFotara lifecycle for
	// accountants and admins.
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/status", invoiceHandler.Status)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)

	lifecycle := invoices.Group("/", RequireRole(entity.RoleAdmin, entity.RoleAccountant))
	lifecycle.Post("/:id/xml", invoiceHandler.GenerateXML)
	lifecycle.Get("/:id/xml", invoiceHandler.DownloadXML)
	lifecycle.Post("/:id/submit", invoiceHandler.Submit)
}
