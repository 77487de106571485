package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mmahdy/jofotara-api/internal/application/auth"
	"github.com/mmahdy/jofotara-api/internal/application/einvoice"
	"github.com/mmahdy/jofotara-api/internal/domain/entity"
	"github.com/mmahdy/jofotara-api/internal/infrastructure/artifact"
	infrajofotara "github.com/mmahdy/jofotara-api/internal/infrastructure/jofotara"
	infrapdf "github.com/mmahdy/jofotara-api/internal/infrastructure/pdf"
	"github.com/mmahdy/jofotara-api/internal/infrastructure/postgres"
	httpRouter "github.com/mmahdy/jofotara-api/internal/interfaces/http"
	"github.com/mmahdy/jofotara-api/pkg/config"
	"github.com/mmahdy/jofotara-api/pkg/logger"
	"github.com/mmahdy/jofotara-api/pkg/secrets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("jofotara_mode", cfg.JoFotara.Mode).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)

	secretStore, err := secrets.NewStore(cfg.JoFotara.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("credential encryption key")
	}
	if cfg.JoFotara.EncryptionKey == "" {
		log.Warn().Msg("no encryption key configured; companies cannot store portal credentials")
	}

	artifacts, err := artifact.NewFSStore(cfg.JoFotara.ArtifactDir)
	if err != nil {
		log.Fatal().Err(err).Msg("artifact store")
	}

	builder := infrajofotara.NewBuilderService(infrajofotara.ParseProfile(cfg.JoFotara.SchemaProfile))

	// Portal client — only consulted when the mode is "live"; the dev mode
	// short-circuits inside the use case. Any other mode is a config typo
	// that must not reach the submission path.
	var submitter infrajofotara.Submitter
	switch cfg.JoFotara.Mode {
	case einvoice.ModeLive:
		submitter = infrajofotara.NewClient(cfg.JoFotara.Timeout())
	case einvoice.ModeDev:
	default:
		log.Fatal().Str("mode", cfg.JoFotara.Mode).Msg("unknown JOFOTARA_MODE, expected dev or live")
	}

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	invoiceUC := einvoice.NewUseCase(
		invoiceRepo, companyRepo, customerRepo,
		builder, submitter, artifacts, pdfGenerator, secretStore,
		einvoice.Config{
			Mode:          cfg.JoFotara.Mode,
			DefaultAPIURL: cfg.JoFotara.DefaultAPIURL,
		},
		log,
	)
	invoiceUC.SetSubmitHook(func(inv *entity.Invoice, _ *infrajofotara.SubmitResult) {
		log.Info().
			Str("invoice_id", inv.ID).
			Str("number", inv.Number).
			Str("status", inv.SubmissionStatus).
			Str("remote_uuid", inv.RemoteUUID).
			Msg("submission outcome recorded")
	})

	settingsUC := einvoice.NewSettingsUseCase(companyRepo, customerRepo, secretStore)
	authUC := auth.NewUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "JoFotara API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		SettingsUC: settingsUC,
		InvoiceUC:  invoiceUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
