package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/obras-backoffice/internal/application/billing"
	"github.com/jhoicas/obras-backoffice/internal/application/usecase"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC    *usecase.CompanyUseCase
	ModuleSvc    *usecase.ModuleService
	ClientUC     *usecase.ClientUseCase
	ProjectUC    *usecase.ProjectUseCase
	InvoiceUC    *billing.InvoiceUseCase
	ChainReport  *billing.ChainReportUseCase
	HealthChecks map[string]HealthCheck
	JWTSecret    string
	Logger       zerolog.Logger
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(requestid.New())
	app.Use(RequestLogger(deps.Logger))

	health := NewHealthHandler(deps.HealthChecks)
	app.Get("/health", health.Live)
	app.Get("/health/ready", health.Ready)

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Companies (solo admin)
	companies := api.Group("/companies", RequireRole(jwt.RoleAdmin))
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	clients := api.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", RequireRole(jwt.RoleAdmin, jwt.RoleFinanzas), clientHandler.Delete)

	// Obras (módulo projects)
	projects := api.Group("/projects", RequireModule(entity.ModuleProjects, deps.ModuleSvc))
	projectHandler := NewProjectHandler(deps.ProjectUC)
	projects.Get("/", projectHandler.List)
	projects.Post("/", projectHandler.Create)
	projects.Get("/:id", projectHandler.GetByID)
	projects.Put("/:id", projectHandler.Update)
	projects.Post("/:id/close", projectHandler.Close)

	// Documentos y cadenas (módulo billing)
	invoices := api.Group("/invoices", RequireModule(entity.ModuleBilling, deps.ModuleSvc))
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.ChainReport)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", RequireRole(jwt.RoleAdmin, jwt.RoleFinanzas), invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", RequireRole(jwt.RoleAdmin, jwt.RoleFinanzas), invoiceHandler.Update)
	invoices.Delete("/:id", RequireRole(jwt.RoleAdmin, jwt.RoleFinanzas), invoiceHandler.Void)
	invoices.Get("/:id/chain", invoiceHandler.Chain)
	invoices.Get("/:id/chain.pdf", invoiceHandler.ChainPDF)
	invoices.Get("/:id/chain.xml", invoiceHandler.ChainXML)
}
