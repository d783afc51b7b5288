package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/obras-backoffice/internal/application/billing"
	"github.com/jhoicas/obras-backoffice/internal/application/dto"
	"github.com/jhoicas/obras-backoffice/internal/application/usecase"
	"github.com/jhoicas/obras-backoffice/internal/domain"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/domain/tax"
	"github.com/jhoicas/obras-backoffice/internal/infrastructure/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga una empresa de ejemplo con clientes, una obra y cadenas de documentos",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("rut", "76.086.428-5", "RUT de la empresa de ejemplo")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	companyRUT, _ := cmd.Flags().GetString("rut")

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	clientRepo := postgres.NewClientRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	companies := usecase.NewCompanyUseCase(postgres.NewCompanyRepository(pool))
	clients := usecase.NewClientUseCase(clientRepo)
	projects := usecase.NewProjectUseCase(projectRepo, clientRepo)
	invoices := billing.NewInvoiceUseCase(
		postgres.NewInvoiceRepository(pool), clientRepo, projectRepo, postgres.NewTxRunner(pool),
		nil, tax.ParseRate(cfg.Tax.IVARate), log.WithComponent("seed"),
	)

	company, err := companies.Create(ctx, dto.CreateCompanyRequest{
		Name:    "Constructora Andes SpA",
		RUT:     companyRUT,
		Address: "Av. Providencia 1208, Santiago",
		Email:   "contacto@constructoraandes.cl",
		Modules: []string{entity.ModuleBilling, entity.ModuleProjects},
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return fmt.Errorf("ya existe una empresa con RUT %s; use --rut para otra", companyRUT)
	}
	if err != nil {
		return err
	}

	inmobiliaria, err := clients.Create(ctx, company.ID, dto.CreateClientRequest{Name: "Inmobiliaria Sur Ltda.", RUT: "77.123.456-9"})
	if err != nil {
		return err
	}
	aridos, err := clients.Create(ctx, company.ID, dto.CreateClientRequest{Name: "Áridos del Maipo S.A.", RUT: "96.543.210-8"})
	if err != nil {
		return err
	}
	obra, err := projects.Create(ctx, company.ID, dto.CreateProjectRequest{
		ClientID: inmobiliaria.ID, Name: "Edificio Los Aromos", Code: "OB-2024-01", StartDate: "2024-01-08",
	})
	if err != nil {
		return err
	}

	s := seeder{ctx: ctx, uc: invoices, companyID: company.ID}
	// Cadena 1: factura, nota de crédito parcial y nota de débito sobre la nota.
	f100 := s.add("F-100", "2024-03-01", entity.InvoiceTypeSale, inmobiliaria.ID, obra.ID, "", 4_500_000, false)
	nc7 := s.add("NC-7", "2024-03-09", entity.InvoiceTypeCreditNote, inmobiliaria.ID, obra.ID, f100, 500_000, false)
	s.add("ND-2", "2024-03-15", entity.InvoiceTypeDebitNote, inmobiliaria.ID, obra.ID, nc7, 120_000, false)
	// Cadena 2: guía de despacho y su factura.
	gd1 := s.add("GD-1", "2024-04-02", entity.InvoiceTypeDispatchGuide, aridos.ID, "", "", 0, false)
	s.add("F-101", "2024-04-05", entity.InvoiceTypeSale, aridos.ID, "", gd1, 980_000, false)
	// Cadena 3: factura anulada por nota de crédito total.
	f102 := s.add("F-102", "2024-05-10", entity.InvoiceTypeSale, aridos.ID, "", "", 250_000, false)
	s.add("NC-8", "2024-05-11", entity.InvoiceTypeCreditNote, aridos.ID, "", f102, 250_000, true)
	// Documento suelto de compra.
	s.add("C-5531", "2024-05-20", entity.InvoiceTypePurchase, "", "", "", 1_320_000, false)
	if s.err != nil {
		return s.err
	}

	log.Info().Str("company_id", company.ID).Int("documents", s.count).Msg("datos de ejemplo cargados")
	fmt.Fprintln(cmd.OutOrStdout(), company.ID)
	return nil
}

// seeder crea documentos en secuencia; tras el primer error no hace nada más.
type seeder struct {
	ctx       context.Context
	uc        *billing.InvoiceUseCase
	companyID string
	count     int
	err       error
}

func (s *seeder) add(number, date string, typ entity.InvoiceType, clientID, projectID, related string, net int64, annuls bool) string {
	if s.err != nil {
		return ""
	}
	out, err := s.uc.Create(s.ctx, s.companyID, dto.CreateInvoiceRequest{
		Number:           number,
		Date:             date,
		Type:             string(typ),
		ClientID:         clientID,
		ProjectID:        projectID,
		RelatedInvoiceID: related,
		Net:              decimal.NewFromInt(net),
		Annuls:           annuls,
	})
	if err != nil {
		s.err = fmt.Errorf("documento %s: %w", number, err)
		return ""
	}
	s.count++
	return out.ID
}
