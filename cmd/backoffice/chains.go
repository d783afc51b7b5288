package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/obras-backoffice/internal/application/dto"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/domain/invoicechain"
	"github.com/jhoicas/obras-backoffice/internal/infrastructure/postgres"
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "Lista las cadenas de documentos de una empresa",
	Long: `Agrupa los documentos de la empresa en cadenas (documento original y todo lo que lo
referencia directa o indirectamente) y muestra cada una con su maestro y saldo vigente.

Con --file se analiza un volcado JSON (arreglo de documentos con el formato de la API)
en lugar de la base de datos.`,
	Example: `  backoffice chains --company 4f1c2b1e-8d0a-4c5e-9f57-3b2a1c0d9e8f
  backoffice chains --file documentos.json`,
	RunE: runChains,
}

func init() {
	rootCmd.AddCommand(chainsCmd)
	chainsCmd.Flags().String("company", "", "ID de la empresa")
	chainsCmd.Flags().String("file", "", "Volcado JSON de documentos")
}

func runChains(cmd *cobra.Command, args []string) error {
	companyID, _ := cmd.Flags().GetString("company")
	file, _ := cmd.Flags().GetString("file")

	var invoices []*entity.Invoice
	var err error
	switch {
	case file != "":
		invoices, err = readDump(file)
	case companyID != "":
		invoices, err = loadCompany(cmd.Context(), companyID)
	default:
		return fmt.Errorf("indique --company o --file")
	}
	if err != nil {
		return err
	}
	log.Info().Int("documents", len(invoices)).Msg("documentos cargados")
	return printClusters(cmd.OutOrStdout(), invoices)
}

func loadCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	return postgres.NewInvoiceRepository(pool).ListByCompany(ctx, companyID)
}

func readDump(path string) ([]*entity.Invoice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir volcado: %w", err)
	}
	defer f.Close()
	var rows []dto.InvoiceResponse
	if err := json.NewDecoder(f).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decodificar volcado: %w", err)
	}
	return fromResponses(rows)
}

func fromResponses(rows []dto.InvoiceResponse) ([]*entity.Invoice, error) {
	out := make([]*entity.Invoice, 0, len(rows))
	for _, r := range rows {
		date, err := time.Parse(entity.DateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("documento %s: fecha %q: %w", r.Number, r.Date, err)
		}
		out = append(out, &entity.Invoice{
			ID:               r.ID,
			CompanyID:        r.CompanyID,
			ClientID:         r.ClientID,
			ClientName:       r.ClientName,
			ProjectID:        r.ProjectID,
			Number:           r.Number,
			Date:             date,
			Type:             entity.InvoiceType(r.Type),
			RelatedInvoiceID: r.RelatedInvoiceID,
			Status:           entity.InvoiceStatus(r.Status),
			Paid:             r.Paid,
			Description:      r.Description,
			Net:              r.Net,
			IVA:              r.IVA,
			Total:            r.Total,
		})
	}
	return out, nil
}

// printClusters una línea por cadena (maestro, cantidad, saldo) y debajo sus documentos.
func printClusters(w io.Writer, invoices []*entity.Invoice) error {
	clusters := invoicechain.NewGraph(invoices).Clusters()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FOLIO\tFECHA\tTIPO\tESTADO\tDOCS\tSALDO")
	for _, cluster := range clusters {
		master := cluster[0]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			master.Number, master.DateKey(), master.Type, master.Status,
			len(cluster), invoicechain.Balance(cluster).StringFixed(0))
		for _, inv := range cluster[1:] {
			fmt.Fprintf(tw, "  └ %s\t%s\t%s\t%s\t\t\n", inv.Number, inv.DateKey(), inv.Type, inv.Status)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d cadena(s), %d documento(s)\n", len(clusters), len(invoices))
	return err
}
