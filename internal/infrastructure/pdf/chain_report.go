// Package pdf genera el reporte PDF de la cadena de un documento.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RUT  │  Documento maestro + fecha   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Folio | Referencia | Estado | Total   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SALDO VIGENTE                                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: fecha de emisión del reporte                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/jhoicas/obras-backoffice/internal/application/billing"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/pkg/rut"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorMuted   = &props.Color{Red: 160, Green: 160, Blue: 160}
)

var _ appbilling.ChainPDFRenderer = (*ChainReportRenderer)(nil)

// ChainReportRenderer implementa billing.ChainPDFRenderer usando Maroto v2.
type ChainReportRenderer struct{}

// NewChainReportRenderer construye el generador.
func NewChainReportRenderer() *ChainReportRenderer { return &ChainReportRenderer{} }

// RenderChain genera el PDF y devuelve sus bytes.
func (g *ChainReportRenderer) RenderChain(_ context.Context, doc appbilling.ChainDocument) ([]byte, error) {
	if doc.Company == nil || doc.Master == nil {
		return nil, fmt.Errorf("pdf: documento de cadena incompleto")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Historial de documento "+doc.Master.Number, true).
		WithAuthor(doc.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(doc)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(balanceRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: Razón social + RUT (izq) y documento maestro + fecha (der).
func headerRow(doc appbilling.ChainDocument) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(doc.Company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUT: "+formatRUT(doc.Company.RUT), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HISTORIAL DE DOCUMENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(typeLabel(doc.Master.Type)+" "+doc.Master.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+doc.Master.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Folio", 2, align.Left),
		h("Referencia", 2, align.Left),
		h("Estado", 2, align.Center),
		h("Total", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows una fila por documento en orden cronológico; los anulados en gris.
func tableRows(doc appbilling.ChainDocument) []core.Row {
	byID := make(map[string]*entity.Invoice, len(doc.Invoices))
	for _, inv := range doc.Invoices {
		byID[inv.ID] = inv
	}
	result := make([]core.Row, 0, len(doc.Invoices))
	for _, inv := range doc.Invoices {
		color := &props.Color{}
		if inv.IsCancelled() {
			color = colorMuted
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{
				Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color,
			}))
		}
		ref := "-"
		if inv.RelatedInvoiceID != "" {
			ref = "(externa)"
			if related, ok := byID[inv.RelatedInvoiceID]; ok {
				ref = related.Number
			}
		}
		total := formatAmount(inv.Total.StringFixed(0))
		if inv.IsCreditNote() {
			total = "-" + total
		}
		result = append(result, row.New(7).Add(
			cell(inv.Date.Format("02/01/2006"), 2, align.Left),
			cell(typeLabel(inv.Type), 2, align.Left),
			cell(inv.Number, 2, align.Left),
			cell(ref, 2, align.Left),
			cell(statusLabel(inv.Status), 2, align.Center),
			cell(total, 2, align.Right),
		))
	}
	return result
}

func balanceRow(doc appbilling.ChainDocument) core.Row {
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(text.New("SALDO VIGENTE:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
		col.New(2).Add(text.New(formatAmount(doc.Balance.StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func footerRow(doc appbilling.ChainDocument) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			fmt.Sprintf("%d documento(s) en la cadena. Reporte generado el %s.",
				len(doc.Invoices), doc.GeneratedAt.Format("02/01/2006 15:04")),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func typeLabel(t entity.InvoiceType) string {
	switch t {
	case entity.InvoiceTypeSale:
		return "Factura"
	case entity.InvoiceTypePurchase:
		return "Compra"
	case entity.InvoiceTypeCreditNote:
		return "Nota de crédito"
	case entity.InvoiceTypeDebitNote:
		return "Nota de débito"
	case entity.InvoiceTypeDispatchGuide:
		return "Guía de despacho"
	}
	return string(t)
}

func statusLabel(s entity.InvoiceStatus) string {
	switch s {
	case entity.InvoiceStatusIssued:
		return "Emitida"
	case entity.InvoiceStatusPaid:
		return "Pagada"
	case entity.InvoiceStatusCancelled:
		return "Anulada"
	}
	return string(s)
}

// formatRUT "76086428-5" → "76.086.428-5"; si no es válido se muestra tal cual.
func formatRUT(s string) string {
	if f, err := rut.Format(s); err == nil {
		return f
	}
	return s
}

// formatAmount "$" + puntos de miles sobre un string entero, con signo opcional.
// Ej: "25000" → "$25.000", "-1000000" → "-$1.000.000"
func formatAmount(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf)
}
