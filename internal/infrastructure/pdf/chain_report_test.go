package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/obras-backoffice/internal/application/billing"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
)

func chainDoc() appbilling.ChainDocument {
	master := &entity.Invoice{
		ID: "f1", Number: "F-100", Type: entity.InvoiceTypeSale, Status: entity.InvoiceStatusIssued,
		Date:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Net:   decimal.NewFromInt(100000), IVA: decimal.NewFromInt(19000), Total: decimal.NewFromInt(119000),
	}
	nc := &entity.Invoice{
		ID: "nc1", Number: "NC-7", Type: entity.InvoiceTypeCreditNote, Status: entity.InvoiceStatusIssued,
		RelatedInvoiceID: "f1",
		Date:             time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		Net:              decimal.NewFromInt(10000), IVA: decimal.NewFromInt(1900), Total: decimal.NewFromInt(11900),
	}
	return appbilling.ChainDocument{
		Company:     &entity.Company{ID: "c1", Name: "Constructora Andes", RUT: "760864285"},
		Master:      master,
		Invoices:    []*entity.Invoice{master, nc},
		Balance:     decimal.NewFromInt(107100),
		GeneratedAt: time.Date(2024, 4, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestRenderChain_GeneraPDF(t *testing.T) {
	out, err := NewChainReportRenderer().RenderChain(context.Background(), chainDoc())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderChain_DocumentoIncompleto(t *testing.T) {
	doc := chainDoc()
	doc.Company = nil
	_, err := NewChainReportRenderer().RenderChain(context.Background(), doc)
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$0", formatAmount("0"))
	assert.Equal(t, "$25.000", formatAmount("25000"))
	assert.Equal(t, "$119.000", formatAmount("119000"))
	assert.Equal(t, "-$1.000.000", formatAmount("-1000000"))
}

func TestEtiquetas(t *testing.T) {
	assert.Equal(t, "Nota de crédito", typeLabel(entity.InvoiceTypeCreditNote))
	assert.Equal(t, "Anulada", statusLabel(entity.InvoiceStatusCancelled))
	assert.Equal(t, "OTRO", typeLabel(entity.InvoiceType("OTRO")))
}
