package invoicechain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
)

// doc arma un documento mínimo para las pruebas: id = folio.
func doc(t *testing.T, number, date string, typ entity.InvoiceType, related string) *entity.Invoice {
	t.Helper()
	d, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		t.Fatalf("fecha inválida %q: %v", date, err)
	}
	return &entity.Invoice{
		ID:               number,
		CompanyID:        "empresa-1",
		Number:           number,
		Date:             d,
		Type:             typ,
		RelatedInvoiceID: related,
		Status:           entity.InvoiceStatusIssued,
		Net:              decimal.Zero,
		IVA:              decimal.Zero,
		Total:            decimal.Zero,
	}
}

func ids(list []*entity.Invoice) []string {
	out := make([]string, len(list))
	for i, inv := range list {
		out[i] = inv.ID
	}
	return out
}
