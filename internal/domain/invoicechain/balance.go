package invoicechain

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
)

// Balance total vigente de una cadena: suma los documentos no anulados, las notas de
// crédito restan y las guías de despacho no modifican montos.
func Balance(cluster []*entity.Invoice) decimal.Decimal {
	sum := decimal.Zero
	for _, inv := range cluster {
		if inv == nil || inv.IsCancelled() {
			continue
		}
		switch inv.Type {
		case entity.InvoiceTypeCreditNote:
			sum = sum.Sub(inv.Total)
		case entity.InvoiceTypeDispatchGuide:
		default:
			sum = sum.Add(inv.Total)
		}
	}
	return sum
}
