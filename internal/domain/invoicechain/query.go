package invoicechain

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
)

// Query filtros del listado. Los campos vacíos (o nil) no filtran.
type Query struct {
	Term     string             // busca en folio, nombre de cliente y descripción
	Type     entity.InvoiceType
	ClientID string
	DateFrom string // "YYYY-MM-DD", inclusivo
	DateTo   string // "YYYY-MM-DD", inclusivo
	MinTotal *decimal.Decimal
	MaxTotal *decimal.Decimal
}

// Matches informa si el documento cumple todos los filtros.
func (q Query) Matches(inv *entity.Invoice) bool {
	if inv == nil {
		return false
	}
	if q.Type != "" && inv.Type != q.Type {
		return false
	}
	if q.ClientID != "" && inv.ClientID != q.ClientID {
		return false
	}
	date := inv.DateKey()
	if q.DateFrom != "" && date < q.DateFrom {
		return false
	}
	if q.DateTo != "" && date > q.DateTo {
		return false
	}
	if q.MinTotal != nil && inv.Total.LessThan(*q.MinTotal) {
		return false
	}
	if q.MaxTotal != nil && inv.Total.GreaterThan(*q.MaxTotal) {
		return false
	}
	if term := fold(strings.TrimSpace(q.Term)); term != "" {
		return strings.Contains(fold(inv.Number), term) ||
			strings.Contains(fold(inv.ClientName), term) ||
			strings.Contains(fold(inv.Description), term)
	}
	return true
}

// Filter devuelve los documentos que cumplen la consulta, en el orden recibido.
func (q Query) Filter(all []*entity.Invoice) []*entity.Invoice {
	out := make([]*entity.Invoice, 0, len(all))
	for _, inv := range all {
		if q.Matches(inv) {
			out = append(out, inv)
		}
	}
	return out
}

// fold minúsculas y sin tildes: "Construcción" → "construccion".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
