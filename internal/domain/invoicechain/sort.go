package invoicechain

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey columna de ordenamiento del listado.
type SortKey string

const (
	SortByFolio   SortKey = "folio"
	SortByDate    SortKey = "date"
	SortByClient  SortKey = "client"
	SortByTotal   SortKey = "total"
	SortByPayment SortKey = "payment"
	SortByType    SortKey = "type"
)

// SortDirection sentido del ordenamiento.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortConfig columna y sentido activos.
type SortConfig struct {
	Key       SortKey
	Direction SortDirection
}

// DefaultSort fecha descendente: lo más reciente primero.
var DefaultSort = SortConfig{Key: SortByDate, Direction: Descending}

// Valid indica si k es una columna ordenable.
func (k SortKey) Valid() bool {
	switch k {
	case SortByFolio, SortByDate, SortByClient, SortByTotal, SortByPayment, SortByType:
		return true
	}
	return false
}

// ParseSortKey normaliza mayúsculas y espacios; ok=false si la columna no existe.
func ParseSortKey(s string) (SortKey, bool) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

// ParseSort interpreta los parámetros de la petición; valores desconocidos → DefaultSort.
func ParseSort(key, dir string) SortConfig {
	k, ok := ParseSortKey(key)
	if !ok {
		return DefaultSort
	}
	d := Ascending
	if strings.EqualFold(strings.TrimSpace(dir), string(Descending)) {
		d = Descending
	}
	return SortConfig{Key: k, Direction: d}
}

// ToggleSort elegir la misma columna invierte el sentido; una columna nueva empieza ascendente.
func ToggleSort(current SortConfig, key SortKey) SortConfig {
	if current.Key == key {
		if current.Direction == Ascending {
			return SortConfig{Key: key, Direction: Descending}
		}
		return SortConfig{Key: key, Direction: Ascending}
	}
	return SortConfig{Key: key, Direction: Ascending}
}

// SortRows ordena las filas principales (estable) según cfg. Los hijos no se reordenan.
func SortRows(rows []Row, cfg SortConfig) {
	if cfg.Key == "" {
		cfg = DefaultSort
	}
	cmp := comparator(cfg.Key)
	sign := 1
	if cfg.Direction == Descending {
		sign = -1
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return sign*cmp(rows[i], rows[j]) < 0
	})
}

func comparator(key SortKey) func(a, b Row) int {
	switch key {
	case SortByFolio:
		return func(a, b Row) int {
			return compareInt64(FolioNumber(a.Invoice.Number), FolioNumber(b.Invoice.Number))
		}
	case SortByClient:
		// Collator por llamada: collate.Collator no es seguro para uso concurrente.
		col := collate.New(language.LatinAmericanSpanish, collate.IgnoreCase)
		return func(a, b Row) int {
			return col.CompareString(a.Invoice.ClientName, b.Invoice.ClientName)
		}
	case SortByTotal:
		return func(a, b Row) int { return a.Invoice.Total.Cmp(b.Invoice.Total) }
	case SortByPayment:
		return func(a, b Row) int { return compareBool(a.Invoice.Paid, b.Invoice.Paid) }
	case SortByType:
		return func(a, b Row) int { return strings.Compare(string(a.Invoice.Type), string(b.Invoice.Type)) }
	default:
		return func(a, b Row) int { return strings.Compare(a.Invoice.DateKey(), b.Invoice.DateKey()) }
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
