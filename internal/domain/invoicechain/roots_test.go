package invoicechain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/domain/invoicechain"
)

func rowIDs(rows []invoicechain.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Invoice.ID
	}
	return out
}

// Escenario: buscar una nota de crédito muestra la factura que anula, con la nota como hijo.
func TestSelectRoots_NotaDeCreditoRedirigeAlMaestro(t *testing.T) {
	f100 := doc(t, "F-100", "2024-01-05", sale, "")
	nc1 := doc(t, "NC-1", "2024-01-10", credit, "F-100")
	all := []*entity.Invoice{f100, nc1}

	rows := invoicechain.SelectRoots(all, []*entity.Invoice{nc1})

	require.Len(t, rows, 1)
	assert.Equal(t, "F-100", rows[0].Invoice.ID)
	assert.Equal(t, []string{"NC-1"}, ids(rows[0].Children))
}

// Escenario: una refacturación que no es maestro se muestra sola y sin historial.
func TestSelectRoots_DocumentoIntermedioSinHijos(t *testing.T) {
	all := []*entity.Invoice{
		doc(t, "F-100", "2024-01-05", sale, ""),
		doc(t, "NC-1", "2024-01-10", credit, "F-100"),
		doc(t, "F-101", "2024-01-15", sale, "NC-1"),
	}

	rows := invoicechain.SelectRoots(all, []*entity.Invoice{all[2]})

	require.Len(t, rows, 1)
	assert.Equal(t, "F-101", rows[0].Invoice.ID)
	assert.Empty(t, rows[0].Children)
}

// Escenario: una nota de crédito huérfana que calza con el filtro se muestra sola.
func TestSelectRoots_NotaDeCreditoHuerfana(t *testing.T) {
	nc9 := doc(t, "NC-9", "2024-04-01", credit, "")

	rows := invoicechain.SelectRoots([]*entity.Invoice{nc9}, []*entity.Invoice{nc9})

	require.Len(t, rows, 1)
	assert.Equal(t, "NC-9", rows[0].Invoice.ID)
	assert.NotNil(t, rows[0].Children)
	assert.Empty(t, rows[0].Children)
}

// Escenario: referencia colgante, el documento es su propia fila.
func TestSelectRoots_ReferenciaColgante(t *testing.T) {
	x := doc(t, "X", "2024-05-01", sale, "nonexistent-id")
	ncx := doc(t, "NC-X", "2024-05-02", credit, "nonexistent-id")
	all := []*entity.Invoice{x, ncx}

	rows := invoicechain.SelectRoots(all, all)

	assert.Equal(t, []string{"X", "NC-X"}, rowIDs(rows), "una referencia colgante cuenta como huérfana")
}

func TestSelectRoots_SinDuplicados(t *testing.T) {
	all := []*entity.Invoice{
		doc(t, "F-100", "2024-01-05", sale, ""),
		doc(t, "NC-1", "2024-01-10", credit, "F-100"),
		doc(t, "NC-2", "2024-01-11", credit, "F-100"),
	}

	// Los tres calzan; las dos notas redirigen al mismo maestro.
	rows := invoicechain.SelectRoots(all, []*entity.Invoice{all[1], all[0], all[2]})

	require.Len(t, rows, 1)
	assert.Equal(t, "F-100", rows[0].Invoice.ID)
	assert.Equal(t, []string{"NC-1", "NC-2"}, ids(rows[0].Children))
}

func TestSelectRoots_NotaEnlazadaNuncaEsFila(t *testing.T) {
	all := []*entity.Invoice{
		doc(t, "F-100", "2024-01-05", sale, ""),
		doc(t, "NC-1", "2024-01-10", credit, "F-100"),
		doc(t, "F-101", "2024-01-15", sale, "NC-1"),
		doc(t, "NC-2", "2024-01-20", credit, "F-101"),
		doc(t, "NC-7", "2024-02-01", credit, ""),
	}

	rows := invoicechain.SelectRoots(all, all)

	for _, r := range rows {
		if r.Invoice.IsCreditNote() {
			assert.Equal(t, "NC-7", r.Invoice.ID, "solo la nota huérfana puede ser fila principal")
		}
	}
	assert.Equal(t, []string{"F-100", "F-101", "NC-7"}, rowIDs(rows))
}

// Nota enlazada que resulta ser el documento más antiguo de su cadena: ninguna regla la
// promueve y el filtro final la descarta.
func TestSelectRoots_NotaEnlazadaQueEsMaestroNoSeMuestra(t *testing.T) {
	all := []*entity.Invoice{
		doc(t, "NC-1", "2024-01-01", credit, "F-5"),
		doc(t, "F-5", "2024-01-09", sale, ""),
	}

	rows := invoicechain.SelectRoots(all, []*entity.Invoice{all[0]})

	assert.Empty(t, rows)
}

func TestSelectRoots_HijosSoloEnMaestroOAnulado(t *testing.T) {
	all := []*entity.Invoice{
		doc(t, "F-100", "2024-01-05", sale, ""),
		doc(t, "NC-1", "2024-01-10", credit, "F-100"),
		doc(t, "F-101", "2024-01-15", sale, "NC-1"),
		doc(t, "ND-1", "2024-01-20", debit, "F-101"),
	}
	all[2].Status = entity.InvoiceStatusCancelled

	g := invoicechain.NewGraph(all)
	rows := g.SelectRoots([]*entity.Invoice{all[0], all[2], all[3]})
	require.Len(t, rows, 3)

	byID := map[string]invoicechain.Row{}
	for _, r := range rows {
		byID[r.Invoice.ID] = r
	}
	assert.Equal(t, []string{"NC-1", "F-101", "ND-1"}, ids(byID["F-100"].Children), "maestro")
	assert.Equal(t, []string{"F-100", "NC-1", "ND-1"}, ids(byID["F-101"].Children), "anulada")
	assert.Empty(t, byID["ND-1"].Children, "eslabón intermedio")

	for _, r := range rows {
		if len(r.Children) > 0 {
			isMaster := g.Master(r.Invoice.ID).ID == r.Invoice.ID
			assert.True(t, isMaster || r.Invoice.IsCancelled())
		}
	}
}

func TestSelectRoots_MatchFueraDelSnapshot(t *testing.T) {
	f := doc(t, "F-1", "2024-01-01", sale, "")
	extra := doc(t, "F-2", "2024-01-02", sale, "")

	rows := invoicechain.SelectRoots([]*entity.Invoice{f}, []*entity.Invoice{extra, nil})

	require.Len(t, rows, 1)
	assert.Equal(t, "F-2", rows[0].Invoice.ID)
	assert.Empty(t, rows[0].Children)
}

func TestSelectRoots_SinMatches(t *testing.T) {
	all := []*entity.Invoice{doc(t, "F-1", "2024-01-01", sale, "")}
	assert.Empty(t, invoicechain.SelectRoots(all, nil))
}
