package invoicechain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/domain/invoicechain"
)

const (
	sale   = entity.InvoiceTypeSale
	credit = entity.InvoiceTypeCreditNote
	debit  = entity.InvoiceTypeDebitNote
)

func TestCluster_CierreDesdeCualquierMiembro(t *testing.T) {
	all := []*entity.Invoice{
		doc(t, "F-100", "2024-01-05", sale, ""),
		doc(t, "NC-1", "2024-01-10", credit, "F-100"),
		doc(t, "F-101", "2024-01-15", sale, "NC-1"),
		doc(t, "ND-3", "2024-01-20", debit, "F-101"),
		doc(t, "F-200", "2024-01-06", sale, ""),
	}
	g := invoicechain.NewGraph(all)

	want := []string{"F-100", "NC-1", "F-101", "ND-3"}
	for _, id := range want {
		assert.Equal(t, want, ids(g.Cluster(id)), "cluster consultado desde %s", id)
	}
	assert.Equal(t, []string{"F-200"}, ids(g.Cluster("F-200")))
}

func TestCluster_OrdenCronologico(t *testing.T) {
	// Insertados desordenados; el orden del cluster depende solo de fecha y folio.
	all := []*entity.Invoice{
		doc(t, "ND-3", "2024-03-01", debit, "F-1"),
		doc(t, "NC-2", "2024-02-01", credit, "F-1"),
		doc(t, "F-1", "2024-01-01", sale, ""),
	}
	g := invoicechain.NewGraph(all)

	cluster := g.Cluster("ND-3")
	require.Len(t, cluster, 3)
	assert.Equal(t, []string{"F-1", "NC-2", "ND-3"}, ids(cluster))
	for i := 1; i < len(cluster); i++ {
		assert.LessOrEqual(t, cluster[i-1].DateKey(), cluster[i].DateKey())
	}
	assert.Equal(t, "F-1", g.Master("NC-2").ID, "el maestro es cluster[0]")
}

func TestCluster_DesempateFolioNumerico(t *testing.T) {
	// Mismo día: F-7 antes que F-12 (7 < 12), no el orden lexicográfico "12" < "7".
	all := []*entity.Invoice{
		doc(t, "F-12", "2024-02-01", sale, ""),
		doc(t, "F-7", "2024-02-01", sale, "F-12"),
	}
	g := invoicechain.NewGraph(all)

	assert.Equal(t, []string{"F-7", "F-12"}, ids(g.Cluster("F-12")))
	assert.Equal(t, "F-7", g.Master("F-12").ID)
}

func TestCluster_ReferenciaColgante(t *testing.T) {
	x := doc(t, "X", "2024-05-01", sale, "nonexistent-id")
	g := invoicechain.NewGraph([]*entity.Invoice{x})

	assert.NotPanics(t, func() { g.Cluster("X") })
	assert.Equal(t, []string{"X"}, ids(g.Cluster("X")))
	assert.False(t, g.IsLinked(x))
}

func TestCluster_CiclosYMultiplesPadres(t *testing.T) {
	all := []*entity.Invoice{
		doc(t, "A", "2024-01-01", sale, "C"),
		doc(t, "B", "2024-01-02", credit, "A"),
		doc(t, "C", "2024-01-03", debit, "B"),
		doc(t, "D", "2024-01-04", credit, "A"),
		doc(t, "E", "2024-01-05", credit, "A"),
	}
	g := invoicechain.NewGraph(all)

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, ids(g.Cluster("C")))
}

func TestCluster_AutoReferenciaYDesconocido(t *testing.T) {
	self := doc(t, "S", "2024-01-01", credit, "S")
	g := invoicechain.NewGraph([]*entity.Invoice{self})

	assert.Equal(t, []string{"S"}, ids(g.Cluster("S")))
	assert.False(t, g.IsLinked(self))
	assert.Nil(t, g.Cluster("no-existe"))
	assert.Nil(t, g.Master("no-existe"))
}

func TestNewGraph_IdDuplicadoGanaElUltimo(t *testing.T) {
	first := doc(t, "F-1", "2024-01-01", sale, "")
	second := doc(t, "F-1", "2024-01-01", sale, "")
	second.Description = "versión nueva"

	g := invoicechain.NewGraph([]*entity.Invoice{first, nil, second})

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, "versión nueva", g.Invoice("F-1").Description)
}

func TestClusters_TodasLasComponentes(t *testing.T) {
	all := []*entity.Invoice{
		doc(t, "F-300", "2024-03-01", sale, ""),
		doc(t, "NC-5", "2024-03-05", credit, "F-300"),
		doc(t, "F-100", "2024-01-01", sale, ""),
		doc(t, "F-200", "2024-02-01", sale, "ghost"),
	}
	clusters := invoicechain.NewGraph(all).Clusters()

	require.Len(t, clusters, 3)
	assert.Equal(t, []string{"F-100"}, ids(clusters[0]))
	assert.Equal(t, []string{"F-200"}, ids(clusters[1]))
	assert.Equal(t, []string{"F-300", "NC-5"}, ids(clusters[2]))
}
