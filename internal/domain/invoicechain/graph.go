// Package invoicechain reconstruye las cadenas de documentos (factura original, notas de
// crédito/débito, refacturaciones) a partir de las referencias RelatedInvoiceID y decide qué
// documento de cada cadena se muestra como fila principal de un listado.
//
// Todo el paquete opera sobre un snapshot en memoria: no hace I/O y no devuelve errores.
package invoicechain

import (
	"sort"

	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
)

// Graph grafo no dirigido de documentos relacionados, construido una vez por snapshot.
// Los nodos viven en un arreglo; las aristas son índices a ese arreglo.
type Graph struct {
	nodes []*entity.Invoice
	index map[string]int
	adj   [][]int
}

// NewGraph construye el grafo. Ids duplicados: gana el último.
// Una referencia a un id desconocido no genera arista (el documento queda suelto).
func NewGraph(invoices []*entity.Invoice) *Graph {
	g := &Graph{index: make(map[string]int, len(invoices))}
	for _, inv := range invoices {
		if inv == nil || inv.ID == "" {
			continue
		}
		if i, ok := g.index[inv.ID]; ok {
			g.nodes[i] = inv
			continue
		}
		g.index[inv.ID] = len(g.nodes)
		g.nodes = append(g.nodes, inv)
	}

	g.adj = make([][]int, len(g.nodes))
	for i, inv := range g.nodes {
		if inv.RelatedInvoiceID == "" {
			continue
		}
		j, ok := g.index[inv.RelatedInvoiceID]
		if !ok || j == i {
			continue
		}
		g.adj[i] = append(g.adj[i], j)
		g.adj[j] = append(g.adj[j], i)
	}
	return g
}

// Len cantidad de documentos en el grafo.
func (g *Graph) Len() int { return len(g.nodes) }

// Invoice devuelve el documento con ese id, o nil.
func (g *Graph) Invoice(id string) *entity.Invoice {
	if i, ok := g.index[id]; ok {
		return g.nodes[i]
	}
	return nil
}

// IsLinked informa si RelatedInvoiceID apunta a un documento conocido distinto de sí mismo.
func (g *Graph) IsLinked(inv *entity.Invoice) bool {
	if inv == nil || inv.RelatedInvoiceID == "" || inv.RelatedInvoiceID == inv.ID {
		return false
	}
	_, ok := g.index[inv.RelatedInvoiceID]
	return ok
}

// Cluster devuelve la componente conexa del documento en orden cronológico.
// Id desconocido → nil. Un documento sin enmiendas devuelve un cluster de tamaño 1.
func (g *Graph) Cluster(id string) []*entity.Invoice {
	start, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.collect(g.reach(start, make([]bool, len(g.nodes))))
}

// Master documento más antiguo del cluster, o nil si el id es desconocido.
func (g *Graph) Master(id string) *entity.Invoice {
	c := g.Cluster(id)
	if len(c) == 0 {
		return nil
	}
	return c[0]
}

// Clusters devuelve todas las componentes, cada una ordenada cronológicamente y
// el conjunto ordenado por su documento maestro.
func (g *Graph) Clusters() [][]*entity.Invoice {
	visited := make([]bool, len(g.nodes))
	var out [][]*entity.Invoice
	for i := range g.nodes {
		if visited[i] {
			continue
		}
		out = append(out, g.collect(g.reach(i, visited)))
	}
	sort.SliceStable(out, func(a, b int) bool {
		return chronoLess(out[a][0], out[b][0])
	})
	return out
}

// reach BFS desde start; marca visited y devuelve los índices alcanzados.
func (g *Graph) reach(start int, visited []bool) []int {
	visited[start] = true
	queue := []int{start}
	for head := 0; head < len(queue); head++ {
		for _, n := range g.adj[queue[head]] {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return queue
}

func (g *Graph) collect(idx []int) []*entity.Invoice {
	sort.Slice(idx, func(a, b int) bool {
		na, nb := g.nodes[idx[a]], g.nodes[idx[b]]
		if chronoLess(na, nb) {
			return true
		}
		if chronoLess(nb, na) {
			return false
		}
		return idx[a] < idx[b]
	})
	out := make([]*entity.Invoice, len(idx))
	for k, i := range idx {
		out[k] = g.nodes[i]
	}
	return out
}

// chronoLess orden cronológico: fecha ISO ascendente y, en empate, número de folio ascendente.
func chronoLess(a, b *entity.Invoice) bool {
	da, db := a.DateKey(), b.DateKey()
	if da != db {
		return da < db
	}
	return FolioNumber(a.Number) < FolioNumber(b.Number)
}
