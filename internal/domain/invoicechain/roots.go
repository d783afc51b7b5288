package invoicechain

import "github.com/jhoicas/obras-backoffice/internal/domain/entity"

// Row fila principal de un listado con su historial colapsable.
type Row struct {
	Invoice  *entity.Invoice
	Children []*entity.Invoice // resto del cluster en orden cronológico; vacío salvo en maestro o anulado
}

// SelectRoots atajo para NewGraph(all).SelectRoots(matches).
func SelectRoots(all, matches []*entity.Invoice) []Row {
	return NewGraph(all).SelectRoots(matches)
}

// SelectRoots decide qué documentos de matches se muestran como filas principales.
//
//   - Un documento que no es nota de crédito se muestra siempre a sí mismo.
//   - Una nota de crédito enlazada redirige al maestro de su cluster; si es huérfana
//     (sin referencia o con referencia a un id desconocido) se muestra a sí misma.
//   - Las notas de crédito enlazadas nunca quedan como fila principal.
//   - Los hijos (cluster menos la fila) solo se adjuntan si la fila es el maestro o está anulada.
//
// Cada id aparece a lo sumo una vez, en el orden en que se encontró por primera vez.
func (g *Graph) SelectRoots(matches []*entity.Invoice) []Row {
	seen := make(map[string]bool, len(matches))
	roots := make([]*entity.Invoice, 0, len(matches))
	add := func(inv *entity.Invoice) {
		if inv == nil || seen[inv.ID] {
			return
		}
		seen[inv.ID] = true
		roots = append(roots, inv)
	}

	for _, m := range matches {
		if m == nil {
			continue
		}
		inv := g.resolve(m)
		if !inv.IsCreditNote() {
			add(inv)
			continue
		}
		master := g.clusterOf(inv)[0]
		if master.ID != inv.ID {
			add(master)
			continue
		}
		if !g.IsLinked(inv) {
			add(inv)
		}
	}

	rows := make([]Row, 0, len(roots))
	for _, root := range roots {
		if root.IsCreditNote() && g.IsLinked(root) {
			continue
		}
		cluster := g.clusterOf(root)
		children := []*entity.Invoice{}
		if cluster[0].ID == root.ID || root.IsCancelled() {
			for _, c := range cluster {
				if c.ID != root.ID {
					children = append(children, c)
				}
			}
		}
		rows = append(rows, Row{Invoice: root, Children: children})
	}
	return rows
}

// resolve prefiere la versión del snapshot; un match ausente del grafo se usa tal cual.
func (g *Graph) resolve(inv *entity.Invoice) *entity.Invoice {
	if known := g.Invoice(inv.ID); known != nil {
		return known
	}
	return inv
}

// clusterOf como Cluster, pero un documento ausente del grafo forma un cluster unitario.
func (g *Graph) clusterOf(inv *entity.Invoice) []*entity.Invoice {
	if c := g.Cluster(inv.ID); len(c) > 0 {
		return c
	}
	return []*entity.Invoice{inv}
}
