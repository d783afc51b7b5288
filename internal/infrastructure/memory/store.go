// Package memory implementa los puertos de persistencia en memoria, para pruebas y para
// analizar exportaciones sin base de datos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/obras-backoffice/internal/application/billing"
	"github.com/jhoicas/obras-backoffice/internal/domain"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.ClientRepository  = (*ClientRepo)(nil)
	_ repository.ProjectRepository = (*ProjectRepo)(nil)
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ billing.InvoiceTxRunner      = (*Store)(nil)
)

type state struct {
	invoices  map[string]entity.Invoice
	order     []string // orden de inserción de invoices
	clients   map[string]entity.Client
	projects  map[string]entity.Project
	companies map[string]entity.Company
	modules   map[string]map[string]bool // companyID -> módulo -> activo
}

func (s *state) clone() *state {
	c := &state{
		invoices:  make(map[string]entity.Invoice, len(s.invoices)),
		order:     append([]string(nil), s.order...),
		clients:   s.clients,
		projects:  s.projects,
		companies: s.companies,
		modules:   s.modules,
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	return c
}

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: &state{
		invoices:  map[string]entity.Invoice{},
		clients:   map[string]entity.Client{},
		projects:  map[string]entity.Project{},
		companies: map[string]entity.Company{},
		modules:   map[string]map[string]bool{},
	}}
}

// Invoices repositorio de documentos.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{store: s} }

// Clients repositorio de clientes.
func (s *Store) Clients() *ClientRepo { return &ClientRepo{store: s} }

// Projects repositorio de obras.
func (s *Store) Projects() *ProjectRepo { return &ProjectRepo{store: s} }

// Companies repositorio de empresas.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{store: s} }

// RunInvoices ejecuta fn sobre una copia de los documentos; solo si fn no falla la copia
// reemplaza al estado vigente.
func (s *Store) RunInvoices(ctx context.Context, fn func(repo repository.InvoiceRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.st.clone()
	if err := fn(&InvoiceRepo{tx: tx}); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// InvoiceRepo documentos en memoria. Dentro de RunInvoices opera sobre la copia de la transacción
// (tx != nil, el store ya está bloqueado).
type InvoiceRepo struct {
	store *Store
	tx    *state
}

func (r *InvoiceRepo) read(fn func(st *state)) {
	if r.tx != nil {
		fn(r.tx)
		return
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	fn(r.store.st)
}

func (r *InvoiceRepo) write(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(r.store.st)
}

// Create inserta el documento; folio repetido para la misma empresa y tipo → domain.ErrDuplicate.
func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.write(func(st *state) error {
		if _, ok := st.invoices[inv.ID]; ok {
			return domain.ErrDuplicate
		}
		if duplicateFolio(st, inv) {
			return domain.ErrDuplicate
		}
		st.invoices[inv.ID] = *inv
		st.order = append(st.order, inv.ID)
		return nil
	})
}

// Update reemplaza el documento.
func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	return r.write(func(st *state) error {
		if _, ok := st.invoices[inv.ID]; !ok {
			return domain.ErrNotFound
		}
		if duplicateFolio(st, inv) {
			return domain.ErrDuplicate
		}
		st.invoices[inv.ID] = *inv
		return nil
	})
}

// UpdateStatus cambia solo el estado.
func (r *InvoiceRepo) UpdateStatus(_ context.Context, id string, status entity.InvoiceStatus, updatedAt time.Time) error {
	return r.write(func(st *state) error {
		inv, ok := st.invoices[id]
		if !ok {
			return domain.ErrNotFound
		}
		inv.Status = status
		inv.UpdatedAt = updatedAt
		st.invoices[id] = inv
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	r.read(func(st *state) {
		if inv, ok := st.invoices[id]; ok {
			out = withClientName(st, inv)
		}
	})
	return out, nil
}

// ListByCompany documentos de la empresa en orden de inserción.
func (r *InvoiceRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	r.read(func(st *state) {
		for _, id := range st.order {
			if inv := st.invoices[id]; inv.CompanyID == companyID {
				out = append(out, withClientName(st, inv))
			}
		}
	})
	return out, nil
}

func duplicateFolio(st *state, inv *entity.Invoice) bool {
	for id, other := range st.invoices {
		if id != inv.ID && other.CompanyID == inv.CompanyID && other.Type == inv.Type && other.Number == inv.Number {
			return true
		}
	}
	return false
}

// withClientName copia el documento y completa ClientName como lo hace el JOIN en PostgreSQL.
func withClientName(st *state, inv entity.Invoice) *entity.Invoice {
	if c, ok := st.clients[inv.ClientID]; ok {
		inv.ClientName = c.Name
	}
	return &inv
}

// ClientRepo clientes en memoria.
type ClientRepo struct{ store *Store }

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, other := range r.store.st.clients {
		if other.CompanyID == c.CompanyID && other.RUT == c.RUT {
			return domain.ErrDuplicate
		}
	}
	r.store.st.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if c, ok := r.store.st.clients[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *ClientRepo) GetByCompanyAndRUT(_ context.Context, companyID, rut string) (*entity.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, c := range r.store.st.clients {
		if c.CompanyID == companyID && c.RUT == rut {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

// ListByCompany ordena por nombre, como la consulta SQL.
func (r *ClientRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var all []*entity.Client
	for _, c := range r.store.st.clients {
		if c.CompanyID == companyID {
			c := c
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.st.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.st.clients[c.ID] = *c
	return nil
}

// Delete falla con domain.ErrConflict si el cliente tiene documentos u obras (FK RESTRICT).
func (r *ClientRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.st.clients[id]; !ok {
		return domain.ErrNotFound
	}
	for _, inv := range r.store.st.invoices {
		if inv.ClientID == id {
			return domain.ErrConflict
		}
	}
	for _, p := range r.store.st.projects {
		if p.ClientID == id {
			return domain.ErrConflict
		}
	}
	delete(r.store.st.clients, id)
	return nil
}

// ProjectRepo obras en memoria.
type ProjectRepo struct{ store *Store }

func (r *ProjectRepo) Create(_ context.Context, p *entity.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.st.projects[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.store.st.projects[p.ID] = *p
	return nil
}

func (r *ProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if p, ok := r.store.st.projects[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *ProjectRepo) ListByCompany(_ context.Context, companyID, clientID string, limit, offset int) ([]*entity.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var all []*entity.Project
	for _, p := range r.store.st.projects {
		if p.CompanyID == companyID && (clientID == "" || p.ClientID == clientID) {
			p := p
			all = append(all, &p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

func (r *ProjectRepo) Update(_ context.Context, p *entity.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.st.projects[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.st.projects[p.ID] = *p
	return nil
}

// CompanyRepo empresas en memoria.
type CompanyRepo struct{ store *Store }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, other := range r.store.st.companies {
		if other.RUT == c.RUT {
			return domain.ErrDuplicate
		}
	}
	r.store.st.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if c, ok := r.store.st.companies[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *CompanyRepo) GetByRUT(_ context.Context, rut string) (*entity.Company, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, c := range r.store.st.companies {
		if c.RUT == rut {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var all []*entity.Company
	for _, c := range r.store.st.companies {
		c := c
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

func (r *CompanyRepo) ActivateModule(_ context.Context, companyID, moduleName string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.st.companies[companyID]; !ok {
		return domain.ErrNotFound
	}
	if r.store.st.modules[companyID] == nil {
		r.store.st.modules[companyID] = map[string]bool{}
	}
	r.store.st.modules[companyID][moduleName] = true
	return nil
}

func (r *CompanyRepo) HasActiveModule(_ context.Context, companyID, moduleName string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.st.modules[companyID][moduleName], nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
