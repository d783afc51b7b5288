package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/obras-backoffice/internal/domain"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// related_invoice_id no tiene FK: el folio referenciado puede haberse importado después
// o no existir; la cadena lo trata como referencia colgante.
const invoiceColumns = `
	i.id::text, i.company_id::text, COALESCE(i.client_id::text, ''), COALESCE(c.name, ''),
	COALESCE(i.project_id::text, ''), i.number, i.date, i.type,
	COALESCE(i.related_invoice_id, ''), i.status, i.paid, i.description,
	i.net, i.iva, i.total, i.created_at, i.updated_at`

const invoiceFrom = `
	FROM invoices i
	LEFT JOIN clients c ON c.id = i.client_id`

// Create persiste el documento. Folio repetido (empresa, tipo, número) → domain.ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	const query = `
		INSERT INTO invoices (id, company_id, client_id, project_id, number, date, type,
		                      related_invoice_id, status, paid, description, net, iva, total,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, nullIfEmpty(inv.ClientID), nullIfEmpty(inv.ProjectID),
		inv.Number, dateOnly(inv.Date), string(inv.Type),
		nullIfEmpty(inv.RelatedInvoiceID), string(inv.Status), inv.Paid, inv.Description,
		inv.Net, inv.IVA, inv.Total,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert invoice", err)
	}
	return nil
}

// Update reemplaza todos los campos editables.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	const query = `
		UPDATE invoices
		SET client_id          = $2,
		    project_id         = $3,
		    number             = $4,
		    date               = $5,
		    type               = $6,
		    related_invoice_id = $7,
		    status             = $8,
		    paid               = $9,
		    description        = $10,
		    net                = $11,
		    iva                = $12,
		    total              = $13,
		    updated_at         = $14
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		inv.ID, nullIfEmpty(inv.ClientID), nullIfEmpty(inv.ProjectID),
		inv.Number, dateOnly(inv.Date), string(inv.Type),
		nullIfEmpty(inv.RelatedInvoiceID), string(inv.Status), inv.Paid, inv.Description,
		inv.Net, inv.IVA, inv.Total, inv.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update invoice", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia solo el estado (anulación).
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id string, status entity.InvoiceStatus, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un documento por ID; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + invoiceColumns + invoiceFrom + ` WHERE i.id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ListByCompany snapshot completo de la empresa, ordenado por fecha y folio.
func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error) {
	if !isUUID(companyID) {
		return nil, nil
	}
	query := `SELECT ` + invoiceColumns + invoiceFrom + `
		WHERE i.company_id = $1
		ORDER BY i.date, i.number, i.id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvoice(row pgxScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var typ, status string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.ClientID, &inv.ClientName,
		&inv.ProjectID, &inv.Number, &inv.Date, &typ,
		&inv.RelatedInvoiceID, &status, &inv.Paid, &inv.Description,
		&inv.Net, &inv.IVA, &inv.Total, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Type = entity.InvoiceType(typ)
	inv.Status = entity.InvoiceStatus(status)
	return &inv, nil
}

// mapWriteError traduce violaciones de constraints a errores de dominio.
func mapWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}
