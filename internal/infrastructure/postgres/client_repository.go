package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/obras-backoffice/internal/domain"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id::text, company_id::text, name, rut, email, phone, address, created_at, updated_at`

// Create persiste un nuevo cliente. RUT repetido en la empresa → domain.ErrDuplicate.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	const query = `
		INSERT INTO clients (id, company_id, name, rut, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.Name, c.RUT, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert client", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	if !isUUID(id) {
		return nil, nil
	}
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// GetByCompanyAndRUT busca por RUT normalizado dentro de la empresa.
func (r *ClientRepo) GetByCompanyAndRUT(ctx context.Context, companyID, rut string) (*entity.Client, error) {
	if !isUUID(companyID) {
		return nil, nil
	}
	c, err := scanClient(r.q.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE company_id = $1 AND rut = $2`, companyID, rut))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by RUT: %w", err)
	}
	return c, nil
}

// ListByCompany lista clientes ordenados por nombre.
func (r *ClientRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Client, error) {
	if !isUUID(companyID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+clientColumns+` FROM clients
		WHERE company_id = $1
		ORDER BY name, id LIMIT $2 OFFSET $3`, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza datos de contacto y nombre.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE clients SET name = $2, email = $3, phone = $4, address = $5, updated_at = $6
		WHERE id = $1`,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update client", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el cliente. Las FK con ON DELETE RESTRICT impiden borrar clientes con
// documentos u obras: en ese caso devuelve domain.ErrConflict.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete client: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanClient(row pgxScanner) (*entity.Client, error) {
	var c entity.Client
	if err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.RUT, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
