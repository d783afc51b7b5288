package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/obras-backoffice/internal/domain"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación de ProjectRepository (usable con pool o tx).
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

const projectColumns = `id::text, company_id::text, client_id::text, name, code, address, status,
	start_date, end_date, created_at, updated_at`

func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	const query = `
		INSERT INTO projects (id, company_id, client_id, name, code, address, status,
		                      start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.ClientID, p.Name, p.Code, p.Address, p.Status,
		p.StartDate, p.EndDate, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert project", err)
	}
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	if !isUUID(id) {
		return nil, nil
	}
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// ListByCompany filtra por cliente si clientID no está vacío.
func (r *ProjectRepo) ListByCompany(ctx context.Context, companyID, clientID string, limit, offset int) ([]*entity.Project, error) {
	if !isUUID(companyID) || (clientID != "" && !isUUID(clientID)) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE company_id = $1 AND ($2::uuid IS NULL OR client_id = $2::uuid)
		ORDER BY name, id LIMIT $3 OFFSET $4`,
		companyID, nullIfEmpty(clientID), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var list []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE projects
		SET name = $2, code = $3, address = $4, status = $5, start_date = $6, end_date = $7, updated_at = $8
		WHERE id = $1`,
		p.ID, p.Name, p.Code, p.Address, p.Status, p.StartDate, p.EndDate, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update project", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProject(row pgxScanner) (*entity.Project, error) {
	var p entity.Project
	err := row.Scan(&p.ID, &p.CompanyID, &p.ClientID, &p.Name, &p.Code, &p.Address, &p.Status,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
