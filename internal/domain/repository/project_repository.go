package repository

import (
	"context"

	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
)

// ProjectRepository define el puerto de persistencia para obras.
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	// ListByCompany filtra por cliente si clientID no está vacío.
	ListByCompany(ctx context.Context, companyID, clientID string, limit, offset int) ([]*entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
}
