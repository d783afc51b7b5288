package repository

import (
	"context"

	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByCompanyAndRUT(ctx context.Context, companyID, rut string) (*entity.Client, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
}
