package repository

import (
	"context"
	"time"

	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para documentos tributarios.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update reemplaza el registro completo (PUT).
	Update(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, id string, status entity.InvoiceStatus, updatedAt time.Time) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// ListByCompany devuelve todos los documentos de la empresa (snapshot completo).
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error)
}
