package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/obras-backoffice/internal/domain"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/domain/repository"
)

// ModuleService verifica qué módulos contratados tiene activos una empresa.
type ModuleService struct {
	companyRepo repository.CompanyRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(companyRepo repository.CompanyRepository) *ModuleService {
	return &ModuleService{companyRepo: companyRepo}
}

// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
// Devuelve false (sin error) si la empresa no lo tiene contratado; error ante un módulo
// desconocido o un fallo de infraestructura.
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" {
		return false, fmt.Errorf("%w: companyID obligatorio", domain.ErrInvalidInput)
	}
	switch moduleName {
	case entity.ModuleBilling, entity.ModuleProjects:
	default:
		return false, fmt.Errorf("%w: módulo %q", domain.ErrInvalidInput, moduleName)
	}
	return s.companyRepo.HasActiveModule(ctx, companyID, moduleName)
}

// Activate activa un módulo para la empresa.
func (s *ModuleService) Activate(ctx context.Context, companyID, moduleName string) error {
	if _, err := s.HasActiveModule(ctx, companyID, moduleName); err != nil {
		return err
	}
	return s.companyRepo.ActivateModule(ctx, companyID, moduleName)
}
