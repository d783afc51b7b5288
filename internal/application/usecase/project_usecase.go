package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/obras-backoffice/internal/application/dto"
	"github.com/jhoicas/obras-backoffice/internal/domain"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/domain/repository"
)

// ProjectUseCase casos de uso para obras.
type ProjectUseCase struct {
	repo       repository.ProjectRepository
	clientRepo repository.ClientRepository
	now        func() time.Time
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(repo repository.ProjectRepository, clientRepo repository.ClientRepository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo, clientRepo: clientRepo, now: time.Now}
}

// Create crea una obra activa para un cliente de la empresa.
func (uc *ProjectUseCase) Create(ctx context.Context, companyID string, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre obligatorio", domain.ErrInvalidInput)
	}
	client, err := uc.clientRepo.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil || client.CompanyID != companyID {
		return nil, fmt.Errorf("%w: cliente %s no existe", domain.ErrInvalidInput, in.ClientID)
	}
	start, err := parseOptionalDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	project := &entity.Project{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		ClientID:  client.ID,
		Name:      name,
		Code:      strings.TrimSpace(in.Code),
		Address:   in.Address,
		Status:    entity.ProjectStatusActive,
		StartDate: start,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// Get obtiene una obra de la empresa.
func (uc *ProjectUseCase) Get(ctx context.Context, companyID, id string) (*dto.ProjectResponse, error) {
	project, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// List lista obras de la empresa; clientID vacío = todas.
func (uc *ProjectUseCase) List(ctx context.Context, companyID, clientID string, page dto.PageRequest) (*dto.ProjectListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, clientID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProjectResponse(p))
	}
	return &dto.ProjectListResponse{
		Items: items,
		Page:  dto.PageOf(page, len(items)),
	}, nil
}

// Update actualiza los campos informados. Una obra cerrada no se modifica.
func (uc *ProjectUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if project.Status == entity.ProjectStatusClosed {
		return nil, fmt.Errorf("%w: la obra está cerrada", domain.ErrConflict)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: nombre obligatorio", domain.ErrInvalidInput)
		}
		project.Name = name
	}
	if in.Code != nil {
		project.Code = strings.TrimSpace(*in.Code)
	}
	if in.Address != nil {
		project.Address = *in.Address
	}
	if in.StartDate != nil {
		start, err := parseOptionalDate(*in.StartDate)
		if err != nil {
			return nil, err
		}
		project.StartDate = start
	}
	project.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// Close cierra la obra con fecha de término hoy. Cerrar una obra cerrada devuelve domain.ErrConflict.
func (uc *ProjectUseCase) Close(ctx context.Context, companyID, id string) (*dto.ProjectResponse, error) {
	project, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if project.Status == entity.ProjectStatusClosed {
		return nil, fmt.Errorf("%w: la obra ya está cerrada", domain.ErrConflict)
	}
	now := uc.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	project.Status = entity.ProjectStatusClosed
	project.EndDate = &end
	project.UpdatedAt = now
	if err := uc.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (uc *ProjectUseCase) owned(ctx context.Context, companyID, id string) (*entity.Project, error) {
	project, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	if project.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return project, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q, se espera YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return &d, nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(entity.DateLayout)
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		ClientID:  p.ClientID,
		Name:      p.Name,
		Code:      p.Code,
		Address:   p.Address,
		Status:    p.Status,
		StartDate: formatOptionalDate(p.StartDate),
		EndDate:   formatOptionalDate(p.EndDate),
	}
}
