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
	"github.com/jhoicas/obras-backoffice/pkg/rut"
)

// ClientUseCase casos de uso CRUD para clientes (mandantes).
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un cliente. El RUT se valida (dígito verificador) y se guarda normalizado;
// un RUT repetido dentro de la empresa devuelve domain.ErrDuplicate.
func (uc *ClientUseCase) Create(ctx context.Context, companyID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre obligatorio", domain.ErrInvalidInput)
	}
	normalized, err := rut.Normalize(in.RUT)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	existing, err := uc.repo.GetByCompanyAndRUT(ctx, companyID, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      name,
		RUT:       normalized,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Get obtiene un cliente de la empresa.
func (uc *ClientUseCase) Get(ctx context.Context, companyID, id string) (*dto.ClientResponse, error) {
	client, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista clientes de la empresa, ordenados por nombre.
func (uc *ClientUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.ClientListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageOf(page, len(items)),
	}, nil
}

// Update actualiza los campos informados. El RUT no se modifica.
func (uc *ClientUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: nombre obligatorio", domain.ErrInvalidInput)
		}
		client.Name = name
	}
	if in.Email != nil {
		client.Email = *in.Email
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Address != nil {
		client.Address = *in.Address
	}
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Delete elimina el cliente. Con documentos u obras asociadas devuelve domain.ErrConflict.
func (uc *ClientUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.owned(ctx, companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ClientUseCase) owned(ctx context.Context, companyID, id string) (*entity.Client, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if client.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return client, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		RUT:       c.RUT,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
	}
}
