package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obras-backoffice/internal/application/dto"
	"github.com/jhoicas/obras-backoffice/internal/application/usecase"
	"github.com/jhoicas/obras-backoffice/internal/domain"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/infrastructure/memory"
)

func strPtr(s string) *string { return &s }

func TestClientUseCase_CreateNormalizaRUT(t *testing.T) {
	uc := usecase.NewClientUseCase(memory.NewStore().Clients())

	out, err := uc.Create(context.Background(), "e1", dto.CreateClientRequest{Name: " Constructora Andes ", RUT: "76.086.428-5"})
	require.NoError(t, err)

	assert.Equal(t, "76086428-5", out.RUT)
	assert.Equal(t, "Constructora Andes", out.Name)
}

func TestClientUseCase_CreateErrores(t *testing.T) {
	uc := usecase.NewClientUseCase(memory.NewStore().Clients())
	ctx := context.Background()

	_, err := uc.Create(ctx, "e1", dto.CreateClientRequest{Name: "X", RUT: "76.086.428-4"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "dígito verificador")

	_, err = uc.Create(ctx, "e1", dto.CreateClientRequest{Name: "X", RUT: "76086428-5"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "e1", dto.CreateClientRequest{Name: "Y", RUT: "76.086.428-5"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, "e2", dto.CreateClientRequest{Name: "Y", RUT: "76086428-5"})
	assert.NoError(t, err, "el mismo RUT en otra empresa es válido")
}

func TestClientUseCase_UpdateGetDelete(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewClientUseCase(store.Clients())
	ctx := context.Background()
	c, err := uc.Create(ctx, "e1", dto.CreateClientRequest{Name: "Andes", RUT: "11111111-1"})
	require.NoError(t, err)

	out, err := uc.Update(ctx, "e1", c.ID, dto.UpdateClientRequest{Email: strPtr("pagos@andes.cl")})
	require.NoError(t, err)
	assert.Equal(t, "pagos@andes.cl", out.Email)
	assert.Equal(t, "Andes", out.Name)

	_, err = uc.Get(ctx, "e2", c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Delete(ctx, "e1", c.ID))
	_, err = uc.Get(ctx, "e1", c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientUseCase_ListPaginado(t *testing.T) {
	uc := usecase.NewClientUseCase(memory.NewStore().Clients())
	ctx := context.Background()
	for _, in := range []dto.CreateClientRequest{
		{Name: "Beta", RUT: "11111111-1"},
		{Name: "Alfa", RUT: "76086428-5"},
		{Name: "Gama", RUT: "10000013-K"},
	} {
		_, err := uc.Create(ctx, "e1", in)
		require.NoError(t, err)
	}

	out, err := uc.List(ctx, "e1", dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Alfa", out.Items[0].Name)
	assert.Equal(t, 2, out.Page.Limit)
	assert.True(t, out.Page.HasMore)

	out, err = uc.List(ctx, "e1", dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Gama", out.Items[0].Name)
	assert.Equal(t, 1, out.Page.Count)
	assert.False(t, out.Page.HasMore)
}

func TestPageRequest_DefaultPage(t *testing.T) {
	tests := []struct {
		name      string
		in        dto.PageRequest
		wantLimit int
		wantOff   int
	}{
		{"sin límite usa el valor por defecto", dto.PageRequest{}, dto.DefaultPageLimit, 0},
		{"límite sobre el tope se recorta", dto.PageRequest{Limit: 500, Offset: 40}, dto.MaxPageLimit, 40},
		{"offset negativo vuelve a cero", dto.PageRequest{Limit: 10, Offset: -3}, 10, 0},
		{"valores válidos se respetan", dto.PageRequest{Limit: 50, Offset: 100}, 50, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.DefaultPage()
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOff, p.Offset)
		})
	}
}

func TestProjectUseCase_CicloDeVida(t *testing.T) {
	store := memory.NewStore()
	clients := usecase.NewClientUseCase(store.Clients())
	uc := usecase.NewProjectUseCase(store.Projects(), store.Clients())
	ctx := context.Background()
	c, err := clients.Create(ctx, "e1", dto.CreateClientRequest{Name: "Andes", RUT: "11111111-1"})
	require.NoError(t, err)

	p, err := uc.Create(ctx, "e1", dto.CreateProjectRequest{ClientID: c.ID, Name: "Edificio Los Robles", StartDate: "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStatusActive, p.Status)
	assert.Equal(t, "2024-03-01", p.StartDate)

	p, err = uc.Update(ctx, "e1", p.ID, dto.UpdateProjectRequest{Code: strPtr("OB-12")})
	require.NoError(t, err)
	assert.Equal(t, "OB-12", p.Code)

	closed, err := uc.Close(ctx, "e1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStatusClosed, closed.Status)
	assert.NotEmpty(t, closed.EndDate)

	_, err = uc.Close(ctx, "e1", p.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.Update(ctx, "e1", p.ID, dto.UpdateProjectRequest{Name: strPtr("otro")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	list, err := uc.List(ctx, "e1", c.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	// el cliente con obras no se puede borrar
	assert.ErrorIs(t, clients.Delete(ctx, "e1", c.ID), domain.ErrConflict)
}

func TestProjectUseCase_ClienteDeOtraEmpresa(t *testing.T) {
	store := memory.NewStore()
	c, err := usecase.NewClientUseCase(store.Clients()).Create(context.Background(), "e2", dto.CreateClientRequest{Name: "Andes", RUT: "11111111-1"})
	require.NoError(t, err)

	_, err = usecase.NewProjectUseCase(store.Projects(), store.Clients()).
		Create(context.Background(), "e1", dto.CreateProjectRequest{ClientID: c.ID, Name: "Obra"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompanyUseCase_CreateActivaModulos(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCompanyUseCase(store.Companies())
	modules := usecase.NewModuleService(store.Companies())
	ctx := context.Background()

	c, err := uc.Create(ctx, dto.CreateCompanyRequest{Name: "Obras SpA", RUT: "76.086.428-5", Modules: []string{entity.ModuleBilling}})
	require.NoError(t, err)
	assert.Equal(t, "76086428-5", c.RUT)

	ok, err := modules.HasActiveModule(ctx, c.ID, entity.ModuleBilling)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = modules.HasActiveModule(ctx, c.ID, entity.ModuleProjects)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, modules.Activate(ctx, c.ID, entity.ModuleProjects))
	ok, _ = modules.HasActiveModule(ctx, c.ID, entity.ModuleProjects)
	assert.True(t, ok)

	_, err = modules.HasActiveModule(ctx, c.ID, "inventory")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateCompanyRequest{Name: "Otra", RUT: "76086428-5"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
