package dto

// CreateProjectRequest body para POST /api/projects.
type CreateProjectRequest struct {
	ClientID  string `json:"client_id" validate:"required,uuid"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Code      string `json:"code,omitempty" validate:"max=40"`
	Address   string `json:"address,omitempty"`
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateProjectRequest body para PUT /api/projects/:id (campos opcionales).
type UpdateProjectRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Code      *string `json:"code" validate:"omitempty,max=40"`
	Address   *string `json:"address"`
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// ProjectResponse obra en respuestas.
type ProjectResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	ClientID  string `json:"client_id"`
	Name      string `json:"name"`
	Code      string `json:"code,omitempty"`
	Address   string `json:"address,omitempty"`
	Status    string `json:"status"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// ProjectListResponse lista paginada de obras.
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
