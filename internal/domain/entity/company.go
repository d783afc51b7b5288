package entity

import "time"

// Company representa una organización/tenant del sistema.
type Company struct {
	ID        string
	Name      string
	RUT       string
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Módulos contratables (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModuleBilling  = "billing"
	ModuleProjects = "projects"
)
