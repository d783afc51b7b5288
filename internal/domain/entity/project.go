package entity

import "time"

// Estados de una obra.
const (
	ProjectStatusActive = "ACTIVE"
	ProjectStatusClosed = "CLOSED"
)

// Project obra o proyecto asociado a un cliente.
type Project struct {
	ID        string
	CompanyID string
	ClientID  string
	Name      string
	Code      string
	Address   string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
