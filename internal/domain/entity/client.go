package entity

import "time"

// Client mandante o cliente de la empresa.
type Client struct {
	ID        string
	CompanyID string
	Name      string
	RUT       string // normalizado "12345678-5"
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
