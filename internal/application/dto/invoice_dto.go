package dto

import "github.com/shopspring/decimal"

// CreateInvoiceRequest body para POST /api/invoices.
// IVA y Total son opcionales: si no vienen se calculan desde Net con la tasa configurada.
// Annuls solo aplica a notas de crédito: marca como anulado el documento referenciado.
type CreateInvoiceRequest struct {
	Number           string           `json:"number" validate:"required,max=40"`
	Date             string           `json:"date" validate:"required,datetime=2006-01-02"`
	Type             string           `json:"type" validate:"required,oneof=SALE PURCHASE CREDIT_NOTE DEBIT_NOTE DISPATCH_GUIDE"`
	ClientID         string           `json:"client_id,omitempty" validate:"omitempty,uuid"`
	ProjectID        string           `json:"project_id,omitempty" validate:"omitempty,uuid"`
	RelatedInvoiceID string           `json:"related_invoice_id,omitempty"`
	Description      string           `json:"description,omitempty" validate:"max=500"`
	Net              decimal.Decimal  `json:"net" validate:"min=0"`
	IVA              *decimal.Decimal `json:"iva,omitempty"`
	Total            *decimal.Decimal `json:"total,omitempty"`
	Paid             bool             `json:"paid"`
	Annuls           bool             `json:"annuls"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id (reemplazo completo).
type UpdateInvoiceRequest struct {
	Number           string           `json:"number" validate:"required,max=40"`
	Date             string           `json:"date" validate:"required,datetime=2006-01-02"`
	Type             string           `json:"type" validate:"required,oneof=SALE PURCHASE CREDIT_NOTE DEBIT_NOTE DISPATCH_GUIDE"`
	Status           string           `json:"status" validate:"required,oneof=ISSUED PAID CANCELLED"`
	ClientID         string           `json:"client_id,omitempty" validate:"omitempty,uuid"`
	ProjectID        string           `json:"project_id,omitempty" validate:"omitempty,uuid"`
	RelatedInvoiceID string           `json:"related_invoice_id,omitempty"`
	Description      string           `json:"description,omitempty" validate:"max=500"`
	Net              decimal.Decimal  `json:"net" validate:"min=0"`
	IVA              *decimal.Decimal `json:"iva,omitempty"`
	Total            *decimal.Decimal `json:"total,omitempty"`
	Paid             bool             `json:"paid"`
}

// InvoiceQuery parámetros de GET /api/invoices.
type InvoiceQuery struct {
	Term     string `query:"q"`
	Type     string `query:"type" validate:"omitempty,oneof=SALE PURCHASE CREDIT_NOTE DEBIT_NOTE DISPATCH_GUIDE"`
	ClientID string `query:"client_id"`
	From     string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	MinTotal string `query:"min_total" validate:"omitempty,number"`
	MaxTotal string `query:"max_total" validate:"omitempty,number"`
	Sort     string `query:"sort"`
	Dir      string `query:"dir"`
	// Toggle columna pulsada en la cabecera: misma columna que Sort invierte Dir, otra ordena ascendente.
	Toggle string `query:"toggle" validate:"omitempty,oneof=folio date client total payment type"`
}

// InvoiceResponse documento en respuestas.
type InvoiceResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	ClientID         string          `json:"client_id,omitempty"`
	ClientName       string          `json:"client_name,omitempty"`
	ProjectID        string          `json:"project_id,omitempty"`
	Number           string          `json:"number"`
	Date             string          `json:"date"`
	Type             string          `json:"type"`
	RelatedInvoiceID string          `json:"related_invoice_id,omitempty"`
	Status           string          `json:"status"`
	Paid             bool            `json:"paid"`
	Description      string          `json:"description,omitempty"`
	Net              decimal.Decimal `json:"net"`
	IVA              decimal.Decimal `json:"iva"`
	Total            decimal.Decimal `json:"total"`
}

// InvoiceRowResponse fila principal del listado con su historial colapsable.
type InvoiceRowResponse struct {
	InvoiceResponse
	Children []InvoiceResponse `json:"children"`
}

// InvoiceListResponse respuesta de GET /api/invoices.
type InvoiceListResponse struct {
	Items []InvoiceRowResponse `json:"items"`
	Sort  string               `json:"sort"`
	Dir   string               `json:"dir"`
}

// ChainResponse cadena completa de un documento en orden cronológico.
type ChainResponse struct {
	MasterID string            `json:"master_id"`
	Invoices []InvoiceResponse `json:"invoices"`
}
