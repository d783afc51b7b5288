package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato ISO de las fechas de emisión; el orden lexicográfico coincide con el cronológico.
const DateLayout = "2006-01-02"

// InvoiceType tipo de documento tributario.
type InvoiceType string

const (
	InvoiceTypeSale          InvoiceType = "SALE"
	InvoiceTypePurchase      InvoiceType = "PURCHASE"
	InvoiceTypeCreditNote    InvoiceType = "CREDIT_NOTE"
	InvoiceTypeDebitNote     InvoiceType = "DEBIT_NOTE"
	InvoiceTypeDispatchGuide InvoiceType = "DISPATCH_GUIDE" // guía de despacho, no modifica montos
)

// Valid informa si el tipo es uno de los conocidos.
func (t InvoiceType) Valid() bool {
	switch t {
	case InvoiceTypeSale, InvoiceTypePurchase, InvoiceTypeCreditNote, InvoiceTypeDebitNote, InvoiceTypeDispatchGuide:
		return true
	}
	return false
}

// InvoiceStatus estado del documento.
type InvoiceStatus string

const (
	InvoiceStatusIssued    InvoiceStatus = "ISSUED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED" // anulada; sigue formando parte de su cadena
)

// Valid informa si el estado es uno de los conocidos.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice documento tributario (factura, nota de crédito/débito, guía) de una empresa.
type Invoice struct {
	ID               string
	CompanyID        string
	ClientID         string // vacío en compras sin cliente asociado
	ClientName       string // desnormalizado desde clients.name al leer
	ProjectID        string
	Number           string // folio
	Date             time.Time
	Type             InvoiceType
	RelatedInvoiceID string // documento que esta modifica o continúa; vacío si es original
	Status           InvoiceStatus
	Paid             bool
	Description      string
	Net              decimal.Decimal
	IVA              decimal.Decimal
	Total            decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DateKey fecha de emisión como "YYYY-MM-DD".
func (i *Invoice) DateKey() string {
	return i.Date.Format(DateLayout)
}

// IsCreditNote informa si el documento es una nota de crédito.
func (i *Invoice) IsCreditNote() bool {
	return i.Type == InvoiceTypeCreditNote
}

// IsCancelled informa si el documento está anulado.
func (i *Invoice) IsCancelled() bool {
	return i.Status == InvoiceStatusCancelled
}
