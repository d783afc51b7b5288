package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/domain/repository"
)

// InvoiceTxRunner ejecuta fn dentro de una transacción; si fn devuelve error se hace rollback.
type InvoiceTxRunner interface {
	RunInvoices(ctx context.Context, fn func(repo repository.InvoiceRepository) error) error
}

// SnapshotCache caché opcional del snapshot de documentos de una empresa.
// Get devuelve ok=false si no hay entrada (o expiró).
//
// Cada empresa tiene una generación que Invalidate incrementa. Set recibe la generación
// leída antes de consultar la base y solo escribe si no cambió entre medio; si cambió
// devuelve stored=false y la entrada queda vacía.
type SnapshotCache interface {
	Get(ctx context.Context, companyID string) (invoices []*entity.Invoice, ok bool, err error)
	Generation(ctx context.Context, companyID string) (int64, error)
	Set(ctx context.Context, companyID string, generation int64, invoices []*entity.Invoice) (stored bool, err error)
	Invalidate(ctx context.Context, companyID string) error
}

// ChainDocument datos de una cadena listos para exportar.
type ChainDocument struct {
	Company     *entity.Company
	Master      *entity.Invoice
	Invoices    []*entity.Invoice // orden cronológico, Invoices[0] == Master
	Balance     decimal.Decimal   // total vigente: documentos no anulados, notas de crédito restan
	GeneratedAt time.Time
}

// ChainPDFRenderer genera la representación PDF de una cadena.
type ChainPDFRenderer interface {
	RenderChain(ctx context.Context, doc ChainDocument) ([]byte, error)
}

// ChainXMLEncoder serializa una cadena como XML.
type ChainXMLEncoder interface {
	EncodeChain(doc ChainDocument) ([]byte, error)
}
