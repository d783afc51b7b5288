package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/obras-backoffice/internal/domain"
	"github.com/jhoicas/obras-backoffice/internal/domain/invoicechain"
	"github.com/jhoicas/obras-backoffice/internal/domain/repository"
)

// ChainReportUseCase exporta la cadena de un documento (PDF o XML).
type ChainReportUseCase struct {
	invoices    *InvoiceUseCase
	companyRepo repository.CompanyRepository
	pdf         ChainPDFRenderer
	xml         ChainXMLEncoder
	now         func() time.Time
}

// NewChainReportUseCase construye el caso de uso inyectando sus dependencias.
func NewChainReportUseCase(
	invoices *InvoiceUseCase,
	companyRepo repository.CompanyRepository,
	pdf ChainPDFRenderer,
	xml ChainXMLEncoder,
) *ChainReportUseCase {
	return &ChainReportUseCase{
		invoices:    invoices,
		companyRepo: companyRepo,
		pdf:         pdf,
		xml:         xml,
		now:         time.Now,
	}
}

// Document arma los datos de la cadena del documento id.
//
// Retorna:
//   - domain.ErrNotFound  si el documento (o la empresa) no existe.
//   - domain.ErrForbidden si el documento no pertenece a la empresa del token.
func (uc *ChainReportUseCase) Document(ctx context.Context, companyID, id string) (ChainDocument, error) {
	cluster, err := uc.invoices.cluster(ctx, companyID, id)
	if err != nil {
		return ChainDocument{}, err
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return ChainDocument{}, fmt.Errorf("reporte: obtener empresa: %w", err)
	}
	if company == nil {
		return ChainDocument{}, domain.ErrNotFound
	}
	return ChainDocument{
		Company:     company,
		Master:      cluster[0],
		Invoices:    cluster,
		Balance:     invoicechain.Balance(cluster),
		GeneratedAt: uc.now(),
	}, nil
}

// PDF devuelve el PDF de la cadena y el nombre de archivo sugerido.
func (uc *ChainReportUseCase) PDF(ctx context.Context, companyID, id string) ([]byte, string, error) {
	doc, err := uc.Document(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.RenderChain(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación PDF fallida: %w", err)
	}
	return b, chainFilename(doc, "pdf"), nil
}

// XML devuelve la exportación XML de la cadena y el nombre de archivo sugerido.
func (uc *ChainReportUseCase) XML(ctx context.Context, companyID, id string) ([]byte, string, error) {
	doc, err := uc.Document(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.xml.EncodeChain(doc)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación XML fallida: %w", err)
	}
	return b, chainFilename(doc, "xml"), nil
}

// chainFilename "cadena_F-100.pdf"; caracteres fuera de [A-Za-z0-9-] se reemplazan por "_".
func chainFilename(doc ChainDocument, ext string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, doc.Master.Number)
	return fmt.Sprintf("cadena_%s.%s", safe, ext)
}
