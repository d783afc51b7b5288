package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/obras-backoffice/internal/application/dto"
	"github.com/jhoicas/obras-backoffice/internal/domain"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/domain/invoicechain"
	"github.com/jhoicas/obras-backoffice/internal/domain/repository"
	"github.com/jhoicas/obras-backoffice/internal/domain/tax"
)

// InvoiceUseCase casos de uso de documentos tributarios y sus cadenas.
// Las lecturas de listado trabajan sobre el snapshot completo de la empresa; cada
// mutación invalida el snapshot cacheado.
type InvoiceUseCase struct {
	repo        repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	projectRepo repository.ProjectRepository
	txRunner    InvoiceTxRunner
	cache       SnapshotCache // nil = sin caché
	ivaRate     decimal.Decimal
	log         zerolog.Logger
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. cache puede ser nil.
func NewInvoiceUseCase(
	repo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	projectRepo repository.ProjectRepository,
	txRunner InvoiceTxRunner,
	cache SnapshotCache,
	ivaRate decimal.Decimal,
	log zerolog.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		repo:        repo,
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		txRunner:    txRunner,
		cache:       cache,
		ivaRate:     ivaRate,
		log:         log,
		now:         time.Now,
	}
}

// invoiceFields campos comunes de alta y reemplazo, ya normalizados.
type invoiceFields struct {
	Number      string
	Date        time.Time
	Type        entity.InvoiceType
	ClientID    string
	ProjectID   string
	RelatedID   string
	Description string
	Amounts     tax.Amounts
	Paid        bool
}

// Create registra un documento. Si es una nota de crédito con Annuls, el documento
// referenciado queda anulado en la misma transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	f, err := uc.parseFields(in.Number, in.Date, in.Type, in.ClientID, in.ProjectID, in.RelatedInvoiceID, in.Description, in.Net, in.IVA, in.Total, in.Paid)
	if err != nil {
		return nil, err
	}
	if in.Annuls && (f.Type != entity.InvoiceTypeCreditNote || f.RelatedID == "") {
		return nil, fmt.Errorf("%w: solo una nota de crédito con documento referenciado puede anular", domain.ErrInvalidInput)
	}

	invoiceID := uuid.New().String()
	clientName, err := uc.checkReferences(ctx, companyID, invoiceID, f)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	status := entity.InvoiceStatusIssued
	if f.Paid {
		status = entity.InvoiceStatusPaid
	}
	inv := &entity.Invoice{
		ID:               invoiceID,
		CompanyID:        companyID,
		ClientID:         f.ClientID,
		ClientName:       clientName,
		ProjectID:        f.ProjectID,
		Number:           f.Number,
		Date:             f.Date,
		Type:             f.Type,
		RelatedInvoiceID: f.RelatedID,
		Status:           status,
		Paid:             f.Paid,
		Description:      f.Description,
		Net:              f.Amounts.Net,
		IVA:              f.Amounts.IVA,
		Total:            f.Amounts.Total,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = uc.txRunner.RunInvoices(ctx, func(repo repository.InvoiceRepository) error {
		if err := repo.Create(ctx, inv); err != nil {
			return err
		}
		if in.Annuls {
			return repo.UpdateStatus(ctx, f.RelatedID, entity.InvoiceStatusCancelled, now)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("billing: crear documento: %w", err)
	}
	uc.invalidate(ctx, companyID)

	uc.log.Info().Str("company_id", companyID).Str("invoice_id", inv.ID).
		Str("type", string(inv.Type)).Bool("annuls", in.Annuls).Msg("documento creado")
	return toInvoiceResponse(inv), nil
}

// Update reemplaza todos los campos editables del documento.
func (uc *InvoiceUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	existing, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	f, err := uc.parseFields(in.Number, in.Date, in.Type, in.ClientID, in.ProjectID, in.RelatedInvoiceID, in.Description, in.Net, in.IVA, in.Total, in.Paid)
	if err != nil {
		return nil, err
	}
	status := entity.InvoiceStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if !status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	// Estado y pago se mantienen coherentes como en el alta: PAID implica pagado y un
	// documento emitido marcado como pagado pasa a PAID. Uno anulado conserva su estado.
	switch {
	case status == entity.InvoiceStatusPaid:
		f.Paid = true
	case status == entity.InvoiceStatusIssued && f.Paid:
		status = entity.InvoiceStatusPaid
	}
	clientName, err := uc.checkReferences(ctx, companyID, existing.ID, f)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.ClientID = f.ClientID
	updated.ClientName = clientName
	updated.ProjectID = f.ProjectID
	updated.Number = f.Number
	updated.Date = f.Date
	updated.Type = f.Type
	updated.RelatedInvoiceID = f.RelatedID
	updated.Status = status
	updated.Paid = f.Paid
	updated.Description = f.Description
	updated.Net = f.Amounts.Net
	updated.IVA = f.Amounts.IVA
	updated.Total = f.Amounts.Total
	updated.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("billing: actualizar documento: %w", err)
	}
	uc.invalidate(ctx, companyID)
	return toInvoiceResponse(&updated), nil
}

// Get devuelve un documento de la empresa.
func (uc *InvoiceUseCase) Get(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Void anula el documento. Los documentos nunca se borran: siguen formando parte de su cadena.
// Anular un documento ya anulado no hace nada.
func (uc *InvoiceUseCase) Void(ctx context.Context, companyID, id string) error {
	inv, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return err
	}
	if inv.IsCancelled() {
		return nil
	}
	if err := uc.repo.UpdateStatus(ctx, inv.ID, entity.InvoiceStatusCancelled, uc.now()); err != nil {
		return fmt.Errorf("billing: anular documento: %w", err)
	}
	uc.invalidate(ctx, companyID)
	uc.log.Info().Str("company_id", companyID).Str("invoice_id", inv.ID).Msg("documento anulado")
	return nil
}

// Chain devuelve la cadena completa del documento en orden cronológico y su maestro.
func (uc *InvoiceUseCase) Chain(ctx context.Context, companyID, id string) (*dto.ChainResponse, error) {
	cluster, err := uc.cluster(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return &dto.ChainResponse{
		MasterID: cluster[0].ID,
		Invoices: toInvoiceResponses(cluster),
	}, nil
}

// List filtra el snapshot, elige las filas principales y las ordena.
func (uc *InvoiceUseCase) List(ctx context.Context, companyID string, in dto.InvoiceQuery) (*dto.InvoiceListResponse, error) {
	query, err := toChainQuery(in)
	if err != nil {
		return nil, err
	}
	sortCfg := invoicechain.ParseSort(in.Sort, in.Dir)
	if strings.TrimSpace(in.Toggle) != "" {
		key, ok := invoicechain.ParseSortKey(in.Toggle)
		if !ok {
			return nil, fmt.Errorf("%w: columna de orden %q", domain.ErrInvalidInput, in.Toggle)
		}
		sortCfg = invoicechain.ToggleSort(sortCfg, key)
	}

	all, err := uc.Snapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}
	rows := invoicechain.SelectRoots(all, query.Filter(all))
	invoicechain.SortRows(rows, sortCfg)

	items := make([]dto.InvoiceRowResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.InvoiceRowResponse{
			InvoiceResponse: *toInvoiceResponse(r.Invoice),
			Children:        toInvoiceResponses(r.Children),
		})
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Sort:  string(sortCfg.Key),
		Dir:   string(sortCfg.Direction),
	}, nil
}

// Snapshot todos los documentos de la empresa, desde caché si está disponible.
// Una caché caída no impide responder: se registra y se lee de la base.
func (uc *InvoiceUseCase) Snapshot(ctx context.Context, companyID string) ([]*entity.Invoice, error) {
	if uc.cache != nil {
		list, ok, err := uc.cache.Get(ctx, companyID)
		if err != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Msg("caché de documentos no disponible")
		} else if ok {
			return list, nil
		}
	}

	// La generación se lee antes que la base: una mutación que termine durante la lectura
	// la incrementa y el snapshot viejo no se guarda.
	gen, cacheable := int64(0), uc.cache != nil
	if cacheable {
		var err error
		if gen, err = uc.cache.Generation(ctx, companyID); err != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Msg("generación del snapshot no disponible")
			cacheable = false
		}
	}

	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("billing: listar documentos: %w", err)
	}
	if cacheable {
		stored, err := uc.cache.Set(ctx, companyID, gen, list)
		switch {
		case err != nil:
			uc.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo guardar el snapshot en caché")
		case !stored:
			uc.log.Debug().Str("company_id", companyID).Int64("generation", gen).Msg("snapshot descartado: hubo una mutación durante la lectura")
		}
	}
	return list, nil
}

// cluster cadena del documento id dentro del snapshot de la empresa.
func (uc *InvoiceUseCase) cluster(ctx context.Context, companyID, id string) ([]*entity.Invoice, error) {
	all, err := uc.Snapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if c := invoicechain.NewGraph(all).Cluster(id); len(c) > 0 {
		return c, nil
	}
	// Fuera del snapshot: distinguir inexistente de ajeno.
	if _, err := uc.owned(ctx, companyID, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrNotFound
}

// owned carga el documento y verifica que pertenezca a la empresa.
func (uc *InvoiceUseCase) owned(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("billing: obtener documento: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func (uc *InvoiceUseCase) parseFields(
	number, date, typ, clientID, projectID, relatedID, description string,
	net decimal.Decimal, iva, total *decimal.Decimal, paid bool,
) (invoiceFields, error) {
	f := invoiceFields{
		Number:      strings.TrimSpace(number),
		Type:        entity.InvoiceType(strings.ToUpper(strings.TrimSpace(typ))),
		ClientID:    strings.TrimSpace(clientID),
		ProjectID:   strings.TrimSpace(projectID),
		RelatedID:   strings.TrimSpace(relatedID),
		Description: strings.TrimSpace(description),
		Paid:        paid,
	}
	if f.Number == "" {
		return f, fmt.Errorf("%w: folio obligatorio", domain.ErrInvalidInput)
	}
	if !f.Type.Valid() {
		return f, fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, typ)
	}
	d, err := time.Parse(entity.DateLayout, strings.TrimSpace(date))
	if err != nil {
		return f, fmt.Errorf("%w: fecha %q, se espera YYYY-MM-DD", domain.ErrInvalidInput, date)
	}
	f.Date = d

	amounts, err := uc.amounts(net, iva, total)
	if err != nil {
		return f, err
	}
	f.Amounts = amounts
	return f, nil
}

// amounts completa IVA y Total a partir del neto cuando no vienen informados.
func (uc *InvoiceUseCase) amounts(net decimal.Decimal, iva, total *decimal.Decimal) (tax.Amounts, error) {
	if net.IsNegative() {
		return tax.Amounts{}, fmt.Errorf("%w: neto negativo", domain.ErrInvalidInput)
	}
	switch {
	case iva == nil && total == nil:
		return tax.FromNet(net, uc.ivaRate), nil
	case iva != nil && total == nil:
		if iva.IsNegative() {
			return tax.Amounts{}, fmt.Errorf("%w: IVA negativo", domain.ErrInvalidInput)
		}
		return tax.Amounts{Net: net, IVA: *iva, Total: net.Add(*iva)}, nil
	case iva == nil && total != nil:
		derived := total.Sub(net)
		if derived.IsNegative() {
			return tax.Amounts{}, fmt.Errorf("%w: total menor que el neto", domain.ErrInvalidInput)
		}
		return tax.Amounts{Net: net, IVA: derived, Total: *total}, nil
	}
	if !net.Add(*iva).Equal(*total) {
		return tax.Amounts{}, fmt.Errorf("%w: total debe ser neto + IVA", domain.ErrInvalidInput)
	}
	return tax.Amounts{Net: net, IVA: *iva, Total: *total}, nil
}

// checkReferences valida cliente, obra y documento relacionado contra la empresa.
// Devuelve el nombre del cliente para la respuesta.
func (uc *InvoiceUseCase) checkReferences(ctx context.Context, companyID, selfID string, f invoiceFields) (string, error) {
	var clientName string
	if f.ClientID != "" {
		client, err := uc.clientRepo.GetByID(ctx, f.ClientID)
		if err != nil {
			return "", fmt.Errorf("billing: obtener cliente: %w", err)
		}
		if client == nil || client.CompanyID != companyID {
			return "", fmt.Errorf("%w: cliente %s no existe", domain.ErrInvalidInput, f.ClientID)
		}
		clientName = client.Name
	}
	if f.ProjectID != "" {
		project, err := uc.projectRepo.GetByID(ctx, f.ProjectID)
		if err != nil {
			return "", fmt.Errorf("billing: obtener obra: %w", err)
		}
		if project == nil || project.CompanyID != companyID {
			return "", fmt.Errorf("%w: obra %s no existe", domain.ErrInvalidInput, f.ProjectID)
		}
		if f.ClientID != "" && project.ClientID != f.ClientID {
			return "", fmt.Errorf("%w: la obra no pertenece al cliente", domain.ErrInvalidInput)
		}
	}
	if f.RelatedID != "" {
		if f.RelatedID == selfID {
			return "", fmt.Errorf("%w: un documento no puede referenciarse a sí mismo", domain.ErrInvalidInput)
		}
		related, err := uc.repo.GetByID(ctx, f.RelatedID)
		if err != nil {
			return "", fmt.Errorf("billing: obtener documento relacionado: %w", err)
		}
		if related == nil || related.CompanyID != companyID {
			return "", fmt.Errorf("%w: documento relacionado %s no existe", domain.ErrInvalidInput, f.RelatedID)
		}
	}
	return clientName, nil
}

func (uc *InvoiceUseCase) invalidate(ctx context.Context, companyID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, companyID); err != nil {
		uc.log.Error().Err(err).Str("company_id", companyID).Msg("no se pudo invalidar el snapshot en caché")
	}
}

func toChainQuery(in dto.InvoiceQuery) (invoicechain.Query, error) {
	q := invoicechain.Query{
		Term:     in.Term,
		Type:     entity.InvoiceType(strings.ToUpper(strings.TrimSpace(in.Type))),
		ClientID: strings.TrimSpace(in.ClientID),
		DateFrom: strings.TrimSpace(in.From),
		DateTo:   strings.TrimSpace(in.To),
	}
	if q.Type != "" && !q.Type.Valid() {
		return q, fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, in.Type)
	}
	for _, d := range []string{q.DateFrom, q.DateTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(entity.DateLayout, d); err != nil {
			return q, fmt.Errorf("%w: fecha %q, se espera YYYY-MM-DD", domain.ErrInvalidInput, d)
		}
	}
	var err error
	if q.MinTotal, err = parseOptionalDecimal(in.MinTotal); err != nil {
		return q, err
	}
	if q.MaxTotal, err = parseOptionalDecimal(in.MaxTotal); err != nil {
		return q, err
	}
	return q, nil
}

func parseOptionalDecimal(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: monto %q", domain.ErrInvalidInput, s)
	}
	return &d, nil
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:               inv.ID,
		CompanyID:        inv.CompanyID,
		ClientID:         inv.ClientID,
		ClientName:       inv.ClientName,
		ProjectID:        inv.ProjectID,
		Number:           inv.Number,
		Date:             inv.DateKey(),
		Type:             string(inv.Type),
		RelatedInvoiceID: inv.RelatedInvoiceID,
		Status:           string(inv.Status),
		Paid:             inv.Paid,
		Description:      inv.Description,
		Net:              inv.Net,
		IVA:              inv.IVA,
		Total:            inv.Total,
	}
}

func toInvoiceResponses(list []*entity.Invoice) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *toInvoiceResponse(inv))
	}
	return out
}
