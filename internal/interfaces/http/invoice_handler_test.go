package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obras-backoffice/internal/application/billing"
	"github.com/jhoicas/obras-backoffice/internal/application/dto"
	"github.com/jhoicas/obras-backoffice/internal/application/usecase"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
	"github.com/jhoicas/obras-backoffice/internal/domain/tax"
	"github.com/jhoicas/obras-backoffice/internal/infrastructure/export"
	"github.com/jhoicas/obras-backoffice/internal/infrastructure/memory"
	"github.com/jhoicas/obras-backoffice/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/obras-backoffice/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/obras-backoffice/pkg/jwt"
)

// sinBilling empresa sin el módulo de facturación contratado.
const sinBilling = "00000000-0000-0000-0000-000000000003"

// buildAPI arma la app completa sobre el store en memoria.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: testCompanyID, Name: "Constructora Andes", RUT: "76086428-5"}))
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: sinBilling, Name: "Áridos del Sur", RUT: "77123456-9"}))

	modules := usecase.NewModuleService(store.Companies())
	require.NoError(t, modules.Activate(ctx, testCompanyID, entity.ModuleBilling))
	require.NoError(t, modules.Activate(ctx, testCompanyID, entity.ModuleProjects))

	invoiceUC := billing.NewInvoiceUseCase(
		store.Invoices(), store.Clients(), store.Projects(), store,
		nil, tax.DefaultIVARate, zerolog.Nop(),
	)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC:   usecase.NewCompanyUseCase(store.Companies()),
		ModuleSvc:   modules,
		ClientUC:    usecase.NewClientUseCase(store.Clients()),
		ProjectUC:   usecase.NewProjectUseCase(store.Projects(), store.Clients()),
		InvoiceUC:   invoiceUC,
		ChainReport: billing.NewChainReportUseCase(invoiceUC, store.Companies(), pdf.NewChainReportRenderer(), export.NewChainXMLEncoder()),
		JWTSecret:   testJWTSecret,
		Logger:      zerolog.Nop(),
	})
	return app
}

func bearer(t *testing.T, companyID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Identity{
		UserID: testUserID, CompanyID: companyID, Role: role,
	})
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func postInvoice(t *testing.T, app *fiber.App, auth string, body map[string]interface{}) dto.InvoiceResponse {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/invoices", auth, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.InvoiceResponse](t, resp)
}

func TestInvoices_CadenaCompleta(t *testing.T) {
	app := buildAPI(t)
	auth := bearer(t, testCompanyID, pkgjwt.RoleFinanzas)

	factura := postInvoice(t, app, auth, map[string]interface{}{
		"number": "F-100", "date": "2024-03-01", "type": "SALE", "net": 100000,
	})
	assert.Equal(t, "119000", factura.Total.String())

	nota := postInvoice(t, app, auth, map[string]interface{}{
		"number": "NC-7", "date": "2024-03-09", "type": "CREDIT_NOTE",
		"related_invoice_id": factura.ID, "net": 10000,
	})

	list := decode[dto.InvoiceListResponse](t, call(t, app, http.MethodGet, "/api/invoices", auth, nil))
	require.Len(t, list.Items, 1, "la nota de crédito vinculada no es fila principal")
	assert.Equal(t, factura.ID, list.Items[0].ID)
	require.Len(t, list.Items[0].Children, 1)
	assert.Equal(t, nota.ID, list.Items[0].Children[0].ID)

	chain := decode[dto.ChainResponse](t, call(t, app, http.MethodGet, "/api/invoices/"+nota.ID+"/chain", auth, nil))
	assert.Equal(t, factura.ID, chain.MasterID)
	require.Len(t, chain.Invoices, 2)
	assert.Equal(t, "F-100", chain.Invoices[0].Number)
	assert.Equal(t, "NC-7", chain.Invoices[1].Number)
}

func TestInvoices_AnularDocumento(t *testing.T) {
	app := buildAPI(t)
	auth := bearer(t, testCompanyID, pkgjwt.RoleAdmin)
	factura := postInvoice(t, app, auth, map[string]interface{}{
		"number": "F-1", "date": "2024-01-10", "type": "SALE", "net": 5000,
	})

	resp := call(t, app, http.MethodDelete, "/api/invoices/"+factura.ID, auth, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	got := decode[dto.InvoiceResponse](t, call(t, app, http.MethodGet, "/api/invoices/"+factura.ID, auth, nil))
	assert.Equal(t, "CANCELLED", got.Status)
}

func TestInvoices_Errores(t *testing.T) {
	app := buildAPI(t)
	auth := bearer(t, testCompanyID, pkgjwt.RoleFinanzas)
	postInvoice(t, app, auth, map[string]interface{}{
		"number": "F-1", "date": "2024-01-10", "type": "SALE", "net": 5000,
	})

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		body   interface{}
		status int
		code   string
	}{
		{
			name: "sin token", method: http.MethodGet, path: "/api/invoices",
			status: http.StatusUnauthorized, code: "MISSING_TOKEN",
		},
		{
			name: "folio vacío", method: http.MethodPost, path: "/api/invoices", auth: auth,
			body:   map[string]interface{}{"date": "2024-01-10", "type": "SALE", "net": 1},
			status: http.StatusBadRequest, code: "VALIDATION",
		},
		{
			name: "neto negativo", method: http.MethodPost, path: "/api/invoices", auth: auth,
			body:   map[string]interface{}{"number": "F-2", "date": "2024-01-10", "type": "SALE", "net": -1},
			status: http.StatusBadRequest, code: "VALIDATION",
		},
		{
			name: "folio repetido", method: http.MethodPost, path: "/api/invoices", auth: auth,
			body:   map[string]interface{}{"number": "F-1", "date": "2024-02-10", "type": "SALE", "net": 1},
			status: http.StatusConflict, code: "DUPLICATE",
		},
		{
			name: "referencia inexistente", method: http.MethodPost, path: "/api/invoices", auth: auth,
			body: map[string]interface{}{
				"number": "NC-1", "date": "2024-02-10", "type": "CREDIT_NOTE", "net": 1,
				"related_invoice_id": "no-existe",
			},
			status: http.StatusBadRequest, code: "VALIDATION",
		},
		{
			name: "documento inexistente", method: http.MethodGet, path: "/api/invoices/no-existe", auth: auth,
			status: http.StatusNotFound, code: "NOT_FOUND",
		},
		{
			name: "rol obra no puede emitir", method: http.MethodPost, path: "/api/invoices",
			auth:   bearer(t, testCompanyID, pkgjwt.RoleObra),
			body:   map[string]interface{}{"number": "F-3", "date": "2024-01-10", "type": "SALE", "net": 1},
			status: http.StatusForbidden, code: "FORBIDDEN",
		},
		{
			name: "empresa sin módulo billing", method: http.MethodGet, path: "/api/invoices",
			auth:   bearer(t, sinBilling, pkgjwt.RoleAdmin),
			status: http.StatusForbidden, code: "MODULE_DISABLED",
		},
		{
			name: "tipo desconocido", method: http.MethodGet, path: "/api/invoices?type=BOLETA", auth: auth,
			status: http.StatusBadRequest, code: "VALIDATION",
		},
		{
			name: "columna de orden desconocida", method: http.MethodGet, path: "/api/invoices?toggle=monto", auth: auth,
			status: http.StatusBadRequest, code: "VALIDATION",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, app, tt.method, tt.path, tt.auth, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestInvoices_ExportarCadena(t *testing.T) {
	app := buildAPI(t)
	auth := bearer(t, testCompanyID, pkgjwt.RoleObra)
	factura := postInvoice(t, app, bearer(t, testCompanyID, pkgjwt.RoleAdmin), map[string]interface{}{
		"number": "F-100", "date": "2024-03-01", "type": "SALE", "net": 100000,
	})

	resp := call(t, app, http.MethodGet, "/api/invoices/"+factura.ID+"/chain.pdf", auth, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "cadena_F-100.pdf")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	xmlResp := call(t, app, http.MethodGet, "/api/invoices/"+factura.ID+"/chain.xml", auth, nil)
	defer xmlResp.Body.Close()
	require.Equal(t, http.StatusOK, xmlResp.StatusCode)
	assert.Contains(t, xmlResp.Header.Get(fiber.HeaderContentDisposition), "cadena_F-100.xml")
}

func TestHealth(t *testing.T) {
	app := buildAPI(t)
	resp := call(t, app, http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
