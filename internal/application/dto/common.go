package dto

// Topes de paginación de los listados de clientes, obras y empresas.
// El listado de documentos no se pagina: trabaja sobre el snapshot completo de la empresa.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest limit/offset pedidos por el cliente.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage normaliza la página: límite ausente → DefaultPageLimit, límite sobre el tope →
// MaxPageLimit, offset negativo → 0.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse página efectivamente aplicada. HasMore indica que la página vino llena
// y puede haber más resultados.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Count   int  `json:"count"`
	HasMore bool `json:"has_more"`
}

// PageOf arma la respuesta para una página ya normalizada que devolvió count elementos.
func PageOf(p PageRequest, count int) PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset, Count: count, HasMore: count == p.Limit}
}

// ErrorResponse cuerpo de error HTTP: Code estable para el cliente, Message legible.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
