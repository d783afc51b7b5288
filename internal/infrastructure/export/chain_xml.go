// Package export serializa cadenas de documentos a formatos de intercambio.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/beevik/etree"

	appbilling "github.com/jhoicas/obras-backoffice/internal/application/billing"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
)

// NsChain namespace del XML de cadenas.
const NsChain = "urn:obras:backoffice:cadena:v1"

var _ appbilling.ChainXMLEncoder = (*ChainXMLEncoder)(nil)

// ChainXMLEncoder implementa billing.ChainXMLEncoder con etree.
type ChainXMLEncoder struct{}

// NewChainXMLEncoder crea el encoder.
func NewChainXMLEncoder() *ChainXMLEncoder {
	return &ChainXMLEncoder{}
}

// EncodeChain genera:
//
//	<Cadena xmlns="..." generado="...">
//	  <Emisor rut="..."><Nombre/></Emisor>
//	  <Maestro ref="..."/>
//	  <Documentos><Documento id="..." tipo="..." ...>...</Documento></Documentos>
//	  <Saldo>...</Saldo>
//	</Cadena>
func (e *ChainXMLEncoder) EncodeChain(doc appbilling.ChainDocument) ([]byte, error) {
	if doc.Company == nil || doc.Master == nil {
		return nil, fmt.Errorf("export: documento de cadena incompleto")
	}
	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := x.CreateElement("Cadena")
	root.CreateAttr("xmlns", NsChain)
	root.CreateAttr("generado", doc.GeneratedAt.UTC().Format(time.RFC3339))

	emisor := root.CreateElement("Emisor")
	emisor.CreateAttr("rut", doc.Company.RUT)
	emisor.CreateElement("Nombre").SetText(doc.Company.Name)

	root.CreateElement("Maestro").CreateAttr("ref", doc.Master.ID)

	docs := root.CreateElement("Documentos")
	docs.CreateAttr("cantidad", fmt.Sprint(len(doc.Invoices)))
	for _, inv := range doc.Invoices {
		appendInvoice(docs, inv)
	}

	root.CreateElement("Saldo").SetText(doc.Balance.StringFixed(2))

	x.Indent(2)
	var out bytes.Buffer
	if _, err := x.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("export: serializar XML: %w", err)
	}
	return out.Bytes(), nil
}

func appendInvoice(parent *etree.Element, inv *entity.Invoice) {
	el := parent.CreateElement("Documento")
	el.CreateAttr("id", inv.ID)
	el.CreateAttr("tipo", string(inv.Type))
	el.CreateAttr("estado", string(inv.Status))
	if inv.RelatedInvoiceID != "" {
		el.CreateAttr("referencia", inv.RelatedInvoiceID)
	}
	el.CreateElement("Folio").SetText(inv.Number)
	el.CreateElement("Fecha").SetText(inv.DateKey())
	if inv.ClientName != "" {
		el.CreateElement("Cliente").SetText(inv.ClientName)
	}
	if inv.Description != "" {
		el.CreateElement("Descripcion").SetText(inv.Description)
	}
	montos := el.CreateElement("Montos")
	montos.CreateElement("Neto").SetText(inv.Net.StringFixed(2))
	montos.CreateElement("IVA").SetText(inv.IVA.StringFixed(2))
	montos.CreateElement("Total").SetText(inv.Total.StringFixed(2))
	el.CreateElement("Pagada").SetText(fmt.Sprint(inv.Paid))
}
