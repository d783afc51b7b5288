package tax

import "github.com/shopspring/decimal"

// DefaultIVARate tasa general de IVA en Chile.
var DefaultIVARate = decimal.RequireFromString("0.19")

// Amounts montos derivados de un neto.
type Amounts struct {
	Net   decimal.Decimal
	IVA   decimal.Decimal
	Total decimal.Decimal
}

// FromNet calcula IVA = round(neto × tasa) en pesos enteros y Total = Neto + IVA.
func FromNet(net, rate decimal.Decimal) Amounts {
	iva := net.Mul(rate).Round(0)
	return Amounts{Net: net, IVA: iva, Total: net.Add(iva)}
}

// ParseRate interpreta la tasa configurada ("0.19" o "19"). Vacía o inválida → DefaultIVARate.
func ParseRate(s string) decimal.Decimal {
	r, err := decimal.NewFromString(s)
	if err != nil || r.IsNegative() {
		return DefaultIVARate
	}
	if r.GreaterThan(decimal.NewFromInt(1)) {
		return r.Div(decimal.NewFromInt(100))
	}
	return r
}
