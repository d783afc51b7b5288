// Package rut valida y normaliza el Rol Único Tributario chileno (SII).
package rut

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrFormat     = errors.New("rut: formato inválido")
	ErrCheckDigit = errors.New("rut: dígito verificador inválido")
)

// ComputeCheckDigit calcula el dígito verificador (módulo 11) para el cuerpo del RUT.
// Los pesos 2..7 se aplican de derecha a izquierda y se repiten.
func ComputeCheckDigit(body string) (byte, error) {
	digits := extractDigits(body)
	if len(digits) == 0 {
		return 0, ErrFormat
	}
	sum, weight := 0, 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch r := 11 - sum%11; r {
	case 11:
		return '0', nil
	case 10:
		return 'K', nil
	default:
		return byte('0' + r), nil
	}
}

// Validate comprueba el dígito verificador. Acepta "12.345.678-5", "12345678-5" o "123456785".
func Validate(rut string) error {
	body, dv, err := split(rut)
	if err != nil {
		return err
	}
	expected, err := ComputeCheckDigit(body)
	if err != nil {
		return err
	}
	if dv != expected {
		return fmt.Errorf("%w: esperado %c, recibido %c", ErrCheckDigit, expected, dv)
	}
	return nil
}

// Normalize devuelve el RUT en formato canónico "12345678-5" (sin puntos, K mayúscula).
func Normalize(rut string) (string, error) {
	if err := Validate(rut); err != nil {
		return "", err
	}
	body, dv, _ := split(rut)
	return strings.TrimLeft(body, "0") + "-" + string(dv), nil
}

// Format devuelve el RUT con puntos de miles: "12.345.678-5".
func Format(rut string) (string, error) {
	n, err := Normalize(rut)
	if err != nil {
		return "", err
	}
	body, dv := n[:len(n)-2], n[len(n)-1:]
	var b strings.Builder
	for i, r := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String() + "-" + dv, nil
}

// split separa cuerpo y dígito verificador ignorando puntos, guiones y espacios.
func split(rut string) (string, byte, error) {
	var clean []byte
	for _, r := range strings.ToUpper(rut) {
		switch {
		case unicode.IsDigit(r), r == 'K':
			clean = append(clean, byte(r))
		case r == '.', r == '-', r == ' ':
		default:
			return "", 0, ErrFormat
		}
	}
	if len(clean) < 2 {
		return "", 0, ErrFormat
	}
	body, dv := string(clean[:len(clean)-1]), clean[len(clean)-1]
	if strings.ContainsRune(body, 'K') {
		return "", 0, ErrFormat
	}
	return body, dv, nil
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, byte(r))
		}
	}
	return out
}
