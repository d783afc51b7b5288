package invoicechain

import "strconv"

// FolioNumber interpreta los dígitos del folio como entero: "F-12" → 12, "NC-0007" → 7.
// Sin dígitos o fuera de rango → 0.
func FolioNumber(number string) int64 {
	digits := make([]byte, 0, len(number))
	for i := 0; i < len(number); i++ {
		if c := number[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) == 0 {
		return 0
	}
	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
