package invoicechain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/obras-backoffice/internal/domain/invoicechain"
)

func TestFolioNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"F-7", 7},
		{"F-12", 12},
		{"NC-0007", 7},
		{"123", 123},
		{"A1-B2", 12},
		{"S/N", 0},
		{"", 0},
		{"F-99999999999999999999999", 0}, // desborda int64
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, invoicechain.FolioNumber(tt.in))
		})
	}
}
