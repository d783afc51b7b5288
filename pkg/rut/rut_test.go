package rut_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obras-backoffice/pkg/rut"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		err  error
	}{
		{"con puntos y guion", "76.086.428-5", nil},
		{"sin puntos", "11111111-1", nil},
		{"sin guion", "111111111", nil},
		{"dígito K minúscula", "10.000.013-k", nil},
		{"dígito cero", "14-0", nil},
		{"dígito incorrecto", "76.086.428-4", rut.ErrCheckDigit},
		{"caracteres extraños", "76O86428-5", rut.ErrFormat},
		{"demasiado corto", "5", rut.ErrFormat},
		{"K en el cuerpo", "1K-5", rut.ErrFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rut.Validate(tt.in)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNormalizeYFormat(t *testing.T) {
	n, err := rut.Normalize("76.086.428-5")
	require.NoError(t, err)
	assert.Equal(t, "76086428-5", n)

	f, err := rut.Format("10000013k")
	require.NoError(t, err)
	assert.Equal(t, "10.000.013-K", f)

	f, err = rut.Format("14-0")
	require.NoError(t, err)
	assert.Equal(t, "14-0", f)
}

func TestComputeCheckDigit(t *testing.T) {
	dv, err := rut.ComputeCheckDigit("11.111.111")
	require.NoError(t, err)
	assert.Equal(t, byte('1'), dv)

	_, err = rut.ComputeCheckDigit("")
	assert.ErrorIs(t, err, rut.ErrFormat)
}
