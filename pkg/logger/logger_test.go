package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSONEnProduccion(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Env: "production", Level: "info"}, &buf)

	cl := l.WithComponent("billing")
	cl.Info().Str("company_id", "c1").Msg("listado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "billing", entry["component"])
	assert.Equal(t, "c1", entry["company_id"])
	assert.Equal(t, "listado", entry["message"])
}

func TestNewWithWriter_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Env: "production", Level: "warn"}, &buf)

	l.Info().Msg("no debe aparecer")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("sí aparece")
	assert.Contains(t, buf.String(), "sí aparece")
}
