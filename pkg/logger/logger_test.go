package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-locations-api/pkg/logger"
)

func TestFromWriter_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.FromWriter(&buf, "warn")

	log.Info().Msg("no debe aparecer")
	log.Warn().Str("order_line_id", "ol-1").Msg("asignación parcial")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "ol-1", entry["order_line_id"])
	assert.Equal(t, "asignación parcial", entry["message"])
}

func TestNop_NoEscribe(t *testing.T) {
	log := logger.Nop()
	log.Error().Msg("descartado")
	assert.NotNil(t, log.With())
}
