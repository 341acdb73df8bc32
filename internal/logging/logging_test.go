package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/qlpt/rental-portal/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := logging.Setup("warn", "json", &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("k", "v").Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "shown", line["message"])
	require.Equal(t, "v", line["k"])
}

func TestSetup_BadLevelFallsBackToInfo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logging.Setup("loud", "console", &buf)
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
