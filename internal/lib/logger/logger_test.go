package logger

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/sqlguard/internal/lib/logger/sl"
	"github.com/GintGld/sqlguard/internal/lib/utils/writer"
)

func TestNewWriterLevels(t *testing.T) {
	testCases := []struct {
		desc        string
		env         string
		expectDebug bool
	}{
		{desc: "dev", env: EnvDev, expectDebug: true},
		{desc: "prod", env: EnvProd, expectDebug: false},
		{desc: "unknown", env: "staging", expectDebug: false},
	}
	for _, tt := range testCases {
		t.Run(tt.desc, func(t *testing.T) {
			w := writer.New()
			log := NewWriter(tt.env, w)

			log.Debug("debug record")
			log.Info("info record", slog.String("conn", "abc"))

			lines := strings.Split(strings.TrimSpace(w.String()), "\n")
			if tt.expectDebug {
				require.Len(t, lines, 2)
			} else {
				require.Len(t, lines, 1)
			}

			var rec map[string]any
			require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &rec))
			assert.Equal(t, "info record", rec["msg"])
			assert.Equal(t, "abc", rec["conn"])
		})
	}
}

func TestPrettyLocal(t *testing.T) {
	w := writer.New()
	log := NewWriter(EnvLocal, w).With(slog.String("conn", "abc"))

	log.Error("close failed", sl.Err(assert.AnError))

	out := w.String()
	assert.Contains(t, out, "close failed")
	assert.Contains(t, out, `"conn": "abc"`)
	assert.Contains(t, out, assert.AnError.Error())
}
