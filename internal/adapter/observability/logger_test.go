package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/careerboost-api/internal/config"
)

func TestNewLogger_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(config.Config{AppEnv: "dev", OTELServiceName: "careerboost-api"}, &buf)
	require.NotNil(t, lg)
	assert.True(t, lg.Enabled(context.Background(), slog.LevelDebug))

	lg.Info("hello", slog.String("k", "v"))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "careerboost-api", rec["service"])
	assert.Equal(t, "dev", rec["env"])
	assert.Equal(t, "v", rec["k"])
}

func TestNewLogger_ProdSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(config.Config{AppEnv: "prod", OTELServiceName: "svc"}, &buf)
	assert.False(t, lg.Enabled(context.Background(), slog.LevelDebug))
	assert.NotNil(t, SetupLogger(config.Config{AppEnv: "prod"}))
}
