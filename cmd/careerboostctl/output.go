package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/fairyhunter13/careerboost-api/internal/adapter/observability"
	"github.com/fairyhunter13/careerboost-api/internal/app"
	"github.com/fairyhunter13/careerboost-api/internal/config"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// loadConfig reads the environment and routes logs to stderr so stdout
// carries only the JSON result.
func loadConfig(stderr io.Writer) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	slog.SetDefault(observability.NewLogger(cfg, stderr))
	return cfg, nil
}

// buildContainer wires the full pipeline; provider keys are required.
func buildContainer(ctx context.Context, cfg config.Config) (*app.Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.Build(ctx, cfg)
}
