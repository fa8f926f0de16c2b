package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
)

// connectBackend signs in to FileFlow with the CLI credentials.
func connectBackend(ctx context.Context, cfg *config.Config) (*fileflow.Client, error) {
	if cfg.Backend.URL == "" {
		return nil, errors.New("FILEFLOW_BACKEND_URL environment variable is required")
	}
	if cfg.Backend.Username == "" || cfg.Backend.Password == "" {
		return nil, errors.New("FILEFLOW_USERNAME and FILEFLOW_PASSWORD are required")
	}

	client, err := fileflow.NewWithCredentials(ctx, cfg.Backend.URL, cfg.Backend.Username, cfg.Backend.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to FileFlow: %w", err)
	}
	client.SetTimeout(cfg.Backend.Timeout)
	if captureDir != "" {
		if err := client.SetCaptureDir(captureDir); err != nil {
			return nil, fmt.Errorf("setting capture directory: %w", err)
		}
	}
	return client, nil
}
