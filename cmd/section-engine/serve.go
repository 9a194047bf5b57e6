// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/section-engine/internal/api"
	"github.com/pdiddy/section-engine/internal/secrets"
	"github.com/pdiddy/section-engine/pkg/types"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve segmentation over HTTP",
	Long: `Serve exposes the engine as a JSON API:

  POST /api/segment     segment a document
  POST /api/reconcile   apply external labels to chunks
  GET  /api/taxonomy    the active taxonomy definition
  GET  /health          liveness

When an API key is configured (--api-key, SECTION_ENGINE_API_KEY, or
.secrets/section-engine-api-key) the /api routes require it as a bearer
token.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	eng, segCfg, err := newEngine(cmd)
	if err != nil {
		return err
	}
	cfg := serveConfig(cmd, segCfg)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewServer(eng, log, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr, "taxonomy", eng.Table().Version(), "auth", cfg.APIKey != "")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", cfg.Addr, err)
	case <-cmd.Context().Done():
	}

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func serveConfig(cmd *cobra.Command, segCfg types.SegmentationConfig) types.ServeConfig {
	addr, _ := cmd.Flags().GetString("addr")
	if !cmd.Flags().Changed("addr") && viper.IsSet("addr") {
		addr = viper.GetString("addr")
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("api_key")
	}

	return types.ServeConfig{
		Addr:         addr,
		APIKey:       loadedSecrets.Resolve(secrets.ServeAPIKey, apiKey),
		MaxBodyBytes: int64(intSetting(cmd, "max-body-bytes", "max_body_bytes", 0)),
		Segmentation: segCfg,
	}
}

func init() {
	addSizingFlags(serveCmd)
	serveCmd.Flags().String("addr", ":8090", "listen address")
	serveCmd.Flags().String("api-key", "", "bearer token required on /api routes")
	serveCmd.Flags().Int("max-body-bytes", 0, "maximum request body size (0 = 4 MiB)")

	rootCmd.AddCommand(serveCmd)
}
