// serve.go implements the "docver serve" command, the HTTP API.
//
// The server runs until SIGINT or SIGTERM, then drains in-flight requests.
// The shared service stays open for the server's lifetime and is closed by
// cmd.Execute after Run returns.

package core

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Serve the document API over HTTP.

  docver serve                 # listen on server.addr (default :5000)
  docver serve --addr :8080

Routes: POST /upload, GET /documents, GET /documents/:doc_id,
DELETE /documents/:doc_id/versions/:version, GET /search?q=, POST /vote,
GET /vote_results, GET /vote_counts, GET /uploads/:filename, GET /health.

See 'docver guide server' for request and response formats.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	c.Flags().String(extension.FlagAddr, "", "Listen address (overrides server.addr)")
	return c
}

func runServe(c *cobra.Command, _ []string) error {
	ext := cmd.Context()
	cfg := ext.Config()

	addr, _ := c.Flags().GetString(extension.FlagAddr)
	if addr == "" {
		addr = cfg.Addr()
	}

	gin.SetMode(gin.ReleaseMode)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	srv := server.New(ext.Service(), server.Options{
		Addr:           addr,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		CORSOrigins:    cfg.CORSOrigins(),
		Logger:         logger,
	})

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("docver HTTP server listening", "addr", addr)
	err := srv.Run(ctx)

	log.Event("core:serve", "serve").
		Author(cmd.Author()).
		Detail("addr", addr).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("serve: %w", err))
	}
	logger.Info("server stopped")
	return nil
}
