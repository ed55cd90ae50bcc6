// Package server exposes the document service over HTTP with gin.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jpl-au/docver/internal/service"
)

// ShutdownTimeout bounds how long in-flight requests may run after Run's
// context is cancelled.
const ShutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Addr           string
	MaxUploadBytes int64
	CORSOrigins    []string
	Logger         *slog.Logger // nil discards operational logs
}

// Server serves the document API.
type Server struct {
	engine *gin.Engine
	addr   string
	logger *slog.Logger
}

// New builds the router for svc.
func New(svc service.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := gin.New()
	r.Use(gin.Recovery(), accessLog(logger), corsConfig(opts.CORSOrigins), errorHandler(logger))
	if opts.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = opts.MaxUploadBytes
	}

	h := &handlers{svc: svc}
	r.GET("/health", h.health)
	r.POST("/upload", limitBody(opts.MaxUploadBytes), h.upload)
	r.GET("/documents", h.listDocuments)
	r.GET("/documents/:doc_id", h.getDocument)
	r.DELETE("/documents/:doc_id/versions/:version", h.deleteVersion)
	r.GET("/search", h.search)
	r.POST("/vote", h.vote)
	r.GET("/vote_results", h.voteResults)
	r.GET("/vote_counts", h.voteCounts)
	r.GET("/uploads/:filename", h.serveUpload)

	return &Server{engine: r, addr: opts.Addr, logger: logger}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine.Handler()
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}
