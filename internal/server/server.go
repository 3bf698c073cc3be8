// Package server exposes documents over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Ramstar757/TracerStar/internal/canvas"
	"github.com/Ramstar757/TracerStar/internal/logging"
	"github.com/Ramstar757/TracerStar/internal/page"
)

// Config holds server settings.
type Config struct {
	Addr            string
	MaxUploadBytes  int64 // request body limit for photo uploads
	MaxDimension    int   // default page size when ?max= is absent
	MaxStrokePoints int   // points accepted in one stroke request
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible server defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MaxUploadBytes:  32 << 20,
		MaxDimension:    page.DefaultOptions().MaxDimension,
		MaxStrokePoints: 10_000,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server routes document requests to a Store.
type Server struct {
	cfg    Config
	store  *canvas.Store
	router chi.Router
}

// New builds a server over store. A nil store gets a fresh one.
func New(cfg Config, store *canvas.Store) *Server {
	if store == nil {
		store = canvas.NewStore()
	}
	s := &Server{cfg: cfg, store: store}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.listDocuments)
		r.Post("/", s.createDocument)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.loadDocument)
			r.Get("/", s.getDocument)
			r.Delete("/", s.deleteDocument)
			r.Get("/display.png", s.displayPNG)
			r.Get("/mask.png", s.maskPNG)
			r.Get("/overlay.png", s.overlayPNG)
			r.Get("/composite.png", s.compositePNG)
			r.Post("/fill", s.fill)
			r.Post("/strokes", s.strokes)
			r.Post("/undo", s.undo)
			r.Post("/redo", s.redo)
			r.Post("/clear", s.clear)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Logger().Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	logging.Logger().Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// requestLogger logs each request through the shared slog logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logging.Logger().Debug("request",
				slog.String("id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("elapsed", time.Since(start)))
		}()
		next.ServeHTTP(ww, r)
	})
}
