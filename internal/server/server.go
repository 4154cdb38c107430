// Package server assembles the HTTP API, asset and export endpoints and
// the live session hub into one http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ideaspark/wireframe/internal/asset"
	"github.com/ideaspark/wireframe/internal/config"
	"github.com/ideaspark/wireframe/internal/editor"
	"github.com/ideaspark/wireframe/internal/export"
	mw "github.com/ideaspark/wireframe/internal/middleware"
	"github.com/ideaspark/wireframe/internal/project"
	"github.com/ideaspark/wireframe/internal/session"
	"github.com/ideaspark/wireframe/internal/store"
)

type Server struct {
	cfg     *config.Config
	db      *store.DB
	hub     *session.Hub
	handler http.Handler
}

// New opens the database and builds the router. Close releases the
// database when Run is not used.
func New(cfg *config.Config, settings config.Settings) (*Server, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	assetHandler := asset.NewHandler(cfg.AssetDir)
	hub := session.NewHub(db, func(documentID string) editor.Options {
		opts := settings.EditorOptions(documentID)
		opts.Resolver = assetHandler
		return opts
	})

	projectHandler := project.NewHandler(project.NewService(db, settings.Background))
	exportHandler := export.NewHandler(assetHandler)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST")
	r.PathPrefix(asset.URLPrefix).Handler(assetHandler.Serve()).Methods("GET")

	r.HandleFunc("/export/png", exportHandler.PNG).Methods("POST")
	r.HandleFunc("/export/code", exportHandler.Code).Methods("POST")
	r.HandleFunc("/export/commands", exportHandler.Commands).Methods("POST")

	projectHandler.Routes(r.PathPrefix("/api").Subrouter())

	r.HandleFunc("/ws/documents/{id}", hub.Handler(cfg.Origins()))

	// Middleware wraps the router so CORS preflights reach it before route
	// method matching.
	handler := mw.Recovery(mw.Logger(mw.CORS(cfg.Origins())(r)))

	return &Server{cfg: cfg, db: db, hub: hub, handler: handler}, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Close() error {
	return s.db.Close()
}

// Run serves until ctx is cancelled, then saves open documents and shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run()

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.hub.Stop()
		s.db.Close()
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	// Stop hub first to save all dirty documents
	slog.Info("saving all documents...")
	s.hub.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	return err
}
