package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadforge/enrich-cli/internal/ingest"
	"github.com/leadforge/enrich-cli/internal/model"
	"github.com/leadforge/enrich-cli/internal/pipeline"
	"github.com/leadforge/enrich-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for enrichment requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", handleHealth())
		r.Get("/runs", handleListRuns(env.Store))
		r.Get("/runs/{id}", handleGetRun(env.Store))
		r.Post("/enrich", handleEnrich(ctx, env))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pipeline.CheckHealth(cfg))
	}
}

func handleListRuns(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := st.ListRuns(r.Context(), store.RunFilter{
			Status: model.RunStatus(r.URL.Query().Get("status")),
		})
		if err != nil {
			zap.L().Error("list runs failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
	}
}

func handleGetRun(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		run, err := st.GetRun(r.Context(), id)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		leads, err := st.GetLeadResults(r.Context(), id)
		if err != nil {
			zap.L().Error("get lead results failed", zap.String("run_id", id), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "load lead results failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"run": run, "leads": leads})
	}
}

// handleEnrich accepts a small batch of leads and runs discovery
// asynchronously, responding immediately with the run ID. The server's
// base context drives the background work so in-flight enrichment stops
// on shutdown.
func handleEnrich(serverCtx context.Context, env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Leads       []model.Lead `json:"leads"`
			Icebreakers bool         `json:"icebreakers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if len(req.Leads) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "leads is required"})
			return
		}

		leads := ingest.InitializeLeads(req.Leads)
		// A fresh pipeline per request keeps each run's usage totals
		// isolated from concurrent runs.
		p := env.NewPipeline()
		run, err := env.Store.CreateRun(r.Context(), "http", len(leads))
		if err != nil {
			zap.L().Error("create run failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create run failed"})
			return
		}

		go func() {
			results, err := p.DiscoverEmails(serverCtx, leads, nil)
			if err != nil {
				zap.L().Error("async enrichment failed", zap.String("run_id", run.ID), zap.Error(err))
				_ = env.Store.UpdateRunStatus(serverCtx, run.ID, model.RunStatusFailed)
				return
			}
			if req.Icebreakers {
				results, err = p.GenerateIcebreakers(serverCtx, results, nil)
				if err != nil {
					zap.L().Error("async icebreakers failed", zap.String("run_id", run.ID), zap.Error(err))
					_ = env.Store.UpdateRunStatus(serverCtx, run.ID, model.RunStatusFailed)
					return
				}
			}
			if err := env.Store.SaveLeadResults(serverCtx, run.ID, results); err != nil {
				zap.L().Warn("failed to persist lead results", zap.String("run_id", run.ID), zap.Error(err))
			}
			if err := env.Store.CompleteRun(serverCtx, run.ID, p.Usage()); err != nil {
				zap.L().Warn("failed to complete run record", zap.String("run_id", run.ID), zap.Error(err))
			}
			zap.L().Info("async enrichment complete", zap.String("run_id", run.ID))
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"status": "accepted",
			"run_id": run.ID,
		})
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
