package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadforge/enrich-cli/internal/ingest"
	"github.com/leadforge/enrich-cli/internal/model"
	"github.com/leadforge/enrich-cli/internal/pipeline"
)

var (
	enrichOutput      string
	enrichFormat      string
	enrichIcebreakers bool
	enrichConcurrency int
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <input.csv>",
	Short: "Discover contact emails for a CSV of leads",
	Long:  "Reads leads from a CSV, validates their domains, scrapes each website for contact emails, and optionally generates icebreakers in the same run.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if enrichConcurrency > 0 {
			cfg.Enrich.MaxConcurrency = enrichConcurrency
		}
		if cmd.Flags().Changed("icebreakers") {
			cfg.Enrich.IncludeIcebreaker = enrichIcebreakers
		}

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "open %s", args[0])
		}
		rows, err := ingest.ParseCSV(f)
		f.Close()
		if err != nil {
			return err
		}
		leads := ingest.InitializeLeads(rows)

		vstats := model.ComputeValidationStats(leads)
		zap.L().Info("leads ingested",
			zap.String("file", args[0]),
			zap.Int("total", vstats.Total),
			zap.Int("valid", vstats.Valid),
			zap.Int("invalid", vstats.Invalid),
		)

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		run, err := env.Store.CreateRun(ctx, args[0], len(leads))
		if err != nil {
			return eris.Wrap(err, "create run")
		}

		results, err := env.Pipeline.DiscoverEmails(ctx, leads, logProgress)
		if err != nil {
			failRun(ctx, env, run.ID)
			return eris.Wrap(err, "email discovery")
		}

		if cfg.Enrich.IncludeIcebreaker {
			results, err = env.Pipeline.GenerateIcebreakers(ctx, results, logProgress)
			if err != nil {
				failRun(ctx, env, run.ID)
				return eris.Wrap(err, "icebreaker generation")
			}
		}

		if err := env.Store.SaveLeadResults(ctx, run.ID, results); err != nil {
			zap.L().Warn("failed to persist lead results", zap.Error(err))
		}
		totals := env.Pipeline.Usage()
		if err := env.Store.CompleteRun(ctx, run.ID, totals); err != nil {
			zap.L().Warn("failed to complete run record", zap.Error(err))
		}

		estats := model.ComputeEnrichmentStats(results)
		zap.L().Info("enrichment complete",
			zap.String("run_id", run.ID),
			zap.Int("leads", estats.Total),
			zap.Int("with_email", estats.WithEmail),
			zap.Int("with_icebreaker", estats.WithIcebreaker),
			zap.Int("pages_scraped", totals.PagesScraped),
			zap.Int("input_tokens", totals.InputTokens),
			zap.Int("output_tokens", totals.OutputTokens),
		)

		return writeResults(results, enrichOutput, enrichFormat)
	},
}

// logProgress is the default progress callback: one structured log line
// per stage transition.
func logProgress(p pipeline.Progress) {
	zap.L().Debug("progress",
		zap.Int("index", p.Index),
		zap.Int("total", p.Total),
		zap.String("stage", string(p.Stage)),
		zap.String("website", p.Lead.Website),
		zap.String("status", string(p.Lead.Status)),
		zap.Int("pages_scraped", p.Usage.PagesScraped),
	)
}

func failRun(ctx context.Context, env *pipelineEnv, runID string) {
	if err := env.Store.UpdateRunStatus(ctx, runID, model.RunStatusFailed); err != nil {
		zap.L().Warn("failed to mark run failed", zap.String("run_id", runID), zap.Error(err))
	}
}

// writeResults serializes leads to the requested format, to a file or
// stdout when path is empty.
func writeResults(results []model.EnrichedLead, path, format string) error {
	var out string
	var err error
	switch format {
	case "csv":
		out, err = ingest.ToCSV(results)
	case "json":
		out, err = ingest.ToJSON(results)
	default:
		return eris.Errorf("unsupported output format: %s", format)
	}
	if err != nil {
		return err
	}

	if path == "" {
		_, err = os.Stdout.WriteString(out)
		return eris.Wrap(err, "write stdout")
	}
	return eris.Wrapf(os.WriteFile(path, []byte(out), 0o644), "write %s", path)
}

func init() {
	enrichCmd.Flags().StringVarP(&enrichOutput, "output", "o", "", "output file (default stdout)")
	enrichCmd.Flags().StringVar(&enrichFormat, "format", "csv", "output format: csv or json")
	enrichCmd.Flags().BoolVar(&enrichIcebreakers, "icebreakers", false, "also generate icebreakers in this run")
	enrichCmd.Flags().IntVar(&enrichConcurrency, "concurrency", 0, "max concurrent leads per batch (default from config)")
	rootCmd.AddCommand(enrichCmd)
}
