package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadforge/enrich-cli/internal/model"
)

var (
	icebreakOutput string
	icebreakFormat string
	icebreakTone   string
)

var icebreakCmd = &cobra.Command{
	Use:   "icebreak <run-id>",
	Short: "Generate icebreakers for a completed discovery run",
	Long:  "Loads the lead results of an earlier enrich run from the store, reuses its cached page content, and generates a personalized opener for every lead with a contact email.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if icebreakTone != "" {
			if !model.ValidTone(model.IcebreakerTone(icebreakTone)) {
				return eris.Errorf("invalid tone: %s (use professional, casual, or friendly)", icebreakTone)
			}
			cfg.Enrich.IcebreakerTone = icebreakTone
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		runID := args[0]
		run, err := env.Store.GetRun(ctx, runID)
		if err != nil {
			return eris.Wrapf(err, "load run %s", runID)
		}
		leads, err := env.Store.GetLeadResults(ctx, runID)
		if err != nil {
			return eris.Wrapf(err, "load lead results for run %s", runID)
		}
		if len(leads) == 0 {
			return eris.Errorf("run %s has no persisted lead results", runID)
		}

		zap.L().Info("run loaded",
			zap.String("run_id", runID),
			zap.String("source", run.Source),
			zap.Int("leads", len(leads)),
		)

		// The persisted run is the proof that discovery already happened.
		env.Pipeline.AdoptDiscovery(leads)

		results, err := env.Pipeline.GenerateIcebreakers(ctx, leads, logProgress)
		if err != nil {
			return eris.Wrap(err, "icebreaker generation")
		}

		if err := env.Store.SaveLeadResults(ctx, runID, results); err != nil {
			zap.L().Warn("failed to persist lead results", zap.Error(err))
		}

		totals := run.Totals
		totals.Add(env.Pipeline.Usage())
		if err := env.Store.CompleteRun(ctx, runID, totals); err != nil {
			zap.L().Warn("failed to update run totals", zap.Error(err))
		}

		estats := model.ComputeEnrichmentStats(results)
		zap.L().Info("icebreaker generation complete",
			zap.String("run_id", runID),
			zap.Int("with_icebreaker", estats.WithIcebreaker),
			zap.Int("without_icebreaker", estats.WithoutIcebreaker),
		)

		return writeResults(results, icebreakOutput, icebreakFormat)
	},
}

func init() {
	icebreakCmd.Flags().StringVarP(&icebreakOutput, "output", "o", "", "output file (default stdout)")
	icebreakCmd.Flags().StringVar(&icebreakFormat, "format", "csv", "output format: csv or json")
	icebreakCmd.Flags().StringVar(&icebreakTone, "tone", "", "icebreaker tone: professional, casual, or friendly")
	rootCmd.AddCommand(icebreakCmd)
}
