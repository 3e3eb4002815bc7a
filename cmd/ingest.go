package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"farmwatch/internal/bootstrap/logging"
	"farmwatch/internal/errs"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run the full ingestion pipeline (seed, openFDA recalls, EPA ECHO facilities)",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := deps.App.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "init schema")
		}

		result, err := deps.IngestSvc.Run(ctx)
		if err != nil {
			return errs.Wrap(err, "run ingestion")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(),
			"ingestion complete run_id=%s seeded=%d recalls=%d facilities=%d total=%d\n",
			result.RunID, result.Seeded, result.Recalls, result.Facilities, result.Total,
		); err != nil {
			return errs.Wrap(err, "write ingest output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
