package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"farmwatch/internal/bootstrap/logging"
	"farmwatch/internal/errs"
)

var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create or migrate the violations schema",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := deps.App.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "init schema")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "database initialized dsn=%s\n", deps.App.Config.Database.DSN); err != nil {
			return errs.Wrap(err, "write init-db output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(initDbCmd)
}
