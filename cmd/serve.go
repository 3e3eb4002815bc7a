package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"farmwatch/internal/api"
	"farmwatch/internal/bootstrap/logging"
	"farmwatch/internal/errs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-side violations API",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := deps.App.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "init schema")
		}

		addr, _ := cmd.Flags().GetString("addr")
		addr = strings.TrimSpace(addr)
		if addr == "" {
			addr = deps.App.Config.Server.Addr
		}

		server := &http.Server{
			Addr:    addr,
			Handler: api.NewRouter(deps.QuerySvc),
			BaseContext: func(net.Listener) context.Context {
				return ctx
			},
		}

		logging.Info(ctx, "violations API started", slog.String("addr", addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "violations API failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "serve violations api")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")
}
