package cmd

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"farmwatch/internal/bootstrap/logging"
	"farmwatch/internal/errs"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate violation counts",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		stats, err := deps.QuerySvc.Stats(ctx)
		if err != nil {
			return errs.Wrap(err, "load stats")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "total violations: %d\n", stats.Total)
		fmt.Fprintf(out, "states represented: %d\n", stats.StatesCount)

		printBuckets := func(title string, buckets map[string]int64) {
			fmt.Fprintf(out, "%s:\n", title)
			keys := make([]string, 0, len(buckets))
			for k := range buckets {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool {
				if buckets[keys[i]] != buckets[keys[j]] {
					return buckets[keys[i]] > buckets[keys[j]]
				}
				return keys[i] < keys[j]
			})
			for _, k := range keys {
				fmt.Fprintf(out, "  %-40s %d\n", k, buckets[k])
			}
		}

		printBuckets("by source", stats.BySource)
		printBuckets("by severity", stats.BySeverity)
		printBuckets("by state (top 20)", stats.ByState)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
