package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/company-resolver/internal/ingest"
)

var (
	backfillDryRun    bool
	backfillBatchSize int
)

var backfillCmd = &cobra.Command{
	Use:   "backfill-domains",
	Short: "Recompute normalized domains for records missing one",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, false, backfillDryRun)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := ingest.Backfill(ctx, env.Store, backfillBatchSize, backfillDryRun)
		if res != nil {
			suffix := ""
			if res.DryRun {
				suffix = " (dry run)"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"source A: %d/%d updated, source B: %d/%d updated, %d failed%s\n",
				res.UpdatedA, res.ScannedA, res.UpdatedB, res.ScannedB, res.Failed, suffix)
		}
		return err
	},
}

func init() {
	backfillCmd.Flags().BoolVar(&backfillDryRun, "dry-run", false, "report without writing")
	backfillCmd.Flags().IntVar(&backfillBatchSize, "batch-size", 500, "records per page")
	rootCmd.AddCommand(backfillCmd)
}
