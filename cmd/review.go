package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/company-resolver/internal/model"
	"github.com/sells-group/company-resolver/internal/store"
)

var (
	reviewStatus string
	reviewLimit  int
	reviewOutput string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Inspect and decide queued ambiguous matches",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List review items",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		filter := store.ReviewFilter{Limit: reviewLimit}
		if reviewStatus != "all" {
			filter.Status = model.ReviewStatus(reviewStatus)
			if !filter.Status.Valid() {
				return eris.Errorf("--status must be pending, approved, rejected or all, got %q", reviewStatus)
			}
		}

		env, err := initEnv(ctx, false, false)
		if err != nil {
			return err
		}
		defer env.Close()

		items, err := env.Store.ListReviewItems(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "review list")
		}
		if items == nil {
			items = []model.ReviewItem{}
		}
		return writeOutput(cmd.OutOrStdout(), reviewOutput, items, func(w io.Writer) {
			formatReviewItems(w, items)
		})
	},
}

var reviewApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Merge the pair and mark the item approved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseReviewID(args[0])
		if err != nil {
			return err
		}

		env, err := initEnv(ctx, true, false)
		if err != nil {
			return err
		}
		defer env.Close()

		item, c, err := env.Reviews.Approve(ctx, id)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "review %d approved: merged into %s (confidence %.3f)\n",
			item.ID, c.Key, c.MatchConfidence)
		return nil
	},
}

var reviewRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Mark the item rejected; the pair will not be merged",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseReviewID(args[0])
		if err != nil {
			return err
		}

		env, err := initEnv(ctx, true, false)
		if err != nil {
			return err
		}
		defer env.Close()

		item, err := env.Reviews.Reject(ctx, id)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "review %d rejected\n", item.ID)
		return nil
	},
}

func init() {
	reviewListCmd.Flags().StringVar(&reviewStatus, "status", string(model.ReviewPending), "pending, approved, rejected or all")
	reviewListCmd.Flags().IntVar(&reviewLimit, "limit", 50, "max items")
	reviewListCmd.Flags().StringVarP(&reviewOutput, "output", "o", outputTable, "table, json or yaml")
	reviewCmd.AddCommand(reviewListCmd, reviewApproveCmd, reviewRejectCmd)
	rootCmd.AddCommand(reviewCmd)
}

func parseReviewID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, eris.Errorf("invalid review id %q", s)
	}
	return id, nil
}

func formatReviewItems(out io.Writer, items []model.ReviewItem) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tSCORE\tDOMAIN\tNAME\tFOUNDED\tFOUNDERS\tA NAME\tB NAME")
	_, _ = fmt.Fprintln(w, "--\t------\t-----\t------\t----\t-------\t--------\t------\t------")

	for _, it := range items {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%.3f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t%s\n",
			it.ID,
			it.Status,
			it.Confidence,
			it.Signals.Domain,
			it.Signals.Name,
			it.Signals.Founded,
			it.Signals.Founders,
			truncate(it.Evidence.NameA, 30),
			truncate(it.Evidence.NameB, 30),
		)
	}
	_ = w.Flush()
}
