package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/company-resolver/internal/config"
	"github.com/sells-group/company-resolver/internal/resilience"
	"github.com/sells-group/company-resolver/internal/resolve"
)

var (
	resolveDryRun      bool
	resolveLimit       int
	resolveVerbose     bool
	resolvePromoteA    bool
	resolveConcurrency int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Match unmatched source B records and build golden records",
	Long: `Streams every unmatched source B record, finds its best source A candidate
and routes it: auto-merge at or above the merge threshold, the review queue
between the review and merge thresholds, single-source creation below.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, true, resolveDryRun)
		if err != nil {
			return err
		}
		defer env.Close()

		opts := jobOptions(cfg.Resolve)
		opts.DryRun = resolveDryRun
		opts.Limit = resolveLimit
		opts.PromoteA = resolvePromoteA
		if resolveConcurrency > 0 {
			opts.Concurrency = resolveConcurrency
		}
		out := cmd.OutOrStdout()
		if resolveVerbose {
			opts.OnDecision = func(o resolve.Outcome) { printOutcome(out, o) }
		}

		job := resolve.NewJob(env.Store, env.Merger, env.Reviews, opts)
		summary, runErr := job.Run(ctx)
		if summary != nil {
			printSummary(out, summary)
		}
		return runErr
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveDryRun, "dry-run", false, "score and decide without writing anything")
	resolveCmd.Flags().IntVar(&resolveLimit, "limit", 0, "max records to process (0 = unlimited)")
	resolveCmd.Flags().BoolVar(&resolveVerbose, "verbose", false, "print every per-record decision")
	resolveCmd.Flags().BoolVar(&resolvePromoteA, "promote-a", false, "also create golden records for unlinked source A records")
	resolveCmd.Flags().IntVar(&resolveConcurrency, "concurrency", 0, "worker shards (default from config)")
	rootCmd.AddCommand(resolveCmd)
}

func jobOptions(rc config.ResolveConfig) resolve.Options {
	return resolve.Options{
		Concurrency:    rc.Concurrency,
		PageSize:       rc.PageSize,
		CandidateLimit: rc.CandidateLimit,
		RatePerSec:     rc.RatePerSec,
		FuzzyNames:     rc.FuzzyNames,
		Policy: resolve.Policy{
			AutoMergeThreshold: rc.AutoMergeThreshold,
			ReviewThreshold:    rc.ReviewThreshold,
		},
		Retry: resilience.WithAttempts(rc.RetryAttempts),
	}
}

func printOutcome(out io.Writer, o resolve.Outcome) {
	if o.Err != nil {
		_, _ = fmt.Fprintf(out, "%s#%d\t%-13s\t%q\terror: %v\n", o.Source, o.RecordID, "failed", o.Name, o.Err)
		return
	}
	candidate := "-"
	if o.CandidateID != 0 {
		candidate = fmt.Sprintf("A#%d", o.CandidateID)
	}
	_, _ = fmt.Fprintf(out, "%s#%d\t%-13s\t%.3f\t%s\t%q\n",
		o.Source, o.RecordID, o.Decision, o.Confidence, candidate, o.Name)
}

func printSummary(out io.Writer, s *resolve.Summary) {
	title := "Resolution complete"
	if s.DryRun {
		title += " (dry run: simulated, nothing written)"
	}
	_, _ = fmt.Fprintln(out, title)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "  run id:\t%s\n", s.RunID)
	_, _ = fmt.Fprintf(w, "  processed:\t%d\n", s.Processed)
	_, _ = fmt.Fprintf(w, "  auto-merged:\t%d\n", s.Merged)
	_, _ = fmt.Fprintf(w, "  queued for review:\t%d\n", s.Queued)
	_, _ = fmt.Fprintf(w, "  single-source created:\t%d\n", s.SingleSource)
	_, _ = fmt.Fprintf(w, "  promoted from A:\t%d\n", s.PromotedA)
	_, _ = fmt.Fprintf(w, "  errors:\t%d\n", s.Errors)
	_, _ = fmt.Fprintf(w, "  duration:\t%s\n", s.Duration.Round(time.Millisecond))
	_ = w.Flush()

	if s.Errors > 0 {
		zap.L().Warn("resolve finished with record errors", zap.Int64("errors", s.Errors))
	}
}
