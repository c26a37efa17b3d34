package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/company-resolver/internal/ingest"
	"github.com/sells-group/company-resolver/internal/model"
)

var (
	ingestSource string
	ingestFile   string
	ingestDryRun bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Upsert scraped records from a JSONL file",
	Long:  "Reads one JSON record per line for source A or B, computes matching keys and upserts by URL.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		source := model.Source(strings.ToUpper(strings.TrimSpace(ingestSource)))
		if source != model.SourceA && source != model.SourceB {
			return eris.Errorf("--source must be a or b, got %q", ingestSource)
		}

		f, err := stdinOrFile(ingestFile)
		if err != nil {
			return eris.Wrapf(err, "open %s", ingestFile)
		}
		defer f.Close() //nolint:errcheck

		env, err := initEnv(ctx, false, ingestDryRun)
		if err != nil {
			return err
		}
		defer env.Close()

		in, err := ingest.New(env.Store, source, ingestDryRun)
		if err != nil {
			return err
		}
		res, err := in.Run(ctx, f)
		if res != nil {
			suffix := ""
			if ingestDryRun {
				suffix = " (dry run)"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "source %s: read %d, upserted %d, failed %d, skipped %d%s\n",
				source, res.Read, res.Upserted, res.Failed, res.Skipped, suffix)
		}
		return err
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSource, "source", "", "record source: a or b (required)")
	ingestCmd.Flags().StringVar(&ingestFile, "file", "-", "JSONL file path, - for stdin")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "validate without writing")
	_ = ingestCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(ingestCmd)
}
