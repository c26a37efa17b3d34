package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/company-resolver/internal/model"
	"github.com/sells-group/company-resolver/internal/store"
)

var (
	companiesSource string
	companiesSearch string
	companiesLimit  int
	companiesOutput string
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Inspect golden records",
}

var companiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List golden records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		filter := store.CompanyFilter{Search: companiesSearch, Limit: companiesLimit}
		if companiesSource != "" {
			filter.Source = model.Source(strings.ToUpper(companiesSource))
			if filter.Source != model.SourceA && filter.Source != model.SourceB {
				return eris.Errorf("--source must be a or b, got %q", companiesSource)
			}
		}

		env, err := initEnv(ctx, false, false)
		if err != nil {
			return err
		}
		defer env.Close()

		companies, err := env.Store.ListCompanies(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "companies list")
		}
		if companies == nil {
			companies = []model.CanonicalCompany{}
		}
		return writeOutput(cmd.OutOrStdout(), companiesOutput, companies, func(w io.Writer) {
			formatCompanies(w, companies)
		})
	},
}

var companiesShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Show one golden record by key (domain, a:<url> or b:<url>)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, false, false)
		if err != nil {
			return err
		}
		defer env.Close()

		c, err := env.Store.GetCompanyByKey(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "companies show")
		}
		if c == nil {
			return eris.Errorf("company %q not found", args[0])
		}

		format := companiesOutput
		if format == outputTable || format == "" {
			format = outputYAML
		}
		return writeOutput(cmd.OutOrStdout(), format, c, nil)
	},
}

func init() {
	companiesListCmd.Flags().StringVar(&companiesSource, "source", "", "only records with a contribution from a or b")
	companiesListCmd.Flags().StringVar(&companiesSearch, "search", "", "case-insensitive name substring")
	companiesListCmd.Flags().IntVar(&companiesLimit, "limit", 50, "max records")
	companiesCmd.PersistentFlags().StringVarP(&companiesOutput, "output", "o", outputTable, "table, json or yaml")
	companiesCmd.AddCommand(companiesListCmd, companiesShowCmd)
	rootCmd.AddCommand(companiesCmd)
}

func formatCompanies(out io.Writer, companies []model.CanonicalCompany) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tNAME\tSOURCES\tCONFIDENCE\tFOUNDED\tFUNDING (USD)")
	_, _ = fmt.Fprintln(w, "---\t----\t-------\t----------\t-------\t-------------")

	for _, c := range companies {
		sources := make([]string, len(c.Sources))
		for i, s := range c.Sources {
			sources[i] = string(s)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%s\t%.0f\n",
			truncate(c.Key, 40),
			truncate(c.Name, 30),
			strings.Join(sources, "+"),
			c.MatchConfidence,
			c.Founded,
			c.FundingTotalUSD,
		)
	}
	_ = w.Flush()
}
