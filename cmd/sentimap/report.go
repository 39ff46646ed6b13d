package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spacesedan/sentimap/internal/models"
	"github.com/spacesedan/sentimap/internal/report"
	"github.com/spf13/cobra"
)

var (
	reportWord    string
	reportState   string
	reportCollege string
	reportYear    int
	reportPage    int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the report for a state or college",
	Long: `Loads the word cloud, emotions and matching posts for one place.

Examples:
  sentimap report --word stress --state Ohio --year 2020
  sentimap report --word exam --college "Georgia Tech" --year 2021 --page 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := models.ReportQuery{Word: reportWord, State: reportState, College: reportCollege, Year: reportYear}

		d := buildDeps(cmd.Context(), cfg)
		defer d.Close()

		data, err := d.Loader.Load(cmd.Context(), q)
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), report.Build(data, reportPage))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportWord, "word", "", "searched word")
	reportCmd.Flags().StringVar(&reportState, "state", "", "state name")
	reportCmd.Flags().StringVar(&reportCollege, "college", "", "college name")
	reportCmd.Flags().IntVar(&reportYear, "year", 2019, "year (2019-2022)")
	reportCmd.Flags().IntVar(&reportPage, "page", 1, "posts page")
	reportCmd.MarkFlagRequired("word")
	reportCmd.MarkFlagsMutuallyExclusive("state", "college")
	reportCmd.MarkFlagsOneRequired("state", "college")
}

func printReport(out io.Writer, v report.View) {
	fmt.Fprintf(out, "%q in %s (%d)\n\n", v.Query.Word, v.Query.Place(), v.Query.Year)

	fmt.Fprintln(out, "Top words:")
	for _, b := range v.TopWords {
		fmt.Fprintf(out, "  %-20s %g\n", b.Label, b.Value)
	}

	fmt.Fprintln(out, "\nEmotions:")
	for _, e := range v.Emotions {
		fmt.Fprintf(out, "  %-20s %5.1f%%\n", e.Emotion, e.Percentage)
	}

	p := v.Pagination
	fmt.Fprintf(out, "\nPosts (%d matching, page %d of %d):\n", v.Matched, p.Page, p.TotalPages)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tWORDS\tTONE\tPOST")
	for _, r := range v.Rows {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", r.Number, r.WordCount, r.Tone, oneLine(r.Content))
	}
	tw.Flush()
}

func oneLine(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}
