package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tmxedit/internal/usecase/stats"
)

func newStatsCmd(c *cli) *cobra.Command {
	var (
		jobs   int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "stats <file>...",
		Short: "Summarize several local TMX files in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sums, err := stats.SummarizeFiles(cmd.Context(), args, jobs)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), sums)
			}
			t := newTable(cmd.OutOrStdout(), 8, 8, 8)
			t.row(headingColor, "units", "variants", "notes", "languages", "file")
			for _, s := range sums {
				t.row(nil, strconv.Itoa(s.Units), strconv.Itoa(s.Variants), strconv.Itoa(s.Notes),
					strings.Join(s.Languages, ","), s.Location)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files read at once (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
