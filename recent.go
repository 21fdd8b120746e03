package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newRecentCmd(c *cli) *cobra.Command {
	var (
		limit  int
		forget string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.requireStorage(); err != nil {
				return err
			}
			if forget != "" {
				return c.app.recent.Forget(cmd.Context(), forget)
			}
			files, err := c.app.recent.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), files)
			}
			t := newTable(cmd.OutOrStdout(), 19, 6, 9)
			t.row(headingColor, "opened", "units", "languages", "location")
			for _, f := range files {
				t.row(nil, f.OpenedAt.Local().Format("2006-01-02 15:04:05"), strconv.Itoa(f.Units),
					f.SourceLang+"-"+f.TargetLang, f.Location)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of files (0 for all)")
	cmd.Flags().StringVar(&forget, "forget", "", "remove this location from the list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
