package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	apiapp "tmxedit/internal/api/app"
)

func newListCmd(c *cli) *cobra.Command {
	var req apiapp.SearchRequest
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list <file|url>",
		Short: "List translation units, filtered and paged",
		Long: `List prints one page of translation units for the working language pair.
--source-query and --target-query keep units whose text contains the query,
ignoring case. Modified units are highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.open(cmd.Context(), args[0], c.openFlags(cmd)); err != nil {
				return err
			}
			page, err := c.app.editor.Search(req)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), page)
			}
			printPage(cmd, page)
			return nil
		},
	}
	addOpenFlags(cmd)
	fs := cmd.Flags()
	fs.StringVar(&req.SourceQuery, "source-query", "", "keep units whose source text contains this")
	fs.StringVar(&req.TargetQuery, "target-query", "", "keep units whose target text contains this")
	fs.IntVar(&req.Page, "page", 0, "page index, starting at 0")
	fs.IntVar(&req.PageSize, "page-size", 0, "units per page (default from config)")
	fs.BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printPage(cmd *cobra.Command, page apiapp.PageResponse) {
	out := cmd.OutOrStdout()
	t := newTable(out, 6, 12)
	t.row(headingColor, "#", "tuid", page.SourceLang, page.TargetLang)
	for _, r := range page.Rows {
		var c *color.Color
		if r.Modified {
			c = modifiedColor
		}
		t.row(c, strconv.Itoa(r.Index), r.ID, r.Source, r.Target)
	}
	pages := max(page.Pages, 1)
	dimColor.Fprintf(out, "page %d/%d, %d matching units\n", page.Page+1, pages, page.Total)
	if page.Total == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no units match")
	}
}
