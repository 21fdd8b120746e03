package main

import (
	"errors"

	"github.com/spf13/cobra"

	apiapp "tmxedit/internal/api/app"
)

func newEditCmd(c *cli) *cobra.Command {
	var (
		req    apiapp.EditRequest
		row    int
		search apiapp.SearchRequest
		output string
	)
	cmd := &cobra.Command{
		Use:   "edit <file|url>",
		Short: "Replace the text of one variant and save",
		Long: `Edit selects a unit by --tuid, by --index, or by --row on the page that
--source-query, --target-query and --page select, replaces the text of its
--lang variant (default: the working target language) and writes the memory.
Documents read from a URL or converted from another format need --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("text") {
				return errors.New("--text is required")
			}
			if _, err := c.app.open(cmd.Context(), args[0], c.openFlags(cmd)); err != nil {
				return err
			}
			var err error
			if cmd.Flags().Changed("row") {
				err = c.app.editor.EditRow(search, row, req.Lang, req.Text)
			} else {
				if req.TUID == "" && !cmd.Flags().Changed("index") {
					return errors.New("select a unit with --tuid, --index or --row")
				}
				err = c.app.editor.Edit(req)
			}
			if err != nil {
				return err
			}
			if output != "" {
				err = c.app.editor.SaveAs(cmd.Context(), output)
			} else {
				err = c.app.editor.Save(cmd.Context())
			}
			if err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "saved %s\n", c.app.session.Location())
			return nil
		},
	}
	addOpenFlags(cmd)
	fs := cmd.Flags()
	fs.StringVar(&req.TUID, "tuid", "", "unit id")
	fs.IntVar(&req.Index, "index", 0, "unit position in the document, starting at 0")
	fs.IntVar(&row, "row", 0, "row on the selected page")
	fs.StringVar(&search.SourceQuery, "source-query", "", "page filter for --row")
	fs.StringVar(&search.TargetQuery, "target-query", "", "page filter for --row")
	fs.IntVar(&search.Page, "page", 0, "page for --row")
	fs.IntVar(&search.PageSize, "page-size", 0, "page size for --row")
	fs.StringVar(&req.Lang, "lang", "", "variant language (default: the working target language)")
	fs.StringVar(&req.Text, "text", "", "new segment text")
	fs.StringVarP(&output, "output", "o", "", "write to this path instead of the input file")
	return cmd
}

