package main

import (
	"github.com/spf13/cobra"

	apiapp "tmxedit/internal/api/app"
)

func newImportCmd(c *cli) *cobra.Command {
	var req apiapp.ImportRequest
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Convert a CSV, JSON or VDF string file into TMX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Filename = args[0]
			res, err := c.app.imports.Import(cmd.Context(), req)
			if err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "imported %d units (%s) into %s\n", res.Units, res.Format, res.Output)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&req.Format, "format", "", "input format; detected from the extension by default")
	fs.StringVar(&req.Locale, "locale", "", "language of the file's values (default en)")
	fs.StringVar(&req.TargetLocale, "target-locale", "", "language of a CSV translation column")
	fs.StringVarP(&req.Output, "output", "o", "", "TMX file to write (default: input name with .tmx)")
	return cmd
}
