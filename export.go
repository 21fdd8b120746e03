package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apiapp "tmxedit/internal/api/app"
)

func newExportCmd(c *cli) *cobra.Command {
	var req apiapp.ExportRequest
	cmd := &cobra.Command{
		Use:   "export <file|url>",
		Short: "Export the working language pair to another format",
		Long: `Export writes the source and target text of every unit as a key/value file.
Keys are unit ids, or tu-<n> for units without one. Units without a target
variant export their source text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Format == "" {
				return fmt.Errorf("--to is required (%s)", strings.Join(c.app.exports.Formats(), "|"))
			}
			if _, err := c.app.open(cmd.Context(), args[0], c.openFlags(cmd)); err != nil {
				return err
			}
			res, err := c.app.exports.Export(cmd.Context(), req)
			if err != nil {
				return err
			}
			if req.Output == "" {
				_, err = cmd.OutOrStdout().Write(res.Content)
				return err
			}
			okColor.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", res.Filename)
			return nil
		},
	}
	addOpenFlags(cmd)
	fs := cmd.Flags()
	fs.StringVar(&req.Format, "to", "", "output format")
	fs.StringVarP(&req.Output, "output", "o", "", "output file (default: stdout)")
	fs.StringVar(&req.LanguageName, "language-name", "", "language name for the VDF header")
	fs.StringVar(&req.Separator, "separator", "comma", "CSV separator (comma|semicolon|tab)")
	return cmd
}
