package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tmxedit/internal/usecase/stats"
)

func newInfoCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <file|url>",
		Short: "Show the header and counts of a translation memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.open(cmd.Context(), args[0], c.openFlags(cmd)); err != nil {
				return err
			}
			sum, err := c.app.editor.Info()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), sum)
			}
			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}
	addOpenFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printSummary(out io.Writer, s stats.Summary) {
	headingColor.Fprintln(out, s.Location)
	fmt.Fprintf(out, "  units:      %d\n", s.Units)
	fmt.Fprintf(out, "  languages:  %s\n", strings.Join(s.Languages, ", "))
	fmt.Fprintf(out, "  working:    %s -> %s\n", s.SourceLang, s.TargetLang)
	fmt.Fprintf(out, "  variants:   %d\n", s.Variants)
	fmt.Fprintf(out, "  notes:      %d\n", s.Notes)
	fmt.Fprintf(out, "  properties: %d\n", s.Properties)
	fmt.Fprintf(out, "  missing:    %d source, %d target\n", s.MissingSource, s.MissingTarget)
	if s.Modified > 0 {
		modifiedColor.Fprintf(out, "  modified:   %d\n", s.Modified)
	}
	if len(s.Header) > 0 {
		fmt.Fprintln(out, "  header:")
		for _, k := range sortedKeys(s.Header) {
			dimColor.Fprintf(out, "    %s=%s\n", k, s.Header[k])
		}
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
