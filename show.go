package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	apiapp "tmxedit/internal/api/app"
)

func newShowCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <file|url> <index>",
		Short: "Show every variant, note and property of one unit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index %q: %w", args[1], err)
			}
			if _, err := c.app.open(cmd.Context(), args[0], c.openFlags(cmd)); err != nil {
				return err
			}
			d, err := c.app.editor.Unit(index)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), d)
			}
			printUnit(cmd.OutOrStdout(), d)
			return nil
		},
	}
	addOpenFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printUnit(out io.Writer, d apiapp.UnitDetail) {
	title := fmt.Sprintf("unit %d", d.Index)
	if d.ID != "" {
		title += " (" + d.ID + ")"
	}
	headingColor.Fprintln(out, title)
	printMeta(out, "  ", d.Attributes, d.Notes, d.Properties)
	for _, v := range d.Variants {
		headingColor.Fprintf(out, "  [%s]\n", v.Language)
		fmt.Fprintf(out, "    %s\n", v.Text)
		printMeta(out, "    ", v.Attributes, v.Notes, v.Properties)
	}
}

func printMeta(out io.Writer, indent string, attrs map[string]string, notes []string, props map[string]string) {
	for _, k := range sortedKeys(attrs) {
		dimColor.Fprintf(out, "%s@%s=%s\n", indent, k, attrs[k])
	}
	for _, n := range notes {
		dimColor.Fprintf(out, "%snote: %s\n", indent, n)
	}
	for _, k := range sortedKeys(props) {
		dimColor.Fprintf(out, "%sprop %s: %s\n", indent, k, props[k])
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
