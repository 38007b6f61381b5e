package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kibe0711-png/financial-report-creator/internal/importer"
	"github.com/kibe0711-png/financial-report-creator/internal/mapping"
)

func newMappingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mapping <file>",
		Short: "Show the headers of a trial balance and the inferred column mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMapping(args[0], cmd.OutOrStdout())
		},
	}
}

func runMapping(path string, out io.Writer) error {
	sheet, err := importer.DefaultRegistry().ReadFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Headers: %s\n", strings.Join(sheet.Headers, ", "))
	fmt.Fprintf(out, "Rows:    %d\n\n", len(sheet.Rows))
	printMapping(out, mapping.Infer(sheet.Headers))
	return nil
}

func printMapping(out io.Writer, m mapping.Mapping) {
	for _, f := range mapping.Fields() {
		h := m.Header(f)
		if h == "" {
			h = "(unmapped)"
		}
		fmt.Fprintf(out, "  %-12s %s\n", f, h)
	}
}
