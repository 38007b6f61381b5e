package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kibe0711-png/financial-report-creator/internal/render"
	"github.com/kibe0711-png/financial-report-creator/internal/statement"
)

func newReportCommand() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the balance sheet and income statement",
		Long: "Render the balance sheet and income statement.\n\n" +
			"Text goes to stdout unless -o is given; xlsx and pdf default to\n" +
			"<Company>_Financial_Report.<ext> in the current directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, func(ctx context.Context, p *project) error {
				return runReport(ctx, p, format, output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "report format: text, xlsx or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}

func runReport(ctx context.Context, p *project, format, output string, out, errOut io.Writer) error {
	renderer, err := render.ForFormat(format)
	if err != nil {
		return err
	}

	entries, err := p.store.ListEntries(ctx, p.model.ID)
	if err != nil {
		return err
	}
	bs := statement.BuildBalanceSheet(entries)
	is := statement.BuildIncomeStatement(entries)

	if n := len(statement.Unclassified(entries)); n > 0 {
		fmt.Fprintf(errOut, "warning: %d unclassified entries are left out of the statements\n", n)
	}
	for _, w := range statement.CheckSigns(entries) {
		fmt.Fprintf(errOut, "warning: %s\n", w)
	}

	data, err := renderer.Render(p.model.ProjectInfo, bs, is)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", renderer.Extension(), err)
	}

	if output == "" {
		if renderer.Extension() == "txt" {
			_, err := out.Write(data)
			return err
		}
		output = render.Filename(p.model.ProjectInfo, renderer)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintf(out, "Wrote %s\n", output)
	p.log.Debug().Str("file", output).Int("bytes", len(data)).Msg("rendered report")
	return nil
}
