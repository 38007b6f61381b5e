package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kibe0711-png/financial-report-creator/internal/config"
	"github.com/kibe0711-png/financial-report-creator/internal/importer"
	"github.com/kibe0711-png/financial-report-creator/internal/mapping"
	"github.com/kibe0711-png/financial-report-creator/internal/pipeline"
	"github.com/kibe0711-png/financial-report-creator/internal/render"
	"github.com/kibe0711-png/financial-report-creator/internal/runlog"
	"github.com/kibe0711-png/financial-report-creator/internal/statement"
)

func newImportCommand() *cobra.Command {
	var override mapping.Mapping
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a trial balance, replacing the project's entries",
		Long: "Import a trial balance, replacing the project's entries.\n\n" +
			"With no file, every spreadsheet in the import directory is imported in turn\n" +
			"and moved to the processed directory.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir(cmd)
			if err != nil {
				return err
			}
			file := ""
			if len(args) > 0 {
				if file, err = filepath.Abs(args[0]); err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
			}
			return runImport(cmd.Context(), dir, file, override, dryRun, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&override.AccountCode, "account-code", "", "header holding the account code")
	cmd.Flags().StringVar(&override.AccountName, "account-name", "", "header holding the account name")
	cmd.Flags().StringVar(&override.Amount, "amount", "", "header holding the preliminary amount")
	cmd.Flags().StringVar(&override.Adjustments, "adjustments", "", "header holding adjustments")
	cmd.Flags().StringVar(&override.FinalAmount, "final-amount", "", "header holding the final amount")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without storing entries")

	return cmd
}

func runImport(ctx context.Context, root, file string, override mapping.Mapping, dryRun bool, out, logOut io.Writer) error {
	p, err := openProject(ctx, root, logOut)
	if err != nil {
		return err
	}
	defer p.Close()

	sources := importer.DefaultRegistry()

	if file != "" {
		return p.importFile(ctx, sources, file, override, dryRun, out)
	}

	importDir := config.Resolve(root, p.cfg.Import.Dir)
	files, err := sources.Scan(importDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No files to import in %s\n", importDir)
		return nil
	}

	processedDir := config.Resolve(root, p.cfg.Import.ProcessedDir)
	for _, f := range files {
		if err := p.importFile(ctx, sources, f.Path, override, dryRun, out); err != nil {
			return fmt.Errorf("importing %s: %w", f.Name, err)
		}
		if dryRun {
			continue
		}
		if err := importer.MarkProcessed(f.Path, processedDir); err != nil {
			return err
		}
	}
	return nil
}

func (p *project) importFile(ctx context.Context, sources *importer.Registry, path string, override mapping.Mapping, dryRun bool, out io.Writer) error {
	log := p.log.With().Str("file", filepath.Base(path)).Logger()

	sheet, err := sources.ReadFile(path)
	if err != nil {
		return err
	}
	log.Debug().Int("rows", len(sheet.Rows)).Strs("headers", sheet.Headers).Msg("read sheet")

	preview, err := pipeline.New(p.classifier).Run(sheet.Headers, sheet.Rows, override)
	var incomplete *mapping.IncompleteError
	if errors.As(err, &incomplete) {
		fmt.Fprintf(out, "Headers: %v\n", preview.Headers)
		printMapping(out, preview.Mapping)
		return fmt.Errorf("%w (use --account-code / --amount to choose columns)", err)
	}
	if err != nil {
		return err
	}
	log.Debug().
		Int("entries", len(preview.Entries)).
		Int("fallbacks", len(preview.Fallbacks)).
		Int("warnings", len(preview.Warnings)).
		Msg("ran pipeline")

	printPreview(out, filepath.Base(path), preview)

	if dryRun {
		fmt.Fprintln(out, "Dry run: no entries stored.")
		return nil
	}

	n, err := p.store.ReplaceEntries(ctx, p.model.ID, preview.Entries)
	if err != nil {
		return fmt.Errorf("storing entries: %w", err)
	}
	fmt.Fprintf(out, "Stored %d entries in project %q.\n", n, p.model.Name)

	if err := runlog.Append(p.root, runlog.Entry{
		Action:    runlog.ActionImport,
		ProjectID: p.model.ID,
		Source:    filepath.Base(path),
		Details:   fmt.Sprintf("unclassified=%d warnings=%d fallbacks=%d", preview.Unclassified(), len(preview.Warnings), len(preview.Fallbacks)),
		Count:     n,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to write run log")
	}
	log.Info().Str("project", p.model.ID).Int("entries", n).Msg("imported trial balance")
	return nil
}

func printPreview(out io.Writer, name string, preview pipeline.Preview) {
	fmt.Fprintf(out, "%s: %d entries, %d unclassified\n", name, len(preview.Entries), preview.Unclassified())
	printMapping(out, preview.Mapping)

	for _, f := range preview.Fallbacks {
		fmt.Fprintf(out, "warning: row %d: %s value %q is not a number, read as 0\n", f.Row, f.Field, f.Raw)
	}
	for _, w := range preview.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	for _, e := range statement.Unclassified(preview.Entries) {
		fmt.Fprintf(out, "unclassified: %s %s %s\n", e.AccountCode, e.AccountName, render.FormatAmount(e.FinalAmount))
	}
}
