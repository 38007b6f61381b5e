package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/kibe0711-png/financial-report-creator/internal/ledger"
	"github.com/kibe0711-png/financial-report-creator/internal/model"
	"github.com/kibe0711-png/financial-report-creator/internal/render"
	"github.com/kibe0711-png/financial-report-creator/internal/runlog"
	"github.com/kibe0711-png/financial-report-creator/internal/store"
)

func newEntriesCommand() *cobra.Command {
	entriesCmd := &cobra.Command{
		Use:   "entries",
		Short: "Review and edit the project's classified entries",
	}
	entriesCmd.AddCommand(newEntriesListCommand())
	entriesCmd.AddCommand(newEntriesAddCommand())
	entriesCmd.AddCommand(newEntriesClassifyCommand())
	entriesCmd.AddCommand(newEntriesDeleteCommand())
	entriesCmd.AddCommand(newEntriesReclassifyCommand())
	entriesCmd.AddCommand(newEntriesExportCommand())
	entriesCmd.AddCommand(newEntriesLoadCommand())
	return entriesCmd
}

// withProject opens the project named by --dir for the duration of fn.
func withProject(cmd *cobra.Command, fn func(ctx context.Context, p *project) error) error {
	dir, err := projectDir(cmd)
	if err != nil {
		return err
	}
	p, err := openProject(cmd.Context(), dir, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer p.Close()
	return fn(cmd.Context(), p)
}

func newEntriesListCommand() *cobra.Command {
	var unclassifiedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries ordered by account code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, func(ctx context.Context, p *project) error {
				return runEntriesList(ctx, p, unclassifiedOnly, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().BoolVar(&unclassifiedOnly, "unclassified", false, "only show unclassified entries")
	return cmd
}

func runEntriesList(ctx context.Context, p *project, unclassifiedOnly bool, out io.Writer) error {
	entries, err := p.store.ListEntries(ctx, p.model.ID)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tFINAL\tCLASSIFICATION\tMANUAL")
	for _, e := range entries {
		if unclassifiedOnly && e.Classification != model.Unclassified {
			continue
		}
		manual := ""
		if e.Manual {
			manual = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.AccountCode, e.AccountName, render.FormatAmount(e.FinalAmount), e.Classification, manual)
	}
	return tw.Flush()
}

func newEntriesAddCommand() *cobra.Command {
	var code, name, amount, adjustments, classification string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a manual entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := manualEntry(code, name, amount, adjustments, classification)
			if err != nil {
				return err
			}
			return withProject(cmd, func(ctx context.Context, p *project) error {
				created, err := p.store.AddEntry(ctx, p.model.ID, e)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s) as %s\n",
					created.AccountCode, created.AccountName, created.ID, created.Classification.Label())
				return p.logRun(runlog.ActionAddEntry, created.AccountCode, created.ID, 1)
			})
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "account code (required)")
	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	cmd.Flags().StringVar(&amount, "amount", "0", "preliminary amount")
	cmd.Flags().StringVar(&adjustments, "adjustments", "", "adjustments to the amount")
	cmd.Flags().StringVar(&classification, "classification", string(model.Unclassified), "classification")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// manualEntry builds a hand-entered line from flag values.
func manualEntry(code, name, amount, adjustments, classification string) (model.ClassifiedEntry, error) {
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return model.ClassifiedEntry{}, fmt.Errorf("%w: amount %q is not a number", model.ErrInvalid, amount)
	}
	var adj decimal.NullDecimal
	if adjustments != "" {
		d, err := decimal.NewFromString(adjustments)
		if err != nil {
			return model.ClassifiedEntry{}, fmt.Errorf("%w: adjustments %q is not a number", model.ErrInvalid, adjustments)
		}
		adj = decimal.NewNullDecimal(d)
	}
	c, err := model.ParseClassification(classification)
	if err != nil {
		return model.ClassifiedEntry{}, err
	}
	e := model.ClassifiedEntry{Entry: model.NewEntry(code, name, amt, adj)}.WithClassification(c)
	e.Manual = true
	if err := e.ValidateManual(); err != nil {
		return model.ClassifiedEntry{}, err
	}
	return e, nil
}

func newEntriesClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <entry-id> <classification>",
		Short: "Set an entry's classification",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := model.ParseClassification(args[1])
			if err != nil {
				return err
			}
			return withProject(cmd, func(ctx context.Context, p *project) error {
				if err := p.store.UpdateClassification(ctx, args[0], c); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Entry %s is now %s (%s)\n", args[0], c.Label(), c.Section().Label())
				return p.logRun(runlog.ActionClassify, string(c), args[0], 1)
			})
		},
	}
}

func newEntriesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, func(ctx context.Context, p *project) error {
				if err := p.store.DeleteEntry(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %s\n", args[0])
				return p.logRun(runlog.ActionDelete, "", args[0], 1)
			})
		},
	}
}

func newEntriesReclassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reclassify",
		Short: "Re-run the classification rules over imported entries",
		Long: "Re-run the classification rules over the stored entries in import order.\n" +
			"Manual entries take part in the scan but keep their classification.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, func(ctx context.Context, p *project) error {
				return runReclassify(ctx, p, cmd.OutOrStdout())
			})
		},
	}
}

func runReclassify(ctx context.Context, p *project, out io.Writer) error {
	entries, err := p.store.ListEntries(ctx, p.model.ID)
	if err != nil {
		return err
	}

	model.SortByPosition(entries)
	var updates []store.ClassificationUpdate
	for i, e := range p.classifier.Reclassify(entries) {
		if e.Manual || e.Classification == entries[i].Classification {
			continue
		}
		updates = append(updates, store.ClassificationUpdate{ID: e.ID, Classification: e.Classification})
	}
	if len(updates) > 0 {
		if err := p.store.UpdateClassifications(ctx, updates); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Reclassified %d of %d entries\n", len(updates), len(entries))
	return p.logRun(runlog.ActionReclassify, "", "", len(updates))
}

func newEntriesExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the classified entries as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, func(ctx context.Context, p *project) error {
				entries, err := p.store.ListEntries(ctx, p.model.ID)
				if err != nil {
					return err
				}
				// Import order, so a later load classifies detail rows the same way.
				model.SortByPosition(entries)
				if output == "" || output == "-" {
					return ledger.WriteEntries(cmd.OutOrStdout(), entries)
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				if err := ledger.WriteEntries(f, entries); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("closing %s: %w", output, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d entries to %s\n", len(entries), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newEntriesLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Replace the project's entries with a classified CSV written by export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			entries, err := ledger.ReadEntries(f)
			if err != nil {
				return err
			}
			return withProject(cmd, func(ctx context.Context, p *project) error {
				n, err := p.store.ReplaceEntries(ctx, p.model.ID, entries)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d entries from %s\n", n, filepath.Base(args[0]))
				return p.logRun(runlog.ActionLoad, filepath.Base(args[0]), "", n)
			})
		},
	}
}

// logRun appends one row to the run log.
func (p *project) logRun(action, source, details string, count int) error {
	return runlog.Append(p.root, runlog.Entry{
		Action:    action,
		ProjectID: p.model.ID,
		Source:    source,
		Details:   details,
		Count:     count,
	})
}
