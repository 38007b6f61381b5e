package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kibe0711-png/financial-report-creator/internal/classify"
	"github.com/kibe0711-png/financial-report-creator/internal/config"
)

func newInitCommand() *cobra.Command {
	var name, company, periodEnd string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new report project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir(cmd)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				if dir, err = filepath.Abs(args[0]); err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
			}
			return runInit(cmd.Context(), dir, name, company, periodEnd, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name (required)")
	cmd.Flags().StringVar(&company, "company", "", "company name (required)")
	cmd.Flags().StringVar(&periodEnd, "period-end", "", "period end date, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("period-end")

	return cmd
}

func runInit(ctx context.Context, dir, name, company, periodEnd string, out, logOut io.Writer) error {
	cfg := config.Default(name, company, periodEnd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if _, err := os.Stat(configPath(dir)); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	// Create directory structure.
	dirs := []string{
		"rules",
		"logs",
		cfg.Import.Dir,
		cfg.Import.ProcessedDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write frc.yaml.
	if err := config.Save(configPath(dir), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the default classification rules.
	if err := classify.SaveRules(config.Resolve(dir, cfg.Import.RulesFile), classify.DefaultRules()); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	// Write .gitignore.
	gitignore := "frc.db\nfrc.db-*\n.env\n*_Financial_Report.*\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, cfg.Import.Dir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	// Create the project in the store; this records its id in frc.yaml.
	p, err := openProject(ctx, dir, logOut)
	if err != nil {
		return err
	}
	defer p.Close()

	fmt.Fprintf(out, "Initialized report project %q at %s (%s)\n", name, dir, p.model.ID)
	return nil
}
