package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/kibe0711-png/financial-report-creator/internal/classify"
	"github.com/kibe0711-png/financial-report-creator/internal/config"
	"github.com/kibe0711-png/financial-report-creator/internal/logging"
	"github.com/kibe0711-png/financial-report-creator/internal/model"
	"github.com/kibe0711-png/financial-report-creator/internal/store"
)

// project is an opened project directory: its config, store and classifier.
type project struct {
	root       string
	cfg        *config.Config
	log        zerolog.Logger
	store      store.Store
	classifier *classify.Classifier
	model      model.Project
}

func (p *project) Close() error {
	return p.store.Close()
}

// configPath returns <root>/frc.yaml.
func configPath(root string) string {
	return filepath.Join(root, config.FileName)
}

// loadConfig reads frc.yaml, applies environment overrides and validates.
func loadConfig(root string) (*config.Config, error) {
	cfg, err := config.Load(configPath(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no %s in %s (run frc init first): %w", config.FileName, root, err)
		}
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openProject loads the project at root, connects to its store and makes sure
// the configured project row exists, creating it and recording its id in
// frc.yaml when missing.
func openProject(ctx context.Context, root string, logOut io.Writer) (*project, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, logOut)
	if err != nil {
		return nil, err
	}

	rulesPath := config.Resolve(root, cfg.Import.RulesFile)
	rules, err := classify.LoadRulesOrDefault(rulesPath)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("rules", rulesPath).Int("count", len(rules)).Msg("loaded classification rules")

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.StoreDSN(root))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	p := &project{
		root:       root,
		cfg:        cfg,
		log:        log,
		store:      st,
		classifier: classify.New(rules),
	}
	if err := p.ensureProject(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return p, nil
}

func (p *project) ensureProject(ctx context.Context) error {
	if p.cfg.Project.ID != "" {
		m, err := p.store.GetProject(ctx, p.cfg.Project.ID)
		if err == nil {
			p.model = m
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("loading project: %w", err)
		}
		p.log.Warn().Str("project", p.cfg.Project.ID).Msg("configured project not in store, creating it")
	}

	info, err := p.cfg.ProjectInfo()
	if err != nil {
		return err
	}
	m, err := p.store.CreateProject(ctx, info)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	p.model = m

	// Record the id without persisting environment overrides.
	onDisk, err := config.Load(configPath(p.root))
	if err != nil {
		return err
	}
	onDisk.Project.ID = m.ID
	if err := config.Save(configPath(p.root), onDisk); err != nil {
		return err
	}
	p.cfg.Project.ID = m.ID
	p.log.Debug().Str("project", m.ID).Msg("created project")
	return nil
}
