package classify

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// RulesFile is the rule table location relative to a project root.
const RulesFile = "rules/classification-rules.csv"

// LoadRules reads a rule table from path.
func LoadRules(path string) (Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening classification rules: %w", err)
	}
	defer f.Close()

	rules, err := ReadRules(f)
	if err != nil {
		return nil, fmt.Errorf("reading classification rules: %w", err)
	}
	return rules, nil
}

// LoadRulesOrDefault is LoadRules, returning DefaultRules when path does not exist.
func LoadRulesOrDefault(path string) (Rules, error) {
	rules, err := LoadRules(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultRules(), nil
	}
	return rules, err
}

// SaveRules writes rules to path, creating its directory.
func SaveRules(path string, rules Rules) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating rules dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating rules file: %w", err)
	}
	defer f.Close()

	if err := WriteRules(f, rules); err != nil {
		return fmt.Errorf("writing classification rules: %w", err)
	}
	return nil
}
