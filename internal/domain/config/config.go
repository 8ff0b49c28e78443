package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tasuku43/gbc/internal/domain/branchname"
	"github.com/tasuku43/gbc/internal/infra/paths"
	"gopkg.in/yaml.v3"
)

const FileName = "gbc.yaml"

var (
	ErrNoPrefixes       = errors.New("no branch prefixes configured")
	ErrAmbiguousDefault = errors.New("more than one default branch prefix")
	ErrDuplicatePrefix  = errors.New("duplicate branch prefix")
	ErrPrefixNotFound   = errors.New("branch prefix not found")
	ErrInvalidPrefix    = errors.New("invalid branch prefix")
)

var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

type BranchPrefix struct {
	Prefix      string `yaml:"prefix"`
	Description string `yaml:"description,omitempty"`
	IsDefault   bool   `yaml:"default,omitempty"`
}

type Config struct {
	BranchPrefixes []BranchPrefix        `yaml:"branch_prefixes"`
	DateFormat     branchname.DateFormat `yaml:"date_format"`
	CustomGitName  string                `yaml:"custom_git_name,omitempty"`
	AutoCheckout   bool                  `yaml:"auto_checkout"`
}

// Default is used when no config file exists yet.
func Default() Config {
	return Config{
		BranchPrefixes: []BranchPrefix{
			{Prefix: "feature/", Description: "New feature", IsDefault: true},
			{Prefix: "bugfix/", Description: "Bug fix"},
			{Prefix: "hotfix/", Description: "Urgent production fix"},
			{Prefix: "release/", Description: "Release preparation"},
			{Prefix: "docs/", Description: "Documentation"},
		},
		DateFormat:   branchname.DefaultDateFormat,
		AutoCheckout: true,
	}
}

// Clone returns a deep copy so callers can hold a snapshot.
func (c Config) Clone() Config {
	out := c
	out.BranchPrefixes = append([]BranchPrefix(nil), c.BranchPrefixes...)
	return out
}

// Prefixes returns the configured prefixes in stored order.
func (c Config) Prefixes() ([]BranchPrefix, error) {
	if len(c.BranchPrefixes) == 0 {
		return nil, ErrNoPrefixes
	}
	return append([]BranchPrefix(nil), c.BranchPrefixes...), nil
}

func (c Config) DefaultPrefix() (BranchPrefix, bool) {
	for _, p := range c.BranchPrefixes {
		if p.IsDefault {
			return p, true
		}
	}
	return BranchPrefix{}, false
}

func (c Config) indexOf(prefix string) int {
	prefix = strings.TrimSpace(prefix)
	for i, p := range c.BranchPrefixes {
		if p.Prefix == prefix {
			return i
		}
	}
	return -1
}

// Check enforces the invariants a stored config must satisfy.
func (c Config) Check() error {
	seen := make(map[string]struct{}, len(c.BranchPrefixes))
	defaults := 0
	for _, p := range c.BranchPrefixes {
		if err := ValidatePrefix(p.Prefix); err != nil {
			return err
		}
		if _, ok := seen[p.Prefix]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePrefix, p.Prefix)
		}
		seen[p.Prefix] = struct{}{}
		if p.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return ErrAmbiguousDefault
	}
	if !c.DateFormat.Valid() {
		return fmt.Errorf("unknown date format %q", c.DateFormat)
	}
	return nil
}

// ValidatePrefix checks a prefix token such as "feature/" or "team/fix/".
func ValidatePrefix(prefix string) error {
	trimmed := strings.TrimSpace(prefix)
	if trimmed == "" {
		return fmt.Errorf("%w: prefix is required", ErrInvalidPrefix)
	}
	if trimmed != prefix {
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidPrefix, prefix)
	}
	if len([]rune(trimmed)) > branchname.MaxPrefixLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidPrefix, prefix, branchname.MaxPrefixLength)
	}
	for _, segment := range strings.Split(strings.TrimSuffix(trimmed, "/"), "/") {
		if !segmentPattern.MatchString(segment) {
			return fmt.Errorf("%w: %q (segments must start with a letter or digit and use letters, digits, '.', '_' or '-')", ErrInvalidPrefix, prefix)
		}
	}
	if err := branchname.Validate(strings.TrimSuffix(trimmed, "/") + "/x"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPrefix, err)
	}
	return nil
}

func Path(rootDir string) string {
	return filepath.Join(rootDir, FileName)
}

type file struct {
	Version        int                   `yaml:"version"`
	BranchPrefixes *[]BranchPrefix       `yaml:"branch_prefixes"`
	DateFormat     branchname.DateFormat `yaml:"date_format"`
	CustomGitName  string                `yaml:"custom_git_name"`
	AutoCheckout   *bool                 `yaml:"auto_checkout"`
}

// Load reads gbc.yaml. A missing file yields Default(); keys left out of the
// file keep their default values, but an explicit empty prefix list stays
// empty.
func Load(rootDir string) (Config, error) {
	path := Path(rootDir)
	exists, err := paths.FileExists(path)
	if err != nil {
		return Config{}, err
	}
	if !exists {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", FileName, err)
	}
	var raw file
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", FileName, err)
	}
	cfg := Default()
	if raw.BranchPrefixes != nil {
		cfg.BranchPrefixes = *raw.BranchPrefixes
	}
	for i := range cfg.BranchPrefixes {
		cfg.BranchPrefixes[i].Prefix = strings.TrimSpace(cfg.BranchPrefixes[i].Prefix)
		cfg.BranchPrefixes[i].Description = strings.TrimSpace(cfg.BranchPrefixes[i].Description)
	}
	if strings.TrimSpace(string(raw.DateFormat)) != "" {
		format, err := branchname.ParseDateFormat(string(raw.DateFormat))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", FileName, err)
		}
		cfg.DateFormat = format
	}
	cfg.CustomGitName = strings.TrimSpace(raw.CustomGitName)
	if raw.AutoCheckout != nil {
		cfg.AutoCheckout = *raw.AutoCheckout
	}
	if err := cfg.Check(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", FileName, err)
	}
	return cfg, nil
}

func Save(rootDir string, cfg Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(Path(rootDir), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", FileName, err)
	}
	return nil
}

func Marshal(cfg Config) ([]byte, error) {
	if cfg.BranchPrefixes == nil {
		cfg.BranchPrefixes = []BranchPrefix{}
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = branchname.DefaultDateFormat
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("marshal %s: %w", FileName, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close %s encoder: %w", FileName, err)
	}
	return []byte(fmt.Sprintf("version: 1\n\n%s", buf.String())), nil
}
