package config

import (
	"fmt"
	"strings"

	"github.com/tasuku43/gbc/internal/domain/branchname"
)

// Store owns the configuration for one root directory. Every mutation is
// written to gbc.yaml before it becomes visible; a failed write leaves the
// in-memory config untouched.
type Store struct {
	rootDir string
	cfg     Config
}

func Open(rootDir string) (*Store, error) {
	if strings.TrimSpace(rootDir) == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	cfg, err := Load(rootDir)
	if err != nil {
		return nil, err
	}
	return &Store{rootDir: rootDir, cfg: cfg}, nil
}

func (s *Store) RootDir() string {
	return s.rootDir
}

// Config returns a snapshot that later mutations do not affect.
func (s *Store) Config() Config {
	return s.cfg.Clone()
}

func (s *Store) Prefixes() ([]BranchPrefix, error) {
	return s.cfg.Prefixes()
}

func (s *Store) DefaultPrefix() (BranchPrefix, bool) {
	return s.cfg.DefaultPrefix()
}

// AddPrefix appends a prefix. Adding it as default demotes the old default in
// the same write.
func (s *Store) AddPrefix(p BranchPrefix) error {
	p = trimPrefix(p)
	return s.update(func(c *Config) error {
		if c.indexOf(p.Prefix) >= 0 {
			return fmt.Errorf("%w: %s", ErrDuplicatePrefix, p.Prefix)
		}
		if p.IsDefault {
			clearDefault(c)
		}
		c.BranchPrefixes = append(c.BranchPrefixes, p)
		return nil
	})
}

// UpdatePrefix replaces the entry named old, keeping its position.
func (s *Store) UpdatePrefix(old string, p BranchPrefix) error {
	p = trimPrefix(p)
	return s.update(func(c *Config) error {
		idx := c.indexOf(old)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrPrefixNotFound, old)
		}
		if other := c.indexOf(p.Prefix); other >= 0 && other != idx {
			return fmt.Errorf("%w: %s", ErrDuplicatePrefix, p.Prefix)
		}
		if p.IsDefault {
			clearDefault(c)
		}
		c.BranchPrefixes[idx] = p
		return nil
	})
}

func (s *Store) RemovePrefix(prefix string) error {
	return s.update(func(c *Config) error {
		idx := c.indexOf(prefix)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrPrefixNotFound, prefix)
		}
		c.BranchPrefixes = append(c.BranchPrefixes[:idx], c.BranchPrefixes[idx+1:]...)
		return nil
	})
}

func (s *Store) SetDefault(prefix string) error {
	return s.update(func(c *Config) error {
		idx := c.indexOf(prefix)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrPrefixNotFound, prefix)
		}
		clearDefault(c)
		c.BranchPrefixes[idx].IsDefault = true
		return nil
	})
}

func (s *Store) SetDateFormat(format branchname.DateFormat) error {
	return s.update(func(c *Config) error {
		c.DateFormat = format
		return nil
	})
}

// SetCustomGitName overrides the git author used in names. Empty clears it.
func (s *Store) SetCustomGitName(name string) error {
	return s.update(func(c *Config) error {
		c.CustomGitName = strings.TrimSpace(name)
		return nil
	})
}

func (s *Store) SetAutoCheckout(enabled bool) error {
	return s.update(func(c *Config) error {
		c.AutoCheckout = enabled
		return nil
	})
}

// Reset writes the default configuration.
func (s *Store) Reset() error {
	return s.update(func(c *Config) error {
		*c = Default()
		return nil
	})
}

func (s *Store) update(mutate func(*Config) error) error {
	next := s.cfg.Clone()
	if err := mutate(&next); err != nil {
		return err
	}
	if err := next.Check(); err != nil {
		return err
	}
	if err := Save(s.rootDir, next); err != nil {
		return err
	}
	s.cfg = next
	return nil
}

func clearDefault(c *Config) {
	for i := range c.BranchPrefixes {
		c.BranchPrefixes[i].IsDefault = false
	}
}

func trimPrefix(p BranchPrefix) BranchPrefix {
	p.Prefix = strings.TrimSpace(p.Prefix)
	p.Description = strings.TrimSpace(p.Description)
	return p
}
