package config

import (
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Source is how the effect reads its parameters; it is consulted on every draw.
type Source interface {
	Params() Params
}

// Store holds the current configuration. Readers never block; Reload swaps in a new value
// only when the file parses and validates.
type Store struct {
	path    string
	current atomic.Pointer[Config]
}

// NewStore loads path. An empty path yields a store holding the defaults.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	cfg := Defaults()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}
	s.current.Store(&cfg)
	return s, nil
}

// Fixed returns a store that always holds cfg. Reload is a no-op.
func Fixed(cfg Config) *Store {
	s := &Store{}
	s.current.Store(&cfg)
	return s
}

func (s *Store) Config() Config { return *s.current.Load() }

func (s *Store) Params() Params { return s.current.Load().Glass }

func (s *Store) Tuning() Tuning { return s.current.Load().Adaptive }

// Set replaces the configuration after validating it.
func (s *Store) Set(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.current.Store(&cfg)
	return nil
}

// SetEnabled toggles the effect without touching anything else.
func (s *Store) SetEnabled(on bool) {
	cfg := s.Config()
	cfg.Glass.Enabled = on
	s.current.Store(&cfg)
}

// Reload re-reads the file. On failure the previous configuration stays in effect.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	cfg, err := Load(s.path)
	if err != nil {
		log.Warnf("config reload failed, keeping previous values: %v", err)
		return err
	}
	s.current.Store(&cfg)
	log.Debug("config reloaded", "path", s.path, "enabled", cfg.Glass.Enabled)
	return nil
}
