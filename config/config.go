// Package config holds the glass effect parameters and the adaptive-colour tunables, loaded
// from a YAML file and swapped atomically on reload.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/richinsley/liquidglass/adaptive"
	"github.com/richinsley/liquidglass/luminance"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Params are the effect values read on every draw.
type Params struct {
	Enabled             bool    `yaml:"enabled"`
	BlurStrength        float32 `yaml:"blur_strength"`
	RefractionStrength  float32 `yaml:"refraction_strength"`
	ChromaticAberration float32 `yaml:"chromatic_aberration"`
	FresnelStrength     float32 `yaml:"fresnel_strength"`
	SpecularStrength    float32 `yaml:"specular_strength"`
	GlassOpacity        float32 `yaml:"glass_opacity"`
	EdgeThickness       float32 `yaml:"edge_thickness"`
}

// Tuning controls sampling cadence and where adaptive colours go.
type Tuning struct {
	LuminanceInterval int    `yaml:"luminance_interval"`
	PublishInterval   int    `yaml:"publish_interval"`
	SnapshotPath      string `yaml:"snapshot_path"`
	RegionPrefix      string `yaml:"region_prefix"`
	// LayerNamespaces are the patterns ("bar", "waybar*", "*-panel") a layer surface's
	// namespace must match to receive the effect.
	LayerNamespaces []string `yaml:"layer_namespaces"`
}

type Config struct {
	Glass    Params `yaml:"glass"`
	Adaptive Tuning `yaml:"adaptive"`
}

// Defaults returns the stock configuration.
func Defaults() Config {
	return Config{
		Glass: Params{
			Enabled:             true,
			BlurStrength:        2.0,
			RefractionStrength:  0.04,
			ChromaticAberration: 0.006,
			FresnelStrength:     0.7,
			SpecularStrength:    0.15,
			GlassOpacity:        0.92,
			EdgeThickness:       0.10,
		},
		Adaptive: Tuning{
			LuminanceInterval: luminance.DefaultInterval,
			PublishInterval:   adaptive.DefaultInterval,
			SnapshotPath:      adaptive.DefaultSnapshotPath,
			RegionPrefix:      adaptive.DefaultPrefix,
		},
	}
}

// Parse decodes YAML on top of the defaults, so omitted keys keep their stock values.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and validates a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	p := c.Glass
	strengths := []struct {
		name string
		v    float32
	}{
		{"blur_strength", p.BlurStrength},
		{"refraction_strength", p.RefractionStrength},
		{"chromatic_aberration", p.ChromaticAberration},
		{"fresnel_strength", p.FresnelStrength},
		{"specular_strength", p.SpecularStrength},
		{"edge_thickness", p.EdgeThickness},
	}
	for _, s := range strengths {
		if f := float64(s.v); math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalid, s.name, s.v)
		}
	}
	if o := float64(p.GlassOpacity); math.IsNaN(o) || o < 0 || o > 1 {
		return fmt.Errorf("%w: glass_opacity must be within [0, 1], got %v", ErrInvalid, p.GlassOpacity)
	}

	t := c.Adaptive
	if t.LuminanceInterval < 1 {
		return fmt.Errorf("%w: luminance_interval must be at least 1, got %d", ErrInvalid, t.LuminanceInterval)
	}
	if t.PublishInterval < 1 {
		return fmt.Errorf("%w: publish_interval must be at least 1, got %d", ErrInvalid, t.PublishInterval)
	}
	if t.SnapshotPath == "" {
		return fmt.Errorf("%w: snapshot_path is empty", ErrInvalid)
	}
	if t.RegionPrefix == "" {
		return fmt.Errorf("%w: region_prefix is empty", ErrInvalid)
	}
	for _, ns := range t.LayerNamespaces {
		if ns == "" || ns == "*" {
			return fmt.Errorf("%w: layer namespace pattern %q matches nothing useful", ErrInvalid, ns)
		}
	}
	return nil
}
