// Package config loads the panel's target heights and spring tuning from a
// YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olivier-w/snapsheet/internal/geometry"
	"github.com/olivier-w/snapsheet/internal/sheet"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidTarget = errors.New("invalid target height")
	ErrInvalidTuning = errors.New("invalid tuning")
)

const defaultContent = `Drag this panel with the mouse.

It rests at each target height and springs back when a drag is too short to reach the next one. Drag it past the lowest target to dismiss it.`

// Target is a target height as written in the file: "auto" or a positive
// number of rows.
type Target string

// UnmarshalYAML accepts any scalar, so both `auto` and `12` decode.
func (t *Target) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: expected a scalar at line %d", ErrInvalidTarget, value.Line)
	}
	*t = Target(value.Value)
	return nil
}

// Height converts the target to a geometry.TargetHeight.
func (t Target) Height() (geometry.TargetHeight, error) {
	s := strings.TrimSpace(string(t))
	if strings.EqualFold(s, "auto") || s == "" {
		return geometry.Automatic, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return geometry.TargetHeight{}, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
	}
	return geometry.Fixed(v), nil
}

// Config is the contents of a tuning file.
type Config struct {
	Targets       []Target `yaml:"targets"`
	InitialTarget int      `yaml:"initial_target"` // index into Targets as written
	DismissMargin float64  `yaml:"dismiss_margin"`
	DampingRatio  float64  `yaml:"damping_ratio"`
	Response      float64  `yaml:"response"`
	FPS           int      `yaml:"fps"`
	Content       string   `yaml:"content"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Targets:       []Target{"auto"},
		DismissMargin: 6,
		DampingRatio:  sheet.DefaultTuning.DampingRatio,
		Response:      sheet.DefaultTuning.Response,
		FPS:           60,
		Content:       defaultContent,
	}
}

// Load reads path over the defaults. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validating %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	hs, err := c.Heights()
	if err != nil {
		return err
	}
	if c.InitialTarget < 0 || c.InitialTarget >= len(hs) {
		return fmt.Errorf("%w: initial_target %d out of range [0,%d)", ErrInvalidTarget, c.InitialTarget, len(hs))
	}
	switch {
	case c.DampingRatio <= 0 || c.DampingRatio > 2:
		return fmt.Errorf("%w: damping_ratio %v not in (0,2]", ErrInvalidTuning, c.DampingRatio)
	case c.Response <= 0:
		return fmt.Errorf("%w: response %v must be positive", ErrInvalidTuning, c.Response)
	case c.FPS < 1 || c.FPS > 240:
		return fmt.Errorf("%w: fps %d not in [1,240]", ErrInvalidTuning, c.FPS)
	case c.DismissMargin <= 0:
		return fmt.Errorf("%w: dismiss_margin %v must be positive", ErrInvalidTuning, c.DismissMargin)
	}
	return nil
}

// Heights converts Targets, substituting [auto] for an empty list.
func (c Config) Heights() ([]geometry.TargetHeight, error) {
	if len(c.Targets) == 0 {
		return []geometry.TargetHeight{geometry.Automatic}, nil
	}
	hs := make([]geometry.TargetHeight, len(c.Targets))
	for i, t := range c.Targets {
		h, err := t.Height()
		if err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
		hs[i] = h
	}
	return hs, nil
}

// InitialIndex maps InitialTarget, an index into Targets as written, to the
// index of that target in the sorted, deduplicated layout for container.
// Targets that collapse onto the same offset share an index.
func (c Config) InitialIndex(container geometry.Size, measure geometry.Measurer) int {
	hs, err := c.Heights()
	if err != nil || c.InitialTarget < 0 || c.InitialTarget >= len(hs) {
		return 0
	}
	layout := geometry.NewLayout(hs, container, measure, c.DismissMargin)
	return layout.Nearest(geometry.ResolveOffset(hs[c.InitialTarget], container, measure))
}

// Tuning returns the spring parameters.
func (c Config) Tuning() sheet.Tuning {
	return sheet.Tuning{DampingRatio: c.DampingRatio, Response: c.Response}
}

// Options builds controller options from a validated config.
func (c Config) Options(measure geometry.Measurer) sheet.Options {
	hs, _ := c.Heights()
	return sheet.Options{
		Heights:       hs,
		Measure:       measure,
		DismissMargin: c.DismissMargin,
		Tuning:        c.Tuning(),
	}
}
