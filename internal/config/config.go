package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/iburimskiy/orbit-visualization/internal/orbit"
)

const (
	WindowWidth  = 1024
	WindowHeight = 768
	WindowTitle  = "Orbits - Space: Play/Pause, O: Soundtrack, S: Save, Esc/Q: Quit"

	// Terminal refresh interval (~60 FPS).
	TerminalFrameInterval = 16 * time.Millisecond

	DefaultVariant = VariantTrails
	DefaultState   = "orbits.state"
)

// Variant names.
const (
	VariantTrails = "trails"
	VariantScaled = "scaled"
	VariantFixed  = "fixed"
)

var (
	ErrUnknownVariant = errors.New("unknown variant")
	ErrUnknownColor   = errors.New("unknown color")
	ErrNoBodies       = errors.New("at least one body is required")
)

// BodyConfig describes one body in a config file.
type BodyConfig struct {
	Name       string  `json:"name"`
	Color      string  `json:"color"` // CSS colour name or #rrggbb
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"startAngle"`
	Apsis      float64 `json:"apsis"`
	Velocity   float64 `json:"velocity"`
}

// TrailConfig enables the line effect between two bodies.
type TrailConfig struct {
	Interval    float64 `json:"interval"` // ms
	From        int     `json:"from"`
	To          int     `json:"to"`
	MaxSegments int     `json:"maxSegments"` // 0 keeps every segment
}

// Config is the full description of one animation variant.
type Config struct {
	Variant      string       `json:"variant"`
	Speed        float64      `json:"speed"`     // multiplier applied to every velocity
	ApsisMode    string       `json:"apsisMode"` // "scaled" or "fixed"
	ApsisScale   float64      `json:"apsisScale"`
	OutlineWidth float64      `json:"outlineWidth"`
	Rings        bool         `json:"rings"`
	Trail        *TrailConfig `json:"trail,omitempty"`
	Bodies       []BodyConfig `json:"bodies"`
}

func solarBodies() []BodyConfig {
	return []BodyConfig{
		{Name: "sun", Color: "gold", Radius: 20},
		{Name: "mercury", Color: "red", Radius: 5, Apsis: 0.387, Velocity: 1.59},
		{Name: "venus", Color: "lightyellow", Radius: 12, Apsis: 0.723, Velocity: 1.18},
	}
}

var presets = map[string]func() *Config{
	VariantTrails: func() *Config {
		return &Config{
			Variant:      VariantTrails,
			Speed:        0.001,
			ApsisMode:    orbit.ApsisScaled.String(),
			ApsisScale:   0.5,
			OutlineWidth: 2,
			Rings:        true,
			Trail:        &TrailConfig{Interval: 80, From: 1, To: 2},
			Bodies:       solarBodies(),
		}
	},
	VariantScaled: func() *Config {
		return &Config{
			Variant:      VariantScaled,
			Speed:        0.0005,
			ApsisMode:    orbit.ApsisScaled.String(),
			ApsisScale:   0.45,
			OutlineWidth: 1,
			Bodies:       solarBodies(),
		}
	},
	VariantFixed: func() *Config {
		bodies := solarBodies()
		bodies[1].Apsis = 140
		bodies[2].Apsis = 260
		return &Config{
			Variant:      VariantFixed,
			Speed:        0.0008,
			ApsisMode:    orbit.ApsisFixed.String(),
			OutlineWidth: 1,
			Bodies:       bodies,
		}
	},
}

// Variants lists the preset names in sorted order.
func Variants() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a fresh copy of the named variant.
func Preset(name string) (*Config, error) {
	mk, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownVariant, name, strings.Join(Variants(), ", "))
	}
	return mk(), nil
}

// Load reads a JSON config from path on top of a preset. The preset is the
// file's "variant" field, or variant when the file does not name one.
func Load(path, variant string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var head map[string]json.RawMessage
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if raw, ok := head["variant"]; ok {
		if err := json.Unmarshal(raw, &variant); err != nil {
			return nil, fmt.Errorf("failed to parse variant: %w", err)
		}
	}

	cfg, err := Preset(variant)
	if err != nil {
		return nil, err
	}
	if _, ok := head["bodies"]; ok {
		cfg.Bodies = nil
	}
	if _, ok := head["trail"]; ok {
		cfg.Trail = nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as indented JSON.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks everything the animation needs before it starts.
func (c *Config) Validate() error {
	if c.Speed < 0 {
		return fmt.Errorf("speed must not be negative, got %v", c.Speed)
	}
	mode, err := c.apsisMode()
	if err != nil {
		return err
	}
	if mode == orbit.ApsisScaled && !(c.ApsisScale > 0) {
		return fmt.Errorf("apsis scale must be positive, got %v", c.ApsisScale)
	}
	if c.OutlineWidth < 0 {
		return fmt.Errorf("outline width must not be negative, got %v", c.OutlineWidth)
	}
	bodies, err := c.OrbitBodies()
	if err != nil {
		return err
	}
	for _, b := range bodies {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	if c.Trail != nil {
		if err := c.trail().Validate(len(bodies)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) apsisMode() (orbit.ApsisMode, error) {
	switch c.ApsisMode {
	case orbit.ApsisScaled.String(), "":
		return orbit.ApsisScaled, nil
	case orbit.ApsisFixed.String():
		return orbit.ApsisFixed, nil
	default:
		return 0, fmt.Errorf("unknown apsis mode %q", c.ApsisMode)
	}
}

func (c *Config) trail() *orbit.TrailConfig {
	if c.Trail == nil {
		return nil
	}
	return &orbit.TrailConfig{
		Interval:    c.Trail.Interval,
		From:        c.Trail.From,
		To:          c.Trail.To,
		MaxSegments: c.Trail.MaxSegments,
	}
}

// Params converts the shared settings for the orbit package.
func (c *Config) Params() (orbit.Params, error) {
	mode, err := c.apsisMode()
	if err != nil {
		return orbit.Params{}, err
	}
	return orbit.Params{
		SpeedScale:   c.Speed,
		ApsisMode:    mode,
		ApsisScale:   c.ApsisScale,
		OutlineWidth: c.OutlineWidth,
		Rings:        c.Rings,
		Trail:        c.trail(),
	}, nil
}

// OrbitBodies converts the body list, resolving colours.
func (c *Config) OrbitBodies() ([]orbit.BodyConfig, error) {
	if len(c.Bodies) == 0 {
		return nil, ErrNoBodies
	}
	out := make([]orbit.BodyConfig, 0, len(c.Bodies))
	for _, b := range c.Bodies {
		clr, err := ParseColor(b.Color)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name, err)
		}
		out = append(out, orbit.BodyConfig{
			Name:         b.Name,
			Color:        clr,
			Radius:       b.Radius,
			InitialAngle: b.StartAngle,
			Apsis:        b.Apsis,
			Velocity:     b.Velocity,
		})
	}
	return out, nil
}

// ParseColor accepts a CSS colour name or a #rgb / #rrggbb hex string.
func ParseColor(s string) (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	if strings.HasPrefix(name, "#") {
		c, err := colorful.Hex(name)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w %q: %v", ErrUnknownColor, s, err)
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
	}
	return color.RGBA{}, fmt.Errorf("%w %q", ErrUnknownColor, s)
}
