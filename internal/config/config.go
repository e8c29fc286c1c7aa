package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/stepsim/internal/response"
)

const (
	DefaultKp      = 1.0
	DefaultPercent = 30.0
	DefaultXi      = 0.7
	DefaultH       = 0.02
	DefaultTEnd    = 10.0

	DefaultYMin   = -0.6
	DefaultYMax   = 1.8
	DefaultWidth  = 80
	DefaultHeight = 20
	DefaultDPI    = 150
)

type Config struct {
	Params  ParamsConfig  `yaml:"params"`
	Toggles TogglesConfig `yaml:"toggles"`
	Render  RenderConfig  `yaml:"render"`
	Log     LogConfig     `yaml:"log"`
}

// ParamsConfig holds the nominal gain and the percent increase separately,
// the way the parameter form shows them.
type ParamsConfig struct {
	Kp      float64 `yaml:"kp"`
	Percent float64 `yaml:"percent"`
	Xi      float64 `yaml:"xi"`
	H       float64 `yaml:"h"`
	TEnd    float64 `yaml:"t_end"`
}

type TogglesConfig struct {
	Reference bool `yaml:"reference"`
	Output    bool `yaml:"output"`
	Error     bool `yaml:"error"`
	Feedback  bool `yaml:"feedback"`
}

type RenderConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	YMin   float64 `yaml:"y_min"`
	YMax   float64 `yaml:"y_max"`
	DPI    int     `yaml:"dpi"`
	Theme  string  `yaml:"theme"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Params: ParamsConfig{
			Kp:      DefaultKp,
			Percent: DefaultPercent,
			Xi:      DefaultXi,
			H:       DefaultH,
			TEnd:    DefaultTEnd,
		},
		Toggles: TogglesConfig{
			Reference: true,
			Output:    true,
			Error:     true,
			Feedback:  false,
		},
		Render: RenderConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			YMin:   DefaultYMin,
			YMax:   DefaultYMax,
			DPI:    DefaultDPI,
			Theme:  "dark",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML file over the defaults, so a partial file only
// overrides the keys it names.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadOver(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOver reads a YAML file over an existing config in place.
func LoadOver(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EffectiveKp is the nominal gain with the percent increase applied.
func (p ParamsConfig) EffectiveKp() float64 {
	return response.EffectiveGain(p.Kp, p.Percent)
}

func (p ParamsConfig) Simulation() response.Params {
	return response.Params{
		Kp:   p.EffectiveKp(),
		Xi:   p.Xi,
		H:    p.H,
		TEnd: p.TEnd,
	}
}
