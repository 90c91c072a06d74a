package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFrequency = 1.0
	DefaultDamping   = 1.0
	DefaultDt        = 1.0 / 60.0
	DefaultMaxTime   = 30.0
	DefaultFrameRate = 60
)

// Config describes one animation run. From and To hold 1, 2, or 3 components
// and must agree in length.
type Config struct {
	From      []float64 `yaml:"from"`
	To        []float64 `yaml:"to"`
	Frequency float64   `yaml:"frequency"`
	Damping   float64   `yaml:"damping"`
	Dt        float64   `yaml:"dt"`
	MaxTime   float64   `yaml:"max_time"`
	FrameRate int       `yaml:"frame_rate"`
}

func DefaultConfig() *Config {
	return &Config{
		From:      []float64{0},
		To:        []float64{1},
		Frequency: DefaultFrequency,
		Damping:   DefaultDamping,
		Dt:        DefaultDt,
		MaxTime:   DefaultMaxTime,
		FrameRate: DefaultFrameRate,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run parameters the spring itself does not own.
func (c *Config) Validate() error {
	if len(c.From) == 0 {
		return fmt.Errorf("config: from is empty")
	}
	if len(c.From) != len(c.To) {
		return fmt.Errorf("config: from has %d components, to has %d", len(c.From), len(c.To))
	}
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %f", c.Dt)
	}
	if c.MaxTime <= 0 {
		return fmt.Errorf("config: max_time must be positive, got %f", c.MaxTime)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("config: frame_rate must be positive, got %d", c.FrameRate)
	}
	return nil
}
