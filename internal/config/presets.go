package config

// Tuning is a named frequency/damping pair.
type Tuning struct {
	Frequency float64 `yaml:"frequency"`
	Damping   float64 `yaml:"damping"`
}

// Presets are ready-made motion characters. Damping below 1 oscillates
// before settling, 1 settles as fast as possible without overshoot, above 1
// drags.
var Presets = map[string]Tuning{
	"gentle":   {Frequency: 0.6, Damping: 1.0},
	"snappy":   {Frequency: 2.5, Damping: 1.0},
	"wobbly":   {Frequency: 1.8, Damping: 0.25},
	"bouncy":   {Frequency: 3.0, Damping: 0.4},
	"stiff":    {Frequency: 4.0, Damping: 0.8},
	"molasses": {Frequency: 0.8, Damping: 3.0},
}

func GetPreset(name string) (Tuning, bool) {
	t, ok := Presets[name]
	return t, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

// ApplyPreset overwrites the config's tuning with the named preset.
func (c *Config) ApplyPreset(name string) bool {
	t, ok := Presets[name]
	if !ok {
		return false
	}
	c.Frequency = t.Frequency
	c.Damping = t.Damping
	return true
}
