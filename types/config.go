package types

// Config is the on-disk configuration (TOML or YAML).
type Config struct {
	Light   LightConfig   `toml:"light" yaml:"light" json:"light"`
	Logging LoggingConfig `toml:"logging" yaml:"logging" json:"logging"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics" json:"metrics"`
}

// LightConfig describes one BP5758D and the bus it sits on.
type LightConfig struct {
	Name   string `toml:"name" yaml:"name" json:"name"`
	Device string `toml:"device" yaml:"device" json:"device"` // e.g. /dev/i2c-1
	// Mapping gives the physical output (1..5) for r,g,b,c,w.
	Mapping []int `toml:"mapping" yaml:"mapping" json:"mapping"`
	// MaxCurrent is the per-output current setting (0..90), OUT1..OUT5.
	MaxCurrent []int `toml:"max_current" yaml:"max_current" json:"max_current"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `toml:"format" yaml:"format" json:"format"` // text, json
}

type MetricsConfig struct {
	Addr string `toml:"addr" yaml:"addr" json:"addr"` // empty disables /metrics
}
