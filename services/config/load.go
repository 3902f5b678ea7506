package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lightcode-go/drivers/bp5758d"
	"lightcode-go/types"
	"lightcode-go/x/mathx"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrMappingLen     = errors.New("light.mapping must have 5 entries")
	ErrMappingRange   = errors.New("light.mapping entries must be in 1..5")
	ErrMappingRepeat  = errors.New("light.mapping entries must be distinct")
	ErrCurrentLen     = errors.New("light.max_current must have 5 entries")
	ErrCurrentRange   = errors.New("light.max_current entries must be in 0..90")
	ErrUnknownFormat  = errors.New("unknown config format (want .toml, .yaml or .yml)")
	ErrLogLevel       = errors.New("logging.level must be debug, info, warn or error")
	ErrLogFormat      = errors.New("logging.format must be text or json")
	errEmptyLightName = errors.New("light.name must be set")
)

// Load reads path, or the embedded default when path is empty. The format
// is chosen by file extension.
func Load(path string) (types.Config, error) {
	if path == "" {
		return Parse([]byte(DefaultTOML), ".toml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data in the given format (".toml", ".yaml" or ".yml") on
// top of the embedded defaults and validates the result.
func Parse(data []byte, ext string) (types.Config, error) {
	var cfg types.Config
	if err := toml.Unmarshal([]byte(DefaultTOML), &cfg); err != nil {
		return cfg, fmt.Errorf("default config: %w", err)
	}
	// Lists replace, they do not merge.
	switch strings.ToLower(ext) {
	case ".toml":
		var over types.Config
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&over); err != nil {
			return cfg, fmt.Errorf("parse toml: %w", err)
		}
		merge(&cfg, over)
	case ".yaml", ".yml":
		var over types.Config
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&over); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse yaml: %w", err)
		}
		merge(&cfg, over)
	default:
		return cfg, ErrUnknownFormat
	}
	return cfg, Validate(cfg)
}

func merge(dst *types.Config, src types.Config) {
	l := src.Light
	if l.Name != "" {
		dst.Light.Name = l.Name
	}
	if l.Device != "" {
		dst.Light.Device = l.Device
	}
	if l.Mapping != nil {
		dst.Light.Mapping = l.Mapping
	}
	if l.MaxCurrent != nil {
		dst.Light.MaxCurrent = l.MaxCurrent
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
	if src.Metrics.Addr != "" {
		dst.Metrics.Addr = src.Metrics.Addr
	}
}

// Validate checks cfg. It is stricter than the driver: mapping entries must
// form a permutation of 1..5, so a zero entry never reaches the chip.
func Validate(cfg types.Config) error {
	l := cfg.Light
	if l.Name == "" {
		return errEmptyLightName
	}
	if len(l.Mapping) != bp5758d.NumChannels {
		return ErrMappingLen
	}
	var seen [bp5758d.NumChannels + 1]bool
	for _, m := range l.Mapping {
		if !mathx.Between(m, 1, bp5758d.NumChannels) {
			return ErrMappingRange
		}
		if seen[m] {
			return ErrMappingRepeat
		}
		seen[m] = true
	}
	if len(l.MaxCurrent) != bp5758d.NumChannels {
		return ErrCurrentLen
	}
	for _, c := range l.MaxCurrent {
		if !mathx.Between(c, 0, bp5758d.CurrentMax) {
			return ErrCurrentRange
		}
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return ErrLogLevel
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return ErrLogFormat
	}
	return nil
}

// DriverConfig converts a validated LightConfig to the driver's form.
func DriverConfig(l types.LightConfig) bp5758d.Config {
	var c bp5758d.Config
	for i := 0; i < bp5758d.NumChannels && i < len(l.Mapping); i++ {
		c.Mapping[i] = uint8(l.Mapping[i])
	}
	for i := 0; i < bp5758d.NumChannels && i < len(l.MaxCurrent); i++ {
		c.MaxCurrent[i] = uint8(l.MaxCurrent[i])
	}
	return c
}
