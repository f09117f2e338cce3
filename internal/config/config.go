package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/vk/sectiongrid/internal/units"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "SECTIONGRID_"

// Settings is the full plugin configuration.
type Settings struct {
	// System is the unit system used when a document does not name one.
	System string `yaml:"system"`
	// Workers bounds concurrent component solves; 0 means GOMAXPROCS.
	Workers         int            `yaml:"workers"`
	HealthcheckPort int            `yaml:"healthcheck_port"`
	Log             LogSettings    `yaml:"log"`
	Bridge          BridgeSettings `yaml:"bridge"`
}

type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BridgeSettings locates the remote editor's socket.io endpoint.
type BridgeSettings struct {
	URL       string `yaml:"url"`
	Namespace string `yaml:"namespace"`
	Path      string `yaml:"path"`
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Default returns the settings used when nothing is configured.
func Default() *Settings {
	return &Settings{
		System: string(units.MetricMillimetre),
		Log:    LogSettings{Level: "info", Format: "text"},
		Bridge: BridgeSettings{Namespace: "/", Path: "/socket.io/"},
	}
}

// Load reads settings from a YAML file over the defaults. An empty path or
// a missing file yields the defaults.
func Load(path string) (*Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return s, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables already set. Missing files are
// skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays SECTIONGRID_* variables found through lookup, which is
// usually os.LookupEnv.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
		return nil
	}

	str("SYSTEM", &s.System)
	str("LOG_LEVEL", &s.Log.Level)
	str("LOG_FORMAT", &s.Log.Format)
	str("BRIDGE_URL", &s.Bridge.URL)
	str("BRIDGE_NAMESPACE", &s.Bridge.Namespace)
	str("BRIDGE_PATH", &s.Bridge.Path)
	return errors.Join(
		num("WORKERS", &s.Workers),
		num("HEALTHCHECK_PORT", &s.HealthcheckPort),
	)
}

// Validate reports every invalid setting at once.
func (s *Settings) Validate() error {
	var errs []error
	if _, err := units.ParseSystem(s.System); err != nil {
		errs = append(errs, err)
	}
	if s.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", s.Workers))
	}
	if s.HealthcheckPort < 0 || s.HealthcheckPort > 65535 {
		errs = append(errs, fmt.Errorf("healthcheck port %d is out of range", s.HealthcheckPort))
	}
	if !slices.Contains(logLevels, s.Log.Level) {
		errs = append(errs, fmt.Errorf("invalid log level %q (valid: %v)", s.Log.Level, logLevels))
	}
	if !slices.Contains(logFormats, s.Log.Format) {
		errs = append(errs, fmt.Errorf("invalid log format %q (valid: %v)", s.Log.Format, logFormats))
	}
	return errors.Join(errs...)
}

// Units returns the validated unit system.
func (s *Settings) Units() units.System {
	sys, err := units.ParseSystem(s.System)
	if err != nil {
		return units.MetricMillimetre
	}
	return sys
}
