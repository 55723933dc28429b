// Package config loads the object tracker settings from YAML and the
// environment.
package config

import (
	"bytes"
	"io"
	"net"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/objtrack/errors"
	"github.com/wippyai/objtrack/vuid"
)

// Environment variables read by ApplyEnv.
const (
	EnvVariant     = "OBJTRACK_VARIANT"
	EnvBlocking    = "OBJTRACK_BLOCKING"
	EnvCatalog     = "OBJTRACK_CATALOG"
	EnvLogLevel    = "OBJTRACK_LOG_LEVEL"
	EnvMetricsAddr = "OBJTRACK_METRICS_ADDR"
)

// Config holds the tracker settings.
type Config struct {
	Variant     string `yaml:"variant"`
	CatalogPath string `yaml:"catalog_path"`
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`
	// Blocking makes the layer skip calls whose validation reported an error.
	Blocking bool `yaml:"blocking"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Variant:  string(vuid.VariantVulkan),
		LogLevel: "info",
	}
}

// Load reads a YAML config file on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read "+path)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.ParseFailed(errors.PhaseConfig, "config", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from OBJTRACK_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvVariant); ok {
		c.Variant = v
	}
	if v, ok := os.LookupEnv(EnvCatalog); ok {
		c.CatalogPath = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvMetricsAddr); ok {
		c.MetricsAddr = v
	}
	if v, ok := os.LookupEnv(EnvBlocking); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path(EnvBlocking).
				Value(v).
				Cause(err).
				Build()
		}
		c.Blocking = b
	}
	return nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var err error
	if _, verr := vuid.ParseVariant(c.Variant); verr != nil {
		err = multierr.Append(err, verr)
	}
	if _, lerr := zapcore.ParseLevel(c.LogLevel); lerr != nil {
		err = multierr.Append(err, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("log_level").
			Value(c.LogLevel).
			Cause(lerr).
			Build())
	}
	if c.MetricsAddr != "" {
		if _, _, aerr := net.SplitHostPort(c.MetricsAddr); aerr != nil {
			err = multierr.Append(err, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path("metrics_addr").
				Value(c.MetricsAddr).
				Cause(aerr).
				Build())
		}
	}
	if c.CatalogPath != "" {
		if _, serr := os.Stat(c.CatalogPath); serr != nil {
			err = multierr.Append(err, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, serr, "catalog_path"))
		}
	}
	return err
}

// VariantValue returns the configured variant.
func (c Config) VariantValue() (vuid.Variant, error) {
	return vuid.ParseVariant(c.Variant)
}

// NewLogger builds a zap logger at LogLevel. Debug level uses the
// development encoder.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log_level")
	}
	zc := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
