// Package config holds the gofm configuration file.
package config // import "github.com/bartgrantham/gofm-rds/internal/config"

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bartgrantham/gofm-rds/rds"
)

type Config struct {
	I2C     I2CConfig     `yaml:"i2c"`
	Tuner   TunerConfig   `yaml:"tuner"`
	RDS     RDSConfig     `yaml:"rds"`
	Metrics MetricsConfig `yaml:"metrics"`
	Capture CaptureConfig `yaml:"capture"`
	Display DisplayConfig `yaml:"display"`
}

// ---- HARDWARE ----

type I2CConfig struct {
	Bus      string `yaml:"bus"`       // periph bus name, e.g. I2C1
	Addr     uint16 `yaml:"addr"`      // 0x10 for the Si4703
	ResetPin string `yaml:"reset_pin"` // GPIO driving the chip's RST line, empty to skip
}

type TunerConfig struct {
	Channel  float64 `yaml:"channel"` // MHz
	Volume   int     `yaml:"volume"`  // 0..31
	PollRate string  `yaml:"poll_rate"`
	Verbose  bool    `yaml:"verbose"` // RDS verbose mode: sync and per-block errors

	pollRate time.Duration
}

// Rate returns the parsed poll rate. Only valid after Validate.
func (t TunerConfig) Rate() time.Duration { return t.pollRate }

// ---- DECODER ----

type RDSConfig struct {
	Validity        int    `yaml:"validity"`
	NameMaxErrors   int    `yaml:"name_max_errors"`
	TextMaxErrors   int    `yaml:"text_max_errors"`
	RecordMaxErrors int    `yaml:"record_max_errors"`
	Region          string `yaml:"region"` // "na" (RBDS) or "eu"
}

// Decoder returns the decoder settings.
func (c RDSConfig) Decoder() rds.Config {
	return rds.Config{
		Validity: c.Validity,
		Gate: &rds.Gate{
			NameMaxErrors:   c.NameMaxErrors,
			TextMaxErrors:   c.TextMaxErrors,
			RecordMaxErrors: c.RecordMaxErrors,
		},
	}
}

// ProgramRegion returns the program type table to use.
func (c RDSConfig) ProgramRegion() rds.Region {
	if c.Region == "eu" {
		return rds.RegionEU
	}
	return rds.RegionNA
}

// ---- OUTPUTS ----

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables the endpoint
}

type CaptureConfig struct {
	Path string `yaml:"path"` // empty disables recording
}

type DisplayConfig struct {
	// FIGlet fonts for the frequency and call sign, empty for plain text
	BigFont    string `yaml:"big_font"`
	MediumFont string `yaml:"medium_font"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	gate := rds.DefaultGate()
	return &Config{
		I2C: I2CConfig{
			Bus:      "I2C1",
			Addr:     0x10,
			ResetPin: "GPIO23",
		},
		Tuner: TunerConfig{
			Channel: 88.5,
			Volume:  15,
			// From AN230: the data will appear in intervals of ~88 ms and
			// RDSR will be available for at least 40 ms.
			PollRate: "40ms",
			Verbose:  true,
		},
		RDS: RDSConfig{
			Validity:        rds.DefaultValidity,
			NameMaxErrors:   gate.NameMaxErrors,
			TextMaxErrors:   gate.TextMaxErrors,
			RecordMaxErrors: gate.RecordMaxErrors,
			Region:          "na",
		},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: could not read %q: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(raw []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: could not decode: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
