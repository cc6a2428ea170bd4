package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks cfg and fills in derived values. It must run before the
// configuration is used.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	if cfg.I2C.Bus == "" {
		return errors.New("config: i2c.bus required")
	}
	if cfg.I2C.Addr == 0 || cfg.I2C.Addr > 0x7f {
		return fmt.Errorf("config: i2c.addr 0x%x is not a 7 bit address", cfg.I2C.Addr)
	}

	t := &cfg.Tuner
	if t.Channel < 87.5 || t.Channel > 107.9 {
		return fmt.Errorf("config: tuner.channel %.1f outside 87.5-107.9", t.Channel)
	}
	if t.Volume < 0 || t.Volume > 31 {
		return fmt.Errorf("config: tuner.volume %d outside 0-31", t.Volume)
	}
	rate, err := time.ParseDuration(t.PollRate)
	if err != nil {
		return fmt.Errorf("config: tuner.poll_rate: %w", err)
	}
	if rate <= 0 {
		return errors.New("config: tuner.poll_rate must be > 0")
	}
	t.pollRate = rate

	r := cfg.RDS
	if r.Validity < 1 {
		return errors.New("config: rds.validity must be >= 1")
	}
	for name, v := range map[string]int{
		"name_max_errors":   r.NameMaxErrors,
		"text_max_errors":   r.TextMaxErrors,
		"record_max_errors": r.RecordMaxErrors,
	} {
		// three blocks at most, 0..3 each
		if v < 0 || v > 9 {
			return fmt.Errorf("config: rds.%s %d outside 0-9", name, v)
		}
	}
	switch r.Region {
	case "na", "eu":
	default:
		return fmt.Errorf("config: rds.region %q, want na or eu", r.Region)
	}
	return nil
}
