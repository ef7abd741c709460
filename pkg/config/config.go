package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lazytensor/lazyrt/pkg/device"
)

// Engine configures the lazy runtime. All fields are optional; zero
// values fall back to the defaults below.
type Engine struct {
	// Seed overrides the initial root seed on every configured device.
	Seed uint64 `yaml:"seed"`
	// Devices lists the devices to bring up, e.g. "cpu:0".
	Devices []string `yaml:"devices"`
	// Capacity bounds resident handles per device in the fallback
	// backend; 0 means unlimited.
	Capacity int `yaml:"capacity"`
}

func DefaultEngine() Engine {
	return Engine{
		Devices: []string{"cpu:0"},
	}
}

// Load reads an Engine config from a YAML file, applying defaults for
// absent fields.
func Load(path string) (Engine, error) {
	cfg := DefaultEngine()

	data, err := os.ReadFile(path)
	if err != nil {
		return Engine{}, fmt.Errorf("reading config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Engine{}, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	if len(cfg.Devices) == 0 {
		cfg.Devices = DefaultEngine().Devices
	}
	if err := cfg.Validate(); err != nil {
		return Engine{}, err
	}
	return cfg, nil
}

func (c Engine) Validate() error {
	for _, s := range c.Devices {
		if _, err := device.Parse(s); err != nil {
			return fmt.Errorf("invalid device in config: %w", err)
		}
	}
	if c.Capacity < 0 {
		return fmt.Errorf("capacity must not be negative, got %d", c.Capacity)
	}
	return nil
}

// DeviceList parses the configured device strings.
func (c Engine) DeviceList() ([]device.Device, error) {
	devices := make([]device.Device, 0, len(c.Devices))
	for _, s := range c.Devices {
		dev, err := device.Parse(s)
		if err != nil {
			return nil, err
		}
		devices = append(devices, dev)
	}
	return devices, nil
}
