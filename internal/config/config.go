// Package config: defaults -> YAML file ($METEO_CONFIG) -> env overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"dev.c0redev.meteo/internal/proto"
	"dev.c0redev.meteo/internal/transport"
)

// Env var names.
const (
	EnvConfig    = "METEO_CONFIG"
	EnvPort      = "METEO_PORT"
	EnvServer    = "METEO_SERVER"
	EnvTransport = "METEO_TRANSPORT"
	EnvIOTimeout = "METEO_IO_TIMEOUT"
)

// DefaultServer: client target when none given.
const DefaultServer = "localhost"

var ErrInvalid = errors.New("invalid config")

// Config shared by server and client binaries.
type Config struct {
	Port      string        `yaml:"port"`
	Server    string        `yaml:"server"`
	Transport string        `yaml:"transport"`
	IOTimeout time.Duration `yaml:"io_timeout"`
}

// Default config (tcp, port 56700, localhost, no timeout).
func Default() *Config {
	return &Config{
		Port:      proto.DefaultPort,
		Server:    DefaultServer,
		Transport: transport.NetworkTCP,
	}
}

// Load reads path (missing file ok, empty path = defaults) then applies env.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// FromEnv is Load($METEO_CONFIG).
func FromEnv() (*Config, error) {
	return Load(os.Getenv(EnvConfig))
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if s := getenv(EnvPort); s != "" {
		c.Port = s
	}
	if s := getenv(EnvServer); s != "" {
		c.Server = s
	}
	if s := getenv(EnvTransport); s != "" {
		c.Transport = s
	}
	if s := getenv(EnvIOTimeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvIOTimeout, err)
		}
		c.IOTimeout = d
	}
	return nil
}

// Validate checks transport and port.
func (c *Config) Validate() error {
	if c.Transport != transport.NetworkTCP && c.Transport != transport.NetworkQUIC {
		return fmt.Errorf("%w: transport %q (want tcp or quic)", ErrInvalid, c.Transport)
	}
	if c.Port == "" {
		return fmt.Errorf("%w: empty port", ErrInvalid)
	}
	if c.IOTimeout < 0 {
		return fmt.Errorf("%w: negative io_timeout", ErrInvalid)
	}
	return nil
}
