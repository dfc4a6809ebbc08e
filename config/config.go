// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config loads the hwrw configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/ezrec/hwrw/iomap"
)

const (
	BUS_SIM    = "sim"    // Simulated register file.
	BUS_DEVMEM = "devmem" // Physical memory through /dev/mem.

	ENV_FILE = ".env" // Environment file loaded before overrides.
)

// Config is the complete hwrw configuration.
type Config struct {
	Bus      BusConfig      `yaml:"bus"`
	Windows  iomap.Windows  `yaml:"windows"`
	Protocol ProtocolConfig `yaml:"protocol"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Audit    AuditConfig    `yaml:"audit"`
}

// BusConfig selects the register accessor.
type BusConfig struct {
	Kind      string            `yaml:"kind"`      // BUS_SIM or BUS_DEVMEM.
	Device    string            `yaml:"device"`    // Device path for BUS_DEVMEM.
	Registers map[uint32]uint32 `yaml:"registers"` // Initial values for BUS_SIM.
}

// ProtocolConfig holds the command protocol limits.
type ProtocolConfig struct {
	MaxInput int    `yaml:"maxInput"` // Maximum accepted command size.
	Stride   uint32 `yaml:"stride"`   // Bytes between registers of a read.
	Verbose  bool   `yaml:"verbose"`  // Log every register access.
}

// ServerConfig holds the control plane settings.
type ServerConfig struct {
	Listen string `yaml:"listen"` // Listen address.
	Path   string `yaml:"path"`   // Control-plane file path.
}

// LogConfig holds log output settings. An empty File logs to stderr.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

// AuditConfig holds the audit trail settings. An empty Database disables it.
type AuditConfig struct {
	Database  string `yaml:"database"`
	BatchSize int    `yaml:"batchSize"`
}

// Default returns the default configuration: a simulated bus over the
// APB peripheral window.
func Default() *Config {
	return &Config{
		Bus: BusConfig{
			Kind:   BUS_SIM,
			Device: "/dev/mem",
		},
		Windows: iomap.Windows{
			{Start: 0x4000_0000, End: 0x4010_0000},
		},
		Protocol: ProtocolConfig{
			MaxInput: 1024,
			Stride:   4,
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:8421",
			Path:   "/hwReadWrite/result",
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Audit: AuditConfig{
			BatchSize: 1,
		},
	}
}

// Load loads the configuration: defaults, then the YAML file at path (if
// not empty), then the environment. A .env file in the working directory,
// if present, is loaded into the environment first.
func Load(path string) (cfg *Config, err error) {
	cfg = Default()

	err = godotenv.Load(ENV_FILE)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("%v: %w", ENV_FILE, err)
		return
	}
	err = nil

	if len(path) != 0 {
		err = LoadFile(cfg, path)
		if err != nil {
			return
		}
	}

	err = ApplyEnv(cfg)
	if err != nil {
		return
	}

	err = cfg.Validate()
	return
}

// LoadFile merges the YAML file at path into the configuration.
func LoadFile(cfg *Config, path string) (err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	err = yaml.UnmarshalStrict(data, cfg)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}
	return
}

// ApplyEnv applies HWRW_* environment overrides.
func ApplyEnv(cfg *Config) (err error) {
	if kind := os.Getenv("HWRW_BUS"); kind != "" {
		cfg.Bus.Kind = kind
	}
	if device := os.Getenv("HWRW_DEVICE"); device != "" {
		cfg.Bus.Device = device
	}
	if listen := os.Getenv("HWRW_LISTEN"); listen != "" {
		cfg.Server.Listen = listen
	}
	if file := os.Getenv("HWRW_LOG_FILE"); file != "" {
		cfg.Log.File = file
	}
	if db := os.Getenv("HWRW_AUDIT_DB"); db != "" {
		cfg.Audit.Database = db
	}
	if verbose := os.Getenv("HWRW_VERBOSE"); verbose != "" {
		cfg.Protocol.Verbose, err = strconv.ParseBool(verbose)
		if err != nil {
			err = fmt.Errorf("HWRW_VERBOSE: %w", err)
			return
		}
	}
	if stride := os.Getenv("HWRW_STRIDE"); stride != "" {
		var v uint64
		v, err = strconv.ParseUint(stride, 0, 32)
		if err != nil {
			err = fmt.Errorf("HWRW_STRIDE: %w", err)
			return
		}
		cfg.Protocol.Stride = uint32(v)
	}
	return
}

// Validate checks the configuration for consistency.
func (cfg *Config) Validate() (err error) {
	switch cfg.Bus.Kind {
	case BUS_SIM, BUS_DEVMEM:
	default:
		return fmt.Errorf("invalid bus kind %q, must be one of: %v", cfg.Bus.Kind, []string{BUS_SIM, BUS_DEVMEM})
	}

	if len(cfg.Windows) == 0 {
		return fmt.Errorf("at least one register window must be configured")
	}
	for _, win := range cfg.Windows {
		err = win.Validate()
		if err != nil {
			return
		}
	}

	for addr := range cfg.Bus.Registers {
		if !cfg.Windows.Contains(addr) || addr&3 != 0 {
			return fmt.Errorf("initial register 0x%08x is not an aligned register in any window", addr)
		}
	}

	if cfg.Protocol.MaxInput <= 0 || cfg.Protocol.MaxInput > 1<<20 {
		return fmt.Errorf("max input %d is outside reasonable range [1, %d]", cfg.Protocol.MaxInput, 1<<20)
	}

	switch cfg.Protocol.Stride {
	case 1, 2, 4:
	default:
		return fmt.Errorf("register stride %d must be one of 1, 2 or 4", cfg.Protocol.Stride)
	}

	if len(cfg.Server.Path) == 0 || cfg.Server.Path[0] != '/' {
		return fmt.Errorf("control-plane path %q must be absolute", cfg.Server.Path)
	}

	if cfg.Audit.BatchSize <= 0 {
		return fmt.Errorf("audit batch size %d must be positive", cfg.Audit.BatchSize)
	}

	return
}
