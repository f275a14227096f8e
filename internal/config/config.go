package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	DB         DBConfig         `yaml:"db"`
	Snapshot   SnapshotConfig   `yaml:"snapshot"`
	Simulation SimulationConfig `yaml:"simulation"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	// Transport selects how the MCP server is exposed: "stdio" or "http".
	Transport string `yaml:"transport"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type SnapshotConfig struct {
	// Path to a JSON export to import at startup. Empty means the
	// database already holds a snapshot.
	Path string `yaml:"path"`
}

type SimulationConfig struct {
	DefaultIterations int `yaml:"default_iterations"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Transport: "stdio",
			Host:      "0.0.0.0",
			Port:      8080,
		},
		DB: DBConfig{
			Path: "p6risk.db",
		},
		Simulation: SimulationConfig{
			DefaultIterations: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("P6RISK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if transport := os.Getenv("P6RISK_TRANSPORT"); transport != "" {
		cfg.Server.Transport = transport
	}
	if host := os.Getenv("P6RISK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("P6RISK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid P6RISK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("P6RISK_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if snapPath := os.Getenv("P6RISK_SNAPSHOT_PATH"); snapPath != "" {
		cfg.Snapshot.Path = snapPath
	}
	if iterStr := os.Getenv("P6RISK_DEFAULT_ITERATIONS"); iterStr != "" {
		iterations, err := strconv.Atoi(iterStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid P6RISK_DEFAULT_ITERATIONS: %w", err)
		}
		cfg.Simulation.DefaultIterations = iterations
	}
	if level := os.Getenv("P6RISK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if cfg.Server.Transport != "stdio" && cfg.Server.Transport != "http" {
		return Config{}, fmt.Errorf("invalid transport %q: must be stdio or http", cfg.Server.Transport)
	}
	if cfg.Simulation.DefaultIterations <= 0 {
		return Config{}, fmt.Errorf("invalid default_iterations %d: must be positive", cfg.Simulation.DefaultIterations)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
