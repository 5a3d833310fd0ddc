package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type App struct {
	Host             string `yaml:"host"`
	Port             string `yaml:"port"`
	DataDir          string `yaml:"dataDir"`
	LogLevel         string `yaml:"logLevel"`
	LivenessEndpoint string `yaml:"livenessEndpoint"`
}

func defaults() App {
	return App{
		Host:             "localhost",
		Port:             "8092",
		DataDir:          ".roamly",
		LogLevel:         "info",
		LivenessEndpoint: "/liveness",
	}
}

// Load layers, in order: built-in defaults, the optional YAML file named by
// ROAMLY_CONFIG, then environment variables.
func Load() (App, error) {
	cfg := defaults()

	if path := os.Getenv("ROAMLY_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Host = getenv("ROAMLY_HOST", cfg.Host)
	cfg.Port = getenv("ROAMLY_PORT", cfg.Port)
	cfg.DataDir = getenv("ROAMLY_DATA_DIR", cfg.DataDir)
	cfg.LogLevel = getenv("ROAMLY_LOG_LEVEL", cfg.LogLevel)

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
