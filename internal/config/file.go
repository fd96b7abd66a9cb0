package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML overlay. Unset keys keep the env value.
type fileConfig struct {
	Port         string   `yaml:"port"`
	DataDir      string   `yaml:"data_dir"`
	PerPage      *int     `yaml:"per_page"`
	SearchFields []string `yaml:"search_fields"`
	CORSOrigins  []string `yaml:"cors_origins"`
	StatsWindow  string   `yaml:"stats_window"`
	LogLevel     string   `yaml:"log_level"`
}

// MergeFile overlays values from a YAML file onto c.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Port != "" {
		c.Port = fc.Port
	}
	if fc.DataDir != "" {
		c.DataDir = fc.DataDir
	}
	if fc.PerPage != nil {
		c.PerPage = *fc.PerPage
	}
	if len(fc.SearchFields) > 0 {
		c.SearchFields = fc.SearchFields
	}
	if len(fc.CORSOrigins) > 0 {
		c.CORSOrigins = fc.CORSOrigins
	}
	if fc.StatsWindow != "" {
		d, err := time.ParseDuration(fc.StatsWindow)
		if err != nil {
			return fmt.Errorf("parse stats_window: %w", err)
		}
		c.StatsWindow = d
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	c.ConfigFile = path
	return nil
}
