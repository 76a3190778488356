package config

import (
	"fmt"
	"os"
	"time"
)

// ServerConfig defines the HTTP listener and static output directory.
type ServerConfig struct {
	// Port is the HTTP listen port. The PORT environment variable overrides it.
	Port string `json:"port"`
	// StaticDir is where generated chart files are written and served from.
	StaticDir string `json:"static_dir"`
}

func (c *ServerConfig) SetDefaults() {
	if p := os.Getenv("PORT"); p != "" {
		c.Port = p
	}
	if c.Port == "" {
		c.Port = "8000"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
}

func (c ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port is required")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string { return ":" + c.Port }

// DatasetConfig lists the candidate CSV locations, checked in order.
type DatasetConfig struct {
	Paths []string `json:"paths"`
	// Seed drives the synthetic dataset when no CSV is found.
	Seed int64 `json:"seed"`
}

func (c *DatasetConfig) SetDefaults() {
	if len(c.Paths) == 0 {
		c.Paths = []string{
			"ev_battery_charging_data.csv",
			"../ev_battery_charging_data.csv",
			"data/ev_battery_charging_data.csv",
		}
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
}

// ModelConfig lists the candidate model artifact locations, checked in order.
type ModelConfig struct {
	Paths []string `json:"paths"`
}

func (c *ModelConfig) SetDefaults() {
	if len(c.Paths) == 0 {
		c.Paths = []string{
			"ev_bms_model.json",
			"../ev_bms_model.json",
			"data/ev_bms_model.json",
		}
	}
}

// ChartConfig selects the renderer strategy.
type ChartConfig struct {
	// Format is "png" for a rasterized bar chart or "html" for a
	// self-contained interactive document.
	Format string `json:"format"`
}

func (c *ChartConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "png"
	}
}

func (c ChartConfig) Validate() error {
	if c.Format != "png" && c.Format != "html" {
		return fmt.Errorf("unknown chart format %s", c.Format)
	}
	return nil
}

// CleanupConfig controls the stale chart sweeper.
type CleanupConfig struct {
	IntervalMinutes int `json:"interval_minutes"`
	MaxAgeMinutes   int `json:"max_age_minutes"`
}

func (c *CleanupConfig) SetDefaults() {
	if c.IntervalMinutes == 0 {
		c.IntervalMinutes = 10
	}
	if c.MaxAgeMinutes == 0 {
		c.MaxAgeMinutes = 30
	}
}

func (c CleanupConfig) Validate() error {
	if c.IntervalMinutes < 0 || c.MaxAgeMinutes < 0 {
		return fmt.Errorf("cleanup intervals must be positive")
	}
	return nil
}

// Interval returns the sweep cadence.
func (c CleanupConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// MaxAge returns the age threshold beyond which charts are deleted.
func (c CleanupConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeMinutes) * time.Minute
}

// HistoryConfig controls the SQLite prediction history store.
type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

func (c *HistoryConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "predictions.db"
	}
}
