package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/evbms/core/metrics"
	"github.com/kilianp07/evbms/infra/mqtt"
)

type Config struct {
	Server  ServerConfig   `json:"server"`
	Dataset DatasetConfig  `json:"dataset"`
	Model   ModelConfig    `json:"model"`
	Chart   ChartConfig    `json:"chart"`
	Cleanup CleanupConfig  `json:"cleanup"`
	Metrics metrics.Config `json:"metrics"`
	History HistoryConfig  `json:"history"`
	MQTT    mqtt.Config    `json:"mqtt"`
}

// Load reads the configuration file and applies environment overrides. A
// missing file is not an error: the service runs on defaults so the demo
// works out of the box.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if _, err := os.Stat(path); err == nil {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("EVBMS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "evbms_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.SetDefaults()
	cfg.Dataset.SetDefaults()
	cfg.Model.SetDefaults()
	cfg.Chart.SetDefaults()
	cfg.Cleanup.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.History.SetDefaults()
	cfg.MQTT.SetDefaults()
	if err := cfg.Server.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Chart.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Cleanup.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
