package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/communityshield/dispatch/core/dispatch"
	"github.com/communityshield/dispatch/core/metrics"
	"github.com/communityshield/dispatch/infra/bias"
	"github.com/communityshield/dispatch/infra/extract"
	"github.com/communityshield/dispatch/infra/mqtt"
)

type Config struct {
	MQTT      mqtt.Config         `json:"mqtt"`
	Dispatch  dispatch.LoopConfig `json:"dispatch"`
	Extractor extract.Config      `json:"extractor"`
	Bias      bias.Config         `json:"bias"`
	Metrics   metrics.Config      `json:"metrics"`
	Fleet     FleetConfig         `json:"fleet"`
	API       APIConfig           `json:"api"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
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
	// Optional environment overrides
	if err := k.Load(env.Provider("CS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "cs_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.MQTT.SetDefaults()
	cfg.Dispatch.SetDefaults()
	cfg.Extractor.SetDefaults()
	cfg.Bias.SetDefaults()
	cfg.Fleet.SetDefaults()
	cfg.API.SetDefaults()
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Dispatch.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Fleet.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
