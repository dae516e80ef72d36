package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Knobs is one named preset of tunable scoring constants.
type Knobs struct {
	XrefAlphaPPWS float64 `yaml:"xrefAlphaPPWS"`
	XrefBetaAT    float64 `yaml:"xrefBetaAT"`

	KinkKeywordWeight float64 `yaml:"kinkKeywordWeight"`
	GraphWeight       float64 `yaml:"graphWeight"`

	TicketBoostPP float64 `yaml:"ticketBoostPP"`
	TicketBoostWS float64 `yaml:"ticketBoostWS"`
	RSVPBoostPP   float64 `yaml:"rsvpBoostPP"`
	RSVPBoostWS   float64 `yaml:"rsvpBoostWS"`
	LinkHubBump   float64 `yaml:"linkHubBump"`

	PenaltyCapTotal float64 `yaml:"penaltyCapTotal"`

	BaselineKinkThreshold     float64 `yaml:"baselineKinkThreshold"`
	SocialStrongThresholdFrac float64 `yaml:"socialStrongThresholdFrac"`

	PPMin  float64 `yaml:"ppMin"`
	FacMin float64 `yaml:"facMin"`
	AttMin float64 `yaml:"attMin"`
}

// DefaultPreset is used when an unknown preset name is requested.
const DefaultPreset = "default"

var presets = map[string]Knobs{
	"default": {
		XrefAlphaPPWS: 1.0, XrefBetaAT: 1.0,
		KinkKeywordWeight: 1.2, GraphWeight: 1.0,
		TicketBoostPP: 3.0, TicketBoostWS: 2.5, RSVPBoostPP: 1.0, RSVPBoostWS: 0.8, LinkHubBump: 0.4,
		PenaltyCapTotal:       20,
		BaselineKinkThreshold: 3.2,
		SocialStrongThresholdFrac: 0.10,
		PPMin: 3.6, FacMin: 3.1, AttMin: 2.4,
	},
	"kink_heavy": {
		XrefAlphaPPWS: 1.0, XrefBetaAT: 1.2,
		KinkKeywordWeight: 1.4, GraphWeight: 1.0,
		TicketBoostPP: 3.2, TicketBoostWS: 2.7, RSVPBoostPP: 1.0, RSVPBoostWS: 0.8, LinkHubBump: 0.4,
		PenaltyCapTotal:       20,
		BaselineKinkThreshold: 3.4,
		SocialStrongThresholdFrac: 0.10,
		PPMin: 3.5, FacMin: 3.0, AttMin: 2.2,
	},
	"penalty_heavy": {
		XrefAlphaPPWS: 1.0, XrefBetaAT: 1.0,
		KinkKeywordWeight: 1.1, GraphWeight: 1.05,
		TicketBoostPP: 3.0, TicketBoostWS: 2.5, RSVPBoostPP: 1.0, RSVPBoostWS: 0.8, LinkHubBump: 0.4,
		PenaltyCapTotal:       22,
		BaselineKinkThreshold: 3.2,
		SocialStrongThresholdFrac: 0.10,
		PPMin: 3.7, FacMin: 3.2, AttMin: 2.5,
	},
}

// Preset resolves a preset by name. Unknown names fall back to "default",
// and the second return tells which preset was actually used.
func Preset(name string) (Knobs, string) {
	if k, ok := presets[name]; ok {
		return k, name
	}
	return presets[DefaultPreset], DefaultPreset
}

// PresetNames lists the built-in preset names.
func PresetNames() []string {
	return []string{"default", "kink_heavy", "penalty_heavy"}
}

// Config is the application's configuration model.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Storage StorageConfig `yaml:"storage"`
	Metrics MetricsConfig `yaml:"metrics"`
	Preset  string        `yaml:"preset"`
}

type InputConfig struct {
	ProfilesPath string `yaml:"profilesPath"`
	NodesPath    string `yaml:"nodesPath"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
	// Character size of each corpus chunk file.
	ChunkSize int `yaml:"chunkSize"`
}

type StorageConfig struct {
	DBPath string `yaml:"dbPath"`
}

type MetricsConfig struct {
	// If set (e.g. ":9090"), a /metrics endpoint is served during the run.
	Addr string `yaml:"addr"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Input:   InputConfig{ProfilesPath: "./input/profiles.json", NodesPath: "./input/nodes.json"},
		Output:  OutputConfig{Dir: "./output", ChunkSize: 20000},
		Storage: StorageConfig{DBPath: "./scenerank.db"},
		Metrics: MetricsConfig{Addr: ""},
		Preset:  DefaultPreset,
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("METRICS_ADDR")
	}
	if c.Preset == "" {
		c.Preset = DefaultPreset
	}
	if c.Output.ChunkSize <= 0 {
		c.Output.ChunkSize = 20000
	}
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
