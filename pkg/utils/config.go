package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InputFile pairs one regional trending export with its region tag.
type InputFile struct {
	Path    string `yaml:"path"`
	Country string `yaml:"country"`
}

// PipelineConfig carries every path the pipeline touches. The defaults match
// the layout the upstream Kaggle exports ship with; a YAML file can override
// any of them.
type PipelineConfig struct {
	Inputs       []InputFile `yaml:"inputs"`
	CategoryFile string      `yaml:"category_file"`
	DBPath       string      `yaml:"db_path"`
	OutputsDir   string      `yaml:"outputs_dir"`
	PowerBIDir   string      `yaml:"powerbi_dir"`
	VisualsDir   string      `yaml:"visuals_dir"`
}

func DefaultPipelineConfig() PipelineConfig {
	cfg := PipelineConfig{
		Inputs: []InputFile{
			{Path: "data/USvideos.csv", Country: "US"},
			{Path: "data/INvideos.csv", Country: "IN"},
		},
		// same id->name structure for every region, so one file is enough
		CategoryFile: "data/US_category_id.json",
		DBPath:       "youtube_trending.db",
		OutputsDir:   "outputs",
		PowerBIDir:   "powerbi",
		VisualsDir:   "visuals",
	}
	if p := os.Getenv("TRENDHUB_DB_PATH"); p != "" {
		cfg.DBPath = p
	}
	return cfg
}

// LoadPipelineConfig returns the defaults overlaid with the YAML file at
// path. An empty path means defaults only.
func LoadPipelineConfig(path string) (PipelineConfig, error) {
	cfg := DefaultPipelineConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if len(cfg.Inputs) == 0 {
		return cfg, fmt.Errorf("config %s: at least one input file is required", path)
	}
	for i, in := range cfg.Inputs {
		if in.Path == "" || in.Country == "" {
			return cfg, fmt.Errorf("config %s: inputs[%d] needs both path and country", path, i)
		}
	}
	return cfg, nil
}
