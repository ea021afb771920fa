package vcfconv_api

import (
	"fmt"
	"os"

	cli "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"
)

// The struct representing the configuration file
// The config file is a YAML file with default values for a few flags
type Config struct {
	// Default FORMAT tag for the .gen output (GT or PL)
	Tag string

	// Default column specification for the TSV input
	Columns string

	// Default output type for synthesized VCF output (b, u, z or v)
	OutputType string `yaml:"output-type"`
}

// Read the configuration file, cast it to its struct and validate
func ReadConfig(Cctx *cli.Context) (*Config, error) {
	var config Config

	if file := Cctx.String("config"); file != "" {
		configFile, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open the config file: %w", err)
		}
		if err := yaml.Unmarshal(configFile, &config); err != nil {
			return nil, fmt.Errorf("failed to parse the config file: %w", err)
		}
	}

	config.defineMissing()
	return &config, nil
}

// Define all missing mandatory fields
func (config *Config) defineMissing() {
	if config.Tag == "" {
		config.Tag = "GT"
	}
	if config.Columns == "" {
		config.Columns = "ID,CHROM,POS,AA"
	}
	if config.OutputType == "" {
		config.OutputType = "v"
	}
}
