// Package config externalizes the VM limits and REPL presentation strings
// that would otherwise be hardcoded constants, loadable from an optional
// horse.yaml via gopkg.in/yaml.v3.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the CLI/REPL driver reads at startup. The
// REPL uses Prompt and ContPrompt. MaxCallDepth and Debug are loaded but
// have no effect: the VM's call-depth guard is the constant
// vm.MaxCallDepth, and debug logging follows only the --debug flag.
type Config struct {
	MaxCallDepth int    `yaml:"max_call_depth"`
	Debug        bool   `yaml:"debug"`
	Prompt       string `yaml:"prompt"`
	ContPrompt   string `yaml:"continuation_prompt"`
}

// Default returns the baseline values used when no config file is loaded.
func Default() Config {
	return Config{
		MaxCallDepth: 2000,
		Debug:        false,
		Prompt:       ">>> ",
		ContPrompt:   "... ",
	}
}

// Load reads a YAML config file, falling back to Default() for any field
// absent from the file. A missing file is not an error — Default() is
// returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
