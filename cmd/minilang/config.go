package main

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// Config is the contents of a TOML config file. Flags given on the command
// line override it.
type Config struct {
	Parser    string `toml:"parser"`
	Mode      string `toml:"mode"`
	Format    string `toml:"format"`
	Precision uint   `toml:"precision"`
	Verb      string `toml:"verb"`
	// Given maps variable names to expressions defining them.
	Given map[string]string `toml:"given"`
	Log   LogConfig         `toml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func loadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("config %s: unknown keys %v", path, keys)
	}
	return &cfg, nil
}

// givens returns the config's variable definitions as name=expr, sorted by
// name.
func (cfg *Config) givens() []string {
	r := make([]string, 0, len(cfg.Given))
	for k, v := range cfg.Given {
		r = append(r, k+"="+v)
	}
	sort.Strings(r)
	return r
}
