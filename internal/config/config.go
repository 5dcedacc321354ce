package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user-tunable settings. Everything has a working default; the
// config file is optional.
type Config struct {
	ExtraRoots  []string `toml:"extra_roots"`
	ResultLimit int      `toml:"result_limit"`
	ExportDir   string   `toml:"export_dir"`
	CacheDir    string   `toml:"cache_dir"`
}

// Load reads ~/.config/copilot-chat-extractor/config.toml when it exists
// and fills in defaults otherwise.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ResultLimit: 100,
		ExportDir:   "./exports",
		CacheDir:    filepath.Join(home, ".copilot-chat-extractor-cache"),
	}

	cfgPath := filepath.Join(home, ".config", "copilot-chat-extractor", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	for i, root := range cfg.ExtraRoots {
		cfg.ExtraRoots[i] = expandHome(root, home)
	}
	cfg.ExportDir = expandHome(cfg.ExportDir, home)
	cfg.CacheDir = expandHome(cfg.CacheDir, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
