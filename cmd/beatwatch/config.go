package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the serve flags in a YAML config file. Flags that were
// set explicitly on the command line take precedence over file values.
type fileConfig struct {
	Port        int      `yaml:"port"`
	Env         string   `yaml:"env"`
	ApiKeys     []string `yaml:"api_keys"`
	RateLimit   int      `yaml:"rate_limit"`
	DataDir     string   `yaml:"data_dir"`
	DBPath      string   `yaml:"db_path"`
	Timezone    string   `yaml:"timezone"`
	FileVersion float64  `yaml:"file_version"`
	Watch       bool     `yaml:"watch"`
	Verbose     bool     `yaml:"verbose"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &fc, nil
}

// applyFileConfig overwrites flag defaults with file values, keeping any flag
// the user set explicitly.
func applyFileConfig(cmd *cobra.Command, fc *fileConfig) {
	set := func(name string, value string) {
		if !cmd.Flags().Changed(name) {
			_ = cmd.Flags().Set(name, value)
		}
	}

	if fc.Port != 0 {
		set("port", fmt.Sprintf("%d", fc.Port))
	}
	if fc.Env != "" {
		set("env", fc.Env)
	}
	if len(fc.ApiKeys) > 0 {
		set("api-keys", strings.Join(fc.ApiKeys, ","))
	}
	if fc.RateLimit != 0 {
		set("rate-limit", fmt.Sprintf("%d", fc.RateLimit))
	}
	if fc.DataDir != "" {
		set("data-dir", fc.DataDir)
	}
	if fc.DBPath != "" {
		set("db", fc.DBPath)
	}
	if fc.Timezone != "" {
		set("timezone", fc.Timezone)
	}
	if fc.FileVersion != 0 {
		set("file-version", fmt.Sprintf("%g", fc.FileVersion))
	}
	if fc.Watch {
		set("watch", "true")
	}
	if fc.Verbose {
		set("verbose", "true")
	}
}
