// ==============================================================================================
// FILE: config/config.go
// ==============================================================================================
// PACKAGE: config
// PURPOSE: Optional YAML-sourced ambient preferences for the REPL/CLI — color output, structured
//          logger verbosity, and a recursion-depth guard for the evaluator's call stack. None of
//          these affect Language semantics; they only shape how the embedding program behaves.
// ==============================================================================================

package config

import (
	"os"

	logging "gopkg.in/op/go-logging.v1"
	"gopkg.in/yaml.v2"
)

// Config holds ambient REPL/CLI preferences loaded from an optional YAML file.
type Config struct {
	Color        bool   `yaml:"color"`
	LogLevel     string `yaml:"log_level"`
	MaxCallDepth int    `yaml:"max_call_depth"`
}

// Default returns the configuration a bare `lucid` invocation runs with: color on,
// warnings-and-above logging, and no recursion ceiling.
func Default() *Config {
	return &Config{Color: true, LogLevel: "WARNING", MaxCallDepth: 0}
}

// Load reads a YAML config file at path, starting from Default and overwriting
// whatever fields the file sets. A missing file is not an error — it just yields
// Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Level parses the configured log level, defaulting to WARNING for anything
// op-logging doesn't recognize.
func (c *Config) Level() logging.Level {
	lvl, err := logging.LogLevel(c.LogLevel)
	if err != nil {
		return logging.WARNING
	}
	return lvl
}

// NewLogger builds a logger scoped to name, backed by stderr at the configured level.
// The NewLogBackend/AddModuleLevel/SetBackend sequence mirrors the teacher repo's own
// structured-logging setup (thought-machine/please's src/cli/logging.go), scaled down
// to what the interpreter needs: one backend, one level, no log-file mirroring.
func (c *Config) NewLogger(name string) *logging.Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter("%{time:15:04:05.000} %{level:.4s} %{message}")
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, formatter))
	leveled.SetLevel(c.Level(), "")
	logging.SetBackend(leveled)
	return logging.MustGetLogger(name)
}
