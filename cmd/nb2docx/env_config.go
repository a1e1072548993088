package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-nb2docx/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string        // NB2DOCX_CONFIG: config file name or path
	Timeout     time.Duration // NB2DOCX_TIMEOUT: per-cell render timeout
	Renderer    string        // NB2DOCX_RENDERER: local or remote
	Theme       string        // NB2DOCX_THEME: highlighting theme
	Prefix      string        // NB2DOCX_PREFIX: output file name prefix
	ArtifactDir string        // NB2DOCX_ARTIFACT_DIR: artifact parent directory
}

// knownEnvVars lists valid NB2DOCX_* environment variables.
var knownEnvVars = map[string]bool{
	"NB2DOCX_CONFIG":       true,
	"NB2DOCX_TIMEOUT":      true,
	"NB2DOCX_RENDERER":     true,
	"NB2DOCX_THEME":        true,
	"NB2DOCX_PREFIX":       true,
	"NB2DOCX_ARTIFACT_DIR": true,
	"NB2DOCX_CONTAINER":    true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// An unparsable or non-positive NB2DOCX_TIMEOUT is ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("NB2DOCX_CONFIG"),
		Renderer:    os.Getenv("NB2DOCX_RENDERER"),
		Theme:       os.Getenv("NB2DOCX_THEME"),
		Prefix:      os.Getenv("NB2DOCX_PREFIX"),
		ArtifactDir: os.Getenv("NB2DOCX_ARTIFACT_DIR"),
	}

	if timeout := os.Getenv("NB2DOCX_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized NB2DOCX_* variables.
// Helps catch typos like NB2DOCX_TIMOUT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "NB2DOCX_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies set environment variables over cfg.
// Env vars win over the config file; CLI flags are applied after
// (mergeFlags), giving: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Timeout > 0 {
		cfg.Render.Timeout = env.Timeout.String()
	}
	if env.Renderer != "" {
		cfg.Render.Mode = env.Renderer
	}
	if env.Theme != "" {
		cfg.Render.Theme = env.Theme
	}
	if env.Prefix != "" {
		cfg.Output.Prefix = env.Prefix
	}
	if env.ArtifactDir != "" {
		cfg.Artifacts.Dir = env.ArtifactDir
	}
}
