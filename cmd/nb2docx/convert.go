package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	nb2docx "github.com/alnah/go-nb2docx"
	"github.com/alnah/go-nb2docx/internal/config"
	"github.com/alnah/go-nb2docx/internal/fileutil"
	"github.com/alnah/go-nb2docx/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage            = errors.New("expected <notebook.ipynb> <template.docx>")
	ErrInvalidExtension = errors.New("unexpected file extension")
	ErrInvalidTimeout   = errors.New("invalid timeout")
)

// runConvert resolves the configuration and assembles one report.
func runConvert(ctx context.Context, args []string, flags *cliFlags, env *Environment) error {
	warnUnknownEnvVars(env.Stderr)

	cfg, err := resolveConfig(flags, loadEnvConfig())
	if err != nil {
		return err
	}

	if flags.printConfig {
		out, err := cfg.Marshal()
		if err != nil {
			return fmt.Errorf("rendering config: %w", err)
		}
		_, err = env.Stdout.Write(out)
		return err
	}

	input, err := resolveInput(args, flags.output, cfg)
	if err != nil {
		return err
	}

	opts := []nb2docx.Option{
		nb2docx.WithConfig(cfg),
		nb2docx.WithLogger(newLogger(env, flags.common)),
	}
	if env.Renderer != nil {
		opts = append(opts, nb2docx.WithCodeRenderer(env.Renderer))
	}
	conv, err := nb2docx.NewConverter(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	start := time.Now()
	res, err := conv.Convert(ctx, input)
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", res.OutputPath)
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "%s (%v)\n", res, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// resolveConfig builds the effective configuration:
// CLI flags > env vars > config file > defaults.
func resolveConfig(flags *cliFlags, env *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := flags.common.config
	if name == "" {
		name = env.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.CandidatePaths(name)))
			}
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	if err := mergeFlags(flags, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags applies explicitly set flags over cfg.
func mergeFlags(flags *cliFlags, cfg *config.Config) error {
	if flags.render.timeout != "" {
		d, err := time.ParseDuration(flags.render.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %q (e.g., 30s, 2m)", ErrInvalidTimeout, flags.render.timeout)
		}
		cfg.Render.Timeout = d.String()
	}
	if flags.render.mode != "" {
		cfg.Render.Mode = flags.render.mode
	}
	if flags.render.theme != "" {
		cfg.Render.Theme = flags.render.theme
	}
	if flags.render.language != "" {
		cfg.Render.Language = flags.render.language
	}
	if flags.prefix != "" {
		cfg.Output.Prefix = flags.prefix
	}
	if flags.artifacts.dir != "" {
		cfg.Artifacts.Dir = flags.artifacts.dir
	}
	if flags.artifacts.keep {
		cfg.Artifacts.Keep = true
	}
	return nil
}

// resolveInput checks the positional arguments. An --output naming an
// existing directory sets the output directory instead of the file.
func resolveInput(args []string, output string, cfg *config.Config) (nb2docx.Input, error) {
	if len(args) != 2 {
		return nb2docx.Input{}, fmt.Errorf("%w, got %d argument(s)", ErrUsage, len(args))
	}
	in := nb2docx.Input{Notebook: args[0], Template: args[1]}

	if err := checkExtension(in.Notebook, ".ipynb"); err != nil {
		return nb2docx.Input{}, err
	}
	if err := checkExtension(in.Template, ".docx"); err != nil {
		return nb2docx.Input{}, err
	}

	if output == "" {
		return in, nil
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		cfg.Output.Dir = output
		return in, nil
	}
	if err := checkExtension(output, ".docx"); err != nil {
		return nb2docx.Input{}, err
	}
	in.Output = output
	return in, nil
}

func checkExtension(path, want string) error {
	if !strings.EqualFold(filepath.Ext(path), want) {
		return fmt.Errorf("%w: %s (want %s)", ErrInvalidExtension, path, want)
	}
	return nil
}

// newLogger returns a text logger on stderr: errors only with --quiet,
// debug with --verbose, info otherwise.
func newLogger(env *Environment, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: level}))
}
