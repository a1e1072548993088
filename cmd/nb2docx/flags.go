package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared by every mode.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds code image flags.
type renderFlags struct {
	mode     string
	theme    string
	language string
	timeout  string
}

// artifactFlags holds artifact directory flags.
type artifactFlags struct {
	dir  string
	keep bool
}

// cliFlags holds everything parseFlags understands.
type cliFlags struct {
	common      commonFlags
	output      string
	prefix      string
	render      renderFlags
	artifacts   artifactFlags
	printConfig bool
	doctor      bool
	json        bool
	version     bool
	help        bool
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show progress and a summary")
}

func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.mode, "renderer", "", "code image renderer: local, remote")
	fs.StringVar(&f.theme, "theme", "", "code highlighting theme (chroma style name)")
	fs.StringVar(&f.language, "language", "", "code language (chroma lexer name)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-cell render timeout (e.g., 30s, 2m)")
}

func addArtifactFlags(fs *flag.FlagSet, f *artifactFlags) {
	fs.StringVar(&f.dir, "artifact-dir", "", "parent directory of the image artifacts")
	fs.BoolVar(&f.keep, "keep-artifacts", false, "keep image artifacts after the run")
}

// parseFlags parses args (without the program name) and returns the
// positional arguments. Usage output is left to the caller.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("nb2docx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	f := &cliFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVar(&f.prefix, "prefix", "", "prefix for the output file name (default \"new-\")")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addArtifactFlags(fs, &f.artifacts)
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective config as YAML and exit")
	fs.BoolVar(&f.doctor, "doctor", false, "check the system and exit")
	fs.BoolVar(&f.json, "json", false, "doctor output as JSON")
	fs.BoolVar(&f.version, "version", false, "show version information")
	fs.BoolVarP(&f.help, "help", "h", false, "show this help")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
