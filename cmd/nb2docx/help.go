package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2docx [flags] <notebook.ipynb> <template.docx>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fill a report template with a notebook's numbered headings, output")
	fmt.Fprintln(w, "images and code images. The template needs three anchor paragraphs")
	fmt.Fprintln(w, "(default: desarrollo, código, conclusiones). The report is written next")
	fmt.Fprintln(w, "to the template as new-<template name>.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output .docx file or directory")
	fmt.Fprintln(w, "      --prefix <s>          Output file name prefix (default \"new-\")")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --print-config        Print the effective config as YAML and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Code Images:")
	fmt.Fprintln(w, "      --renderer <s>        local (headless Chrome) or remote (web service)")
	fmt.Fprintln(w, "      --theme <s>           Highlighting theme, e.g. monokai, github")
	fmt.Fprintln(w, "      --language <s>        Code language, e.g. python, r, julia")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-cell render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Artifacts:")
	fmt.Fprintln(w, "      --artifact-dir <dir>  Parent of the per-notebook image directory")
	fmt.Fprintln(w, "      --keep-artifacts      Keep the images after the run")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show progress and a summary")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "      --doctor [--json]     Check Chrome and the environment")
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  NB2DOCX_CONFIG, NB2DOCX_TIMEOUT, NB2DOCX_RENDERER, NB2DOCX_THEME,")
	fmt.Fprintln(w, "  NB2DOCX_PREFIX, NB2DOCX_ARTIFACT_DIR, ROD_BROWSER_BIN, ROD_NO_SANDBOX")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 ok, 1 unexpected, 2 usage or bad input, 3 I/O, 4 code rendering, 130 interrupted")
}
