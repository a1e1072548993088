package main

import (
	"io"
	"os"

	nb2docx "github.com/alnah/go-nb2docx"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer

	// Renderer replaces the browser-backed code renderer when set.
	Renderer nb2docx.CodeRenderer
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
