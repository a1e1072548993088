package main

import (
	"context"
	"errors"
	"os"

	nb2docx "github.com/alnah/go-nb2docx"
	"github.com/alnah/go-nb2docx/internal/config"
)

// Exit codes for the nb2docx CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Report written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or input documents
	ExitIO      = 3 // File not found, permission denied, write failure
	ExitBrowser = 4 // Code image production failed
	ExitSignal  = 130
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		return ExitSignal
	}

	// Rendering errors (exit 4)
	if errors.Is(err, nb2docx.ErrBrowserConnect) ||
		errors.Is(err, nb2docx.ErrPageCreate) ||
		errors.Is(err, nb2docx.ErrPageLoad) ||
		errors.Is(err, nb2docx.ErrRenderTimeout) ||
		errors.Is(err, nb2docx.ErrSelectorNotFound) ||
		errors.Is(err, nb2docx.ErrDownload) ||
		errors.Is(err, nb2docx.ErrCodeRender) {
		return ExitBrowser
	}

	// Usage/config/input errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, nb2docx.ErrInvalidConfig) ||
		errors.Is(err, nb2docx.ErrNotebookParse) ||
		errors.Is(err, nb2docx.ErrNoCells) ||
		errors.Is(err, nb2docx.ErrImageDecode) ||
		errors.Is(err, nb2docx.ErrTemplateInvalid) ||
		errors.Is(err, nb2docx.ErrStyleNotFound) ||
		errors.Is(err, nb2docx.ErrEmptyNotebookPath) ||
		errors.Is(err, nb2docx.ErrEmptyTemplatePath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, nb2docx.ErrNotebookRead) ||
		errors.Is(err, nb2docx.ErrTemplateOpen) ||
		errors.Is(err, nb2docx.ErrArtifactMissing) ||
		errors.Is(err, nb2docx.ErrWriteDocument) {
		return ExitIO
	}

	return ExitGeneral
}
