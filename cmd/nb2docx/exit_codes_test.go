package main

// Notes:
// - exitCodeFor: we test the sentinel errors of the nb2docx and config
//   packages plus wrapped errors, to verify the errors.Is chain.
// - Exit code constants: we verify Unix conventions (0=success, 1=general, 2=usage).
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	nb2docx "github.com/alnah/go-nb2docx"
	"github.com/alnah/go-nb2docx/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// Rendering errors (exit 4)
		{"browser connect", nb2docx.ErrBrowserConnect, ExitBrowser},
		{"page create", nb2docx.ErrPageCreate, ExitBrowser},
		{"page load", nb2docx.ErrPageLoad, ExitBrowser},
		{"render timeout", nb2docx.ErrRenderTimeout, ExitBrowser},
		{"selector not found", nb2docx.ErrSelectorNotFound, ExitBrowser},
		{"download", nb2docx.ErrDownload, ExitBrowser},
		{"wrapped code render", fmt.Errorf("cell 3: %w", nb2docx.ErrCodeRender), ExitBrowser},

		// Usage/config/input errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"extension", ErrInvalidExtension, ExitUsage},
		{"timeout flag", ErrInvalidTimeout, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid value", config.ErrInvalidValue, ExitUsage},
		{"invalid config", nb2docx.ErrInvalidConfig, ExitUsage},
		{"notebook parse", nb2docx.ErrNotebookParse, ExitUsage},
		{"no cells", nb2docx.ErrNoCells, ExitUsage},
		{"image decode", nb2docx.ErrImageDecode, ExitUsage},
		{"template invalid", nb2docx.ErrTemplateInvalid, ExitUsage},
		{"style not found", nb2docx.ErrStyleNotFound, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading: %w", config.ErrConfigParse), ExitUsage},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"notebook read", nb2docx.ErrNotebookRead, ExitIO},
		{"template open", nb2docx.ErrTemplateOpen, ExitIO},
		{"artifact missing", nb2docx.ErrArtifactMissing, ExitIO},
		{"write document", nb2docx.ErrWriteDocument, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Interrupted
		{"cancelled", fmt.Errorf("cell 2: %w", context.Canceled), ExitSignal},

		// General errors (exit 1)
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
		{"wrapped unknown", fmt.Errorf("context: %w", errors.New("unknown")), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Error("exit codes 0, 1 and 2 must follow Unix conventions")
	}
	for _, code := range []int{ExitIO, ExitBrowser} {
		if code >= 126 {
			t.Errorf("custom exit code %d collides with shell-reserved codes", code)
		}
	}
}
