// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-nb2docx/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Docker creates /.dockerenv in every container. Tests replace it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser launch and connection errors.
// The suggested variables depend on whether we run in CI or a container.
func ForBrowserConnect() string {
	var hints []string

	// Detect CI environment
	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != ""

	// Chrome's sandbox needs privileges containers rarely grant
	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	// Suggest ROD_BROWSER_BIN if not set
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about raising render timeouts.
func ForTimeout() string {
	return format("slow rendering service? raise --timeout or render.readyTimeout")
}

// ForSelectorNotFound returns hints for the remote renderer losing its page landmarks.
func ForSelectorNotFound(selector string) string {
	return format(fmt.Sprintf("selector %q not found; the remote page may have changed, set render.editorSelector/exportSelector or use --renderer local", selector))
}

// ForConfigNotFound suggests where a named config can live.
// Only the user config path (under go-nb2docx) is offered for creation.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Working-directory candidates are not worth suggesting
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-nb2docx") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForStyleNotFound lists the paragraph styles the template does define.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("template styles: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
