package hints

// ForBrowserConnect tests use t.Setenv and swap IsInContainer, so they do not run in parallel.

import (
	"strings"
	"testing"
)

func TestForBrowserConnect_InCI(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "")
	t.Setenv("ROD_BROWSER_BIN", "")

	hint := ForBrowserConnect()
	if !strings.Contains(hint, "hint:") {
		t.Error("expected hint prefix")
	}
	if !strings.Contains(hint, "ROD_NO_SANDBOX") {
		t.Error("expected ROD_NO_SANDBOX suggestion in CI")
	}
	if !strings.Contains(hint, "ROD_BROWSER_BIN") {
		t.Error("expected ROD_BROWSER_BIN suggestion")
	}
}

func TestForBrowserConnect_AllConfigured(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")
	t.Setenv("ROD_NO_SANDBOX", "1")
	t.Setenv("ROD_BROWSER_BIN", "/usr/bin/chromium")

	if hint := ForBrowserConnect(); hint != "" {
		t.Errorf("ForBrowserConnect() = %q, want empty", hint)
	}
}

func TestForSelectorNotFound(t *testing.T) {
	t.Parallel()

	hint := ForSelectorNotFound("#export")
	if !strings.Contains(hint, `"#export"`) || !strings.Contains(hint, "--renderer local") {
		t.Errorf("ForSelectorNotFound() = %q", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{
			name:  "suggests user config path",
			paths: []string{"work.yaml", "/home/u/.config/go-nb2docx/work.yaml"},
			want:  "or create /home/u/.config/go-nb2docx/work.yaml",
		},
		{
			name:  "flag only",
			paths: []string{"work.yaml"},
			want:  "use --config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ForConfigNotFound(tt.paths); !strings.Contains(got, tt.want) {
				t.Errorf("ForConfigNotFound() = %q, want containing %q", got, tt.want)
			}
		})
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if got := ForStyleNotFound(nil); got != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", got)
	}
	got := ForStyleNotFound([]string{"Normal", "heading 1"})
	if !strings.Contains(got, "Normal, heading 1") {
		t.Errorf("ForStyleNotFound() = %q", got)
	}
}

func TestForTimeout(t *testing.T) {
	t.Parallel()

	if !strings.Contains(ForTimeout(), "--timeout") {
		t.Errorf("ForTimeout() = %q", ForTimeout())
	}
}
