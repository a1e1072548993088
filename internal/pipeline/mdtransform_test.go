package pipeline

import "testing"

func TestPrepareCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "unchanged", in: "a = 1\nb = 2", want: "a = 1\nb = 2"},
		{name: "crlf", in: "a = 1\r\nb = 2\r\n", want: "a = 1\nb = 2"},
		{name: "bare cr", in: "a\rb", want: "a\nb"},
		{name: "trailing spaces", in: "a = 1   \nb = 2\t", want: "a = 1\nb = 2"},
		{name: "outer blank lines", in: "\n\na = 1\n\n", want: "a = 1"},
		{name: "interior blank lines kept", in: "a\n\n\nb", want: "a\n\n\nb"},
		{name: "leading indentation kept", in: "    x", want: "    x"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := PrepareCode(tt.in); got != tt.want {
				t.Errorf("PrepareCode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
