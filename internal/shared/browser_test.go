package shared

import (
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestOpenBrowser(t *testing.T) {
	origRuntime, origStart := getRuntime, startCmd
	t.Cleanup(func() { getRuntime, startCmd = origRuntime, origStart })

	var started *exec.Cmd
	startCmd = func(cmd *exec.Cmd) error {
		started = cmd
		return nil
	}

	t.Run("rejects non-web URLs", func(t *testing.T) {
		for _, raw := range []string{"", "file:///etc/passwd", "not a url", "https://"} {
			if err := OpenBrowser(raw); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument for %q, got %v", raw, err)
			}
		}
	})

	tc := []struct {
		goos string
		want string
	}{
		{goos: "darwin", want: "open"},
		{goos: "linux", want: "xdg-open"},
		{goos: "windows", want: "cmd"},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			getRuntime = func() string { return tt.goos }
			started = nil

			if err := OpenBrowser("https://www.themoviedb.org/movie/550"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if started == nil || !strings.HasSuffix(started.Path, tt.want) && started.Args[0] != tt.want {
				t.Errorf("expected %s to be started, got %+v", tt.want, started)
			}
		})
	}

	t.Run("unsupported platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		err := OpenBrowser("https://example.com")
		if err == nil || !strings.Contains(err.Error(), "unsupported platform") {
			t.Errorf("expected unsupported platform error, got %v", err)
		}
	})

	t.Run("start failure", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		startCmd = func(*exec.Cmd) error { return errors.New("boom") }
		err := OpenBrowser("https://example.com")
		if err == nil || !strings.Contains(err.Error(), "failed to open browser") {
			t.Errorf("expected start failure, got %v", err)
		}
	})
}
