// Package clipboard provides cross-platform clipboard access via shell commands.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// ErrClipboardUnavailable is returned when no clipboard helper is installed.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// helper is a command that reads clipboard contents from stdin.
type helper struct {
	name string
	args []string
}

// candidates lists the helpers tried in order for each platform.
var candidates = map[string][]helper{
	"darwin":  {{name: "pbcopy"}},
	"windows": {{name: "clip"}},
	"linux": {
		{name: "wl-copy"},
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
	},
	"freebsd": {
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
	},
}

// findHelper returns the first installed helper for goos.
func findHelper(goos string, lookPath func(string) (string, error)) (helper, error) {
	for _, h := range candidates[goos] {
		if _, err := lookPath(h.name); err == nil {
			return h, nil
		}
	}
	return helper{}, ErrClipboardUnavailable
}

// Copy copies the given text to the system clipboard.
// Returns ErrClipboardUnavailable if clipboard access is not available.
func Copy(text string) error {
	h, err := findHelper(runtime.GOOS, exec.LookPath)
	if err != nil {
		return err
	}
	return h.run(text)
}

// waitDelay bounds how long Copy waits on stderr once the helper exits.
// xclip and wl-copy fork a child that keeps serving the selection.
var waitDelay = time.Second

func (h helper) run(text string) error {
	var stderr bytes.Buffer
	cmd := exec.Command(h.name, h.args...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil && !errors.Is(err, exec.ErrWaitDelay) {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("%s: %w", h.name, err)
		}
		return fmt.Errorf("%s: %w: %s", h.name, err, msg)
	}
	return nil
}

// System is the platform clipboard.
type System struct{}

// Copy implements the clipboard writer used by the lookup flow.
func (System) Copy(text string) error { return Copy(text) }
