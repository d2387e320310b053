// Package clipboard provides platform-specific clipboard operations.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

var (
	lookPath = exec.LookPath
	runTool  = func(name string, args []string, input string) error {
		cmd := exec.Command(name, args...)
		cmd.Stdin = strings.NewReader(input)
		return cmd.Run()
	}
)

// Tools tried per platform, in order of preference.
var tools = map[string][][]string{
	"linux": {
		{"wl-copy"},                          // Wayland
		{"xclip", "-selection", "clipboard"}, // X11
		{"xsel", "--clipboard", "--input"},   // X11 alternative
	},
	"darwin": {
		{"pbcopy"},
	},
	"windows": {
		{"clip"},
		{"powershell", "-NoProfile", "-Command", "$input | Set-Clipboard"},
	},
}

// CopyText copies plain text to the system clipboard.
func CopyText(text string) error {
	return copyWith(runtime.GOOS, text)
}

func copyWith(goos, text string) error {
	candidates, ok := tools[goos]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", goos)
	}

	var tried []string
	for _, tool := range candidates {
		tried = append(tried, tool[0])
		if !isCommandAvailable(tool[0]) {
			continue
		}
		if err := runTool(tool[0], tool[1:], text); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no suitable clipboard tool found (tried: %s)", strings.Join(tried, ", "))
}

func isCommandAvailable(name string) bool {
	_, err := lookPath(name)
	return err == nil
}
