package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the gridline banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Amber to red, like a live wire.
	lines := []struct {
		text  string
		color string
	}{
		{"            _     _ _ _            ", "#facc15"},
		{"   __ _ _ __(_) __| | (_)_ __   ___ ", "#fbbf24"},
		{"  / _` | '__| |/ _` | | | '_ \\ / _ \\", "#f59e0b"},
		{" | (_| | |  | | (_| | | | | | |  __/", "#f97316"},
		{"  \\__, |_|  |_|\\__,_|_|_|_| |_|\\___|", "#ef4444"},
		{"  |___/                              ", "#dc2626"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
