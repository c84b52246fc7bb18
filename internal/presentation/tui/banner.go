package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the CLI banner with a violet gradient.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`   __ _ _   _| |_ ___  _ __ ___   __ _| |_ ___  _ __  `, "#818cf8"},
		{`  / _' | | | | __/ _ \| '_ ' _ \ / _' | __/ _ \| '_ \ `, "#a78bfa"},
		{` | (_| | |_| | || (_) | | | | | | (_| | || (_) | | | |`, "#c084fc"},
		{`  \__,_|\__,_|\__\___/|_| |_| |_|\__,_|\__\___/|_| |_|`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
