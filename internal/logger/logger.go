// Package logger prints tagged, coloured status lines to the console.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

var (
	mu     sync.Mutex
	out    io.Writer
	colors = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
)

// SetOutput redirects all log lines to w; nil restores stdout. Colours are
// kept only when w is a terminal.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	if w == nil {
		w = os.Stdout
	}
	if f, ok := w.(*os.File); ok {
		colors = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		return
	}
	colors = false
}

func paint(color, s string) string {
	if !colors {
		return s
	}
	return color + s + reset
}

// writer resolves os.Stdout at call time so a swapped os.Stdout is honoured.
func writer() io.Writer {
	if out == nil {
		return os.Stdout
	}
	return out
}

func line(color, level, tag, msg string) {
	mu.Lock()
	defer mu.Unlock()
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(writer(), "%s %s %-8s %s\n",
		paint(dim, ts),
		paint(color, fmt.Sprintf("%-4s", level)),
		paint(bold, "["+tag+"]"),
		msg)
}

// Info logs a neutral progress message.
func Info(tag, msg string) { line(cyan, "INFO", tag, msg) }

// Success logs a completed step.
func Success(tag, msg string) { line(green, "OK", tag, msg) }

// Warn logs a recoverable problem (skipped row, unknown planet, ...).
func Warn(tag, msg string) { line(yellow, "WARN", tag, msg) }

// Error logs a failure.
func Error(tag, msg string) { line(red, "ERR", tag, msg) }

// Banner prints the startup banner.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	mu.Lock()
	defer mu.Unlock()
	w := writer()
	fmt.Fprintln(w, paint(bold, "  falcon-odds ")+paint(dim, version))
	fmt.Fprintln(w, paint(dim, "  "+strings.Repeat("─", 32)))
}

// Section prints a heading for a group of Stats lines.
func Section(title string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(writer(), "\n  %s\n", paint(bold, title))
}

// Stats prints an aligned key/value line. Integers are printed with thousands separators.
func Stats(key string, value interface{}) {
	var v string
	switch n := value.(type) {
	case int:
		v = humanize.Comma(int64(n))
	case int64:
		v = humanize.Comma(n)
	case uint64:
		v = humanize.Comma(int64(n))
	default:
		v = fmt.Sprint(value)
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(writer(), "    %-20s %s\n", key, paint(cyan, v))
}

// Server prints the listening address.
func Server(addr string) {
	Success("Server", fmt.Sprintf("Listening on http://%s", addr))
}
