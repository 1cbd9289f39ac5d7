package utils

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// placeholders like %f %u in desktop entry Exec lines
var placeholderRe = regexp.MustCompile(`%[fFuUdDnNickvm]`)

const maxCaptureBytes = 4 << 20

// RunCapture runs a subprocess with a deadline and a bounded output buffer.
// Exceeding either is a recoverable failure, never a hang.
func RunCapture(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &capWriter{buf: &out}
	cmd.Stderr = &capWriter{buf: &out}
	err := cmd.Run()
	return strings.TrimSpace(out.String()), err
}

type capWriter struct {
	buf *bytes.Buffer
}

func (w *capWriter) Write(p []byte) (int, error) {
	if w.buf.Len() >= maxCaptureBytes {
		// pretend we wrote it; the process keeps running but output is dropped
		return len(p), nil
	}
	return w.buf.Write(p)
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func IsExecutable(p string) bool {
	fi, err := os.Stat(p)
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return !mode.IsDir() && mode&0111 != 0
}

func HomeDir() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return "/"
	}
	return h
}

func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func ShellEscape(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// ShellSplit splits a command line respecting single/double quotes.
func ShellSplit(s string) []string {
	var out []string
	cur := ""
	inq := rune(0)
	esc := false
	for _, r := range s {
		switch {
		case esc:
			cur += string(r)
			esc = false
		case r == '\\':
			esc = true
		case r == '\'' || r == '"':
			if inq == 0 {
				inq = r
			} else if inq == r {
				inq = 0
			} else {
				cur += string(r)
			}
		case r == ' ' && inq == 0:
			if cur != "" {
				out = append(out, cur)
				cur = ""
			}
		default:
			cur += string(r)
		}
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

// SanitizeExecField strips desktop-entry placeholders and returns the bare
// program from an Exec= line.
func SanitizeExecField(execLine string) string {
	if execLine == "" {
		return ""
	}
	execLine = placeholderRe.ReplaceAllString(execLine, "")
	execLine = strings.TrimSpace(execLine)
	parts := ShellSplit(execLine)
	if len(parts) == 0 {
		return execLine
	}
	return parts[0]
}

func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// TokensFrom splits a query into lowercase match tokens, trimming quotes.
func TokensFrom(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f := regexp.MustCompile(`\s+`).Split(s, -1)
	out := []string{}
	for _, p := range f {
		p = strings.Trim(p, `"'`)
		if p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
