package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		debug bool
	}{
		{"info hides debug", log.InfoLevel, false},
		{"verbose shows debug", log.DebugLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			l.Debug("bubbles closed", "contig", 3)
			if got := strings.Contains(buf.String(), "bubbles closed"); got != tt.debug {
				t.Errorf("debug line written = %v, want %v", got, tt.debug)
			}
			l.Info("contigs reduced", "contigs", 2)
			if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(lastLine(buf.String())) {
				t.Errorf("info line %q lacks an HH:MM:SS.ms timestamp", lastLine(buf.String()))
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("Indexed NA12878: 2 sequences, 18 bases")

	out := buf.String()
	if !strings.Contains(out, "Indexed NA12878: 2 sequences, 18 bases (") {
		t.Errorf("progress output = %q, want message followed by elapsed time", out)
	}
	if !regexp.MustCompile(`\(\d+(\.\d+)?[mµn]?s\)`).MatchString(out) {
		t.Errorf("progress output = %q, want a rounded duration", out)
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return lines[len(lines)-1]
}
