package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func(l *Logger)
		want    string
	}{
		{
			name: "info has no prefix",
			log:  func(l *Logger) { l.Info("fetched %d candidates", 3) },
			want: "fetched 3 candidates\n",
		},
		{
			name: "warn is prefixed",
			log:  func(l *Logger) { l.Warn("LRCLib: %s", "timeout") },
			want: "[WARN] LRCLib: timeout\n",
		},
		{
			name: "error is prefixed",
			log:  func(l *Logger) { l.Error("boom") },
			want: "[ERROR] boom\n",
		},
		{
			name: "debug hidden when not verbose",
			log:  func(l *Logger) { l.Debug("hidden") },
			want: "",
		},
		{
			name:    "debug shown when verbose",
			verbose: true,
			log:     func(l *Logger) { l.Debug("shown") },
			want:    "[DEBUG] shown\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(tt.verbose)
			l.SetOutput(&buf)

			tt.log(l)

			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileLogReceivesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bestlyrics.log")

	var buf bytes.Buffer
	l := New(false)
	l.SetOutput(&buf)
	if err := l.SetFileLog(path); err != nil {
		t.Fatalf("SetFileLog() error: %v", err)
	}

	l.Debug("only in file")
	l.Info("everywhere")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "[DEBUG] only in file") {
		t.Errorf("log file missing debug line: %q", content)
	}
	if !strings.Contains(content, "[INFO] everywhere") {
		t.Errorf("log file missing info line: %q", content)
	}
	if strings.Contains(buf.String(), "only in file") {
		t.Errorf("debug line leaked to stdout: %q", buf.String())
	}
}

func TestCloseWithoutFile(t *testing.T) {
	if err := New(false).Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}
