package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger writes leveled, printf-style messages to stdout/stderr and,
// optionally, to an append-only log file.
type Logger struct {
	Verbose bool

	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	fileLog *os.File
}

// New creates a new Logger instance
func New(verbose bool) *Logger {
	return &Logger{
		Verbose: verbose,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
}

// SetOutput redirects both the regular and the error stream to w.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	l.errOut = w
}

// SetFileLog enables logging to a file
func (l *Logger) SetFileLog(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if l.fileLog != nil {
		l.fileLog.Close()
	}
	l.fileLog = f
	return nil
}

// Close closes the log file if open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog == nil {
		return nil
	}
	err := l.fileLog.Close()
	l.fileLog = nil
	return err
}

func (l *Logger) Info(format string, args ...any) {
	l.write(l.out, "INFO", format, args...)
}

// Debug logs only in verbose mode, but always reaches the log file.
func (l *Logger) Debug(format string, args ...any) {
	if l.Verbose {
		l.write(l.out, "DEBUG", format, args...)
		return
	}
	l.write(nil, "DEBUG", format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.write(l.out, "WARN", format, args...)
}

// Error logs to stderr
func (l *Logger) Error(format string, args ...any) {
	l.write(l.errOut, "ERROR", format, args...)
}

// write sends one line to w (skipped when nil) and to the file sink.
func (l *Logger) write(w io.Writer, level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	var line string
	if level == "INFO" {
		line = msg + "\n"
	} else {
		line = "[" + level + "] " + msg + "\n"
	}

	if w != nil {
		fmt.Fprint(w, line)
	}

	if l.fileLog != nil {
		l.fileLog.WriteString(time.Now().Format("2006-01-02 15:04:05") + " [" + level + "] " + msg + "\n")
	}
}
