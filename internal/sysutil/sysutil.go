// Package sysutil collects process-external state for the diagnostics page
// and hosts small logging helpers shared by main and the HTTP layer.
package sysutil

import (
	"bufio"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SetLogLevel configures the global zerolog level based on a string value.
// Supported values (case-insensitive): debug, info, warn, error, fatal, panic.
func SetLogLevel(lvl string) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info", "":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// PlatformStats is a read-only snapshot of host and runtime metadata.
type PlatformStats struct {
	Hostname   string
	OS         string
	Arch       string
	NumCPU     int
	GoVersion  string
	Compiler   string
	Goroutines int
	PID        int
	Uptime     time.Duration
}

// processStart anchors the Uptime field; set once at import time.
var processStart = time.Now()

// Snapshot gathers host/platform metadata for the diagnostics view.
// It reads no application state and never fails: fields that cannot be
// resolved are left at their zero value.
func Snapshot() PlatformStats {
	host, _ := os.Hostname()
	return PlatformStats{
		Hostname:   host,
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		NumCPU:     runtime.NumCPU(),
		GoVersion:  runtime.Version(),
		Compiler:   runtime.Compiler,
		Goroutines: runtime.NumGoroutine(),
		PID:        os.Getpid(),
		Uptime:     time.Since(processStart).Round(time.Second),
	}
}

// LogTail describes the tail of a single log file.
type LogTail struct {
	Name    string
	Size    int64
	ModTime time.Time
	Lines   []string
}

// TailFile returns the last n lines of the file at path along with its size
// and modification time. A missing file yields (nil, nil) so callers can
// simply omit the section; other I/O errors are returned.
func TailFile(path string, n int) (*LogTail, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Ring of the last n lines. Log files here are small (append-only app
	// log), so a full scan is acceptable.
	ring := make([]string, 0, n)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(ring) == n {
			copy(ring, ring[1:])
			ring = ring[:n-1]
		}
		ring = append(ring, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return &LogTail{
		Name:    path,
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
		Lines:   ring,
	}, nil
}
