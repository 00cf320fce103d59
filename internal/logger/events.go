package logger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Log levels used in event entries, ordered from most to least severe.
const (
	LevelError = "error"
	LevelWarn  = "warn"
	LevelInfo  = "info"
)

// Entry is one structured log line.
type Entry struct {
	Timestamp    string   `json:"timestamp"`
	Level        string   `json:"level"`
	Action       string   `json:"action"`
	App          string   `json:"app"`
	Status       string   `json:"status"`
	DurationSecs *float64 `json:"duration_secs,omitempty"`
	Source       string   `json:"source,omitempty"`
}

// WithDuration returns a copy of e carrying d in seconds.
func (e Entry) WithDuration(d time.Duration) Entry {
	secs := d.Seconds()
	e.DurationSecs = &secs
	return e
}

// EventSink appends JSON lines either to a daily file inside a directory or to a writer.
type EventSink struct {
	mu  sync.Mutex
	dir string
	w   io.Writer
	now func() time.Time
}

// NewFileSink writes events to <dir>/<YYYY-MM-DD>-bootstrap.log.
func NewFileSink(dir string) *EventSink {
	return &EventSink{dir: dir, now: time.Now}
}

// NewWriterSink writes events to w.
func NewWriterSink(w io.Writer) *EventSink {
	return &EventSink{w: w, now: time.Now}
}

// FileName returns the log file name for the given day.
func FileName(day time.Time) string {
	return fmt.Sprintf("%s-bootstrap.log", day.Format("2006-01-02"))
}

// Path returns the file the sink currently appends to, or "" for writer sinks.
func (s *EventSink) Path() string {
	if s.dir == "" {
		return ""
	}
	return filepath.Join(s.dir, FileName(s.now()))
}

// Write appends e as one JSON line, filling in the timestamp when missing.
func (s *EventSink) Write(e Entry) error {
	if e.Timestamp == "" {
		e.Timestamp = s.now().UTC().Format(time.RFC3339)
	}
	line, err := json.Marshal(e)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w != nil {
		_, err = s.w.Write(line)
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create log directory %s: %w", s.dir, err)
	}
	f, err := os.OpenFile(s.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(line)
	return err
}

// LevelRank orders levels so that "error" < "warn" < "info". Unknown levels rank as info.
func LevelRank(level string) int {
	switch level {
	case LevelError:
		return 0
	case LevelWarn:
		return 1
	default:
		return 2
	}
}

// ReadEvents parses the JSON lines in r, keeping entries at least as severe as level ("" keeps
// everything) and, when tail is positive, only the last tail of them. Malformed lines are skipped.
func ReadEvents(r io.Reader, level string, tail int) ([]Entry, error) {
	var out []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if level != "" && LevelRank(e.Level) > LevelRank(level) {
			continue
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if tail > 0 && len(out) > tail {
		out = out[len(out)-tail:]
	}
	return out, nil
}

// String renders e on one line for humans.
func (e Entry) String() string {
	s := fmt.Sprintf("%s %-5s %s %s: %s", e.Timestamp, strings.ToUpper(e.Level), e.Action, e.App, e.Status)
	if e.DurationSecs != nil {
		s += fmt.Sprintf(" (%.1fs)", *e.DurationSecs)
	}
	if e.Source != "" {
		s += " [" + e.Source + "]"
	}
	return s
}
