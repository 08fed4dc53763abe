package observability

import (
	"context"
	"fmt"
	"io"

	"github.com/hpcloud/tail"
	json "github.com/json-iterator/go"
	"go.uber.org/zap/zapcore"
)

// LogFilter selects entries of the JSON log file. Empty fields match everything.
type LogFilter struct {
	Session  string
	MinLevel string
}

// Validate checks that MinLevel names a zap level.
func (f LogFilter) Validate() error {
	if f.MinLevel == "" {
		return nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(f.MinLevel)); err != nil {
		return fmt.Errorf("invalid level %q: %w", f.MinLevel, err)
	}
	return nil
}

type logEntry struct {
	Level   string `json:"level"`
	Session string `json:"session_id"`
}

// Match reports whether a raw log line passes the filter. Lines that are not
// JSON entries only pass an empty filter.
func (f LogFilter) Match(line string) bool {
	if f.Session == "" && f.MinLevel == "" {
		return true
	}
	var entry logEntry
	if err := json.UnmarshalFromString(line, &entry); err != nil {
		return false
	}
	if f.Session != "" && entry.Session != f.Session {
		return false
	}
	if f.MinLevel == "" {
		return true
	}
	var level, min zapcore.Level
	if err := level.UnmarshalText([]byte(entry.Level)); err != nil {
		return false
	}
	if err := min.UnmarshalText([]byte(f.MinLevel)); err != nil {
		return false
	}
	return level >= min
}

// TailLog copies the entries of the log file at path that pass filter to w.
// Without follow it stops at the end of the file; with follow it keeps
// waiting for new entries, across rotations, until ctx is done.
func TailLog(ctx context.Context, path string, follow bool, filter LogFilter, w io.Writer) error {
	if err := filter.Validate(); err != nil {
		return err
	}
	t, err := tail.TailFile(path, tail.Config{
		Follow:    follow,
		ReOpen:    follow,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to tail log file: %w", err)
	}
	defer stopTail(t)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				return fmt.Errorf("failed to read log file: %w", line.Err)
			}
			if !filter.Match(line.Text) {
				continue
			}
			if _, err := fmt.Fprintln(w, line.Text); err != nil {
				return err
			}
		}
	}
}

// stopTail shuts the tailer down. The tail goroutine blocks sending pending
// lines and only closes Lines on exit, so Lines is drained before waiting.
func stopTail(t *tail.Tail) {
	t.Kill(nil)
	for range t.Lines {
	}
	_ = t.Wait()
	t.Cleanup()
}
