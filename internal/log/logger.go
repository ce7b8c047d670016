// Package log provides structured event logging.
// This file appends JSON play events to log.jsonl.
package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grove-dev/grove/internal/game"
)

// Event type constants.
const (
	EventGameStarted    = "game_started"
	EventChoiceMade     = "choice_made"
	EventSceneNavigated = "scene_navigated"
	EventGameReset      = "game_reset"
)

// LogEvent represents a single structured event written to the log.
type LogEvent struct {
	Time    time.Time `json:"time"`
	Event   string    `json:"event"`
	Story   string    `json:"story,omitempty"`
	From    string    `json:"from,omitempty"`
	Scene   string    `json:"scene,omitempty"`
	Choice  *int      `json:"choice,omitempty"`
	Label   string    `json:"label,omitempty"`
	Visited int       `json:"visited"`
	Started bool      `json:"started"`
}

// Logger writes append-only JSONL events to a log file.
type Logger struct {
	path string
	mu   sync.Mutex
}

// NewLogger creates a Logger that writes to .grove/log.jsonl inside dir.
// Creates the .grove/ directory if it does not already exist.
// Does not truncate an existing log file.
func NewLogger(dir string) (*Logger, error) {
	groveDir := filepath.Join(dir, ".grove")
	if err := os.MkdirAll(groveDir, 0755); err != nil {
		return nil, fmt.Errorf("create .grove directory: %w", err)
	}

	return &Logger{
		path: filepath.Join(groveDir, "log.jsonl"),
	}, nil
}

// Append writes a single LogEvent as one JSON line to the log file.
// If event.Time is the zero value, it is automatically set to time.Now().UTC().
// The file is opened in append mode, written to, and then closed.
// Thread-safe via mutex.
func (l *Logger) Append(event LogEvent) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write log event: %w", err)
	}

	return nil
}

// ReadAll reads and parses all events from the log file.
// Returns an empty slice (not an error) if the file does not exist.
func (l *Logger) ReadAll() ([]LogEvent, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []LogEvent{}, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var events []LogEvent
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event LogEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", lineNum, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	return events, nil
}

// EventFor converts a store transition into a log event. The second result is
// false for transitions that are not logged.
func EventFor(storyTitle string, t game.Transition) (LogEvent, bool) {
	ev := LogEvent{
		Story:   storyTitle,
		From:    t.From,
		Scene:   t.State.CurrentSceneID,
		Visited: len(t.State.VisitedScenes),
		Started: t.State.IsGameStarted,
	}

	switch t.Op {
	case game.OpStart:
		ev.Event = EventGameStarted
	case game.OpChoice:
		ev.Event = EventChoiceMade
		choice := t.Choice
		ev.Choice = &choice
		ev.Label = t.Label
	case game.OpNavigate:
		ev.Event = EventSceneNavigated
	case game.OpReset:
		ev.Event = EventGameReset
	default:
		return LogEvent{}, false
	}
	return ev, true
}

// Observe returns a store listener that appends every transition to the log.
// Write failures are passed to onErr, which may be nil.
func (l *Logger) Observe(storyTitle string, onErr func(error)) game.Listener {
	return func(t game.Transition) {
		ev, ok := EventFor(storyTitle, t)
		if !ok {
			return
		}
		if err := l.Append(ev); err != nil && onErr != nil {
			onErr(err)
		}
	}
}
