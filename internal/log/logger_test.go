package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grove-dev/grove/internal/config"
	"github.com/grove-dev/grove/internal/game"
	"github.com/grove-dev/grove/internal/story"
	"github.com/grove-dev/grove/internal/testutil"
)

func TestAppendAndReadAll(t *testing.T) {
	l, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	events, err := l.ReadAll()
	if err != nil || len(events) != 0 {
		t.Fatalf("ReadAll on empty log = %v, %v", events, err)
	}

	if err := l.Append(LogEvent{Event: EventGameStarted, Scene: "intro", Visited: 1, Started: true}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append(LogEvent{Event: EventSceneNavigated, Scene: "b"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	events, err = l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Event != EventGameStarted || events[0].Scene != "intro" || events[0].Time.IsZero() {
		t.Errorf("events[0] = %+v", events[0])
	}
}

func TestReadAllRejectsCorruptLine(t *testing.T) {
	dir := t.TempDir()
	l, _ := NewLogger(dir)
	if err := os.WriteFile(filepath.Join(dir, ".grove", "log.jsonl"), []byte("{\"event\":\"x\"}\nnot json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.ReadAll(); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ReadAll error = %v, want line 2 parse error", err)
	}
}

func TestObserveLogsTransitions(t *testing.T) {
	st, err := story.Parse([]byte(testutil.BranchingStory))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	store := game.FromStory(st)

	l, _ := NewLogger(t.TempDir())
	store.Subscribe(l.Observe(st.Title, func(err error) { t.Errorf("append failed: %v", err) }))

	store.StartGame()
	store.MakeChoice(1)
	store.MakeChoice(9)
	store.NavigateToScene("welcome")
	store.Reset()

	events, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	want := []string{EventGameStarted, EventChoiceMade, EventSceneNavigated, EventGameReset}
	if len(events) != len(want) {
		t.Fatalf("logged %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, name := range want {
		if events[i].Event != name {
			t.Errorf("event %d = %q, want %q", i, events[i].Event, name)
		}
		if events[i].Story != "Fork" {
			t.Errorf("event %d story = %q", i, events[i].Story)
		}
	}

	choice := events[1]
	if choice.Choice == nil || *choice.Choice != 1 || choice.Label != "Go right" || choice.From != "intro" || choice.Scene != "b" || choice.Visited != 2 {
		t.Errorf("choice event = %+v", choice)
	}
	if events[0].Choice != nil {
		t.Error("start event should not carry a choice index")
	}
}

func TestObserveReportsWriteErrors(t *testing.T) {
	l := &Logger{path: filepath.Join(t.TempDir(), "missing-dir", "log.jsonl")}

	var got error
	listener := l.Observe("x", func(err error) { got = err })
	listener(game.Transition{Op: game.OpStart})
	if got == nil {
		t.Error("expected a write error")
	}

	got = nil
	listener(game.Transition{Op: game.OpSubscribe})
	if got != nil {
		t.Errorf("subscribe delivery should not be logged, got %v", got)
	}
}

func TestNewDiagnostic(t *testing.T) {
	dir := t.TempDir()
	logger, closeFn := NewDiagnostic(dir, config.LogConfig{Level: "debug", File: "logs/diag.log", MaxSizeMB: 1})
	logger.Debug("tone dropped", "frequency", 440.0)
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "logs", "diag.log"))
	if err != nil {
		t.Fatalf("read diag log: %v", err)
	}
	if !strings.Contains(string(data), "tone dropped") || !strings.Contains(string(data), "frequency=440") {
		t.Errorf("diag log = %q", data)
	}

	discard, closeFn := NewDiagnostic(dir, config.LogConfig{})
	discard.Error("nowhere")
	if err := closeFn(); err != nil {
		t.Errorf("close discard: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
