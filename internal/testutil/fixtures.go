// Package testutil provides test helper utilities for grove tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempProject creates a temporary directory with the given files and returns its path.
// Files is a map of relative path -> content. Directories are created as needed.
// The directory is automatically cleaned up when the test finishes.
func TempProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// StoryFile writes a story YAML document to a temp dir and returns its path.
func StoryFile(t *testing.T, content string) string {
	t.Helper()
	dir := TempProject(t, map[string]string{"story.yaml": content})
	return filepath.Join(dir, "story.yaml")
}

// BranchingStory is a small story: a title scene, a fork, and two endings.
// It declares no initial state.
const BranchingStory = `title: Fork
entry: intro
menu: welcome
scenes:
  - id: welcome
    text: Welcome
    choices:
      - label: Start Game
        next: intro
  - id: intro
    text: A path splits in two.
    choices:
      - label: Go left
        next: a
      - label: Go right
        next: b
  - id: a
    text: The left path ends at a lake.
  - id: b
    text: The right path ends at a hill.
`

// PreseededStory declares an initial state that is already playing at the menu.
const PreseededStory = `title: Preseeded
entry: intro
initial:
  current: welcome
  visited: [welcome]
  started: true
scenes:
  - id: welcome
    text: Welcome
    choices:
      - label: Start Game
        next: intro
  - id: intro
    text: Intro
    choices:
      - label: Back to Menu
        next: welcome
      - label: Into the void
        next: nowhere
`
