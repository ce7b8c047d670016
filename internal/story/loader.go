package story

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed stories/*.yaml
var builtinFS embed.FS

// DefaultStory is the name of the story played when none is configured.
const DefaultStory = "forest"

// Initial is the session state a story declares for a fresh or reset session.
type Initial struct {
	Current string   `yaml:"current"`
	Visited []string `yaml:"visited"`
	Started bool     `yaml:"started"`
}

// File is the on-disk YAML layout of a story.
type File struct {
	Title   string   `yaml:"title"`
	Entry   string   `yaml:"entry"`
	Menu    string   `yaml:"menu"`
	Initial *Initial `yaml:"initial"`
	Scenes  []Scene  `yaml:"scenes"`
}

// Story is a loaded story: its metadata and scene graph.
type Story struct {
	Title string
	Entry string
	Menu  string
	// Initial is nil when the story file does not declare one.
	Initial *Initial
	Graph   *Graph
}

// Parse decodes a story from YAML.
func Parse(data []byte) (*Story, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing story YAML: %w", err)
	}
	if f.Entry == "" {
		return nil, fmt.Errorf("story %q has no entry scene", f.Title)
	}

	g, err := NewGraph(f.Scenes)
	if err != nil {
		return nil, fmt.Errorf("building scene graph: %w", err)
	}

	return &Story{
		Title:   f.Title,
		Entry:   f.Entry,
		Menu:    f.Menu,
		Initial: f.Initial,
		Graph:   g,
	}, nil
}

// Load reads and parses the story file at filename.
func Load(filename string) (*Story, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read story file: %w", err)
	}
	return Parse(data)
}

// Builtin returns one of the stories compiled into the binary.
func Builtin(name string) (*Story, error) {
	data, err := BuiltinSource(name)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// BuiltinSource returns the YAML source of a built-in story.
func BuiltinSource(name string) ([]byte, error) {
	data, err := builtinFS.ReadFile(path.Join("stories", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown built-in story %q", name)
	}
	return data, nil
}

// BuiltinNames lists the stories compiled into the binary.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("stories")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Open resolves a story reference: a path to a YAML file, a built-in
// story name, or the default story when ref is empty.
func Open(ref string) (*Story, error) {
	if ref == "" {
		return Builtin(DefaultStory)
	}
	if _, err := os.Stat(ref); err == nil {
		return Load(ref)
	}
	return Builtin(ref)
}
