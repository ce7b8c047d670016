package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/grove-dev/grove/internal/config"
	"github.com/grove-dev/grove/internal/log"
	"github.com/grove-dev/grove/internal/session"
	"github.com/grove-dev/grove/internal/story"
	"github.com/grove-dev/grove/internal/tone"
)

// env holds what every command needs: the project directory, its config,
// the selected story and the diagnostic logger.
type env struct {
	dir    string
	cfg    *config.Config
	story  *story.Story
	logger *slog.Logger

	closers []func() error
}

// loadEnv resolves the project directory, reads its config (defaults when
// the project has not been initialized) and opens the story.
func loadEnv() (*env, error) {
	dir, err := projectDir()
	if err != nil {
		return nil, err
	}

	cfg, err := readConfigOrDefault(dir)
	if err != nil {
		return nil, err
	}

	st, err := story.Open(storyRef(dir, cfg))
	if err != nil {
		return nil, fmt.Errorf("opening story: %w", err)
	}

	logger, closeLog := log.NewDiagnostic(dir, cfg.Log)
	e := &env{dir: dir, cfg: cfg, story: st, logger: logger}
	e.onClose(closeLog)

	logger.Info("story loaded", "title", st.Title, "scenes", st.Graph.Len())
	return e, nil
}

func projectDir() (string, error) {
	if projectFlag != "" {
		return projectFlag, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return dir, nil
}

// readConfigOrDefault reads .grove/config.yaml, falling back to defaults only
// when the file does not exist.
func readConfigOrDefault(dir string) (*config.Config, error) {
	cfg, err := config.ReadConfig(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

// storyRef picks the story to open: --story, then the config's story path
// (relative to the project directory when it names a file there).
func storyRef(dir string, cfg *config.Config) string {
	if storyFlag != "" {
		return storyFlag
	}
	ref := cfg.Story.Path
	if ref == "" {
		return ""
	}
	if p := config.Resolve(dir, ref); fileExists(p) {
		return p
	}
	return ref
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (e *env) onClose(fn func() error) {
	e.closers = append(e.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// toneSettings maps the audio config onto synthesizer settings.
func toneSettings(a config.AudioConfig) tone.Settings {
	s := tone.DefaultSettings()
	s.Overlap = a.OverlapRatio
	s.SceneVolume = a.SceneVolume
	s.ChoiceVolume = a.ChoiceVolume
	if a.NoteDurationMs > 0 {
		s.SceneNoteDuration = time.Duration(a.NoteDurationMs) * time.Millisecond
	}
	return s
}

// synthesizer builds the tone synthesizer for a play session. wavPath, when
// set, records to that file regardless of the configured output.
func (e *env) synthesizer(noAudio bool, wavPath string) (*tone.Synthesizer, error) {
	settings := toneSettings(e.cfg.Audio)
	if noAudio || !e.cfg.Audio.Enabled {
		return tone.NewSynthesizer(nil, settings, e.logger), nil
	}

	output := e.cfg.Audio.Output
	if wavPath != "" {
		output = "wav"
	} else {
		wavPath = config.Resolve(e.dir, e.cfg.Audio.WAVPath)
	}

	switch output {
	case "", "none":
		return tone.NewSynthesizer(nil, settings, e.logger), nil
	case "wav":
		rate := e.cfg.Audio.SampleRate
		if rate <= 0 {
			rate = tone.DefaultSampleRate
		}
		// The synthesizer opens the recorder on whichever goroutine plays
		// the first tone.
		var (
			mu  sync.Mutex
			rec *tone.Recorder
		)
		e.onClose(func() error {
			mu.Lock()
			defer mu.Unlock()
			if rec == nil {
				return nil
			}
			if err := rec.Close(); err != nil {
				return fmt.Errorf("writing %s: %w", wavPath, err)
			}
			e.logger.Info("tones recorded", "path", wavPath, "events", len(rec.Events()))
			return nil
		})
		open := func() (tone.Output, error) {
			mu.Lock()
			defer mu.Unlock()
			rec = tone.NewRecorder(wavPath, rate)
			return rec, nil
		}
		return tone.NewSynthesizer(open, settings, e.logger), nil
	default:
		return nil, fmt.Errorf("unknown audio output %q (want none or wav)", output)
	}
}

// journal opens the playthrough history database. It returns nil when the
// journal is disabled.
func (e *env) journal() (*session.Store, error) {
	if !e.cfg.Journal.Enabled || e.cfg.Journal.Database == "" {
		return nil, nil
	}
	db, err := session.NewStore(config.Resolve(e.dir, e.cfg.Journal.Database))
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	e.onClose(db.Close)
	return db, nil
}
