// play.go implements the "grove play" command and the root command's default
// action.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/grove-dev/grove/internal/game"
	"github.com/grove-dev/grove/internal/log"
	"github.com/grove-dev/grove/internal/session"
	"github.com/grove-dev/grove/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the story",
	Long: `Play the configured story. The interactive player is used when stdout
is a terminal; otherwise choices are read line by line from stdin.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

var (
	sceneFlag   string
	noAudioFlag bool
	wavFlag     string
	linesFlag   bool
)

func init() {
	addPlayFlags(playCmd)
}

// addPlayFlags registers the play flags on cmd. The root command shares them.
func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sceneFlag, "scene", "", "Start a new game and jump straight to this scene")
	cmd.Flags().BoolVar(&noAudioFlag, "no-audio", false, "Disable scene and choice tones")
	cmd.Flags().StringVar(&wavFlag, "wav", "", "Record tones to this WAV file")
	cmd.Flags().BoolVar(&linesFlag, "lines", false, "Use the line player even on a terminal")
}

func runPlay(cmd *cobra.Command, args []string) (err error) {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := e.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	synth, err := e.synthesizer(noAudioFlag, wavFlag)
	if err != nil {
		return err
	}

	store := game.FromStory(e.story)
	if err := attachObservers(e, store); err != nil {
		return err
	}

	if sceneFlag != "" {
		if !e.story.Graph.Has(sceneFlag) {
			return fmt.Errorf("unknown scene %q; list scenes with: grove scenes", sceneFlag)
		}
		if !store.State().IsGameStarted {
			store.StartGame()
		}
		store.NavigateToScene(sceneFlag)
	}

	if tui.IsTTY() && !linesFlag {
		return tui.Run(tui.NewModel(ctx, store, e.story, synth))
	}
	return playLines(ctx, cmd, store, e, synth)
}

func playLines(ctx context.Context, cmd *cobra.Command, store *game.Store, e *env, tones tui.Tones) error {
	err := tui.NewLinePlayer(store, e.story, tones, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

// attachObservers subscribes the event log and the playthrough journal to
// store. Their failures are logged and never stop play.
func attachObservers(e *env, store *game.Store) error {
	events, err := log.NewLogger(e.dir)
	if err != nil {
		return fmt.Errorf("opening event log: %w", err)
	}
	store.Subscribe(events.Observe(e.story.Title, func(err error) {
		e.logger.Warn("event log write failed", "error", err)
	}))

	db, err := e.journal()
	if err != nil {
		return err
	}
	if db != nil {
		rec := session.NewRecorder(db, e.story.Graph, e.story.Title, e.logger)
		store.Subscribe(rec.Observe)
		e.onClose(func() error {
			rec.Close()
			return nil
		})
	}
	return nil
}
