// melody.go implements the "grove melody" command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/grove-dev/grove/internal/config"
	"github.com/grove-dev/grove/internal/tone"
)

var melodyCmd = &cobra.Command{
	Use:   "melody",
	Short: "Show or render the tone for a scene or choice",
	Long: `Print the frequencies a scene or a choice label plays. With --out the
tone is rendered to a WAV file.

Examples:
  grove melody --scene cave
  grove melody --choice "🏠 Main Menu" --out home.wav`,
	Args: cobra.NoArgs,
	RunE: runMelody,
}

var (
	melodySceneFlag  string
	melodyChoiceFlag string
	melodyOutFlag    string
)

func init() {
	melodyCmd.Flags().StringVar(&melodySceneFlag, "scene", "", "Scene id")
	melodyCmd.Flags().StringVar(&melodyChoiceFlag, "choice", "", "Choice label text")
	melodyCmd.Flags().StringVarP(&melodyOutFlag, "out", "o", "", "Render the tone to this WAV file")
	melodyCmd.MarkFlagsMutuallyExclusive("scene", "choice")
	melodyCmd.MarkFlagsOneRequired("scene", "choice")
}

func runMelody(cmd *cobra.Command, args []string) error {
	dir, err := projectDir()
	if err != nil {
		return err
	}
	cfg, err := readConfigOrDefault(dir)
	if err != nil {
		return err
	}

	out := ""
	if melodyOutFlag != "" {
		out = config.Resolve(dir, melodyOutFlag)
	}
	return renderMelody(cmd.Context(), cmd.OutOrStdout(), cfg.Audio, melodySceneFlag, melodyChoiceFlag, out)
}

// renderMelody describes the tone for sceneID or choice on w and, when out is
// set, records it to a WAV file.
func renderMelody(ctx context.Context, w io.Writer, audio config.AudioConfig, sceneID, choice, out string) error {
	if sceneID == "" && choice == "" {
		return errors.New("one of --scene or --choice is required")
	}

	settings := toneSettings(audio)
	if sceneID != "" {
		fmt.Fprintf(w, "scene %s: %s at %s per note\n", sceneID, formatMelody(tone.SceneMelody(sceneID)), settings.SceneNoteDuration)
	} else {
		rule := tone.MatchChoice(choice)
		fmt.Fprintf(w, "choice %q: rule %s (%s) %s at %s per note\n", choice, rule.Name, rule.Category, formatMelody(rule.Melody), rule.NoteDuration)
	}

	if out == "" {
		return nil
	}

	rate := audio.SampleRate
	if rate <= 0 {
		rate = tone.DefaultSampleRate
	}
	rec := tone.NewRecorder(out, rate)
	rec.SetClock(func() time.Duration { return 0 })
	synth := tone.NewSynthesizer(func() (tone.Output, error) { return rec, nil }, settings, nil)
	if sceneID != "" {
		synth.PlaySceneTone(ctx, sceneID)
	} else {
		synth.PlayChoiceTone(ctx, choice)
	}
	if err := rec.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(w, "wrote %s (%d notes)\n", out, len(rec.Events()))
	return nil
}
