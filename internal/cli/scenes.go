// scenes.go implements the "grove scenes" command.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grove-dev/grove/internal/story"
	"github.com/grove-dev/grove/internal/tone"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes [scene-id]",
	Short: "List the scenes of the story",
	Long: `List every scene with its choice count and targets. With a scene id,
print that scene's text, its choices and the melody each one plays.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScenes,
}

func runScenes(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	if len(args) == 1 {
		return printScene(cmd.OutOrStdout(), e.story, args[0])
	}
	printSceneList(cmd.OutOrStdout(), e.story)
	return nil
}

func printSceneList(w io.Writer, st *story.Story) {
	fmt.Fprintf(w, "%s (%d scenes)\n\n", st.Title, st.Graph.Len())
	for _, id := range st.Graph.IDs() {
		scene, _ := st.Graph.Scene(id)
		marker := " "
		switch id {
		case st.Entry:
			marker = ">"
		case st.Menu:
			marker = "*"
		}
		if scene.Terminal() {
			fmt.Fprintf(w, "%s %-24s  end\n", marker, id)
			continue
		}
		targets := make([]string, len(scene.Choices))
		for i, c := range scene.Choices {
			targets[i] = c.Target
		}
		fmt.Fprintf(w, "%s %-24s  %d -> %s\n", marker, id, len(scene.Choices), strings.Join(targets, ", "))
	}
}

func printScene(w io.Writer, st *story.Story, id string) error {
	scene, ok := st.Graph.Scene(id)
	if !ok {
		return fmt.Errorf("unknown scene %q", id)
	}

	fmt.Fprintf(w, "%s\n\n%s\n\n", scene.ID, story.PlainText(scene.Text))
	fmt.Fprintf(w, "Scene tone: %s\n", formatMelody(tone.SceneMelody(scene.ID)))
	if scene.Terminal() {
		fmt.Fprintln(w, "No choices (ending).")
		return nil
	}
	fmt.Fprintln(w, "Choices:")
	for i, c := range scene.Choices {
		rule := tone.MatchChoice(c.Label)
		fmt.Fprintf(w, "  %d. %s -> %s  [%s: %s]\n", i+1, story.PlainText(c.Label), c.Target, rule.Name, formatMelody(rule.Melody))
	}
	return nil
}

func formatMelody(freqs []float64) string {
	parts := make([]string, len(freqs))
	for i, f := range freqs {
		parts[i] = fmt.Sprintf("%.2fHz", f)
	}
	return strings.Join(parts, " ")
}
