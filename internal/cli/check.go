// check.go implements the "grove check" command.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/grove-dev/grove/internal/story"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the story for broken choices and unreachable scenes",
	Long: `Report choices whose target scene does not exist and scenes that no
path from the entry, menu or initial scene reaches. Broken choices make the
command fail; unreachable scenes are only reported.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	return checkStory(cmd.OutOrStdout(), e.story)
}

// checkStory writes a lint report for st and returns an error when any
// choice dangles or a start scene is missing.
func checkStory(w io.Writer, st *story.Story) error {
	roots := []string{st.Entry}
	if st.Menu != "" {
		roots = append(roots, st.Menu)
	}
	if st.Initial != nil && st.Initial.Current != "" {
		roots = append(roots, st.Initial.Current)
	}

	missing := 0
	for _, root := range roots {
		if !st.Graph.Has(root) {
			missing++
			fmt.Fprintf(w, "missing   start scene %q\n", root)
		}
	}

	dangling := st.Graph.Dangling()
	for _, d := range dangling {
		fmt.Fprintf(w, "dangling  %s choice %d %q -> %q\n", d.SceneID, d.Index+1, story.PlainText(d.Label), d.Target)
	}

	unreachable := st.Graph.Unreachable(roots...)
	for _, id := range unreachable {
		fmt.Fprintf(w, "orphan    %s\n", id)
	}

	fmt.Fprintf(w, "%s: %d scenes, %d dangling choices, %d unreachable scenes\n",
		st.Title, st.Graph.Len(), len(dangling), len(unreachable))

	if missing > 0 {
		return fmt.Errorf("story %q names %d start scenes it does not define", st.Title, missing)
	}
	if len(dangling) > 0 {
		return fmt.Errorf("story %q has %d dangling choices", st.Title, len(dangling))
	}
	return nil
}
