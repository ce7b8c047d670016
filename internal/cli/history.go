// history.go implements the "grove history" command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/grove-dev/grove/internal/session"
)

var historyCmd = &cobra.Command{
	Use:   "history [playthrough-id]",
	Short: "Show recorded playthroughs",
	Long: `List recent playthroughs from the journal, or the scene-by-scene path
of one playthrough when an id (or unique id prefix shown in the list) is
given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyLimitFlag int

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Number of playthroughs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	db, err := e.journal()
	if err != nil {
		return err
	}
	if db == nil {
		return errors.New("the journal is disabled; enable journal.enabled in .grove/config.yaml")
	}

	if len(args) == 1 {
		return printPlaythrough(cmd.OutOrStdout(), db, args[0], historyLimitFlag)
	}
	return printHistory(cmd.OutOrStdout(), db, historyLimitFlag)
}

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func printHistory(w io.Writer, db *session.Store, limit int) error {
	sums, err := db.ListPlaythroughs(limit)
	if err != nil {
		return err
	}
	if len(sums) == 0 {
		fmt.Fprintln(w, "No playthroughs recorded yet; start one with: grove play")
		return nil
	}
	for _, s := range sums {
		fmt.Fprintf(w, "%s  %-9s  %3d scenes  last %-20s  %s  %s\n",
			shortID(s.ID), s.Status, s.Visits, s.LastScene, s.UpdatedAt.Local().Format(time.DateTime), s.Story)
	}
	return nil
}

// printPlaythrough prints the visits of the playthrough whose id starts with
// prefix. The prefix is matched against the most recent playthroughs only.
func printPlaythrough(w io.Writer, db *session.Store, prefix string, limit int) error {
	p, err := db.GetPlaythrough(prefix)
	if err != nil {
		return err
	}
	if p == nil {
		id, err := resolvePrefix(db, prefix, limit)
		if err != nil {
			return err
		}
		if p, err = db.GetPlaythrough(id); err != nil {
			return err
		}
	}

	visits, err := db.GetVisits(p.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s  %s  %s\n\n", p.ID, p.Story, p.Status)
	for _, v := range visits {
		fmt.Fprintf(w, "%3d  %-9s  %s\n", v.Seq+1, v.Op, v.SceneID)
	}
	return nil
}

func resolvePrefix(db *session.Store, prefix string, limit int) (string, error) {
	sums, err := db.ListPlaythroughs(limit)
	if err != nil {
		return "", err
	}
	var match string
	for _, s := range sums {
		if strings.HasPrefix(s.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("playthrough id %q is ambiguous", prefix)
			}
			match = s.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no playthrough %q", prefix)
	}
	return match, nil
}
