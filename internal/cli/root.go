// Package cli defines Cobra command definitions for the grove CLI.
// This file contains the root command, version flag, and help output.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	projectFlag string
	storyFlag   string
	version     = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "grove",
	Short: "Branching story player with scene tones",
	Long: `Grove plays branching stories in the terminal. Each scene offers a
few choices; every scene and choice has its own short melody.

With no subcommand grove starts the interactive player when stdout is a
terminal and the line player otherwise.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, args)
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "dir", "C", "", "Project directory holding .grove/ (default: current directory)")
	rootCmd.PersistentFlags().StringVarP(&storyFlag, "story", "s", "", "Story file or built-in story name (overrides config)")

	addPlayFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(scenesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(melodyCmd)
	rootCmd.AddCommand(historyCmd)
}
