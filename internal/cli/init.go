// init.go implements the "grove init" command.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grove-dev/grove/internal/config"
	"github.com/grove-dev/grove/internal/story"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize grove in the current project",
	Long: `Create .grove/config.yaml with default settings. With --story the
config points at that story; with --export the built-in story is copied
into the project so it can be edited.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	forceFlag  bool
	exportFlag string
)

func init() {
	initCmd.Flags().BoolVar(&forceFlag, "force", false, "Overwrite an existing .grove/config.yaml")
	initCmd.Flags().StringVar(&exportFlag, "export", "", "Copy the built-in story to this file and play it")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := projectDir()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	configPath := filepath.Join(config.Dir(dir), "config.yaml")
	if _, statErr := os.Stat(configPath); statErr == nil && !forceFlag {
		return fmt.Errorf("%s already exists; use --force to overwrite", configPath)
	}

	cfg := config.DefaultConfig()
	cfg.Story.Path = storyFlag

	if exportFlag != "" {
		name := storyFlag
		if name == "" {
			name = story.DefaultStory
		}
		data, err := story.BuiltinSource(name)
		if err != nil {
			return err
		}
		target := config.Resolve(dir, exportFlag)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", exportFlag, err)
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", exportFlag, err)
		}
		cfg.Story.Path = exportFlag
		fmt.Fprintf(out, "Story %q exported to %s\n", name, exportFlag)
	}

	if err := config.WriteConfig(dir, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintln(out, "Grove initialized")
	fmt.Fprintln(out, "Configuration written to .grove/config.yaml")
	if cfg.Story.Path != "" {
		fmt.Fprintf(out, "  Story: %s\n", cfg.Story.Path)
	} else {
		fmt.Fprintf(out, "  Story: %s (built-in)\n", story.DefaultStory)
	}
	fmt.Fprintf(out, "  Built-in stories: %s\n", strings.Join(story.BuiltinNames(), ", "))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Ready to play: grove play")
	return nil
}
