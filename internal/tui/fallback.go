package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grove-dev/grove/internal/game"
	"github.com/grove-dev/grove/internal/story"
)

// LinePlayer plays a story over plain line-oriented input and output. It is
// used when stdout is not a terminal.
type LinePlayer struct {
	store *game.Store
	story *story.Story
	tones Tones
	in    io.Reader
	out   io.Writer
}

// NewLinePlayer creates a line player. tones may be nil.
func NewLinePlayer(store *game.Store, st *story.Story, tones Tones, in io.Reader, out io.Writer) *LinePlayer {
	return &LinePlayer{store: store, story: st, tones: tones, in: in, out: out}
}

const lineHelp = "Commands: <number> choose, s new game, h menu, r reset, t trail, q quit"

// Run reads commands until q, end of input, or ctx is cancelled.
func (p *LinePlayer) Run(ctx context.Context) error {
	fmt.Fprintf(p.out, "%s\n%s\n", p.story.Title, strings.Repeat("=", len([]rune(p.story.Title))))
	p.printScene(ctx)

	scanner := bufio.NewScanner(p.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(p.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(p.out)
			return scanner.Err()
		}

		cmd := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch cmd {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "?", "help":
			fmt.Fprintln(p.out, lineHelp)
			continue
		case "t", "trail":
			fmt.Fprintf(p.out, "Trail: %s\n", strings.Join(p.store.State().VisitedScenes, " -> "))
			continue
		case "s", "start":
			p.store.StartGame()
		case "h", "menu":
			if p.story.Menu == "" {
				fmt.Fprintln(p.out, "This story has no menu.")
				continue
			}
			p.store.NavigateToScene(p.story.Menu)
		case "r", "reset":
			p.store.Reset()
		default:
			n, err := strconv.Atoi(cmd)
			if err != nil {
				fmt.Fprintln(p.out, lineHelp)
				continue
			}
			if !p.pick(ctx, n-1) {
				fmt.Fprintf(p.out, "No choice %d here.\n", n)
				continue
			}
		}

		p.printScene(ctx)
	}
}

// pick follows choice i of the current scene. Before the game has started
// any pick starts it instead.
func (p *LinePlayer) pick(ctx context.Context, i int) bool {
	if st := p.store.State(); !st.IsGameStarted || st.CurrentSceneID == "" {
		p.store.StartGame()
		return true
	}
	scene, ok := p.store.CurrentScene()
	if !ok || i < 0 || i >= len(scene.Choices) {
		return false
	}
	if p.tones != nil {
		p.tones.PlayChoiceTone(ctx, scene.Choices[i].Label)
	}
	p.store.MakeChoice(i)
	return true
}

func (p *LinePlayer) printScene(ctx context.Context) {
	st := p.store.State()
	if st.CurrentSceneID == "" {
		fmt.Fprintln(p.out, "\nType s to begin.")
		return
	}

	scene, ok := p.store.CurrentScene()
	if !ok {
		fmt.Fprintf(p.out, "\nScene %q is missing from this story. Type h for the menu or r to reset.\n", st.CurrentSceneID)
		return
	}
	if p.tones != nil {
		p.tones.PlaySceneTone(ctx, scene.ID)
	}

	fmt.Fprintf(p.out, "\n%s\n\n", story.PlainText(scene.Text))
	if scene.Terminal() {
		fmt.Fprintln(p.out, "The End. Type s to play again.")
		return
	}
	for i, c := range scene.Choices {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, story.PlainText(c.Label))
	}
}
