package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grove-dev/grove/internal/game"
	"github.com/grove-dev/grove/internal/story"
)

// transitionBuffer bounds the transitions queued between the store and the
// update loop. Overflow is dropped; the model resyncs from the store.
const transitionBuffer = 64

// Model is the Bubble Tea player for one story.
type Model struct {
	ctx   context.Context
	store *game.Store
	story *story.Story
	tones Tones
	keys  KeyMap

	transitions chan game.Transition
	unsubscribe func()

	state    game.State
	scene    story.Scene
	hasScene bool
	cursor   int

	showTrail bool
	help      help.Model
	viewport  viewport.Model

	Width  int
	Height int
}

// NewModel creates a player bound to store. tones may be nil.
func NewModel(ctx context.Context, store *game.Store, st *story.Story, tones Tones) Model {
	ch := make(chan game.Transition, transitionBuffer)
	unsubscribe := store.Subscribe(func(t game.Transition) {
		select {
		case ch <- t:
		default:
		}
	})

	m := Model{
		ctx:         ctx,
		store:       store,
		story:       st,
		tones:       tones,
		keys:        DefaultKeyMap,
		transitions: ch,
		unsubscribe: unsubscribe,
		help:        help.New(),
		viewport:    viewport.New(70, 12),
		Width:       80,
		Height:      24,
	}
	m.sync(store.State())
	return m
}

// Init starts listening for store transitions and plays the opening scene.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForTransition(m.transitions), m.sceneTone())
}

// Update handles messages for the player.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TransitionMsg:
		// Changes made by this model are already synced; only changes made
		// elsewhere move the scene here.
		prev := m.state.CurrentSceneID
		m.sync(m.store.State())
		var cmds []tea.Cmd
		cmds = append(cmds, waitForTransition(m.transitions))
		if m.state.CurrentSceneID != prev {
			cmds = append(cmds, m.sceneTone())
		}
		return m, tea.Batch(cmds...)

	case toneMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = max(msg.Width-10, 20)
		m.viewport.Height = max(msg.Height-12, 3)
		m.refreshText()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.unsubscribe()
		cmd = tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Trail):
		m.showTrail = !m.showTrail

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.hasScene && m.cursor < len(m.scene.Choices)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Start):
		cmd = m.mutate(m.store.StartGame, true)

	case key.Matches(msg, m.keys.Menu):
		if menu := m.story.Menu; menu != "" {
			cmd = m.mutate(func() { m.store.NavigateToScene(menu) }, false)
		}

	case key.Matches(msg, m.keys.Reset):
		cmd = m.mutate(m.store.Reset, false)

	case key.Matches(msg, m.keys.Choose):
		if !m.state.IsGameStarted || m.state.CurrentSceneID == "" {
			cmd = m.mutate(m.store.StartGame, true)
		} else {
			cmd = m.choose(m.cursor)
		}

	case key.Matches(msg, m.keys.Pick):
		cmd = m.choose(int(msg.String()[0] - '1'))

	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// mutate applies op to the store and resyncs. The new scene's tone plays
// when the scene changed or when restart is set.
func (m *Model) mutate(op func(), restart bool) tea.Cmd {
	prev := m.state.CurrentSceneID
	op()
	m.sync(m.store.State())
	if restart || m.state.CurrentSceneID != prev {
		return m.sceneTone()
	}
	return nil
}

// choose plays the choice tone and follows choice i. Out of range picks do
// nothing.
func (m *Model) choose(i int) tea.Cmd {
	if !m.hasScene || i < 0 || i >= len(m.scene.Choices) {
		return nil
	}
	choiceTone := m.choiceTone(m.scene.Choices[i].Label)
	sceneTone := m.mutate(func() { m.store.MakeChoice(i) }, false)
	return tea.Batch(choiceTone, sceneTone)
}

// sync copies the store state into the model and resolves the current scene.
func (m *Model) sync(s game.State) {
	changed := s.CurrentSceneID != m.state.CurrentSceneID
	m.state = s
	m.scene, m.hasScene = m.store.CurrentScene()
	if changed || m.cursor >= len(m.scene.Choices) {
		m.cursor = 0
	}
	m.refreshText()
	if changed {
		m.viewport.GotoTop()
	}
}

func (m *Model) refreshText() {
	width := max(m.viewport.Width, 20)
	var text string
	switch {
	case !m.state.IsGameStarted && m.state.CurrentSceneID == "":
		text = "Press enter to begin."
	case !m.hasScene:
		text = ErrorStyle.Render(fmt.Sprintf("Scene %q is missing from this story.", m.state.CurrentSceneID))
	default:
		text = RenderMarkup(m.scene.Text)
	}
	m.viewport.SetContent(lipgloss.NewStyle().Width(width).Render(text))
}

func (m Model) sceneTone() tea.Cmd {
	if m.tones == nil || !m.hasScene {
		return nil
	}
	tones, ctx, id := m.tones, m.ctx, m.scene.ID
	return func() tea.Msg {
		tones.PlaySceneTone(ctx, id)
		return toneMsg{}
	}
}

func (m Model) choiceTone(label string) tea.Cmd {
	if m.tones == nil {
		return nil
	}
	tones, ctx := m.tones, m.ctx
	return func() tea.Msg {
		tones.PlayChoiceTone(ctx, label)
		return toneMsg{}
	}
}

// View renders the player.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.story.Title))
	b.WriteString("\n\n")

	b.WriteString(BoxStyle.Width(max(m.Width-4, 24)).Render(m.viewport.View()))
	b.WriteString("\n\n")

	b.WriteString(m.choicesView())

	if m.showTrail {
		b.WriteString("\n")
		b.WriteString(DimStyle.Render("Trail: " + strings.Join(m.state.VisitedScenes, " → ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) choicesView() string {
	if !m.hasScene {
		return DimStyle.Render("h: menu   r: reset   s: new game") + "\n"
	}
	if m.scene.Terminal() {
		return EndMarker + DimStyle.Render(" The End. Press s to play again.") + "\n"
	}

	var b strings.Builder
	for i, c := range m.scene.Choices {
		label := fmt.Sprintf("%d. %s", i+1, story.PlainText(c.Label))
		if i == m.cursor {
			b.WriteString(CursorMarker + " " + SelectedStyle.Render(label))
		} else {
			b.WriteString(ChoiceStyle.Render(label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) statusBar() string {
	scene := m.state.CurrentSceneID
	if scene == "" {
		scene = "-"
	}
	status := "not started"
	if m.state.IsGameStarted {
		status = "playing"
	}
	return StatusBarStyle.Render(fmt.Sprintf("%s  scene: %s  visited: %d", status, scene, len(m.state.VisitedScenes)))
}

// State returns the state the model last rendered.
func (m Model) State() game.State {
	return m.state.Clone()
}

// Cursor returns the highlighted choice index.
func (m Model) Cursor() int {
	return m.cursor
}
