package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kkurian/typeattack/internal/core"
	"github.com/kkurian/typeattack/internal/game"
	"github.com/kkurian/typeattack/internal/platform/audio"
	"github.com/kkurian/typeattack/internal/storage"
	"github.com/kkurian/typeattack/internal/submit"
)

// gateDelayTicks is how long the terminal overlay stays on screen before
// the submission modal takes over a worthy run.
const gateDelayTicks = 45

var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(1, 3)
	modalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	modalErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	modalOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	modalHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Options wires the model's collaborators. Nil fields disable the matching
// feature: no store means no persistence, no client/gate means no
// submission offer, no notifier means silence.
type Options struct {
	Store    *storage.Store
	Client   *submit.Client
	Gate     *submit.Gate
	Notifier audio.Notifier
}

// Model is the Bubble Tea model running one typing session.
type Model struct {
	game   *game.Game
	screen *core.Screen
	opts   Options
	config core.RuntimeConfig

	keymap     *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState

	gateArmed     bool
	gateCountdown int
	initials      textinput.Model
	submitting    bool

	runSaved bool
	quitting bool
}

// submitResultMsg resolves the outstanding submission.
type submitResultMsg struct{ err error }

// submitCmd performs the network call off the UI loop. It is resolved, not
// canceled: the modal stays in Submitting until the backend answers.
func submitCmd(client *submit.Client, payload submit.Payload) tea.Cmd {
	return func() tea.Msg {
		_, err := client.Submit(payload)
		return submitResultMsg{err: err}
	}
}

// NewModel creates a model for the given game and collaborators.
func NewModel(g *game.Game, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Notifier == nil {
		opts.Notifier = audio.Nop{}
	}

	ti := textinput.New()
	ti.Placeholder = "AAA"
	ti.CharLimit = 3
	ti.Width = 5

	return Model{
		game:     g,
		screen:   core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:     opts,
		config:   cfg,
		keymap:   NewKeyMapper(),
		initials: ti,
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.gateActive() {
			return m.handleGateKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case submitResultMsg:
		m.submitting = false
		if m.opts.Gate != nil {
			m.opts.Gate.Resolve(msg.err)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) gateActive() bool {
	return m.opts.Gate != nil && m.opts.Gate.State() != submit.StateIdle
}

// handleKey processes gameplay keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keymap.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Escape leaves once the run is over.
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.LevelComplete) {
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleGateKey processes input while the submission modal is open.
func (m Model) handleGateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	gate := m.opts.Gate

	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch gate.State() {
	case submit.StateInput:
		switch msg.Type {
		case tea.KeyEnter:
			payload, err := gate.StartSubmit(m.initials.Value())
			if err != nil {
				// Malformed initials never reach the network; stay in
				// Input and let the placeholder hint do the explaining.
				m.initials.SetValue("")
				return m, nil
			}
			m.submitting = true
			return m, submitCmd(m.opts.Client, payload)
		case tea.KeyEsc:
			gate.Close()
			return m, nil
		}
		var cmd tea.Cmd
		m.initials, cmd = m.initials.Update(msg)
		return m, cmd

	case submit.StateError:
		switch msg.Type {
		case tea.KeyEnter:
			gate.Retry()
		case tea.KeyEsc:
			gate.Close()
		}
		return m, nil

	case submit.StateSuccess:
		gate.Close()
		return m, nil
	}

	// Submitting: the call is in flight, nothing to do but wait.
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if !m.gameState.GameOver && !m.gameState.LevelComplete {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// The modal owns the screen; gameplay stays frozen underneath it.
	if m.gateActive() {
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	wasTerminal := m.gameState.GameOver || m.gameState.LevelComplete

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.opts.Notifier.HandleEvents(result.Events)
	m.inputFrame.Clear()

	terminal := m.gameState.GameOver || m.gameState.LevelComplete
	if terminal && !wasTerminal {
		m.finishRun()
	}
	if !terminal && wasTerminal {
		// Restarted from a terminal state.
		m.runSaved = false
		m.gateArmed = false
	}

	if m.gateArmed {
		m.gateCountdown--
		if m.gateCountdown <= 0 {
			m.gateArmed = false
			m.openGate()
		}
	}

	return m, tickCmd(m.config.TickRate)
}

// finishRun persists the run and arms the delayed submission handoff for
// worthy sessions.
func (m *Model) finishRun() {
	if m.runSaved {
		return
	}
	m.runSaved = true

	snap := m.game.Snapshot()
	if m.opts.Store != nil && snap != nil {
		//nolint:errcheck // Best-effort save, the session result stays on screen
		m.opts.Store.SaveRun(storage.RunEntry{
			Score:      m.gameState.Score,
			Stage:      snap.Stage,
			WPM:        snap.Stats.WPM,
			Accuracy:   snap.Stats.Accuracy,
			DurationMs: snap.Stats.DurationMs,
		})
		//nolint:errcheck
		m.opts.Store.SaveProgress(storage.Progress{
			StageReached: snap.Stage,
			BestScore:    m.gameState.Score,
			Proficiency:  m.game.Proficiency(),
		})
	}

	if m.game.Worthy() && m.opts.Gate != nil && m.opts.Client != nil {
		m.gateArmed = true
		m.gateCountdown = gateDelayTicks
	}
}

// openGate moves the gate to Input and focuses the initials field.
func (m *Model) openGate() {
	snap := m.game.Snapshot()
	if snap == nil {
		return
	}
	if err := m.opts.Gate.Offer(snap); err != nil {
		// Hashing refused; the run simply is not submittable.
		return
	}
	m.initials.SetValue(m.opts.Gate.Initials())
	m.initials.Focus()
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.gateActive() {
		return m.viewGate()
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// viewGate renders the submission modal centered on a blank screen.
func (m Model) viewGate() string {
	gate := m.opts.Gate

	var body string
	switch gate.State() {
	case submit.StateInput:
		body = fmt.Sprintf("%s\n\nScore %d  Session %.8s\n\nInitials: %s\n\n%s",
			modalTitleStyle.Render("SUBMIT SCORE"),
			m.gameState.Score,
			gate.Hash(),
			m.initials.View(),
			modalHelpStyle.Render("enter submit · esc skip"),
		)
	case submit.StateSubmitting:
		body = fmt.Sprintf("%s\n\nSubmitting as %s...",
			modalTitleStyle.Render("SUBMIT SCORE"),
			gate.Initials(),
		)
	case submit.StateError:
		body = fmt.Sprintf("%s\n\n%s\n\n%s",
			modalTitleStyle.Render("SUBMIT SCORE"),
			modalErrStyle.Render(gate.ErrorMessage()),
			modalHelpStyle.Render("enter retry · esc give up"),
		)
	case submit.StateSuccess:
		body = fmt.Sprintf("%s\n\n%s\n\n%s",
			modalTitleStyle.Render("SUBMIT SCORE"),
			modalOKStyle.Render("Score submitted!"),
			modalHelpStyle.Render("press any key"),
		)
	}

	return lipgloss.Place(
		m.config.ScreenW, m.config.ScreenH,
		lipgloss.Center, lipgloss.Center,
		modalStyle.Render(body),
	)
}

// Run starts the Bubble Tea program for one local session.
func Run(g *game.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(g, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
