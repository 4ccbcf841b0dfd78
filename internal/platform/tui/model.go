package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

const saveTimeout = 2 * time.Second

// loopGen numbers tick loops across all models in the process.
var loopGen atomic.Int64

// GameOptions are the collaborators of a GameModel. All fields are optional.
type GameOptions struct {
	Store     *storage.Store
	Palette   *Palette
	Logger    *log.Logger
	SessionID string

	// Standalone makes Back quit the program instead of returning to a menu.
	Standalone bool
}

// GameModel is the Bubble Tea model running one game.
type GameModel struct {
	game       registry.Game
	steerer    registry.Steerer
	screen     *core.Screen
	store      *storage.Store
	palette    Palette
	logger     *log.Logger
	config     core.RuntimeConfig
	sessionID  string
	standalone bool

	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	gen        int

	quitting   bool
	backToMenu bool
	scoreSaved bool
	err        error
}

// NewGameModel creates a model for game. The game is reset in Init.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	palette := NewPalette(nil)
	if opts.Palette != nil {
		palette = *opts.Palette
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	steerer, _ := game.(registry.Steerer)

	return GameModel{
		game:       game,
		steerer:    steerer,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      opts.Store,
		palette:    palette,
		logger:     logger,
		config:     cfg,
		sessionID:  opts.SessionID,
		standalone: opts.Standalone,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		gen:        int(loopGen.Add(1)),
	}
}

// Init resets the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.gen, m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The board has a fixed size; only the viewport follows the terminal.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.saveRun()
		m.quitting = true
		return m, tea.Quit
	}

	if d, ok := action.Direction(); ok {
		// Steering takes effect on the next tick without waiting for the frame.
		if m.steerer != nil {
			m.steerer.Steer(d)
		} else {
			m.inputFrame.Set(action)
		}
		return m, nil
	}

	switch action {
	case core.ActionBack:
		if !m.gameState.GameOver && !m.gameState.Paused {
			m.inputFrame.Set(core.ActionPause)
			return m, nil
		}
		m.saveRun()
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
	case core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
	case core.ActionPause:
		m.inputFrame.Set(core.ActionPause)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	wasOver := m.gameState.GameOver

	result := m.game.Step(m.inputFrame)
	m.inputFrame.Clear()

	if result.Err != nil {
		m.logger.Error("simulation stopped", "game", m.game.ID(), "err", result.Err)
		m.err = result.Err
		m.quitting = true
		return m, tea.Quit
	}

	m.gameState = result.State
	if wasOver && !m.gameState.GameOver {
		// Restarted
		m.scoreSaved = false
	}
	if m.gameState.GameOver {
		m.saveRun()
	}

	return m, tickCmd(m.gen, m.config.TickRate)
}

// saveRun records the current run once. Runs that scored nothing are not kept.
func (m *GameModel) saveRun() {
	if m.scoreSaved {
		return
	}
	m.scoreSaved = true

	if m.store == nil || m.gameState.Score == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	_, err := m.store.SaveRun(ctx, storage.Run{
		GameID:    m.game.ID(),
		Score:     m.gameState.Score,
		Length:    m.gameState.Length,
		Ticks:     m.gameState.Tick,
		SessionID: m.sessionID,
	})
	if err != nil {
		m.logger.Warn("could not save run", "game", m.game.ID(), "err", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "err", err)
	}
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return m.palette.RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Err returns the error that stopped the simulation, if any.
func (m GameModel) Err() error {
	return m.err
}

// State returns the game state as of the last tick.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// Run plays game in the current terminal until the user quits.
// A simulation error is returned after the terminal is restored.
func Run(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) error {
	opts.Standalone = true
	model := NewGameModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if gm, ok := final.(GameModel); ok && gm.Err() != nil {
		return gm.Err()
	}
	return nil
}
