package tui

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// fakeGame records what the model asks of it.
type fakeGame struct {
	steers []core.Direction
	steps  int
	state  core.GameState
	err    error
}

func (g *fakeGame) ID() string { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }
func (g *fakeGame) Reset(core.RuntimeConfig) { g.state = core.GameState{} }
func (g *fakeGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "fake") }
func (g *fakeGame) State() core.GameState { return g.state }
func (g *fakeGame) Steer(d core.Direction) { g.steers = append(g.steers, d) }
func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.steps++
	if in.Has(core.ActionRestart) {
		g.state = core.GameState{}
	}
	return core.StepResult{State: g.state, Err: g.err}
}

func newTestModel(t *testing.T, g *fakeGame, store *storage.Store) GameModel {
	t.Helper()
	m := NewGameModel(g, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 8, Seed: 1}, GameOptions{
		Store:     store,
		Logger:    log.New(io.Discard),
		SessionID: "sess-1",
	})
	m.Init()
	return m
}

func update(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return gm, cmd
}

func tick(m GameModel) TickMsg {
	return TickMsg{Gen: m.gen}
}

func TestArrowKeySteersImmediately(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(t, g, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, runeKey("a"))

	if len(g.steers) != 2 || g.steers[0] != core.DirDown || g.steers[1] != core.DirLeft {
		t.Errorf("steers = %v, want [down left]", g.steers)
	}
	if g.steps != 0 {
		t.Error("steering must not step the game")
	}
}

func TestStaleTickIgnored(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(t, g, nil)

	m, cmd := update(t, m, TickMsg{Gen: m.gen + 1})
	if cmd != nil || g.steps != 0 {
		t.Error("tick from another loop should be dropped")
	}

	_, cmd = update(t, m, tick(m))
	if cmd == nil || g.steps != 1 {
		t.Error("own tick should step and schedule the next one")
	}
}

func TestSimulationErrorStopsLoop(t *testing.T) {
	boom := errors.New("boom")
	g := &fakeGame{err: boom}
	m := newTestModel(t, g, nil)

	m, cmd := update(t, m, tick(m))
	if !errors.Is(m.Err(), boom) {
		t.Fatalf("Err() = %v, want boom", m.Err())
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.Quit after a simulation error")
	}
}

func TestResizeKeepsGame(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(t, g, nil)
	g.state.Score = 5

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if g.state.Score != 5 {
		t.Error("resize must not reset the game")
	}
	if m.screen.Width() != 100 || m.screen.Height() != 40 {
		t.Errorf("screen = %dx%d, want 100x40", m.screen.Width(), m.screen.Height())
	}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGameOverSavesRunOnce(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{}
	m := newTestModel(t, g, store)

	g.state = core.GameState{Score: 3, Length: 6, Tick: 42, GameOver: true}
	m, _ = update(t, m, tick(m))
	m, _ = update(t, m, tick(m))
	update(t, m, runeKey("q"))

	runs, err := store.TopRuns(context.Background(), "fake", 10)
	if err != nil {
		t.Fatalf("TopRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("saved %d runs, want 1", len(runs))
	}
	r := runs[0]
	if r.Score != 3 || r.Length != 6 || r.Ticks != 42 || r.SessionID != "sess-1" {
		t.Errorf("saved run = %+v", r)
	}
}

func TestQuitSavesRunningGame(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{}
	m := newTestModel(t, g, store)

	g.state = core.GameState{Score: 2, Length: 5, Tick: 10}
	m, _ = update(t, m, tick(m))
	_, cmd := update(t, m, runeKey("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}

	high, err := store.HighScore(context.Background(), "fake")
	if err != nil {
		t.Fatalf("HighScore: %v", err)
	}
	if high != 2 {
		t.Errorf("HighScore = %d, want 2", high)
	}
}

func TestRestartAllowsNewSave(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{}
	m := newTestModel(t, g, store)

	g.state = core.GameState{Score: 1, GameOver: true}
	m, _ = update(t, m, tick(m))

	m, _ = update(t, m, runeKey("r"))
	m, _ = update(t, m, tick(m)) // fake resets on restart

	g.state = core.GameState{Score: 4, GameOver: true}
	update(t, m, tick(m))

	runs, _ := store.TopRuns(context.Background(), "fake", 10)
	if len(runs) != 2 {
		t.Errorf("saved %d runs, want 2", len(runs))
	}
}

func TestBackPausesWhilePlaying(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(t, g, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Error("back while playing should pause, not leave")
	}
	if !m.inputFrame.Has(core.ActionPause) {
		t.Error("expected pause in the next frame")
	}

	g.state = core.GameState{Paused: true}
	m, _ = update(t, m, tick(m))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("back while paused should return to the menu")
	}
}
