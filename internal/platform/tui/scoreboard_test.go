package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

func init() {
	registry.Register("fake", func() registry.Game { return &fakeGame{} })
	registry.Register("fake_walls", func() registry.Game { return &fakeGame{} })
}

func saveRuns(t *testing.T, store *storage.Store, gameID string, scores ...int) {
	t.Helper()
	for _, s := range scores {
		if _, err := store.SaveRun(context.Background(), storage.Run{GameID: gameID, Score: s, Length: s + 3}); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
}

func TestScoreboardShowsRunsAndStats(t *testing.T) {
	store := openStore(t)
	saveRuns(t, store, "fake", 4, 9, 2)

	m := NewScoreboardModel(store, 100, 30, NewPalette(nil))
	if len(m.runs) != 3 {
		t.Fatalf("loaded %d runs, want 3", len(m.runs))
	}
	if m.runs[0].Score != 9 {
		t.Errorf("first run score = %d, want 9", m.runs[0].Score)
	}

	view := m.View()
	for _, want := range []string{"HIGH SCORES", "3 runs", "best 9", "Session", "local"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestScoreboardNarrowHidesDetail(t *testing.T) {
	store := openStore(t)
	saveRuns(t, store, "fake", 1)

	m := NewScoreboardModel(store, 60, 30, NewPalette(nil))
	if strings.Contains(m.View(), "Session") {
		t.Error("narrow view shows the detail panel")
	}
}

func TestScoreboardSwitchesVariant(t *testing.T) {
	store := openStore(t)
	saveRuns(t, store, "fake", 5)

	m := NewScoreboardModel(store, 100, 30, NewPalette(nil))
	start := m.gameCursor

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.gameCursor == start {
		t.Fatal("tab did not change variant")
	}

	// Wraps back around after visiting every variant.
	for range len(m.games) - 1 {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(ScoreboardModel)
	}
	if m.gameCursor != start {
		t.Errorf("cursor = %d after a full cycle, want %d", m.gameCursor, start)
	}
}

func TestScoreboardBackAndQuit(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24, NewPalette(nil))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if sb := next.(ScoreboardModel); !sb.IsGoingBack() || sb.IsQuitting() {
		t.Errorf("esc: back=%v quit=%v", sb.IsGoingBack(), sb.IsQuitting())
	}

	next, _ = m.Update(runeKey("q"))
	if sb := next.(ScoreboardModel); !sb.IsQuitting() {
		t.Error("q did not quit")
	}
}

func TestMenuSelectsVariant(t *testing.T) {
	store := openStore(t)
	saveRuns(t, store, "fake", 7)

	cfg := core.DefaultConfig()
	m := NewMenuModel(store, cfg, NewPalette(nil))
	if !strings.Contains(m.View(), "best 7") {
		t.Error("menu does not show the high score")
	}

	var idx = -1
	for i, it := range m.items {
		if it.GameID == "fake_walls" {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatal("fake_walls not in menu")
	}
	for range idx {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(MenuModel)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	if m.Selected() == nil || m.Selected().GameID != "fake_walls" {
		t.Errorf("Selected = %+v, want fake_walls", m.Selected())
	}
}
