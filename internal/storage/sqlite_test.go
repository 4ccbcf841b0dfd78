package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsRuns(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveRun(ctx, Run{GameID: "snake", Score: 4, Length: 7}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore(ctx, "snake")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 4 {
		t.Errorf("HighScore = %d, want 4", high)
	}
}

func TestSaveAndTopRuns(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	runs := []Run{
		{GameID: "snake", Score: 10, Length: 13, Ticks: 400},
		{GameID: "snake", Score: 5, Length: 8, Ticks: 100},
		{GameID: "snake", Score: 20, Length: 23, Ticks: 900, SessionID: "abc"},
		{GameID: "snake", Score: 10, Length: 15, Ticks: 500},
		{GameID: "snake_walls", Score: 50, Length: 53},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns(ctx, "snake", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 4 {
		t.Fatalf("Expected 4 runs, got %d", len(top))
	}

	wantScores := []int{20, 10, 10, 5}
	for i, want := range wantScores {
		if top[i].Score != want {
			t.Errorf("top[%d].Score = %d, want %d", i, top[i].Score, want)
		}
	}
	if top[1].Length != 15 {
		t.Errorf("tie should go to the longer snake, got length %d", top[1].Length)
	}
	if top[0].SessionID != "abc" || top[0].Ticks != 900 {
		t.Errorf("top[0] = %+v", top[0])
	}
	if top[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
	if time.Since(top[0].CreatedAt) > 24*time.Hour {
		t.Errorf("CreatedAt looks wrong: %v", top[0].CreatedAt)
	}
}

func TestTopRunsLimit(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for i := 0; i < 15; i++ {
		if _, err := store.SaveRun(ctx, Run{GameID: "snake", Score: i}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	tests := []struct {
		limit int
		want  int
	}{
		{5, 5},
		{0, DefaultLimit},
		{-1, DefaultLimit},
		{100, 15},
	}
	for _, tt := range tests {
		top, err := store.TopRuns(ctx, "snake", tt.limit)
		if err != nil {
			t.Fatalf("TopRuns(%d) failed: %v", tt.limit, err)
		}
		if len(top) != tt.want {
			t.Errorf("TopRuns(%d) returned %d runs, want %d", tt.limit, len(top), tt.want)
		}
	}
}

func TestSaveRunRequiresGameID(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveRun(context.Background(), Run{Score: 1}); err == nil {
		t.Error("expected error for run without game id")
	}
}

func TestHighScoreEmpty(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore(context.Background(), "snake")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for no runs, got %d", high)
	}
}

func TestClearRuns(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, r := range []Run{
		{GameID: "snake", Score: 1},
		{GameID: "snake", Score: 2},
		{GameID: "snake_walls", Score: 3},
	} {
		if _, err := store.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	n, err := store.ClearRuns(ctx, "snake")
	if err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared %d runs, want 2", n)
	}

	top, _ := store.TopRuns(ctx, "snake", 10)
	if len(top) != 0 {
		t.Errorf("Expected no snake runs after clear, got %d", len(top))
	}
	walls, _ := store.TopRuns(ctx, "snake_walls", 10)
	if len(walls) != 1 {
		t.Errorf("Clearing one variant touched another: %d runs left", len(walls))
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, r := range []Run{
		{GameID: "snake", Score: 2, Length: 5, Ticks: 100},
		{GameID: "snake", Score: 4, Length: 7, Ticks: 300},
		{GameID: "snake_walls", Score: 9, Length: 12, Ticks: 50},
	} {
		if _, err := store.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	st, err := store.Stats(ctx, "snake")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if st.RunsCount != 2 || st.HighScore != 4 || st.MaxLength != 7 || st.TotalTicks != 400 {
		t.Errorf("unexpected stats: %+v", st)
	}
	if st.AvgScore != 3 {
		t.Errorf("AvgScore = %v, want 3", st.AvgScore)
	}
	if st.LastPlayed.IsZero() {
		t.Error("LastPlayed not populated")
	}

	empty, err := store.Stats(ctx, "unknown")
	if err != nil {
		t.Fatalf("Stats() on empty variant failed: %v", err)
	}
	if empty.RunsCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("expected zero stats, got %+v", empty)
	}

	all, err := store.AllStats(ctx)
	if err != nil {
		t.Fatalf("AllStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("AllStats returned %d variants, want 2", len(all))
	}
	if all["snake_walls"].HighScore != 9 {
		t.Errorf("snake_walls high = %d, want 9", all["snake_walls"].HighScore)
	}
}
