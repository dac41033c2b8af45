package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-avalanche/internal/config"
	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/games/rescue"
	"github.com/vovakirdan/tui-avalanche/internal/storage"
)

// shortMission runs out of time a few seconds after dispatch.
func shortMission() config.MissionConfig {
	cfg := config.DefaultMissionConfig()
	cfg.Name = "short"
	cfg.Title = "Short"
	cfg.Mission.DispatchSec = 0.5
	cfg.Mission.TimerSec = 2
	return cfg
}

func newTestModel(t *testing.T) (Model, *rescue.Game, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	game := rescue.New(shortMission())
	m := NewModel(game, store, core.RuntimeConfig{ScreenW: 100, ScreenH: 31, TickRate: 60, Seed: 3},
		WithDifficulty("hard"),
		WithSource("test"),
	)
	return m, game, store
}

// tickUntilOver feeds 200ms frames until the mission ends.
func tickUntilOver(t *testing.T, m Model, now time.Time) (Model, time.Time) {
	t.Helper()
	for range 200 {
		now = now.Add(200 * time.Millisecond)
		next, _ := m.Update(TickMsg(now))
		m = next.(Model)
		if m.gameState.GameOver {
			return m, now
		}
	}
	t.Fatal("mission never ended")
	return m, now
}

func TestModelSavesFinishedRunOnce(t *testing.T) {
	m, _, store := newTestModel(t)

	m, now := tickUntilOver(t, m, time.Unix(1000, 0))
	for range 5 {
		now = now.Add(200 * time.Millisecond)
		next, _ := m.Update(TickMsg(now))
		m = next.(Model)
	}

	runs, err := store.RecentRuns("short", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 saved run, got %d", len(runs))
	}
	r := runs[0]
	if r.Outcome != "LOSE" || r.Reason == "" {
		t.Errorf("outcome = %s/%s, want a LOSE with a reason", r.Outcome, r.Reason)
	}
	if r.Difficulty != "hard" || r.Source != "test" || r.Seed != 3 {
		t.Errorf("labels = %s/%s/%d", r.Difficulty, r.Source, r.Seed)
	}
}

func TestModelRestartAllowsAnotherSave(t *testing.T) {
	m, game, store := newTestModel(t)

	m, now := tickUntilOver(t, m, time.Unix(1000, 0))

	next, _ := m.Update(runeKey("r"))
	m = next.(Model)
	now = now.Add(20 * time.Millisecond)
	next, _ = m.Update(TickMsg(now))
	m = next.(Model)

	if m.gameState.GameOver {
		t.Fatal("restart should leave the terminal state")
	}
	if game.Attempts() != 2 {
		t.Errorf("Attempts = %d, want 2", game.Attempts())
	}

	tickUntilOver(t, m, now)
	runs, _ := store.RecentRuns("short", 10)
	if len(runs) != 2 {
		t.Errorf("expected 2 saved runs, got %d", len(runs))
	}
}

func TestModelResizeKeepsMission(t *testing.T) {
	m, game, _ := newTestModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	if game.Attempts() != 1 {
		t.Errorf("resize restarted the mission: Attempts = %d", game.Attempts())
	}
	if m.screen.Width() != 120 || m.screen.Height() != 40-helpHeight {
		t.Errorf("screen = %dx%d, want 120x%d", m.screen.Width(), m.screen.Height(), 40-helpHeight)
	}
}

func TestModelBackToMenu(t *testing.T) {
	m, _, _ := newTestModel(t)

	// Ignored while the mission runs.
	next, _ := m.Update(runeKey("b"))
	if next.(Model).BackToMenu() {
		t.Fatal("b should not leave a running mission")
	}

	m, _ = tickUntilOver(t, m, time.Unix(1000, 0))
	next, cmd := m.Update(runeKey("b"))
	m = next.(Model)
	if !m.BackToMenu() || cmd == nil {
		t.Error("b should leave a finished mission")
	}
	if m.View() != "" {
		t.Error("view should be empty after leaving")
	}
}

func TestModelView(t *testing.T) {
	m, _, _ := newTestModel(t)

	view := m.View()
	if !strings.Contains(view, "move") {
		t.Error("view should end with the key help line")
	}
	if got := strings.Count(view, "\n"); got < 30 {
		t.Errorf("view has %d line breaks, want at least 30", got)
	}
}

func TestRenderScreenPlainText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.DrawTextColored(2, 0, "cd", core.ColorRed)
	s.DrawText(0, 1, "xyz")

	out := RenderScreen(s, false)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, want := range []string{"ab", "cd"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("line 0 %q missing %q", lines[0], want)
		}
	}
	if !strings.Contains(lines[1], "xyz") {
		t.Errorf("line 1 %q missing xyz", lines[1])
	}
	if flashed := RenderScreen(s, true); !strings.Contains(flashed, "cd") {
		t.Error("flash render lost text")
	}
}
