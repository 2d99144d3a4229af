package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/popsim/internal/sim"
)

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func flatConfig() *sim.Config {
	cfg := sim.DefaultConfig(2)
	cfg.Coeffs = sim.NewMatrix(2, 0)
	for i := range cfg.Populations {
		cfg.Populations[i].Growth = 0
	}
	cfg.Duration = 3
	return cfg
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModelTicksUntilFinished(t *testing.T) {
	m := NewModel(sim.NewDriver(sim.NewRand(1)), flatConfig(), "flat", 60)
	if m.err != nil {
		t.Fatalf("start: %v", m.err)
	}
	if !m.driver.Active() {
		t.Fatal("expected the run to start immediately")
	}

	for i := 0; i < 10; i++ {
		m = send(m, TickMsg{})
	}

	if m.driver.Active() {
		t.Error("expected the run to finish")
	}
	// days 0..4
	if got := len(m.totals); got != 5 {
		t.Errorf("expected 5 recorded totals, got %d", got)
	}

	view := m.View()
	for _, want := range []string{"FINISHED", "200.00", "Day", "off"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelStartStop(t *testing.T) {
	m := NewModel(sim.NewDriver(sim.NewRand(1)), flatConfig(), "flat", 60)
	m = send(m, TickMsg{}, TickMsg{})

	m = send(m, key(" "))
	if m.driver.Active() {
		t.Fatal("space should stop an active run")
	}
	if !strings.Contains(m.View(), "STOPPED") {
		t.Error("expected STOPPED status")
	}
	m = send(m, TickMsg{})
	if m.driver.Len() != 3 {
		t.Errorf("stopped run should not advance, got %d snapshots", m.driver.Len())
	}

	m = send(m, key(" "))
	if !m.driver.Active() || m.driver.Len() != 1 {
		t.Error("space should start a fresh run")
	}

	m = send(m, TickMsg{}, key("r"))
	if m.driver.Len() != 1 || m.driver.Day() != 0 {
		t.Error("r should restart from day 0")
	}
}

func TestModelResize(t *testing.T) {
	m := NewModel(sim.NewDriver(sim.NewRand(1)), flatConfig(), "flat", 60)

	m = send(m, key("+"))
	if m.err == nil || !strings.Contains(m.View(), "stop the run") {
		t.Error("expected an error when resizing an active run")
	}

	m = send(m, key(" "), key("+"))
	if m.err != nil {
		t.Fatalf("resize: %v", m.err)
	}
	if !strings.Contains(m.View(), "next run: 3") {
		t.Error("expected the pending count in the view")
	}

	m = send(m, key("r"))
	if len(m.series) != 3 || m.cfg.N() != 3 {
		t.Errorf("expected 3 populations after restart, got %d", len(m.series))
	}

	// the new count survives another restart
	m = send(m, key("r"))
	if m.cfg.N() != 3 {
		t.Errorf("expected 3 populations to stick, got %d", m.cfg.N())
	}
}

func TestModelSeasonLabel(t *testing.T) {
	cfg := flatConfig()
	cfg.Season = sim.Season{Enabled: true, Coefficient: 2}
	m := NewModel(sim.NewDriver(sim.NewRand(1)), cfg, "seasonal", 60)
	if !strings.Contains(m.View(), "winter") {
		t.Error("day 0 should show winter")
	}
}

func TestModelInvalidConfig(t *testing.T) {
	cfg := flatConfig()
	cfg.Step = 0
	m := NewModel(sim.NewDriver(sim.NewRand(1)), cfg, "bad", 60)
	if m.err == nil {
		t.Fatal("expected a start error")
	}
	if !strings.Contains(m.View(), "step") {
		t.Error("expected the error in the view")
	}
}

func TestModelKeys(t *testing.T) {
	defer SetTheme(CurrentTheme.Name)

	m := NewModel(sim.NewDriver(sim.NewRand(1)), flatConfig(), "flat", 60)
	before := CurrentTheme.Name
	m = send(m, key("t"))
	if CurrentTheme.Name == before {
		t.Error("t should switch theme")
	}

	m = send(m, key("?"))
	if !m.showHelp || !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("? should show help")
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestThemes(t *testing.T) {
	if got := GetTheme("nope").Name; got != Themes[0].Name {
		t.Errorf("unknown theme should fall back to %s, got %s", Themes[0].Name, got)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names should match themes")
	}
	if ThemeMono.SeriesColor(5) != ThemeMono.Series[0] {
		t.Error("series colors should wrap")
	}
}

func TestSparklineChart(t *testing.T) {
	if got := SparklineChart([]float64{1, 2, 3, 4}, 2); got != "▁█" {
		t.Errorf("expected last two values, got %q", got)
	}
	if got := SparklineChart(nil, 3); got != "───" {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestInteractiveAppStartsPreset(t *testing.T) {
	a := NewInteractiveApp(60)
	var next tea.Model = *a

	for i, name := range a.presets {
		if name == "epidemic" {
			for j := 0; j < i; j++ {
				next, _ = next.Update(key("j"))
			}
		}
	}
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := next.(app)
	if got.state != stateConfig || got.selected != "epidemic" {
		t.Fatalf("expected config screen for epidemic, got state %d %q", got.state, got.selected)
	}
	if got.params["spawn_rate"] != 0.01 {
		t.Errorf("expected preset spawn rate, got %v", got.params["spawn_rate"])
	}

	next, _ = next.Update(key("s"))
	got = next.(app)
	if got.state != stateSim {
		t.Fatalf("expected live view, err %v", got.err)
	}
	if !got.liveModel.driver.Active() {
		t.Error("expected the live run to be active")
	}
	if !strings.Contains(got.View(), "EPIDEMIC") {
		t.Error("expected the preset name in the live view")
	}
}
