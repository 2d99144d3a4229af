package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/popsim/internal/sim"
)

const (
	DefaultFPS      = 30
	historyCapacity = 600
	graphWidth      = 60
	graphHeight     = 5
	sparkWidth      = 14
)

type TickMsg time.Time

// Model hosts a Driver inside a Bubble Tea program. Every frame tick calls
// Driver.Tick once while the run is active.
type Model struct {
	driver   *sim.Driver
	cfg      *sim.Config
	name     string
	interval time.Duration
	count    int

	series [][]float64
	totals []float64

	width, height int
	showHelp      bool
	err           error
}

// NewModel prepares a live view for cfg and starts the first run. A start
// failure is shown in the view rather than returned.
func NewModel(driver *sim.Driver, cfg *sim.Config, name string, fps int) Model {
	if fps <= 0 {
		fps = DefaultFPS
	}
	m := Model{
		driver:   driver,
		cfg:      cfg.Clone(),
		name:     name,
		interval: time.Second / time.Duration(fps),
		count:    cfg.N(),
	}
	m.start()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.driver.Active() {
				m.driver.Stop()
			} else {
				m.start()
			}
		case "r":
			m.start()
		case "+", "=":
			m.resize(m.count + 1)
		case "-", "_":
			m.resize(m.count - 1)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case TickMsg:
		if m.driver.Active() && m.driver.Tick() {
			if s, ok := m.driver.Latest(); ok {
				m.record(s)
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// start begins a fresh run. A population count queued with resize takes
// effect here and is kept for later restarts.
func (m *Model) start() {
	m.err = m.driver.Start(m.cfg)
	if m.err != nil {
		return
	}
	m.cfg = m.driver.Config()
	m.count = m.cfg.N()
	m.series = make([][]float64, m.count)
	m.totals = m.totals[:0]
	for _, s := range m.driver.Snapshots() {
		m.record(s)
	}
}

func (m *Model) resize(n int) {
	err := m.driver.Resize(n)
	switch {
	case errors.Is(err, sim.ErrRunActive):
		m.err = fmt.Errorf("stop the run before changing the population count")
	case err != nil:
		m.err = err
	default:
		m.err = nil
		m.count = n
	}
}

func (m *Model) record(s sim.Snapshot) {
	for i, v := range s.Amounts {
		if i >= len(m.series) {
			break
		}
		m.series[i] = appendCapped(m.series[i], v)
	}
	m.totals = appendCapped(m.totals, s.Total())
}

func appendCapped(values []float64, v float64) []float64 {
	values = append(values, v)
	if len(values) > historyCapacity {
		values = values[len(values)-historyCapacity:]
	}
	return values
}

func (m Model) status(st styles) string {
	switch {
	case m.driver.Active():
		return st.running.Render("RUNNING")
	case m.driver.Len() > 1 && m.driver.Day() > m.cfg.Duration:
		return st.stopped.Render("FINISHED")
	case m.driver.Len() > 0:
		return st.stopped.Render("STOPPED")
	}
	return st.stopped.Render("IDLE")
}

func (m Model) seasonLabel() string {
	if !m.cfg.Season.Enabled {
		return "off"
	}
	return sim.SeasonOf(m.driver.Day()).String()
}

func (m Model) chartWidth() int {
	if m.width == 0 {
		return graphWidth
	}
	w := m.width - 60
	if w < 20 {
		w = 20
	}
	return w
}

// View renders the TUI interface.
func (m Model) View() string {
	theme := CurrentTheme
	st := stylesFor(theme)

	var charts strings.Builder
	charts.WriteString(GradientText("POPSIM", theme.Primary, theme.Accent) + "  " + st.header.Render(strings.ToUpper(m.name)) + "\n")
	for i, values := range m.series {
		if len(values) < 2 {
			continue
		}
		chart := asciigraph.Plot(values,
			asciigraph.Height(graphHeight),
			asciigraph.Width(m.chartWidth()),
			asciigraph.Caption(fmt.Sprintf("population %d", i)),
			asciigraph.SeriesColors(theme.SeriesColor(i)),
		)
		charts.WriteString(chart + "\n\n")
	}

	var s strings.Builder
	s.WriteString(m.status(st) + "\n\n")
	s.WriteString(st.label.Render("Day") + st.value.Render(fmt.Sprintf("%d", m.driver.Day())) + "\n")
	s.WriteString(st.label.Render("Season") + st.value.Render(m.seasonLabel()) + "\n")
	s.WriteString(st.label.Render("Total") + st.value.Render(fmt.Sprintf("%.2f", m.driver.Total())) + "\n")
	s.WriteString(st.label.Render("Coupling") + st.value.Render(m.cfg.Coupling.String()) + "\n")
	pops := fmt.Sprintf("%d", m.cfg.N())
	if m.count != m.cfg.N() {
		pops = fmt.Sprintf("%d (next run: %d)", m.cfg.N(), m.count)
	}
	s.WriteString(st.label.Render("Populations") + st.value.Render(pops) + "\n")

	if m.cfg.Duration > 0 {
		s.WriteString("\n" + ProgressBar(float64(m.driver.Day())/float64(m.cfg.Duration), 24, theme.Primary) + "\n")
	}

	s.WriteString("\n" + Separator(34, theme.Muted) + "\n")
	if latest, ok := m.driver.Latest(); ok {
		for i, v := range latest.Amounts {
			var spark string
			if i < len(m.series) {
				spark = SparklineChart(m.series[i], sparkWidth)
			}
			line := fmt.Sprintf("p%-3d %12.2f ", i, v)
			s.WriteString(st.label.Render(line) + lipgloss.NewStyle().Foreground(theme.Secondary).Render(spark) + "\n")
		}
	}

	if m.err != nil {
		s.WriteString("\n" + st.err.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n" + st.hint.Render("SP:Start/Stop R:Restart Q:Quit\nT:Theme +/-:Populations ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, st.panel.Render(charts.String()), st.stats.Render(s.String()))
	if m.showHelp {
		return helpText(st) + "\n\n" + mainView
	}
	return mainView
}

func helpText(st styles) string {
	keys := [][2]string{
		{"Space", "Start a new run / stop the current one"},
		{"R", "Restart from the initial populations"},
		{"+ / -", "Change the population count (when stopped)"},
		{"T", "Cycle themes"},
		{"?", "Toggle this help"},
		{"Q", "Quit"},
	}
	var b strings.Builder
	b.WriteString(st.header.Render("KEYBOARD SHORTCUTS") + "\n")
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("  %s %s\n", st.key.Render(fmt.Sprintf("%-6s", k[0])), k[1]))
	}
	return b.String()
}

// RunLive runs a live view for cfg until the user quits.
func RunLive(cfg *sim.Config, name string, seed uint64, fps int) error {
	m := NewModel(sim.NewDriver(sim.NewRand(seed)), cfg, name, fps)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
