package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/popsim/internal/config"
	"github.com/san-kum/popsim/internal/sim"
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// editable settings shown on the config screen, in display order
var paramNames = []string{"populations", "step", "duration", "seed", "season", "spawn_rate", "escape"}

var paramHelp = map[string]string{
	"populations": "number of populations",
	"step":        "days per snapshot",
	"duration":    "last day to simulate",
	"seed":        "random seed",
	"season":      "season coefficient, 0 disables",
	"spawn_rate":  "disease chance per day",
	"escape":      "escape percent, 0 disables",
}

type app struct {
	state, cursor int
	presets       []string
	selected      string
	params        map[string]float64
	paramCursor   int
	editing       bool
	editBuf       string
	fps           int
	width, height int
	err           error
	liveModel     Model
}

func NewInteractiveApp(fps int) *app {
	return &app{
		state:   stateMenu,
		presets: config.ListPresets(),
		params:  make(map[string]float64),
		fps:     fps,
	}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
		return m, nil
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m app) handleKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
		m.loadPreset()
	}
	return m, nil
}

func (m app) configKey(msg tea.KeyMsg) (app, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				m.params[paramNames[m.paramCursor]] = val
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", m.params[paramNames[m.paramCursor]])
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(1)
	}
	return m, nil
}

// nudge moves the selected setting by one unit of its natural scale.
func (m *app) nudge(dir float64) {
	name := paramNames[m.paramCursor]
	delta := 1.0
	switch name {
	case "duration":
		delta = 100
	case "season":
		delta = 0.1
	case "spawn_rate":
		delta = 0.005
	case "escape":
		delta = 5
	}
	m.params[name] += dir * delta
}

func (m *app) loadPreset() {
	cfg := config.GetPreset(m.selected)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m.params["populations"] = float64(len(cfg.Populations))
	m.params["step"] = float64(cfg.Step)
	m.params["duration"] = float64(cfg.Duration)
	m.params["seed"] = float64(cfg.Seed)
	m.params["season"] = 0
	if cfg.Season.Enabled {
		m.params["season"] = cfg.Season.Coefficient
	}
	m.params["spawn_rate"] = cfg.Disease.SpawnRate
	m.params["escape"] = 0
	if cfg.Escape.Enabled {
		m.params["escape"] = cfg.Escape.Probability
	}
}

// settings turns the edited values into a config for the selected preset.
func (m *app) settings() (*config.Config, error) {
	cfg := config.GetPreset(m.selected)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	pops := int(m.params["populations"])
	step := int(m.params["step"])
	duration := int(m.params["duration"])
	seed := uint64(m.params["seed"])
	rate := m.params["spawn_rate"]
	season := m.params["season"] > 0
	escape := m.params["escape"] > 0
	o := config.Overrides{
		Populations: &pops,
		Step:        &step,
		Duration:    &duration,
		Seed:        &seed,
		SpawnRate:   &rate,
		Season:      &season,
		Escape:      &escape,
	}
	if season {
		coef := m.params["season"]
		o.SeasonCoefficient = &coef
	}
	if escape {
		prob := m.params["escape"]
		o.EscapeProbability = &prob
	}
	if err := cfg.Apply(o); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (m *app) start() tea.Cmd {
	cfg, err := m.settings()
	if err != nil {
		m.err = err
		return nil
	}
	simCfg, err := cfg.ToSim()
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.liveModel = NewModel(sim.NewDriver(sim.NewRand(cfg.Seed)), simCfg, m.selected, m.fps)
	m.liveModel.width, m.liveModel.height = m.width, m.height
	m.state = stateSim
	return m.liveModel.Init()
}

func (m app) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func keyHints(st styles, pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(st.key.Render(pairs[i]) + st.hint.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m app) viewMenu() string {
	theme := CurrentTheme
	st := stylesFor(theme)
	cursor := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	active := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(theme.Muted)

	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("POPSIM", theme.Primary, theme.Accent) + "\n    " + st.hint.Render("population dynamics simulator") + "\n    " + Separator(30, theme.Muted) + "\n\n")
	for i, name := range m.presets {
		desc := config.Presets[name].Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursor.Render("▸"), active.Render(fmt.Sprintf("%-14s", name)), lipgloss.NewStyle().Foreground(theme.Secondary).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", inactive.Render(fmt.Sprintf("  %-14s", name)), inactive.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyHints(st, "j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m app) viewConfig() string {
	theme := CurrentTheme
	st := stylesFor(theme)
	cursor := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	active := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(theme.Muted)

	var b strings.Builder
	desc := ""
	if p, ok := config.Presets[m.selected]; ok {
		desc = p.Description
	}
	b.WriteString("\n\n    " + st.header.Render(strings.ToUpper(m.selected)) + "\n    " + st.hint.Render(desc) + "\n\n")
	for i, name := range paramNames {
		valStr := fmt.Sprintf("%10g", m.params[name])
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s  %s\n", cursor.Render("▸"), active.Render(fmt.Sprintf("%-12s", name)), lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(valStr), st.hint.Render(paramHelp[name])))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", inactive.Render(fmt.Sprintf("  %-12s", name)), inactive.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + st.err.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints(st, "j/k", "select", "h/l", "adjust", "enter", "edit", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the preset picker, then the live view.
func RunInteractive(fps int) error {
	_, err := tea.NewProgram(NewInteractiveApp(fps), tea.WithAltScreen()).Run()
	return err
}
