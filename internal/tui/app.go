package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/reactorsim/internal/chart"
	"github.com/san-kum/reactorsim/internal/config"
	"github.com/san-kum/reactorsim/internal/experiment"
	"github.com/san-kum/reactorsim/internal/reactor"
	"github.com/san-kum/reactorsim/internal/slots"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// reactorStyles colour the three reactors like the chart does.
var reactorStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
}

type state int

const (
	stateMenu state = iota
	stateResult
)

// entry is one selectable line of the menu: a save slot or a preset.
type entry struct {
	label  string
	desc   string
	params reactor.Params
	ok     bool
}

type slotsLoadedMsg struct {
	list []slots.Slot
	err  error
}

type runDoneMsg struct {
	out *experiment.Outcome
	err error
}

type model struct {
	ctx    context.Context
	repo   slots.Repository
	runner *experiment.Experiment

	state   state
	cursor  int
	entries []entry
	loading bool
	running bool
	err     error
	outcome *experiment.Outcome

	width  int
	height int
}

func NewApp(ctx context.Context, repo slots.Repository, runner *experiment.Experiment) *model {
	return &model{
		ctx:     ctx,
		repo:    repo,
		runner:  runner,
		state:   stateMenu,
		entries: menuEntries(nil),
		loading: true,
		width:   80,
		height:  24,
	}
}

func menuEntries(list []slots.Slot) []entry {
	entries := make([]entry, 0, slots.NumSlots+len(config.Presets))
	byIndex := make(map[int]slots.Slot, len(list))
	for _, s := range list {
		byIndex[s.Index] = s
	}
	for i := 1; i <= slots.NumSlots; i++ {
		e := entry{label: fmt.Sprintf("slot %d", i), desc: "empty"}
		if s, ok := byIndex[i]; ok && s.Filled {
			e.ok = true
			e.params = s.Params
			e.desc = fmt.Sprintf("saved %s", s.SavedAt.Format("2006-01-02 15:04"))
			if s.SavedAt.IsZero() {
				e.desc = "saved"
			}
		}
		entries = append(entries, e)
	}
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name).Params()
		entries = append(entries, entry{label: name, desc: "preset", params: p, ok: p.Validate() == nil})
	}
	return entries
}

func (m model) Init() tea.Cmd { return m.loadSlots() }

func (m model) loadSlots() tea.Cmd {
	return func() tea.Msg {
		list, err := m.repo.List(m.ctx)
		return slotsLoadedMsg{list: list, err: err}
	}
}

func (m model) run(e entry) tea.Cmd {
	return func() tea.Msg {
		out, err := m.runner.Run(m.ctx, e.label, e.params)
		return runDoneMsg{out: out, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case slotsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.entries = menuEntries(msg.list)
		}
	case runDoneMsg:
		m.running = false
		m.err = msg.err
		m.outcome = msg.out
		if msg.err == nil {
			m.state = stateResult
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateResult:
		return m.resultKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "r":
		m.loading = true
		return m, m.loadSlots()
	case "enter", " ":
		e := m.entries[m.cursor]
		if !e.ok || m.running {
			return m, nil
		}
		m.running = true
		m.err = nil
		return m, m.run(e)
	}
	return m, nil
}

func (m model) resultKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.state = stateMenu
		m.outcome = nil
		return m, tea.ClearScreen
	}
	return m, nil
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateResult:
		return m.viewResult()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + cyan.Render("r e a c t o r s i m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, e := range m.entries {
		if i == slots.NumSlots {
			b.WriteString("\n")
		}
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", e.label)) + dim.Render(e.desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", e.label)) + dimmer.Render(e.desc) + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.loading:
		b.WriteString(dim.Render("      loading slots...") + "\n")
	case m.running:
		b.WriteString(dim.Render("      running...") + "\n")
	case m.err != nil:
		b.WriteString("      " + red.Render(m.err.Error()) + "\n")
	}
	b.WriteString(dim.Render("      ↑↓ select   enter run   r reload   q quit") + "\n")

	return b.String()
}

func (m model) viewResult() string {
	out := m.outcome
	if out == nil || out.Series.Len() == 0 {
		return ""
	}
	ts := out.Series
	last := ts.Len() - 1

	var b strings.Builder
	b.WriteString("\n   " + cyan.Render(out.Name) + "  " +
		dim.Render(fmt.Sprintf("%d samples  dt=%g  t_final=%g  scale=%.4g", ts.Len(), out.Params.DeltaT, out.Params.TFinal, out.Scale)) + "\n\n")

	width := m.width - 20
	if width < 20 {
		width = 20
	}
	height := m.height - 14
	if height < 5 {
		height = 5
	}
	b.WriteString(chart.Plot(ts, chart.Height(height), chart.Width(width), chart.Span(out.Params.TFinal)) + "\n\n")

	for r, series := range ts.Reactors() {
		style := reactorStyles[r]
		b.WriteString(fmt.Sprintf("   %s %s %s\n",
			style.Render(chart.Legends[r]),
			style.Render(sparkline(series, 24)),
			white.Render(fmt.Sprintf("%.4f", series[last]))))
	}

	b.WriteString("\n" + dim.Render("   esc back   q quit") + "\n")
	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := reactor.Min(data), reactor.Max(data)
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step] - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

func RunInteractive(ctx context.Context, repo slots.Repository, runner *experiment.Experiment) error {
	p := tea.NewProgram(NewApp(ctx, repo, runner), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
