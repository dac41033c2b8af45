package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-avalanche/internal/registry"
	"github.com/vovakirdan/tui-avalanche/internal/storage"
)

// Records layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show scenario sidebar
	sidebarWidth       = 20  // Width of scenario sidebar
	maxRecords         = 100 // Max runs to load
)

// RecordsKeyMap defines the key bindings for the records screen.
type RecordsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Mode     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RecordsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Mode, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k RecordsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Mode, k.Back, k.Quit},
	}
}

// DefaultRecordsKeyMap returns default key bindings.
func DefaultRecordsKeyMap() RecordsKeyMap {
	return RecordsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next scenario"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev scenario"),
		),
		Mode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "best/recent"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RecordsModel is the Bubble Tea model for the records screen.
type RecordsModel struct {
	games       []registry.GameInfo
	gameCursor  int
	store       *storage.Store
	runs        []storage.RunRecord
	stats       *storage.ScenarioStats
	recent      bool // Show latest runs instead of best rescues
	table       table.Model
	help        help.Model
	keys        RecordsKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool
}

// NewRecordsModel creates a new records model.
func NewRecordsModel(store *storage.Store, width, height int) RecordsModel {
	h := help.New()
	h.ShowAll = false

	m := RecordsModel{
		games:       registry.List(),
		store:       store,
		keys:        DefaultRecordsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized for the current window.
func (m *RecordsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Result", Width: 14},
		{Title: "Score", Width: 7},
		{Title: "Time", Width: 6},
		{Title: "Probes", Width: 6},
		{Title: "Diff", Width: 6},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for header, stats and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("24")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads runs and stats for the selected scenario.
func (m *RecordsModel) load() {
	m.runs, m.stats = nil, nil
	if m.store != nil && len(m.games) > 0 {
		id := m.games[m.gameCursor].ID
		var err error
		if m.recent {
			m.runs, err = m.store.RecentRuns(id, maxRecords)
		} else {
			m.runs, err = m.store.BestRuns(id, maxRecords)
		}
		if err != nil {
			m.runs = nil
		}
		if st, err := m.store.Stats(id); err == nil {
			m.stats = st
		}
	}
	m.table.SetRows(recordRows(m.runs))
	m.table.GotoTop()
}

func recordRows(runs []storage.RunRecord) []table.Row {
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		result := "rescued"
		if !r.Won() {
			result = "lost (" + strings.ToLower(r.Reason) + ")"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			result,
			fmt.Sprintf("%d", r.Score),
			clock(r.Elapsed),
			fmt.Sprintf("%d", r.ProbesUsed),
			r.Difficulty,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

// Init initializes the records model.
func (m RecordsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the records screen.
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + len(m.games) - 1) % len(m.games)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.Mode):
			m.recent = !m.recent
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.table.SetRows(recordRows(m.runs))
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass the rest to the table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	recordsTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).MarginBottom(1)
	recordsBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	recordsDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the records screen.
func (m RecordsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	mode := "BEST RESCUES"
	if m.recent {
		mode = "RECENT RUNS"
	}
	title := mode
	if len(m.games) > 0 {
		title = fmt.Sprintf("%s - %s", mode, m.games[m.gameCursor].Title)
	}
	b.WriteString(recordsTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.statsLine(), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", recordsBoxStyle.Render(m.renderTableContent())))
	} else {
		b.WriteString(centerText(m.renderTabs(), m.width))
		b.WriteString("\n\n")
		b.WriteString(recordsBoxStyle.Render(m.renderTableContent()))
	}

	b.WriteString("\n")
	b.WriteString(recordsDimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes every run of the selected scenario.
func (m RecordsModel) statsLine() string {
	st := m.stats
	if st == nil || st.Runs == 0 {
		return "No runs yet"
	}
	avg := "--"
	if st.Wins > 0 {
		avg = clock(st.AvgWinTime)
	}
	return fmt.Sprintf("Runs %d  Rescued %d (%.0f%%)  Buried %d  Out of time %d  Best %d  Avg rescue %s",
		st.Runs, st.Wins, st.WinRate()*100, st.DangerLosses, st.TimerLosses, st.HighScore, avg)
}

func (m RecordsModel) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString("Scenarios\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	for i, g := range m.games {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.gameCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		name := g.Title
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sb.WriteString(style.Render(cursor + name))
		sb.WriteString("\n")
	}

	return recordsBoxStyle.Width(sidebarWidth).Render(sb.String())
}

func (m RecordsModel) renderTabs() string {
	if len(m.games) == 0 {
		return ""
	}
	return fmt.Sprintf("< %s >", m.games[m.gameCursor].Title)
}

// renderTableContent renders the table or empty message.
func (m RecordsModel) renderTableContent() string {
	if len(m.runs) == 0 {
		empty := "No rescues recorded yet.\nBring someone home to set a record!"
		if m.recent {
			empty = "No runs recorded yet."
		}
		return recordsDimStyle.Italic(true).Padding(2, 4).Render(empty)
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m RecordsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m RecordsModel) IsQuitting() bool {
	return m.quitting
}

// RunRecords runs the records screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunRecords(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewRecordsModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(RecordsModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}

// clock formats seconds as m:ss.
func clock(sec float64) string {
	s := max(int(sec), 0)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
