package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tuannvm/gobooks/internal/config"
	"github.com/tuannvm/gobooks/internal/search"
)

const appTitle = "gobooks"

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	accentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147")).MarginTop(1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("124")).Padding(0, 1)
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("235")).Padding(0, 1)
	searchStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
)

// App represents the main TUI application
type App struct {
	cfg      *config.Config
	ctrl     *search.Controller
	quitting bool

	// Sub-models
	input   textinput.Model
	spinner spinner.Model

	width, height int
	selected      int
	offset        int // first visible grid row
	lastApplied   uint64
	now           func() time.Time
}

// NewApp creates a new TUI application around ctrl.
func NewApp(cfg *config.Config, ctrl *search.Controller) *App {
	a := &App{
		cfg:    cfg,
		ctrl:   ctrl,
		width:  80,
		height: 24,
		now:    time.Now,
	}

	a.input = textinput.New()
	a.input.Placeholder = "Search for a book..."
	a.input.Focus()
	a.input.CharLimit = 200
	a.input.Width = 50
	a.input.Prompt = "⌕ "

	a.spinner = spinner.New()
	a.spinner.Spinner = spinner.Dot
	a.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return a
}

// Run starts the TUI application
func (a *App) Run(ctx context.Context) error {
	defer a.ctrl.Stop()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}
	return nil
}

// Init starts the initial search, the cursor blink and the spinner.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.spinner.Tick,
		a.ctrl.Init(),
	)
}

// Update handles updates
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(10, min(60, msg.Width-8))
		a.scrollToSelection()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if !a.ctrl.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// Cursor blinks and search results are both routed here.
	var inputCmd tea.Cmd
	a.input, inputCmd = a.input.Update(msg)

	cmd := a.ctrl.Update(msg)
	a.syncResults()
	return a, tea.Batch(inputCmd, a.withSpinner(cmd))
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		a.quitting = true
		a.ctrl.Stop()
		return a, tea.Quit

	case key.Matches(msg, keys.Enter):
		return a, a.withSpinner(a.ctrl.Submit())

	case key.Matches(msg, keys.Recommend):
		cmd := a.ctrl.RetryDefault()
		a.input.SetValue(a.ctrl.Query())
		return a, a.withSpinner(cmd)

	case key.Matches(msg, keys.Next):
		a.moveSelection(1)
		return a, nil
	case key.Matches(msg, keys.Prev):
		a.moveSelection(-1)
		return a, nil
	case key.Matches(msg, keys.Down):
		a.moveSelection(Columns(a.width))
		return a, nil
	case key.Matches(msg, keys.Up):
		a.moveSelection(-Columns(a.width))
		return a, nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() == before {
		return a, cmd
	}
	return a, tea.Batch(cmd, a.ctrl.SetQuery(a.input.Value()))
}

// withSpinner restarts the spinner when cmd started a request.
func (a *App) withSpinner(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	if a.ctrl.Loading() {
		return tea.Batch(cmd, a.spinner.Tick)
	}
	return cmd
}

// syncResults resets the selection whenever a new outcome was applied.
func (a *App) syncResults() {
	if a.ctrl.Applied() == a.lastApplied {
		return
	}
	a.lastApplied = a.ctrl.Applied()
	a.selected = 0
	a.offset = 0
}

func (a *App) moveSelection(delta int) {
	n := len(a.ctrl.Results())
	if n == 0 || a.ctrl.Loading() {
		return
	}
	a.selected = max(0, min(n-1, a.selected+delta))
	a.scrollToSelection()
}

func (a *App) visibleRows() int {
	// header, search box, section title and status/footer/help lines
	const chrome = 12
	return max(1, (a.height-chrome)/CardHeight)
}

func (a *App) scrollToSelection() {
	row := a.selected / Columns(a.width)
	visible := a.visibleRows()
	if row < a.offset {
		a.offset = row
	}
	if row >= a.offset+visible {
		a.offset = row - visible + 1
	}
}

// View renders the TUI
func (a *App) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Find ") + accentStyle.Render("Books") + headerStyle.Render(" That You'll Enjoy"))
	b.WriteString("\n")
	b.WriteString(searchStyle.Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(a.sectionTitle()))
	b.WriteString("\n\n")
	b.WriteString(a.body())
	b.WriteString("\n\n")
	if status := a.statusLine(); status != "" {
		b.WriteString(statusStyle.Render(status))
		b.WriteString("\n")
	}
	b.WriteString(a.footer())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(a.helpLine()))
	return b.String()
}

func (a *App) sectionTitle() string {
	if q := strings.TrimSpace(a.ctrl.Query()); q != "" {
		return fmt.Sprintf("Results for %q", q)
	}
	return fmt.Sprintf("Top %d Books:", a.cfg.MaxResults)
}

// body renders exactly one of: spinner, error, empty state, result grid.
func (a *App) body() string {
	st := a.ctrl.State()
	switch st.Status {
	case search.Loading:
		return fmt.Sprintf("  %s Searching...", a.spinner.View())
	case search.Failed:
		return errorStyle.Render("Error: " + st.Message())
	case search.Succeeded:
		items := a.ctrl.Results()
		if len(items) == 0 {
			return emptyStyle.Render("No books found. Try a different search!") + "\n" +
				statusStyle.Render("Press ctrl+r for recommended books.")
		}
		rows := GridRows(items, a.width, a.selected)
		end := min(len(rows), a.offset+a.visibleRows())
		return strings.Join(rows[a.offset:end], "\n")
	default:
		return ""
	}
}

func (a *App) statusLine() string {
	items := a.ctrl.Results()
	if a.ctrl.Loading() || len(items) == 0 || a.selected >= len(items) {
		return ""
	}
	v := items[a.selected]
	return fmt.Sprintf("%d/%d  %s  %s", a.selected+1, len(items), v.DisplayTitle(), v.Link())
}

func (a *App) footer() string {
	left := fmt.Sprintf("%s · %d", appTitle, a.now().Year())
	right := "Powered by Google Books"
	if a.ctrl.State().Status == search.Succeeded {
		right = fmt.Sprintf("%d results · %s", a.ctrl.Total(), right)
	}
	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return footerStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func (a *App) helpLine() string {
	return "enter: search now • tab/shift+tab/↑/↓: select • ctrl+r: recommended • esc: quit"
}

// keys defines the key bindings for the application
var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "search now"),
	),
	Recommend: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "recommended books"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next book"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous book"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "row up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "row down"),
	),
}

type keyMap struct {
	Quit      key.Binding
	Enter     key.Binding
	Recommend key.Binding
	Next      key.Binding
	Prev      key.Binding
	Up        key.Binding
	Down      key.Binding
}
