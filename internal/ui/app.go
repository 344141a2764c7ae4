package ui

import (
	"io"
	"strings"
	"time"

	"github.com/abelbrown/briefing/internal/controller"
	"github.com/abelbrown/briefing/internal/model"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// AppConfig wires the App to the outside world. Every side effect is a
// func returning a tea.Cmd so tests can substitute them.
type AppConfig struct {
	Controller *controller.Controller

	LoadFeed func() tea.Cmd
	OpenURL  func(url string) tea.Cmd
	CopyURL  func(url string) tea.Cmd

	Now    func() time.Time
	Logger *log.Logger
}

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT hold the store. Bookmark persistence happens
// inside the Controller, which App mutates only from Update.
type App struct {
	ctrl     *controller.Controller
	loadFeed func() tea.Cmd
	openURL  func(url string) tea.Cmd
	copyURL  func(url string) tea.Cmd
	now      func() time.Time
	log      *log.Logger

	spinner spinner.Model
	cursor  int
	status  string
	width   int
	height  int
}

// NewApp creates an App. A nil Controller gets an in-memory one.
func NewApp(cfg AppConfig) App {
	ctrl := cfg.Controller
	if ctrl == nil {
		ctrl = controller.New(nil)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	return App{
		ctrl:     ctrl,
		loadFeed: cfg.LoadFeed,
		openURL:  cfg.OpenURL,
		copyURL:  cfg.CopyURL,
		now:      now,
		log:      logger.WithPrefix("ui"),
		spinner:  s,
		width:    80,
		height:   24,
	}
}

// Init starts the first load.
func (a App) Init() tea.Cmd {
	return a.refresh()
}

// refresh marks a load in flight and returns the command that performs it.
// Overlapping refreshes are not debounced.
func (a App) refresh() tea.Cmd {
	if a.loadFeed == nil {
		return nil
	}
	a.ctrl.BeginLoad()
	return tea.Batch(a.loadFeed(), a.spinner.Tick)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case FeedLoaded:
		a.ctrl.FinishLoad(msg.Snapshot, msg.Err)
		a.clampCursor()
		return a, nil

	case LinkOpened:
		if msg.Err != nil {
			a.log.Warn("open link failed", "url", msg.URL, "err", msg.Err)
			return a, nil
		}
		a.status = "opened in browser"
		return a, nil

	case LinkCopied:
		if msg.Err != nil {
			a.log.Warn("copy link failed", "url", msg.URL, "err", msg.Err)
			return a, nil
		}
		a.status = "link copied"
		return a, nil

	case spinner.TickMsg:
		if !a.ctrl.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.status = ""

	items := a.ctrl.Visible()
	targets := buildTargets(items, a.ctrl)
	var focused *target
	if a.cursor >= 0 && a.cursor < len(targets) {
		focused = &targets[a.cursor]
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Down):
		if a.cursor < len(targets)-1 {
			a.cursor++
		}
		return a, nil

	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(msg, keys.Top):
		a.cursor = 0
		return a, nil

	case key.Matches(msg, keys.Bottom):
		if len(targets) > 0 {
			a.cursor = len(targets) - 1
		}
		return a, nil

	case key.Matches(msg, keys.Enter):
		if focused == nil {
			return a, nil
		}
		switch focused.kind {
		case targetCard:
			a.ctrl.ToggleCardExpansion(items[focused.item].ID)
		case targetMore:
			a.toggleHighlights(items, *focused)
		case targetHighlight:
			return a, a.open(targetURL(items, *focused))
		}
		return a, nil

	case key.Matches(msg, keys.Bookmark):
		if focused == nil {
			return a, nil
		}
		if id := targetID(items, *focused); id != "" {
			a.ctrl.ToggleBookmark(id)
			if a.ctrl.Filter() == controller.FilterSaved {
				a.clampCursor()
			}
		}
		return a, nil

	case key.Matches(msg, keys.Open):
		if focused == nil {
			return a, nil
		}
		return a, a.open(targetURL(items, *focused))

	case key.Matches(msg, keys.Copy):
		if focused == nil {
			return a, nil
		}
		if url := targetURL(items, *focused); url != "" && a.copyURL != nil {
			return a, a.copyURL(url)
		}
		return a, nil

	case key.Matches(msg, keys.More):
		if focused != nil && len(items[focused.item].Children) > 0 {
			a.toggleHighlights(items, *focused)
		}
		return a, nil

	case key.Matches(msg, keys.Refresh):
		return a, a.refresh()

	case key.Matches(msg, keys.NextFilter):
		a.setFilter(a.filterIndex() + 1)
		return a, nil

	case key.Matches(msg, keys.PrevFilter):
		a.setFilter(a.filterIndex() - 1)
		return a, nil
	}

	for i, b := range keys.Filter {
		if key.Matches(msg, b) {
			a.setFilter(i)
			return a, nil
		}
	}
	return a, nil
}

// toggleHighlights flips highlight expansion for the card t belongs to.
// When collapsing strands the cursor on a hidden row, it moves to the toggle.
func (a *App) toggleHighlights(items []model.Item, t target) {
	id := items[t.item].ID
	a.ctrl.ToggleHighlightExpansion(id)
	for i, nt := range buildTargets(items, a.ctrl) {
		if nt.item == t.item && nt.kind == targetMore {
			if t.kind == targetMore || (t.kind == targetHighlight && t.child >= a.ctrl.HighlightLimit() && !a.ctrl.HighlightsExpanded(id)) {
				a.cursor = i
			}
			return
		}
	}
}

func (a *App) open(url string) tea.Cmd {
	if url == "" || a.openURL == nil {
		return nil
	}
	return a.openURL(url)
}

func (a App) filterIndex() int {
	for i, f := range controller.Filters {
		if f == a.ctrl.Filter() {
			return i
		}
	}
	return 0
}

// setFilter selects Filters[i], wrapping around, and resets the cursor.
func (a *App) setFilter(i int) {
	n := len(controller.Filters)
	a.ctrl.SetFilter(controller.Filters[((i%n)+n)%n])
	a.cursor = 0
}

func (a *App) clampCursor() {
	n := len(buildTargets(a.ctrl.Visible(), a.ctrl))
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// View renders the UI.
func (a App) View() string {
	now := a.now()
	snap := a.ctrl.Snapshot()

	lastUpdated := ""
	if snap != nil {
		lastUpdated = snap.LastUpdated
	}
	header := RenderHeader(a.ctrl.Stats(), lastUpdated, a.width, now)
	tabs := RenderTabs(a.ctrl.Filter())

	status := a.status
	if a.ctrl.Loading() && snap != nil {
		status = a.spinner.View() + " refreshing"
	}
	statusBar := RenderStatusBar(status, a.width)

	// header + tabs + blank line + status bar
	contentHeight := a.height - 4
	if contentHeight < 1 {
		contentHeight = 1
	}

	var body string
	items := a.ctrl.Visible()
	switch {
	case a.ctrl.Loading() && snap == nil:
		body = HelpStyle.Render(a.spinner.View() + " Loading feed…")
	case len(items) == 0:
		body = HelpStyle.Render("No content found")
	default:
		targets := buildTargets(items, a.ctrl)
		l := renderCards(items, targets, a.cursor, a.ctrl, a.width, now)
		body = strings.Join(window(l, a.cursor, contentHeight), "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		tabs,
		"",
		lipgloss.PlaceVertical(contentHeight, lipgloss.Top, body),
		statusBar,
	)
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Controller returns the controller the App drives (for testing).
func (a App) Controller() *controller.Controller {
	return a.ctrl
}
