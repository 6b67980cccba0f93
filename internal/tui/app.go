// Package tui provides the interactive Bubble Tea dashboard for cadence.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cadence/internal/api"
	"cadence/internal/budget"
	"cadence/internal/config"
	"cadence/internal/model"
	"cadence/internal/store"
	"cadence/internal/tui/components"
	"cadence/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// dashData is the assembled budget state every tab renders from.
type dashData struct {
	incomes   []model.Income
	expenses  []model.Expense
	ratio     model.Ratio
	result    model.CycleResult
	allocs    []model.Allocation
	fetchedAt time.Time
	fromCache bool
}

// DashLoadedMsg is sent when the budget fetch finishes.
type DashLoadedMsg struct {
	Data *dashData
	Err  error
}

// ActionDoneMsg is sent when a mutation (add, delete, promote) completes.
type ActionDoneMsg struct {
	Status string
	Err    error
}

type formKind int

const (
	formNone formKind = iota
	formAddIncome
	formAddExpense
	formRatio
)

// App is the root Bubble Tea model.
type App struct {
	client *api.Client
	cache  *store.Cache
	cfg    config.Config

	data    *dashData
	loaded  bool
	loadErr error

	refreshing bool
	status     string

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	incomeCursor  int
	expenseCursor int

	// Modal form state
	form        *huh.Form
	formKind    formKind
	incomeVals  incomeFormValues
	expenseVals expenseFormValues
	ratioVals   ratioFormValues

	spinner spinner.Model
}

const (
	minTerminalWidth = 70
	compactWidth     = 110
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(client *api.Client, cache *store.Cache, cfg config.Config) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		client:  client,
		cache:   cache,
		cfg:     cfg,
		spinner: sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDashCmd(a.client, a.cache),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.form != nil {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
			return a, nil
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
			return a, nil
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)

	case DashLoadedMsg:
		a.loaded = true
		a.refreshing = false
		a.loadErr = msg.Err
		if msg.Data != nil {
			a.data = msg.Data
			a.clampCursors()
		}
		return a, nil

	case ActionDoneMsg:
		if msg.Err != nil {
			a.status = msg.Err.Error()
			return a, nil
		}
		a.status = msg.Status
		a.refreshing = true
		return a, loadDashCmd(a.client, a.cache)

	case spinner.TickMsg:
		if !a.loaded || a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}

	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		return a, nil
	}

	// Active form intercepts all keys
	if a.form != nil {
		return a.updateForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit

	case "r":
		if !a.refreshing {
			a.refreshing = true
			a.status = ""
			return a, tea.Batch(loadDashCmd(a.client, a.cache), a.spinner.Tick)
		}
		return a, nil

	case "j", "down":
		a.moveCursor(1)
		return a, nil
	case "k", "up":
		a.moveCursor(-1)
		return a, nil

	case "a":
		switch a.activeTab {
		case tabIncomes:
			return a.openIncomeForm()
		case tabExpenses:
			return a.openExpenseForm()
		}
		return a, nil

	case "m":
		if a.activeTab == tabIncomes {
			if inc, ok := a.selectedIncome(); ok && !inc.IsMain {
				return a, setMainCmd(a.client, inc.ID)
			}
		}
		return a, nil

	case "d":
		switch a.activeTab {
		case tabIncomes:
			if inc, ok := a.selectedIncome(); ok {
				return a, deleteIncomeCmd(a.client, inc.ID)
			}
		case tabExpenses:
			if e, ok := a.selectedExpense(); ok {
				return a, deleteExpenseCmd(a.client, e.ID)
			}
		}
		return a, nil

	case "enter":
		if a.activeTab == tabSettings {
			return a.openRatioForm()
		}
		return a, nil

	case "o":
		a.activeTab = tabOverview
	case "i":
		a.activeTab = tabIncomes
	case "e":
		a.activeTab = tabExpenses
	case "x":
		a.activeTab = tabSettings
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	}
	return a, nil
}

const (
	tabOverview = iota
	tabIncomes
	tabExpenses
	tabSettings
)

func (a *App) moveCursor(delta int) {
	if a.data == nil {
		return
	}
	switch a.activeTab {
	case tabIncomes:
		a.incomeCursor = clamp(a.incomeCursor+delta, 0, len(a.data.incomes)-1)
	case tabExpenses:
		a.expenseCursor = clamp(a.expenseCursor+delta, 0, len(a.data.expenses)-1)
	}
}

func (a *App) clampCursors() {
	a.incomeCursor = clamp(a.incomeCursor, 0, len(a.data.incomes)-1)
	a.expenseCursor = clamp(a.expenseCursor, 0, len(a.data.expenses)-1)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (a App) selectedIncome() (model.Income, bool) {
	if a.data == nil || len(a.data.incomes) == 0 {
		return model.Income{}, false
	}
	return a.data.incomes[a.incomeCursor], true
}

func (a App) selectedExpense() (model.Expense, bool) {
	if a.data == nil || len(a.data.expenses) == 0 {
		return model.Expense{}, false
	}
	return a.data.expenses[a.expenseCursor], true
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.form != nil {
		return a.form.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cadence needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ cadence"))
	b.WriteString(subtitleStyle.Render(" · Budget Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Fetching your budget..."))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	navBindings := []struct{ key, desc string }{
		{"o i e x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Navigate lists"},
	}
	for _, bind := range navBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Actions"))
	b.WriteString("\n")
	actionBindings := []struct{ key, desc string }{
		{"a", "Add income / expense"},
		{"m", "Make selected income main"},
		{"d", "Delete selected item"},
		{"Enter", "Adjust split (Settings)"},
		{"r", "Refresh data"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range actionBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	fetchedAgo := ""
	offline := false
	if a.data != nil {
		fetchedAgo = shortAgo(time.Since(a.data.fetchedAt))
		offline = a.data.fromCache
	}
	statusBar := components.RenderStatusBar(w, fetchedAgo, offline, a.refreshing)

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch {
	case a.loadErr != nil && a.data == nil:
		content = a.renderLoadError()
	default:
		switch a.activeTab {
		case tabOverview:
			content = a.renderOverviewTab(cw)
		case tabIncomes:
			content = a.renderIncomesTab(cw)
		case tabExpenses:
			content = a.renderExpensesTab(cw)
		case tabSettings:
			content = a.renderSettingsTab(cw)
		}
	}

	if a.status != "" {
		statusStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Background)
		content = statusStyle.Render(" "+a.status) + "\n" + content
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderLoadError() string {
	t := theme.Active
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Background)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)

	return "\n" + errStyle.Render("  "+a.loadErr.Error()) + "\n\n" +
		hintStyle.Render("  Press r to retry or q to quit.")
}

// ─── Commands ───────────────────────────────────────────────────

// loadDashCmd fetches the budget from the data service, refreshing the
// local snapshot on success and falling back to it when unreachable.
func loadDashCmd(client *api.Client, cache *store.Cache) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		data, err := fetchDash(ctx, client)
		if err == nil {
			_ = cache.SaveSnapshot(store.Snapshot{
				Incomes:   data.incomes,
				Expenses:  data.expenses,
				Ratio:     data.ratio,
				FetchedAt: data.fetchedAt,
			})
			return DashLoadedMsg{Data: data}
		}

		// Fallback: local snapshot
		snap, serr := cache.LoadSnapshot()
		if serr != nil || snap == nil {
			return DashLoadedMsg{Err: err}
		}
		return DashLoadedMsg{Data: dashFromSnapshot(snap)}
	}
}

func fetchDash(ctx context.Context, client *api.Client) (*dashData, error) {
	incomes, err := client.ListIncomes(ctx)
	if err != nil {
		return nil, err
	}

	res, err := budget.Resolve(incomes, time.Now())
	if err != nil {
		return nil, err
	}

	ratio, err := client.GetRatio(ctx)
	if err != nil {
		return nil, err
	}

	data := &dashData{
		incomes:   incomes,
		ratio:     ratio,
		result:    res,
		fetchedAt: time.Now(),
	}

	if res.HasMain() {
		expenses, err := client.ListExpenses(ctx, res.Cycle.Start, res.Cycle.End)
		if err != nil {
			return nil, err
		}
		data.expenses = expenses
		data.allocs = budget.Aggregate(*res.Cycle, ratio, expenses)
	}

	return data, nil
}

func dashFromSnapshot(snap *store.Snapshot) *dashData {
	data := &dashData{
		incomes:   snap.Incomes,
		ratio:     snap.Ratio,
		fetchedAt: snap.FetchedAt,
		fromCache: true,
	}

	res, err := budget.Resolve(snap.Incomes, time.Now())
	if err != nil {
		return data
	}
	data.result = res

	if res.HasMain() {
		w := budget.Window{Start: res.Cycle.Start, End: res.Cycle.End}
		for _, e := range snap.Expenses {
			if budget.InCycle(e, w) {
				data.expenses = append(data.expenses, e)
			}
		}
		data.allocs = budget.Aggregate(*res.Cycle, snap.Ratio, data.expenses)
	}

	return data
}

func setMainCmd(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := client.SetMainIncome(ctx, id); err != nil {
			return ActionDoneMsg{Err: err}
		}
		return ActionDoneMsg{Status: "Main income updated"}
	}
}

func deleteIncomeCmd(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := client.DeleteIncome(ctx, id); err != nil {
			return ActionDoneMsg{Err: err}
		}
		return ActionDoneMsg{Status: "Income removed"}
	}
}

func deleteExpenseCmd(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := client.DeleteExpense(ctx, id); err != nil {
			return ActionDoneMsg{Err: err}
		}
		return ActionDoneMsg{Status: "Expense removed"}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func shortAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
// This ensures gaps between cards and empty lines have proper background fill.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 1 // leading space before the first tab
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Two-column separator between tabs.
		if i < len(components.Tabs)-1 {
			pos += 2
		}
	}
	return -1
}
