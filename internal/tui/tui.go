// Package tui is the interactive dashboard: a habit list with streaks,
// reward balances, and same-day completion status, plus a one-key
// complete action.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/radicool/habitkeep/internal/daycache"
	"github.com/radicool/habitkeep/internal/models"
	"github.com/radicool/habitkeep/internal/prefs"
	"github.com/radicool/habitkeep/internal/tracker"
)

type keyMap struct {
	Complete key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Complete, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Complete, k.Refresh, k.Quit}}
}

var keys = keyMap{
	Complete: key.NewBinding(
		key.WithKeys("c", "enter"),
		key.WithHelp("c/enter", "complete"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// habitItem adapts a habit for the list component.
type habitItem struct {
	habit models.Habit
	today int
	max   int
}

func (i habitItem) Title() string {
	marker := " "
	if i.today >= i.max {
		marker = "✓"
	}
	return fmt.Sprintf("%s %s", marker, i.habit.Name)
}

func (i habitItem) Description() string {
	return fmt.Sprintf("streak %d · balance %.2f · today %d/%d · %s x%d",
		i.habit.Streak, i.habit.RewardBalance, i.today, i.max,
		i.habit.FrequencyType, i.habit.FrequencyCount)
}

func (i habitItem) FilterValue() string {
	return i.habit.Name
}

type Model struct {
	tracker *tracker.Tracker
	dataDir string
	styles  styles
	keys    keyMap
	help    help.Model
	list    list.Model
	status  string
	err     error
	width   int
	height  int
}

func NewModel(t *tracker.Tracker, settings prefs.Settings, dataDir string) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Habits"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)

	return Model{
		tracker: t,
		dataDir: dataDir,
		styles:  newStyles(settings),
		keys:    keys,
		help:    help.New(),
		list:    l,
	}
}

func (m Model) Init() tea.Cmd {
	return m.refresh
}

type refreshedMsg struct {
	items []list.Item
	err   error
}

type completedMsg struct {
	habit models.Habit
	err   error
}

func (m Model) refresh() tea.Msg {
	habits, err := m.tracker.GetAllHabits()
	if err != nil {
		return refreshedMsg{err: err}
	}
	cache, err := daycache.Load(m.dataDir)
	if err != nil {
		return refreshedMsg{err: err}
	}

	items := make([]list.Item, 0, len(habits))
	for _, h := range habits {
		items = append(items, habitItem{
			habit: h,
			today: cache.CountFor(h.ID),
			max:   daycache.MaxFor(h),
		})
	}
	return refreshedMsg{items: items}
}

func (m Model) complete(item habitItem) tea.Cmd {
	return func() tea.Msg {
		cache, err := daycache.Load(m.dataDir)
		if err != nil {
			return completedMsg{err: err}
		}
		if !cache.Allowed(item.habit) {
			return completedMsg{err: fmt.Errorf("%q already completed %d/%d times today",
				item.habit.Name, cache.CountFor(item.habit.ID), item.max)}
		}

		updated, err := m.tracker.CompleteHabit(item.habit.ID, nil, "")
		if err != nil {
			return completedMsg{err: err}
		}
		if err := cache.Increment(updated.ID); err != nil {
			return completedMsg{err: err}
		}
		return completedMsg{habit: updated}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		frameW, frameH := m.styles.doc.GetFrameSize()
		m.list.SetSize(msg.Width-frameW, msg.Height-frameH-4)
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.list.SetItems(msg.items)
		return m, nil

	case completedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Completed %q. Streak: %d, balance: %.2f",
			msg.habit.Name, msg.habit.Streak, msg.habit.RewardBalance)
		return m, m.refresh

	case tea.KeyMsg:
		// Don't intercept keys while the list filter input is active.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refresh
		case key.Matches(msg, m.keys.Complete):
			if item, ok := m.list.SelectedItem().(habitItem); ok {
				return m, m.complete(item)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := m.styles.title.Render("habitkeep")

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = "No habits yet. Add one with 'habitkeep habit add'."
	}

	footer := m.help.View(m.keys)
	if m.err != nil {
		footer = m.styles.danger.Render("Error: "+m.err.Error()) + "\n" + footer
	} else if m.status != "" {
		footer = m.styles.status.Render(m.status) + "\n" + footer
	}

	return m.styles.doc.Render(header + "\n\n" + body + "\n" + footer)
}

// Run launches the dashboard and blocks until the user quits.
func Run(t *tracker.Tracker, settings prefs.Settings, dataDir string) error {
	p := tea.NewProgram(NewModel(t, settings, dataDir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
