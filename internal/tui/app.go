package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reelkithq/reelkit/internal/notify"
	"github.com/reelkithq/reelkit/pkg/client"
	"github.com/reelkithq/reelkit/pkg/poller"
)

type view int

const (
	viewAds view = iota
	viewCreate
)

// pollerEventMsg bridges the poller's event channel into the Bubbletea loop.
// ok is false once the channel is closed.
type pollerEventMsg struct {
	ev poller.Event
	ok bool
}

// waitForPollerEvent blocks on the next poller event. The command is
// re-issued after every received event so the stream keeps flowing.
func waitForPollerEvent(ch <-chan poller.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return pollerEventMsg{ev: ev, ok: ok}
	}
}

type spinTickMsg time.Time

func spinTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return spinTickMsg(t)
	})
}

// App is the root Bubbletea model.
type App struct {
	client   *client.Client
	poller   *poller.Poller
	notifier *notify.Notifier

	view     view
	projects projectsModel
	create   createModel
	width    int
	height   int
}

// NewApp creates the TUI application. The caller owns the poller and closes
// it after the program exits.
func NewApp(c *client.Client, p *poller.Poller, n *notify.Notifier) App {
	return App{
		client:   c,
		poller:   p,
		notifier: n,
		projects: newProjectsModel(c, p),
		create:   newCreateModel(c),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.projects.Init(), waitForPollerEvent(a.poller.Events()), spinTickCmd())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(1) + tabs(1) + help(1) = 3 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 3}
		a.projects, _ = a.projects.Update(bodyMsg)
		a.create, _ = a.create.Update(bodyMsg)
		return a, nil

	case spinTickMsg:
		a.projects.frame++
		return a, spinTickCmd()

	case pollerEventMsg:
		if !msg.ok {
			return a, nil
		}
		switch msg.ev.Kind {
		case poller.EventSnapshot:
			a.projects.setSnapshot(msg.ev.Projects)
		case poller.EventCompleted:
			a.notifier.RendersFinished(msg.ev.Completed)
			if msg.ev.Completed == 1 {
				a.projects.statusMsg = "a render just finished"
			} else {
				a.projects.statusMsg = fmt.Sprintf("%d renders just finished", msg.ev.Completed)
			}
		case poller.EventLoadFailed:
			a.projects.loading = false
			a.projects.loadErr = msg.ev.Err
		case poller.EventExpired:
			// The ads header reads poller.Expired() directly.
		}
		return a, waitForPollerEvent(a.poller.Events())

	case projectCreatedMsg:
		var cmd tea.Cmd
		a.create, cmd = a.create.Update(msg)
		if msg.err == nil {
			a.view = viewAds
			a.projects.statusMsg = "ad submitted — rendering"
			return a, tea.Batch(cmd, a.projects.refresh())
		}
		return a, cmd

	case tea.KeyMsg:
		if !a.isEditing() {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.view = viewAds
				return a, nil
			case "2", "n":
				if a.view != viewCreate {
					a.view = viewCreate
					return a, a.create.Init()
				}
				return a, nil
			}
		}
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if msg.String() == "esc" && a.view == viewCreate {
			a.view = viewAds
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewAds:
		a.projects, cmd = a.projects.Update(msg)
	case viewCreate:
		a.create, cmd = a.create.Update(msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewCreate:
		return true
	case viewAds:
		// The delete prompt must receive y/n/esc, not the global bindings.
		return a.projects.renaming || a.projects.confirmDelete
	}
	return false
}

func (a App) View() string {
	header := " " + logoStyle.Render("R E E L K I T")

	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Ads", viewAds},
		{"2", "New Ad", viewCreate},
	}

	colWidth := a.width / len(tabs)
	if colWidth < 10 {
		colWidth = 10
	}
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	var body string
	var help string
	switch a.view {
	case viewAds:
		body = a.projects.View()
		switch {
		case a.projects.renaming:
			help = " " + helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
		case a.projects.detail:
			help = " " + helpEntry("c", "copy url") + "  " + helpEntry("o", "open") + "  " + helpEntry("e", "rename") + "  " + helpEntry("d", "delete") + "  " + helpEntry("esc", "back")
		default:
			help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "detail") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("n", "new ad") + "  " + helpEntry("q", "quit")
		}
	case viewCreate:
		body = a.create.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("h/l", "pick") + "  " + helpEntry("ctrl+s", "submit") + "  " + helpEntry("esc", "cancel")
	}

	body = strings.TrimRight(truncateToHeight(body, a.height-3), "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar.String(), body, help)
}
