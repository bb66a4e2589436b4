package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reelkithq/reelkit/internal/browser"
	"github.com/reelkithq/reelkit/pkg/client"
	"github.com/reelkithq/reelkit/pkg/domain"
	"github.com/reelkithq/reelkit/pkg/poller"
)

// refreshDoneMsg reports the outcome of a user-driven refresh. The fresh
// project list itself arrives through the poller's event stream.
type refreshDoneMsg struct{ err error }

type copyResultMsg struct{ err error }
type openResultMsg struct{ err error }
type deleteResultMsg struct{ err error }
type renameResultMsg struct{ err error }

type projectsModel struct {
	client *client.Client
	poller *poller.Poller

	projects      []domain.Project
	cursor        int
	detail        bool
	renaming      bool
	renameText    string
	confirmDelete bool

	loading   bool
	loadErr   error  // persistent banner until the next successful load
	statusMsg string // transient toast, cleared on the next keypress

	width  int
	height int
	frame  int
}

func newProjectsModel(c *client.Client, p *poller.Poller) projectsModel {
	return projectsModel{
		client:  c,
		poller:  p,
		loading: true,
	}
}

func (m projectsModel) refresh() tea.Cmd {
	p := m.poller
	return func() tea.Msg {
		_, err := p.Refresh(context.Background())
		return refreshDoneMsg{err: err}
	}
}

func (m projectsModel) Init() tea.Cmd {
	// A primed poller already holds a snapshot (and its event is queued), so
	// fetching again would just double the first paint.
	if m.poller.Loaded() {
		return nil
	}
	return m.refresh()
}

// setSnapshot replaces the displayed list with a fresh one. The list is
// always replaced wholesale; a project that disappeared server-side
// disappears here too.
func (m *projectsModel) setSnapshot(projects []domain.Project) {
	m.projects = projects
	m.loading = false
	m.loadErr = nil
	if m.cursor >= len(m.projects) {
		m.cursor = 0
		m.detail = false
	}
}

func (m projectsModel) selected() *domain.Project {
	if m.cursor < len(m.projects) {
		return &m.projects[m.cursor]
	}
	return nil
}

func (m projectsModel) Update(msg tea.Msg) (projectsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
		}
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "copied!"
		}
		return m, nil

	case openResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("open failed: %v", msg.err)
		}
		return m, nil

	case deleteResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("delete failed: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "deleted"
		m.detail = false
		m.loading = true
		return m, m.refresh()

	case renameResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("rename failed: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "renamed"
		m.loading = true
		return m, m.refresh()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.renaming {
			return m.updateRename(msg)
		}
		if m.confirmDelete {
			return m.updateConfirmDelete(msg)
		}
		if m.detail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m projectsModel) updateRename(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.renaming = false
		p := m.selected()
		name := strings.TrimSpace(m.renameText)
		if p == nil || name == "" || name == p.Name {
			return m, nil
		}
		id := p.ID
		c := m.client
		return m, func() tea.Msg {
			return renameResultMsg{err: c.RenameProject(context.Background(), id, name)}
		}
	case "esc":
		m.renaming = false
	default:
		m.renameText = editRune(m.renameText, msg.String())
	}
	return m, nil
}

func (m projectsModel) updateConfirmDelete(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.confirmDelete = false
		p := m.selected()
		if p == nil {
			return m, nil
		}
		id := p.ID
		c := m.client
		return m, func() tea.Msg {
			return deleteResultMsg{err: c.DeleteProject(context.Background(), id)}
		}
	case "n", "esc":
		m.confirmDelete = false
	}
	return m, nil
}

func (m projectsModel) updateList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.projects)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if len(m.projects) > 0 {
			m.detail = true
		}
	case "r":
		m.loading = true
		return m, m.refresh()
	case "c":
		return m, m.copySelectedURL()
	case "o":
		return m, m.openSelectedURL()
	case "e":
		if p := m.selected(); p != nil {
			m.renaming = true
			m.renameText = p.Name
		}
	case "d":
		if m.selected() != nil {
			m.confirmDelete = true
		}
	}
	return m, nil
}

func (m projectsModel) updateDetail(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.detail = false
	case "c":
		return m, m.copySelectedURL()
	case "o":
		return m, m.openSelectedURL()
	case "e":
		if p := m.selected(); p != nil {
			m.renaming = true
			m.renameText = p.Name
		}
	case "d":
		m.confirmDelete = true
	case "r":
		m.loading = true
		return m, m.refresh()
	}
	return m, nil
}

func (m projectsModel) copySelectedURL() tea.Cmd {
	p := m.selected()
	if p == nil {
		return nil
	}
	url := p.VideoURL()
	if url == "" {
		return func() tea.Msg {
			return copyResultMsg{err: fmt.Errorf("video not ready yet")}
		}
	}
	return func() tea.Msg {
		return copyResultMsg{err: clipboard.WriteAll(url)}
	}
}

func (m projectsModel) openSelectedURL() tea.Cmd {
	p := m.selected()
	if p == nil {
		return nil
	}
	url := p.VideoURL()
	if url == "" {
		return func() tea.Msg {
			return openResultMsg{err: fmt.Errorf("video not ready yet")}
		}
	}
	return func() tea.Msg {
		return openResultMsg{err: browser.Open(url)}
	}
}

func (m projectsModel) View() string {
	if m.detail {
		return m.viewDetail()
	}

	var b strings.Builder
	b.WriteString(" " + logoStyle.Render("MY ADS"))
	if m.poller.Expired() {
		b.WriteString("  " + warnStyle.Render("auto-refresh paused — r to resume"))
	} else if m.poller.Armed() {
		b.WriteString("  " + spinnerFrame(m.frame) + " " + dimStyle.Render("rendering…"))
	}
	b.WriteString("\n")

	if m.loadErr != nil {
		if len(m.projects) > 0 {
			b.WriteString(" " + errStyle.Render(fmt.Sprintf("couldn't refresh: %v", m.loadErr)) +
				" " + dimStyle.Render("(showing last known data)") + "\n")
		} else {
			b.WriteString(" " + errStyle.Render(fmt.Sprintf("couldn't load projects: %v", m.loadErr)) +
				" " + dimStyle.Render("(r to retry)") + "\n")
		}
	}

	if m.confirmDelete {
		if p := m.selected(); p != nil {
			b.WriteString(" " + warnStyle.Render(fmt.Sprintf("delete %q? y/n", truncStr(p.Name, 30))) + "\n")
		}
	} else if m.renaming {
		b.WriteString(" " + inputPromptStyle.Render("rename> ") + normalStyle.Render(m.renameText) + accentStyle.Render("█") + "\n")
	} else if m.statusMsg != "" {
		b.WriteString(" " + okStyle.Render(m.statusMsg) + "\n")
	}

	if m.loading && len(m.projects) == 0 && m.loadErr == nil {
		b.WriteString(" " + dimStyle.Render("loading…"))
		return b.String()
	}

	if len(m.projects) == 0 {
		if m.loadErr == nil {
			b.WriteString(" " + dimStyle.Render("no ads yet — press n to make one"))
		}
		return b.String()
	}

	b.WriteString(m.viewList())
	return truncateToHeight(b.String(), m.height)
}

func (m projectsModel) viewList() string {
	var b strings.Builder

	maxVisible := m.height - 4
	if maxVisible < 3 {
		maxVisible = 3
	}
	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}

	for i := start; i < len(m.projects) && i < start+maxVisible; i++ {
		p := m.projects[i]

		cursor := "  "
		nameStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			nameStyle = normalStyle.Bold(true)
		}

		dot := StatusStyle(p.Status).Render("●") + " "

		statusCol := StatusStyle(p.Status).Render(fmt.Sprintf("%-10s", p.Status))
		if p.InFlight() {
			statusCol += " " + spinnerFrame(m.frame+i)
		} else {
			statusCol += "  "
		}

		var rightParts []string
		rightWidth := 13
		rightParts = append(rightParts, statusCol)
		if m.width >= 60 {
			created := formatTime(p.CreatedAt)
			rightParts = append(rightParts, metaStyle.Render(fmt.Sprintf("%10s", created)))
			rightWidth += 11
		}
		if m.width >= 75 && p.Video != nil {
			rightParts = append(rightParts, metaStyle.Render(fmt.Sprintf("%5s", formatDuration(p.Video.Duration))))
			rightWidth += 6
		}

		nameWidth := m.width - 4 - rightWidth
		if nameWidth < 10 {
			nameWidth = 10
		}
		namePadded := fmt.Sprintf("%-*s", nameWidth, truncStr(p.Name, nameWidth))

		line := cursor + dot + nameStyle.Render(namePadded) + " " + strings.Join(rightParts, " ")
		if i == m.cursor {
			pad := m.width - lipgloss.Width(line)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(selectedRowBg.Render(line+strings.Repeat(" ", pad)) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func (m projectsModel) viewDetail() string {
	p := m.selected()
	if p == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(" " + dimStyle.Render("<- back (esc)") + "\n")
	b.WriteString(" " + selectedStyle.Render(p.Name) + "\n")

	meta := " " + StatusStyle(p.Status).Render(string(p.Status))
	if p.InFlight() {
		meta += " " + spinnerFrame(m.frame)
	}
	if !p.CreatedAt.IsZero() {
		meta += metaStyle.Render(" · created " + formatTime(p.CreatedAt))
	}
	if p.ViewsCount > 0 {
		meta += metaStyle.Render(fmt.Sprintf(" · %d views", p.ViewsCount))
	}
	b.WriteString(meta + "\n\n")

	if p.Video != nil {
		switch {
		case p.Video.URLState == domain.URLReady:
			b.WriteString(" " + normalStyle.Render(p.Video.URL) + "\n")
			if d := formatDuration(p.Video.Duration); d != "" {
				b.WriteString(" " + metaStyle.Render("length "+d) + "\n")
			}
		case p.InFlight():
			b.WriteString(" " + dimStyle.Render("video is still rendering…") + "\n")
		case p.Status == domain.StatusFailed || p.Video.Status == domain.StatusFailed:
			b.WriteString(" " + errStyle.Render("render failed") + "\n")
		}
	} else if p.InFlight() {
		b.WriteString(" " + dimStyle.Render("video is still rendering…") + "\n")
	}

	if p.SiteURL != "" {
		b.WriteString(" " + metaStyle.Render("site: "+p.SiteURL) + "\n")
	}

	if m.confirmDelete {
		b.WriteString("\n " + warnStyle.Render(fmt.Sprintf("delete %q? y/n", truncStr(p.Name, 30))) + "\n")
	} else if m.renaming {
		b.WriteString("\n " + inputPromptStyle.Render("rename> ") + normalStyle.Render(m.renameText) + accentStyle.Render("█") + "\n")
	} else if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}
