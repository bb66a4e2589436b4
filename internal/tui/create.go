package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelkithq/reelkit/pkg/client"
	"github.com/reelkithq/reelkit/pkg/domain"
)

type createField int

const (
	fieldName createField = iota
	fieldScript
	fieldAvatar
	fieldVoice
	fieldAspect
	fieldCount
)

// catalogLoadedMsg carries the avatar and voice catalogs for the pickers.
type catalogLoadedMsg struct {
	avatars []domain.Avatar
	voices  []domain.Voice
	err     error
}

// projectCreatedMsg reports the outcome of a submit. The app switches back
// to the ads tab on success so the new render shows up immediately.
type projectCreatedMsg struct {
	project *domain.Project
	err     error
}

type createModel struct {
	client *client.Client

	name        string
	script      string
	avatars     []domain.Avatar
	voices      []domain.Voice
	avatarIdx   int
	voiceIdx    int
	aspectIdx   int
	field       createField
	submitting  bool
	catalogErr  error
	errMsg      string
	width       int
	height      int
}

func newCreateModel(c *client.Client) createModel {
	return createModel{client: c}
}

func (m createModel) loadCatalogs() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		avatars, err := c.ListAvatars(context.Background())
		if err != nil {
			return catalogLoadedMsg{err: err}
		}
		voices, err := c.ListVoices(context.Background())
		if err != nil {
			return catalogLoadedMsg{avatars: avatars, err: err}
		}
		return catalogLoadedMsg{avatars: avatars, voices: voices}
	}
}

func (m createModel) Init() tea.Cmd {
	if m.avatars == nil {
		return m.loadCatalogs()
	}
	return nil
}

func (m createModel) submit() tea.Cmd {
	req := client.CreateProjectRequest{
		Name:        strings.TrimSpace(m.name),
		Script:      strings.TrimSpace(m.script),
		AspectRatio: domain.AspectRatios[m.aspectIdx],
	}
	if m.avatarIdx < len(m.avatars) {
		req.AvatarID = m.avatars[m.avatarIdx].ID
	}
	if m.voiceIdx < len(m.voices) {
		req.VoiceID = m.voices[m.voiceIdx].ID
	}
	c := m.client
	return func() tea.Msg {
		p, err := c.CreateProject(context.Background(), req)
		return projectCreatedMsg{project: p, err: err}
	}
}

func (m createModel) reset() createModel {
	m.name = ""
	m.script = ""
	m.field = fieldName
	m.submitting = false
	m.errMsg = ""
	return m
}

func (m createModel) Update(msg tea.Msg) (createModel, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		m.avatars = msg.avatars
		m.voices = msg.voices
		m.catalogErr = msg.err
		m.avatarIdx = 0
		m.voiceIdx = 0
		return m, nil

	case projectCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("create failed: %v", msg.err)
			return m, nil
		}
		return m.reset(), nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		m.errMsg = ""
		switch msg.String() {
		case "tab", "down":
			m.field = (m.field + 1) % fieldCount
			return m, nil
		case "shift+tab", "up":
			m.field = (m.field + fieldCount - 1) % fieldCount
			return m, nil
		case "ctrl+s":
			if strings.TrimSpace(m.name) == "" {
				m.errMsg = "name is required"
				return m, nil
			}
			if strings.TrimSpace(m.script) == "" {
				m.errMsg = "script is required"
				return m, nil
			}
			m.submitting = true
			return m, m.submit()
		}
		switch m.field {
		case fieldName:
			m.name = editRune(m.name, msg.String())
		case fieldScript:
			if msg.String() == "enter" {
				m.script += "\n"
			} else {
				m.script = editRune(m.script, msg.String())
			}
		case fieldAvatar:
			m.avatarIdx = cycleIdx(m.avatarIdx, len(m.avatars), msg.String())
		case fieldVoice:
			m.voiceIdx = cycleIdx(m.voiceIdx, len(m.voices), msg.String())
		case fieldAspect:
			m.aspectIdx = cycleIdx(m.aspectIdx, len(domain.AspectRatios), msg.String())
		}
		return m, nil
	}
	return m, nil
}

// cycleIdx moves a picker index with h/l or left/right, wrapping around.
func cycleIdx(idx, n int, key string) int {
	if n == 0 {
		return 0
	}
	switch key {
	case "l", "right":
		return (idx + 1) % n
	case "h", "left":
		return (idx + n - 1) % n
	}
	return idx
}

func (m createModel) fieldLabel(f createField, label string) string {
	if m.field == f {
		return accentStyle.Render("▸ ") + selectedStyle.Render(label)
	}
	return "  " + dimStyle.Render(label)
}

func (m createModel) View() string {
	var b strings.Builder
	b.WriteString(" " + logoStyle.Render("NEW AD") + "\n\n")

	if m.catalogErr != nil {
		b.WriteString(" " + warnStyle.Render(fmt.Sprintf("couldn't load catalogs: %v", m.catalogErr)) + "\n")
	}
	if m.errMsg != "" {
		b.WriteString(" " + errStyle.Render(m.errMsg) + "\n")
	}

	cursor := func(f createField) string {
		if m.field == f {
			return accentStyle.Render("█")
		}
		return ""
	}

	b.WriteString(" " + m.fieldLabel(fieldName, "name   ") + " " + normalStyle.Render(m.name) + cursor(fieldName) + "\n")

	b.WriteString(" " + m.fieldLabel(fieldScript, "script ") + " ")
	if m.script == "" && m.field != fieldScript {
		b.WriteString(inputPlaceholderStyle.Render("what should the ad say?"))
	} else {
		scriptLines := strings.Split(m.script, "\n")
		for i, line := range scriptLines {
			if i > 0 {
				b.WriteString("\n          ")
			}
			b.WriteString(normalStyle.Render(line))
		}
		b.WriteString(cursor(fieldScript))
	}
	b.WriteString("\n")

	avatarName := "loading…"
	if len(m.avatars) > 0 {
		a := m.avatars[m.avatarIdx]
		avatarName = a.Name
		if a.Premium {
			avatarName += " ★"
		}
		avatarName += metaStyle.Render(fmt.Sprintf("  (%d/%d)", m.avatarIdx+1, len(m.avatars)))
	} else if m.catalogErr != nil {
		avatarName = "unavailable"
	}
	b.WriteString(" " + m.fieldLabel(fieldAvatar, "avatar ") + " " + normalStyle.Render(avatarName) + "\n")

	voiceName := "loading…"
	if len(m.voices) > 0 {
		v := m.voices[m.voiceIdx]
		voiceName = v.Name
		if v.Language != "" {
			voiceName += metaStyle.Render("  " + v.Language)
		}
		voiceName += metaStyle.Render(fmt.Sprintf("  (%d/%d)", m.voiceIdx+1, len(m.voices)))
	} else if m.catalogErr != nil {
		voiceName = "unavailable"
	}
	b.WriteString(" " + m.fieldLabel(fieldVoice, "voice  ") + " " + normalStyle.Render(voiceName) + "\n")

	b.WriteString(" " + m.fieldLabel(fieldAspect, "aspect ") + " ")
	for i, ar := range domain.AspectRatios {
		if i > 0 {
			b.WriteString(" ")
		}
		if i == m.aspectIdx {
			b.WriteString(okStyle.Render("[" + ar + "]"))
		} else {
			b.WriteString(dimStyle.Render(ar))
		}
	}
	b.WriteString("\n")

	if m.submitting {
		b.WriteString("\n " + dimStyle.Render("submitting…") + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}
