package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelkithq/reelkit/pkg/domain"
	"github.com/reelkithq/reelkit/pkg/poller"
)

func newTestProjects(t *testing.T, projects []domain.Project) projectsModel {
	t.Helper()
	p := poller.New(&stubAPI{}, poller.Options{Logger: quietLogger()})
	t.Cleanup(p.Close)
	m := newProjectsModel(nil, p)
	m.width = 80
	m.height = 24
	m.setSnapshot(projects)
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestProjectsInitSkipsFetchWhenPrimed(t *testing.T) {
	p := poller.New(&stubAPI{}, poller.Options{Logger: quietLogger()})
	t.Cleanup(p.Close)
	m := newProjectsModel(nil, p)

	if m.Init() == nil {
		t.Error("Init() = nil with an empty poller, want a refresh command")
	}
	p.Prime([]domain.Project{{ID: "a", Name: "Seeded ad"}})
	if m.Init() != nil {
		t.Error("Init() refetches even though the poller is primed")
	}
}

func TestProjectsListShowsStatuses(t *testing.T) {
	m := newTestProjects(t, []domain.Project{
		{ID: "a", Name: "Spring sale", Status: domain.StatusCompleted},
		{ID: "b", Name: "Launch teaser", Status: domain.StatusProcessing},
	})
	view := m.View()
	for _, want := range []string{"Spring sale", "Launch teaser", "completed", "processing"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProjectsCursorMovement(t *testing.T) {
	m := newTestProjects(t, []domain.Project{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j"))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
	m, _ = m.Update(key("j")) // clamp at end
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 after clamping", m.cursor)
	}
	m, _ = m.Update(key("k"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestProjectsEnterOpensDetail(t *testing.T) {
	m := newTestProjects(t, []domain.Project{{ID: "a", Name: "My ad", Status: domain.StatusCompleted}})
	m, _ = m.Update(key("enter"))
	if !m.detail {
		t.Fatal("expected detail view after enter")
	}
	view := m.View()
	if !strings.Contains(view, "My ad") {
		t.Errorf("detail view missing name:\n%s", view)
	}
	m, _ = m.Update(key("esc"))
	if m.detail {
		t.Error("expected list view after esc")
	}
}

func TestProjectsEnterOnEmptyList(t *testing.T) {
	m := newTestProjects(t, nil)
	m, _ = m.Update(key("enter"))
	if m.detail {
		t.Error("detail opened on an empty list")
	}
}

func TestProjectsDeleteConfirm(t *testing.T) {
	m := newTestProjects(t, []domain.Project{{ID: "a", Name: "Doomed ad"}})
	m, _ = m.Update(key("d"))
	if !m.confirmDelete {
		t.Fatal("expected delete confirmation after d")
	}
	if view := m.View(); !strings.Contains(view, "delete") {
		t.Errorf("view missing delete prompt:\n%s", view)
	}
	// n backs out without a command.
	m, cmd := m.Update(key("n"))
	if m.confirmDelete {
		t.Error("confirmation still open after n")
	}
	if cmd != nil {
		t.Error("unexpected command after declining delete")
	}
}

func TestProjectsDeleteConfirmedIssuesCommand(t *testing.T) {
	m := newTestProjects(t, []domain.Project{{ID: "a", Name: "Doomed ad"}})
	m, _ = m.Update(key("d"))
	m, cmd := m.Update(key("y"))
	if m.confirmDelete {
		t.Error("confirmation still open after y")
	}
	if cmd == nil {
		t.Error("expected delete command after confirming")
	}
}

func TestProjectsRenameEditing(t *testing.T) {
	m := newTestProjects(t, []domain.Project{{ID: "a", Name: "Old name"}})
	m, _ = m.Update(key("e"))
	if !m.renaming {
		t.Fatal("expected renaming after e")
	}
	if m.renameText != "Old name" {
		t.Errorf("renameText = %q, want prefilled name", m.renameText)
	}
	m, _ = m.Update(key("!"))
	if m.renameText != "Old name!" {
		t.Errorf("renameText = %q after typing", m.renameText)
	}
	m, _ = m.Update(key("esc"))
	if m.renaming {
		t.Error("still renaming after esc")
	}
}

func TestProjectsRenameUnchangedIsNoop(t *testing.T) {
	m := newTestProjects(t, []domain.Project{{ID: "a", Name: "Same"}})
	m, _ = m.Update(key("e"))
	m, cmd := m.Update(key("enter"))
	if cmd != nil {
		t.Error("rename to the same name should not hit the API")
	}
	if m.renaming {
		t.Error("still renaming after enter")
	}
}

func TestProjectsCopyNotReady(t *testing.T) {
	m := newTestProjects(t, []domain.Project{{
		ID: "a", Name: "Rendering ad", Status: domain.StatusProcessing,
		Video: &domain.Video{URL: "processing_x", URLState: domain.URLSentinelProcessing},
	}})
	_, cmd := m.Update(key("c"))
	if cmd == nil {
		t.Fatal("expected a command reporting copy failure")
	}
	msg := cmd()
	res, ok := msg.(copyResultMsg)
	if !ok {
		t.Fatalf("got %T, want copyResultMsg", msg)
	}
	if res.err == nil {
		t.Error("copying a sentinel URL should fail")
	}
}

func TestProjectsSnapshotClampsCursor(t *testing.T) {
	m := newTestProjects(t, []domain.Project{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	m.cursor = 2
	m.detail = true
	m.setSnapshot([]domain.Project{{ID: "a"}})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after shrink", m.cursor)
	}
	if m.detail {
		t.Error("detail view kept open for a vanished project")
	}
}

func TestProjectsSnapshotClearsError(t *testing.T) {
	m := newTestProjects(t, nil)
	m.loadErr = errors.New("backend down")
	m.setSnapshot([]domain.Project{{ID: "a", Name: "Back again"}})
	if m.loadErr != nil {
		t.Error("loadErr kept after a successful load")
	}
}

func TestProjectsEmptyState(t *testing.T) {
	m := newTestProjects(t, []domain.Project{})
	if view := m.View(); !strings.Contains(view, "no ads yet") {
		t.Errorf("view missing empty state:\n%s", view)
	}
}

func TestProjectsInFlightSpinner(t *testing.T) {
	m := newTestProjects(t, []domain.Project{
		{ID: "a", Name: "Busy ad", Status: domain.StatusRendering},
	})
	m, _ = m.Update(key("enter"))
	if view := m.View(); !strings.Contains(view, "still rendering") {
		t.Errorf("detail view missing rendering notice:\n%s", view)
	}
}
