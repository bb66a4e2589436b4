package tui

import (
	"strings"
	"testing"
)

func TestEditRune(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
		want string
	}{
		{"append letter", "ab", "c", "abc"},
		{"append space", "ab", "space", "ab "},
		{"backspace", "abc", "backspace", "ab"},
		{"backspace empty", "", "backspace", ""},
		{"ignore enter", "ab", "enter", "ab"},
		{"ignore esc", "ab", "esc", "ab"},
		{"unicode", "caf", "é", "café"},
		{"unicode backspace", "café", "backspace", "caf"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := editRune(tc.text, tc.key); got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tc.text, tc.key, got, tc.want)
			}
		})
	}
}

func TestEditRuneClampsLength(t *testing.T) {
	text := strings.Repeat("a", maxInputLen)
	if got := editRune(text, "b"); len(got) != maxInputLen {
		t.Errorf("input grew past maxInputLen: %d", len(got))
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "one\ntwo\nthree\nfour\n"
	if got := truncateToHeight(s, 2); got != "one\ntwo\n" {
		t.Errorf("truncateToHeight = %q", got)
	}
	if got := truncateToHeight(s, 10); got != s {
		t.Errorf("short input modified: %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("zero maxLines modified input: %q", got)
	}
}
