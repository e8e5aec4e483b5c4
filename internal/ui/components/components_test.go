package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

type pressedMsg struct{ label string }

func press(label string) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return pressedMsg{label} }
	}
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	}
	return tea.KeyPressMsg{Code: rune(s[0]), Text: s}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Header", Disabled: true},
		{Label: "Algorithms", Action: press("algorithms")},
		{Label: "Archived", Disabled: true},
		{Label: "Databases", Action: press("databases")},
	})
	if m.Selected != 1 {
		t.Fatalf("expected first enabled item, got %d", m.Selected)
	}

	m, _ = m.Update(key("down"))
	if m.Selected != 3 {
		t.Fatalf("expected disabled item to be skipped, got %d", m.Selected)
	}

	m, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected action command")
	}
	if got := cmd().(pressedMsg).label; got != "databases" {
		t.Errorf("pressed %q", got)
	}

	m, _ = m.Update(key("up"))
	if m.Selected != 1 {
		t.Errorf("expected to move back to 1, got %d", m.Selected)
	}
}

func TestMenu_EmptyEnter(t *testing.T) {
	m := NewMenu(nil)
	if _, cmd := m.Update(key("enter")); cmd != nil {
		t.Error("empty menu should not produce a command")
	}
	if _, ok := m.Current(); ok {
		t.Error("empty menu has no current item")
	}
}

func TestMenu_ViewScrollsToSelection(t *testing.T) {
	var items []MenuItem
	for _, l := range []string{"a1", "a2", "a3", "a4", "a5", "a6"} {
		items = append(items, MenuItem{Label: l})
	}
	m := NewMenu(items)
	m.Selected = 5

	view := m.View(40, 3)
	if strings.Contains(view, "a1") || !strings.Contains(view, "a6") {
		t.Errorf("expected window ending at a6, got:\n%s", view)
	}
}

func TestButton_BusyIgnoresPress(t *testing.T) {
	b := NewButton("Sign in", true, press("sign in"))
	if _, cmd := b.Update(key("enter")); cmd == nil {
		t.Fatal("expected press")
	}

	b.Busy = true
	if _, cmd := b.Update(key("enter")); cmd != nil {
		t.Error("busy button should ignore presses")
	}
	if !strings.Contains(b.View(), "Sign in…") {
		t.Errorf("expected busy label, got %q", b.View())
	}
}

func TestProgressBar_Filled(t *testing.T) {
	tests := []struct {
		pct, width, want int
	}{
		{0, 20, 0},
		{50, 20, 10},
		{47, 20, 9},
		{100, 20, 20},
		{130, 20, 20},
		{-5, 20, 0},
	}
	for _, tt := range tests {
		if got := NewProgressBar("", tt.pct, false, 0).Filled(tt.width); got != tt.want {
			t.Errorf("Filled(%d%%, %d) = %d, want %d", tt.pct, tt.width, got, tt.want)
		}
	}
	if !strings.Contains(NewProgressBar("Sorting", 40, true, 40).View(), "40%") {
		t.Error("expected percentage in view")
	}
}

func TestTextInput_NumericOnly(t *testing.T) {
	in := NewTextInput("Percent", "0-100", true, 3)
	in.Focus()
	for _, k := range []string{"4", "x", "2"} {
		in, _ = in.Update(key(k))
	}
	if in.Value() != "42" {
		t.Errorf("expected 42, got %q", in.Value())
	}
	n, err := in.NumericValue()
	if err != nil || n != 42 {
		t.Errorf("NumericValue = %d, %v", n, err)
	}
}

func TestPasswordInput_Masks(t *testing.T) {
	in := NewPasswordInput("Password", "")
	in.Focus()
	in.SetValue("hunter2")
	if strings.Contains(in.View(), "hunter2") {
		t.Error("password should be masked")
	}
	if in.Value() != "hunter2" {
		t.Errorf("value = %q", in.Value())
	}
}
