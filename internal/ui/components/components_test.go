package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestMultiChoice_SelectByKey(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.Msg
		want int
	}{
		{"number", []tea.Msg{keyPress('2')}, 1},
		{"lower letter", []tea.Msg{keyPress('c')}, 2},
		{"upper letter", []tea.Msg{tea.KeyPressMsg{Code: 'd', Text: "D"}}, 3},
		{"arrows and enter", []tea.Msg{specialKey(tea.KeyDown), specialKey(tea.KeyDown), specialKey(tea.KeyUp), specialKey(tea.KeyEnter)}, 1},
		{"space", []tea.Msg{specialKey(tea.KeySpace)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := NewMultiChoice([]string{"10", "12", "14", "16"}, 1)
			for _, msg := range tt.msgs {
				mc, _ = mc.Update(msg)
			}
			if !mc.Submitted {
				t.Fatal("expected submitted")
			}
			if mc.ChosenIndex != tt.want {
				t.Errorf("ChosenIndex = %d, want %d", mc.ChosenIndex, tt.want)
			}
		})
	}
}

func TestMultiChoice_OutOfRangeIgnored(t *testing.T) {
	mc := NewMultiChoice([]string{"True", "False"}, 0)
	mc, _ = mc.Update(keyPress('3'))
	if mc.Submitted {
		t.Error("option 3 of 2 should be ignored")
	}
}

func TestMultiChoice_LockedIgnoresInput(t *testing.T) {
	mc := NewMultiChoice([]string{"10", "12"}, 1)
	mc.Lock(-1)
	mc, _ = mc.Update(keyPress('1'))
	if mc.ChosenIndex != -1 {
		t.Errorf("ChosenIndex = %d, want -1", mc.ChosenIndex)
	}
	if _, ok := mc.Chosen(); ok {
		t.Error("timeout lock should have no chosen option")
	}

	view := mc.View()
	if !strings.Contains(view, "B)  12  ✓") {
		t.Errorf("expected correct option marked, got:\n%s", view)
	}
}

func TestMultiChoice_MarksWrongChoice(t *testing.T) {
	mc := NewMultiChoice([]string{"10", "12"}, 1)
	mc, _ = mc.Update(keyPress('a'))
	if mc.IsCorrect() {
		t.Error("expected incorrect")
	}
	if got, _ := mc.Chosen(); got != "10" {
		t.Errorf("Chosen = %q, want 10", got)
	}
	if !strings.Contains(mc.View(), "A)  10  ✗") {
		t.Errorf("expected wrong option marked, got:\n%s", mc.View())
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	var pressed string
	item := func(label string, disabled bool) MenuItem {
		return MenuItem{Label: label, Disabled: disabled, Action: func() tea.Cmd {
			pressed = label
			return nil
		}}
	}
	m := NewMenu([]MenuItem{item("Level 1", false), item("Level 2", true), item("Level 3", false)})

	m, _ = m.Update(specialKey(tea.KeyDown))
	if m.Selected != 2 {
		t.Fatalf("Selected = %d, want 2", m.Selected)
	}
	m, _ = m.Update(specialKey(tea.KeySpace))
	if pressed != "Level 3" {
		t.Errorf("pressed = %q, want Level 3", pressed)
	}
}

func TestMenu_FirstEnabledSelected(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "Locked", Disabled: true}, {Label: "Open", Tag: "Coming Soon"}})
	cur, ok := m.Current()
	if !ok || cur.Label != "Open" {
		t.Errorf("Current = %+v, want Open", cur)
	}
	if !strings.Contains(m.View(), "[Coming Soon]") {
		t.Error("expected tag in view")
	}
}

func TestProgressBar_Percent(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 5, 0},
		{2, 4, 0.5},
		{7, 5, 1},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := NewProgressBar("", tt.done, tt.total, 40).Percent(); got != tt.want {
			t.Errorf("Percent(%d/%d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
	if !strings.Contains(NewProgressBar("Question", 3, 5, 40).View(), "3/5") {
		t.Error("expected count in view")
	}
}

func TestMenu_ViewWindow(t *testing.T) {
	var items []MenuItem
	for i := 1; i <= 20; i++ {
		items = append(items, MenuItem{Label: "Level " + string(rune('A'+i-1))})
	}
	m := NewMenu(items)
	m.Selected = 10

	view := m.ViewWindow(5)
	if !strings.Contains(view, "Level K") {
		t.Errorf("selected item not visible:\n%s", view)
	}
	if strings.Contains(view, "Level A") || strings.Contains(view, "Level T") {
		t.Errorf("expected far items hidden:\n%s", view)
	}
	if !strings.Contains(view, "↑ more") || !strings.Contains(view, "↓ more") {
		t.Errorf("expected scroll markers:\n%s", view)
	}

	if got := m.ViewWindow(50); got != m.View() {
		t.Error("window larger than menu should render everything")
	}
}
