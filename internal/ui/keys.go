package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(hasTrack bool) string {
	s := "←/→ page  f fog"
	if hasTrack {
		s += "  m mute  +/- volume"
	}
	s += "  q quit"
	return s
}
