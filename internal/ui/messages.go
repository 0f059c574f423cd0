package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// swapDelay is how long the stage stays blank between two pages.
const swapDelay = 150 * time.Millisecond

type pageLoadedMsg struct {
	index int
}

func loadPageCmd(index int) tea.Cmd {
	return tea.Tick(swapDelay, func(time.Time) tea.Msg {
		return pageLoadedMsg{index: index}
	})
}
