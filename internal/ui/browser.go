package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/fogbank/internal/ambient"
)

// BrowserSelectedMsg reports the chosen soundtrack. An empty Path means the
// scene runs without one.
type BrowserSelectedMsg struct {
	Path string
}

// BrowserCancelledMsg reports that the user left the browser.
type BrowserCancelledMsg struct{}

type trackItem struct {
	path string
	name string
	ext  string
}

func (i trackItem) Title() string       { return i.name }
func (i trackItem) Description() string { return i.ext }
func (i trackItem) FilterValue() string { return i.name }

type silentItem struct{}

func (i silentItem) Title() string       { return "No soundtrack" }
func (i silentItem) Description() string { return "let the marsh stay quiet" }
func (i silentItem) FilterValue() string { return "silent" }

type pathItem struct{}

func (i pathItem) Title() string       { return "Open path..." }
func (i pathItem) Description() string { return "enter the path of a track" }
func (i pathItem) FilterValue() string { return "path" }

// BrowserModel picks the ambient track before the scene starts.
type BrowserModel struct {
	list     list.Model
	input    textinput.Model
	pathMode bool
	err      error
}

// NewBrowser creates a browser listing the supported tracks in dir.
func NewBrowser(dir string) BrowserModel {
	tracks, err := ambient.ListTracks(dir)
	if err != nil {
		return BrowserModel{err: fmt.Errorf("cannot read directory: %w", err)}
	}

	items := []list.Item{silentItem{}, pathItem{}}
	for _, path := range tracks {
		base := filepath.Base(path)
		ext := filepath.Ext(base)
		items = append(items, trackItem{
			path: path,
			name: strings.TrimSuffix(base, ext),
			ext:  strings.ToLower(ext),
		})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "fogbank · soundtrack"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	ti := textinput.New()
	ti.Placeholder = "~/music/marsh.ogg"
	ti.CharLimit = 4096
	ti.Width = 60

	return BrowserModel{list: l, input: ti}
}

// HasError returns true if the browser could not be initialized.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("fogbank")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.pathMode {
		return m.updatePathInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case pathItem:
				m.pathMode = true
				m.input.Focus()
				return m, tea.Batch(textinput.Blink, tea.SetWindowTitle("fogbank — open track"))
			case silentItem:
				return m, selectCmd("")
			case trackItem:
				return m, selectCmd(item.path)
			}
		case "q", "esc", "ctrl+c":
			return m, cancelCmd
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) updatePathInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if path := strings.TrimSpace(m.input.Value()); path != "" {
				return m, selectCmd(path)
			}
		case "esc":
			m.pathMode = false
			m.input.Reset()
			m.input.Blur()
			return m, tea.SetWindowTitle("fogbank")
		case "ctrl+c":
			return m, cancelCmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func selectCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return BrowserSelectedMsg{Path: path}
	}
}

func cancelCmd() tea.Msg {
	return BrowserCancelledMsg{}
}

func (m BrowserModel) View() string {
	if m.pathMode {
		s := "\n"
		s += "  " + headerStyle.Render("fogbank") + "\n"
		s += "\n"
		s += "  " + statusStyle.Render("Track path:") + "\n"
		s += "  " + m.input.View() + "\n"
		s += "\n"
		s += "  " + helpStyle.Render("enter confirm  esc back  ctrl+c quit") + "\n"
		return s
	}
	return m.list.View()
}
