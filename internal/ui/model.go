package ui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/olivier-w/fogbank/internal/ambient"
	"github.com/olivier-w/fogbank/internal/fog"
	"github.com/olivier-w/fogbank/internal/pages"
	"github.com/olivier-w/fogbank/internal/signals"
	"github.com/olivier-w/fogbank/internal/stage"
)

// chromeRows is the number of terminal rows under the stage.
const chromeRows = 2

// Options configures a scene.
type Options struct {
	Pages      []pages.Page
	Fog        fog.Config
	FogOptions []fog.Option
	Stage      []stage.Option

	// Track is the ambient loop; nil runs the scene silent. TrackErr is
	// shown in the status line when opening the track failed.
	Track    *ambient.Player
	TrackErr error

	// Feed carries pointer positions from the remote feed. May be nil.
	Feed *signals.Latest[signals.Pointer]
}

// Model is the Bubbletea model for a fogbank scene: the page deck on a
// stage, with the fog drifting around it.
type Model struct {
	deck     *pages.Deck
	stage    *stage.Stage
	bus      *signals.Bus
	fogCfg   fog.Config
	fogOpts  []fog.Option
	fog      *fog.Handle // created on the first window size
	feed     *signals.Latest[signals.Pointer]
	track    *ambient.Player
	progress progress.Model
	slide    slide

	width    int
	height   int
	swapping bool
	turn     int // direction of the page swap in progress
	status   string
	quitting bool
	err      error
}

// New creates a scene positioned on the first page.
func New(opts Options) Model {
	p := progress.New(
		progress.WithScaledGradient("#4B5563", "#C8D6E5"),
		progress.WithoutPercentage(),
	)
	p.Width = 16

	m := Model{
		deck:     pages.New(opts.Pages),
		stage:    stage.New(opts.Stage...),
		bus:      signals.NewBus(),
		fogCfg:   opts.Fog,
		fogOpts:  opts.FogOptions,
		feed:     opts.Feed,
		track:    opts.Track,
		progress: p,
		slide:    newSlide(max(opts.Fog.TickRate, 1)),
	}
	if opts.TrackErr != nil {
		m.status = "soundtrack unavailable: " + opts.TrackErr.Error()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(windowTitle(m.deck.Current()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			return m.quit()
		}
		switch msg.String() {
		case "n", "right":
			return m.turnPage(1)
		case "p", "left":
			return m.turnPage(-1)
		case "f":
			if m.fog != nil {
				switch m.fog.State() {
				case fog.Active:
					m.fog.Detach()
				case fog.Detached:
					m.fog.Attach()
				}
			}
		case "m":
			m.track.ToggleMute()
		case "+", "=":
			m.track.AdjustVolume(0.05)
		case "-":
			m.track.AdjustVolume(-0.05)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height)

	case tea.MouseMsg:
		cols, rows := m.stage.Cells()
		if msg.X < 0 || msg.Y < 0 || msg.X >= cols || msg.Y >= rows {
			m.bus.EmitPointer(signals.Pointer{})
			return m, nil
		}
		x, y := stage.CellToPixel(msg.X, msg.Y)
		m.bus.EmitPointer(signals.Pointer{Point: signals.Point{X: x, Y: y}, Present: true})
		return m, nil

	case tea.BlurMsg:
		m.bus.EmitPointer(signals.Pointer{})
		return m, nil

	case fog.FrameMsg:
		if m.fog == nil {
			return m, nil
		}
		if m.feed != nil {
			if p, ok := m.feed.Take(); ok {
				m.bus.EmitPointer(p)
			}
		}
		cmd := m.fog.Update(msg)
		if m.slide.active && !m.swapping {
			m.slide.step()
			m.layout()
		}
		return m, cmd

	case pageLoadedMsg:
		m.deck.SetCurrentIndex(msg.index)
		m.swapping = false
		cols, _ := m.stage.Cells()
		m.slide.start(float64(m.turn * cols / 3))
		m.layout()
		m.bus.EmitAfterReplace()
		return m, tea.SetWindowTitle(windowTitle(m.deck.Current()))
	}

	return m, nil
}

func (m Model) resize(width, height int) (tea.Model, tea.Cmd) {
	m.width = width
	m.height = height
	m.stage.Resize(width, max(height-chromeRows, 0))
	if !m.swapping {
		m.layout()
	}

	w, h := m.stage.Size()
	if m.fog != nil {
		m.bus.EmitResize(signals.Size{Width: w, Height: h})
		return m, nil
	}
	if w <= 0 || h <= 0 {
		return m, nil
	}

	handle, err := fog.New(m.fogCfg, m.stage, m.bus, m.fogOpts...)
	if err != nil {
		m.err = fmt.Errorf("starting fog: %w", err)
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}
	m.fog = handle
	return m, handle.Init()
}

// turnPage replaces the current page with its neighbor in direction dir.
// The stage stays blank for a moment between the two pages.
func (m Model) turnPage(dir int) (tea.Model, tea.Cmd) {
	next := m.deck.CurrentIndex() + dir
	if m.swapping || m.deck.Page(next) == nil {
		return m, nil
	}
	log.Printf("ui: page %d -> %d", m.deck.CurrentIndex()+1, next+1)
	m.swapping = true
	m.turn = dir
	m.bus.EmitBeforeReplace()
	m.stage.SetContent(nil)
	return m, loadPageCmd(next)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.fog != nil {
		m.fog.Destroy()
	}
	if err := m.track.Close(); err != nil {
		log.Printf("ui: closing soundtrack: %v", err)
	}
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

// layout puts the current page on the stage at the slide's offset.
func (m *Model) layout() {
	cols, rows := m.stage.Cells()
	page := m.deck.Current()
	if page == nil {
		m.stage.SetContent(stage.NewGrid(cols, rows))
		return
	}
	m.stage.SetContent(layoutPage(*page, cols, rows, m.slide.offset()))
}

func (m Model) View() string {
	if m.quitting || m.width == 0 {
		return ""
	}

	var b strings.Builder
	if view := m.stage.View(); view != "" {
		b.WriteString(view)
		b.WriteString("\n")
	}
	b.WriteString(ansi.Truncate(m.statusLine(), m.width, "…"))
	b.WriteString("\n")
	b.WriteString(ansi.Truncate(" "+helpStyle.Render(helpText(m.track != nil)), m.width, ""))
	return b.String()
}

func (m Model) statusLine() string {
	total := m.deck.Len()
	ratio := 0.0
	if total > 0 {
		ratio = float64(m.deck.CurrentIndex()+1) / float64(total)
	}

	title := ""
	if page := m.deck.Current(); page != nil {
		title = page.Title
	}

	parts := []string{
		headerStyle.Render("fogbank"),
		timeStyle.Render(fmt.Sprintf("%d/%d", m.deck.CurrentIndex()+1, total)),
		m.progress.ViewAs(ratio),
		titleStyle.Render(title),
		statusStyle.Render(renderFogState(m.fog)),
	}
	if track := renderTrack(m.track); track != "" {
		parts = append(parts, statusStyle.Render(track))
	}
	if m.status != "" {
		parts = append(parts, errorStyle.Render(m.status))
	}
	return " " + strings.Join(parts, "  ")
}

// Err returns the error that ended the scene, if any.
func (m Model) Err() error {
	return m.err
}

// Fog returns the fog handle, or nil before the first window size.
func (m Model) Fog() *fog.Handle {
	return m.fog
}

func windowTitle(p *pages.Page) string {
	if p == nil || p.Title == "" {
		return "fogbank"
	}
	return p.Title + " — fogbank"
}
