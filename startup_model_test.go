package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/fogbank/internal/ambient"
	"github.com/olivier-w/fogbank/internal/fog"
	"github.com/olivier-w/fogbank/internal/pages"
	"github.com/olivier-w/fogbank/internal/ui"
)

func testSettings() sceneSettings {
	cfg := fog.DefaultConfig()
	cfg.ParticleCount = 3
	return sceneSettings{
		pages:  pages.Default(),
		fog:    cfg,
		seed:   7,
		volume: 0.5,
	}
}

func failOpen(path string, volume float64) (*ambient.Player, error) {
	return nil, errBoom{}
}

func TestStartupModelSelectionEntersOpeningPhase(t *testing.T) {
	m := newStartupModel(t.TempDir(), testSettings(), failOpen)
	model, cmd := m.Update(ui.BrowserSelectedMsg{Path: "theme.ogg"})
	if cmd == nil {
		t.Fatal("expected opening command")
	}

	startup, ok := model.(startupModel)
	if !ok {
		t.Fatalf("expected startupModel, got %T", model)
	}
	if startup.phase != phaseOpening {
		t.Fatalf("expected phaseOpening, got %v", startup.phase)
	}
	if !strings.Contains(startup.View(), "Opening theme.ogg") {
		t.Fatalf("expected the track name while opening, got %q", startup.View())
	}
}

func TestStartupModelErrorReturnsToBrowsePhase(t *testing.T) {
	m := newStartupModel(t.TempDir(), testSettings(), failOpen)
	m.phase = phaseOpening

	model, cmd := m.Update(startupResolvedMsg{err: errBoom{}})
	if cmd != nil {
		t.Fatal("expected no command on error return")
	}

	startup := model.(startupModel)
	if startup.phase != phaseBrowse {
		t.Fatalf("expected phaseBrowse, got %v", startup.phase)
	}
	if startup.errMsg == "" {
		t.Fatal("expected error message")
	}
}

func TestStartupModelHandsOverToScene(t *testing.T) {
	m := newStartupModel(t.TempDir(), testSettings(), failOpen)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = model.(startupModel)

	scene, err := buildScene("", m.settings, m.open)
	if err != nil {
		t.Fatalf("buildScene: %v", err)
	}
	model, cmd := m.Update(startupResolvedMsg{model: scene})
	if _, ok := model.(ui.Model); !ok {
		t.Fatalf("expected ui.Model, got %T", model)
	}
	if cmd == nil {
		t.Fatal("expected init and window size commands")
	}
}

func TestStartupModelCancelQuits(t *testing.T) {
	m := newStartupModel(t.TempDir(), testSettings(), failOpen)
	if _, cmd := m.Update(ui.BrowserCancelledMsg{}); cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestBuildSceneRejectsBadTracks(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	theme := filepath.Join(dir, "theme.ogg")
	for _, path := range []string{notes, theme} {
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	for _, path := range []string{filepath.Join(dir, "missing.ogg"), dir, notes} {
		if _, err := buildScene(path, testSettings(), failOpen); err == nil {
			t.Fatalf("expected an error for %s", path)
		}
	}

	_, err := buildScene(theme, testSettings(), failOpen)
	if !errors.Is(err, errBoom{}) {
		t.Fatalf("expected the opener's error, got %v", err)
	}
}

func TestSilentSceneReportsTrackError(t *testing.T) {
	scene := silentScene(testSettings(), errBoom{})
	model, _ := scene.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	defer model.(ui.Model).Fog().Destroy()
	if view := model.View(); !strings.Contains(view, "boom") {
		t.Fatal("expected the track error in the view")
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
