package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/olivier-w/fogbank/internal/ambient"
	"github.com/olivier-w/fogbank/internal/fog"
	"github.com/olivier-w/fogbank/internal/pages"
	"github.com/olivier-w/fogbank/internal/signals"
	"github.com/olivier-w/fogbank/internal/ui"
)

// trackOpener starts looping a soundtrack.
type trackOpener func(path string, volume float64) (*ambient.Player, error)

// sceneSettings is everything a scene needs apart from its soundtrack.
type sceneSettings struct {
	pages  []pages.Page
	fog    fog.Config
	seed   int64
	volume float64
	feed   *signals.Latest[signals.Pointer]
}

func (s sceneSettings) options() ui.Options {
	return ui.Options{
		Pages:      s.pages,
		Fog:        s.fog,
		FogOptions: []fog.Option{fog.WithSource(fog.NewSource(s.seed))},
		Feed:       s.feed,
	}
}

// buildScene opens the track at path, or none when path is empty, and
// returns the scene around it.
func buildScene(path string, s sceneSettings, open trackOpener) (ui.Model, error) {
	opts := s.options()
	if path == "" {
		return ui.New(opts), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return ui.Model{}, err
	}
	if info.IsDir() {
		return ui.Model{}, fmt.Errorf("%s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !ambient.IsSupportedExt(ext) {
		return ui.Model{}, fmt.Errorf("unsupported format %s (supported: %s)", ext, ambient.SupportedExtsList())
	}

	p, err := open(path, s.volume)
	if err != nil {
		return ui.Model{}, fmt.Errorf("error opening soundtrack: %w", err)
	}
	opts.Track = p
	return ui.New(opts), nil
}

// silentScene returns a scene without a soundtrack that reports trackErr,
// if any, in its status line.
func silentScene(s sceneSettings, trackErr error) ui.Model {
	opts := s.options()
	opts.TrackErr = trackErr
	return ui.New(opts)
}
