package ambient

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// DefaultVolume is the starting volume when none is given.
const DefaultVolume = 0.6

// output is the part of an oto player the soundtrack drives.
type output interface {
	Play()
	SetVolume(volume float64)
	Close() error
}

// Player loops one track in the background until closed. A nil *Player
// is a valid silent player, so hosts without a soundtrack need no checks.
type Player struct {
	file     io.Closer
	loop     *loopReader
	out      output
	title    string
	duration time.Duration

	mu     sync.Mutex
	volume float64
	muted  bool
	closed bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   playbackSampleRate,
			ChannelCount: playbackChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// Open starts looping the track at path with the given volume in [0, 1].
func Open(path string, volume float64) (*Player, error) {
	if !IsSupportedExt(filepath.Ext(path)) {
		return nil, fmt.Errorf("unsupported track format %q (supported: %s)", filepath.Ext(path), SupportedExtsList())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec, err := newDecoder(f, filepath.Ext(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	pcm, err := newResampler(dec)
	if err != nil {
		f.Close()
		return nil, err
	}
	if pcm.Length() <= 0 {
		f.Close()
		return nil, errors.New("track is empty")
	}

	ctx, err := initOto()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	p := &Player{
		file:     f,
		loop:     &loopReader{src: pcm},
		title:    ReadMetadata(path).Title,
		duration: time.Duration(float64(pcm.Length()) / bytesPerSec * float64(time.Second)),
		volume:   clampVolume(volume),
	}
	op := ctx.NewPlayer(p.loop)
	op.SetVolume(p.volume)
	op.Play()
	p.out = op

	log.Printf("ambient: looping %q (%s)", p.title, p.duration.Round(time.Second))
	return p, nil
}

// Title returns the track title, or "" for a nil player.
func (p *Player) Title() string {
	if p == nil {
		return ""
	}
	return p.title
}

// Duration returns the length of one pass through the track.
func (p *Player) Duration() time.Duration {
	if p == nil {
		return 0
	}
	return p.duration
}

// Position returns the playback position within the current pass.
func (p *Player) Position() time.Duration {
	if p == nil {
		return 0
	}
	secs := float64(p.loop.Pos()) / bytesPerSec
	return time.Duration(secs * float64(time.Second))
}

// Loops returns how many times the track has wrapped around.
func (p *Player) Loops() int {
	if p == nil {
		return 0
	}
	return p.loop.Loops()
}

// Volume returns the current volume (0.0 to 1.0), ignoring mute.
func (p *Player) Volume() float64 {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets the volume, clamped to [0, 1].
func (p *Player) SetVolume(v float64) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(v)
	p.apply()
}

// AdjustVolume changes the volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	if p == nil {
		return
	}
	p.SetVolume(p.Volume() + delta)
}

// ToggleMute silences or restores the track without losing the volume.
func (p *Player) ToggleMute() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	p.apply()
}

// Muted reports whether the track is muted.
func (p *Player) Muted() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// apply pushes the effective volume to the output. Callers hold mu.
func (p *Player) apply() {
	if p.closed || p.out == nil {
		return
	}
	if p.muted {
		p.out.SetVolume(0)
		return
	}
	p.out.SetVolume(p.volume)
}

// Close stops playback and releases the track. It is safe to call more
// than once.
func (p *Player) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	if p.out != nil {
		errs = append(errs, p.out.Close())
	}
	if p.file != nil {
		errs = append(errs, p.file.Close())
	}
	return errors.Join(errs...)
}

func clampVolume(v float64) float64 {
	return min(max(v, 0), 1)
}
