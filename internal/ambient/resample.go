package ambient

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	playbackSampleRate = 48000
	playbackChannels   = 2
	playbackFrameSize  = playbackChannels * 2
	bytesPerSec        = playbackSampleRate * playbackFrameSize
)

// resampler presents any decoder as a 48 kHz stereo s16le stream using
// linear interpolation. It only supports rewinding to the start, which is
// all looping playback needs.
type resampler struct {
	src       audioDecoder
	srcFrame  int
	step      float64 // source frames per output frame
	length    int64
	phase     float64
	cur, next [playbackChannels]int16
	primed    bool
	ended     bool
	srcErr    error
	pending   []byte
	tmp       []byte
	pos       int64
}

func newResampler(src audioDecoder) (audioDecoder, error) {
	rate, channels := src.SampleRate(), src.ChannelCount()
	if rate <= 0 {
		return nil, fmt.Errorf("unsupported sample rate: %d", rate)
	}
	if channels < 1 || channels > playbackChannels {
		return nil, fmt.Errorf("unsupported channel count: %d", channels)
	}
	if rate == playbackSampleRate && channels == playbackChannels {
		return src, nil
	}
	frame := channels * 2
	srcFrames := src.Length() / int64(frame)
	return &resampler{
		src:      src,
		srcFrame: frame,
		step:     float64(rate) / playbackSampleRate,
		length:   srcFrames * playbackSampleRate / int64(rate) * playbackFrameSize,
		tmp:      make([]byte, 2048*frame),
	}, nil
}

func (r *resampler) Length() int64     { return r.length }
func (r *resampler) SampleRate() int   { return playbackSampleRate }
func (r *resampler) ChannelCount() int { return playbackChannels }

func (r *resampler) Read(p []byte) (int, error) {
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(p) / playbackFrameSize
	written := 0
	for written < frames {
		for r.phase >= 1 {
			if r.ended {
				break
			}
			r.cur = r.next
			r.phase--
			if err := r.advance(); err != nil {
				return written * playbackFrameSize, err
			}
		}
		if r.ended && r.phase >= 1 {
			break
		}
		off := written * playbackFrameSize
		for ch := range playbackChannels {
			a, b := float64(r.cur[ch]), float64(r.next[ch])
			binary.LittleEndian.PutUint16(p[off+ch*2:], uint16(int16(a+(b-a)*r.phase)))
		}
		written++
		r.phase += r.step
	}

	n := written * playbackFrameSize
	r.pos += int64(n)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (r *resampler) prime() error {
	f, err := r.frame()
	if err != nil {
		return err
	}
	r.cur, r.next = f, f
	r.primed = true
	return r.advance()
}

// advance loads the frame after cur. At the end of the source the last
// frame is held so the tail fades out cleanly.
func (r *resampler) advance() error {
	f, err := r.frame()
	if errors.Is(err, io.EOF) {
		r.next = r.cur
		r.ended = true
		return nil
	}
	if err != nil {
		return err
	}
	r.next = f
	return nil
}

func (r *resampler) frame() ([playbackChannels]int16, error) {
	var f [playbackChannels]int16
	for len(r.pending) < r.srcFrame {
		if r.srcErr != nil {
			return f, r.srcErr
		}
		n, err := r.src.Read(r.tmp)
		r.pending = append(r.pending, r.tmp[:n]...)
		switch {
		case err != nil:
			r.srcErr = err
		case n == 0:
			r.srcErr = io.ErrNoProgress
		}
	}
	left := int16(binary.LittleEndian.Uint16(r.pending))
	right := left
	if r.srcFrame == playbackFrameSize {
		right = int16(binary.LittleEndian.Uint16(r.pending[2:]))
	}
	r.pending = r.pending[r.srcFrame:]
	f[0], f[1] = left, right
	return f, nil
}

func (r *resampler) Seek(offset int64, whence int) (int64, error) {
	if offset != 0 || whence != io.SeekStart {
		return r.pos, errors.New("resampled stream can only rewind to the start")
	}
	if _, err := r.src.Seek(0, io.SeekStart); err != nil {
		return r.pos, err
	}
	r.phase = 0
	r.primed = false
	r.ended = false
	r.srcErr = nil
	r.pending = r.pending[:0]
	r.pos = 0
	return 0, nil
}
