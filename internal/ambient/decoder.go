package ambient

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// audioDecoder yields signed 16-bit little-endian interleaved PCM at the
// source sample rate and channel count.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	ChannelCount() int
}

// newDecoder picks a decoder by file extension.
func newDecoder(r io.ReadSeeker, ext string) (audioDecoder, error) {
	switch strings.ToLower(ext) {
	case ".mp3":
		dec, err := mp3.NewDecoder(r)
		if err != nil {
			return nil, fmt.Errorf("decoding MP3: %w", err)
		}
		return mp3Decoder{dec}, nil
	case ".wav":
		return newWAVDecoder(r)
	case ".flac":
		return newFLACDecoder(r)
	case ".ogg":
		return newOGGDecoder(r)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// pcmBuffer holds converted samples that did not fit the caller's slice
// and tracks the output byte position.
type pcmBuffer struct {
	buf []byte
	pos int64
}

func (b *pcmBuffer) drain(p []byte) int {
	n := copy(p, b.buf)
	b.buf = b.buf[n:]
	b.pos += int64(n)
	return n
}

func (b *pcmBuffer) deliver(p, raw []byte) int {
	n := copy(p, raw)
	if n < len(raw) {
		b.buf = raw[n:]
	}
	b.pos += int64(n)
	return n
}

// target resolves a Seek request against the current position and total
// length, clamped to [0, total].
func (b *pcmBuffer) target(offset int64, whence int, total int64) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = b.pos + offset
	case io.SeekEnd:
		pos = total + offset
	default:
		return b.pos, fmt.Errorf("invalid seek whence: %d", whence)
	}
	return min(max(pos, 0), total), nil
}

func (b *pcmBuffer) moved(pos int64) {
	b.buf = nil
	b.pos = pos
}

func clamp16(v int) int16 {
	return int16(min(max(v, -32768), 32767))
}

// mp3Decoder adds the channel count; go-mp3 always decodes to stereo.
type mp3Decoder struct {
	*mp3.Decoder
}

func (mp3Decoder) ChannelCount() int { return 2 }

type wavDecoder struct {
	pcmBuffer
	r          io.ReadSeeker
	pcmStart   int64
	total      int64
	sampleRate int
	channels   int
	srcDepth   int
}

func newWAVDecoder(r io.ReadSeeker) (*wavDecoder, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	depth := int(dec.BitDepth)
	switch depth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported WAV bit depth: %d", depth)
	}
	channels := int(dec.NumChans)
	srcFrame := int64(channels * depth / 8)
	if srcFrame == 0 {
		return nil, errors.New("WAV file has no channels")
	}
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("getting PCM start position: %w", err)
	}
	return &wavDecoder{
		r:          r,
		pcmStart:   start,
		total:      dec.PCMLen() / srcFrame * int64(channels) * 2,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		srcDepth:   depth,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if len(d.buf) > 0 {
		return d.drain(p), nil
	}
	remaining := d.total - d.pos
	if remaining <= 0 {
		return 0, io.EOF
	}

	width := d.srcDepth / 8
	samples := int(min(int64(max(len(p)/2, 1)), remaining/2))
	src := make([]byte, samples*width)
	n, err := io.ReadFull(d.r, src)
	samples = n / width
	if samples == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, samples*2)
	for i := range samples {
		off := i * width
		var s int
		switch d.srcDepth {
		case 8:
			s = (int(src[off]) - 128) << 8
		case 16:
			s = int(int16(binary.LittleEndian.Uint16(src[off:])))
		case 24:
			v := int32(src[off]) | int32(src[off+1])<<8 | int32(src[off+2])<<16
			s = int(v<<8) >> 16
		case 32:
			s = int(int32(binary.LittleEndian.Uint32(src[off:])) >> 16)
		}
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(clamp16(s)))
	}
	return d.deliver(p, raw), nil
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, err := d.target(offset, whence, d.total)
	if err != nil {
		return d.pos, err
	}
	frame := pos / int64(d.channels*2)
	if _, err := d.r.Seek(d.pcmStart+frame*int64(d.channels*d.srcDepth/8), io.SeekStart); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

func (d *wavDecoder) Length() int64     { return d.total }
func (d *wavDecoder) SampleRate() int   { return d.sampleRate }
func (d *wavDecoder) ChannelCount() int { return d.channels }

type flacDecoder struct {
	pcmBuffer
	stream   *flac.Stream
	total    int64
	channels int
	bps      int
}

func newFLACDecoder(r io.ReadSeeker) (*flacDecoder, error) {
	stream, err := flac.NewSeek(r)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	channels := int(stream.Info.NChannels)
	return &flacDecoder{
		stream:   stream,
		total:    int64(stream.Info.NSamples) * int64(channels) * 2,
		channels: channels,
		bps:      int(stream.Info.BitsPerSample),
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if len(d.buf) > 0 {
		return d.drain(p), nil
	}
	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	n := int(frame.Subframes[0].NSamples)
	raw := make([]byte, n*d.channels*2)
	for i := range n {
		for ch := range d.channels {
			s := int(frame.Subframes[ch].Samples[i])
			if d.bps > 16 {
				s >>= d.bps - 16
			} else {
				s <<= 16 - d.bps
			}
			binary.LittleEndian.PutUint16(raw[(i*d.channels+ch)*2:], uint16(clamp16(s)))
		}
	}
	return d.deliver(p, raw), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, err := d.target(offset, whence, d.total)
	if err != nil {
		return d.pos, err
	}
	if _, err := d.stream.Seek(uint64(pos / int64(d.channels*2))); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

func (d *flacDecoder) Length() int64     { return d.total }
func (d *flacDecoder) SampleRate() int   { return int(d.stream.Info.SampleRate) }
func (d *flacDecoder) ChannelCount() int { return d.channels }

type oggDecoder struct {
	pcmBuffer
	reader *oggvorbis.Reader
	total  int64
}

func newOGGDecoder(r io.ReadSeeker) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggDecoder{
		reader: reader,
		total:  reader.Length() * int64(reader.Channels()) * 2,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if len(d.buf) > 0 {
		return d.drain(p), nil
	}
	samples := make([]float32, max(len(p)/2, 1))
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i, s := range samples[:n] {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(clamp16(int(s*32767))))
	}
	if err == io.EOF {
		err = nil
	}
	return d.deliver(p, raw), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, err := d.target(offset, whence, d.total)
	if err != nil {
		return d.pos, err
	}
	if err := d.reader.SetPosition(pos / int64(d.reader.Channels()*2)); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

func (d *oggDecoder) Length() int64     { return d.total }
func (d *oggDecoder) SampleRate() int   { return d.reader.SampleRate() }
func (d *oggDecoder) ChannelCount() int { return d.reader.Channels() }
