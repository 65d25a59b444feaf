// Package audio drives an oto output stream from a render callback.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"sync"
	"time"

	oto "github.com/ebitengine/oto/v3"
)

// RenderFunc fills out with interleaved frames. Returning false ends the
// stream.
type RenderFunc func(out []float64) bool

var ErrInvalidFormat = errors.New("audio: invalid stream format")

type Player struct {
	context      *oto.Context
	player       *oto.Player
	sampleRate   int
	channels     int
	bufferFrames int
	gain         *Gain
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewPlayer(sampleRate, channels, bufferFrames int, gain *Gain) (*Player, error) {
	if sampleRate <= 0 || channels < 1 || channels > 2 || bufferFrames <= 0 {
		return nil, fmt.Errorf("%w: rate=%d channels=%d frames=%d", ErrInvalidFormat, sampleRate, channels, bufferFrames)
	}

	otoContext, readyChan, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("audio: opening output: %w", err)
	}

	<-readyChan

	return &Player{
		context:      otoContext,
		sampleRate:   sampleRate,
		channels:     channels,
		bufferFrames: bufferFrames,
		gain:         gain,
		stopChan:     make(chan struct{}),
	}, nil
}

// Start begins pulling frames from render on oto's audio goroutine.
func (p *Player) Start(render RenderFunc) {
	p.player = p.context.NewPlayer(newRenderReader(render, p.gain, p.channels, p.bufferFrames, p.stopChan))
	p.player.Play()
}

// Playing reports whether the stream is still running.
func (p *Player) Playing() bool {
	return p.player != nil && p.player.IsPlaying()
}

func (p *Player) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
	if p.player != nil {
		p.player.Pause()
	}
}

func (p *Player) Close() {
	p.Stop()
	if p.player != nil {
		if err := p.player.Close(); err != nil {
			log.Printf("Failed to close audio player: %v", err)
		}
	}
}

// renderReader adapts a RenderFunc to the io.Reader oto pulls from. All of
// its buffers are allocated once.
type renderReader struct {
	render   RenderFunc
	gain     *Gain
	channels int
	stopChan <-chan struct{}

	samples  []float64
	envelope []float64
	buffer   []byte
	bufPos   int
	done     bool
}

func newRenderReader(render RenderFunc, gain *Gain, channels, frames int, stopChan <-chan struct{}) *renderReader {
	n := frames * channels
	return &renderReader{
		render:   render,
		gain:     gain,
		channels: channels,
		stopChan: stopChan,
		samples:  make([]float64, n),
		envelope: make([]float64, n),
		buffer:   make([]byte, n*4),
		bufPos:   n * 4,
	}
}

func (r *renderReader) Read(buf []byte) (int, error) {
	totalRead := 0

	for totalRead < len(buf) {
		if r.bufPos >= len(r.buffer) {
			if !r.done {
				select {
				case <-r.stopChan:
					r.done = true
				default:
				}
			}
			if !r.done && !r.render(r.samples) {
				r.done = true
			}
			if r.done {
				if totalRead > 0 {
					return totalRead, nil
				}
				return 0, io.EOF
			}

			if r.gain != nil {
				r.gain.Apply(r.samples, r.envelope, r.channels)
			}
			encodeFloat32LE(r.buffer, r.samples)
			r.bufPos = 0
		}

		n := copy(buf[totalRead:], r.buffer[r.bufPos:])
		r.bufPos += n
		totalRead += n
	}

	return totalRead, nil
}

// encodeFloat32LE packs samples into dst, clamped to [-1, 1].
func encodeFloat32LE(dst []byte, samples []float64) {
	for i, sample := range samples {
		clamped := math.Max(-1, math.Min(1, sample))
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(float32(clamped)))
	}
}
