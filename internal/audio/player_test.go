package audio

import (
	"encoding/binary"
	"io"
	"math"
	"testing"
)

func decode(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

func TestEncodeFloat32LEClamps(t *testing.T) {
	in := []float64{0, 0.5, -0.25, 2, -3}
	want := []float32{0, 0.5, -0.25, 1, -1}
	buf := make([]byte, len(in)*4)
	encodeFloat32LE(buf, in)
	for i, got := range decode(buf) {
		if got != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got, want[i])
		}
	}
}

func TestReaderSpansRenderBlocks(t *testing.T) {
	calls := 0
	render := func(out []float64) bool {
		calls++
		for i := range out {
			out[i] = 0.25
		}
		return true
	}
	r := newRenderReader(render, nil, 2, 4, make(chan struct{}))

	buf := make([]byte, 48)
	n, err := r.Read(buf)
	if err != nil || n != len(buf) {
		t.Fatalf("Read = %d, %v", n, err)
	}
	if calls != 2 {
		t.Errorf("render called %d times, want 2", calls)
	}
	for i, s := range decode(buf) {
		if s != 0.25 {
			t.Fatalf("sample %d = %v", i, s)
		}
	}
}

func TestReaderEndsWhenRenderCompletes(t *testing.T) {
	calls := 0
	render := func(out []float64) bool {
		calls++
		return calls == 1
	}
	r := newRenderReader(render, nil, 1, 8, make(chan struct{}))

	buf := make([]byte, 32)
	if n, err := r.Read(buf); n != 32 || err != nil {
		t.Fatalf("first Read = %d, %v", n, err)
	}
	if n, err := r.Read(buf); n != 0 || err != io.EOF {
		t.Fatalf("second Read = %d, %v, want 0, EOF", n, err)
	}
	if _, err := r.Read(buf); err != io.EOF {
		t.Fatalf("Read after end = %v", err)
	}
	if calls != 2 {
		t.Errorf("render called %d times after completion", calls)
	}
}

func TestReaderStops(t *testing.T) {
	stop := make(chan struct{})
	close(stop)
	r := newRenderReader(func([]float64) bool {
		t.Error("render called after stop")
		return true
	}, nil, 2, 4, stop)

	if n, err := r.Read(make([]byte, 16)); n != 0 || err != io.EOF {
		t.Fatalf("Read = %d, %v, want 0, EOF", n, err)
	}
}

func TestGainPowerOffIsSilent(t *testing.T) {
	g := NewGain(1, false)
	samples := []float64{0.5, -0.5, 0.5, -0.5}
	env := make([]float64, len(samples))
	g.Apply(samples, env, 2)
	for i, s := range samples {
		if s != 0 {
			t.Errorf("sample %d = %v, want 0", i, s)
		}
	}
}

func TestGainEnvelopeRampsPerFrame(t *testing.T) {
	g := NewGain(1, true)
	const frames = 10000
	samples := make([]float64, frames*2)
	env := make([]float64, len(samples))
	for i := range samples {
		samples[i] = 5
	}
	g.Apply(samples, env, 2)

	if math.Abs(env[0]-Smoothing) > 1e-12 || env[0] != env[1] {
		t.Errorf("first frame envelope = %v, %v", env[0], env[1])
	}
	for i := 2; i < len(env); i += 2 {
		if env[i] < env[i-2] {
			t.Fatalf("envelope fell at frame %d", i/2)
		}
	}
	want := 1 - math.Pow(1-Smoothing, frames)
	if got := env[len(env)-1]; math.Abs(got-want) > 1e-9 {
		t.Errorf("final envelope = %v, want %v", got, want)
	}
	if samples[len(samples)-1] != 1 {
		t.Errorf("output not clamped: %v", samples[len(samples)-1])
	}
}

func TestSetVolumeClamps(t *testing.T) {
	g := NewGain(0.5, true)
	tests := []struct {
		in, want float64
	}{
		{0.3, 0.3},
		{2, 1},
		{-1, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		g.SetVolume(tt.in)
		if got := g.Volume(); got != tt.want {
			t.Errorf("SetVolume(%v): Volume() = %v, want %v", tt.in, got, tt.want)
		}
	}
	g.SetPower(false)
	if g.Power() {
		t.Error("power still on")
	}
}
