// Package noise generates coloured noise used as the equalizer's looped test
// signal when no other source is given.
package noise

import (
	"fmt"
	"math/rand"

	"github.com/agusx1211/two-band-eq/internal/source"
)

type Color string

const (
	White  Color = "white"
	Pink   Color = "pink"
	Brown  Color = "brown"
	Blue   Color = "blue"
	Violet Color = "violet"
)

var Colors = []Color{White, Pink, Brown, Blue, Violet}

func ParseColor(s string) (Color, error) {
	for _, c := range Colors {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("noise: unknown color %q", s)
}

// pinkCoeffs are the pole weights of Paul Kellet's economy pink filter.
var pinkCoeffs = [7]float64{0.1294, 0.1875, 0.2414, 0.3026, 0.3830, 0.4962, 0.7195}

// Generator produces one stream of noise. Each colour keeps its own filter
// state so switching colour does not disturb the others.
type Generator struct {
	rng *rand.Rand

	pink      [7]float64
	brown     float64
	prevWhite float64
	prevBlue  float64
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) white() float64 {
	return g.rng.Float64()*2 - 1
}

// Next returns one sample of the given colour, roughly within [-1, 1].
func (g *Generator) Next(color Color) float64 {
	w := g.white()
	switch color {
	case Pink:
		sum := 0.0
		for i, c := range pinkCoeffs {
			g.pink[i] += c * (w - g.pink[i])
			sum += g.pink[i]
		}
		return sum / 2.5
	case Brown:
		g.brown = (g.brown + 0.02*w) / 1.02
		return g.brown * 3.5
	case Blue:
		blue := w - g.prevWhite
		g.prevWhite = w
		return blue / 2
	case Violet:
		blue := w - g.prevWhite
		violet := blue - g.prevBlue
		g.prevWhite = w
		g.prevBlue = blue
		return violet / 4
	default:
		return w
	}
}

func (g *Generator) Fill(color Color, dst []float64) {
	for i := range dst {
		dst[i] = g.Next(color)
	}
}

// PCM16 renders frames of interleaved 16-bit noise scaled by amplitude. Every
// channel gets its own samples.
func (g *Generator) PCM16(color Color, frames, channels int, amplitude float64) []int16 {
	buf := make([]float64, frames*channels)
	g.Fill(color, buf)
	for i := range buf {
		buf[i] *= amplitude
	}
	return source.ToPCM16(buf)
}
