package noise

import (
	"math"
	"testing"
)

func TestGeneratorIsDeterministic(t *testing.T) {
	for _, c := range Colors {
		a := NewGenerator(42).PCM16(c, 256, 2, 1)
		b := NewGenerator(42).PCM16(c, 256, 2, 1)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%s: sample %d differs: %d vs %d", c, i, a[i], b[i])
			}
		}
	}
}

func TestColorsStayBounded(t *testing.T) {
	for _, c := range Colors {
		g := NewGenerator(7)
		buf := make([]float64, 44100)
		g.Fill(c, buf)

		var sum float64
		for i, v := range buf {
			if math.IsNaN(v) || math.Abs(v) > 3 {
				t.Fatalf("%s: sample %d out of range: %v", c, i, v)
			}
			sum += v
		}
		if mean := sum / float64(len(buf)); math.Abs(mean) > 0.2 {
			t.Errorf("%s: mean %v is far from zero", c, mean)
		}
	}
}

func TestBrownIsDarkerThanViolet(t *testing.T) {
	// Mean absolute first difference tracks high-frequency content.
	roughness := func(c Color) float64 {
		buf := make([]float64, 8192)
		NewGenerator(3).Fill(c, buf)
		var d float64
		for i := 1; i < len(buf); i++ {
			d += math.Abs(buf[i] - buf[i-1])
		}
		return d / float64(len(buf)-1)
	}
	if b, v := roughness(Brown), roughness(Violet); b >= v {
		t.Errorf("brown roughness %v >= violet %v", b, v)
	}
}

func TestParseColor(t *testing.T) {
	if c, err := ParseColor("pink"); err != nil || c != Pink {
		t.Errorf("ParseColor(pink) = %v, %v", c, err)
	}
	if _, err := ParseColor("grey"); err == nil {
		t.Error("expected error for unknown color")
	}
}
