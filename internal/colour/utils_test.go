package colour

import (
	"image/color"
	"math"
	"testing"
)

func TestRelativeLuminanceBounds(t *testing.T) {
	if got := RelativeLuminance(RGB{}); got != 0 {
		t.Errorf("black luminance = %v, want 0", got)
	}
	if got := RelativeLuminance(RGB{R: 255, G: 255, B: 255}); math.Abs(got-1) > 1e-9 {
		t.Errorf("white luminance = %v, want 1", got)
	}
}

func TestRelativeLuminanceMonotonic(t *testing.T) {
	bases := []RGB{{}, {R: 40, G: 200, B: 90}, {R: 255, G: 0, B: 128}}

	for _, base := range bases {
		prev := [3]float64{-1, -1, -1}
		for v := 0; v < 256; v++ {
			samples := [3]RGB{base, base, base}
			samples[0].R = uint8(v)
			samples[1].G = uint8(v)
			samples[2].B = uint8(v)
			for ch, s := range samples {
				l := RelativeLuminance(s)
				if l < prev[ch] {
					t.Fatalf("luminance decreased on channel %d at %d for base %+v", ch, v, base)
				}
				prev[ch] = l
			}
		}
	}
}

func TestRelativeLuminanceOrdersGreen(t *testing.T) {
	red := RelativeLuminance(RGB{R: 255})
	green := RelativeLuminance(RGB{G: 255})
	blue := RelativeLuminance(RGB{B: 255})
	if !(blue < red && red < green) {
		t.Errorf("expected blue < red < green, got %v %v %v", blue, red, green)
	}
}

func TestContrastRatio(t *testing.T) {
	black := color.RGBA{A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	if got := ContrastRatio(black, white); math.Abs(got-21) > 0.01 {
		t.Errorf("ContrastRatio(black, white) = %v, want 21", got)
	}
	if got := ContrastRatio(white, black); math.Abs(got-21) > 0.01 {
		t.Errorf("ContrastRatio should be symmetric, got %v", got)
	}
	if got := ContrastRatio(white, white); got != 1 {
		t.Errorf("ContrastRatio(white, white) = %v, want 1", got)
	}
}

func TestRoundTo(t *testing.T) {
	if got := roundTo(0.12345, 3); got != 0.123 {
		t.Errorf("roundTo = %v, want 0.123", got)
	}
}
