package luminance

import (
	"image/color"
	"math"
	"testing"

	"github.com/richinsley/liquidglass/geometry"
	"github.com/richinsley/liquidglass/graphics/graphicstest"
)

func uniform(t *testing.T, c color.RGBA, w, h int) (*graphicstest.Recorder, *graphicstest.Framebuffer) {
	t.Helper()
	rec := graphicstest.NewRecorder()
	return rec, rec.NewTarget(w, h, c)
}

func TestRelative(t *testing.T) {
	tests := []struct {
		c    color.RGBA
		want float64
	}{
		{color.RGBA{255, 255, 255, 255}, 1.0},
		{color.RGBA{0, 0, 0, 255}, 0.0},
		{color.RGBA{128, 128, 128, 255}, 128.0 / 255.0},
		{color.RGBA{255, 0, 0, 255}, 0.2126},
		{color.RGBA{0, 255, 0, 255}, 0.7152},
		{color.RGBA{0, 0, 255, 255}, 0.0722},
	}
	for _, tt := range tests {
		if got := Relative(tt.c.R, tt.c.G, tt.c.B); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Relative(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestUpdateUniformBuffers(t *testing.T) {
	tests := []struct {
		name string
		c    color.RGBA
		want float64
	}{
		{"white", color.RGBA{255, 255, 255, 255}, 1.0},
		{"black", color.RGBA{0, 0, 0, 255}, 0.0},
		{"mid grey", color.RGBA{128, 128, 128, 255}, 0.502},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, fb := uniform(t, tt.c, 200, 120)
			e := NewEstimator(rec, 1)
			got := e.Update(fb, geometry.Box{W: 200, H: 120})
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Update() = %.4f, want %.3f", got, tt.want)
			}
		})
	}
}

func TestUpdateCadence(t *testing.T) {
	rec, fb := uniform(t, color.RGBA{255, 255, 255, 255}, 64, 64)
	e := NewEstimator(rec, DefaultInterval)
	box := geometry.Box{W: 64, H: 64}

	prev := e.Last()
	for call := 1; call <= 100; call++ {
		got := e.Update(fb, box)
		switch {
		case call < 10:
			if got != Default {
				t.Fatalf("call %d: got %v before the first readback, want %v", call, got, Default)
			}
		case call%10 != 0:
			if got != prev {
				t.Fatalf("call %d: value changed between readbacks (%v -> %v)", call, prev, got)
			}
		}
		if call%10 == 0 && e.Readbacks() != call/10 {
			t.Fatalf("call %d: readbacks = %d, want %d", call, e.Readbacks(), call/10)
		}
		prev = got
	}
	if e.Readbacks() != 10 {
		t.Errorf("readbacks after 100 calls = %d, want 10", e.Readbacks())
	}
	if prev != 1.0 {
		t.Errorf("final value = %v, want 1.0", prev)
	}
}

func TestUpdateGridSampleCount(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{4096, 2160, 64},
		{250, 250, 81}, // step 31 leaves room for a ninth sample per axis
		{1001, 1001, 81},
		{17, 3000, 2 * 8},
		{8, 8, 1},
		{32, 32, 4},
	}
	for _, tt := range tests {
		rec, fb := uniform(t, color.RGBA{10, 20, 30, 255}, tt.w, tt.h)
		e := NewEstimator(rec, 1)
		e.Update(fb, geometry.Box{W: float64(tt.w), H: float64(tt.h)})
		if rec.Reads != tt.want {
			t.Errorf("%dx%d: %d readbacks, want %d", tt.w, tt.h, rec.Reads, tt.want)
		}
	}
}

func TestUpdateDegenerateKeepsCache(t *testing.T) {
	rec, fb := uniform(t, color.RGBA{255, 255, 255, 255}, 32, 32)
	e := NewEstimator(rec, 1)
	if got := e.Update(fb, geometry.Box{W: 32, H: 32}); got != 1.0 {
		t.Fatalf("Update() = %v, want 1.0", got)
	}

	fb.Fill(color.RGBA{0, 0, 0, 255})
	for _, box := range []geometry.Box{{W: 0, H: 32}, {W: 32, H: -1}} {
		if got := e.Update(fb, box); got != 1.0 {
			t.Errorf("Update(%v) = %v, want cached 1.0", box, got)
		}
	}
	if got := e.Update(nil, geometry.Box{W: 32, H: 32}); got != 1.0 {
		t.Errorf("Update(nil buffer) = %v, want cached 1.0", got)
	}
	if rec.Reads != 4 {
		t.Errorf("reads = %d, want only the first pass (4)", rec.Reads)
	}
}
