package predictor_test

import (
	"testing"

	"github.com/neac-audio/neac/predictor"
)

func TestPolynomialResetIsZero(t *testing.T) {
	var p predictor.Polynomial
	if got := p.Predict(); got != 0 {
		t.Fatalf("Predict() on zero value = %d, want 0", got)
	}
	p.Update(1000)
	p.Reset()
	if got := p.Predict(); got != 0 {
		t.Fatalf("Predict() after Reset = %d, want 0", got)
	}
}

func TestPolynomialTracksConstantSignal(t *testing.T) {
	// With p1 = p2 = 1000 the prediction is 2*((1000*15)>>4) - ((1000*7)>>3)
	// = 2*937 - 875 = 999: the truncating shifts leave it one below the input.
	var p predictor.Polynomial
	var last int32
	for i := 0; i < 50; i++ {
		last = p.Predict()
		p.Update(1000)
	}
	if last != 999 {
		t.Fatalf("Predict() after converging on constant 1000 = %d, want 999", last)
	}
}

func TestLMSZeroTapsIsNoop(t *testing.T) {
	f := predictor.NewLMS(0, 16)
	if got := f.Predict(); got != 0 {
		t.Fatalf("Predict() with 0 taps = %d, want 0", got)
	}
	f.Update(12345, 6789)
	if got := f.Predict(); got != 0 {
		t.Fatalf("Predict() after Update with 0 taps = %d, want 0", got)
	}
}

func TestLMSResetClearsState(t *testing.T) {
	f := predictor.NewLMS(4, 16)
	for i := 0; i < 10; i++ {
		f.Update(int32(i*37-5), int32(i-3))
	}
	f.Reset()
	if got := f.Predict(); got != 0 {
		t.Fatalf("Predict() after Reset = %d, want 0", got)
	}
}

func TestLMSShiftByPCMWidth(t *testing.T) {
	// same weight/history trajectory, different pcmBits must not predict
	// identically once weights have adapted away from zero, because the
	// shift constants differ (9 vs 8).
	f16 := predictor.NewLMS(1, 16)
	f24 := predictor.NewLMS(1, 24)

	samples := []int32{100, -50, 25, 200, -300}
	for _, s := range samples {
		f16.Update(s, s)
		f24.Update(s, s)
	}

	p16 := f16.Predict()
	p24 := f24.Predict()
	if p16 == p24 {
		t.Fatalf("expected differing predictions for differing pcm widths after adaptation, got %d == %d", p16, p24)
	}
}
