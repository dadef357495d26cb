package block_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/neac-audio/neac/block"
	neacbits "github.com/neac-audio/neac/internal/bits"
	"github.com/neac-audio/neac/rice"
)

func roundTrip(t *testing.T, numChannels int, taps, pcmBits uint8, useMidSide bool, channels [][]int32) [][]int32 {
	return roundTripOpt(t, numChannels, taps, pcmBits, useMidSide, false, channels)
}

func roundTripOpt(t *testing.T, numChannels int, taps, pcmBits uint8, useMidSide, disablePoly bool, channels [][]int32) [][]int32 {
	t.Helper()
	blockSize := len(channels[0])

	enc := block.NewCodec(numChannels, taps, pcmBits, useMidSide, disablePoly)
	in := block.NewBlock(numChannels, blockSize)
	for c := 0; c < numChannels; c++ {
		copy(in.Channels[c], channels[c])
	}

	var buf bytes.Buffer
	bw := neacbits.NewWriter(&buf)
	if err := enc.EncodeBlock(bw, in); err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dec := block.NewCodec(numChannels, taps, pcmBits, useMidSide, disablePoly)
	br := neacbits.NewReader(&buf)
	out, err := dec.DecodeBlock(br, numChannels, blockSize)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}

	got := make([][]int32, numChannels)
	for c := 0; c < numChannels; c++ {
		got[c] = []int32(out.Channels[c])
	}
	return got
}

func assertEqual(t *testing.T, got, want [][]int32) {
	t.Helper()
	for c := range want {
		if len(got[c]) != len(want[c]) {
			t.Fatalf("channel %d: length %d, want %d", c, len(got[c]), len(want[c]))
		}
		for i := range want[c] {
			if got[c][i] != want[c][i] {
				t.Fatalf("channel %d sample %d: got %d, want %d", c, i, got[c][i], want[c][i])
			}
		}
	}
}

func TestAllZeroMonoSingleBlankPartition(t *testing.T) {
	channels := [][]int32{make([]int32, 1024)}
	got := roundTrip(t, 1, 4, 16, false, channels)
	assertEqual(t, got, channels)

	// All residuals are zero, so the sub-block is one partition set at
	// pp=1 whose two partitions are both BlankPartition: the 2-bit pp
	// field and two 5-bit parameters, 12 bits in 2 bytes, no payload.
	var buf bytes.Buffer
	bw := neacbits.NewWriter(&buf)
	if err := block.NewCodec(1, 4, 16, false, false).EncodeBlock(bw, block.NewBlock(1, 1024)); err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	br := neacbits.NewReader(&buf)
	if pp, err := br.ReadUint(2); err != nil || pp != 0 {
		t.Fatalf("pp field = %d, %v; want 0 (pp=1)", pp, err)
	}
	for i := 0; i < 2; i++ {
		if k, err := br.ReadUint(5); err != nil || k != rice.BlankPartition {
			t.Fatalf("partition %d parameter = %d, %v; want BlankPartition", i, k, err)
		}
	}
	if buf.Len() != 0 {
		t.Fatalf("%d bytes left after the partition header, want 0", buf.Len())
	}
}

func TestAlternatingSign(t *testing.T) {
	n := 1024
	ch := make([]int32, n)
	for i := range ch {
		if i%2 == 0 {
			ch[i] = 1
		} else {
			ch[i] = -1
		}
	}
	channels := [][]int32{ch}
	got := roundTrip(t, 1, 4, 16, false, channels)
	assertEqual(t, got, channels)
}

func TestStereoSineAndNegationWithMidSide(t *testing.T) {
	n := 8192
	l := make([]int32, n)
	r := make([]int32, n)
	for i := 0; i < n; i++ {
		v := int32(10000.0 * sin440(i))
		l[i] = v
		r[i] = -v
	}
	channels := [][]int32{l, r}
	got := roundTrip(t, 2, 4, 16, true, channels)
	assertEqual(t, got, channels)
}

func sin440(i int) float64 {
	const sampleRate = 44100.0
	const freq = 440.0
	const twoPi = 6.283185307179586
	x := twoPi * freq * float64(i) / sampleRate
	// minimax-free sine via math.Sin would pull in "math" only for this
	// helper; kept local and simple is fine for a deterministic test
	// fixture, precision requirements here are loose (int32 truncation).
	return sinApprox(x)
}

func sinApprox(x float64) float64 {
	// reduce to [-pi, pi] then use a standard 5th-order Taylor-ish
	// approximation; adequate for generating a smooth bounded test
	// waveform, not for audio fidelity claims.
	const twoPi = 6.283185307179586
	for x > 3.14159265 {
		x -= twoPi
	}
	for x < -3.14159265 {
		x += twoPi
	}
	x3 := x * x * x
	x5 := x3 * x * x
	return x - x3/6 + x5/120
}

func Test24BitUniformRandomWithMaxTaps(t *testing.T) {
	n := 10000
	ch := make([]int32, n)
	rng := rand.New(rand.NewSource(1))
	for i := range ch {
		ch[i] = int32(rng.Intn(1<<24) - (1 << 23))
	}
	channels := [][]int32{ch}
	got := roundTrip(t, 1, 32, 24, false, channels)
	assertEqual(t, got, channels)
}

func TestDisablePolynomialPredictorRoundTrips(t *testing.T) {
	n := 512
	ch := make([]int32, n)
	rng := rand.New(rand.NewSource(3))
	for i := range ch {
		ch[i] = int32(rng.Intn(1<<16) - (1 << 15))
	}
	channels := [][]int32{ch}
	got := roundTripOpt(t, 1, 8, 16, false, true, channels)
	assertEqual(t, got, channels)
}

func TestZeroTapsStillRoundTrips(t *testing.T) {
	n := 256
	ch := make([]int32, n)
	rng := rand.New(rand.NewSource(2))
	for i := range ch {
		ch[i] = int32(rng.Intn(1<<16) - (1 << 15))
	}
	channels := [][]int32{ch}
	got := roundTrip(t, 1, 0, 16, false, channels)
	assertEqual(t, got, channels)
}
