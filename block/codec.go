package block

import (
	"github.com/neac-audio/neac/internal/bits"
	"github.com/neac-audio/neac/predictor"
	"github.com/neac-audio/neac/rice"
)

// Codec drives the per-channel predictor cascade and the Rice coder for
// one stream. Each channel owns an independent Polynomial and LMS; they
// are never shared or cross-referenced across channels.
type Codec struct {
	useMidSide  bool
	disablePoly bool
	polys       []*predictor.Polynomial
	lmses       []*predictor.LMS
}

// NewCodec allocates per-channel predictor state for numChannels
// channels, an LMS with the given tap count sized for pcmBits.
// disablePoly skips the polynomial predictor stage, running the LMS
// filter directly on raw samples (the supplemented
// disable_simple_predictor mode, see DESIGN.md).
func NewCodec(numChannels int, taps, pcmBits uint8, useMidSide, disablePoly bool) *Codec {
	c := &Codec{
		useMidSide:  useMidSide,
		disablePoly: disablePoly,
		polys:       make([]*predictor.Polynomial, numChannels),
		lmses:       make([]*predictor.LMS, numChannels),
	}
	for i := 0; i < numChannels; i++ {
		c.polys[i] = &predictor.Polynomial{}
		c.lmses[i] = predictor.NewLMS(taps, pcmBits)
	}
	return c
}

// EncodeBlock applies the mid/side transform (if enabled and stereo),
// runs the polynomial-then-LMS predictor cascade per channel producing
// residuals, and writes the partitioned Rice coding of each sub-block's
// residuals to bw. When the mid/side transform applies, blk's channels
// are overwritten with the M and S values; the residuals are computed
// into a separate buffer and are not stored in blk.
func (c *Codec) EncodeBlock(bw *bits.Writer, blk *Block) error {
	if c.useMidSide && len(blk.Channels) == 2 {
		ch0, ch1 := blk.Channels[0], blk.Channels[1]
		for i := range ch0 {
			m, s := EncodeMidSide(ch0[i], ch1[i])
			ch0[i], ch1[i] = m, s
		}
	}

	for ch, sub := range blk.Channels {
		poly := c.polys[ch]
		lms := c.lmses[ch]
		residuals := make([]int32, len(sub))
		for i, x := range sub {
			var r1 int32
			if c.disablePoly {
				r1 = x
			} else {
				polyPred := poly.Predict()
				r1 = x - polyPred
				poly.Update(x)
			}

			lmsPred := lms.Predict()
			r2 := r1 - lmsPred
			lms.Update(r1, r2)

			residuals[i] = r2
		}
		if err := rice.EncodePartitioned(bw, residuals); err != nil {
			return err
		}
	}
	return nil
}

// DecodeBlock reads numChannels partitioned Rice-coded sub-blocks of
// blockSize residuals each from br, reverses the predictor cascade, and,
// if mid/side is enabled, applies the inverse stereo transform. It
// returns the reconstructed block.
func (c *Codec) DecodeBlock(br *bits.Reader, numChannels, blockSize int) (*Block, error) {
	blk := NewBlock(numChannels, blockSize)
	for ch := 0; ch < numChannels; ch++ {
		residuals, err := rice.DecodePartitioned(br, blockSize)
		if err != nil {
			return nil, err
		}
		poly := c.polys[ch]
		lms := c.lmses[ch]
		out := blk.Channels[ch]
		for i, r2 := range residuals {
			lmsPred := lms.Predict()
			r1 := r2 + lmsPred
			lms.Update(r1, r2)

			var x int32
			if c.disablePoly {
				x = r1
			} else {
				x = r1 + poly.Predict()
				poly.Update(x)
			}

			out[i] = x
		}
	}

	if c.useMidSide && numChannels == 2 {
		ch0, ch1 := blk.Channels[0], blk.Channels[1]
		for i := range ch0 {
			l, r := DecodeMidSide(ch0[i], ch1[i])
			ch0[i], ch1[i] = l, r
		}
	}
	return blk, nil
}
