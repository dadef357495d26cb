// Package block implements NEAC's per-block processing: the optional
// mid/side stereo transform and the two-stage predictor cascade that
// turns a block's raw samples into entropy-codable residuals, and back.
package block

// EncodeMidSide decorrelates a stereo sample pair into mid/side form.
// The low bit of (L+R) that the arithmetic shift discards is preserved
// by S's parity, which DecodeMidSide relies on to invert exactly.
func EncodeMidSide(l, r int32) (m, s int32) {
	m = (l + r) >> 1
	s = l - r
	return m, s
}

// DecodeMidSide is the exact inverse of EncodeMidSide.
func DecodeMidSide(m, s int32) (l, r int32) {
	mPrime := (m << 1) | (s & 1)
	l = (mPrime + s) >> 1
	r = (mPrime - s) >> 1
	return l, r
}
