package neac

// Format describes a NEAC stream's PCM shape and codec geometry, the
// fixed-width fields that make up the file header (spec §6). All
// multi-byte integers in the on-disk representation are little-endian.
type Format struct {
	SampleRate    uint32
	BitsPerSample uint8 // 16 or 24
	Channels      uint8 // 1 or 2
	TotalSamples  uint32 // interleaved sample count
	FilterTaps    uint8  // LMS tap count, <= 32
	BlockSize     uint16
	UseMidSide    bool
	NumBlocks     uint32

	// DisablePolynomialPredictor, when set, skips the polynomial
	// predictor stage entirely and runs the LMS filter directly on raw
	// samples. Recovered from the original source (see DESIGN.md); when
	// false (the default), the block codec always runs both cascade
	// stages, matching spec §4.6's mandated behavior.
	DisablePolynomialPredictor bool

	// SourceMD5 is an MD5 digest of the raw interleaved PCM samples as
	// presented to the encoder, recorded for provenance; it is not a
	// checksum of the coded bitstream (spec's Non-goals exclude those).
	// It is only populated when the encoder's underlying writer supports
	// seeking (see Encoder.Close); otherwise it is left zero.
	SourceMD5 [16]byte
}

// numBlocksFor returns ceil((totalSamples / channels) / blockSize), the
// num_blocks header field.
func numBlocksFor(totalSamples uint32, channels uint8, blockSize uint16) uint32 {
	if channels == 0 || blockSize == 0 {
		return 0
	}
	perChannel := totalSamples / uint32(channels)
	return (perChannel + uint32(blockSize) - 1) / uint32(blockSize)
}
