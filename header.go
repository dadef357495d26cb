package neac

import (
	"bufio"
	"encoding/binary"
	"io"
)

// magic is the 4-byte signature every NEAC stream begins with.
var magic = [4]byte{'N', 'E', 'A', 'C'}

// FormatVersion is the only format version this implementation writes
// and accepts. See DESIGN.md's Open Question log for why the original
// source's own version constants disagree with each other and why this
// implementation fixes on a single value instead of inferring one.
const FormatVersion = 1

// partitionAlignment is the block size granularity the Rice partition
// search requires: block_size must divide evenly by 2^4 (the largest
// partition order), so every candidate pp in [1,4] yields equal-sized
// partitions.
const partitionAlignment = 16

// writeHeader emits the container header: magic, version, PCM
// descriptors, and codec descriptors. Per DESIGN.md, every header field
// is byte-aligned and written with plain little-endian encoding, never
// through the bit stream, matching the original encoder's own split
// between header I/O and block-payload I/O.
func writeHeader(w io.Writer, f *Format) error {
	if _, err := w.Write(magic[:]); err != nil {
		return wrapError(IoFailure, "write magic", err)
	}
	fields := []any{
		uint8(FormatVersion),
		f.SampleRate,
		f.BitsPerSample,
		f.Channels,
		f.TotalSamples,
		f.FilterTaps,
		f.BlockSize,
		boolToUint8(f.UseMidSide),
		f.NumBlocks,
		extensionFlags(f),
		f.SourceMD5,
	}
	for _, v := range fields {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return wrapError(IoFailure, "write header field", err)
		}
	}
	return nil
}

// extensionFlags packs the fields this implementation adds beyond
// spec.md's binding byte layout (spec §6 bytes 0..22) into a single byte
// that follows num_blocks. Bit 0 is disable_simple_predictor, recovered
// from the original source per SPEC_FULL.md's supplemented-features
// section; spec.md's own fields (bytes 0..22) are unaffected by this
// extension, which only appends.
func extensionFlags(f *Format) uint8 {
	var flags uint8
	if f.DisablePolynomialPredictor {
		flags |= 1
	}
	return flags
}

// readHeader reads and validates the container header, returning the
// decoded Format.
func readHeader(r io.Reader) (*Format, error) {
	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, wrapError(IoFailure, "read magic", err)
	}
	if gotMagic != magic {
		return nil, newError(MalformedInput, "bad magic")
	}

	var version uint8
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, wrapError(IoFailure, "read format version", err)
	}
	if version != FormatVersion {
		return nil, newError(MalformedInput, "unsupported format version")
	}

	f := &Format{}
	fields := []any{
		&f.SampleRate,
		&f.BitsPerSample,
		&f.Channels,
		&f.TotalSamples,
		&f.FilterTaps,
		&f.BlockSize,
	}
	for _, v := range fields {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, wrapError(IoFailure, "read header field", err)
		}
	}

	var midSide uint8
	if err := binary.Read(r, binary.LittleEndian, &midSide); err != nil {
		return nil, wrapError(IoFailure, "read use_mid_side", err)
	}
	f.UseMidSide = midSide != 0

	if err := binary.Read(r, binary.LittleEndian, &f.NumBlocks); err != nil {
		return nil, wrapError(IoFailure, "read num_blocks", err)
	}

	var flags uint8
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return nil, wrapError(IoFailure, "read extension flags", err)
	}
	f.DisablePolynomialPredictor = flags&1 != 0

	if err := binary.Read(r, binary.LittleEndian, &f.SourceMD5); err != nil {
		return nil, wrapError(IoFailure, "read source md5", err)
	}

	if err := validateDecodedFormat(f); err != nil {
		return nil, err
	}
	return f, nil
}

// validateDecodedFormat applies on the decode path, where an
// out-of-range value is evidence of a corrupt or malicious stream and
// must be rejected outright.
func validateDecodedFormat(f *Format) error {
	if f.FilterTaps > 32 {
		return newError(MalformedInput, "filter_taps must be <= 32")
	}
	return validateFormatShape(f)
}

// validateFormatShape checks the fields both the encode and decode
// paths agree must hold regardless of how filter_taps is handled.
func validateFormatShape(f *Format) error {
	if f.BitsPerSample != 16 && f.BitsPerSample != 24 {
		return newError(MalformedInput, "bits_per_sample must be 16 or 24")
	}
	if f.Channels != 1 && f.Channels != 2 {
		return newError(MalformedInput, "channels must be 1 or 2")
	}
	if f.BlockSize == 0 || f.BlockSize%partitionAlignment != 0 {
		return newError(MalformedInput, "block_size must be a positive multiple of 16")
	}
	return nil
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// bufReader is a small forward-only buffering wrapper used by Decoder.
// The teacher's internal/bufseekio additionally supports seeking to
// back a FLAC seek table; NEAC has no seek operation (spec's Non-goals
// excludes sub-block seeking), so a plain bufio.Reader is sufficient and
// needs no third-party replacement — see DESIGN.md.
func bufReader(r io.Reader) *bufio.Reader {
	return bufio.NewReader(r)
}
