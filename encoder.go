package neac

import (
	"crypto/md5"
	"io"

	"github.com/pkg/errors"

	"github.com/neac-audio/neac/block"
	neacbits "github.com/neac-audio/neac/internal/bits"
	"github.com/neac-audio/neac/tag"
)

// EncodeOptions carries encoder configuration that is not itself a PCM
// descriptor: the mid/side switch and the supplemented
// disable_simple_predictor mode live on Format directly since they are
// persisted in the header; EncodeOptions is reserved for options that do
// not need to survive into the decoded stream. It is empty today but
// kept as the documented extension point the container interface
// (spec §6: "encoder_create(sink, format, options, tag)") names.
type EncodeOptions struct{}

// Encoder writes one NEAC stream to an underlying io.Writer. It is not
// safe for concurrent use; per spec §5, a codec instance is owned by a
// single goroutine and concurrent streams require separate Encoders.
type Encoder struct {
	w      io.Writer
	format Format
	tag    *tag.Tag
	codec  *block.Codec
	bw     *neacbits.Writer

	curBlock      *block.Block
	curChannel    int
	curOffset     int
	blockSize     int
	numChannels   int
	blocksFlushed uint32

	md5            hashWriter
	sourceMD5Known bool
}

// hashWriter is the subset of hash.Hash the encoder needs; named here so
// the field above can be swapped for a no-op when MD5 tracking is
// unnecessary, without importing crypto/md5's concrete type into the
// struct literal.
type hashWriter interface {
	io.Writer
	Sum(b []byte) []byte
}

// NewEncoder writes the container header and tag record for format and
// tg, then returns an Encoder ready to accept samples via WriteSample.
// format.TotalSamples must already be set by the caller; NewEncoder
// computes format.NumBlocks from it, overwriting any value the caller
// set, and validates the rest of format.
func NewEncoder(w io.Writer, format Format, opts EncodeOptions, tg *tag.Tag) (*Encoder, error) {
	if format.FilterTaps > 32 {
		// spec §7: filter taps > 32 on encode is clamped, not fatal,
		// unlike the decode path where it indicates a corrupt stream.
		format.FilterTaps = 32
	}
	if err := validateFormatShape(&format); err != nil {
		return nil, err
	}
	format.NumBlocks = numBlocksFor(format.TotalSamples, format.Channels, format.BlockSize)

	if err := writeHeader(w, &format); err != nil {
		return nil, err
	}
	if err := tag.Write(w, tg); err != nil {
		return nil, wrapError(IoFailure, "write tag", errors.WithStack(err))
	}

	numChannels := int(format.Channels)
	blockSize := int(format.BlockSize)
	e := &Encoder{
		w:           w,
		format:      format,
		tag:         tg,
		codec:       block.NewCodec(numChannels, format.FilterTaps, format.BitsPerSample, format.UseMidSide, format.DisablePolynomialPredictor),
		bw:          neacbits.NewWriter(w),
		curBlock:    block.NewBlock(numChannels, blockSize),
		blockSize:   blockSize,
		numChannels: numChannels,
		md5:         md5.New(),
	}
	return e, nil
}

// Format returns the PCM and codec descriptors the encoder is actually
// using, post-validation. In particular FilterTaps reflects the clamp
// spec §7 mandates when the caller's requested format.FilterTaps exceeded
// 32; a caller that cares whether its request was clamped compares its
// own value against this one and warns accordingly (see cmd/neac/encode.go).
func (e *Encoder) Format() Format {
	return e.format
}

// WriteSample accepts the next interleaved PCM sample, filling channel
// curChannel at the current sub-block offset, then advancing channel
// then offset. When a block fills it is encoded and flushed immediately.
func (e *Encoder) WriteSample(v int32) error {
	e.hashSample(v)

	e.curBlock.Channels[e.curChannel][e.curOffset] = v
	e.curChannel++
	if e.curChannel == e.numChannels {
		e.curChannel = 0
		e.curOffset++
		if e.curOffset == e.blockSize {
			if err := e.flushBlock(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Encoder) flushBlock() error {
	if err := e.codec.EncodeBlock(e.bw, e.curBlock); err != nil {
		return wrapError(IoFailure, "encode block", errors.WithStack(err))
	}
	e.blocksFlushed++
	e.curBlock = block.NewBlock(e.numChannels, e.blockSize)
	e.curOffset = 0
	return nil
}

func (e *Encoder) hashSample(v int32) {
	bytesPerSample := 2
	if e.format.BitsPerSample == 24 {
		bytesPerSample = 3
	}
	var buf [4]byte
	u := uint32(v)
	for i := 0; i < bytesPerSample; i++ {
		buf[i] = byte(u >> (8 * uint(i)))
	}
	e.md5.Write(buf[:bytesPerSample])
}

// Close encodes any partially filled trailing block (padded with zero
// samples, which the decoder ignores past TotalSamples), flushes the bit
// buffer, and, if w is also an io.WriteSeeker, patches the header's
// SourceMD5 field with the digest of the samples written. Streams
// written to a non-seekable writer keep a zero SourceMD5.
func (e *Encoder) Close() error {
	if e.curOffset > 0 || e.curChannel > 0 {
		if err := e.flushBlock(); err != nil {
			return err
		}
	}
	if err := e.bw.Close(); err != nil {
		return wrapError(IoFailure, "flush bit stream", errors.WithStack(err))
	}

	if ws, ok := e.w.(io.WriteSeeker); ok {
		var sum [16]byte
		copy(sum[:], e.md5.Sum(nil))
		if err := patchSourceMD5(ws, sum); err != nil {
			return wrapError(IoFailure, "patch source md5", errors.WithStack(err))
		}
	}
	return nil
}

// sourceMD5Offset is the byte offset of the SourceMD5 field within the
// header, following magic(4)+version(1)+sample_rate(4)+bits(1)+
// channels(1)+total_samples(4)+taps(1)+block_size(2)+mid_side(1)+
// num_blocks(4)+extension_flags(1).
const sourceMD5Offset = 4 + 1 + 4 + 1 + 1 + 4 + 1 + 2 + 1 + 4 + 1

func patchSourceMD5(ws io.WriteSeeker, sum [16]byte) error {
	if _, err := ws.Seek(sourceMD5Offset, io.SeekStart); err != nil {
		return err
	}
	_, err := ws.Write(sum[:])
	return err
}
