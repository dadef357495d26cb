package neac

import (
	"io"

	"github.com/pkg/errors"

	"github.com/neac-audio/neac/block"
	neacbits "github.com/neac-audio/neac/internal/bits"
	"github.com/neac-audio/neac/tag"
)

// Decoder reads one NEAC stream from an underlying io.Reader. Like
// Encoder, it is not safe for concurrent use.
type Decoder struct {
	format Format
	tag    *tag.Tag
	codec  *block.Codec
	br     *neacbits.Reader

	curBlock    *block.Block
	curChannel  int
	curOffset   int
	blockSize   int
	numChannels int

	samplesRead   uint32
	blocksDecoded uint32
}

// Open reads and validates the header and tag record from r, then
// returns a Decoder ready to deliver samples via ReadSample.
func Open(r io.Reader) (*Decoder, error) {
	br := bufReader(r)

	format, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	tg, err := tag.Read(br)
	if err != nil {
		return nil, wrapError(IoFailure, "read tag", errors.WithStack(err))
	}

	numChannels := int(format.Channels)
	blockSize := int(format.BlockSize)
	d := &Decoder{
		format:      *format,
		tag:         tg,
		codec:       block.NewCodec(numChannels, format.FilterTaps, format.BitsPerSample, format.UseMidSide, format.DisablePolynomialPredictor),
		br:          neacbits.NewReader(br),
		blockSize:   blockSize,
		numChannels: numChannels,
	}
	return d, nil
}

// Format returns the stream's decoded PCM and codec descriptors.
func (d *Decoder) Format() Format {
	return d.format
}

// Tag returns the stream's metadata record (never nil; empty if absent).
func (d *Decoder) Tag() *tag.Tag {
	return d.tag
}

// ReadSample returns the next interleaved sample. Reads beyond
// TotalSamples return 0 without advancing any internal state, per
// spec §4.7's streaming invariant.
func (d *Decoder) ReadSample() (int32, error) {
	if d.samplesRead >= d.format.TotalSamples {
		return 0, nil
	}

	if d.curBlock == nil {
		if err := d.decodeNextBlock(); err != nil {
			return 0, err
		}
	}

	v := d.curBlock.Channels[d.curChannel][d.curOffset]
	d.samplesRead++

	d.curChannel++
	if d.curChannel == d.numChannels {
		d.curChannel = 0
		d.curOffset++
		if d.curOffset == d.blockSize {
			d.curBlock = nil
			d.curOffset = 0
		}
	}
	return v, nil
}

func (d *Decoder) decodeNextBlock() error {
	blk, err := d.codec.DecodeBlock(d.br, d.numChannels, d.blockSize)
	if err != nil {
		return wrapError(IoFailure, "decode block", errors.WithStack(err))
	}
	d.curBlock = blk
	d.blocksDecoded++
	return nil
}

// Close releases the decoder. NEAC decoders hold no resources beyond the
// provided io.Reader (which the caller owns and closes), so this is a
// no-op kept for symmetry with Encoder.Close and the collaborator
// interface named in spec §6 (decoder_close).
func (d *Decoder) Close() error {
	return nil
}
