// Package pcm adapts github.com/go-audio/wav's buffered PCM API to the
// one-sample-at-a-time source/sink contract spec §6 names as NEAC's
// external collaborator interface.
package pcm

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// chunkSize is the batch size used to pull samples from the underlying
// wav.Decoder, matching the chunking formeo-go-audio-converter's WAV
// decoder uses.
const chunkSize = 4096

// Source reads interleaved PCM samples from a WAV file one sample at a
// time, buffering internally in chunks.
type Source struct {
	dec    *wav.Decoder
	buf    *audio.IntBuffer
	pos    int
	n      int
	sample int
}

// NewSource opens r as a WAV stream and returns a Source. r must be
// backed by an io.ReadSeeker, matching wav.NewDecoder's requirement.
func NewSource(r io.ReadSeeker) (*Source, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, io.ErrUnexpectedEOF
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, err
	}
	return &Source{
		dec: dec,
		buf: &audio.IntBuffer{
			Data:   make([]int, chunkSize),
			Format: &audio.Format{SampleRate: int(dec.SampleRate), NumChannels: int(dec.NumChans)},
		},
	}, nil
}

// SampleRate, BitsPerSample and NumChannels expose the WAV file's PCM
// descriptors, as spec §6's collaborator interface requires.
func (s *Source) SampleRate() uint32   { return s.dec.SampleRate }
func (s *Source) BitsPerSample() uint8 { return uint8(s.dec.BitDepth) }
func (s *Source) NumChannels() uint8   { return uint8(s.dec.NumChans) }

// ReadSample returns the next interleaved sample, refilling its internal
// chunk buffer from the WAV decoder as needed. io.EOF is returned once
// the underlying stream is exhausted.
func (s *Source) ReadSample() (int32, error) {
	if s.pos >= s.n {
		n, err := s.dec.PCMBuffer(s.buf)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, io.EOF
		}
		s.n = n
		s.pos = 0
	}
	v := int32(s.buf.Data[s.pos])
	s.pos++
	return v, nil
}

// Sink writes interleaved PCM samples to a WAV file one sample at a
// time, buffering internally in chunks before handing them to
// wav.Encoder.
type Sink struct {
	enc    *wav.Encoder
	buf    []int
	format *audio.Format
	bits   int
}

// NewSink creates a WAV encoder writing to w with the given PCM
// descriptors. w must be an io.WriteSeeker, matching wav.NewEncoder's
// requirement (the WAV header's data-length field is patched after all
// samples are written).
func NewSink(w io.WriteSeeker, sampleRate int, bitsPerSample, numChannels uint8) *Sink {
	enc := wav.NewEncoder(w, sampleRate, int(bitsPerSample), int(numChannels), 1)
	return &Sink{
		enc:    enc,
		buf:    make([]int, 0, chunkSize),
		format: &audio.Format{SampleRate: sampleRate, NumChannels: int(numChannels)},
		bits:   int(bitsPerSample),
	}
}

// WriteSample appends one interleaved sample, flushing to the WAV
// encoder once a full chunk has accumulated.
func (s *Sink) WriteSample(v int32) error {
	s.buf = append(s.buf, int(v))
	if len(s.buf) == cap(s.buf) {
		return s.flush()
	}
	return nil
}

func (s *Sink) flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	ib := &audio.IntBuffer{Data: s.buf, Format: s.format, SourceBitDepth: s.bits}
	if err := s.enc.Write(ib); err != nil {
		return err
	}
	s.buf = s.buf[:0]
	return nil
}

// Close flushes any buffered samples and finalizes the WAV file.
func (s *Sink) Close() error {
	if err := s.flush(); err != nil {
		return err
	}
	return s.enc.Close()
}
