package main

import (
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/neac-audio/neac"
	"github.com/neac-audio/neac/pcm"
	"github.com/neac-audio/neac/tag"
)

type encodeFlags struct {
	in, out     string
	blockSize   uint16
	filterTaps  uint8
	midSide     bool
	title       string
	album       string
	artist      string
	albumArtist string
	subtitle    string
	publisher   string
	composer    string
	songwriter  string
	conductor   string
	copyright   string
	genre       string
	year        uint16
	trackNumber uint16
	trackCount  uint16
	disc        uint16
	rate        uint16
	comment     string
}

func newEncodeCmd() *cobra.Command {
	var f encodeFlags
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a WAV file to NEAC",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(&f)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.in, "in", "", "input WAV path (required)")
	flags.StringVar(&f.out, "out", "", "output NEAC path (required)")
	flags.Uint16Var(&f.blockSize, "blocksize", 4096, "samples per block, multiple of 16")
	flags.Uint8Var(&f.filterTaps, "filter-taps", 8, "LMS filter tap count, 0-32")
	flags.BoolVar(&f.midSide, "midside", true, "enable mid/side stereo decorrelation (stereo only)")
	flags.StringVar(&f.title, "title", "", "tag: title")
	flags.StringVar(&f.album, "album", "", "tag: album")
	flags.StringVar(&f.artist, "artist", "", "tag: artist")
	flags.StringVar(&f.albumArtist, "album-artist", "", "tag: album artist")
	flags.StringVar(&f.subtitle, "subtitle", "", "tag: subtitle")
	flags.StringVar(&f.publisher, "publisher", "", "tag: publisher")
	flags.StringVar(&f.composer, "composer", "", "tag: composer")
	flags.StringVar(&f.songwriter, "songwriter", "", "tag: songwriter")
	flags.StringVar(&f.conductor, "conductor", "", "tag: conductor")
	flags.StringVar(&f.copyright, "copyright", "", "tag: copyright")
	flags.StringVar(&f.genre, "genre", "", "tag: genre")
	flags.Uint16Var(&f.year, "year", 0, "tag: year")
	flags.Uint16Var(&f.trackNumber, "track-number", 0, "tag: track number")
	flags.Uint16Var(&f.trackCount, "track-count", 0, "tag: track count")
	flags.Uint16Var(&f.disc, "disc", 0, "tag: disc number")
	flags.Uint16Var(&f.rate, "rate", 0, "tag: user rating")
	flags.StringVar(&f.comment, "comment", "", "tag: comment")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runEncode(f *encodeFlags) error {
	if verbose {
		log.Printf("encoding %s -> %s", f.in, f.out)
	}

	inFile, err := os.Open(f.in)
	if err != nil {
		return errors.Wrapf(err, "open %s", f.in)
	}
	defer inFile.Close()

	src, err := pcm.NewSource(inFile)
	if err != nil {
		return errors.Wrapf(err, "read WAV header from %s", f.in)
	}

	outFile, err := os.Create(f.out)
	if err != nil {
		return errors.Wrapf(err, "create %s", f.out)
	}
	defer outFile.Close()

	format := neac.Format{
		SampleRate:    src.SampleRate(),
		BitsPerSample: src.BitsPerSample(),
		Channels:      src.NumChannels(),
		FilterTaps:    f.filterTaps,
		BlockSize:     f.blockSize,
		UseMidSide:    f.midSide,
	}

	samples, totalSamples, err := drainSource(src)
	if err != nil {
		return errors.Wrap(err, "read WAV samples")
	}
	format.TotalSamples = totalSamples

	tg := buildTag(f)

	enc, err := neac.NewEncoder(outFile, format, neac.EncodeOptions{}, tg)
	if err != nil {
		return errors.Wrap(err, "create encoder")
	}
	if got := enc.Format().FilterTaps; got != f.filterTaps {
		log.Printf("neac: requested filter-taps=%d exceeds the maximum; clamped to %d", f.filterTaps, got)
	}
	for _, v := range samples {
		if err := enc.WriteSample(v); err != nil {
			return errors.Wrap(err, "write sample")
		}
	}
	if err := errors.Wrap(enc.Close(), "close encoder"); err != nil {
		return err
	}
	if verbose {
		log.Printf("wrote %d samples to %s", totalSamples, f.out)
	}
	return nil
}

func drainSource(src *pcm.Source) ([]int32, uint32, error) {
	var samples []int32
	for {
		v, err := src.ReadSample()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, err
		}
		samples = append(samples, v)
	}
	return samples, uint32(len(samples)), nil
}

func buildTag(f *encodeFlags) *tag.Tag {
	tg := tag.New()
	setIfNonEmpty(tg, tag.Title, f.title)
	setIfNonEmpty(tg, tag.Album, f.album)
	setIfNonEmpty(tg, tag.Artist, f.artist)
	setIfNonEmpty(tg, tag.AlbumArtist, f.albumArtist)
	setIfNonEmpty(tg, tag.Subtitle, f.subtitle)
	setIfNonEmpty(tg, tag.Publisher, f.publisher)
	setIfNonEmpty(tg, tag.Composer, f.composer)
	setIfNonEmpty(tg, tag.Songwriter, f.songwriter)
	setIfNonEmpty(tg, tag.Conductor, f.conductor)
	setIfNonEmpty(tg, tag.Copyright, f.copyright)
	setIfNonEmpty(tg, tag.Genre, f.genre)
	setIfNonEmpty(tg, tag.Comment, f.comment)
	if f.year != 0 {
		tg.SetUint16(tag.Year, f.year)
	}
	if f.trackNumber != 0 {
		tg.SetUint16(tag.TrackNumber, f.trackNumber)
	}
	if f.trackCount != 0 {
		tg.SetUint16(tag.TrackCount, f.trackCount)
	}
	if f.disc != 0 {
		tg.SetUint16(tag.Disc, f.disc)
	}
	if f.rate != 0 {
		tg.SetUint16(tag.Rate, f.rate)
	}
	return tg
}

func setIfNonEmpty(tg *tag.Tag, id tag.ID, v string) {
	if v == "" {
		return
	}
	tg.SetString(id, v)
}
