package main

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/neac-audio/neac"
	"github.com/neac-audio/neac/pcm"
)

type decodeFlags struct {
	in, out string
}

func newDecodeCmd() *cobra.Command {
	var f decodeFlags
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a NEAC file to WAV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(&f)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.in, "in", "", "input NEAC path (required)")
	flags.StringVar(&f.out, "out", "", "output WAV path (required)")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runDecode(f *decodeFlags) error {
	if verbose {
		log.Printf("decoding %s -> %s", f.in, f.out)
	}

	inFile, err := os.Open(f.in)
	if err != nil {
		return errors.Wrapf(err, "open %s", f.in)
	}
	defer inFile.Close()

	dec, err := neac.Open(inFile)
	if err != nil {
		return errors.Wrap(err, "open NEAC stream")
	}
	defer dec.Close()

	format := dec.Format()

	outFile, err := os.Create(f.out)
	if err != nil {
		return errors.Wrapf(err, "create %s", f.out)
	}
	defer outFile.Close()

	sink := pcm.NewSink(outFile, int(format.SampleRate), format.BitsPerSample, format.Channels)

	for i := uint32(0); i < format.TotalSamples; i++ {
		v, err := dec.ReadSample()
		if err != nil {
			return errors.Wrap(err, "read sample")
		}
		if err := sink.WriteSample(v); err != nil {
			return errors.Wrap(err, "write WAV sample")
		}
	}
	if err := errors.Wrap(sink.Close(), "close WAV file"); err != nil {
		return err
	}
	if verbose {
		log.Printf("wrote %d samples to %s", format.TotalSamples, f.out)
	}
	return nil
}
