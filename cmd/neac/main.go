// Command neac is a CLI shim around the NEAC library: it owns WAV I/O,
// flag parsing, and process-exit policy, none of which the core codec
// package concerns itself with (spec §1, §7).
package main

import (
	"log"

	"github.com/spf13/cobra"
)

// verbose gates the per-file progress lines runEncode/runDecode print;
// it carries no other behavior.
var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:     "neac",
		Short:   "NEAC lossless audio codec",
		Long:    "neac encodes and decodes linear PCM WAV audio to and from the NEAC lossless format.",
		Version: "0.1.0",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print per-file progress")
	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(newDecodeCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
