package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/ogkaraoke/pkg/cdgstream"
	"github.com/haivivi/ogkaraoke/pkg/mp3stream"
	"github.com/haivivi/ogkaraoke/pkg/ogg"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "List the streams in an OGG karaoke file without playing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		demux := ogg.NewDemux(f, func(bos []byte) (ogg.Decoder, bool) {
			if d, ok := cdgstream.Identify(bos); ok {
				return d, true
			}
			if d, ok := mp3stream.Identify(bos); ok {
				return d, true
			}
			return nil, false
		})

		if err := demux.PumpAll(); err != nil && err != io.EOF {
			fmt.Fprintf(cmd.OutOrStdout(), "warning: %v\n", err)
		}

		for serial, dec := range demux.Mapper.Decoders() {
			switch d := dec.(type) {
			case *cdgstream.Decoder:
				fmt.Fprintf(cmd.OutOrStdout(), "stream %d: video/cdg  duration=%.3fs\n",
					serial, float64(d.ElapsedMicros())/1e6)
			case *mp3stream.Decoder:
				fmt.Fprintf(cmd.OutOrStdout(), "stream %d: audio/mp3  quality=%d  duration=%.3fs\n",
					serial, d.Quality(), float64(d.ElapsedMicros())/1e6)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
