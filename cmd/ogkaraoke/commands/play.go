package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/ogkaraoke/pkg/player"
)

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Play an OGG karaoke file to the default audio device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		cfg, err := GetConfig()
		if err != nil {
			return err
		}

		p, err := player.Open(f, player.Options{Config: *cfg})
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		defer p.Close()

		for !p.Done() {
			if err := p.RenderTick(); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			time.Sleep(5 * time.Millisecond)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
