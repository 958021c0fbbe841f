package main

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/audioio"
)

func beepCommand() *cobra.Command {
	var (
		frequency float64
		duration  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "beep",
		Short: "Play a sine test tone on the default output device",
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := audioio.NewHost()
			if err != nil {
				return err
			}
			defer host.Close()

			dev, err := host.DefaultOutputDevice()
			if err != nil {
				return err
			}
			cfg, err := dev.DefaultOutputConfig()
			if err != nil {
				return err
			}

			config := cfg.Config()
			gen := &sineGenerator{
				frequency:  frequency,
				sampleRate: float64(config.SampleRate),
				channels:   config.Channels,
			}
			failed := make(chan error, 1)

			stream, err := dev.BuildOutputStream(config, cfg.Format, gen.fill, func(err error) {
				select {
				case failed <- err:
				default:
				}
			})
			if err != nil {
				return err
			}
			defer stream.Close()

			fmt.Printf("playing %.0f Hz on %q (%d ch at %d Hz) for %s\n",
				frequency, dev.Name(), config.Channels, config.SampleRate, duration)

			select {
			case err := <-failed:
				return err
			case <-time.After(duration):
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&frequency, "frequency", "f", 440, "tone frequency in Hz")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 2*time.Second, "playback duration")
	return cmd
}

// sineGenerator fills output buffers with a sine tone. fill runs on the
// real-time thread; phase is touched only there.
type sineGenerator struct {
	frequency  float64
	sampleRate float64
	channels   int
	phase      float64
}

func (g *sineGenerator) fill(buf audioio.Buffer, info audioio.OutputCallbackInfo) {
	samples := buf.Samples()
	step := 2 * math.Pi * g.frequency / g.sampleRate
	for i := 0; i < len(samples); i += g.channels {
		v := float32(0.2 * math.Sin(g.phase))
		for ch := 0; ch < g.channels && i+ch < len(samples); ch++ {
			samples[i+ch] = v
		}
		g.phase += step
		if g.phase > 2*math.Pi {
			g.phase -= 2 * math.Pi
		}
	}
}
