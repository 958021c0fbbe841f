package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/cobra"

	"github.com/tphakala/audioio"
)

func playCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play <file.wav>",
		Short: "Play a WAV file on the default output device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pcm, channels, sampleRate, err := loadWav(args[0])
			if err != nil {
				return err
			}

			host, err := audioio.NewHost()
			if err != nil {
				return err
			}
			defer host.Close()

			dev, err := host.DefaultOutputDevice()
			if err != nil {
				return err
			}

			config := audioio.StreamConfig{
				Channels:   channels,
				SampleRate: sampleRate,
				BufferSize: audioio.DefaultBufferSize(),
			}
			player := &wavPlayer{pcm: pcm, done: make(chan struct{})}
			failed := make(chan error, 1)

			stream, err := dev.BuildOutputStream(config, audioio.FormatF32, player.fill, func(err error) {
				select {
				case failed <- err:
				default:
				}
			})
			if err != nil {
				if errors.Is(err, audioio.ErrStreamConfigNotSupported) {
					return fmt.Errorf("device cannot play %d ch at %d Hz: %w", channels, sampleRate, err)
				}
				return err
			}
			defer stream.Close()

			fmt.Printf("playing %s (%d ch at %d Hz) on %q\n", args[0], channels, sampleRate, dev.Name())

			select {
			case err := <-failed:
				return err
			case <-player.done:
			}
			return nil
		},
	}
}

// wavPlayer feeds decoded samples to the output stream. fill runs on the
// real-time thread; pos and finished are touched only there.
type wavPlayer struct {
	pcm      []float32
	pos      int
	finished bool
	done     chan struct{}
}

func (p *wavPlayer) fill(buf audioio.Buffer, info audioio.OutputCallbackInfo) {
	samples := buf.Samples()
	n := copy(samples, p.pcm[p.pos:])
	p.pos += n
	for i := n; i < len(samples); i++ {
		samples[i] = 0
	}
	if p.pos >= len(p.pcm) && !p.finished {
		p.finished = true
		close(p.done)
	}
}

// loadWav decodes an entire WAV file into normalized float32 samples.
func loadWav(path string) (pcm []float32, channels, sampleRate int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("%s is not a valid WAV file", path)
	}

	intBuf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decoding %s: %w", path, err)
	}

	pcm, err = normalizeSamples(intBuf, int(dec.BitDepth))
	if err != nil {
		return nil, 0, 0, err
	}
	return pcm, int(dec.NumChans), int(dec.SampleRate), nil
}

// normalizeSamples converts integer PCM to float32 in [-1, 1].
func normalizeSamples(buf *audio.IntBuffer, bitDepth int) ([]float32, error) {
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
	scale := float32(int64(1) << (bitDepth - 1))
	pcm := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		pcm[i] = float32(s) / scale
	}
	return pcm, nil
}
