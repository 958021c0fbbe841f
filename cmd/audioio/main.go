// audioio is a small diagnostic CLI around the audioio library: it lists
// output devices, plays a test tone and plays WAV files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tphakala/audioio/internal/logging"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "audioio",
		Short:         "Audio output diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logging.Init()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable structured logging")

	rootCmd.AddCommand(
		devicesCommand(),
		beepCommand(),
		playCommand(),
	)
	return rootCmd
}
