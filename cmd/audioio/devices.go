package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/audioio"
)

func devicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List output devices and their supported configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := audioio.NewHost()
			if err != nil {
				return err
			}
			defer host.Close()

			devices, err := host.OutputDevices()
			if err != nil {
				return err
			}
			defaultName := ""
			if def, err := host.DefaultOutputDevice(); err == nil {
				defaultName = def.Name()
			}

			fmt.Printf("host: %s\n", host.Name())
			for _, dev := range devices {
				marker := " "
				if dev.Name() == defaultName {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, dev.Name())

				ranges, err := dev.SupportedOutputConfigs()
				if err != nil {
					fmt.Printf("    configs unavailable: %v\n", err)
					continue
				}
				for _, r := range ranges {
					fmt.Printf("    %d ch, %d-%d Hz, %s\n",
						r.Channels, r.MinSampleRate, r.MaxSampleRate, r.Format)
				}
				if cfg, err := dev.DefaultOutputConfig(); err == nil {
					fmt.Printf("    default: %d ch at %d Hz\n", cfg.Channels, cfg.SampleRate)
				}
			}
			return nil
		},
	}
}
