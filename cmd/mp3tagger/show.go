package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE...",
		Short: "Print every frame of the tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := resolvePaths(args)
			if err != nil {
				return err
			}

			for i, p := range paths {
				track, err := openTrack(p)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Println()
				}
				fmt.Println(headerText(p))
				fmt.Print(track.String())
				track.Close()
			}
			return nil
		},
	}
}
