package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename FILE...",
		Short: "Rename files after their artist, album and title",
		Long: `Rename every given file to "<artist> - <album> - <title>.mp3", leaving
out the fields a file does not have. The separator is configurable with
rename_separator.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sync, err := openSelection(args)
			if err != nil {
				return err
			}
			defer sync.Close()

			report := sync.RenameSelected()
			for _, mv := range report.Renamed {
				fmt.Println(successText(fmt.Sprintf("%s → %s", filepath.Base(mv.From), filepath.Base(mv.To))))
			}

			if !report.OK() {
				fmt.Fprintln(os.Stderr, errorText(report.String()))
				return fmt.Errorf("%d file(s) not renamed",
					len(report.Insufficient)+len(report.Collisions)+len(report.Failed))
			}
			fmt.Println(dimText(report.String()))
			return nil
		},
	}
}
