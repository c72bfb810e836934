package main

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [dir|file...]",
		Short: "List audio files with their main tags",
		Long: `List the audio files in the given directories (default: the music
directory from the config) with their artist, album and title.

Files without an ID3v2 tag get an empty one when they are read.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := resolvePaths(args)
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(dimStyle).
				Headers("FILE", "ARTIST", "ALBUM", "TITLE", "YEAR")

			for _, p := range paths {
				track, err := openTrack(p)
				if err != nil {
					log.WithField("path", p).WithError(err).Warn("Skipping file")
					t.Row(filepath.Base(p), errorText(err.Error()), "", "", "")
					continue
				}
				artist, _ := track.Artist()
				album, _ := track.Album()
				title, _ := track.Title()
				year, _ := track.Year()
				track.Close()

				t.Row(filepath.Base(p), artist, album, title, year)
			}

			fmt.Println(t.Render())
			return nil
		},
	}
}
