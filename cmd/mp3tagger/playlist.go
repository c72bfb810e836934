package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cshotwell/mp3-tagger/internal/audio"
	ioutils "github.com/cshotwell/mp3-tagger/internal/io"
	"github.com/spf13/cobra"
)

func newPlaylistCmd() *cobra.Command {
	var extended bool

	cmd := &cobra.Command{
		Use:   "playlist OUTPUT FILE...",
		Short: "Write a playlist of the given files",
		Long: `Write a playlist of the given files. The format follows the extension of
OUTPUT: .m3u, .pls, .wpl or .zpl. Entries use the file's base name, so the
playlist belongs in the same directory as the tracks.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := args[0]
			format, err := audio.ParsePlaylistFormat(filepath.Ext(output))
			if err != nil {
				return err
			}

			sync, err := openSelection(args[1:])
			if err != nil {
				return err
			}
			defer sync.Close()

			name := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
			content := audio.NewPlaylistCreator(format, extended).CreatePlaylist(name, sync.Selected())

			if err := ioutils.WriteFile(output, []byte(content)); err != nil {
				return err
			}
			fmt.Println(successText(fmt.Sprintf("%s (%d tracks)", output, len(sync.Selected()))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&extended, "extended", true, "include #EXTINF lines in M3U playlists")
	return cmd
}
