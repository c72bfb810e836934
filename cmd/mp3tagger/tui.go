package main

import (
	"github.com/cshotwell/mp3-tagger/internal/config"
	"github.com/cshotwell/mp3-tagger/internal/logging"
	"github.com/cshotwell/mp3-tagger/internal/tui"
	"github.com/spf13/cobra"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [DIR]",
		Short: "Open the interactive tag editor",
		Long: `Open the interactive tag editor on DIR (default: the music directory from
the config). Logs go to log_file, or to the user cache directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := settings.LogFile
			if file == "" {
				file = logging.DefaultFile(config.AppName)
			}
			fileLog, closer, err := logging.New(logging.Options{Level: settings.LogLevel, File: file})
			if err != nil {
				return err
			}
			defer closer.Close()

			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			return tui.Run(settings, dir, fileLog)
		},
	}
}
