package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cshotwell/mp3-tagger/internal/config"
	"github.com/cshotwell/mp3-tagger/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	settings  *config.Settings
	log       *logrus.Logger
	logCloser io.Closer
)

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mp3tagger",
		Short:   "Edit the ID3 tags of MP3 files",
		Long:    `mp3tagger reads and writes the ID3 tags of MP3 files, one file or a whole selection at a time.`,
		Version: version,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				path = config.DefaultPath()
			}

			var err error
			settings, err = config.Load(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if logLevel != "" {
				settings.LogLevel = logLevel
			}

			log, logCloser, err = logging.New(logging.Options{Level: settings.LogLevel, Output: os.Stderr})
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				logCloser.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/mp3-tagger/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newLsCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newSetCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newArtCmd())
	rootCmd.AddCommand(newPlaylistCmd())
	rootCmd.AddCommand(newTUICmd())

	return rootCmd
}
