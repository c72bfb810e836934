package main

import (
	"fmt"
	"os"

	"github.com/cshotwell/mp3-tagger/internal/config"
	"github.com/cshotwell/mp3-tagger/internal/logging"
	"github.com/cshotwell/mp3-tagger/internal/tui"
)

func main() {
	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	file := settings.LogFile
	if file == "" {
		file = logging.DefaultFile(config.AppName)
	}
	log, closer, err := logging.New(logging.Options{Level: settings.LogLevel, File: file})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var dir string
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	err = tui.Run(settings, dir, log)
	closer.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
