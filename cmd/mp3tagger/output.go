package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/cshotwell/mp3-tagger/internal/audio"
	ioutils "github.com/cshotwell/mp3-tagger/internal/io"
	"github.com/cshotwell/mp3-tagger/internal/selection"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

func headerText(s string) string  { return headerStyle.Render(s) }
func successText(s string) string { return successStyle.Render("✓ " + s) }
func warningText(s string) string { return warningStyle.Render("! " + s) }
func errorText(s string) string   { return errorStyle.Render(s) }
func dimText(s string) string     { return dimStyle.Render(s) }

// resolvePaths expands the arguments into audio file paths. Directories are
// listed with the configured file pattern; no arguments means the music
// directory.
func resolvePaths(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{settings.MusicDir}
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, filepath.Clean(arg))
			continue
		}
		files, err := ioutils.ListAudioFiles(arg, settings.FilePattern)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files matching %q", settings.FilePattern)
	}
	return paths, nil
}

// openSelection selects every file named by args. Files that fail to open
// are reported and left out; at least one file must open.
func openSelection(args []string) (*selection.Synchronizer, error) {
	paths, err := resolvePaths(args)
	if err != nil {
		return nil, err
	}

	sync := selection.New(
		selection.DefaultFields(settings.DefaultCommentKey),
		selection.WithLogger(log),
		selection.WithSeparator(settings.RenameSeparator),
	)
	if err := sync.SetSelection(paths); err != nil {
		fmt.Fprintln(os.Stderr, warningText(err.Error()))
	}
	if len(sync.Selected()) == 0 {
		sync.Close()
		return nil, fmt.Errorf("none of the %d file(s) could be opened", len(paths))
	}
	return sync, nil
}

// printApplyReport prints the outcome of a batch write and returns an error
// when any file failed.
func printApplyReport(report selection.ApplyReport) error {
	for _, p := range report.Saved {
		fmt.Println(successText(p))
	}
	if err := report.Err(); err != nil {
		fmt.Fprintln(os.Stderr, errorText(report.String()))
		return fmt.Errorf("%d file(s) failed", len(report.Errors))
	}
	if len(report.Saved) == 0 {
		fmt.Println(dimText("Nothing to save."))
	}
	return nil
}

func openTrack(path string) (*audio.Track, error) {
	return audio.Open(path, audio.WithLogger(log))
}
