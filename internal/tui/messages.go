package tui

import (
	"github.com/cshotwell/mp3-tagger/internal/artwork"
)

// Message types
type (
	// FilesLoadedMsg is sent when the directory has been listed.
	FilesLoadedMsg struct {
		Files []string
		Err   error
	}

	// DirChangedMsg is sent when the watcher saw audio files change.
	DirChangedMsg struct{}

	// ArtResultsMsg is sent when an album art search completes.
	ArtResultsMsg struct {
		Query      string
		Candidates []artwork.Candidate
		Err        error
	}

	// ArtFetchedMsg is sent when the chosen artwork has been downloaded.
	ArtFetchedMsg struct {
		Image artwork.Image
		Err   error
	}
)
