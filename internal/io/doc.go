// Package ioutils holds the filesystem side of the tagger.
//
// This package contains functions for:
//   - Listing the audio files of a directory (non-recursive, glob pattern)
//   - Making generated file names safe to use
//   - Watching a directory for added, removed or rewritten files
//   - Resizing and converting cover art
//
// # Listing
//
//	files, err := ioutils.ListAudioFiles("/music/Abbey Road", "*.mp3")
//
// # File Names
//
// EnsureValidFileName works on base names only:
//
//	name := ioutils.EnsureValidFileName("AC/DC - Live: 1991.mp3") // "ACDC - Live 1991.mp3"
//
// # Watching
//
//	w, err := ioutils.NewWatcher(dir, "*.mp3", log)
//	defer w.Close()
//	for range w.Changes() {
//	    files, _ = ioutils.ListAudioFiles(dir, "*.mp3")
//	}
//
// # Image Processing
//
//	svc := ioutils.NewImageService()
//	data, mimeType, err := svc.Prepare(ctx, imageData, ioutils.PrepareOptions{MaxSize: 1000})
package ioutils
