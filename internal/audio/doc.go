// Package audio reads and writes the ID3 tags of MP3 files.
//
// # Tag Store
//
// A Track owns the tag of one file. Setters change the in-memory frame set
// right away; Persist writes it back as ID3v2.4:
//
//	track, err := audio.Open("/music/song.mp3")
//	if err != nil {
//	    return err
//	}
//	defer track.Close()
//
//	track.SetArtist("The Beatles")
//	if err := track.SetTrack("1/17"); err != nil {
//	    return err
//	}
//	track.AddComment("remastered", audio.DefaultCommentKey, true)
//	err = track.Persist()
//
// Text fields (title, artist, album artist, album, genre, year, track,
// compilation) hold one frame each and a write replaces it. Comments and
// pictures are repeatable; see FrameKind.
//
// Files are normalised when they are opened: ID3v2.3 tags are upgraded in
// memory, ID3v1 and ID3v2.2 tags are converted and written back, and files
// with no tag at all get an empty one.
//
// # Errors
//
// Failures are reported with the sentinel errors in errors.go and are meant
// to be tested with errors.Is:
//
//	if errors.Is(err, audio.ErrValidation) {
//	    // bad year, track or picture type
//	}
//
// # Playlist Generation
//
// Generate playlists in various formats:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist("Abbey Road", tracks)
//	os.WriteFile("playlist.m3u", []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
