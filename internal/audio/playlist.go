package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type PlaylistFormat int

const (
	FormatM3U PlaylistFormat = iota
	FormatPLS
	FormatWPL
	FormatZPL
)

// ParsePlaylistFormat maps a file extension ("m3u", ".pls") to a format.
func ParsePlaylistFormat(s string) (PlaylistFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "m3u", "m3u8":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	case "wpl":
		return FormatWPL, nil
	case "zpl":
		return FormatZPL, nil
	}
	return FormatM3U, fmt.Errorf("%w: unknown playlist format %q", ErrValidation, s)
}

// Extension returns the file extension for the format, with a leading dot.
func (f PlaylistFormat) Extension() string {
	switch f {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// PlaylistCreator renders a list of tracks as a playlist.
//
// Entries are written with the track's base file name, so the playlist is
// meant to sit in the same directory as the files. Titles and artists come
// from the tags; a track without a title is listed under its file name.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist("Abbey Road", tracks)
//
//	// #EXTM3U
//	// #EXTINF:-1,The Beatles - Come Together
//	// The Beatles - Abbey Road - Come Together.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines
}

// NewPlaylistCreator creates a new PlaylistCreator. extended only applies
// to M3U.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

type playlistEntry struct {
	file   string
	title  string
	artist string
	album  string
}

func entriesFor(tracks []*Track) []playlistEntry {
	entries := make([]playlistEntry, 0, len(tracks))
	for _, t := range tracks {
		e := playlistEntry{file: filepath.Base(t.Path())}
		e.title, _ = t.Title()
		if e.title == "" {
			e.title = strings.TrimSuffix(e.file, filepath.Ext(e.file))
		}
		e.artist, _ = t.Artist()
		e.album, _ = t.Album()
		entries = append(entries, e)
	}
	return entries
}

func (e playlistEntry) display() string {
	if e.artist == "" {
		return e.title
	}
	return e.artist + " - " + e.title
}

// CreatePlaylist renders tracks in order under the given playlist name.
func (p *PlaylistCreator) CreatePlaylist(name string, tracks []*Track) string {
	entries := entriesFor(tracks)
	switch p.format {
	case FormatPLS:
		return p.createPLS(entries)
	case FormatWPL:
		return p.createWPL(name, entries)
	case FormatZPL:
		return p.createZPL(name, entries)
	default:
		return p.createM3U(entries)
	}
}

// Durations are not read from the audio stream; -1 marks them unknown.
func (p *PlaylistCreator) createM3U(entries []playlistEntry) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}
	for _, e := range entries {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:-1,%s\n", e.display())
		}
		sb.WriteString(e.file + "\n")
	}

	return sb.String()
}

func (p *PlaylistCreator) createPLS(entries []playlistEntry) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")
	for i, e := range entries {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, e.file)
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, e.display())
		fmt.Fprintf(&sb, "Length%d=-1\n", idx)
	}
	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(entries))
	sb.WriteString("Version=2\n")

	return sb.String()
}

func (p *PlaylistCreator) createWPL(name string, entries []playlistEntry) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n<smil>\n  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(name))
	sb.WriteString("  </head>\n  <body>\n    <seq>\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", escapeXML(e.file))
	}
	sb.WriteString("    </seq>\n  </body>\n</smil>\n")

	return sb.String()
}

func (p *PlaylistCreator) createZPL(name string, entries []playlistEntry) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n<smil>\n  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(name))
	sb.WriteString("    <meta name=\"Generator\" content=\"mp3-tagger\"/>\n")
	fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(entries))
	sb.WriteString("  </head>\n  <body>\n    <seq>\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "      <media src=\"%s\" albumTitle=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\"/>\n",
			escapeXML(e.file),
			escapeXML(e.album),
			escapeXML(e.title),
			escapeXML(e.artist))
	}
	sb.WriteString("    </seq>\n  </body>\n</smil>\n")

	return sb.String()
}

// escapeXML escapes & < > " and '.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
