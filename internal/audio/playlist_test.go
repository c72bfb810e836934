package audio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTracks(t *testing.T) []*Track {
	t.Helper()
	dir := t.TempDir()

	first := openTestTrack(t, dir, "track1.mp3")
	first.SetTitle("Come Together")
	first.SetArtist("The Beatles")
	first.SetAlbum("Abbey Road")

	// No tags: listed under its file name.
	second := openTestTrack(t, dir, "track2.mp3")

	return []*Track{first, second}
}

func TestPlaylistCreator_M3U(t *testing.T) {
	tracks := createTestTracks(t)
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist("Abbey Road", tracks)

	assert.Equal(t, "track1.mp3\ntrack2.mp3\n", content)
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	tracks := createTestTracks(t)
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.CreatePlaylist("Abbey Road", tracks)

	assert.True(t, strings.HasPrefix(content, "#EXTM3U\n"))
	assert.Contains(t, content, "#EXTINF:-1,The Beatles - Come Together\ntrack1.mp3\n")
	assert.Contains(t, content, "#EXTINF:-1,track2\ntrack2.mp3\n")
}

func TestPlaylistCreator_PLS(t *testing.T) {
	tracks := createTestTracks(t)
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.CreatePlaylist("Abbey Road", tracks)

	assert.True(t, strings.HasPrefix(content, "[playlist]"))
	assert.Contains(t, content, "File1=track1.mp3")
	assert.Contains(t, content, "Title1=The Beatles - Come Together")
	assert.Contains(t, content, "NumberOfEntries=2")
}

func TestPlaylistCreator_WPL(t *testing.T) {
	tracks := createTestTracks(t)
	creator := NewPlaylistCreator(FormatWPL, false)

	content := creator.CreatePlaylist("Rock & Roll", tracks)

	assert.Contains(t, content, "<?wpl")
	assert.Contains(t, content, "<title>Rock &amp; Roll</title>")
	assert.Contains(t, content, `<media src="track2.mp3"/>`)
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	tracks := createTestTracks(t)
	creator := NewPlaylistCreator(FormatZPL, false)

	content := creator.CreatePlaylist("Abbey Road", tracks)

	assert.Contains(t, content, "<?zpl")
	assert.Contains(t, content, `albumTitle="Abbey Road"`)
	assert.Contains(t, content, `<meta name="ItemCount" content="2"/>`)
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected PlaylistFormat
	}{
		{"m3u", FormatM3U},
		{".PLS", FormatPLS},
		{"wpl", FormatWPL},
		{"zpl", FormatZPL},
	}
	for _, tt := range tests {
		got, err := ParsePlaylistFormat(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "ParsePlaylistFormat(%q)", tt.input)
		assert.Equal(t, got, mustParse(t, got.Extension()))
	}

	_, err := ParsePlaylistFormat("xspf")
	assert.ErrorIs(t, err, ErrValidation)
}

func mustParse(t *testing.T, s string) PlaylistFormat {
	t.Helper()
	f, err := ParsePlaylistFormat(s)
	require.NoError(t, err)
	return f
}

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"a & b", "a &amp; b"},
		{"<tag>", "&lt;tag&gt;"},
		{`"quoted"`, "&quot;quoted&quot;"},
		{"it's", "it&apos;s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, escapeXML(tt.input), "escapeXML(%q)", tt.input)
	}
}
