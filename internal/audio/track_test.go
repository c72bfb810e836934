package audio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stand-in for MPEG frames. Long enough for an ID3v1 trailer check.
var silence = make([]byte, 1024)

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func openTestTrack(t *testing.T, dir, name string) *Track {
	t.Helper()
	path := filepath.Join(dir, name)
	writeFile(t, path, silence)
	return openPath(t, path)
}

func openPath(t *testing.T, path string) *Track {
	t.Helper()
	track, err := Open(path, WithLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { track.Close() })
	return track
}

func reopen(t *testing.T, track *Track) *Track {
	t.Helper()
	require.NoError(t, track.Close())
	return openPath(t, track.Path())
}

func TestOpenWritesMissingContainer(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "bare.mp3")

	data, err := os.ReadFile(track.Path())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("ID3\x04")), "file should start with an ID3v2.4 header")
	assert.True(t, bytes.HasSuffix(data, silence), "audio data must be kept")
	assert.False(t, track.Dirty())

	for _, f := range Fields {
		_, ok := track.Get(f)
		assert.False(t, ok, "%s should be absent", f)
	}
}

func TestTextRoundTrip(t *testing.T) {
	tests := []struct {
		field Field
		value string
	}{
		{FieldTitle, "Come Together"},
		{FieldArtist, "The Beatles"},
		{FieldAlbumArtist, "Various Artists"},
		{FieldAlbum, "Abbey Road"},
		{FieldGenre, "Rock"},
		{FieldYear, "1969"},
		{FieldTrack, "1/17"},
		{FieldCompilation, "1"},
		{FieldArtist, "Sigur Rós"},
		{FieldAlbum, ""},
	}

	for _, tt := range tests {
		t.Run(tt.field.String()+"="+tt.value, func(t *testing.T) {
			track := openTestTrack(t, t.TempDir(), "song.mp3")

			require.NoError(t, track.SetText(tt.field, tt.value))
			assert.True(t, track.Dirty())

			got, ok := track.Get(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.value, got)

			require.NoError(t, track.Persist())
			assert.False(t, track.Dirty())

			track = reopen(t, track)
			got, ok = track.Get(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestGetTrimsTrailingWhitespace(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"Artist  ", "Artist"},
		{"Artist\t\n", "Artist"},
		{"  Artist", "  Artist"},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			track := openTestTrack(t, t.TempDir(), "song.mp3")
			track.SetArtist(tt.value)

			got, ok := track.Get(FieldArtist)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)

			require.NoError(t, track.Persist())
			got, ok = reopen(t, track).Artist()
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetTextRejectsNUL(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "song.mp3")
	track.SetTitle("Before")

	err := track.SetText(FieldTitle, "a\x00b")
	assert.ErrorIs(t, err, ErrValidation)

	got, _ := track.Title()
	assert.Equal(t, "Before", got)
}

func TestSetTextReplaces(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "song.mp3")

	track.SetArtist("First")
	track.SetArtist("Second")

	got, _ := track.Artist()
	assert.Equal(t, "Second", got)
	assert.Len(t, track.tag.GetFrames("TPE1"), 1)
}

func TestSetTextRejectsRepeatableFields(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "song.mp3")

	assert.ErrorIs(t, track.SetText(FieldComment, "x"), ErrValidation)
	assert.ErrorIs(t, track.SetText(FieldPicture, "x"), ErrValidation)
	assert.ErrorIs(t, track.SetText(FieldCompilation, "yes"), ErrValidation)
}

func TestSetYear(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "song.mp3")

	require.NoError(t, track.SetYear("1999"))

	for _, bad := range []string{"99", "abcd", "19999", "", " 1999"} {
		err := track.SetYear(bad)
		assert.ErrorIs(t, err, ErrValidation, "SetYear(%q)", bad)
	}

	got, _ := track.Year()
	assert.Equal(t, "1999", got, "failed writes must not change the value")
}

func TestSetTrack(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "song.mp3")

	for _, good := range []string{"3/12", "/12", "3/", "/"} {
		assert.NoError(t, track.SetTrack(good), "SetTrack(%q)", good)
	}
	for _, bad := range []string{"3", "3/12/1", "a/b", ""} {
		assert.ErrorIs(t, track.SetTrack(bad), ErrValidation, "SetTrack(%q)", bad)
	}
}

func TestCompilation(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "song.mp3")
	assert.False(t, track.Compilation())

	track.SetCompilation(true)
	assert.True(t, track.Compilation())
	v, _ := track.Get(FieldCompilation)
	assert.Equal(t, "1", v)

	track.SetCompilation(false)
	assert.False(t, track.Compilation())
	v, ok := track.Get(FieldCompilation)
	assert.True(t, ok)
	assert.Equal(t, "0", v)
}

func TestEmptyIsNotAbsent(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "song.mp3")

	_, ok := track.Genre()
	assert.False(t, ok)

	track.SetGenre("")
	got, ok := track.Genre()
	assert.True(t, ok)
	assert.Equal(t, "", got)
}

func TestComments(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "song.mp3")

	track.AddComment("first", "a", true)
	track.AddComment("second", "b", false)

	got, ok := track.Comment()
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"first", "second"}, splitWords(got))

	track.AddComment("third", DefaultCommentKey, true)
	got, _ = track.Comment()
	assert.Equal(t, "third", got)

	require.NoError(t, track.Persist())
	track = reopen(t, track)
	got, _ = track.Comment()
	assert.Equal(t, "third", got)

	track.ClearComments()
	_, ok = track.Comment()
	assert.False(t, ok)
}

func splitWords(s string) []string {
	var words []string
	for _, w := range bytes.Fields([]byte(s)) {
		words = append(words, string(w))
	}
	return words
}

func TestPictureFromBytes(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "song.mp3")

	require.NoError(t, track.SetPictureFromBytes(pngHeader, "image/png", true))
	require.NoError(t, track.Persist())

	track = reopen(t, track)
	pictures := track.Pictures()
	require.Len(t, pictures, 1)
	assert.Equal(t, MIMETypePNG, pictures[0].MIMEType)
	assert.Equal(t, byte(id3v2.PTFrontCover), pictures[0].Type)
	assert.Equal(t, pngHeader, pictures[0].Data)

	got, ok := track.Get(FieldPicture)
	assert.True(t, ok)
	assert.Equal(t, frontCoverDescription, got)
}

func TestPictureRejectsGIFWithoutMutation(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "song.mp3")
	require.NoError(t, track.SetPictureFromBytes(pngHeader, "image/png", true))
	require.NoError(t, track.Persist())

	err := track.SetPictureFromBytes([]byte("GIF89a"), "image/gif", true)
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	assert.ErrorIs(t, err, ErrValidation)

	assert.False(t, track.Dirty())
	require.Len(t, track.Pictures(), 1)
	assert.Equal(t, MIMETypePNG, track.Pictures()[0].MIMEType)
}

func TestPictureFromFile(t *testing.T) {
	dir := t.TempDir()
	track := openTestTrack(t, dir, "song.mp3")

	cover := filepath.Join(dir, "cover.jpg")
	writeFile(t, cover, []byte("\xff\xd8\xff\xe0"))
	require.NoError(t, track.SetPictureFromFile(cover, true))
	assert.Equal(t, MIMETypeJPEG, track.Pictures()[0].MIMEType)

	gif := filepath.Join(dir, "cover.gif")
	writeFile(t, gif, []byte("GIF89a"))
	assert.ErrorIs(t, track.SetPictureFromFile(gif, true), ErrUnsupportedMediaType)

	assert.ErrorIs(t, track.SetPictureFromFile(filepath.Join(dir, "missing.png"), true), ErrIO)
}

type fakeDownloader struct {
	data []byte
	err  error
	urls []string
}

func (d *fakeDownloader) DownloadBytes(_ context.Context, url string) ([]byte, error) {
	d.urls = append(d.urls, url)
	return d.data, d.err
}

func TestPictureFromURL(t *testing.T) {
	ctx := context.Background()
	track := openTestTrack(t, t.TempDir(), "song.mp3")

	d := &fakeDownloader{data: pngHeader}
	require.NoError(t, track.SetPictureFromURL(ctx, d, "https://example.com/art", true))
	assert.Equal(t, MIMETypePNG, track.Pictures()[0].MIMEType)

	// The extension is checked before anything is downloaded.
	d = &fakeDownloader{data: []byte("GIF89a")}
	err := track.SetPictureFromURL(ctx, d, "https://example.com/art.gif", true)
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	assert.Empty(t, d.urls)

	d = &fakeDownloader{err: errors.New("connection refused")}
	err = track.SetPictureFromURL(ctx, d, "https://example.com/art.jpg", true)
	assert.ErrorIs(t, err, ErrIO)
	assert.Equal(t, MIMETypePNG, track.Pictures()[0].MIMEType)
}

func TestClearAllPersistReopen(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "song.mp3")
	track.SetTitle("Title")
	track.SetArtist("Artist")
	track.SetAlbumArtist("Album Artist")
	track.SetAlbum("Album")
	track.SetGenre("Genre")
	require.NoError(t, track.SetYear("2001"))
	require.NoError(t, track.SetTrack("2/10"))
	track.SetCompilation(true)
	track.AddComment("comment", DefaultCommentKey, true)
	require.NoError(t, track.SetPictureFromBytes(pngHeader, MIMETypePNG, true))
	require.NoError(t, track.Persist())

	track.ClearAll()
	assert.True(t, track.Dirty())
	require.NoError(t, track.Persist())

	track = reopen(t, track)
	for _, f := range Fields {
		_, ok := track.Get(f)
		assert.False(t, ok, "%s should be absent", f)
	}
	assert.False(t, track.Compilation())
	assert.True(t, track.tag.HasFrames(), "the container keeps its marker frame")
}

func TestPersistIsIdempotent(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "song.mp3")
	track.SetTitle("Same")
	require.NoError(t, track.Persist())
	first, err := os.ReadFile(track.Path())
	require.NoError(t, err)

	require.NoError(t, track.Persist())
	second, err := os.ReadFile(track.Path())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	track := openTestTrack(t, dir, "old.mp3")
	track.SetTitle("Song")

	require.NoError(t, track.Rename("Artist - Album: Deluxe - Song.mp3"))
	want := filepath.Join(dir, "Artist - Album Deluxe - Song.mp3")
	assert.Equal(t, want, track.Path())
	assert.NoFileExists(t, filepath.Join(dir, "old.mp3"))
	assert.FileExists(t, want)

	// Unsaved edits survive the move and can be persisted at the new path.
	assert.True(t, track.Dirty())
	require.NoError(t, track.Persist())
	track = reopen(t, track)
	got, _ := track.Title()
	assert.Equal(t, "Song", got)
}

func TestRenameSameNameIsNoop(t *testing.T) {
	dir := t.TempDir()
	track := openTestTrack(t, dir, "same.mp3")

	require.NoError(t, track.Rename("same.mp3"))
	assert.Equal(t, filepath.Join(dir, "same.mp3"), track.Path())
}

func TestRenameCollision(t *testing.T) {
	dir := t.TempDir()
	track := openTestTrack(t, dir, "a.mp3")
	writeFile(t, filepath.Join(dir, "b.mp3"), silence)

	err := track.Rename("b.mp3")
	assert.ErrorIs(t, err, ErrFileExists)
	assert.Equal(t, filepath.Join(dir, "a.mp3"), track.Path())
	assert.FileExists(t, track.Path())
}

func TestOpenUpgradesV23(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v23.mp3")
	writeFile(t, path, silence)

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	tag.SetVersion(3)
	tag.SetDefaultEncoding(id3v2.EncodingISO)
	tag.AddTextFrame("TIT2", id3v2.EncodingISO, "Old")
	tag.AddTextFrame("TYER", id3v2.EncodingISO, "1969")
	tag.AddTextFrame("TDAT", id3v2.EncodingISO, "2609")
	tag.AddTextFrame("TORY", id3v2.EncodingISO, "1968")
	require.NoError(t, tag.Save())
	require.NoError(t, tag.Close())

	track := openPath(t, path)
	assert.False(t, track.Dirty())

	year, ok := track.Year()
	require.True(t, ok)
	assert.Equal(t, "1969-09-26", year)
	assert.Equal(t, "1968", track.firstText("TDOR"))
	assert.False(t, track.has("TYER"))
	assert.False(t, track.has("TDAT"))

	require.NoError(t, track.Persist())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte(4), data[3])
}

func id3v1Trailer(title, artist, album, year, comment string, track, genre byte) []byte {
	b := make([]byte, id3v1Size)
	copy(b, "TAG")
	copy(b[3:33], title)
	copy(b[33:63], artist)
	copy(b[63:93], album)
	copy(b[93:97], year)
	copy(b[97:125], comment)
	b[126] = track
	b[127] = genre
	return b
}

func TestOpenImportsID3v1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v1.mp3")
	data := append(append([]byte{}, silence...), id3v1Trailer("Old Title", "Old Artist", "Old Album", "1971", "a comment", 5, 17)...)
	writeFile(t, path, data)

	track := openPath(t, path)
	assert.False(t, track.Dirty(), "the converted tag is written by Open")

	expected := map[Field]string{
		FieldTitle:   "Old Title",
		FieldArtist:  "Old Artist",
		FieldAlbum:   "Old Album",
		FieldYear:    "1971",
		FieldTrack:   "5/",
		FieldGenre:   "Rock",
		FieldComment: "a comment",
	}
	track = reopen(t, track)
	for f, want := range expected {
		got, ok := track.Get(f)
		assert.True(t, ok, "%s should be present", f)
		assert.Equal(t, want, got, "%s", f)
	}
}

func id3v22Frame(id, text string) []byte {
	body := append([]byte{0}, text...)
	n := len(body)
	return append([]byte{id[0], id[1], id[2], byte(n >> 16), byte(n >> 8), byte(n)}, body...)
}

func TestOpenImportsID3v22(t *testing.T) {
	var frames []byte
	frames = append(frames, id3v22Frame("TT2", "Old Title")...)
	frames = append(frames, id3v22Frame("TP1", "Old Artist")...)
	frames = append(frames, id3v22Frame("TYE", "1972")...)

	n := len(frames)
	header := []byte{'I', 'D', '3', 2, 0, 0, byte(n >> 21 & 0x7f), byte(n >> 14 & 0x7f), byte(n >> 7 & 0x7f), byte(n & 0x7f)}

	path := filepath.Join(t.TempDir(), "v22.mp3")
	data := append(append(header, frames...), silence...)
	writeFile(t, path, data)

	track := openPath(t, path)

	title, _ := track.Title()
	artist, _ := track.Artist()
	year, _ := track.Year()
	assert.Equal(t, "Old Title", title)
	assert.Equal(t, "Old Artist", artist)
	assert.Equal(t, "1972", year)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(written, []byte("ID3\x04")))
	assert.True(t, bytes.HasSuffix(written, silence))
	assert.Equal(t, 1, bytes.Count(written, []byte("ID3")), "the v2.2 tag must be gone")
}

func TestOpenRejectsOtherContainers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.flac")
	writeFile(t, path, append([]byte("fLaC"), silence...))

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mp3"))
	assert.ErrorIs(t, err, ErrIO)
}

func TestString(t *testing.T) {
	track := openTestTrack(t, t.TempDir(), "song.mp3")
	track.SetTitle("Come Together")
	track.AddComment("note", "k", true)

	dump := track.String()
	assert.Contains(t, dump, "(ID3v2.4)")
	assert.Contains(t, dump, "TIT2=Come Together")
	assert.Contains(t, dump, "COMM=[eng:k] note")
}
