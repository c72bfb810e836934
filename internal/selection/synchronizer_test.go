package selection

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cshotwell/mp3-tagger/internal/audio"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newLibrary writes one tagless MP3 per name and returns their paths.
func newLibrary(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(paths[i], make([]byte, 512), 0644))
	}
	return paths
}

func newSync(t *testing.T, opts ...Option) *Synchronizer {
	t.Helper()
	s := New(DefaultFields(""), append([]Option{WithLogger(quietLogger())}, opts...)...)
	t.Cleanup(func() { s.Close() })
	return s
}

func selectAll(t *testing.T, s *Synchronizer, paths []string) []*audio.Track {
	t.Helper()
	require.NoError(t, s.SetSelection(paths))
	return s.Selected()
}

func TestViewsEmptySelection(t *testing.T) {
	s := newSync(t)

	for _, v := range s.Views() {
		assert.Equal(t, ViewEmpty, v.State, v.Descriptor.Label)
		assert.Equal(t, "", v.Display())
	}
}

func TestViewAgreementAndConflict(t *testing.T) {
	tests := []struct {
		name    string
		artists []string
		state   ViewState
	}{
		{"all equal", []string{"A", "A", "A"}, ViewSingle},
		{"middle differs", []string{"A", "B", "A"}, ViewConflict},
		{"first differs", []string{"B", "A", "A"}, ViewConflict},
		{"last differs", []string{"A", "A", "B"}, ViewConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSync(t)
			tracks := selectAll(t, s, newLibrary(t, "1.mp3", "2.mp3", "3.mp3"))
			for i, track := range tracks {
				track.SetArtist(tt.artists[i])
			}
			s.Refresh()

			v, ok := s.View(audio.FieldArtist)
			require.True(t, ok)
			assert.Equal(t, tt.state, v.State)
			if tt.state == ViewSingle {
				assert.Equal(t, Text("A"), v.Value)
				assert.Equal(t, "A", v.Display())
			} else {
				assert.Equal(t, MultipleValuesText, v.Display())
			}
		})
	}
}

func TestViewAbsentDiffersFromEmpty(t *testing.T) {
	s := newSync(t)
	tracks := selectAll(t, s, newLibrary(t, "1.mp3", "2.mp3"))

	tracks[0].SetGenre("")
	s.Refresh()

	v, _ := s.View(audio.FieldGenre)
	assert.Equal(t, ViewConflict, v.State)
}

func TestViewToggle(t *testing.T) {
	s := newSync(t)
	tracks := selectAll(t, s, newLibrary(t, "1.mp3", "2.mp3"))

	v, _ := s.View(audio.FieldCompilation)
	assert.Equal(t, ViewSingle, v.State)
	assert.Equal(t, "no", v.Display())

	tracks[1].SetCompilation(true)
	s.Refresh()
	v, _ = s.View(audio.FieldCompilation)
	assert.Equal(t, ViewConflict, v.State)
}

func TestSetSelectionReusesTracks(t *testing.T) {
	paths := newLibrary(t, "1.mp3", "2.mp3", "3.mp3")
	opened := 0
	s := newSync(t, WithOpener(func(path string) (*audio.Track, error) {
		opened++
		return audio.Open(path, audio.WithLogger(quietLogger()))
	}))

	first := selectAll(t, s, paths[:2])
	second := selectAll(t, s, paths[1:])

	assert.Equal(t, 3, opened)
	assert.Same(t, first[1], second[0])
	assert.Len(t, s.Paths(), 3)
	assert.Equal(t, paths[1:], s.SelectedPaths())

	// Duplicates collapse to one entry.
	require.NoError(t, s.SetSelection([]string{paths[0], paths[0]}))
	assert.Len(t, s.Selected(), 1)
}

func TestSetSelectionSkipsUnopenable(t *testing.T) {
	paths := newLibrary(t, "1.mp3")
	flac := filepath.Join(filepath.Dir(paths[0]), "2.flac")
	require.NoError(t, os.WriteFile(flac, append([]byte("fLaC"), make([]byte, 512)...), 0644))

	s := newSync(t)
	err := s.SetSelection([]string{paths[0], flac})

	assert.ErrorIs(t, err, audio.ErrUnsupportedFormat)
	assert.Equal(t, paths, s.SelectedPaths())
}

func TestApplyOnlyWritesTickedFields(t *testing.T) {
	s := newSync(t)
	tracks := selectAll(t, s, newLibrary(t, "1.mp3", "2.mp3"))
	tracks[0].SetArtist("A")
	tracks[1].SetArtist("B")
	tracks[0].SetAlbum("X")
	require.NoError(t, tracks[0].Persist())
	require.NoError(t, tracks[1].Persist())

	report := s.Apply(Edits{
		audio.FieldTitle:  {Value: Text("New Title"), Write: true},
		audio.FieldArtist: {Value: Text(MultipleValuesText), Write: false},
	})
	require.NoError(t, report.Err())
	assert.Len(t, report.Saved, 2)

	for i, want := range []string{"A", "B"} {
		title, _ := tracks[i].Title()
		artist, _ := tracks[i].Artist()
		assert.Equal(t, "New Title", title)
		assert.Equal(t, want, artist)
		assert.False(t, tracks[i].Dirty())
	}
	album, _ := tracks[0].Album()
	assert.Equal(t, "X", album)
	_, ok := tracks[1].Album()
	assert.False(t, ok)

	v, _ := s.View(audio.FieldTitle)
	assert.Equal(t, ViewSingle, v.State)
	v, _ = s.View(audio.FieldArtist)
	assert.Equal(t, ViewConflict, v.State)
}

func TestApplyReportsRejectedValues(t *testing.T) {
	s := newSync(t)
	tracks := selectAll(t, s, newLibrary(t, "1.mp3", "2.mp3"))

	report := s.Apply(Edits{
		audio.FieldYear:        {Value: Text("99"), Write: true},
		audio.FieldAlbum:       {Value: Text("Album"), Write: true},
		audio.FieldCompilation: {Value: Checked(true), Write: true},
		audio.FieldComment:     {Value: Text("note"), Write: true},
	})

	require.Len(t, report.Errors, 2)
	for _, err := range report.Errors {
		var fe *audio.FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, audio.FieldYear, fe.Field)
		assert.ErrorIs(t, err, audio.ErrValidation)
	}
	assert.Len(t, report.Saved, 2)

	for _, track := range tracks {
		album, _ := track.Album()
		comment, _ := track.Comment()
		_, hasYear := track.Year()
		assert.Equal(t, "Album", album)
		assert.Equal(t, "note", comment)
		assert.True(t, track.Compilation())
		assert.False(t, hasYear)
	}
}

func TestApplyPicture(t *testing.T) {
	s := newSync(t)
	tracks := selectAll(t, s, newLibrary(t, "1.mp3", "2.mp3"))

	report := s.ApplyPicture([]byte("GIF89a"), "image/gif")
	require.Len(t, report.Errors, 1)
	assert.ErrorIs(t, report.Err(), audio.ErrUnsupportedMediaType)
	assert.Empty(t, report.Saved)

	report = s.ApplyPicture([]byte("\xff\xd8\xff\xe0"), "image/jpeg")
	require.NoError(t, report.Err())
	for _, track := range tracks {
		require.Len(t, track.Pictures(), 1)
	}
	v, _ := s.View(audio.FieldComment)
	assert.Equal(t, ViewSingle, v.State)
}

func TestClearSelected(t *testing.T) {
	s := newSync(t)
	tracks := selectAll(t, s, newLibrary(t, "1.mp3", "2.mp3"))
	tracks[0].SetTitle("T")
	tracks[1].SetArtist("A")

	report := s.ClearSelected()
	require.NoError(t, report.Err())

	for _, v := range s.Views() {
		if v.Descriptor.Toggle {
			continue
		}
		assert.Equal(t, ViewSingle, v.State, v.Descriptor.Label)
		assert.False(t, v.Value.Present, v.Descriptor.Label)
	}
}

func TestForget(t *testing.T) {
	paths := newLibrary(t, "1.mp3", "2.mp3", "3.mp3")
	s := newSync(t)
	selectAll(t, s, paths)
	require.NoError(t, s.SetSelection(paths[:1]))

	s.Forget(paths[1:2])

	assert.Equal(t, paths[:2], s.Paths())
}
