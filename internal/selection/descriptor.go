package selection

import (
	"github.com/cshotwell/mp3-tagger/internal/audio"
)

// MultipleValuesText is shown in place of a value the selected tracks
// disagree on.
const MultipleValuesText = "Multiple Values"

// Value is the content of one editor field for one track. It is compared
// with ==.
type Value struct {
	// Text holds the value of a text field.
	Text string

	// Checked holds the value of a toggle field.
	Checked bool

	// Present is false when the tag has no frame for the field. Toggle
	// fields are always present.
	Present bool
}

// Text returns a present text value.
func Text(s string) Value {
	return Value{Text: s, Present: true}
}

// Checked returns a toggle value.
func Checked(b bool) Value {
	return Value{Checked: b, Present: true}
}

// Descriptor binds an editor field to the track accessors that read and
// write it. Descriptors carry no per-track state.
type Descriptor struct {
	Label  string
	Toggle bool
	Field  audio.Field
	Get    func(*audio.Track) Value
	Set    func(*audio.Track, Value) error
}

func textField(label string, f audio.Field) Descriptor {
	return Descriptor{
		Label: label,
		Field: f,
		Get: func(t *audio.Track) Value {
			s, ok := t.Get(f)
			return Value{Text: s, Present: ok}
		},
		Set: func(t *audio.Track, v Value) error {
			return t.SetText(f, v.Text)
		},
	}
}

// DefaultFields returns the fields of the editor in display order. Comments
// are written under commentKey and replace the comments already in the tag.
func DefaultFields(commentKey string) []Descriptor {
	if commentKey == "" {
		commentKey = audio.DefaultCommentKey
	}

	return []Descriptor{
		textField("Title", audio.FieldTitle),
		textField("Artist", audio.FieldArtist),
		textField("Album Artist", audio.FieldAlbumArtist),
		textField("Album", audio.FieldAlbum),
		textField("Genre", audio.FieldGenre),
		textField("Year", audio.FieldYear),
		textField("Track", audio.FieldTrack),
		{
			Label: "Comment",
			Field: audio.FieldComment,
			Get: func(t *audio.Track) Value {
				s, ok := t.Comment()
				return Value{Text: s, Present: ok}
			},
			Set: func(t *audio.Track, v Value) error {
				t.AddComment(v.Text, commentKey, true)
				return nil
			},
		},
		{
			Label:  "Part of Compilation",
			Toggle: true,
			Field:  audio.FieldCompilation,
			Get: func(t *audio.Track) Value {
				return Checked(t.Compilation())
			},
			Set: func(t *audio.Track, v Value) error {
				t.SetCompilation(v.Checked)
				return nil
			},
		},
	}
}
