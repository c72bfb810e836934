package audio

import (
	"fmt"
	"regexp"
)

// Field names one of the tag fields the editor exposes.
type Field int

const (
	FieldTitle Field = iota
	FieldArtist
	FieldAlbumArtist
	FieldAlbum
	FieldGenre
	FieldYear
	FieldTrack
	FieldCompilation
	FieldComment
	FieldPicture
)

// Fields lists every Field in display order.
var Fields = []Field{
	FieldTitle,
	FieldArtist,
	FieldAlbumArtist,
	FieldAlbum,
	FieldGenre,
	FieldYear,
	FieldTrack,
	FieldCompilation,
	FieldComment,
	FieldPicture,
}

// FrameKind tells how frames of one identifier behave when a new value
// is added to the tag.
type FrameKind int

const (
	// KindText is a singleton text frame: adding replaces every existing
	// frame with the same identifier.
	KindText FrameKind = iota

	// KindComment is a repeatable COMM frame carrying a language code and a
	// description key.
	KindComment

	// KindPicture is a repeatable APIC frame carrying a MIME type and a
	// picture role.
	KindPicture
)

// Capability is what adding a frame of some kind does to its siblings.
type Capability int

const (
	Replace Capability = iota
	Append
)

// Capability reports whether frames of kind k replace or append.
func (k FrameKind) Capability() Capability {
	switch k {
	case KindComment, KindPicture:
		return Append
	default:
		return Replace
	}
}

func (k FrameKind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindPicture:
		return "picture"
	default:
		return "text"
	}
}

type frameSpec struct {
	id    string
	kind  FrameKind
	label string
}

// These are ID3v2.4 identifiers. TDRC replaces the v2.3 TYER/TDAT pair.
var frameSpecs = map[Field]frameSpec{
	FieldTitle:       {id: "TIT2", kind: KindText, label: "title"},
	FieldArtist:      {id: "TPE1", kind: KindText, label: "artist"},
	FieldAlbumArtist: {id: "TPE2", kind: KindText, label: "album artist"},
	FieldAlbum:       {id: "TALB", kind: KindText, label: "album"},
	FieldGenre:       {id: "TCON", kind: KindText, label: "genre"},
	FieldYear:        {id: "TDRC", kind: KindText, label: "year"},
	FieldTrack:       {id: "TRCK", kind: KindText, label: "track"},
	FieldCompilation: {id: "TCMP", kind: KindText, label: "compilation"},
	FieldComment:     {id: "COMM", kind: KindComment, label: "comment"},
	FieldPicture:     {id: "APIC", kind: KindPicture, label: "picture"},
}

// ID returns the frame identifier backing f.
func (f Field) ID() string {
	return frameSpecs[f].id
}

// Kind returns the frame kind backing f.
func (f Field) Kind() FrameKind {
	return frameSpecs[f].kind
}

func (f Field) String() string {
	if spec, ok := frameSpecs[f]; ok {
		return spec.label
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField maps a frame identifier or a field label back to a Field.
func ParseField(s string) (Field, error) {
	for f, spec := range frameSpecs {
		if s == spec.id || s == spec.label {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown field %q", ErrValidation, s)
}

var (
	yearPattern  = regexp.MustCompile(`^[0-9]{4}$`)
	trackPattern = regexp.MustCompile(`^[0-9]*/[0-9]*$`)
)

// ValidateYear checks that v is exactly four decimal digits.
func ValidateYear(v string) error {
	if !yearPattern.MatchString(v) {
		return fmt.Errorf("%w: year must be of the form YYYY, got %q", ErrValidation, v)
	}
	return nil
}

// ValidateTrack checks that v has the form <number>/<total>, where either
// side may be empty but the slash is required.
func ValidateTrack(v string) error {
	if !trackPattern.MatchString(v) {
		return fmt.Errorf("%w: track must be of the form N/TOTAL, got %q", ErrValidation, v)
	}
	return nil
}
