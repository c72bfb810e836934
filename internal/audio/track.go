package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bogem/id3v2"
	ioutils "github.com/cshotwell/mp3-tagger/internal/io"
	"github.com/sirupsen/logrus"
)

// DefaultCommentKey is the description used for comments written by the
// editor when the caller does not pick one.
const DefaultCommentKey = "comment_key"

const commentLanguage = "eng"

const trailingSpace = " \t\r\n"

// Track reads and writes the ID3 tag of one audio file.
//
// Track keeps the whole frame set in memory. Setters change that frame set
// immediately, so the next getter observes the change; nothing reaches the
// disk until Persist is called.
//
// Whatever ID3 version the file was written with, the in-memory tag is
// upgraded to ID3v2.4 when the file is opened and written back as v2.4:
//
//	track, err := audio.Open("/music/song.mp3")
//	if err != nil {
//	    return err
//	}
//	defer track.Close()
//
//	track.SetTitle("Come Together")
//	if err := track.SetYear("1969"); err != nil {
//	    return err // ErrValidation
//	}
//	err = track.Persist()
type Track struct {
	path string
	tag  *id3v2.Tag
	log  logrus.FieldLogger

	dirty bool

	// placeholder is set while the only TIT2 frame is the empty marker
	// that keeps the container non-empty.
	placeholder bool
}

// Option configures a Track.
type Option func(*Track)

// WithLogger sets the logger used for persist and rename events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(t *Track) {
		if log != nil {
			t.log = log
		}
	}
}

// Open loads the tag of the file at path.
//
// A file without an ID3v2 tag gets one: a tag holding a single empty title
// frame is written to the file before Open returns. ID3v1-only and ID3v2.2
// files are handled the same way, with their old fields carried over into
// the new tag. ID3v2.3 tags are upgraded to v2.4 in memory only.
//
// Returns ErrUnsupportedFormat for FLAC, MP4 and Ogg files and ErrIO when
// the file cannot be read or written.
func Open(path string, opts ...Option) (*Track, error) {
	t := &Track{
		path: filepath.Clean(path),
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}

	legacy, missing, err := inspect(t.path)
	if err != nil {
		return nil, err
	}

	tag, err := id3v2.Open(t.path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, ioError("open", t.path, err)
	}
	t.attach(tag)

	if legacy != nil {
		t.importLegacy(legacy)
	}
	t.upgrade()
	t.placeholder = t.hasPlaceholder()

	if missing {
		t.log.WithField("path", t.path).WithError(ErrMissingContainer).Debug("Writing new tag")
		if !t.tag.HasFrames() {
			t.addPlaceholder()
		}
		if err := t.Persist(); err != nil {
			t.Close()
			return nil, err
		}
	}

	return t, nil
}

func (t *Track) attach(tag *id3v2.Tag) {
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	t.tag = tag
}

// Path returns the current location of the file.
func (t *Track) Path() string {
	return t.path
}

// Dirty reports whether the tag has changes that were not persisted.
func (t *Track) Dirty() bool {
	return t.dirty
}

// Get returns the text of every frame backing f, joined by a single space,
// with trailing whitespace trimmed. The boolean is false when the tag holds
// no frame for f.
func (t *Track) Get(f Field) (string, bool) {
	if f == FieldTitle && t.placeholder {
		return "", false
	}

	frames := t.tag.GetFrames(f.ID())
	if len(frames) == 0 {
		return "", false
	}

	var texts []string
	for _, frame := range frames {
		texts = append(texts, frameText(frame)...)
	}
	return strings.TrimRight(strings.Join(texts, " "), trailingSpace), true
}

// Title returns the TIT2 text.
func (t *Track) Title() (string, bool) { return t.Get(FieldTitle) }

// Artist returns the TPE1 text.
func (t *Track) Artist() (string, bool) { return t.Get(FieldArtist) }

// AlbumArtist returns the TPE2 text.
func (t *Track) AlbumArtist() (string, bool) { return t.Get(FieldAlbumArtist) }

// Album returns the TALB text.
func (t *Track) Album() (string, bool) { return t.Get(FieldAlbum) }

// Genre returns the TCON text. Numeric genre codes are not decoded.
func (t *Track) Genre() (string, bool) { return t.Get(FieldGenre) }

// Year returns the TDRC text.
func (t *Track) Year() (string, bool) { return t.Get(FieldYear) }

// TrackNumber returns the TRCK text, "N/TOTAL".
func (t *Track) TrackNumber() (string, bool) { return t.Get(FieldTrack) }

// Comment returns the text of every comment frame joined by a space.
func (t *Track) Comment() (string, bool) { return t.Get(FieldComment) }

// Compilation reports whether the track is part of a compilation. Only an
// absent flag or "0" reads as false.
func (t *Track) Compilation() bool {
	v, ok := t.Get(FieldCompilation)
	return ok && v != "0"
}

// SetText replaces every frame backing f with one frame holding value.
//
// Year, track and compilation values are validated the same way as their
// dedicated setters. Comment and picture fields are repeatable and must be
// written with AddComment and the SetPicture methods. A value containing a
// NUL byte returns ErrValidation: ID3v2.4 uses NUL to separate the values
// of one text frame.
func (t *Track) SetText(f Field, value string) error {
	if strings.ContainsRune(value, 0) {
		return fmt.Errorf("%w: %s must not contain a NUL byte", ErrValidation, f)
	}

	switch f {
	case FieldYear:
		return t.SetYear(value)
	case FieldTrack:
		return t.SetTrack(value)
	case FieldCompilation:
		switch value {
		case "0":
			t.SetCompilation(false)
		case "1":
			t.SetCompilation(true)
		default:
			return fmt.Errorf("%w: compilation flag must be 0 or 1, got %q", ErrValidation, value)
		}
		return nil
	}

	if f.Kind().Capability() != Replace {
		return fmt.Errorf("%w: %s is a repeatable %s field", ErrValidation, f, f.Kind())
	}
	t.replaceText(f.ID(), value)
	return nil
}

// The plain text setters below do not validate. A NUL byte in the value
// splits it into several frame values; use SetText to reject it.

// SetTitle replaces the TIT2 frame.
func (t *Track) SetTitle(title string) { t.replaceText(FieldTitle.ID(), title) }

// SetArtist replaces the TPE1 frame.
func (t *Track) SetArtist(artist string) { t.replaceText(FieldArtist.ID(), artist) }

// SetAlbumArtist replaces the TPE2 frame.
func (t *Track) SetAlbumArtist(albumArtist string) { t.replaceText(FieldAlbumArtist.ID(), albumArtist) }

// SetAlbum replaces the TALB frame.
func (t *Track) SetAlbum(album string) { t.replaceText(FieldAlbum.ID(), album) }

// SetGenre replaces the TCON frame.
func (t *Track) SetGenre(genre string) { t.replaceText(FieldGenre.ID(), genre) }

// SetYear sets the recording year. TDRC accepts full timestamps but the
// editor only writes a four digit year.
func (t *Track) SetYear(year string) error {
	if err := ValidateYear(year); err != nil {
		return err
	}
	t.replaceText(FieldYear.ID(), year)
	return nil
}

// SetTrack sets the track number and total as "N/TOTAL", "N/" or "/TOTAL".
func (t *Track) SetTrack(track string) error {
	if err := ValidateTrack(track); err != nil {
		return err
	}
	t.replaceText(FieldTrack.ID(), track)
	return nil
}

// SetCompilation stores the flag as "1" or "0".
func (t *Track) SetCompilation(isPart bool) {
	v := "0"
	if isPart {
		v = "1"
	}
	t.replaceText(FieldCompilation.ID(), v)
}

func (t *Track) replaceText(id, value string) {
	t.tag.DeleteFrames(id)
	t.tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
	if id == FieldTitle.ID() {
		t.placeholder = false
	}
	t.dirty = true
}

// AddComment adds a comment frame described by key. With clearExisting the
// tag's other comments are removed first; without it comments pile up and
// Get(FieldComment) returns all of them.
func (t *Track) AddComment(text, key string, clearExisting bool) {
	if clearExisting {
		t.ClearComments()
	}
	t.tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    commentLanguage,
		Description: key,
		Text:        text,
	})
	t.dirty = true
}

// ClearComments removes every comment frame.
func (t *Track) ClearComments() {
	t.tag.DeleteFrames(FieldComment.ID())
	t.dirty = true
}

// ClearAll removes every frame and leaves a single empty title frame so
// the tag stays well formed. Call Persist to write the result.
func (t *Track) ClearAll() {
	t.tag.DeleteAllFrames()
	t.addPlaceholder()
	t.dirty = true
}

func (t *Track) addPlaceholder() {
	t.tag.AddTextFrame(FieldTitle.ID(), id3v2.EncodingUTF8, "")
	t.placeholder = true
}

// hasPlaceholder reports whether the tag's title is the lone empty frame
// written by Open or ClearAll.
func (t *Track) hasPlaceholder() bool {
	frames := t.tag.GetFrames(FieldTitle.ID())
	if len(frames) != 1 {
		return false
	}
	texts := frameText(frames[0])
	return len(texts) == 0 || (len(texts) == 1 && texts[0] == "")
}

// Persist writes the in-memory tag to the file as ID3v2.4. Calling it on a
// clean track rewrites the same bytes.
func (t *Track) Persist() error {
	t.tag.SetVersion(4)
	if err := t.tag.Save(); err != nil {
		return ioError("save", t.path, err)
	}
	if err := t.reattach(t.path); err != nil {
		return err
	}
	t.dirty = false
	t.log.WithField("path", t.path).Info("Saved tag")
	return nil
}

// Rename moves the file to newBaseName inside its current directory. The
// name is made safe first with ioutils.EnsureValidFileName.
//
// Renaming to the current name succeeds without touching the file.
// Returns ErrFileExists when another file already has the target name.
func (t *Track) Rename(newBaseName string) error {
	name := ioutils.EnsureValidFileName(newBaseName)
	if name == "" {
		return fmt.Errorf("%w: empty file name", ErrValidation)
	}

	target := filepath.Join(filepath.Dir(t.path), name)
	if target == t.path {
		return nil
	}

	if info, err := os.Lstat(target); err == nil {
		// Case-insensitive filesystems report the file itself.
		current, statErr := os.Stat(t.path)
		if statErr != nil || !os.SameFile(current, info) {
			return fmt.Errorf("%w: %s", ErrFileExists, target)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return ioError("stat", target, err)
	}

	if err := os.Rename(t.path, target); err != nil {
		return ioError("rename", t.path, err)
	}

	old := t.path
	t.path = target
	if err := t.reattach(target); err != nil {
		return err
	}

	t.log.WithFields(logrus.Fields{"from": old, "to": target}).Info("Renamed file")
	return nil
}

// reattach binds the in-memory frames to the file at path. It is needed
// after a save or a rename because the library keeps the file it read from.
func (t *Track) reattach(path string) error {
	frames := t.tag.AllFrames()
	t.tag.Close()

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return ioError("reopen", path, err)
	}
	tag.DeleteAllFrames()
	for id, list := range frames {
		for _, f := range list {
			tag.AddFrame(id, f)
		}
	}
	t.attach(tag)
	return nil
}

// Close releases the file handle held by the tag. Unsaved changes are lost.
func (t *Track) Close() error {
	if t.tag == nil {
		return nil
	}
	return t.tag.Close()
}

// String dumps every frame, one per line, sorted by identifier.
func (t *Track) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (ID3v2.%d)\n", t.path, t.tag.Version())

	frames := t.tag.AllFrames()
	ids := make([]string, 0, len(frames))
	for id := range frames {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		for _, f := range frames[id] {
			fmt.Fprintf(&sb, "%s=%s\n", id, describeFrame(f))
		}
	}
	return sb.String()
}

// frameText extracts the text values of a frame. ID3v2.4 text frames may
// hold several NUL separated values.
func frameText(f id3v2.Framer) []string {
	switch f := f.(type) {
	case id3v2.TextFrame:
		return splitValues(f.Text)
	case *id3v2.TextFrame:
		return splitValues(f.Text)
	case id3v2.CommentFrame:
		return []string{f.Text}
	case *id3v2.CommentFrame:
		return []string{f.Text}
	case id3v2.PictureFrame:
		return []string{f.Description}
	case *id3v2.PictureFrame:
		return []string{f.Description}
	case id3v2.UserDefinedTextFrame:
		return []string{f.Value}
	}
	return nil
}

func splitValues(text string) []string {
	return strings.Split(strings.TrimRight(text, "\x00"), "\x00")
}

func describeFrame(f id3v2.Framer) string {
	switch f := f.(type) {
	case id3v2.CommentFrame:
		return fmt.Sprintf("[%s:%s] %s", f.Language, f.Description, f.Text)
	case id3v2.PictureFrame:
		return fmt.Sprintf("%s (%s, type %d, %d bytes)", f.Description, f.MimeType, f.PictureType, len(f.Picture))
	}
	if texts := frameText(f); texts != nil {
		return strings.Join(texts, " / ")
	}
	return fmt.Sprintf("%d bytes", f.Size())
}
