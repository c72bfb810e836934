package selection

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cshotwell/mp3-tagger/internal/audio"
	"github.com/sirupsen/logrus"
)

// Opener loads the track at path.
type Opener func(path string) (*audio.Track, error)

// Synchronizer keeps the tracks a user is editing and the editor view
// derived from them.
//
// Tracks are opened the first time their path is selected and stay open
// until Close. There is never more than one Track per path, so two edits
// of the same file always go through the same in-memory tag.
//
// A Synchronizer is not safe for concurrent use. Every method runs to
// completion on the caller's goroutine.
//
//	sync := selection.New(selection.DefaultFields(""))
//	defer sync.Close()
//
//	if err := sync.SetSelection(paths); err != nil {
//	    log.WithError(err).Warn("Some files could not be opened")
//	}
//	for _, v := range sync.Views() {
//	    fmt.Printf("%s: %s\n", v.Descriptor.Label, v.Display())
//	}
//
//	report := sync.Apply(selection.Edits{
//	    audio.FieldArtist: {Value: selection.Text("The Beatles"), Write: true},
//	})
type Synchronizer struct {
	fields    []Descriptor
	index     map[string]*audio.Track
	selected  []*audio.Track
	views     []FieldView
	open      Opener
	separator string
	log       logrus.FieldLogger
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger. Tracks opened by the default opener share it.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Synchronizer) {
		if log != nil {
			s.log = log
		}
	}
}

// WithOpener replaces audio.Open as the way tracks are loaded.
func WithOpener(open Opener) Option {
	return func(s *Synchronizer) {
		if open != nil {
			s.open = open
		}
	}
}

// WithSeparator sets the string placed between artist, album and title in
// generated file names.
func WithSeparator(sep string) Option {
	return func(s *Synchronizer) {
		if sep != "" {
			s.separator = sep
		}
	}
}

// DefaultSeparator joins the parts of a generated file name.
const DefaultSeparator = " - "

// New creates a Synchronizer for the given fields.
func New(fields []Descriptor, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		fields:    fields,
		index:     make(map[string]*audio.Track),
		separator: DefaultSeparator,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.open == nil {
		log := s.log
		s.open = func(path string) (*audio.Track, error) {
			return audio.Open(path, audio.WithLogger(log))
		}
	}
	s.views = s.computeViews()
	return s
}

// SetSelection makes paths the current selection, in the given order.
// Paths that were never selected before are opened now.
//
// A path that cannot be opened is left out of the selection; the rest
// are still selected. The returned error joins every open failure.
func (s *Synchronizer) SetSelection(paths []string) error {
	var (
		errs     []error
		selected []*audio.Track
		seen     = make(map[*audio.Track]bool)
	)

	for _, p := range paths {
		t, err := s.track(p)
		if err != nil {
			s.log.WithField("path", p).WithError(err).Warn("Failed to open track")
			errs = append(errs, err)
			continue
		}
		if !seen[t] {
			seen[t] = true
			selected = append(selected, t)
		}
	}

	s.selected = selected
	s.views = s.computeViews()
	return errors.Join(errs...)
}

func (s *Synchronizer) track(path string) (*audio.Track, error) {
	path = filepath.Clean(path)
	if t, ok := s.index[path]; ok {
		return t, nil
	}

	t, err := s.open(path)
	if err != nil {
		return nil, err
	}
	s.index[path] = t
	s.log.WithField("path", path).Debug("Opened track")
	return t, nil
}

// Selected returns the selected tracks in selection order.
func (s *Synchronizer) Selected() []*audio.Track {
	return append([]*audio.Track(nil), s.selected...)
}

// SelectedPaths returns the current paths of the selected tracks.
func (s *Synchronizer) SelectedPaths() []string {
	paths := make([]string, len(s.selected))
	for i, t := range s.selected {
		paths[i] = t.Path()
	}
	return paths
}

// Track returns the open track for path, if it was ever selected.
func (s *Synchronizer) Track(path string) (*audio.Track, bool) {
	t, ok := s.index[filepath.Clean(path)]
	return t, ok
}

// Paths returns every indexed path, sorted.
func (s *Synchronizer) Paths() []string {
	paths := make([]string, 0, len(s.index))
	for p := range s.index {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Views returns the view of every field in display order.
func (s *Synchronizer) Views() []FieldView {
	return append([]FieldView(nil), s.views...)
}

// View returns the view of one field.
func (s *Synchronizer) View(f audio.Field) (FieldView, bool) {
	for _, v := range s.views {
		if v.Descriptor.Field == f {
			return v, true
		}
	}
	return FieldView{}, false
}

// Refresh recomputes the views from the tracks. Views are otherwise only
// recomputed by the Synchronizer's own operations.
func (s *Synchronizer) Refresh() {
	s.views = s.computeViews()
}

func (s *Synchronizer) computeViews() []FieldView {
	views := make([]FieldView, len(s.fields))
	for i, d := range s.fields {
		views[i] = diff(d, s.selected)
	}
	return views
}

// Edit is the user's input for one field. Only edits with Write set are
// applied, which mirrors the checkbox next to each editor field.
type Edit struct {
	Value Value
	Write bool
}

// Edits maps fields to the user's input.
type Edits map[audio.Field]Edit

// ApplyReport describes the outcome of Apply.
type ApplyReport struct {
	// Saved lists the paths that were written.
	Saved []string

	// Errors holds one *audio.FieldError per rejected value and one error
	// per track that could not be saved.
	Errors []error
}

// Err joins every error of the report, or returns nil.
func (r ApplyReport) Err() error {
	return errors.Join(r.Errors...)
}

func (r ApplyReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Saved %d file(s).", len(r.Saved))
	if len(r.Errors) > 0 {
		sb.WriteString("\nThe following changes failed:")
		for _, err := range r.Errors {
			sb.WriteString("\n- " + err.Error())
		}
	}
	return sb.String()
}

// Apply writes every edit marked Write to every selected track and then
// persists each track that took at least one value, once.
//
// A rejected value is recorded and the remaining fields and tracks are
// still processed. Fields without a Write edit are never touched, whatever
// their view shows.
func (s *Synchronizer) Apply(edits Edits) ApplyReport {
	var report ApplyReport

	for _, t := range s.selected {
		changed := false
		for _, d := range s.fields {
			e, ok := edits[d.Field]
			if !ok || !e.Write {
				continue
			}
			if err := d.Set(t, e.Value); err != nil {
				fe := &audio.FieldError{Path: t.Path(), Field: d.Field, Err: err}
				s.log.WithFields(logrus.Fields{"path": t.Path(), "field": d.Field.String()}).WithError(err).Warn("Rejected value")
				report.Errors = append(report.Errors, fe)
				continue
			}
			changed = true
		}

		if !changed {
			continue
		}
		if err := t.Persist(); err != nil {
			s.log.WithField("path", t.Path()).WithError(err).Warn("Failed to save track")
			report.Errors = append(report.Errors, err)
			continue
		}
		report.Saved = append(report.Saved, t.Path())
	}

	s.views = s.computeViews()
	return report
}

// ApplyPicture embeds data as the front cover of every selected track and
// persists them. The type is checked once, before any track is touched.
func (s *Synchronizer) ApplyPicture(data []byte, mimeType string) ApplyReport {
	var report ApplyReport

	for _, t := range s.selected {
		if err := t.SetPictureFromBytes(data, mimeType, true); err != nil {
			report.Errors = append(report.Errors, &audio.FieldError{Path: t.Path(), Field: audio.FieldPicture, Err: err})
			if errors.Is(err, audio.ErrUnsupportedMediaType) {
				break
			}
			continue
		}
		if err := t.Persist(); err != nil {
			report.Errors = append(report.Errors, err)
			continue
		}
		report.Saved = append(report.Saved, t.Path())
	}

	s.views = s.computeViews()
	return report
}

// ClearSelected removes every frame from the selected tracks and persists
// them.
func (s *Synchronizer) ClearSelected() ApplyReport {
	var report ApplyReport

	for _, t := range s.selected {
		t.ClearAll()
		if err := t.Persist(); err != nil {
			report.Errors = append(report.Errors, err)
			continue
		}
		report.Saved = append(report.Saved, t.Path())
	}

	s.views = s.computeViews()
	return report
}

// Forget closes and drops tracks whose paths are not in keep. Selected
// tracks are kept. Use it after the directory listing changed.
func (s *Synchronizer) Forget(keep []string) {
	wanted := make(map[string]bool, len(keep))
	for _, p := range keep {
		wanted[filepath.Clean(p)] = true
	}
	selected := make(map[*audio.Track]bool, len(s.selected))
	for _, t := range s.selected {
		selected[t] = true
	}

	for p, t := range s.index {
		if wanted[p] || selected[t] {
			continue
		}
		if t.Dirty() {
			s.log.WithField("path", p).Warn("Dropping track with unsaved changes")
		}
		t.Close()
		delete(s.index, p)
	}
}

// Close closes every open track. Unsaved changes are lost.
func (s *Synchronizer) Close() error {
	var errs []error
	for p, t := range s.index {
		if err := t.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", p, err))
		}
	}
	s.index = make(map[string]*audio.Track)
	s.selected = nil
	s.views = s.computeViews()
	return errors.Join(errs...)
}
