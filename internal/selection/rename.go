package selection

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cshotwell/mp3-tagger/internal/audio"
	ioutils "github.com/cshotwell/mp3-tagger/internal/io"
	"github.com/sirupsen/logrus"
)

// Move records one renamed file.
type Move struct {
	From string
	To   string
}

// RenameReport describes the outcome of RenameSelected. Paths are the ones
// the files had before the batch.
type RenameReport struct {
	Renamed      []Move
	Skipped      []string
	Insufficient []string
	Collisions   []string
	Failed       map[string]error
}

// OK reports whether every file ended up with its generated name.
func (r RenameReport) OK() bool {
	return len(r.Insufficient) == 0 && len(r.Collisions) == 0 && len(r.Failed) == 0
}

// String renders the report as one message for the user.
func (r RenameReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Renamed %d file(s), %d already named correctly.", len(r.Renamed), len(r.Skipped))

	list := func(header string, paths []string) {
		if len(paths) == 0 {
			return
		}
		sb.WriteString("\n" + header + "\n- ")
		sb.WriteString(strings.Join(paths, "\n- "))
	}
	list("Unable to rename the following file(s) due to insufficient metadata:", r.Insufficient)
	list("Unable to rename the following file(s) because a file with the same name already exists:", r.Collisions)

	if len(r.Failed) > 0 {
		sb.WriteString("\nUnable to rename the following file(s):")
		for p, err := range r.Failed {
			fmt.Fprintf(&sb, "\n- %s: %v", p, err)
		}
	}
	return sb.String()
}

// FileName builds "<artist><sep><album><sep><title><ext>" from the fields
// the track has. Absent fields are left out. Returns
// audio.ErrInsufficientMetadata when all three are absent, or when the
// present ones leave nothing but the extension.
func FileName(t *audio.Track, sep, ext string) (string, error) {
	var parts []string
	for _, f := range []audio.Field{audio.FieldArtist, audio.FieldAlbum, audio.FieldTitle} {
		if v, ok := t.Get(f); ok {
			parts = append(parts, v)
		}
	}
	base := strings.Join(parts, sep)
	if strings.TrimSpace(ioutils.EnsureValidFileName(base)) == "" {
		return "", audio.ErrInsufficientMetadata
	}
	return ioutils.EnsureValidFileName(base + ext), nil
}

// RenameSelected renames every selected file after its tags. The file
// extension is kept.
//
// A file that already has its generated name is skipped. Files without
// artist, album and title, and files whose generated name is taken, are
// recorded in the report and the batch carries on. Once every file has
// been processed the index is re-keyed so renamed tracks are found under
// their new path; the Track values themselves do not change.
func (s *Synchronizer) RenameSelected() RenameReport {
	report := RenameReport{Failed: make(map[string]error)}
	var moves []Move

	for _, t := range s.selected {
		from := t.Path()
		log := s.log.WithField("path", from)

		name, err := FileName(t, s.separator, filepath.Ext(from))
		if err != nil {
			log.Warn("Not enough metadata to rename")
			report.Insufficient = append(report.Insufficient, from)
			continue
		}
		if name == filepath.Base(from) {
			report.Skipped = append(report.Skipped, from)
			continue
		}

		err = t.Rename(name)
		switch {
		case errors.Is(err, audio.ErrFileExists):
			log.WithField("name", name).Warn("Rename target exists")
			report.Collisions = append(report.Collisions, from)
		case err != nil:
			log.WithError(err).Warn("Failed to rename")
			report.Failed[from] = err
		default:
			moves = append(moves, Move{From: from, To: t.Path()})
		}
	}

	s.rekey(moves)
	report.Renamed = moves
	return report
}

// rekey moves index entries from old to new paths. All old keys are
// removed before any new key is inserted, so a chain of renames never
// drops an entry.
func (s *Synchronizer) rekey(moves []Move) {
	tracks := make([]*audio.Track, len(moves))
	for i, m := range moves {
		tracks[i] = s.index[m.From]
		delete(s.index, m.From)
	}
	for i, m := range moves {
		s.index[m.To] = tracks[i]
		s.log.WithFields(logrus.Fields{"from": m.From, "to": m.To}).Debug("Re-keyed track")
	}
}
