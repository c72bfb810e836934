package selection

import (
	"github.com/cshotwell/mp3-tagger/internal/audio"
)

// ViewState tells what an editor field should show for the selection.
type ViewState int

const (
	// ViewEmpty means no track is selected.
	ViewEmpty ViewState = iota

	// ViewSingle means every selected track has the same value.
	ViewSingle

	// ViewConflict means at least two selected tracks differ.
	ViewConflict
)

func (s ViewState) String() string {
	switch s {
	case ViewSingle:
		return "single"
	case ViewConflict:
		return "conflict"
	default:
		return "empty"
	}
}

// FieldView is the derived state of one field across the selection.
type FieldView struct {
	Descriptor Descriptor
	State      ViewState

	// Value is set only in ViewSingle.
	Value Value
}

// Display renders the view as the text a field widget should hold.
func (v FieldView) Display() string {
	switch v.State {
	case ViewConflict:
		return MultipleValuesText
	case ViewSingle:
		if v.Descriptor.Toggle {
			if v.Value.Checked {
				return "yes"
			}
			return "no"
		}
		return v.Value.Text
	}
	return ""
}

// diff computes the view of d over tracks. The first track is the
// reference and scanning stops at the first mismatch.
func diff(d Descriptor, tracks []*audio.Track) FieldView {
	view := FieldView{Descriptor: d}
	if len(tracks) == 0 {
		return view
	}

	ref := d.Get(tracks[0])
	for _, t := range tracks[1:] {
		if d.Get(t) != ref {
			view.State = ViewConflict
			return view
		}
	}

	view.State = ViewSingle
	view.Value = ref
	return view
}
