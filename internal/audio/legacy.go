package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"
)

const (
	id3v2HeaderSize = 10
	id3v1Size       = 128
)

// Frames that only exist in ID3v2.3. Their content is folded into TDRC
// and TDOR by upgrade before they are dropped.
var obsoleteV23Frames = []string{"TYER", "TDAT", "TIME", "TORY", "TRDA", "TSIZ", "RVAD", "EQUA"}

// inspect identifies the metadata container of the file at path.
//
// For ID3v2.3 and v2.4 files it returns nothing. For files the ID3v2
// library cannot load (ID3v1 only, ID3v2.2) it returns their fields and
// reports the container as missing; an ID3v2.2 header is stripped from the
// file so a fresh v2.4 tag can take its place.
func inspect(path string) (legacy tag.Metadata, missing bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, ioError("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, false, ioError("stat", path, err)
	}

	format, _, err := tag.Identify(f)
	if err != nil {
		// Files shorter than an ID3v1 trailer fail identification without
		// carrying any tag at all.
		if errors.Is(err, tag.ErrNoTagsFound) || info.Size() < id3v1Size {
			return nil, true, nil
		}
		return nil, false, ioError("identify", path, err)
	}

	switch format {
	case tag.ID3v2_3, tag.ID3v2_4:
		return nil, false, nil

	case tag.ID3v1, tag.ID3v2_2:
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, false, ioError("seek", path, err)
		}
		legacy, err = tag.ReadFrom(f)
		if err != nil {
			return nil, false, ioError("read "+string(format), path, err)
		}
		if format == tag.ID3v2_2 {
			f.Close()
			if err := stripID3v2(path); err != nil {
				return nil, false, err
			}
		}
		return legacy, true, nil
	}

	return nil, false, fmt.Errorf("%w: %s has a %s container", ErrUnsupportedFormat, path, format)
}

// stripID3v2 removes the ID3v2 tag at the start of the file.
func stripID3v2(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ioError("read", path, err)
	}
	if len(data) < id3v2HeaderSize || string(data[:3]) != "ID3" {
		return nil
	}

	// Bytes 6-9 hold a synchsafe size that excludes the header.
	size := int(data[6])<<21 | int(data[7])<<14 | int(data[8])<<7 | int(data[9])
	tagSize := size + id3v2HeaderSize
	if data[5]&0x10 != 0 {
		tagSize += id3v2HeaderSize
	}
	if tagSize > len(data) {
		return ioError("strip tag", path, fmt.Errorf("tag size %d exceeds file size %d", tagSize, len(data)))
	}

	info, err := os.Stat(path)
	if err != nil {
		return ioError("stat", path, err)
	}
	if err := os.WriteFile(path, data[tagSize:], info.Mode()); err != nil {
		return ioError("write", path, err)
	}
	return nil
}

// importLegacy copies the fields of an old tag into the v2.4 frame set.
func (t *Track) importLegacy(m tag.Metadata) {
	texts := []struct {
		field Field
		value string
	}{
		{FieldTitle, m.Title()},
		{FieldArtist, m.Artist()},
		{FieldAlbumArtist, m.AlbumArtist()},
		{FieldAlbum, m.Album()},
		{FieldGenre, m.Genre()},
	}
	for _, tv := range texts {
		if tv.value != "" {
			t.replaceText(tv.field.ID(), tv.value)
		}
	}

	if year := m.Year(); year > 0 {
		t.replaceText(FieldYear.ID(), fmt.Sprintf("%04d", year))
	}
	if n, total := m.Track(); n > 0 || total > 0 {
		t.replaceText(FieldTrack.ID(), formatTrack(n, total))
	}
	if c := m.Comment(); c != "" {
		t.AddComment(c, "", false)
	}
	if p := m.Picture(); p != nil {
		// Anything but PNG and JPEG is dropped.
		_ = t.SetPictureFromBytes(p.Data, p.MIMEType, false)
	}
}

func formatTrack(n, total int) string {
	switch {
	case n > 0 && total > 0:
		return fmt.Sprintf("%d/%d", n, total)
	case n > 0:
		return fmt.Sprintf("%d/", n)
	default:
		return fmt.Sprintf("/%d", total)
	}
}

// upgrade folds ID3v2.3 date frames into their v2.4 replacements and drops
// frames v2.4 no longer defines. The change stays in memory until the next
// Persist.
func (t *Track) upgrade() {
	if year := t.firstText("TYER"); year != "" && !t.has("TDRC") {
		date := year
		// TDAT is DDMM.
		if d := t.firstText("TDAT"); len(d) == 4 {
			date = fmt.Sprintf("%s-%s-%s", year, d[2:4], d[0:2])
		}
		t.tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, date)
	}
	if year := t.firstText("TORY"); year != "" && !t.has("TDOR") {
		t.tag.AddTextFrame("TDOR", id3v2.EncodingUTF8, year)
	}

	for _, id := range obsoleteV23Frames {
		t.tag.DeleteFrames(id)
	}
}

func (t *Track) has(id string) bool {
	return len(t.tag.GetFrames(id)) > 0
}

func (t *Track) firstText(id string) string {
	frames := t.tag.GetFrames(id)
	if len(frames) == 0 {
		return ""
	}
	texts := frameText(frames[0])
	if len(texts) == 0 {
		return ""
	}
	return texts[0]
}
