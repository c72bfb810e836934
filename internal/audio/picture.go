package audio

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
)

const frontCoverDescription = "Front Cover"

// Picture types accepted for embedded cover art.
const (
	MIMETypePNG  = "image/png"
	MIMETypeJPEG = "image/jpeg"
)

// Picture is an embedded image as stored in an APIC frame.
type Picture struct {
	MIMEType    string
	Description string
	Type        byte
	Data        []byte
}

// Downloader fetches a remote resource into memory.
type Downloader interface {
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

// Pictures returns every embedded picture in tag order.
func (t *Track) Pictures() []Picture {
	var pictures []Picture
	for _, f := range t.tag.GetFrames(FieldPicture.ID()) {
		switch pf := f.(type) {
		case id3v2.PictureFrame:
			pictures = append(pictures, pictureFromFrame(pf))
		case *id3v2.PictureFrame:
			pictures = append(pictures, pictureFromFrame(*pf))
		}
	}
	return pictures
}

func pictureFromFrame(pf id3v2.PictureFrame) Picture {
	return Picture{
		MIMEType:    pf.MimeType,
		Description: pf.Description,
		Type:        pf.PictureType,
		Data:        pf.Picture,
	}
}

// ClearPictures removes every picture frame.
func (t *Track) ClearPictures() {
	t.tag.DeleteFrames(FieldPicture.ID())
	t.dirty = true
}

// SetPictureFromBytes embeds data as the front cover. The MIME type is
// checked before the tag is touched; anything other than PNG or JPEG
// returns ErrUnsupportedMediaType.
//
// ID3 keys pictures by role, so a second front cover replaces the first
// even when clearExisting is false.
func (t *Track) SetPictureFromBytes(data []byte, mimeType string, clearExisting bool) error {
	mimeType, err := checkPictureType(mimeType)
	if err != nil {
		return err
	}

	if clearExisting {
		t.ClearPictures()
	}
	t.tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    mimeType,
		PictureType: id3v2.PTFrontCover,
		Description: frontCoverDescription,
		Picture:     data,
	})
	t.dirty = true
	return nil
}

// SetPictureFromReader reads r to the end and embeds it as the front cover.
func (t *Track) SetPictureFromReader(r io.Reader, mimeType string, clearExisting bool) error {
	if _, err := checkPictureType(mimeType); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return ioError("read picture", t.path, err)
	}
	return t.SetPictureFromBytes(data, mimeType, clearExisting)
}

// SetPictureFromFile embeds the image file at name. The MIME type comes
// from the file extension.
func (t *Track) SetPictureFromFile(name string, clearExisting bool) error {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if _, err := checkPictureType(mimeType); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	f, err := os.Open(name)
	if err != nil {
		return ioError("open picture", name, err)
	}
	defer f.Close()

	return t.SetPictureFromReader(f, mimeType, clearExisting)
}

// SetPictureFromURL downloads an image and embeds it. The MIME type comes
// from the URL path extension, or from the content when the path has none.
func (t *Track) SetPictureFromURL(ctx context.Context, d Downloader, rawURL string, clearExisting bool) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: bad picture URL %q: %v", ErrValidation, rawURL, err)
	}

	ext := strings.ToLower(path.Ext(u.Path))
	mimeType := mime.TypeByExtension(ext)
	if ext != "" {
		if _, err := checkPictureType(mimeType); err != nil {
			return fmt.Errorf("%s: %w", rawURL, err)
		}
	}

	data, err := d.DownloadBytes(ctx, rawURL)
	if err != nil {
		return ioError("download picture", rawURL, err)
	}
	if ext == "" {
		mimeType = http.DetectContentType(data)
	}
	return t.SetPictureFromBytes(data, mimeType, clearExisting)
}

// checkPictureType normalises a MIME type and rejects everything but PNG
// and JPEG.
func checkPictureType(mimeType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(mimeType))
	}

	switch mediaType {
	case MIMETypePNG, MIMETypeJPEG:
		return mediaType, nil
	case "image/jpg":
		return MIMETypeJPEG, nil
	}
	return "", fmt.Errorf("%w: %q (want %s or %s)", ErrUnsupportedMediaType, mimeType, MIMETypePNG, MIMETypeJPEG)
}
