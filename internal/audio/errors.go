package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when a value does not match the format a
	// field requires (year, track, compilation flag) or when a field is
	// written through the wrong setter.
	ErrValidation = errors.New("invalid value")

	// ErrUnsupportedMediaType is returned when a picture is not PNG or JPEG.
	// It wraps ErrValidation.
	ErrUnsupportedMediaType = fmt.Errorf("%w: unsupported media type", ErrValidation)

	// ErrUnsupportedFormat is returned when a file carries a metadata
	// container other than ID3 (FLAC, MP4, Ogg).
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileExists is returned by Rename when the target path is taken.
	ErrFileExists = errors.New("file already exists")

	// ErrInsufficientMetadata is returned when a file name cannot be built
	// because none of artist, album and title are present.
	ErrInsufficientMetadata = errors.New("not enough metadata")

	// ErrMissingContainer marks a file without an ID3v2 tag. Open recovers
	// from it locally and never returns it.
	ErrMissingContainer = errors.New("no ID3v2 tag")

	// ErrIO wraps filesystem failures other than naming collisions.
	ErrIO = errors.New("i/o failure")
)

// FieldError reports a setter failure for one field on one file.
type FieldError struct {
	Path  string
	Field Field
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ioError wraps err with ErrIO unless it already carries it.
func ioError(op, path string, err error) error {
	if errors.Is(err, ErrIO) {
		return err
	}
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}
