package ioutils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"golang.org/x/text/unicode/norm"
)

// MaxFileNameBytes is the longest base name most filesystems accept.
const MaxFileNameBytes = 255

// DefaultAudioPattern matches the files the editor works on.
const DefaultAudioPattern = "*.mp3"

// Colons are rejected by macOS Finder, slashes and NUL by every POSIX
// filesystem.
var unsafeChars = regexp.MustCompile("[:/\x00]")

// EnsureValidFileName makes a generated base name safe to use inside a
// directory. It must not be given a full path.
//
// Unsafe characters are removed and the name is normalised to NFC. The
// part before the extension is then cut, on a character boundary, so that
// name and extension together fit in MaxFileNameBytes bytes.
//
// Example:
//
//	EnsureValidFileName("AC/DC - Live: 1991.mp3") // "ACDC - Live 1991.mp3"
func EnsureValidFileName(name string) string {
	ext := filepath.Ext(name)
	root := strings.TrimSuffix(name, ext)

	root = norm.NFC.String(unsafeChars.ReplaceAllString(root, ""))
	ext = norm.NFC.String(unsafeChars.ReplaceAllString(ext, ""))

	limit := MaxFileNameBytes - len(ext)
	if limit < 0 {
		limit = 0
	}
	for len(root) > limit {
		_, size := utf8.DecodeLastRuneInString(root)
		root = root[:len(root)-size]
	}

	return root + ext
}

// ListAudioFiles returns the files in dir whose names match pattern, sorted
// by name. Subdirectories are not searched.
//
// The pattern uses shell glob syntax and is matched case-insensitively, so
// "*.mp3" also finds "TRACK.MP3". An empty pattern means DefaultAudioPattern.
func ListAudioFiles(dir, pattern string) ([]string, error) {
	matcher, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matcher.Match(strings.ToLower(entry.Name())) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// CompilePattern compiles a case-insensitive file name pattern.
func CompilePattern(pattern string) (glob.Glob, error) {
	if pattern == "" {
		pattern = DefaultAudioPattern
	}
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	return g, nil
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
//
// Example:
//
//	playlistContent := []byte("#EXTM3U\n...")
//	err := WriteFile("/music/playlist.m3u", playlistContent)
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
