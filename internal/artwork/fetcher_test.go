package artwork

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	ioutils "github.com/cshotwell/mp3-tagger/internal/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapDownloader struct {
	mu    sync.Mutex
	files map[string][]byte
	calls int
}

func (d *mapDownloader) DownloadBytes(_ context.Context, url string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	data, ok := d.files[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func testPNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetch(t *testing.T) {
	d := &mapDownloader{files: map[string][]byte{"a": testPNG(t, 64)}}
	f := NewFetcher(d, ioutils.PrepareOptions{MaxSize: 32, ConvertToJPEG: true})

	img, err := f.Fetch(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Width)
}

func TestDownloadAll(t *testing.T) {
	d := &mapDownloader{files: map[string][]byte{
		"a": testPNG(t, 8),
		"c": testPNG(t, 8),
	}}
	f := NewFetcher(d, ioutils.PrepareOptions{})

	images, err := f.DownloadAll(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, images, 3)

	assert.NoError(t, images[0].Err)
	assert.Equal(t, "image/png", images[0].MIMEType)
	assert.Error(t, images[1].Err)
	assert.Equal(t, "c", images[2].URL)
	assert.True(t, strings.HasPrefix(string(images[2].Data), "\x89PNG"))
	assert.Equal(t, 3, d.calls)
}

func TestDownloadAllCanceled(t *testing.T) {
	d := &mapDownloader{files: map[string][]byte{}}
	f := NewFetcher(d, ioutils.PrepareOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.DownloadAll(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, d.calls)
}
