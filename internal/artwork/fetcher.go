package artwork

import (
	"context"

	"github.com/cshotwell/mp3-tagger/internal/audio"
	ioutils "github.com/cshotwell/mp3-tagger/internal/io"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel downloads in DownloadAll.
const DefaultConcurrency = 4

// Image is downloaded artwork ready to embed.
type Image struct {
	URL      string
	Data     []byte
	MIMEType string
	Err      error
}

// Fetcher downloads artwork and prepares it for embedding.
type Fetcher struct {
	client      audio.Downloader
	images      *ioutils.ImageService
	opts        ioutils.PrepareOptions
	concurrency int
}

// NewFetcher creates a Fetcher. opts is applied to every image.
func NewFetcher(client audio.Downloader, opts ioutils.PrepareOptions) *Fetcher {
	return &Fetcher{
		client:      client,
		images:      ioutils.NewImageService(),
		opts:        opts,
		concurrency: DefaultConcurrency,
	}
}

// Fetch downloads one image and applies the prepare options.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Image, error) {
	img := Image{URL: url}

	data, err := f.client.DownloadBytes(ctx, url)
	if err != nil {
		return img, err
	}
	img.Data, img.MIMEType, err = f.images.Prepare(ctx, data, f.opts)
	if err != nil {
		return img, err
	}
	return img, nil
}

// DownloadAll fetches every URL, a few at a time. The result has one entry
// per URL in the same order; failures are stored in Image.Err and do not
// stop the other downloads. Only a canceled context is returned as error.
func (f *Fetcher) DownloadAll(ctx context.Context, urls []string) ([]Image, error) {
	images := make([]Image, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, url := range urls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := f.Fetch(gctx, url)
			img.Err = err
			images[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return images, err
	}
	return images, ctx.Err()
}
