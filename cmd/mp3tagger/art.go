package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cshotwell/mp3-tagger/internal/artwork"
	"github.com/cshotwell/mp3-tagger/internal/audio"
	"github.com/cshotwell/mp3-tagger/internal/http"
	ioutils "github.com/cshotwell/mp3-tagger/internal/io"
	"github.com/spf13/cobra"
)

func newArtCmd() *cobra.Command {
	var (
		apply   int
		files   []string
		saveDir string
	)

	cmd := &cobra.Command{
		Use:   "art QUERY...",
		Short: "Search album art and embed it",
		Long: `Search an online catalogue for album art matching QUERY and list the
candidates. With --apply N the Nth candidate is downloaded and embedded as
front cover into every file given with --files. With --save DIR every
candidate is downloaded into DIR.

  mp3tagger art the beatles abbey road
  mp3tagger art --apply 1 --files album/ the beatles abbey road`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			if apply > 0 && len(files) == 0 {
				return fmt.Errorf("--apply needs --files")
			}

			client := http.NewClient(settings.HTTPTimeout(), settings.UserAgent)
			searcher := artwork.NewSearcher(client, artwork.SearchOptions{
				BaseURL: settings.ArtworkSearchURL,
				Country: settings.ArtworkCountry,
				Limit:   settings.ArtworkLimit,
				Size:    settings.ArtworkSize,
				Logger:  log,
			})
			fetcher := artwork.NewFetcher(client, ioutils.PrepareOptions{
				MaxSize:       settings.CoverArtMaxSize,
				ConvertToJPEG: settings.ConvertCoverArtToJPG,
			})

			var candidates []artwork.Candidate
			seq, err := searcher.Candidates(ctx, query)
			if err != nil {
				log.WithError(err).Warn("Album art search failed")
			} else {
				candidates = artwork.Take(seq, settings.ArtworkLimit)
			}
			if len(candidates) == 0 {
				fmt.Println(warningText(fmt.Sprintf("No album art found for %q.", query)))
				return nil
			}

			fmt.Println(headerText(fmt.Sprintf("Found %d album(s):", len(candidates))))
			for i, c := range candidates {
				fmt.Printf("  %d. %s\n", i+1, c)
				fmt.Println(dimText("     " + c.URL))
			}

			if saveDir != "" {
				if err := saveCandidates(cmd, fetcher, candidates, saveDir); err != nil {
					return err
				}
			}

			if apply == 0 {
				return nil
			}
			if apply > len(candidates) {
				return fmt.Errorf("--apply %d: only %d candidate(s)", apply, len(candidates))
			}

			img, err := fetcher.Fetch(ctx, candidates[apply-1].URL)
			if err != nil {
				return err
			}

			sync, err := openSelection(files)
			if err != nil {
				return err
			}
			defer sync.Close()

			return printApplyReport(sync.ApplyPicture(img.Data, img.MIMEType))
		},
	}

	cmd.Flags().IntVar(&apply, "apply", 0, "embed candidate N (1-based)")
	cmd.Flags().StringSliceVar(&files, "files", nil, "files or directories to embed the art into")
	cmd.Flags().StringVar(&saveDir, "save", "", "download every candidate into this directory")

	return cmd
}

// saveCandidates downloads every candidate concurrently and writes the
// images as "NN artist - album.ext".
func saveCandidates(cmd *cobra.Command, fetcher *artwork.Fetcher, candidates []artwork.Candidate, dir string) error {
	if err := ioutils.EnsureDir(dir); err != nil {
		return err
	}

	urls := make([]string, len(candidates))
	for i, c := range candidates {
		urls[i] = c.URL
	}

	images, err := fetcher.DownloadAll(cmd.Context(), urls)
	if err != nil {
		return err
	}

	for i, img := range images {
		if img.Err != nil {
			fmt.Fprintln(os.Stderr, errorText(fmt.Sprintf("%s: %v", img.URL, img.Err)))
			continue
		}

		ext := ".jpg"
		if img.MIMEType == audio.MIMETypePNG {
			ext = ".png"
		}
		c := candidates[i]
		name := ioutils.EnsureValidFileName(fmt.Sprintf("%02d %s - %s%s", i+1, c.Artist, c.Album, ext))
		path := filepath.Join(dir, name)

		if err := ioutils.WriteFile(path, img.Data); err != nil {
			return err
		}
		fmt.Println(successText(path))
	}
	return nil
}
