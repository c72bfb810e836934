package main

import (
	"fmt"
	"os"

	"github.com/cshotwell/mp3-tagger/internal/audio"
	ioutils "github.com/cshotwell/mp3-tagger/internal/io"
	"github.com/cshotwell/mp3-tagger/internal/selection"
	"github.com/spf13/cobra"
)

// textFlags maps the text flags of set to the fields they write.
var textFlags = []struct {
	name  string
	field audio.Field
	usage string
}{
	{"title", audio.FieldTitle, "title"},
	{"artist", audio.FieldArtist, "artist"},
	{"album-artist", audio.FieldAlbumArtist, "album artist"},
	{"album", audio.FieldAlbum, "album"},
	{"genre", audio.FieldGenre, "genre"},
	{"year", audio.FieldYear, "year (YYYY)"},
	{"track", audio.FieldTrack, "track (N/TOTAL, either side may be empty)"},
	{"comment", audio.FieldComment, "comment, replaces existing comments"},
}

func newSetCmd() *cobra.Command {
	var (
		values      = make(map[string]*string)
		compilation bool
		picture     string
	)

	cmd := &cobra.Command{
		Use:   "set [flags] FILE...",
		Short: "Write tag fields to every given file",
		Long: `Write tag fields to every given file. Only the fields named by a flag
are written; every other field keeps the value each file already has.
An empty value is written as an empty frame.

  mp3tagger set --artist "The Beatles" --album "Abbey Road" *.mp3
  mp3tagger set --compilation=false --picture cover.jpg album/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits := make(selection.Edits)
			for _, f := range textFlags {
				if cmd.Flags().Changed(f.name) {
					edits[f.field] = selection.Edit{Value: selection.Text(*values[f.name]), Write: true}
				}
			}
			if cmd.Flags().Changed("compilation") {
				edits[audio.FieldCompilation] = selection.Edit{Value: selection.Checked(compilation), Write: true}
			}
			if len(edits) == 0 && picture == "" {
				return fmt.Errorf("nothing to set; pass at least one field flag")
			}

			var data []byte
			if picture != "" {
				var err error
				if data, err = os.ReadFile(picture); err != nil {
					return err
				}
			}

			sync, err := openSelection(args)
			if err != nil {
				return err
			}
			defer sync.Close()

			if len(edits) > 0 {
				if err := printApplyReport(sync.Apply(edits)); err != nil {
					return err
				}
			}
			if data != nil {
				return printApplyReport(sync.ApplyPicture(data, ioutils.DetectMIME(data)))
			}
			return nil
		},
	}

	for _, f := range textFlags {
		values[f.name] = cmd.Flags().String(f.name, "", f.usage)
	}
	cmd.Flags().BoolVar(&compilation, "compilation", false, "mark as part of a compilation")
	cmd.Flags().StringVar(&picture, "picture", "", "PNG or JPEG file to embed as front cover")

	return cmd
}
