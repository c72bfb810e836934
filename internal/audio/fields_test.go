package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldFrames(t *testing.T) {
	expected := map[Field]string{
		FieldTitle:       "TIT2",
		FieldArtist:      "TPE1",
		FieldAlbumArtist: "TPE2",
		FieldAlbum:       "TALB",
		FieldGenre:       "TCON",
		FieldYear:        "TDRC",
		FieldTrack:       "TRCK",
		FieldCompilation: "TCMP",
		FieldComment:     "COMM",
		FieldPicture:     "APIC",
	}
	require.Len(t, Fields, len(expected))
	for f, id := range expected {
		assert.Equal(t, id, f.ID(), "%s", f)
	}
}

func TestFrameKindCapability(t *testing.T) {
	for _, f := range Fields {
		want := Replace
		if f == FieldComment || f == FieldPicture {
			want = Append
		}
		assert.Equal(t, want, f.Kind().Capability(), "%s", f)
	}
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		byID, err := ParseField(f.ID())
		require.NoError(t, err)
		assert.Equal(t, f, byID)

		byLabel, err := ParseField(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, byLabel)
	}

	_, err := ParseField("lyrics")
	assert.ErrorIs(t, err, ErrValidation)
}
