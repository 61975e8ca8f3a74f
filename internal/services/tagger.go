package services

import (
	"fmt"

	"github.com/bogem/id3v2/v2"
	"github.com/desertthunder/ytsheet/internal/models"
	"github.com/desertthunder/ytsheet/internal/shared"
)

// ID3Tagger writes ID3v2.4 frames into MP3 files.
type ID3Tagger struct{}

// NewID3Tagger creates an [ID3Tagger].
func NewID3Tagger() *ID3Tagger {
	return &ID3Tagger{}
}

// ApplyTags sets artist, album and genre, keeping any frames already present. Empty values are left unset.
func (ID3Tagger) ApplyTags(path string, tags models.Tags) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrTag, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if tags.Artist != "" {
		tag.SetArtist(tags.Artist)
	}
	if tags.Album != "" {
		tag.SetAlbum(tags.Album)
	}
	if tags.Genre != "" {
		tag.SetGenre(tags.Genre)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrTag, err)
	}
	return nil
}

var _ Tagger = (*ID3Tagger)(nil)
