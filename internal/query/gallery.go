package query

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/saaj-family/familyhub/internal/models"
)

// FilterAlbums keeps albums matching category exactly ("all" matches every
// album) whose name or description contains term, ignoring case.
func FilterAlbums(albums []models.GalleryAlbum, category, term string) []models.GalleryAlbum {
	term = strings.TrimSpace(term)
	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]models.GalleryAlbum, 0, len(albums))
	for _, a := range albums {
		if category != All && a.Category != category {
			continue
		}
		if needle != "" && !containsFolded(fold, a.Name, needle) && !containsFolded(fold, a.Description, needle) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// AlbumChips returns the gallery filter options with album counts.
func AlbumChips(albums []models.GalleryAlbum, categories []models.GalleryCategory) []Chip {
	chips := make([]Chip, 0, len(categories))
	for _, c := range categories {
		n := len(albums)
		if c.Value != All {
			n = 0
			for _, a := range albums {
				if a.Category == c.Value {
					n++
				}
			}
		}
		chips = append(chips, Chip{Value: c.Value, Label: c.Label, Count: n})
	}
	return chips
}
