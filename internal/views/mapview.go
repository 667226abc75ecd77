package views

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/saaj-family/familyhub/internal/models"
	"github.com/saaj-family/familyhub/internal/query"
	"github.com/saaj-family/familyhub/internal/store"
	"github.com/saaj-family/familyhub/pkg/xmlutil"
)

// ItemType selects the marker style on the map.
type ItemType string

const (
	ItemMemory  ItemType = "memory"
	ItemGallery ItemType = "gallery"
)

// MapItem is what the map renderer consumes.
type MapItem struct {
	ID           string             `json:"id"`
	Type         ItemType           `json:"type"`
	Coordinates  models.Coordinates `json:"coordinates"`
	Category     string             `json:"category"`
	Label        string             `json:"label"`
	PopupContent string             `json:"popup_content"`
}

// MapFilter narrows the map items. Empty fields mean "all".
type MapFilter struct {
	Category string   `json:"category"`
	Type     ItemType `json:"type"`
	Text     string   `json:"q"`
}

// MapItems merges memories and gallery albums that have coordinates into one
// list, memories first, each in store order. Category matching is exact.
// Text is matched ignoring case: memories by title, location, author, and
// tags; albums by name and description.
func MapItems(snap store.Snapshot, f MapFilter) ([]MapItem, error) {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(f.Text))
	category := orAll(f.Category)

	items := make([]MapItem, 0, len(snap.Memories)+len(snap.Gallery))
	if f.Type == "" || f.Type == ItemMemory {
		for _, m := range snap.Memories {
			if m.ID == "" {
				return nil, &store.ValidationError{Field: "memory.id", Reason: fmt.Sprintf("memory %q has no id", m.Title)}
			}
			if m.Coordinates == nil {
				continue
			}
			if category != query.All && string(m.Category) != category {
				continue
			}
			if !matchesAny(fold, needle, append([]string{m.Title, m.Location, m.Author}, m.Tags...)...) {
				continue
			}
			items = append(items, MapItem{
				ID:           "memory-" + m.ID,
				Type:         ItemMemory,
				Coordinates:  *m.Coordinates,
				Category:     string(m.Category),
				Label:        m.Title,
				PopupContent: memoryPopup(m),
			})
		}
	}
	if f.Type == "" || f.Type == ItemGallery {
		for _, a := range snap.Gallery {
			if a.ID == "" {
				return nil, &store.ValidationError{Field: "album.id", Reason: fmt.Sprintf("album %q has no id", a.Name)}
			}
			if a.Coordinates == nil {
				continue
			}
			if category != query.All && a.Category != category {
				continue
			}
			if !matchesAny(fold, needle, a.Name, a.Description) {
				continue
			}
			items = append(items, MapItem{
				ID:           "gallery-" + a.ID,
				Type:         ItemGallery,
				Coordinates:  *a.Coordinates,
				Category:     a.Category,
				Label:        a.Name,
				PopupContent: albumPopup(a),
			})
		}
	}
	return items, nil
}

// Bounds is the initial view for the map renderer.
type Bounds struct {
	Center models.Coordinates `json:"center"`
	South  float64            `json:"south"`
	West   float64            `json:"west"`
	North  float64            `json:"north"`
	East   float64            `json:"east"`
}

// DefaultCenter is used when there are no items to frame.
var DefaultCenter = models.Coordinates{Lat: 40.7128, Lng: -74.0060}

// ItemBounds returns the bounding box of items and its center.
func ItemBounds(items []MapItem) Bounds {
	if len(items) == 0 {
		c := DefaultCenter
		return Bounds{Center: c, South: c.Lat, North: c.Lat, West: c.Lng, East: c.Lng}
	}
	b := Bounds{
		South: items[0].Coordinates.Lat, North: items[0].Coordinates.Lat,
		West: items[0].Coordinates.Lng, East: items[0].Coordinates.Lng,
	}
	for _, it := range items[1:] {
		b.South = min(b.South, it.Coordinates.Lat)
		b.North = max(b.North, it.Coordinates.Lat)
		b.West = min(b.West, it.Coordinates.Lng)
		b.East = max(b.East, it.Coordinates.Lng)
	}
	b.Center = models.Coordinates{Lat: (b.South + b.North) / 2, Lng: (b.West + b.East) / 2}
	return b
}

func matchesAny(fold cases.Caser, needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(fold.String(f), needle) {
			return true
		}
	}
	return false
}

func memoryPopup(m models.Memory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<strong>%s</strong>", xmlutil.Escape(m.Title))
	fmt.Fprintf(&b, "<br/>%s", xmlutil.Escape(m.Date))
	if m.Location != "" {
		fmt.Fprintf(&b, " &middot; %s", xmlutil.Escape(m.Location))
	}
	if m.Author != "" {
		fmt.Fprintf(&b, "<br/><em>by %s</em>", xmlutil.Escape(m.Author))
	}
	return b.String()
}

func albumPopup(a models.GalleryAlbum) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<strong>%s</strong>", xmlutil.Escape(a.Name))
	if a.Date != "" {
		fmt.Fprintf(&b, "<br/>%s", xmlutil.Escape(a.Date))
	}
	fmt.Fprintf(&b, "<br/>%d photos", a.PhotoCount)
	if a.URL != "" {
		fmt.Fprintf(&b, `<br/><a href="%s" target="_blank" rel="noopener noreferrer">Open album</a>`, xmlutil.Escape(a.URL))
	}
	return b.String()
}
