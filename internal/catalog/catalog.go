// Package catalog holds the fixed registry of rooms and their audio layers.
// The table is built once at startup and never mutated, so a *Catalog is
// safe to share between goroutines without locking.
package catalog

import (
	"path"

	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
)

// AssetsBase is the URL prefix every layer and background lives under.
const AssetsBase = "/assets"

// DefaultVolumes are mix volumes assigned by output position.
var DefaultVolumes = [models.MaxLayers]float64{0.32, 0.02, 0.22, 0.02, 0.14, 0.06}

// DefaultVolume returns the default mix volume for output position i. Positions
// past the table reuse the last entry.
func DefaultVolume(i int) float64 {
	if i < 0 {
		i = 0
	}
	if i >= len(DefaultVolumes) {
		i = len(DefaultVolumes) - 1
	}
	return DefaultVolumes[i]
}

// Catalog is a read-only index over the room table.
type Catalog struct {
	rooms  []models.Room
	byID   map[models.RoomID]int
	byURL  map[string]models.Layer
	byName map[string][]models.Layer // display name -> layers in catalog order
}

// New indexes rooms. The slice is used as given; callers must not mutate it
// afterwards.
func New(rooms []models.Room) *Catalog {
	c := &Catalog{
		rooms:  rooms,
		byID:   make(map[models.RoomID]int, len(rooms)),
		byURL:  make(map[string]models.Layer),
		byName: make(map[string][]models.Layer),
	}
	for i, room := range rooms {
		c.byID[room.ID] = i
		for _, l := range room.Layers {
			c.byURL[l.URL] = l
			c.byName[l.Name] = append(c.byName[l.Name], l)
		}
	}
	return c
}

var defaultCatalog = New(defaultRooms())

// Default returns the process-wide catalog built from the literal table.
func Default() *Catalog {
	return defaultCatalog
}

// Rooms returns every room in declared order.
func (c *Catalog) Rooms() []models.Room {
	out := make([]models.Room, len(c.rooms))
	copy(out, c.rooms)
	return out
}

// RoomIDs returns the room identifiers in declared order.
func (c *Catalog) RoomIDs() []models.RoomID {
	ids := make([]models.RoomID, len(c.rooms))
	for i, r := range c.rooms {
		ids[i] = r.ID
	}
	return ids
}

// Room looks up a room by id.
func (c *Catalog) Room(id models.RoomID) (models.Room, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Room{}, false
	}
	return c.rooms[i], true
}

// Background returns the background asset of a room, or "" for unknown ids.
func (c *Catalog) Background(id models.RoomID) string {
	room, ok := c.Room(id)
	if !ok {
		return ""
	}
	return room.Background
}

// LayersOf returns the ordered layers of a room. Unknown rooms have none.
func (c *Catalog) LayersOf(id models.RoomID) []models.Layer {
	room, ok := c.Room(id)
	if !ok {
		return nil
	}
	out := make([]models.Layer, len(room.Layers))
	copy(out, room.Layers)
	return out
}

// AllLayers returns the union of every room's layers in catalog order.
func (c *Catalog) AllLayers() []models.Layer {
	var out []models.Layer
	for _, room := range c.rooms {
		out = append(out, room.Layers...)
	}
	return out
}

// Names returns the display name of every layer in catalog order. Names
// shared by several rooms appear once per room.
func (c *Catalog) Names() []string {
	var out []string
	for _, room := range c.rooms {
		for _, l := range room.Layers {
			out = append(out, l.Name)
		}
	}
	return out
}

// TagsOf returns the tag set of a layer name, merged across every room that
// has a layer with that name.
func (c *Catalog) TagsOf(name string) map[string]struct{} {
	tags := make(map[string]struct{})
	for _, l := range c.byName[name] {
		for _, t := range l.Tags {
			tags[t] = struct{}{}
		}
	}
	return tags
}

// IsKnownURL reports whether url is a catalog layer.
func (c *Catalog) IsKnownURL(url string) bool {
	_, ok := c.byURL[url]
	return ok
}

// LayerByURL looks up a layer by its asset URL.
func (c *Catalog) LayerByURL(url string) (models.Layer, bool) {
	l, ok := c.byURL[url]
	return l, ok
}

// LayerByName returns the first layer in catalog order with the given
// display name.
func (c *Catalog) LayerByName(name string) (models.Layer, bool) {
	layers := c.byName[name]
	if len(layers) == 0 {
		return models.Layer{}, false
	}
	return layers[0], true
}

// Palette returns room -> {name, url} entries for the /palette endpoint.
func (c *Catalog) Palette() map[models.RoomID][]models.Layer {
	out := make(map[models.RoomID][]models.Layer, len(c.rooms))
	for _, room := range c.rooms {
		out[room.ID] = c.LayersOf(room.ID)
	}
	return out
}

// FileName returns the last path element of a layer URL, which is how
// clients name the layers in their mix.
func FileName(url string) string {
	return path.Base(url)
}
