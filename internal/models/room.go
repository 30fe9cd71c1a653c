package models

// RoomID identifies one of the fixed scenes. Adding a room is a code change.
type RoomID string

const (
	RoomForest   RoomID = "forest"
	RoomOcean    RoomID = "ocean"
	RoomCafe     RoomID = "cafe"
	RoomSpace    RoomID = "space"
	RoomMountain RoomID = "mountain"
	RoomDesert   RoomID = "desert"
)

// MaxLayers is the most layers a room mixes at once.
const MaxLayers = 6

// Layer is one addressable audio asset in a room.
type Layer struct {
	Name string   `json:"name"` // Display name, unique within its room (e.g. "Rain.mp3")
	URL  string   `json:"url"`  // Stable asset path (e.g. "/assets/cafe/Rain.mp3")
	Tags []string `json:"-"`    // Semantic labels used by the composer. Excluded from JSON output.
}

// HasTag reports whether the layer carries tag.
func (l Layer) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Room is a themed scene with an ordered list of candidate layers.
type Room struct {
	ID         RoomID   `json:"id"`
	Layers     []Layer  `json:"layers"`
	Background string   `json:"background_url"`
	Aliases    []string `json:"aliases"` // Lower-case keywords used for free-text detection
}

// LayerMix is a layer URL with its mix volume, as exchanged with clients.
type LayerMix struct {
	URL    string  `json:"url"`
	Volume float64 `json:"volume"`
}

// Scene is the /vibe response: a labelled scene mix.
type Scene struct {
	Label         string     `json:"label"`
	Description   string     `json:"description"`
	BackgroundURL string     `json:"background_url"`
	Layers        []LayerMix `json:"layers"`
}

// RoomSummary is one entry of the /rooms listing.
type RoomSummary struct {
	ID            RoomID   `json:"id"`
	BackgroundURL string   `json:"background_url"`
	Aliases       []string `json:"aliases"`
	Listeners     int      `json:"listeners"` // Connected command-stream clients currently in the room
}
