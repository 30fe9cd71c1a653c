package interpreter

import (
	"regexp"
	"strings"

	"github.com/Vasu1712/vibe-rooms-backend/internal/catalog"
	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
)

// goalRoute maps a goal keyword to its room. Routes are tried in order.
type goalRoute struct {
	keyword string
	room    models.RoomID
}

var goalRoutes = []goalRoute{
	{"focus", models.RoomForest},
	{"deep work", models.RoomSpace},
	{"reading", models.RoomCafe},
	{"sleep", models.RoomOcean},
	{"relax", models.RoomOcean},
	{"study", models.RoomForest},
}

// FallbackRoom is chosen when a goal matches no route.
const FallbackRoom = models.RoomForest

var switchTriggers = []*regexp.Regexp{
	regexp.MustCompile(`\bi want to be\b`),
	regexp.MustCompile(`\bi want\b`),
	regexp.MustCompile(`\bgo to\b`),
	regexp.MustCompile(`\btake me\b`),
	regexp.MustCompile(`\bbring me\b`),
	regexp.MustCompile(`\bsend me\b`),
	regexp.MustCompile(`\bput me\b`),
	regexp.MustCompile(`\bin the\b`),
	regexp.MustCompile(`\bin a\b`),
	regexp.MustCompile(`\bto the\b`),
}

// RoomSelector maps free text and goals onto the fixed rooms.
type RoomSelector struct {
	catalog *catalog.Catalog
}

// NewRoomSelector returns a selector over c's rooms and aliases.
func NewRoomSelector(c *catalog.Catalog) *RoomSelector {
	return &RoomSelector{catalog: c}
}

// DetectRoom returns the first room, in declared order, with an alias
// contained in text.
func (s *RoomSelector) DetectRoom(text string) (models.RoomID, bool) {
	low := strings.ToLower(text)
	for _, room := range s.catalog.Rooms() {
		for _, alias := range room.Aliases {
			if strings.Contains(low, alias) {
				return room.ID, true
			}
		}
	}
	return "", false
}

// ChooseRoomForGoal returns the room for the first goal keyword contained in
// goal, or FallbackRoom.
func ChooseRoomForGoal(goal string) models.RoomID {
	low := strings.ToLower(goal)
	for _, r := range goalRoutes {
		if strings.Contains(low, r.keyword) {
			return r.room
		}
	}
	return FallbackRoom
}

// IsSwitchRequest reports whether text is phrased as a request to change
// scene ("take me to...", "i want...").
func IsSwitchRequest(text string) bool {
	low := strings.ToLower(text)
	for _, re := range switchTriggers {
		if re.MatchString(low) {
			return true
		}
	}
	return false
}
