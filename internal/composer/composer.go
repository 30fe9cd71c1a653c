// Package composer builds goal-driven sessions: a ranked layer mix for the
// goal's room and a fixed fade/add/stop timeline over the session length.
package composer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Vasu1712/vibe-rooms-backend/internal/catalog"
	"github.com/Vasu1712/vibe-rooms-backend/internal/interpreter"
	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
)

// DefaultDurationMin is used when a request omits the session length.
const DefaultDurationMin = 25

const (
	minDurationMin = 5
	sessionLayers  = 4

	openFadeFloor = 0.28
	openFadeSec   = 60
	steadyAddAt   = 5 * 60
	steadyAddCap  = 0.26
	closeLead     = 45
	closeFadeTo   = 0.12
	closeFadeSec  = 40
)

var (
	focusTags       = []string{"steady", "focus", "pink-noise", "masking", "deep-focus"}
	distractingTags = []string{"random", "distracting", "melodic"}
)

// Composer turns goals into plans over a catalog.
type Composer struct {
	catalog *catalog.Catalog
	newID   func() string
}

// New returns a Composer over c.
func New(c *catalog.Catalog) *Composer {
	return &Composer{catalog: c, newID: uuid.NewString}
}

func hasAny(l models.Layer, tags []string) bool {
	for _, t := range tags {
		if l.HasTag(t) {
			return true
		}
	}
	return false
}

// Score rates l for a focus session: +1 for any focus-supporting tag,
// -0.6 for any distracting tag.
func Score(l models.Layer) float64 {
	var s float64
	if hasAny(l, focusTags) {
		s += 1.0
	}
	if hasAny(l, distractingTags) {
		s -= 0.6
	}
	return s
}

// PickLayers ranks room's layers by Score, keeps catalog order on ties and
// returns the first n with volumes assigned by output position. The goal does
// not affect scoring.
func (c *Composer) PickLayers(room models.RoomID, goal string, n int) []models.LayerMix {
	ranked := c.catalog.LayersOf(room)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(ranked[i]) > Score(ranked[j])
	})
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]models.LayerMix, n)
	for i, l := range ranked[:n] {
		out[i] = models.LayerMix{URL: l.URL, Volume: catalog.DefaultVolume(i)}
	}
	return out
}

func (c *Composer) isSteady(room models.RoomID, url string) bool {
	for _, l := range c.catalog.LayersOf(room) {
		if l.URL == url {
			return l.HasTag("steady")
		}
	}
	l, ok := c.catalog.LayerByURL(url)
	return ok && l.HasTag("steady")
}

// BuildTimeline scripts a session of durationMin minutes (at least five):
// open by fading the first layer in, add a steady layer at five minutes,
// fade everything down 45 seconds before the end, then stop.
func (c *Composer) BuildTimeline(durationMin int, room models.RoomID, layers []models.LayerMix) []models.TimelineEvent {
	total := max(minDurationMin, durationMin) * 60
	var tl []models.TimelineEvent

	if len(layers) > 0 {
		first := layers[0]
		tl = append(tl, models.TimelineEvent{
			T:      0,
			Op:     models.OpFade,
			Target: catalog.FileName(first.URL),
			To:     max(openFadeFloor, first.Volume),
			Sec:    openFadeSec,
		})
		for _, l := range layers[1:] {
			if c.isSteady(room, l.URL) {
				tl = append(tl, models.TimelineEvent{
					T:      steadyAddAt,
					Op:     models.OpAdd,
					URL:    l.URL,
					Volume: min(steadyAddCap, l.Volume),
				})
				break
			}
		}
	}

	tl = append(tl,
		models.TimelineEvent{T: max(0, total-closeLead), Op: models.OpFadeAll, To: closeFadeTo, Sec: closeFadeSec},
		models.TimelineEvent{T: total, Op: models.OpStop},
	)
	return tl
}

// Compose builds the full plan for goal. Non-positive durations fall back
// to DefaultDurationMin.
func (c *Composer) Compose(goal string, durationMin int, userID string) models.Plan {
	if durationMin <= 0 {
		durationMin = DefaultDurationMin
	}
	goal = strings.TrimSpace(goal)
	room := interpreter.ChooseRoomForGoal(goal)
	layers := c.PickLayers(room, goal, min(sessionLayers, models.MaxLayers))

	title, subject := "Session", "focus"
	if goal != "" {
		title, subject = interpreter.Title(goal), goal
	}

	return models.Plan{
		Label:         interpreter.Title(string(room)) + " – " + title,
		Description:   fmt.Sprintf("Adaptive plan for %s (%d min).", subject, durationMin),
		BackgroundURL: c.catalog.Background(room),
		Room:          room,
		Layers:        layers,
		Timeline:      c.BuildTimeline(durationMin, room, layers),
		Context: models.PlanContext{
			Goal:        goal,
			DurationMin: durationMin,
			UserID:      userID,
			PlanID:      c.newID(),
		},
	}
}
