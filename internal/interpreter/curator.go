package interpreter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Vasu1712/vibe-rooms-backend/internal/completion"
	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
)

const sceneInstruction = "Curate an ambient room. Return JSON: " +
	`{"label":"...","description":"...","background_room":"forest|ocean|cafe|space|mountain|desert",` +
	`"layers":[{"url":"/assets/...mp3","volume":0.3}, ...]}`

// Mix volume bounds for curated scenes.
const (
	minSceneVolume = 0.10
	maxSceneVolume = 0.50
)

// Title upper-cases the first letter of each word.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

type remoteScene struct {
	Label          string `json:"label"`
	Description    string `json:"description"`
	BackgroundRoom string `json:"background_room"`
	Layers         []struct {
		URL    string      `json:"url"`
		Volume *looseFloat `json:"volume"`
	} `json:"layers"`
}

// Vibe builds a scene for free text. A recognized room yields that room's
// curated mix; anything else is delegated to the completer, and any failure
// there yields a random mix.
func (in *Interpreter) Vibe(ctx context.Context, text string) models.Scene {
	q := strings.TrimSpace(text)
	if room, ok := in.rooms.DetectRoom(q); ok {
		return in.curatedScene(room)
	}

	if completion.IsDisabled(in.completer) {
		return in.randomScene()
	}
	scene, err := in.remoteScene(ctx, q)
	if err != nil {
		in.logger.Warn("remote scene curation failed, using random mix", zap.Error(err))
		return in.randomScene()
	}
	return scene
}

func (in *Interpreter) curatedScene(room models.RoomID) models.Scene {
	layers := in.catalog.LayersOf(room)
	if len(layers) > models.MaxLayers {
		layers = layers[:models.MaxLayers]
	}
	mix := make([]models.LayerMix, len(layers))
	for i, l := range layers {
		mix[i] = models.LayerMix{URL: l.URL, Volume: defaultVolume(i)}
	}
	return models.Scene{
		Label:         Title(string(room)) + " Retreat",
		Description:   fmt.Sprintf("A curated mix from the %s.", room),
		BackgroundURL: in.catalog.Background(room),
		Layers:        mix,
	}
}

func (in *Interpreter) remoteScene(ctx context.Context, q string) (models.Scene, error) {
	payload, err := json.Marshal(struct {
		Request    string          `json:"request"`
		Candidates []candidate     `json:"candidates"`
		Rooms      []models.RoomID `json:"rooms"`
	}{q, candidates(in.catalog), in.catalog.RoomIDs()})
	if err != nil {
		return models.Scene{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, in.timeout)
	defer cancel()

	raw, err := in.completer.Complete(ctx, completion.Request{
		System:      sceneInstruction,
		User:        string(payload),
		Temperature: 0.6,
		JSON:        true,
	})
	if err != nil {
		return models.Scene{}, err
	}

	var rs remoteScene
	if err := json.Unmarshal([]byte(extractObject(raw)), &rs); err != nil {
		return models.Scene{}, fmt.Errorf("decode remote scene: %w", err)
	}

	proposed := make([]models.LayerMix, 0, len(rs.Layers))
	for i, l := range rs.Layers {
		proposed = append(proposed, models.LayerMix{URL: l.URL, Volume: l.Volume.or(defaultVolume(i))})
	}

	label := strings.TrimSpace(rs.Label)
	if label == "" {
		label = Title(q)
	}
	if label == "" {
		label = "Scene"
	}
	room := models.RoomID(rs.BackgroundRoom)
	if _, ok := in.catalog.Room(room); !ok {
		room = FallbackRoom
	}
	return models.Scene{
		Label:         label,
		Description:   rs.Description,
		BackgroundURL: in.catalog.Background(room),
		Layers:        in.ForceLayers(proposed),
	}, nil
}

// ForceLayers keeps catalog URLs only, drops duplicates, clamps volumes to
// the scene range and caps the mix at MaxLayers. When nothing survives it
// returns a random sample of the catalog.
func (in *Interpreter) ForceLayers(proposed []models.LayerMix) []models.LayerMix {
	seen := make(map[string]bool)
	var clean []models.LayerMix
	for _, l := range proposed {
		if !in.catalog.IsKnownURL(l.URL) || seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		clean = append(clean, models.LayerMix{URL: l.URL, Volume: clamp(l.Volume, minSceneVolume, maxSceneVolume)})
		if len(clean) >= models.MaxLayers {
			break
		}
	}
	if len(clean) == 0 {
		return in.randomLayers()
	}
	return clean
}

func (in *Interpreter) randomLayers() []models.LayerMix {
	all := in.catalog.AllLayers()
	n := min(models.MaxLayers, len(all))
	perm := in.perm(len(all))
	mix := make([]models.LayerMix, n)
	for i := 0; i < n; i++ {
		mix[i] = models.LayerMix{URL: all[perm[i]].URL, Volume: defaultVolume(i)}
	}
	return mix
}

func (in *Interpreter) randomScene() models.Scene {
	ids := in.catalog.RoomIDs()
	var bg string
	if len(ids) > 0 {
		bg = in.catalog.Background(ids[in.intN(len(ids))])
	}
	return models.Scene{
		Label:         "Random Scene",
		Description:   "Fallback random mix",
		BackgroundURL: bg,
		Layers:        in.randomLayers(),
	}
}
