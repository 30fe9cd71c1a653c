package catalog

import "github.com/Vasu1712/vibe-rooms-backend/internal/models"

func layer(room models.RoomID, name string, tags ...string) models.Layer {
	return models.Layer{
		Name: name,
		URL:  AssetsBase + "/" + string(room) + "/" + name,
		Tags: tags,
	}
}

func background(room models.RoomID) string {
	return AssetsBase + "/" + string(room) + "/" + string(room) + ".gif"
}

// defaultRooms is the literal room table. Order matters: room detection
// returns the first room whose alias matches.
func defaultRooms() []models.Room {
	return []models.Room{
		{
			ID:         models.RoomForest,
			Background: background(models.RoomForest),
			Aliases:    []string{"forest", "woods", "jungle"},
			Layers: []models.Layer{
				layer(models.RoomForest, "birds.mp3", "nature", "random", "relax"),
				layer(models.RoomForest, "campfire.mp3", "warm", "steady", "relax"),
				layer(models.RoomForest, "foot-steps.mp3", "random", "distracting"),
				layer(models.RoomForest, "leaf.mp3", "random", "light"),
				layer(models.RoomForest, "water.mp3", "smooth", "steady", "focus", "pink-noise"),
				layer(models.RoomForest, "wind.mp3", "steady", "focus", "pink-noise"),
			},
		},
		{
			ID:         models.RoomOcean,
			Background: background(models.RoomOcean),
			Aliases:    []string{"ocean", "sea", "beach", "waves"},
			Layers: []models.Layer{
				layer(models.RoomOcean, "wave.mp3", "steady", "focus", "pink-noise"),
				layer(models.RoomOcean, "wind.mp3", "steady", "focus"),
				layer(models.RoomOcean, "seagull.mp3", "random", "distracting"),
				layer(models.RoomOcean, "hum.mp3", "steady", "dark", "deep-focus"),
				layer(models.RoomOcean, "engine.mp3", "steady", "masking"),
				layer(models.RoomOcean, "sail.mp3", "light", "random"),
			},
		},
		{
			ID:         models.RoomCafe,
			Background: background(models.RoomCafe),
			Aliases:    []string{"cafe", "coffee", "coffee shop", "café"},
			Layers: []models.Layer{
				layer(models.RoomCafe, "Chatter.mp3", "random", "distracting", "cafe"),
				layer(models.RoomCafe, "Music.mp3", "random", "melodic"),
				layer(models.RoomCafe, "Rain.mp3", "steady", "relax", "focus"),
				layer(models.RoomCafe, "Espresso machine.mp3", "random"),
				layer(models.RoomCafe, "Kitchen.mp3", "random"),
				layer(models.RoomCafe, "Cash register.mp3", "random"),
			},
		},
		{
			ID:         models.RoomSpace,
			Background: background(models.RoomSpace),
			Aliases:    []string{"space", "spaceship", "cosmos"},
			Layers: []models.Layer{
				layer(models.RoomSpace, "drone.mp3", "steady", "deep-focus"),
				layer(models.RoomSpace, "bip.mp3", "random"),
				layer(models.RoomSpace, "breath.mp3", "steady"),
				layer(models.RoomSpace, "fan.mp3", "steady", "masking"),
				layer(models.RoomSpace, "type.mp3", "random"),
				layer(models.RoomSpace, "space-sound.mp3", "steady", "dark"),
			},
		},
		{
			ID:         models.RoomMountain,
			Background: background(models.RoomMountain),
			Aliases:    []string{"mountain", "alps", "himalaya", "snowy peak", "peaks"},
			Layers: []models.Layer{
				layer(models.RoomMountain, "howling-wind.mp3", "steady", "focus"),
				layer(models.RoomMountain, "chimes.mp3", "random", "pleasant"),
				layer(models.RoomMountain, "crunching-snow.mp3", "random"),
				layer(models.RoomMountain, "ice-cracking.mp3", "random"),
				layer(models.RoomMountain, "silence.mp3", "silent"),
				layer(models.RoomMountain, "avalanche.mp3", "random", "distracting"),
			},
		},
		{
			ID:         models.RoomDesert,
			Background: background(models.RoomDesert),
			Aliases:    []string{"desert", "sahara", "dunes", "sand"},
			Layers: []models.Layer{
				layer(models.RoomDesert, "bazaar.mp3", "random", "cafe-like"),
				layer(models.RoomDesert, "cricket.mp3", "random"),
				layer(models.RoomDesert, "dark-background.mp3", "steady", "masking"),
				layer(models.RoomDesert, "foot-steps.mp3", "random"),
				layer(models.RoomDesert, "lizard-eating.mp3", "random"),
				layer(models.RoomDesert, "sand-storm.mp3", "steady", "masking"),
			},
		},
	}
}
