package composer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vasu1712/vibe-rooms-backend/internal/catalog"
	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
)

func TestPickLayers_DeepWork(t *testing.T) {
	c := New(catalog.Default())
	got := c.PickLayers(models.RoomSpace, "deep work", 4)
	want := []models.LayerMix{
		{URL: "/assets/space/drone.mp3", Volume: 0.32},
		{URL: "/assets/space/breath.mp3", Volume: 0.02},
		{URL: "/assets/space/fan.mp3", Volume: 0.22},
		{URL: "/assets/space/space-sound.mp3", Volume: 0.02},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PickLayers mismatch (-want +got):\n%s", diff)
	}
}

func TestPickLayers_StableOnTies(t *testing.T) {
	c := New(catalog.Default())
	got := c.PickLayers(models.RoomForest, "focus", 6)
	require.Len(t, got, 6)
	// campfire, water, wind score 1; birds, foot-steps, leaf score -0.6.
	urls := make([]string, len(got))
	for i, l := range got {
		urls[i] = catalog.FileName(l.URL)
	}
	assert.Equal(t, []string{"campfire.mp3", "water.mp3", "wind.mp3", "birds.mp3", "foot-steps.mp3", "leaf.mp3"}, urls)
}

func TestPickLayers_Bounds(t *testing.T) {
	c := New(catalog.Default())
	assert.Len(t, c.PickLayers(models.RoomOcean, "", 10), 6)
	assert.Empty(t, c.PickLayers(models.RoomOcean, "", 0))
	assert.Empty(t, c.PickLayers("atlantis", "", 4))
}

func TestPickLayers_Deterministic(t *testing.T) {
	c := New(catalog.Default())
	assert.Equal(t, c.PickLayers(models.RoomCafe, "reading", 4), c.PickLayers(models.RoomCafe, "reading", 4))
}

func TestPickLayers_GoalDoesNotAffectScoring(t *testing.T) {
	c := New(catalog.Default())
	want := c.PickLayers(models.RoomSpace, "deep work", 4)
	for _, goal := range []string{"", "relax", "fall asleep to waves"} {
		assert.Equal(t, want, c.PickLayers(models.RoomSpace, goal, 4), "goal %q", goal)
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, 1.0, Score(models.Layer{Tags: []string{"steady", "focus"}}))
	assert.Equal(t, -0.6, Score(models.Layer{Tags: []string{"random"}}))
	assert.InDelta(t, 0.4, Score(models.Layer{Tags: []string{"masking", "melodic"}}), 1e-9)
	assert.Zero(t, Score(models.Layer{Tags: []string{"silent"}}))
}

func TestBuildTimeline(t *testing.T) {
	c := New(catalog.Default())
	layers := c.PickLayers(models.RoomSpace, "deep work", 4)

	got := c.BuildTimeline(25, models.RoomSpace, layers)
	want := []models.TimelineEvent{
		{T: 0, Op: models.OpFade, Target: "drone.mp3", To: 0.32, Sec: 60},
		{T: 300, Op: models.OpAdd, URL: "/assets/space/breath.mp3", Volume: 0.02},
		{T: 1455, Op: models.OpFadeAll, To: 0.12, Sec: 40},
		{T: 1500, Op: models.OpStop},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildTimeline mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTimeline_FloorsAtFiveMinutes(t *testing.T) {
	c := New(catalog.Default())
	layers := c.PickLayers(models.RoomSpace, "deep work", 4)

	got := c.BuildTimeline(1, models.RoomSpace, layers)
	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, models.OpStop, last.Op)
	assert.Equal(t, 300, last.T)
	assert.Equal(t, 255, got[len(got)-2].T)
}

func TestBuildTimeline_OpeningFadeFloor(t *testing.T) {
	c := New(catalog.Default())
	got := c.BuildTimeline(10, models.RoomForest, []models.LayerMix{{URL: "/assets/forest/leaf.mp3", Volume: 0.02}})
	require.Len(t, got, 3)
	assert.Equal(t, models.TimelineEvent{T: 0, Op: models.OpFade, Target: "leaf.mp3", To: 0.28, Sec: 60}, got[0])
}

func TestBuildTimeline_NoSteadyLayer(t *testing.T) {
	c := New(catalog.Default())
	got := c.BuildTimeline(10, models.RoomCafe, []models.LayerMix{
		{URL: "/assets/cafe/Rain.mp3", Volume: 0.32},
		{URL: "/assets/cafe/Music.mp3", Volume: 0.02},
	})
	for _, ev := range got {
		assert.NotEqual(t, models.OpAdd, ev.Op)
	}
}

func TestBuildTimeline_NoLayers(t *testing.T) {
	c := New(catalog.Default())
	got := c.BuildTimeline(5, models.RoomForest, nil)
	assert.Equal(t, []models.TimelineEvent{
		{T: 255, Op: models.OpFadeAll, To: 0.12, Sec: 40},
		{T: 300, Op: models.OpStop},
	}, got)
}

func TestCompose(t *testing.T) {
	c := New(catalog.Default())
	plan := c.Compose("deep work", 50, "u-1")

	assert.Equal(t, "Space – Deep Work", plan.Label)
	assert.Equal(t, "Adaptive plan for deep work (50 min).", plan.Description)
	assert.Equal(t, models.RoomSpace, plan.Room)
	assert.Equal(t, "/assets/space/space.gif", plan.BackgroundURL)
	assert.Len(t, plan.Layers, 4)
	assert.Equal(t, 3000, plan.Timeline[len(plan.Timeline)-1].T)
	assert.Equal(t, "deep work", plan.Context.Goal)
	assert.Equal(t, 50, plan.Context.DurationMin)
	assert.Equal(t, "u-1", plan.Context.UserID)
	_, err := uuid.Parse(plan.Context.PlanID)
	assert.NoError(t, err)
}

func TestCompose_Defaults(t *testing.T) {
	c := New(catalog.Default())
	c.newID = func() string { return "fixed" }
	plan := c.Compose("", 0, "")

	assert.Equal(t, "Forest – Session", plan.Label)
	assert.Equal(t, "Adaptive plan for focus (25 min).", plan.Description)
	assert.Equal(t, 25, plan.Context.DurationMin)
	assert.Equal(t, "fixed", plan.Context.PlanID)
}

func TestCompose_DeterministicApartFromID(t *testing.T) {
	c := New(catalog.Default())
	a, b := c.Compose("sleep", 30, ""), c.Compose("sleep", 30, "")
	assert.NotEqual(t, a.Context.PlanID, b.Context.PlanID)
	a.Context.PlanID, b.Context.PlanID = "", ""
	assert.Equal(t, a, b)
}
