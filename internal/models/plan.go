package models

// TimelineOp is the operation of a timeline event.
type TimelineOp string

const (
	OpFade    TimelineOp = "fade"
	OpAdd     TimelineOp = "add"
	OpFadeAll TimelineOp = "fade_all"
	OpStop    TimelineOp = "stop"
)

// TimelineEvent is one scheduled step of a composed session. Only the fields
// relevant to Op are set.
type TimelineEvent struct {
	T      int        `json:"t"` // Seconds from session start
	Op     TimelineOp `json:"op"`
	Target string     `json:"target,omitempty"` // fade: layer file name
	URL    string     `json:"url,omitempty"`    // add: layer URL
	To     float64    `json:"to,omitempty"`     // fade, fade_all: target volume
	Sec    int        `json:"sec,omitempty"`    // fade, fade_all: ramp length in seconds
	Volume float64    `json:"volume,omitempty"` // add: initial volume
}

// PlanContext echoes the inputs a plan was composed from.
type PlanContext struct {
	Goal        string `json:"goal"`
	DurationMin int    `json:"duration_min"`
	UserID      string `json:"user_id,omitempty"`
	PlanID      string `json:"plan_id"`
}

// Plan is the /compose response.
type Plan struct {
	Label         string          `json:"label"`
	Description   string          `json:"description"`
	BackgroundURL string          `json:"background_url"`
	Room          RoomID          `json:"room"`
	Layers        []LayerMix      `json:"layers"`
	Timeline      []TimelineEvent `json:"timeline"`
	Context       PlanContext     `json:"context"`
}

// ComposeRequest is the /compose request body.
type ComposeRequest struct {
	Goal        string `json:"goal"`
	DurationMin int    `json:"duration_min"`
	UserID      string `json:"user_id,omitempty"`
}
