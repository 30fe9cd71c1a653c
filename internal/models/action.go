package models

// Action is a validated mixer instruction. The variants are VolumeUpdate,
// Toggle, Remove and Add; the set is closed.
type Action interface {
	actionKind() string
}

// ToggleState is the target state of a Toggle.
type ToggleState string

const (
	StateOn  ToggleState = "on"
	StateOff ToggleState = "off"
)

// VolumeUpdate sets the volume of a layer already in the mix.
type VolumeUpdate struct {
	Target string  `json:"target"`
	Volume float64 `json:"volume"` // Always in [0,1]
}

// Toggle mutes or unmutes a layer already in the mix.
type Toggle struct {
	Target string      `json:"target"`
	State  ToggleState `json:"state"`
}

// Remove drops a layer from the mix.
type Remove struct {
	Target string `json:"target"`
}

// Add introduces a catalog layer into the mix.
type Add struct {
	URL    string  `json:"url"`
	Volume float64 `json:"volume"` // Always in [0,1]
}

func (VolumeUpdate) actionKind() string { return "volume_update" }
func (Toggle) actionKind() string       { return "toggle" }
func (Remove) actionKind() string       { return "remove" }
func (Add) actionKind() string          { return "add" }

// Kind returns the wire name of the action's variant.
func Kind(a Action) string {
	return a.actionKind()
}

// Actions is an unordered collection of actions. The empty collection means
// "nothing to do" and is not an error.
type Actions []Action

// CommandResponse is the /command response body. An empty response
// serializes to {}.
type CommandResponse struct {
	SwitchRoom    RoomID         `json:"switch_room,omitempty"`
	VolumeUpdates []VolumeUpdate `json:"volume_updates,omitempty"`
	Toggle        []Toggle       `json:"toggle,omitempty"`
	Remove        []Remove       `json:"remove,omitempty"`
	Add           []Add          `json:"add,omitempty"`
}

// NewCommandResponse groups actions by kind, preserving their order within
// each kind.
func NewCommandResponse(actions Actions) CommandResponse {
	var res CommandResponse
	for _, a := range actions {
		switch v := a.(type) {
		case VolumeUpdate:
			res.VolumeUpdates = append(res.VolumeUpdates, v)
		case Toggle:
			res.Toggle = append(res.Toggle, v)
		case Remove:
			res.Remove = append(res.Remove, v)
		case Add:
			res.Add = append(res.Add, v)
		}
	}
	return res
}

// Actions flattens the response back into an action collection.
func (r CommandResponse) Actions() Actions {
	var out Actions
	for _, v := range r.VolumeUpdates {
		out = append(out, v)
	}
	for _, v := range r.Toggle {
		out = append(out, v)
	}
	for _, v := range r.Remove {
		out = append(out, v)
	}
	for _, v := range r.Add {
		out = append(out, v)
	}
	return out
}

// IsEmpty reports whether the response carries no room switch and no actions.
func (r CommandResponse) IsEmpty() bool {
	return r.SwitchRoom == "" && len(r.VolumeUpdates) == 0 && len(r.Toggle) == 0 &&
		len(r.Remove) == 0 && len(r.Add) == 0
}

// CommandRequest is the /command request body and the websocket frame.
type CommandRequest struct {
	Text   string     `json:"text"`
	Layers []LayerMix `json:"layers"`
}
