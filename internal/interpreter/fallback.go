package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Vasu1712/vibe-rooms-backend/internal/catalog"
	"github.com/Vasu1712/vibe-rooms-backend/internal/completion"
	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
)

const commandInstruction = "Translate natural-language audio commands into JSON actions. " +
	"Targets must be from 'available'. You MAY add by URLs from CANDIDATES. " +
	"Output STRICT JSON with optional keys only: " +
	`{"volume_updates":[{"target":"birds.mp3","volume":0.15}],` +
	`"toggle":[{"target":"wind.mp3","state":"off|on"}],` +
	`"remove":[{"target":"foot-steps.mp3"}],` +
	`"add":[{"url":"/assets/forest/campfire.mp3","volume":0.30}]}`

// looseFloat accepts a JSON number or a numeric string.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("volume %q: %w", s, err)
		}
		*f = looseFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = looseFloat(v)
	return nil
}

func (f *looseFloat) or(def float64) float64 {
	if f == nil {
		return def
	}
	return float64(*f)
}

type remoteCommand struct {
	VolumeUpdates []struct {
		Target string      `json:"target"`
		Volume *looseFloat `json:"volume"`
	} `json:"volume_updates"`
	Toggle []struct {
		Target string `json:"target"`
		State  string `json:"state"`
	} `json:"toggle"`
	Remove []struct {
		Target string `json:"target"`
	} `json:"remove"`
	Add []struct {
		URL    string      `json:"url"`
		Volume *looseFloat `json:"volume"`
	} `json:"add"`
}

// extractObject trims any prose or code fences around the outermost JSON
// object in s.
func extractObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

// SanitizeCommand decodes a remote completion into actions, keeping only
// targets present in available and URLs known to c. Volume updates are
// clamped to [0,1]; add volumes to [0.1,1].
func SanitizeCommand(raw string, available []string, c *catalog.Catalog) (models.Actions, error) {
	var rc remoteCommand
	if err := json.Unmarshal([]byte(extractObject(raw)), &rc); err != nil {
		return nil, fmt.Errorf("decode remote command: %w", err)
	}

	avail := make(map[string]bool, len(available))
	for _, a := range available {
		avail[a] = true
	}

	var out models.Actions
	for _, u := range rc.VolumeUpdates {
		if avail[u.Target] {
			out = append(out, models.VolumeUpdate{Target: u.Target, Volume: clamp(u.Volume.or(0), 0, 1)})
		}
	}
	for _, t := range rc.Toggle {
		if avail[t.Target] {
			state := models.StateOn
			if t.State == string(models.StateOff) {
				state = models.StateOff
			}
			out = append(out, models.Toggle{Target: t.Target, State: state})
		}
	}
	for _, r := range rc.Remove {
		if avail[r.Target] {
			out = append(out, models.Remove{Target: r.Target})
		}
	}
	for _, a := range rc.Add {
		if c.IsKnownURL(a.URL) {
			out = append(out, models.Add{URL: a.URL, Volume: clamp(a.Volume.or(defaultAdd), 0.1, 1)})
		}
	}
	return out, nil
}

type candidate struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func candidates(c *catalog.Catalog) []candidate {
	all := c.AllLayers()
	out := make([]candidate, len(all))
	for i, l := range all {
		out[i] = candidate{Name: l.Name, URL: l.URL}
	}
	return out
}

// remoteCommandActions asks the completer to interpret text. The caller maps
// any error to the empty result.
func (in *Interpreter) remoteCommandActions(ctx context.Context, text string, available []string) (models.Actions, error) {
	payload, err := json.Marshal(struct {
		Text       string      `json:"text"`
		Available  []string    `json:"available"`
		Candidates []candidate `json:"CANDIDATES"`
	}{text, available, candidates(in.catalog)})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, in.timeout)
	defer cancel()

	raw, err := in.completer.Complete(ctx, completion.Request{
		System:      commandInstruction,
		User:        string(payload),
		Temperature: 0,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}
	return SanitizeCommand(raw, available, in.catalog)
}
