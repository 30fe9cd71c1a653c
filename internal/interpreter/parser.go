package interpreter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Vasu1712/vibe-rooms-backend/internal/catalog"
	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
)

// Verb vocabularies. Misspellings are listed explicitly; matching is plain
// substring containment on the lower-cased utterance.
var (
	removeSyns   = []string{"remove", "delete", "del", "take out", "remote", "romove", "remuve", "rem0ve", "rm"}
	muteSyns     = []string{"mute", "turn off", "disable", "silence"}
	unmuteSyns   = []string{"unmute", "turn on", "enable"}
	increaseSyns = []string{"increase", "raise", "up", "louder", "more"}
	decreaseSyns = []string{"decrease", "lower", "down", "softer", "less", "decreased", "reduced", "reduce"}

	controlVerbs = concat(removeSyns, muteSyns, unmuteSyns, increaseSyns, decreaseSyns)
)

const (
	defaultIncrease = 0.4
	defaultDecrease = 0.15
	defaultAdd      = 0.3
)

var (
	percentRe = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*%`)
	numberRe  = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\b`)
	wordRe    = regexp.MustCompile(`[a-z0-9\-]+`)
)

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func containsAny(text string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// ParseResult is the outcome of parsing one utterance.
type ParseResult struct {
	Actions models.Actions
	// Target is the resolved layer name among the available ones, or "".
	Target string
	// ControlVerb is set when the utterance contains any control keyword,
	// whether or not a target resolved.
	ControlVerb bool
}

// Parser turns free-text mixer commands into actions using fixed keyword
// tables and fuzzy layer-name matching.
type Parser struct {
	catalog *catalog.Catalog
	names   []string
}

// NewParser returns a parser that resolves "add" requests against c.
func NewParser(c *catalog.Catalog) *Parser {
	return &Parser{catalog: c, names: c.Names()}
}

// Intensity extracts a volume from text: the first "NN%" if any, otherwise
// the first standalone number. Values above 1 are read as percentages. The
// result is clamped to [0,1]; ok is false when no usable number is present.
func Intensity(text string) (float64, bool) {
	t := strings.ToLower(text)
	if m := percentRe.FindStringSubmatch(t); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return clamp(v/100, 0, 1), true
	}
	if m := numberRe.FindStringSubmatch(t); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		if v > 1 {
			v /= 100
		}
		return clamp(v, 0, 1), true
	}
	return 0, false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func hasWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

// Parse maps utterance to actions against the names currently in the mix.
// A control verb with no resolvable target yields no actions: the parser
// never guesses a target for a state-changing command.
func (p *Parser) Parse(utterance string, available []string) ParseResult {
	t := strings.ToLower(strings.TrimSpace(utterance))
	if t == "" {
		return ParseResult{}
	}

	res := ParseResult{ControlVerb: containsAny(t, controlVerbs)}
	intensity, hasIntensity := Intensity(t)
	words := wordRe.FindAllString(t, -1)

	target, ok := resolveSpan(words, available)
	if !ok && res.ControlVerb {
		return res
	}

	if ok {
		res.Target = target

		// "unmute" contains "mute"; mask unmute phrases before looking for mute.
		muteText := t
		for _, k := range unmuteSyns {
			muteText = strings.ReplaceAll(muteText, k, " ")
		}
		if containsAny(muteText, muteSyns) {
			res.Actions = append(res.Actions, models.Toggle{Target: target, State: models.StateOff})
		}
		if containsAny(t, unmuteSyns) {
			res.Actions = append(res.Actions, models.Toggle{Target: target, State: models.StateOn})
		}
		if containsAny(t, removeSyns) {
			res.Actions = append(res.Actions, models.Remove{Target: target})
		}
		up, down := containsAny(t, increaseSyns), containsAny(t, decreaseSyns)
		if up || down {
			vol := intensity
			if !hasIntensity {
				vol = defaultDecrease
				if up {
					vol = defaultIncrease
				}
			}
			res.Actions = append(res.Actions, models.VolumeUpdate{Target: target, Volume: vol})
		}
	}

	if hasWord(words, "add") {
		if name, ok := resolveSpan(words, p.names); ok {
			if l, ok := p.catalog.LayerByName(name); ok {
				vol := defaultAdd
				if hasIntensity {
					vol = intensity
				}
				res.Actions = append(res.Actions, models.Add{URL: l.URL, Volume: vol})
			}
		}
	}

	return res
}
