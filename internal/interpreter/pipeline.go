// Package interpreter turns free-text utterances into mixer actions and
// scene choices. Rule-based stages run first; a remote completion service is
// consulted only when they produce nothing, and its answers are re-validated
// against the catalog. Every call is stateless.
package interpreter

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Vasu1712/vibe-rooms-backend/internal/catalog"
	"github.com/Vasu1712/vibe-rooms-backend/internal/completion"
	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
)

// DefaultTimeout bounds each remote completion call.
const DefaultTimeout = 8 * time.Second

func defaultVolume(i int) float64 {
	return catalog.DefaultVolume(i)
}

// Interpreter runs the command pipeline and scene curation.
type Interpreter struct {
	catalog   *catalog.Catalog
	parser    *Parser
	rooms     *RoomSelector
	completer completion.Completer
	timeout   time.Duration
	logger    *zap.Logger
	perm      func(n int) []int
	intN      func(n int) int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithCompleter enables the remote fallback.
func WithCompleter(c completion.Completer) Option {
	return func(in *Interpreter) { in.completer = c }
}

// WithTimeout bounds each remote call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(in *Interpreter) {
		if d > 0 {
			in.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(in *Interpreter) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithRand makes random fallback mixes reproducible. r must not be shared
// with other goroutines.
func WithRand(r *rand.Rand) Option {
	return func(in *Interpreter) {
		in.perm = r.Perm
		in.intN = r.IntN
	}
}

// New creates an Interpreter over c.
func New(c *catalog.Catalog, opts ...Option) *Interpreter {
	in := &Interpreter{
		catalog:   c,
		parser:    NewParser(c),
		rooms:     NewRoomSelector(c),
		completer: completion.Disabled{},
		timeout:   DefaultTimeout,
		logger:    zap.NewNop(),
		perm:      rand.Perm,
		intN:      rand.IntN,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Parser returns the rule parser.
func (in *Interpreter) Parser() *Parser { return in.parser }

// Rooms returns the room selector.
func (in *Interpreter) Rooms() *RoomSelector { return in.rooms }

// command is the input every resolver sees.
type command struct {
	text      string
	available []string
}

// resolver returns a response and true to stop the pipeline, or false to
// pass to the next stage.
type resolver func(ctx context.Context, cmd command) (models.CommandResponse, bool)

// AvailableNames returns the file names of the caller's layers that exist in
// the catalog, de-duplicated, in input order.
func (in *Interpreter) AvailableNames(layers []models.LayerMix) []string {
	seen := make(map[string]bool, len(layers))
	var names []string
	for _, l := range layers {
		name := catalog.FileName(l.URL)
		if seen[name] {
			continue
		}
		if _, known := in.catalog.LayerByName(name); !known && !in.catalog.IsKnownURL(l.URL) {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Command interprets text against the caller's current mix. The result is
// never an error: ambiguous input, unknown targets and remote failures all
// degrade to the empty response.
func (in *Interpreter) Command(ctx context.Context, text string, layers []models.LayerMix) models.CommandResponse {
	if strings.TrimSpace(text) == "" {
		return models.CommandResponse{}
	}
	cmd := command{text: text, available: in.AvailableNames(layers)}
	for _, r := range []resolver{in.resolveSwitch, in.resolveRules, in.resolveRemote} {
		if res, ok := r(ctx, cmd); ok {
			return res
		}
	}
	return models.CommandResponse{}
}

func (in *Interpreter) resolveSwitch(_ context.Context, cmd command) (models.CommandResponse, bool) {
	room, ok := in.rooms.DetectRoom(cmd.text)
	if !ok || !IsSwitchRequest(cmd.text) {
		return models.CommandResponse{}, false
	}
	return models.CommandResponse{SwitchRoom: room}, true
}

func (in *Interpreter) resolveRules(_ context.Context, cmd command) (models.CommandResponse, bool) {
	res := in.parser.Parse(cmd.text, cmd.available)
	if len(res.Actions) > 0 {
		return models.NewCommandResponse(res.Actions), true
	}
	// A control verb without a confident target is a deliberate no-op.
	if res.ControlVerb {
		in.logger.Debug("control verb without target, ignoring", zap.String("text", cmd.text))
		return models.CommandResponse{}, true
	}
	return models.CommandResponse{}, false
}

func (in *Interpreter) resolveRemote(ctx context.Context, cmd command) (models.CommandResponse, bool) {
	if completion.IsDisabled(in.completer) {
		return models.CommandResponse{}, false
	}
	actions, err := in.remoteCommandActions(ctx, cmd.text, cmd.available)
	if err != nil {
		in.logger.Warn("remote command interpretation failed",
			zap.String("completer", in.completer.Name()), zap.Error(err))
		return models.CommandResponse{}, true
	}
	return models.NewCommandResponse(actions), true
}
