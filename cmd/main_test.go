package main

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
)

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	for _, k := range []string{"VIBE_CONFIG", "OPENAI_API_KEY", "GEMINI_API_KEY", "LOG_LEVEL", "VIBE_COMPLETION_TIMEOUT_MS"} {
		t.Setenv(k, "")
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.Bytes()
}

func TestParseCommand(t *testing.T) {
	out := run(t, "parse", "--log-level", "error", "--layers", "Rain.mp3,wind.mp3", "mute", "the", "rain")
	assert.JSONEq(t, `{"toggle":[{"target":"Rain.mp3","state":"off"}]}`, string(out))
}

func TestComposeCommand(t *testing.T) {
	out := run(t, "compose", "--log-level", "error", "--minutes", "10", "deep", "work")
	var plan models.Plan
	require.NoError(t, json.Unmarshal(out, &plan))
	assert.Equal(t, models.RoomSpace, plan.Room)
	assert.Equal(t, 10, plan.Context.DurationMin)
	assert.Equal(t, 600, plan.Timeline[len(plan.Timeline)-1].T)
}

func TestPaletteCommand(t *testing.T) {
	out := run(t, "palette", "--log-level", "error")
	var palette map[string][]models.Layer
	require.NoError(t, json.Unmarshal(out, &palette))
	assert.Len(t, palette, 6)
}

func TestInvalidLogLevel(t *testing.T) {
	t.Setenv("VIBE_CONFIG", "")
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"palette", "--log-level", "loud"})
	assert.Error(t, rootCmd.Execute())
}
