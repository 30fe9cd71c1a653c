package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Vasu1712/vibe-rooms-backend/internal/catalog"
	"github.com/Vasu1712/vibe-rooms-backend/internal/composer"
	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
)

var (
	parseLayers    []string
	composeMinutes int
	composeUser    string
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var parseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Interpret a mixer command against a layer list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := buildBackend(cmd.Context(), cfg, catalog.Default(), logger)
		if err != nil {
			return err
		}
		defer b.close()

		layers := make([]models.LayerMix, len(parseLayers))
		for i, name := range parseLayers {
			layers[i] = models.LayerMix{URL: name}
		}
		res := b.interpreter.Command(cmd.Context(), strings.Join(args, " "), layers)
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var composeCmd = &cobra.Command{
	Use:   "compose <goal>",
	Short: "Compose a session plan for a goal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan := composer.New(catalog.Default()).Compose(strings.Join(args, " "), composeMinutes, composeUser)
		return printJSON(cmd.OutOrStdout(), plan)
	},
}

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Print the room catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), catalog.Default().Palette())
	},
}

func init() {
	parseCmd.Flags().StringSliceVar(&parseLayers, "layers", nil, "layer names or URLs currently in the mix (comma separated)")
	composeCmd.Flags().IntVar(&composeMinutes, "minutes", composer.DefaultDurationMin, "session length in minutes")
	composeCmd.Flags().StringVar(&composeUser, "user", "", "optional user id echoed in the plan context")
}
