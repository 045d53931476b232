package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/icco/drumseq/internal/midiout"
	"github.com/icco/drumseq/internal/rhythm"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List presets, fills, kits and MIDI ports",
	Run:   runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Presets:")
	for _, name := range rhythm.PresetNames() {
		p := rhythm.Presets[name]
		fmt.Fprintf(out, "  %-10s %3d BPM  %s (%s)\n", p.Name, p.BPM, p.Title, presetVoices(p))
	}

	fmt.Fprintln(out, "\nFills:")
	fmt.Fprintf(out, "  %s\n", strings.Join(rhythm.TemplateNames(), ", "))
	fmt.Fprintln(out, "  every-N and euclidean-H work for any N and H")

	fmt.Fprintln(out, "\nMIDI kits:")
	fmt.Fprintf(out, "  %s\n", strings.Join(midiout.KitNames(), ", "))

	fmt.Fprintln(out, "\nMIDI outputs:")
	ports := midiout.Ports()
	if len(ports) == 0 {
		fmt.Fprintln(out, "  (none found)")
	}
	for _, name := range ports {
		fmt.Fprintf(out, "  %s\n", name)
	}
}

func presetVoices(p rhythm.Preset) string {
	voices := make([]string, 0, len(p.Fills))
	for id := range p.Fills {
		voices = append(voices, id)
	}
	sort.Strings(voices)
	return strings.Join(voices, " ")
}
