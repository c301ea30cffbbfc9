package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/go-drift/collapsible/cmd/collapsible/internal/sim"
	"github.com/go-drift/collapsible/pkg/animation"
	"github.com/go-drift/collapsible/pkg/config"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scene.yaml> [step...]",
	Short: "Run a scripted scene and print heights after every step",
	Long: `Run a scene against a simulated clock. Steps come from the command line
or, when none are given, from the scene's script. After each step the
heights of every collapsible container are printed.

Steps:
  click <selector>          activate an element (a container's trigger)
  append <selector> <text>  add a paragraph to an element
  remove <selector>         remove an element
  resize <width>            resize the window
  advance <duration>        move the clock, e.g. 150ms
  settle                    run frames until nothing animates

Examples:
  collapsible simulate faq.yaml
  collapsible simulate faq.yaml "click #shipping" "advance 100ms" settle`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	scene, err := config.Load(args[0])
	if err != nil {
		return err
	}

	steps, err := scene.Steps()
	if err != nil {
		return err
	}
	if len(args) > 1 {
		steps = steps[:0]
		for _, line := range args[1:] {
			step, err := config.ParseStep(line)
			if err != nil {
				return fmt.Errorf("step %q: %w", line, err)
			}
			steps = append(steps, step)
		}
	}

	s, err := sim.New(scene, animation.NewFakeClock(), logger)
	if s == nil {
		return err
	}
	defer s.Close()
	for _, e := range multierr.Errors(err) {
		logger.Warn("collapsible not attached", zap.Error(e))
	}

	out := cmd.OutOrStdout()
	printSnapshot(out, "initial", s)
	for _, step := range steps {
		if err := s.Apply(step); err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
		printSnapshot(out, step.String(), s)
	}
	return nil
}

var headingStyle = lipgloss.NewStyle().Bold(true)

func printSnapshot(w io.Writer, title string, s *sim.Session) {
	fmt.Fprintln(w, headingStyle.Render("» "+title))
	fmt.Fprintln(w, renderTable(s.Snapshot()))
	for _, ev := range s.TakeEvents() {
		fmt.Fprintf(w, "  event: %s\n", ev)
	}
	fmt.Fprintln(w)
}

func renderTable(rows []sim.Row) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("container", "state", "collapsed", "expanded", "rendered")
	for _, r := range rows {
		rendered := px(r.Rendered)
		if r.Animating {
			rendered += " ~"
		}
		t.Row(
			strings.Repeat("  ", max(r.Depth-1, 0))+r.Element,
			r.State.String(),
			px(r.Collapsed),
			px(r.Expanded),
			rendered,
		)
	}
	return t.String()
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
