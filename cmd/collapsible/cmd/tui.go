package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/go-drift/collapsible/cmd/collapsible/internal/sim"
	"github.com/go-drift/collapsible/cmd/collapsible/internal/tui"
	"github.com/go-drift/collapsible/pkg/animation"
	"github.com/go-drift/collapsible/pkg/config"
)

var tuiCmd = &cobra.Command{
	Use:   "tui <scene.yaml>",
	Short: "Explore a scene interactively in the terminal",
	Long: `Open a scene in an interactive terminal view. Every collapsible container
is listed with a bar showing its rendered height as it animates.

Keys:
  ↑/↓ or k/j   select a container
  enter/space  toggle it
  a / d        append a paragraph / remove the last child
  + / -        widen / narrow the window
  q            quit`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	scene, err := config.Load(args[0])
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal; only warnings are logged.
	log := logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	s, err := sim.New(scene, animation.SystemClock{}, log)
	if s == nil {
		return err
	}
	defer s.Close()
	for _, e := range multierr.Errors(err) {
		log.Warn("collapsible not attached", zap.Error(e))
	}

	_, err = tea.NewProgram(tui.New(s), tea.WithAltScreen()).Run()
	return err
}
