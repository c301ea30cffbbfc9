package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StepKind names a scripted user action.
type StepKind string

const (
	StepClick   StepKind = "click"
	StepAppend  StepKind = "append"
	StepRemove  StepKind = "remove"
	StepResize  StepKind = "resize"
	StepAdvance StepKind = "advance"
	StepSettle  StepKind = "settle"
)

// Step is one parsed script line.
type Step struct {
	Kind     StepKind
	Selector string
	Text     string
	Width    float64
	Duration time.Duration
}

// String formats the step back into script syntax.
func (s Step) String() string {
	switch s.Kind {
	case StepClick, StepRemove:
		return fmt.Sprintf("%s %s", s.Kind, s.Selector)
	case StepAppend:
		return fmt.Sprintf("%s %s %s", s.Kind, s.Selector, s.Text)
	case StepResize:
		return fmt.Sprintf("%s %s", s.Kind, strconv.FormatFloat(s.Width, 'f', -1, 64))
	case StepAdvance:
		return fmt.Sprintf("%s %s", s.Kind, s.Duration)
	default:
		return string(s.Kind)
	}
}

// ParseStep parses one script line:
//
//	click <selector>
//	append <selector> <text...>
//	remove <selector>
//	resize <width>
//	advance <duration>
//	settle
func ParseStep(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Step{}, fmt.Errorf("empty step")
	}
	step := Step{Kind: StepKind(strings.ToLower(fields[0]))}
	args := fields[1:]

	switch step.Kind {
	case StepClick, StepRemove:
		if len(args) != 1 {
			return Step{}, fmt.Errorf("%s takes one selector (got %q)", step.Kind, line)
		}
		step.Selector = args[0]
	case StepAppend:
		if len(args) < 2 {
			return Step{}, fmt.Errorf("append takes a selector and text (got %q)", line)
		}
		step.Selector = args[0]
		step.Text = strings.Join(args[1:], " ")
	case StepResize:
		if len(args) != 1 {
			return Step{}, fmt.Errorf("resize takes one width (got %q)", line)
		}
		w, err := strconv.ParseFloat(args[0], 64)
		if err != nil || w <= 0 {
			return Step{}, fmt.Errorf("resize width %q must be a positive number", args[0])
		}
		step.Width = w
	case StepAdvance:
		if len(args) != 1 {
			return Step{}, fmt.Errorf("advance takes one duration (got %q)", line)
		}
		d, err := time.ParseDuration(args[0])
		if err != nil || d < 0 {
			return Step{}, fmt.Errorf("advance duration %q is invalid", args[0])
		}
		step.Duration = d
	case StepSettle:
		if len(args) != 0 {
			return Step{}, fmt.Errorf("settle takes no arguments (got %q)", line)
		}
	default:
		return Step{}, fmt.Errorf("unknown step %q", fields[0])
	}
	return step, nil
}

// Steps parses the scene's script.
func (s *Scene) Steps() ([]Step, error) {
	steps := make([]Step, 0, len(s.Script))
	for i, line := range s.Script {
		step, err := ParseStep(line)
		if err != nil {
			return nil, configError("config.Steps", "script[%d]: %w", i, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}
