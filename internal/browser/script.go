package browser

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Script verbs
const (
	VerbNavigate   = "navigate"
	VerbReload     = "reload"
	VerbScroll     = "scroll"
	VerbClick      = "click"
	VerbType       = "type"
	VerbKey        = "key"
	VerbEvaluate   = "evaluate"
	VerbScreenshot = "screenshot"
	VerbWait       = "wait"
)

var scriptVerbs = map[string]bool{
	VerbNavigate: true, VerbReload: true, VerbScroll: true, VerbClick: true, VerbType: true,
	VerbKey: true, VerbEvaluate: true, VerbScreenshot: true, VerbWait: true,
}

// Actions is the set of actions a script can drive.
type Actions interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	Scroll(ctx context.Context, direction string, pixels int) error
	Click(ctx context.Context, x, y float64) error
	Type(ctx context.Context, text string) error
	Key(ctx context.Context, name string) error
	Evaluate(ctx context.Context, expression string) (any, error)
	Screenshot(ctx context.Context, filename string) (string, error)
}

// Step is one scripted action, written in YAML as a single-key mapping such
// as "- navigate: http://localhost:5173" or "- scroll: down" with an optional
// "pixels" key.
type Step struct {
	Verb   string
	Arg    string
	Pixels int
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: step must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: %s must be a scalar", value.Line, key.Value)
		}
		switch {
		case key.Value == "pixels":
			n, err := strconv.Atoi(value.Value)
			if err != nil {
				return fmt.Errorf("line %d: pixels: %w", value.Line, err)
			}
			s.Pixels = n
		case scriptVerbs[key.Value]:
			if s.Verb != "" {
				return fmt.Errorf("line %d: step has both %s and %s", key.Line, s.Verb, key.Value)
			}
			s.Verb = key.Value
			s.Arg = value.Value
		default:
			return fmt.Errorf("line %d: unknown step %q", key.Line, key.Value)
		}
	}

	if s.Verb == "" {
		return fmt.Errorf("line %d: step has no action", node.Line)
	}
	return nil
}

// String renders the step for reports.
func (s Step) String() string {
	if s.Arg == "" {
		return s.Verb
	}
	return s.Verb + " " + s.Arg
}

// ParseScript decodes a YAML list of steps.
func ParseScript(data []byte) ([]Step, error) {
	var steps []Step
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return steps, nil
}

// StepResult records the outcome of one step.
type StepResult struct {
	Step  Step   `json:"-"`
	Verb  string `json:"verb"`
	OK    bool   `json:"ok"`
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// RunScript runs every step in order. A failing step is recorded and the run
// continues with the next one.
func RunScript(ctx context.Context, actions Actions, steps []Step, opts ...Option) []StepResult {
	o := buildOptions("script", opts)
	results := make([]StepResult, 0, len(steps))
	for i, step := range steps {
		value, err := runStep(ctx, actions, step, o.sleep)
		res := StepResult{Step: step, Verb: step.Verb, OK: err == nil, Value: value}
		if err != nil {
			res.Error = err.Error()
			o.logger.Debug("step failed", "step", i+1, "verb", step.Verb, "error", err)
		} else {
			o.logger.Debug("step done", "step", i+1, "verb", step.Verb)
		}
		results = append(results, res)
	}
	return results
}

func runStep(ctx context.Context, a Actions, step Step, sleep func(context.Context, time.Duration) error) (any, error) {
	switch step.Verb {
	case VerbNavigate:
		return nil, a.Navigate(ctx, step.Arg)
	case VerbReload:
		return nil, a.Reload(ctx)
	case VerbScroll:
		return nil, a.Scroll(ctx, step.Arg, step.Pixels)
	case VerbClick:
		x, y, err := ParseCoordinates(step.Arg)
		if err != nil {
			return nil, err
		}
		return nil, a.Click(ctx, x, y)
	case VerbType:
		return nil, a.Type(ctx, step.Arg)
	case VerbKey:
		return nil, a.Key(ctx, step.Arg)
	case VerbEvaluate:
		return a.Evaluate(ctx, step.Arg)
	case VerbScreenshot:
		path, err := a.Screenshot(ctx, strings.TrimSpace(step.Arg))
		if err != nil {
			return nil, err
		}
		return path, nil
	case VerbWait:
		d, err := time.ParseDuration(step.Arg)
		if err != nil {
			return nil, invalidArgument("wait %q: %v", step.Arg, err)
		}
		return nil, sleep(ctx, d)
	default:
		return nil, invalidArgument("unknown step %q", step.Verb)
	}
}
