package config

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/katalvlaran/treeproj/internal/logging"
	"github.com/katalvlaran/treeproj/normalize"
)

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}

	return sb.String()
}

// Validate reports every invalid value in c.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level", c.Log.Level, "must be one of debug, info, warn, error")
	}
	if f := strings.ToLower(c.Log.Format); f != logging.FormatText && f != logging.FormatJSON {
		add("log.format", c.Log.Format, "must be text or json")
	}

	for field, name := range map[string]string{
		"project.norm_before": c.Project.NormBefore,
		"project.norm_after":  c.Project.NormAfter,
		"decode.norm":         c.Decode.Norm,
		"vote.norm":           c.Vote.Norm,
	} {
		if _, err := normalize.ByName(name, normalize.Params{}); err != nil {
			add(field, name, "must be one of "+strings.Join(normalize.Names(), ", ")+`, or "primary|fallback"`)
		}
	}
	if t := c.Project.Temperature; !(t > 0) || math.IsInf(t, 0) {
		add("project.temperature", t, "must be positive and finite")
	}
	if c.Project.Strategy != StrategySparse && c.Project.Strategy != StrategyDense {
		add("project.strategy", c.Project.Strategy, "must be sparse or dense")
	}
	if c.Project.Workers < 0 {
		add("project.workers", c.Project.Workers, "must be >= 0")
	}
	if c.Decode.Workers < 0 {
		add("decode.workers", c.Decode.Workers, "must be >= 0")
	}
	if c.Vote.Workers < 0 {
		add("vote.workers", c.Vote.Workers, "must be >= 0")
	}
	if math.IsNaN(c.Decode.LowConfidence) {
		add("decode.low_confidence", c.Decode.LowConfidence, "must be a number")
	}
	slices.SortFunc(errs, func(a, b ValidationError) int { return strings.Compare(a.Field, b.Field) })

	return errs
}
