package ratios

import (
	"fmt"
	"math"
)

// Level is the stoplight indicator of a ratio.
type Level string

const (
	LevelGood     Level = "good"
	LevelCaution  Level = "caution"
	LevelCritical Level = "critical"
)

// Symbol returns the stoplight glyph for the level.
func (l Level) Symbol() string {
	switch l {
	case LevelGood:
		return "🟢"
	case LevelCaution:
		return "🟡"
	case LevelCritical:
		return "🔴"
	}
	return "⚪"
}

// Threshold is the (green, yellow) pair of a ratio. For lower-is-better
// ratios Green <= Yellow, otherwise Green >= Yellow.
type Threshold struct {
	Green  float64 `yaml:"green"`
	Yellow float64 `yaml:"yellow"`
}

// Thresholds maps each ratio to its threshold pair.
type Thresholds map[Name]Threshold

// DefaultThresholds returns the standard threshold table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CurrentRatio:      {Green: 2, Yellow: 1.5},
		QuickRatio:        {Green: 1, Yellow: 0.7},
		DaysReceivables:   {Green: 60, Yellow: 90},
		Leverage:          {Green: 2, Yellow: 3},
		InterestCoverage:  {Green: 5, Yellow: 3},
		ROE:               {Green: 0.1, Yellow: 0.05},
		ROI:               {Green: 0.08, Yellow: 0.04},
		ROS:               {Green: 0.05, Yellow: 0.02},
		InventoryTurnover: {Green: 6, Yellow: 3},
	}
}

// Merge returns t with the entries of override replacing its own.
func (t Thresholds) Merge(override Thresholds) Thresholds {
	out := make(Thresholds, len(t)+len(override))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Bounds is a partial threshold pair read from configuration. A nil bound
// keeps the value it is applied over.
type Bounds struct {
	Green  *float64 `yaml:"green,omitempty"`
	Yellow *float64 `yaml:"yellow,omitempty"`
}

// Overrides maps ratios to partial threshold pairs.
type Overrides map[Name]Bounds

// Apply returns t with each override laid over its pair bound by bound.
// Unknown ratio names are carried over so Validate can reject them.
func (t Thresholds) Apply(o Overrides) Thresholds {
	out := t.Merge(nil)
	for name, b := range o {
		th := out[name]
		if b.Green != nil {
			th.Green = *b.Green
		}
		if b.Yellow != nil {
			th.Yellow = *b.Yellow
		}
		out[name] = th
	}
	return out
}

// Validate checks that every ratio has a finite threshold pair ordered in
// its favorable direction.
func (t Thresholds) Validate() error {
	for name := range t {
		if !name.Known() {
			return fmt.Errorf("threshold for unknown ratio %q", name)
		}
	}
	for _, name := range Names {
		th, ok := t[name]
		if !ok {
			return fmt.Errorf("missing threshold for %s", name)
		}
		if math.IsNaN(th.Green) || math.IsNaN(th.Yellow) || math.IsInf(th.Green, 0) || math.IsInf(th.Yellow, 0) {
			return fmt.Errorf("threshold for %s must be finite", name)
		}
		if name.LowerIsBetter() && th.Green > th.Yellow {
			return fmt.Errorf("threshold for %s: green %g must not exceed yellow %g", name, th.Green, th.Yellow)
		}
		if !name.LowerIsBetter() && th.Green < th.Yellow {
			return fmt.Errorf("threshold for %s: green %g must not be below yellow %g", name, th.Green, th.Yellow)
		}
	}
	return nil
}

// Indicate maps a ratio value to its level. Boundaries are inclusive on the
// favorable side.
func Indicate(name Name, value float64, th Threshold) Level {
	if name.LowerIsBetter() {
		switch {
		case value <= th.Green:
			return LevelGood
		case value <= th.Yellow:
			return LevelCaution
		default:
			return LevelCritical
		}
	}
	switch {
	case value >= th.Green:
		return LevelGood
	case value >= th.Yellow:
		return LevelCaution
	default:
		return LevelCritical
	}
}
