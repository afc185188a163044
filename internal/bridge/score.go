// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

// package bridge scores student bridge designs with a fixed-weight
// rubric. The numbers are classroom heuristics, not structural
// engineering.
package bridge

import "github.com/qiaoxue/bridgelab/internal/i18n"

// Bridge types accepted by the scorer.
const (
	TypeBeam       = "beam"
	TypeArch       = "arch"
	TypeTruss      = "truss"
	TypeSuspension = "suspension"
)

// Design is a student's proposed bridge.
type Design struct {
	Type      string   `json:"type" validate:"required,oneof=beam arch truss suspension"`
	Span      float64  `json:"span" validate:"required,gt=0"`
	Height    float64  `json:"height" validate:"gte=0"`
	Materials []string `json:"materials"`
}

// Assessment is the scored result: a 0-100 feasibility score and a
// localized level label.
type Assessment struct {
	Score int    `json:"score"`
	Level string `json:"level"`
}

// materialPoints awards structural materials the rubric recognizes;
// unknown materials score nothing.
var materialPoints = map[string]int{
	"pine":   15,
	"oak":    20,
	"bamboo": 10,
}

// spanPoints rewards spans that suit the chosen structure. Each type
// has a comfortable range; beyond it the design still scores, just less.
func spanPoints(bridgeType string, span float64) int {
	switch bridgeType {
	case TypeBeam:
		if span <= 50 {
			return 20
		}
		return 10
	case TypeArch:
		if span <= 100 {
			return 25
		}
		return 15
	case TypeTruss:
		if span <= 150 {
			return 30
		}
		return 20
	case TypeSuspension:
		// Suspension bridges only make sense for long spans.
		if span > 100 {
			return 25
		}
		return 10
	}
	return 0
}

// Score applies the rubric: a base of 20 points, material bonuses, a
// span bonus per bridge type, and 15 points for a height-to-span ratio
// between 0.1 and 0.5. The total is capped at 100.
func Score(d Design) Assessment {
	score := 20

	for _, m := range d.Materials {
		score += materialPoints[m]
	}

	score += spanPoints(d.Type, d.Span)

	if d.Span > 0 {
		ratio := d.Height / d.Span
		if ratio >= 0.1 && ratio <= 0.5 {
			score += 15
		}
	}

	if score > 100 {
		score = 100
	}

	return Assessment{Score: score, Level: levelFor(score)}
}

func levelFor(score int) string {
	switch {
	case score >= 80:
		return i18n.T("bridge.level.excellent")
	case score >= 60:
		return i18n.T("bridge.level.good")
	case score >= 40:
		return i18n.T("bridge.level.fair")
	default:
		return i18n.T("bridge.level.poor")
	}
}
