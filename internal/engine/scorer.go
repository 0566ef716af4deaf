package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/hostelsmart/portal/internal/domain"
)

// Scoring policy thresholds.
const (
	// HighPriorityThreshold marks a complaint as high priority.
	HighPriorityThreshold = 0.75
	// AutoEscalateThreshold escalates a complaint at creation time.
	AutoEscalateThreshold = 0.70

	weightSumTolerance = 1e-9
	pillarCount        = 4.0
)

// PriorityBand is the coarse priority label derived from the score.
type PriorityBand string

// Priority bands.
const (
	BandCritical PriorityBand = "critical"
	BandHigh     PriorityBand = "high"
	BandNormal   PriorityBand = "normal"
	BandLow      PriorityBand = "low"
)

// WeightPolicy holds the fixed pillar weights. The policy is a
// deployment-time constant: swapping weights means constructing a new
// policy, never passing per-call parameters.
type WeightPolicy struct {
	Severity   float64
	Frequency  float64
	Urgency    float64
	TimeFactor float64
}

// DefaultWeightPolicy is the production scoring policy.
var DefaultWeightPolicy = WeightPolicy{
	Severity:   0.4,
	Frequency:  0.3,
	Urgency:    0.2,
	TimeFactor: 0.1,
}

// NewWeightPolicy validates a policy: all weights non-negative and
// summing to 1.0 within tolerance.
func NewWeightPolicy(severity, frequency, urgency, timeFactor float64) (WeightPolicy, error) {
	p := WeightPolicy{
		Severity:   severity,
		Frequency:  frequency,
		Urgency:    urgency,
		TimeFactor: timeFactor,
	}
	if err := p.Validate(); err != nil {
		return WeightPolicy{}, err
	}
	return p, nil
}

// Validate checks the policy invariants.
func (p WeightPolicy) Validate() error {
	for name, w := range map[string]float64{
		"severity":    p.Severity,
		"frequency":   p.Frequency,
		"urgency":     p.Urgency,
		"time_factor": p.TimeFactor,
	} {
		if w < 0 {
			return fmt.Errorf("weight %s is negative: %v", name, w)
		}
	}
	sum := p.Severity + p.Frequency + p.Urgency + p.TimeFactor
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights sum to %v, want 1.0", sum)
	}
	return nil
}

// PriorityScorer combines the four pillars under a fixed weight policy
// into a normalized score with a human-readable explanation.
type PriorityScorer struct {
	policy WeightPolicy
}

// NewPriorityScorer creates a scorer for the given policy. The policy
// must already be validated.
func NewPriorityScorer(policy WeightPolicy) *PriorityScorer {
	return &PriorityScorer{policy: policy}
}

// Score combines the pillar breakdown into a single score in [0,1].
func (s *PriorityScorer) Score(b domain.PillarBreakdown) float64 {
	score := s.policy.Severity*b.Severity +
		s.policy.Frequency*b.Frequency +
		s.policy.Urgency*b.Urgency +
		s.policy.TimeFactor*b.TimeFactor
	return clamp01(score)
}

// Explain renders the deterministic explanation for a breakdown: the
// dominant pillar(s) (weighted contribution at or above the mean
// contribution) and which thresholds the score crosses. Identical
// breakdowns always yield identical text.
func (s *PriorityScorer) Explain(b domain.PillarBreakdown) string {
	score := s.Score(b)

	contributions := []struct {
		name  string
		value float64
	}{
		{"severity", s.policy.Severity * b.Severity},
		{"frequency", s.policy.Frequency * b.Frequency},
		{"urgency", s.policy.Urgency * b.Urgency},
		{"time factor", s.policy.TimeFactor * b.TimeFactor},
	}

	mean := score / pillarCount
	var dominant []string
	for _, c := range contributions {
		if c.value >= mean {
			dominant = append(dominant, c.name)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "priority %.2f driven by %s", score, strings.Join(dominant, ", "))

	switch {
	case score >= HighPriorityThreshold:
		fmt.Fprintf(&sb, "; crosses the %.2f high-priority threshold and auto-escalates at %.2f", HighPriorityThreshold, AutoEscalateThreshold)
	case score >= AutoEscalateThreshold:
		fmt.Fprintf(&sb, "; auto-escalates at the %.2f threshold", AutoEscalateThreshold)
	default:
		sb.WriteString("; below escalation thresholds")
	}

	return sb.String()
}

// Band maps a score to its coarse priority label.
func Band(score float64) PriorityBand {
	switch {
	case score >= HighPriorityThreshold:
		return BandCritical
	case score >= 0.5:
		return BandHigh
	case score >= 0.25:
		return BandNormal
	default:
		return BandLow
	}
}

// ShouldEscalate reports whether a newly created complaint escalates.
func ShouldEscalate(score float64) bool {
	return score >= AutoEscalateThreshold
}
