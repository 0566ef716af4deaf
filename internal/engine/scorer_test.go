package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/hostelsmart/portal/internal/domain"
)

const scoreTolerance = 1e-9

func TestPriorityScorer_WeightedFormula(t *testing.T) {
	scorer := NewPriorityScorer(DefaultWeightPolicy)

	testCases := []struct {
		name    string
		pillars domain.PillarBreakdown
	}{
		{"all zero", domain.PillarBreakdown{}},
		{"all one", domain.PillarBreakdown{Severity: 1, Frequency: 1, Urgency: 1, TimeFactor: 1}},
		{"mixed", domain.PillarBreakdown{Severity: 0.55, Frequency: 1.0, Urgency: 1.0, TimeFactor: 0.9}},
		{"severity only", domain.PillarBreakdown{Severity: 0.5}},
		{"tiny values", domain.PillarBreakdown{Severity: 1e-9, Frequency: 1e-9, Urgency: 1e-9, TimeFactor: 1e-9}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := scorer.Score(tc.pillars)
			want := 0.4*tc.pillars.Severity + 0.3*tc.pillars.Frequency +
				0.2*tc.pillars.Urgency + 0.1*tc.pillars.TimeFactor

			if math.Abs(got-want) > scoreTolerance {
				t.Errorf("Score(%+v) = %v, want %v", tc.pillars, got, want)
			}
			if got < 0 || got > 1 {
				t.Errorf("score out of range: %v", got)
			}
		})
	}
}

func TestPriorityScorer_Monotonic(t *testing.T) {
	scorer := NewPriorityScorer(DefaultWeightPolicy)
	base := domain.PillarBreakdown{Severity: 0.3, Frequency: 0.3, Urgency: 0.3, TimeFactor: 0.3}
	baseScore := scorer.Score(base)

	bumps := []domain.PillarBreakdown{
		{Severity: 0.5, Frequency: 0.3, Urgency: 0.3, TimeFactor: 0.3},
		{Severity: 0.3, Frequency: 0.5, Urgency: 0.3, TimeFactor: 0.3},
		{Severity: 0.3, Frequency: 0.3, Urgency: 0.5, TimeFactor: 0.3},
		{Severity: 0.3, Frequency: 0.3, Urgency: 0.3, TimeFactor: 0.5},
	}
	for _, b := range bumps {
		if scorer.Score(b) <= baseScore {
			t.Errorf("raising a pillar did not raise the score: %+v", b)
		}
	}
}

func TestNewWeightPolicy_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		s, f    float64
		u, tf   float64
		wantErr bool
	}{
		{"production policy", 0.4, 0.3, 0.2, 0.1, false},
		{"equal weights", 0.25, 0.25, 0.25, 0.25, false},
		{"sum below one", 0.4, 0.3, 0.2, 0.05, true},
		{"sum above one", 0.4, 0.4, 0.2, 0.1, true},
		{"negative weight", 0.6, 0.4, 0.2, -0.2, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWeightPolicy(tc.s, tc.f, tc.u, tc.tf)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewWeightPolicy(%v,%v,%v,%v) error = %v, wantErr %v",
					tc.s, tc.f, tc.u, tc.tf, err, tc.wantErr)
			}
		})
	}
}

func TestPriorityScorer_ExplainDeterministic(t *testing.T) {
	scorer := NewPriorityScorer(DefaultWeightPolicy)
	pillars := domain.PillarBreakdown{Severity: 0.55, Frequency: 1.0, Urgency: 1.0, TimeFactor: 0.9}

	first := scorer.Explain(pillars)
	for i := 0; i < 5; i++ {
		if got := scorer.Explain(pillars); got != first {
			t.Fatalf("explanation changed between runs:\n%s\n%s", first, got)
		}
	}
}

func TestPriorityScorer_ExplainNamesDominantPillars(t *testing.T) {
	scorer := NewPriorityScorer(DefaultWeightPolicy)

	// severity contributes 0.4, everything else 0; mean contribution is
	// 0.1, so severity is the only dominant pillar.
	got := scorer.Explain(domain.PillarBreakdown{Severity: 1.0})
	if !strings.Contains(got, "severity") {
		t.Errorf("explanation missing dominant pillar: %q", got)
	}
	if strings.Contains(got, "frequency") {
		t.Errorf("explanation names non-dominant pillar: %q", got)
	}
}

func TestPriorityScorer_ExplainThresholds(t *testing.T) {
	scorer := NewPriorityScorer(DefaultWeightPolicy)

	testCases := []struct {
		name     string
		pillars  domain.PillarBreakdown
		contains string
	}{
		{
			name:     "high priority",
			pillars:  domain.PillarBreakdown{Severity: 1, Frequency: 1, Urgency: 1, TimeFactor: 1},
			contains: "high-priority",
		},
		{
			name:     "escalation only",
			pillars:  domain.PillarBreakdown{Severity: 1, Frequency: 1},
			contains: "auto-escalates",
		},
		{
			name:     "below thresholds",
			pillars:  domain.PillarBreakdown{Severity: 0.25},
			contains: "below escalation thresholds",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := scorer.Explain(tc.pillars)
			if !strings.Contains(got, tc.contains) {
				t.Errorf("Explain(%+v) = %q, want substring %q", tc.pillars, got, tc.contains)
			}
		})
	}
}

func TestShouldEscalate_Boundary(t *testing.T) {
	if !ShouldEscalate(0.70) {
		t.Error("score exactly 0.70 must escalate")
	}
	if ShouldEscalate(0.69999) {
		t.Error("score 0.69999 must not escalate")
	}
	if !ShouldEscalate(0.71) {
		t.Error("score above threshold must escalate")
	}
}

func TestBand(t *testing.T) {
	testCases := []struct {
		score    float64
		expected PriorityBand
	}{
		{0.80, BandCritical},
		{0.75, BandCritical},
		{0.60, BandHigh},
		{0.50, BandHigh},
		{0.30, BandNormal},
		{0.10, BandLow},
		{0, BandLow},
	}

	for _, tc := range testCases {
		if got := Band(tc.score); got != tc.expected {
			t.Errorf("Band(%v) = %s, want %s", tc.score, got, tc.expected)
		}
	}
}
