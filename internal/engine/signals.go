package engine

import (
	"regexp"
	"time"

	"github.com/hostelsmart/portal/internal/domain"
)

// MinDescriptionLength is the shortest description the engine scores.
// Callers must gate on this before invoking the extractor.
const MinDescriptionLength = 10

// Signal extraction constants.
const (
	criticalTermWeight  = 0.35
	moderateTermWeight  = 0.25
	intensityTermWeight = 0.10
	sustainedWeight     = 0.20

	urgentTermWeight    = 0.40
	affectedBoostCap    = 0.60
	affectedNormalizer  = 25.0
	frequencySaturation = 4.0
	timeDecayHours      = 72.0
)

// severityCritical are terms indicating immediate danger or total failure.
var severityCritical = []string{
	"fire", "gas leak", "electric shock", "short circuit", "sparking",
	"flood", "flooding", "burst", "collapsed", "exposed wiring", "smoke",
	"no water", "no power",
}

// severityModerate are degraded-service terms.
var severityModerate = []string{
	"broken", "leaking", "leak", "not working", "down", "damaged",
	"blocked", "overflow", "stopped", "faulty", "cracked",
}

// severityIntensity are amplifier words that raise the severity proxy.
var severityIntensity = []string{
	"urgent", "urgently", "dangerous", "severe", "serious",
	"completely", "extremely", "immediately", "unbearable", "terrible",
}

// urgencyTerms are time-critical phrases.
var urgencyTerms = []string{
	"urgent", "urgently", "immediately", "asap", "emergency",
	"right now", "at once", "tonight", "cannot wait",
}

// sustainedPattern matches outage durations like "for 3 days".
var sustainedPattern = regexp.MustCompile(`for\s+\d+\s+(hour|day|week)s?`)

// affectedPattern prefers a count adjacent to a person noun over the
// bare first-numeric-token heuristic, which tends to pick up room
// numbers and durations.
var affectedPattern = regexp.MustCompile(`(\d+)\s*(students|people|persons|residents|occupants)`)

// firstNumberPattern is the fallback affected-count heuristic.
var firstNumberPattern = regexp.MustCompile(`\d+`)

// History summarizes the submitter's prior complaints in the candidate's
// category. It is supplied by the caller; the extractor never fetches.
type History struct {
	// PriorSameCategory counts earlier complaints of the same category
	// from this submitter or room.
	PriorSameCategory int
	// LastSimilar is when the most recent such complaint was lodged.
	// Zero means no prior similar complaint.
	LastSimilar time.Time
}

// SignalExtractor derives the four scoring pillars from complaint text
// and caller-supplied history. Extraction is deterministic: identical
// text and history always produce identical signals.
type SignalExtractor struct {
	severity  *termMatcher
	moderate  *termMatcher
	intensity *termMatcher
	urgency   *termMatcher
}

// NewSignalExtractor builds the extractor's term matchers.
func NewSignalExtractor() *SignalExtractor {
	return &SignalExtractor{
		severity:  newTermMatcher(severityCritical),
		moderate:  newTermMatcher(severityModerate),
		intensity: newTermMatcher(severityIntensity),
		urgency:   newTermMatcher(urgencyTerms),
	}
}

// Extract computes the pillar breakdown for a complaint created at
// createdAt. The reference time is the creation instant, never the
// wall clock, so recomputation is idempotent.
func (e *SignalExtractor) Extract(text string, createdAt time.Time, hist History) domain.PillarBreakdown {
	normalized := normalizeText(text)

	return domain.PillarBreakdown{
		Severity:   e.severityProxy(normalized),
		Frequency:  frequencyProxy(hist),
		Urgency:    e.urgencyProxy(normalized, AffectedCount(text)),
		TimeFactor: timeDecay(createdAt, hist.LastSimilar),
	}
}

// severityProxy scores danger and failure language, 0-1.
func (e *SignalExtractor) severityProxy(normalized string) float64 {
	score := float64(e.severity.count(normalized))*criticalTermWeight +
		float64(e.moderate.count(normalized))*moderateTermWeight +
		float64(e.intensity.count(normalized))*intensityTermWeight
	if sustainedPattern.MatchString(normalized) {
		score += sustainedWeight
	}
	return clamp01(score)
}

// urgencyProxy scores time-critical language and affected-person count, 0-1.
func (e *SignalExtractor) urgencyProxy(normalized string, affected int) float64 {
	score := float64(e.urgency.count(normalized)) * urgentTermWeight
	if sustainedPattern.MatchString(normalized) {
		score += sustainedWeight
	}
	// A lone submitter is the implicit default and carries no signal.
	if affected > 1 {
		boost := float64(affected) / affectedNormalizer
		if boost > affectedBoostCap {
			boost = affectedBoostCap
		}
		score += boost
	}
	return clamp01(score)
}

// frequencyProxy normalizes recurrence: four or more prior same-category
// complaints saturate the pillar.
func frequencyProxy(hist History) float64 {
	if hist.PriorSameCategory <= 0 {
		return 0
	}
	return clamp01(float64(hist.PriorSameCategory) / frequencySaturation)
}

// timeDecay scores recency of the last similar complaint: a complaint
// lodged within the decay window scores higher the closer it is.
func timeDecay(createdAt, lastSimilar time.Time) float64 {
	if lastSimilar.IsZero() || lastSimilar.After(createdAt) {
		return 0
	}
	hours := createdAt.Sub(lastSimilar).Hours()
	return clamp01(1 - hours/timeDecayHours)
}

// AffectedCount estimates how many people a complaint affects. A count
// adjacent to a person noun wins; otherwise the first numeric token is
// used, defaulting to 1. This stays a heuristic, not a contract.
func AffectedCount(text string) int {
	normalized := normalizeText(text)
	if m := affectedPattern.FindStringSubmatch(normalized); m != nil {
		return atoiSafe(m[1])
	}
	if m := firstNumberPattern.FindString(normalized); m != "" {
		return atoiSafe(m)
	}
	return 1
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
		if n > 1<<20 {
			return 1 << 20
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// termMatcher counts unique lexicon terms present in normalized text.
type termMatcher struct {
	matcher *ahocorasickMatcher
}

func newTermMatcher(terms []string) *termMatcher {
	return &termMatcher{matcher: newPaddedMatcher(terms)}
}

func (m *termMatcher) count(normalized string) int {
	return m.matcher.countUnique(normalized)
}
