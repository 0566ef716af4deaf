// Package engine implements the complaint prioritization and attendance
// anomaly detection core: signal extraction, category classification,
// priority scoring and punch verification.
package engine

import (
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/hostelsmart/portal/internal/domain"
)

// categoryLexicon pairs a category with its keyword lexicon. The slice
// order below is the institutional risk precedence: when a description
// matches several lexicons, the earliest entry wins.
type categoryLexicon struct {
	category domain.Category
	keywords []string
}

// categoryLexicons is evaluated in fixed order, highest risk first.
// Ties are broken by this precedence, never by input order.
var categoryLexicons = []categoryLexicon{
	{domain.CategorySafety, []string{
		"fire", "smoke", "gas leak", "gas smell", "burning",
		"harassment", "ragging", "intruder", "theft", "stolen",
		"broken lock", "unsafe", "security", "emergency exit",
		"snake", "assault", "threat",
	}},
	{domain.CategoryElectrical, []string{
		"power", "electricity", "electric", "socket", "switchboard",
		"fan", "light", "tubelight", "wiring", "short circuit",
		"voltage", "geyser", "sparking", "shock", "fuse", "inverter",
	}},
	{domain.CategoryPlumbing, []string{
		"water", "leak", "leaking", "tap", "pipe", "pipeline",
		"drainage", "toilet", "flush", "sewage", "bathroom",
		"shower", "clogged", "overflow", "washbasin",
	}},
	{domain.CategoryWifi, []string{
		"wifi", "wi fi", "internet", "network", "router", "lan",
		"connectivity", "bandwidth", "hotspot", "broadband",
	}},
	{domain.CategoryCleanliness, []string{
		"garbage", "trash", "dirty", "unclean", "smell", "stink",
		"pest", "cockroach", "mosquito", "dust", "housekeeping",
		"sweeping", "mopping", "hygiene",
	}},
}

// CategoryClassifier maps complaint text to exactly one category using
// a single Aho-Corasick pass over all lexicons. It never returns an
// unknown label; text matching nothing classifies as "other".
type CategoryClassifier struct {
	matcher    *ahocorasick.Matcher
	keywords   []string
	categories []domain.Category // parallel to keywords
}

// NewCategoryClassifier builds the matcher from the fixed lexicons.
func NewCategoryClassifier() *CategoryClassifier {
	var keywords []string
	var categories []domain.Category

	for _, lex := range categoryLexicons {
		for _, kw := range lex.keywords {
			// Keywords are padded so the automaton matches whole
			// words only; normalizeText pads the input to match.
			keywords = append(keywords, " "+kw+" ")
			categories = append(categories, lex.category)
		}
	}

	return &CategoryClassifier{
		matcher:    ahocorasick.NewStringMatcher(keywords),
		keywords:   keywords,
		categories: categories,
	}
}

// Classify returns the single category for the given description.
// When multiple lexicons match, the highest-precedence category wins.
func (c *CategoryClassifier) Classify(text string) domain.Category {
	normalized := normalizeText(text)
	hits := c.matcher.Match([]byte(normalized))

	matched := make(map[domain.Category]bool, len(hits))
	for _, hit := range hits {
		if hit >= len(c.categories) {
			continue
		}
		matched[c.categories[hit]] = true
	}

	for _, lex := range categoryLexicons {
		if matched[lex.category] {
			return lex.category
		}
	}
	return domain.CategoryOther
}

// ahocorasickMatcher wraps the Aho-Corasick automaton over padded
// terms for whole-word matching against normalized text.
type ahocorasickMatcher struct {
	matcher *ahocorasick.Matcher
}

func newPaddedMatcher(terms []string) *ahocorasickMatcher {
	padded := make([]string, len(terms))
	for i, t := range terms {
		padded[i] = " " + t + " "
	}
	return &ahocorasickMatcher{matcher: ahocorasick.NewStringMatcher(padded)}
}

// countUnique returns how many distinct terms occur in the text.
func (m *ahocorasickMatcher) countUnique(normalized string) int {
	return len(m.matcher.Match([]byte(normalized)))
}

// normalizeText lowercases the input, replaces every non-alphanumeric
// rune with a space and pads the result so padded keywords match on
// word boundaries.
func normalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte(' ')
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte(' ')
	return b.String()
}
