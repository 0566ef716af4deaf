package engine

import (
	"testing"

	"github.com/hostelsmart/portal/internal/domain"
)

func TestCategoryClassifier_Classify(t *testing.T) {
	classifier := NewCategoryClassifier()

	testCases := []struct {
		name     string
		text     string
		expected domain.Category
	}{
		{
			name:     "wifi outage",
			text:     "Wifi has been down for 3 days, 20 students affected, urgent",
			expected: domain.CategoryWifi,
		},
		{
			name:     "plumbing leak",
			text:     "The bathroom tap keeps leaking and the floor is flooded",
			expected: domain.CategoryPlumbing,
		},
		{
			name:     "electrical fault",
			text:     "Tubelight flickering and the socket gives a mild shock",
			expected: domain.CategoryElectrical,
		},
		{
			name:     "cleanliness",
			text:     "Garbage has not been collected and the corridor smells",
			expected: domain.CategoryCleanliness,
		},
		{
			name:     "safety wins over wifi on dual match",
			text:     "Fire sparks near the wifi router in the common room",
			expected: domain.CategorySafety,
		},
		{
			name:     "electrical wins over plumbing on dual match",
			text:     "Geyser wiring is wet from the water leak",
			expected: domain.CategoryElectrical,
		},
		{
			name:     "no lexicon match falls back to other",
			text:     "The notice board needs a new schedule printout",
			expected: domain.CategoryOther,
		},
		{
			name:     "punctuated wifi spelling",
			text:     "Wi-Fi not connecting on the second floor",
			expected: domain.CategoryWifi,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifier.Classify(tc.text)
			if got != tc.expected {
				t.Errorf("Classify(%q) = %s, want %s", tc.text, got, tc.expected)
			}
		})
	}
}

func TestCategoryClassifier_AlwaysReturnsKnownLabel(t *testing.T) {
	classifier := NewCategoryClassifier()

	inputs := []string{"", "   ", "xyzzy", "!!!", "room 302"}
	for _, text := range inputs {
		got := classifier.Classify(text)
		if !got.Valid() {
			t.Errorf("Classify(%q) returned invalid category %q", text, got)
		}
	}
}

func TestCategoryClassifier_WholeWordMatching(t *testing.T) {
	classifier := NewCategoryClassifier()

	// "slightly" contains "light" as a substring but must not
	// classify as electrical.
	got := classifier.Classify("The door is slightly loose on its hinge")
	if got != domain.CategoryOther {
		t.Errorf("expected other for substring-only match, got %s", got)
	}
}

func TestCategoryClassifier_Deterministic(t *testing.T) {
	classifier := NewCategoryClassifier()
	text := "Water leak near the fuse box, urgent"

	first := classifier.Classify(text)
	for i := 0; i < 10; i++ {
		if got := classifier.Classify(text); got != first {
			t.Fatalf("classification changed between runs: %s then %s", first, got)
		}
	}
}
