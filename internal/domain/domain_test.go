package domain

import "testing"

func TestBlockRoot(t *testing.T) {
	tests := []struct {
		block string
		want  string
	}{
		{"Aryabhatta-A", "Aryabhatta"},
		{"Aryabhatta-B-Annex", "Aryabhatta"},
		{"Bhaskara", "Bhaskara"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := BlockRoot(tt.block); got != tt.want {
			t.Errorf("BlockRoot(%q) = %q, want %q", tt.block, got, tt.want)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusEscalated, true},
		{StatusOpen, StatusResolved, false},
		{StatusEscalated, StatusInProgress, true},
		{StatusEscalated, StatusResolved, true},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusOpen, false},
		{StatusResolved, StatusInProgress, false},
		{StatusResolved, StatusOpen, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: allowed = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestCategoryValid(t *testing.T) {
	for _, category := range Categories {
		if !category.Valid() {
			t.Errorf("%s should be valid", category)
		}
	}
	if Category("laundry").Valid() {
		t.Error("unknown category must be invalid")
	}
}
