package triage

import (
	"errors"
	"testing"
	"time"

	"github.com/hostelsmart/portal/internal/domain"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func complaint(id, block string, score float64, createdAt time.Time) domain.Complaint {
	return domain.Complaint{
		ID:            id,
		HostelBlock:   block,
		PriorityScore: score,
		CreatedAt:     createdAt,
		Status:        domain.StatusOpen,
	}
}

func TestQueue_ForWarden_JurisdictionIsolation(t *testing.T) {
	queue := NewQueue()
	complaints := []domain.Complaint{
		complaint("C1", "Aryabhatta-A", 0.9, t0),
		complaint("C2", "Bhaskara-Main", 0.95, t0),
		complaint("C3", "Aryabhatta-Central", 0.5, t0),
		complaint("C4", "Bhaskara-Central", 0.4, t0),
	}

	got := queue.ForWarden(complaints, "Aryabhatta-Central")

	if len(got) != 2 {
		t.Fatalf("expected 2 complaints, got %d", len(got))
	}
	for _, c := range got {
		if domain.BlockRoot(c.HostelBlock) != "Aryabhatta" {
			t.Errorf("complaint %s from block %s leaked across jurisdiction", c.ID, c.HostelBlock)
		}
	}
}

func TestQueue_ForWarden_RanksByScoreDescending(t *testing.T) {
	queue := NewQueue()
	complaints := []domain.Complaint{
		complaint("low", "Aryabhatta-A", 0.2, t0),
		complaint("high", "Aryabhatta-A", 0.9, t0),
		complaint("mid", "Aryabhatta-B", 0.5, t0),
	}

	got := queue.ForWarden(complaints, "Aryabhatta-Central")

	wantOrder := []string{"high", "mid", "low"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestQueue_ForWarden_TiesBreakByEarlierCreation(t *testing.T) {
	queue := NewQueue()
	complaints := []domain.Complaint{
		complaint("newer", "Aryabhatta-A", 0.75, t0.Add(time.Hour)),
		complaint("older", "Aryabhatta-B", 0.75, t0),
	}

	got := queue.ForWarden(complaints, "Aryabhatta-Central")

	if got[0].ID != "older" || got[1].ID != "newer" {
		t.Errorf("tie order = [%s %s], want [older newer]", got[0].ID, got[1].ID)
	}
}

func TestQueue_ForWarden_StableAcrossRepeatedCalls(t *testing.T) {
	queue := NewQueue()
	complaints := []domain.Complaint{
		complaint("a", "Aryabhatta-A", 0.6, t0),
		complaint("b", "Aryabhatta-B", 0.6, t0),
		complaint("c", "Aryabhatta-C", 0.6, t0),
	}

	first := queue.ForWarden(complaints, "Aryabhatta-Central")
	for i := 0; i < 5; i++ {
		got := queue.ForWarden(complaints, "Aryabhatta-Central")
		for j := range got {
			if got[j].ID != first[j].ID {
				t.Fatalf("order changed across calls at position %d", j)
			}
		}
	}
}

func TestQueue_Authorize(t *testing.T) {
	queue := NewQueue()

	if err := queue.Authorize("Aryabhatta-Central", "Aryabhatta"); err != nil {
		t.Errorf("own jurisdiction rejected: %v", err)
	}
	if err := queue.Authorize("Aryabhatta-Central", ""); err != nil {
		t.Errorf("implicit own jurisdiction rejected: %v", err)
	}

	err := queue.Authorize("Aryabhatta-Central", "Bhaskara")
	if !errors.Is(err, ErrJurisdictionViolation) {
		t.Errorf("cross-jurisdiction query error = %v, want ErrJurisdictionViolation", err)
	}
}

func TestQueue_AttendanceForWarden_JoinsThroughSubmitter(t *testing.T) {
	queue := NewQueue()
	users := map[string]domain.User{
		"STU101": {ID: "STU101", HostelBlock: "Aryabhatta-A"},
		"STU103": {ID: "STU103", HostelBlock: "Bhaskara-Main"},
	}
	records := []domain.AttendanceRecord{
		{ID: "A1", StudentID: "STU101"},
		{ID: "A2", StudentID: "STU103"},
		{ID: "A3", StudentID: "STU999"}, // unknown submitter
	}

	got := queue.AttendanceForWarden(records, users, "Aryabhatta-Central")

	if len(got) != 1 || got[0].ID != "A1" {
		t.Errorf("expected only A1 in jurisdiction, got %+v", got)
	}
}
