// Package domain defines the core entities of the hostel portal.
package domain

import (
	"fmt"
	"time"
)

// Category is the fixed complaint category enumeration.
type Category string

// Complaint categories, ordered by institutional risk.
const (
	CategorySafety      Category = "safety"
	CategoryElectrical  Category = "electrical"
	CategoryPlumbing    Category = "plumbing"
	CategoryWifi        Category = "wifi"
	CategoryCleanliness Category = "cleanliness"
	CategoryOther       Category = "other"
)

// Categories lists every category in precedence order (highest risk first).
var Categories = []Category{
	CategorySafety,
	CategoryElectrical,
	CategoryPlumbing,
	CategoryWifi,
	CategoryCleanliness,
	CategoryOther,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Status is the complaint lifecycle state.
type Status string

// Complaint statuses.
const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusEscalated  Status = "escalated"
	StatusResolved   Status = "resolved"
)

// statusTransitions maps each status to the warden-initiated states it may
// move to. Creation assigns open or escalated; everything after is manual.
var statusTransitions = map[Status][]Status{
	StatusOpen:       {StatusInProgress, StatusEscalated},
	StatusEscalated:  {StatusInProgress, StatusResolved},
	StatusInProgress: {StatusResolved},
	StatusResolved:   {},
}

// CanTransition reports whether a complaint may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PillarBreakdown is the structured scoring breakdown stored with a
// complaint. Recomputing the priority score from these values must
// reproduce the stored score exactly.
type PillarBreakdown struct {
	Severity   float64 `db:"severity"    json:"severity"`
	Frequency  float64 `db:"frequency"   json:"frequency"`
	Urgency    float64 `db:"urgency"     json:"urgency"`
	TimeFactor float64 `db:"time_factor" json:"time_factor"`
}

// Complaint is a maintenance or safety complaint lodged by a student.
// Core fields are immutable once created; only Status changes afterwards.
type Complaint struct {
	ID            string          `db:"id"             json:"id"`
	StudentID     string          `db:"student_id"     json:"student_id"`
	StudentName   string          `db:"student_name"   json:"student_name"`
	RoomNumber    string          `db:"room_number"    json:"room_number"`
	HostelBlock   string          `db:"hostel_block"   json:"hostel_block"`
	Category      Category        `db:"category"       json:"category"`
	Description   string          `db:"description"    json:"description"`
	Location      string          `db:"location"       json:"location"`
	CreatedAt     time.Time       `db:"created_at"     json:"created_at"`
	Status        Status          `db:"status"         json:"status"`
	PriorityScore float64         `db:"priority_score" json:"priority_score"`
	Explanation   string          `db:"explanation"    json:"explanation"`
	Pillars       PillarBreakdown `db:"pillars"        json:"pillars"`
	AffectedCount int             `db:"affected_count" json:"affected_count"`
}

// Transition moves the complaint to next, rejecting illegal moves.
func (c *Complaint) Transition(next Status) error {
	if !c.Status.CanTransition(next) {
		return fmt.Errorf("illegal status transition %s -> %s", c.Status, next)
	}
	c.Status = next
	return nil
}
