// Package triage restricts complaints and attendance records to a
// warden's jurisdiction and orders complaints for triage.
package triage

import (
	"errors"
	"sort"

	"github.com/hostelsmart/portal/internal/domain"
)

// ErrJurisdictionViolation rejects queries that reach outside the
// caller's block root. The filter is all-or-nothing: a violating query
// is refused outright, never partially applied.
var ErrJurisdictionViolation = errors.New("query outside warden jurisdiction")

// Queue filters complaints to a warden's block family and ranks them.
type Queue struct{}

// NewQueue creates a triage queue.
func NewQueue() *Queue {
	return &Queue{}
}

// ForWarden returns the complaints within the warden's block root,
// ordered for triage: descending priority score, ties broken by earlier
// creation so older unresolved issues surface first. The sort is stable,
// so equally scored complaints keep their order across repeated calls.
func (q *Queue) ForWarden(complaints []domain.Complaint, wardenBlock string) []domain.Complaint {
	root := domain.BlockRoot(wardenBlock)

	scoped := make([]domain.Complaint, 0, len(complaints))
	for _, c := range complaints {
		if domain.BlockRoot(c.HostelBlock) == root {
			scoped = append(scoped, c)
		}
	}

	sort.SliceStable(scoped, func(i, j int) bool {
		if scoped[i].PriorityScore != scoped[j].PriorityScore {
			return scoped[i].PriorityScore > scoped[j].PriorityScore
		}
		return scoped[i].CreatedAt.Before(scoped[j].CreatedAt)
	})

	return scoped
}

// Authorize checks that a requested block root falls inside the warden's
// jurisdiction. An empty requested root means "my own jurisdiction" and
// is always allowed.
func (q *Queue) Authorize(wardenBlock, requestedRoot string) error {
	if requestedRoot == "" {
		return nil
	}
	if domain.BlockRoot(wardenBlock) != requestedRoot {
		return ErrJurisdictionViolation
	}
	return nil
}

// AttendanceForWarden resolves each record's owning block through the
// submitter relation and keeps only records within the warden's root.
// Records whose submitter is unknown are excluded rather than shown
// globally.
func (q *Queue) AttendanceForWarden(
	records []domain.AttendanceRecord,
	usersByID map[string]domain.User,
	wardenBlock string,
) []domain.AttendanceRecord {
	root := domain.BlockRoot(wardenBlock)

	scoped := make([]domain.AttendanceRecord, 0, len(records))
	for _, rec := range records {
		owner, ok := usersByID[rec.StudentID]
		if !ok {
			continue
		}
		if domain.BlockRoot(owner.HostelBlock) == root {
			scoped = append(scoped, rec)
		}
	}
	return scoped
}
