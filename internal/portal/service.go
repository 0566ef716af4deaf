// Package portal implements the student-facing submission flows:
// complaint lodging with live scoring previews and attendance punching.
package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hostelsmart/portal/internal/domain"
	"github.com/hostelsmart/portal/internal/engine"
	"github.com/hostelsmart/portal/internal/logger"
)

// ErrAnalysisUnavailable signals that scoring failed. Callers must block
// submission and offer a retry path; a score is never fabricated.
var ErrAnalysisUnavailable = errors.New("complaint analysis unavailable")

// ComplaintsStore is the persistence collaborator for complaints.
type ComplaintsStore interface {
	List(ctx context.Context) ([]domain.Complaint, error)
	Save(ctx context.Context, c *domain.Complaint) error
}

// AttendanceStore is the persistence collaborator for attendance.
type AttendanceStore interface {
	ListSince(ctx context.Context, since time.Time) ([]domain.AttendanceRecord, error)
	Save(ctx context.Context, rec *domain.AttendanceRecord) error
}

// PreviewResult is a live scoring preview. Applied is false when a newer
// preview request superseded this one mid-flight; such results must be
// discarded, not merged.
type PreviewResult struct {
	Seq      uint64                 `json:"seq"`
	Applied  bool                   `json:"applied"`
	Analysis *engine.AnalysisResult `json:"analysis,omitempty"`
}

// Service coordinates the engine with the persistence collaborators.
type Service struct {
	engine      *engine.Engine
	complaints  ComplaintsStore
	attendance  AttendanceStore
	punchWindow time.Duration
	preview     previewTracker
	logger      logger.Logger
	now         func() time.Time
}

// NewService creates the portal service. punchWindow bounds how far back
// the anomaly detector looks for related punches.
func NewService(
	eng *engine.Engine,
	complaints ComplaintsStore,
	attendance AttendanceStore,
	punchWindow time.Duration,
	log logger.Logger,
) *Service {
	return &Service{
		engine:      eng,
		complaints:  complaints,
		attendance:  attendance,
		punchWindow: punchWindow,
		logger:      log,
		now:         time.Now,
	}
}

// Preview scores draft text for live feedback. Every call supersedes all
// earlier previews; if a newer preview begins while this one is running,
// the result is returned unapplied so stale state never wins.
func (s *Service) Preview(ctx context.Context, user domain.User, text string) (*PreviewResult, error) {
	seq := s.preview.begin()

	analysis, err := s.analyze(ctx, user, text, s.now())
	if err != nil {
		return nil, err
	}

	applied := s.preview.current(seq)
	if !applied {
		s.logger.Debug("stale preview discarded", logger.Int64("seq", int64(seq)))
	}

	return &PreviewResult{Seq: seq, Applied: applied, Analysis: analysis}, nil
}

// Submit lodges a complaint. The submission runs its own scoring call,
// independent of any in-flight previews, and fails outright when
// analysis fails rather than persisting a default score.
func (s *Service) Submit(ctx context.Context, user domain.User, text string) (*domain.Complaint, error) {
	createdAt := s.now().UTC()

	analysis, err := s.analyze(ctx, user, text, createdAt)
	if err != nil {
		return nil, err
	}

	status := domain.StatusOpen
	if engine.ShouldEscalate(analysis.PriorityScore) {
		status = domain.StatusEscalated
	}

	complaint := &domain.Complaint{
		ID:            uuid.NewString(),
		StudentID:     user.ID,
		StudentName:   user.Name,
		RoomNumber:    user.RoomNumber,
		HostelBlock:   user.HostelBlock,
		Category:      analysis.Category,
		Description:   text,
		Location:      fmt.Sprintf("Room %s", user.RoomNumber),
		CreatedAt:     createdAt,
		Status:        status,
		PriorityScore: analysis.PriorityScore,
		Explanation:   analysis.Explanation,
		Pillars:       analysis.Pillars,
		AffectedCount: analysis.AffectedCount,
	}

	if err := s.complaints.Save(ctx, complaint); err != nil {
		return nil, fmt.Errorf("save complaint: %w", err)
	}

	s.logger.Info("complaint lodged",
		logger.String("complaint_id", complaint.ID),
		logger.String("category", string(complaint.Category)),
		logger.Float64("score", complaint.PriorityScore),
		logger.String("status", string(complaint.Status)),
	)

	return complaint, nil
}

// analyze classifies first, then builds the submitter's same-category
// history and runs the full pipeline. History is derived here, never
// inside the engine.
func (s *Service) analyze(ctx context.Context, user domain.User, text string, at time.Time) (*engine.AnalysisResult, error) {
	if len(text) < engine.MinDescriptionLength {
		return nil, engine.ErrDescriptionTooShort
	}

	category := s.engine.Categorize(text)

	hist, err := s.history(ctx, user, category, at)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisUnavailable, err)
	}

	analysis, err := s.engine.Analyze(ctx, engine.AnalysisInput{
		Text:      text,
		CreatedAt: at,
		History:   hist,
	})
	if err != nil {
		if errors.Is(err, engine.ErrDescriptionTooShort) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrAnalysisUnavailable, err)
	}
	return analysis, nil
}

// history counts prior same-category complaints from this submitter or
// their room, and when the latest one was lodged.
func (s *Service) history(ctx context.Context, user domain.User, category domain.Category, before time.Time) (engine.History, error) {
	all, err := s.complaints.List(ctx)
	if err != nil {
		return engine.History{}, fmt.Errorf("load complaint history: %w", err)
	}

	var hist engine.History
	for _, c := range all {
		if c.Category != category {
			continue
		}
		sameSubmitter := c.StudentID == user.ID
		sameRoom := c.RoomNumber == user.RoomNumber && c.HostelBlock == user.HostelBlock
		if !sameSubmitter && !sameRoom {
			continue
		}
		if !c.CreatedAt.Before(before) {
			continue
		}
		hist.PriorSameCategory++
		if c.CreatedAt.After(hist.LastSimilar) {
			hist.LastSimilar = c.CreatedAt
		}
	}
	return hist, nil
}

// Punch records an attendance punch. The anomaly verdict is computed
// against the recent window and persisted with the record; the record is
// immutable afterwards.
func (s *Service) Punch(
	ctx context.Context,
	user domain.User,
	networkAddress, deviceFingerprint string,
	onHostelNetwork bool,
) (*domain.AttendanceRecord, error) {
	punchedAt := s.now().UTC()

	window, err := s.attendance.ListSince(ctx, punchedAt.Add(-s.punchWindow))
	if err != nil {
		return nil, fmt.Errorf("load attendance window: %w", err)
	}

	verdict := engine.DetectAnomaly(engine.PunchCandidate{
		StudentID:         user.ID,
		NetworkAddress:    networkAddress,
		DeviceFingerprint: deviceFingerprint,
		OnHostelNetwork:   onHostelNetwork,
	}, window)

	record := &domain.AttendanceRecord{
		ID:                uuid.NewString(),
		StudentID:         user.ID,
		StudentName:       user.Name,
		RoomNumber:        user.RoomNumber,
		Timestamp:         punchedAt,
		NetworkAddress:    networkAddress,
		DeviceFingerprint: deviceFingerprint,
		OnHostelNetwork:   onHostelNetwork,
		Anomaly:           verdict.Anomaly,
		AnomalyReason:     verdict.Reason,
	}

	if err := s.attendance.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save attendance record: %w", err)
	}

	if verdict.Anomaly {
		s.logger.Warn("anomalous attendance punch",
			logger.String("student_id", user.ID),
			logger.String("reason", verdict.Reason),
		)
	}

	return record, nil
}
