package portal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hostelsmart/portal/internal/domain"
	"github.com/hostelsmart/portal/internal/engine"
	"github.com/hostelsmart/portal/internal/logger"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

var student = domain.User{
	ID:          "STU101",
	Name:        "Rahul Sharma",
	Role:        domain.RoleStudent,
	HostelBlock: "Aryabhatta-A",
	RoomNumber:  "302",
}

// fakeComplaints is an in-memory ComplaintsStore. When entered/release
// are set, List blocks so tests can order concurrent previews.
type fakeComplaints struct {
	mu      sync.Mutex
	items   []domain.Complaint
	listErr error
	saveErr error
	entered chan struct{}
	release chan struct{}
}

func (f *fakeComplaints) List(ctx context.Context) ([]domain.Complaint, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Complaint, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeComplaints) Save(ctx context.Context, c *domain.Complaint) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]domain.Complaint{*c}, f.items...)
	return nil
}

type fakeAttendance struct {
	mu    sync.Mutex
	items []domain.AttendanceRecord
}

func (f *fakeAttendance) ListSince(ctx context.Context, since time.Time) ([]domain.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AttendanceRecord
	for _, rec := range f.items {
		if !rec.Timestamp.Before(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendance) Save(ctx context.Context, rec *domain.AttendanceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]domain.AttendanceRecord{*rec}, f.items...)
	return nil
}

func newTestService(t *testing.T, complaints *fakeComplaints, attendance *fakeAttendance) *Service {
	t.Helper()
	eng, err := engine.New(logger.NewNop(), engine.Config{Policy: engine.DefaultWeightPolicy})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc := NewService(eng, complaints, attendance, 24*time.Hour, logger.NewNop())
	svc.now = func() time.Time { return t0 }
	return svc
}

func TestService_Submit_PersistsEngineVerdict(t *testing.T) {
	store := &fakeComplaints{}
	svc := newTestService(t, store, &fakeAttendance{})

	got, err := svc.Submit(context.Background(), student,
		"Wifi has been down for 3 days, 20 students affected, urgent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Category != domain.CategoryWifi {
		t.Errorf("category = %s, want wifi", got.Category)
	}
	if got.Status != domain.StatusEscalated {
		t.Errorf("status = %s, want escalated", got.Status)
	}
	if got.StudentID != student.ID || got.HostelBlock != student.HostelBlock {
		t.Error("submitter identity not carried onto the complaint")
	}
	if len(store.items) != 1 {
		t.Fatalf("expected 1 persisted complaint, got %d", len(store.items))
	}
	if store.items[0].PriorityScore != got.PriorityScore {
		t.Error("persisted score differs from returned score")
	}
}

func TestService_Submit_LowScoreStaysOpen(t *testing.T) {
	svc := newTestService(t, &fakeComplaints{}, &fakeAttendance{})

	got, err := svc.Submit(context.Background(), student,
		"The corridor notice board frame is a bit crooked")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.StatusOpen {
		t.Errorf("status = %s, want open", got.Status)
	}
}

func TestService_Submit_HistoryRaisesFrequency(t *testing.T) {
	text := "Water leaking from the bathroom tap again"
	store := &fakeComplaints{}
	svc := newTestService(t, store, &fakeAttendance{})

	first, err := svc.Submit(context.Background(), student, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Pillars.Frequency != 0 {
		t.Errorf("first complaint frequency = %v, want 0", first.Pillars.Frequency)
	}

	// Same submitter, same category: the repeat must score a non-zero
	// frequency pillar. Backdate the stored complaint so it counts as
	// prior history.
	store.mu.Lock()
	store.items[0].CreatedAt = t0.Add(-6 * time.Hour)
	store.mu.Unlock()

	second, err := svc.Submit(context.Background(), student, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Pillars.Frequency <= 0 {
		t.Errorf("repeat complaint frequency = %v, want > 0", second.Pillars.Frequency)
	}
	if second.Pillars.TimeFactor <= 0 {
		t.Errorf("repeat complaint time factor = %v, want > 0", second.Pillars.TimeFactor)
	}
	if second.PriorityScore <= first.PriorityScore {
		t.Errorf("repeat score %v not above first %v", second.PriorityScore, first.PriorityScore)
	}
}

func TestService_Submit_ShortDescriptionRejected(t *testing.T) {
	store := &fakeComplaints{}
	svc := newTestService(t, store, &fakeAttendance{})

	_, err := svc.Submit(context.Background(), student, "wifi bad")
	if !errors.Is(err, engine.ErrDescriptionTooShort) {
		t.Errorf("error = %v, want ErrDescriptionTooShort", err)
	}
	if len(store.items) != 0 {
		t.Error("short description must never be persisted")
	}
}

func TestService_Submit_StoreFailureIsAnalysisUnavailable(t *testing.T) {
	store := &fakeComplaints{listErr: errors.New("connection reset")}
	svc := newTestService(t, store, &fakeAttendance{})

	_, err := svc.Submit(context.Background(), student,
		"Wifi has been down since yesterday evening")
	if !errors.Is(err, ErrAnalysisUnavailable) {
		t.Errorf("error = %v, want ErrAnalysisUnavailable", err)
	}
}

func TestService_Preview_StaleResponseDiscarded(t *testing.T) {
	store := &fakeComplaints{
		entered: make(chan struct{}, 2),
		release: make(chan struct{}, 2),
	}
	svc := newTestService(t, store, &fakeAttendance{})

	type outcome struct {
		result *PreviewResult
		err    error
	}
	first := make(chan outcome, 1)
	second := make(chan outcome, 1)

	go func() {
		r, err := svc.Preview(context.Background(), student, "Wifi keeps dropping in the study hall")
		first <- outcome{r, err}
	}()
	<-store.entered // first preview issued its sequence and is mid-flight

	go func() {
		r, err := svc.Preview(context.Background(), student, "Wifi keeps dropping in the study hall and common room")
		second <- outcome{r, err}
	}()
	<-store.entered // second preview superseded the first

	store.release <- struct{}{}
	store.release <- struct{}{}

	got1 := <-first
	got2 := <-second
	if got1.err != nil || got2.err != nil {
		t.Fatalf("unexpected errors: %v %v", got1.err, got2.err)
	}
	if got1.result.Applied {
		t.Error("superseded preview must not be applied")
	}
	if !got2.result.Applied {
		t.Error("latest preview must be applied")
	}
	if got2.result.Seq <= got1.result.Seq {
		t.Errorf("sequence not monotonic: %d then %d", got1.result.Seq, got2.result.Seq)
	}
}

func TestService_Punch_SharedNetworkScenario(t *testing.T) {
	attendance := &fakeAttendance{items: []domain.AttendanceRecord{
		{ID: "A1", StudentID: "STU102", NetworkAddress: "10.0.0.5", DeviceFingerprint: "fp-102", OnHostelNetwork: true, Timestamp: t0.Add(-2 * time.Hour)},
		{ID: "A2", StudentID: "STU103", NetworkAddress: "10.0.0.5", DeviceFingerprint: "fp-103", OnHostelNetwork: true, Timestamp: t0.Add(-1 * time.Hour)},
	}}
	svc := newTestService(t, &fakeComplaints{}, attendance)

	rec, err := svc.Punch(context.Background(), student, "10.0.0.5", "fp-101", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rec.Anomaly {
		t.Fatal("expected third punch on shared address to be flagged")
	}
	if rec.AnomalyReason != engine.ReasonSharedFingerprint {
		t.Errorf("reason = %q, want shared fingerprint", rec.AnomalyReason)
	}
	if len(attendance.items) != 3 {
		t.Errorf("expected the punch to be persisted, have %d records", len(attendance.items))
	}
}

func TestService_Punch_OldRecordsOutsideWindowIgnored(t *testing.T) {
	attendance := &fakeAttendance{items: []domain.AttendanceRecord{
		{ID: "A1", StudentID: "STU102", NetworkAddress: "10.0.0.5", DeviceFingerprint: "fp-102", OnHostelNetwork: true, Timestamp: t0.Add(-48 * time.Hour)},
		{ID: "A2", StudentID: "STU103", NetworkAddress: "10.0.0.5", DeviceFingerprint: "fp-103", OnHostelNetwork: true, Timestamp: t0.Add(-30 * time.Hour)},
	}}
	svc := newTestService(t, &fakeComplaints{}, attendance)

	rec, err := svc.Punch(context.Background(), student, "10.0.0.5", "fp-101", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Anomaly {
		t.Errorf("stale punches outside the window must not trigger anomalies: %q", rec.AnomalyReason)
	}
}

func TestService_Punch_VerdictIsImmutableOnRecord(t *testing.T) {
	svc := newTestService(t, &fakeComplaints{}, &fakeAttendance{})

	rec, err := svc.Punch(context.Background(), student, "", "", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.Anomaly || rec.AnomalyReason != engine.ReasonIncompleteSignal {
		t.Errorf("missing identity verdict = (%v, %q), want conservative flag", rec.Anomaly, rec.AnomalyReason)
	}
}
