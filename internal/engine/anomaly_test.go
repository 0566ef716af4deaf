package engine

import (
	"testing"
	"time"

	"github.com/hostelsmart/portal/internal/domain"
)

func punch(studentID, addr string) domain.AttendanceRecord {
	return domain.AttendanceRecord{
		ID:                "att-" + studentID,
		StudentID:         studentID,
		NetworkAddress:    addr,
		DeviceFingerprint: "fp-" + studentID,
		OnHostelNetwork:   true,
		Timestamp:         time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
	}
}

func TestDetectAnomaly_SharedFingerprint(t *testing.T) {
	window := []domain.AttendanceRecord{
		punch("STU101", "10.0.0.5"),
		punch("STU102", "10.0.0.5"),
		punch("STU103", "10.0.0.9"),
	}

	candidate := PunchCandidate{
		StudentID:         "STU104",
		NetworkAddress:    "10.0.0.5",
		DeviceFingerprint: "fp-104",
		OnHostelNetwork:   true,
	}

	verdict := DetectAnomaly(candidate, window)
	if !verdict.Anomaly {
		t.Fatal("expected anomaly for shared network address")
	}
	if verdict.Reason != ReasonSharedFingerprint {
		t.Errorf("reason = %q, want %q", verdict.Reason, ReasonSharedFingerprint)
	}
}

func TestDetectAnomaly_SingleSharerIsLegitimate(t *testing.T) {
	// One other submitter on the same router is normal density, not
	// coordination.
	window := []domain.AttendanceRecord{
		punch("STU101", "10.0.0.5"),
	}

	candidate := PunchCandidate{
		StudentID:         "STU102",
		NetworkAddress:    "10.0.0.5",
		DeviceFingerprint: "fp-102",
		OnHostelNetwork:   true,
	}

	if verdict := DetectAnomaly(candidate, window); verdict.Anomaly {
		t.Errorf("unexpected anomaly: %q", verdict.Reason)
	}
}

func TestDetectAnomaly_OwnRecordsDoNotCount(t *testing.T) {
	// Repeated punches from the candidate themselves must not trip the
	// shared-fingerprint rule.
	window := []domain.AttendanceRecord{
		punch("STU101", "10.0.0.5"),
		punch("STU101", "10.0.0.5"),
		punch("STU101", "10.0.0.5"),
	}

	candidate := PunchCandidate{
		StudentID:         "STU101",
		NetworkAddress:    "10.0.0.5",
		DeviceFingerprint: "fp-101",
		OnHostelNetwork:   true,
	}

	if verdict := DetectAnomaly(candidate, window); verdict.Anomaly {
		t.Errorf("unexpected anomaly: %q", verdict.Reason)
	}
}

func TestDetectAnomaly_OffNetwork(t *testing.T) {
	candidate := PunchCandidate{
		StudentID:         "STU101",
		NetworkAddress:    "203.0.113.50",
		DeviceFingerprint: "fp-101",
		OnHostelNetwork:   false,
	}

	verdict := DetectAnomaly(candidate, nil)
	if !verdict.Anomaly {
		t.Fatal("expected anomaly for off-network punch")
	}
	if verdict.Reason != ReasonOffNetwork {
		t.Errorf("reason = %q, want %q", verdict.Reason, ReasonOffNetwork)
	}
}

func TestDetectAnomaly_SharedFingerprintWinsOverOffNetwork(t *testing.T) {
	// Both rules fire; the proxy reason is the more actionable one and
	// must be reported.
	window := []domain.AttendanceRecord{
		punch("STU101", "10.0.0.5"),
		punch("STU102", "10.0.0.5"),
	}

	candidate := PunchCandidate{
		StudentID:         "STU103",
		NetworkAddress:    "10.0.0.5",
		DeviceFingerprint: "fp-103",
		OnHostelNetwork:   false,
	}

	verdict := DetectAnomaly(candidate, window)
	if verdict.Reason != ReasonSharedFingerprint {
		t.Errorf("reason = %q, want %q", verdict.Reason, ReasonSharedFingerprint)
	}
}

func TestDetectAnomaly_MissingIdentityIsConservative(t *testing.T) {
	testCases := []struct {
		name      string
		candidate PunchCandidate
	}{
		{
			name: "missing network address",
			candidate: PunchCandidate{
				StudentID:         "STU101",
				DeviceFingerprint: "fp-101",
				OnHostelNetwork:   true,
			},
		},
		{
			name: "missing device fingerprint",
			candidate: PunchCandidate{
				StudentID:       "STU101",
				NetworkAddress:  "10.0.0.5",
				OnHostelNetwork: true,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			verdict := DetectAnomaly(tc.candidate, nil)
			if !verdict.Anomaly {
				t.Fatal("incomplete identity must flag as anomalous")
			}
			if verdict.Reason != ReasonIncompleteSignal {
				t.Errorf("reason = %q, want %q", verdict.Reason, ReasonIncompleteSignal)
			}
		})
	}
}

func TestDetectAnomaly_Verified(t *testing.T) {
	window := []domain.AttendanceRecord{
		punch("STU102", "10.0.0.7"),
	}

	candidate := PunchCandidate{
		StudentID:         "STU101",
		NetworkAddress:    "10.0.0.8",
		DeviceFingerprint: "fp-101",
		OnHostelNetwork:   true,
	}

	verdict := DetectAnomaly(candidate, window)
	if verdict.Anomaly {
		t.Errorf("expected verified punch, got anomaly %q", verdict.Reason)
	}
	if verdict.Reason != "" {
		t.Errorf("verified punch must carry no reason, got %q", verdict.Reason)
	}
}
