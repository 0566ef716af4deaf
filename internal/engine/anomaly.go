package engine

import (
	"github.com/hostelsmart/portal/internal/domain"
)

// Anomaly reasons. Rule order matters: the shared-fingerprint reason is
// the more actionable signal for wardens and wins when both rules fire.
const (
	ReasonSharedFingerprint = "proxy detected via shared network fingerprint"
	ReasonOffNetwork        = "punch originated outside the recognized hostel network"
	ReasonIncompleteSignal  = "missing network identity; flagged for manual review"
)

// sharedFingerprintThreshold is the minimum number of distinct *other*
// submitters sharing the candidate's network address before the proxy
// rule fires. One prior user on a shared router is legitimate; two or
// more is coordination.
const sharedFingerprintThreshold = 2

// PunchCandidate is an attendance punch under evaluation.
type PunchCandidate struct {
	StudentID         string
	NetworkAddress    string
	DeviceFingerprint string
	OnHostelNetwork   bool
}

// Verdict is the anomaly decision for a punch.
type Verdict struct {
	Anomaly bool
	Reason  string
}

// DetectAnomaly evaluates a candidate punch against the recent window of
// attendance records for all submitters. It is a pure function: the
// caller bounds the window and persists the verdict.
//
// Rules, first match wins:
//  1. Missing network or device identity is treated conservatively as
//     anomalous pending manual review.
//  2. Shared fingerprint: two or more other submitters punched from the
//     same network address within the window.
//  3. Network membership: the punch did not originate on the recognized
//     hostel network.
func DetectAnomaly(candidate PunchCandidate, window []domain.AttendanceRecord) Verdict {
	if candidate.NetworkAddress == "" || candidate.DeviceFingerprint == "" {
		return Verdict{Anomaly: true, Reason: ReasonIncompleteSignal}
	}

	others := make(map[string]bool)
	for _, rec := range window {
		if rec.StudentID == candidate.StudentID {
			continue
		}
		if rec.NetworkAddress == candidate.NetworkAddress {
			others[rec.StudentID] = true
		}
	}
	if len(others) >= sharedFingerprintThreshold {
		return Verdict{Anomaly: true, Reason: ReasonSharedFingerprint}
	}

	if !candidate.OnHostelNetwork {
		return Verdict{Anomaly: true, Reason: ReasonOffNetwork}
	}

	return Verdict{}
}
