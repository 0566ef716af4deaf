package domain

import "time"

// AttendanceRecord is a single network-verified attendance punch.
// Records are created once with the anomaly verdict baked in and never
// mutated afterwards.
type AttendanceRecord struct {
	ID                string    `db:"id"                 json:"id"`
	StudentID         string    `db:"student_id"         json:"student_id"`
	StudentName       string    `db:"student_name"       json:"student_name"`
	RoomNumber        string    `db:"room_number"        json:"room_number"`
	Timestamp         time.Time `db:"punched_at"         json:"timestamp"`
	NetworkAddress    string    `db:"network_address"    json:"network_address"`
	DeviceFingerprint string    `db:"device_fingerprint" json:"device_fingerprint"`
	OnHostelNetwork   bool      `db:"on_hostel_network"  json:"on_hostel_network"`
	Anomaly           bool      `db:"anomaly"            json:"anomaly"`
	AnomalyReason     string    `db:"anomaly_reason"     json:"anomaly_reason,omitempty"`
}
