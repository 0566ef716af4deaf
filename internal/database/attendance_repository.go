package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hostelsmart/portal/internal/domain"
)

// AttendanceRepository handles database operations for attendance punches.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new attendance repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = `
	id, student_id, student_name, room_number, punched_at,
	network_address, device_fingerprint, on_hostel_network,
	anomaly, anomaly_reason
`

// Save inserts an attendance record. Records are append-only: the
// anomaly verdict computed at punch time is never revised.
func (r *AttendanceRepository) Save(ctx context.Context, rec *domain.AttendanceRecord) error {
	query := r.db.Rebind(`
		INSERT INTO attendance (` + attendanceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.StudentID, rec.StudentName, rec.RoomNumber, rec.Timestamp,
		rec.NetworkAddress, rec.DeviceFingerprint, rec.OnHostelNetwork,
		rec.Anomaly, rec.AnomalyReason,
	)
	if err != nil {
		return fmt.Errorf("failed to save attendance record: %w", err)
	}

	return nil
}

// ListSince retrieves punches at or after the given instant, newest first.
func (r *AttendanceRepository) ListSince(ctx context.Context, since time.Time) ([]domain.AttendanceRecord, error) {
	query := r.db.Rebind(`
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE punched_at >= ?
		ORDER BY punched_at DESC
	`)

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []domain.AttendanceRecord
	for rows.Next() {
		var rec domain.AttendanceRecord
		if scanErr := rows.Scan(
			&rec.ID, &rec.StudentID, &rec.StudentName, &rec.RoomNumber, &rec.Timestamp,
			&rec.NetworkAddress, &rec.DeviceFingerprint, &rec.OnHostelNetwork,
			&rec.Anomaly, &rec.AnomalyReason,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", scanErr)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}
