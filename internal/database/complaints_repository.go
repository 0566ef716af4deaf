package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hostelsmart/portal/internal/domain"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ComplaintsRepository handles database operations for complaints.
type ComplaintsRepository struct {
	db *sqlx.DB
}

// NewComplaintsRepository creates a new complaints repository.
func NewComplaintsRepository(db *sqlx.DB) *ComplaintsRepository {
	return &ComplaintsRepository{db: db}
}

const complaintColumns = `
	id, student_id, student_name, room_number, hostel_block, category,
	description, location, created_at, status, priority_score, explanation,
	severity, frequency, urgency, time_factor, affected_count
`

// Save upserts a complaint by id. Scoring fields are written alongside
// the complaint so the breakdown shown to wardens is the one computed
// at submission time.
func (r *ComplaintsRepository) Save(ctx context.Context, c *domain.Complaint) error {
	query := r.db.Rebind(`
		INSERT INTO complaints (` + complaintColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			priority_score = excluded.priority_score,
			explanation = excluded.explanation,
			severity = excluded.severity,
			frequency = excluded.frequency,
			urgency = excluded.urgency,
			time_factor = excluded.time_factor,
			affected_count = excluded.affected_count
	`)

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.StudentID, c.StudentName, c.RoomNumber, c.HostelBlock,
		c.Category, c.Description, c.Location, c.CreatedAt, c.Status,
		c.PriorityScore, c.Explanation,
		c.Pillars.Severity, c.Pillars.Frequency, c.Pillars.Urgency,
		c.Pillars.TimeFactor, c.AffectedCount,
	)
	if err != nil {
		return fmt.Errorf("failed to save complaint: %w", err)
	}

	return nil
}

// List retrieves all complaints, newest first.
func (r *ComplaintsRepository) List(ctx context.Context) ([]domain.Complaint, error) {
	query := `
		SELECT ` + complaintColumns + `
		FROM complaints
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	defer rows.Close()

	var complaints []domain.Complaint
	for rows.Next() {
		var c domain.Complaint
		if scanErr := rows.Scan(
			&c.ID, &c.StudentID, &c.StudentName, &c.RoomNumber, &c.HostelBlock,
			&c.Category, &c.Description, &c.Location, &c.CreatedAt, &c.Status,
			&c.PriorityScore, &c.Explanation,
			&c.Pillars.Severity, &c.Pillars.Frequency, &c.Pillars.Urgency,
			&c.Pillars.TimeFactor, &c.AffectedCount,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", scanErr)
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate complaints: %w", err)
	}

	return complaints, nil
}

// GetByID retrieves a single complaint.
func (r *ComplaintsRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := r.db.Rebind(`
		SELECT ` + complaintColumns + `
		FROM complaints
		WHERE id = ?
	`)

	var c domain.Complaint
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.StudentID, &c.StudentName, &c.RoomNumber, &c.HostelBlock,
		&c.Category, &c.Description, &c.Location, &c.CreatedAt, &c.Status,
		&c.PriorityScore, &c.Explanation,
		&c.Pillars.Severity, &c.Pillars.Frequency, &c.Pillars.Urgency,
		&c.Pillars.TimeFactor, &c.AffectedCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("complaint %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get complaint %s: %w", id, err)
	}

	return &c, nil
}

// UpdateStatus persists a status change.
func (r *ComplaintsRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	query := r.db.Rebind(`UPDATE complaints SET status = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update complaint status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("complaint %s: %w", id, ErrNotFound)
	}

	return nil
}
