package domain

import (
	"strings"
	"time"
)

// Role distinguishes students from wardens.
type Role string

// User roles. Wardens carry the admin role.
const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// User is a registered portal user. The core never mutates users.
type User struct {
	ID           string    `db:"id"            json:"id"`
	Name         string    `db:"name"          json:"name"`
	Role         Role      `db:"role"          json:"role"`
	HostelBlock  string    `db:"hostel_block"  json:"hostel_block"`
	RoomNumber   string    `db:"room_number"   json:"room_number"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}

// BlockRoot returns the jurisdiction root of a hostel block identifier:
// the segment before the first hyphen. "Aryabhatta-Central" and
// "Aryabhatta-A" share the root "Aryabhatta".
func BlockRoot(block string) string {
	if idx := strings.IndexByte(block, '-'); idx >= 0 {
		return block[:idx]
	}
	return block
}
