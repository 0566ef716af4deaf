package api

import "github.com/hostelsmart/portal/internal/domain"

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LoginRequest is the credential payload for POST /api/v1/auth/login.
type LoginRequest struct {
	ID       string `json:"id"       binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token and the authenticated identity.
type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// ComplaintRequest is the payload for submitting or previewing a complaint.
type ComplaintRequest struct {
	Description string `json:"description" binding:"required"`
}

// StatusUpdateRequest is the payload for PATCH /api/v1/complaints/:id/status.
type StatusUpdateRequest struct {
	Status domain.Status `json:"status" binding:"required"`
}

// PunchRequest is the payload for POST /api/v1/attendance.
type PunchRequest struct {
	NetworkAddress    string `json:"network_address"`
	DeviceFingerprint string `json:"device_fingerprint"`
}

// QueueResponse is the ranked complaint queue for a warden.
type QueueResponse struct {
	Block      string             `json:"block"`
	Complaints []domain.Complaint `json:"complaints"`
	Total      int                `json:"total"`
}

// AttendanceResponse lists attendance records within a jurisdiction.
type AttendanceResponse struct {
	Block   string                    `json:"block"`
	Records []domain.AttendanceRecord `json:"records"`
	Total   int                       `json:"total"`
}
