package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hostelsmart/portal/internal/auth"
	"github.com/hostelsmart/portal/internal/database"
	"github.com/hostelsmart/portal/internal/domain"
	"github.com/hostelsmart/portal/internal/engine"
	"github.com/hostelsmart/portal/internal/logger"
	"github.com/hostelsmart/portal/internal/portal"
	"github.com/hostelsmart/portal/internal/telemetry"
	"github.com/hostelsmart/portal/internal/triage"
)

// AuthService verifies credentials and issues session tokens.
type AuthService interface {
	Login(ctx context.Context, id, password string) (string, *domain.User, error)
}

// PortalService runs the submission, preview, and punch flows.
type PortalService interface {
	Preview(ctx context.Context, user domain.User, text string) (*portal.PreviewResult, error)
	Submit(ctx context.Context, user domain.User, text string) (*domain.Complaint, error)
	Punch(ctx context.Context, user domain.User, networkAddress, deviceFingerprint string, onHostelNetwork bool) (*domain.AttendanceRecord, error)
}

// ComplaintsStore is the read and status-update surface for the queue.
type ComplaintsStore interface {
	List(ctx context.Context) ([]domain.Complaint, error)
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}

// AttendanceStore lists punches for the warden view.
type AttendanceStore interface {
	ListSince(ctx context.Context, since time.Time) ([]domain.AttendanceRecord, error)
}

// UsersStore resolves punch submitters for jurisdiction scoping.
type UsersStore interface {
	ListByIDs(ctx context.Context, ids []string) (map[string]domain.User, error)
}

// Handler handles HTTP requests for the portal API
type Handler struct {
	authSvc      AuthService
	portal       PortalService
	complaints   ComplaintsStore
	attendance   AttendanceStore
	users        UsersStore
	queue        *triage.Queue
	metrics      *telemetry.Metrics
	punchLimiter *punchLimiter
	networks     []*net.IPNet
	logger       logger.Logger
}

// HandlerConfig bundles handler collaborators and tunables.
type HandlerConfig struct {
	Auth       AuthService
	Portal     PortalService
	Complaints ComplaintsStore
	Attendance AttendanceStore
	Users      UsersStore
	Metrics    *telemetry.Metrics
	// RecognizedNetworks are CIDRs the hostel wifi hands out.
	RecognizedNetworks []string
	PunchRPS           float64
	PunchBurst         int
}

// NewHandler creates a new API handler.
func NewHandler(cfg HandlerConfig, log logger.Logger) (*Handler, error) {
	networks := make([]*net.IPNet, 0, len(cfg.RecognizedNetworks))
	for _, cidr := range cfg.RecognizedNetworks {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, err
		}
		networks = append(networks, ipNet)
	}

	return &Handler{
		authSvc:      cfg.Auth,
		portal:       cfg.Portal,
		complaints:   cfg.Complaints,
		attendance:   cfg.Attendance,
		users:        cfg.Users,
		queue:        triage.NewQueue(),
		metrics:      cfg.Metrics,
		punchLimiter: newPunchLimiter(cfg.PunchRPS, cfg.PunchBurst),
		networks:     networks,
		logger:       log,
	}, nil
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	token, user, err := h.authSvc.Login(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
			return
		}
		c.Error(err) //nolint:errcheck // collected by the logger middleware
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "login failed"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: *user})
}

// SubmitComplaint handles POST /api/v1/complaints
func (h *Handler) SubmitComplaint(c *gin.Context) {
	claims, ok := GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing claims"})
		return
	}

	var req ComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	complaint, err := h.portal.Submit(c.Request.Context(), claims.User(), req.Description)
	if err != nil {
		h.writeAnalysisError(c, err)
		return
	}

	h.metrics.ComplaintsSubmitted.WithLabelValues(string(complaint.Category), string(complaint.Status)).Inc()
	h.metrics.PriorityScore.Observe(complaint.PriorityScore)
	if complaint.Status == domain.StatusEscalated {
		h.metrics.ComplaintsEscalated.Inc()
	}

	c.JSON(http.StatusCreated, complaint)
}

// PreviewComplaint handles POST /api/v1/complaints/preview
func (h *Handler) PreviewComplaint(c *gin.Context) {
	claims, ok := GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing claims"})
		return
	}

	var req ComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.portal.Preview(c.Request.Context(), claims.User(), req.Description)
	if err != nil {
		h.writeAnalysisError(c, err)
		return
	}

	h.metrics.PreviewsServed.Inc()
	if !result.Applied {
		h.metrics.PreviewsStale.Inc()
	}

	c.JSON(http.StatusOK, result)
}

// ListComplaints handles GET /api/v1/complaints.
// Wardens get the ranked queue for their jurisdiction; students get
// their own complaints.
func (h *Handler) ListComplaints(c *gin.Context) {
	claims, ok := GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing claims"})
		return
	}

	all, err := h.complaints.List(c.Request.Context())
	if err != nil {
		c.Error(err) //nolint:errcheck // collected by the logger middleware
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load complaints"})
		return
	}

	if claims.Role != domain.RoleAdmin {
		own := make([]domain.Complaint, 0)
		for _, complaint := range all {
			if complaint.StudentID == claims.Sub {
				own = append(own, complaint)
			}
		}
		c.JSON(http.StatusOK, QueueResponse{
			Block:      claims.Block,
			Complaints: own,
			Total:      len(own),
		})
		return
	}

	if err := h.queue.Authorize(claims.Block, c.Query("block")); err != nil {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
		return
	}

	ranked := h.queue.ForWarden(all, claims.Block)
	c.JSON(http.StatusOK, QueueResponse{
		Block:      domain.BlockRoot(claims.Block),
		Complaints: ranked,
		Total:      len(ranked),
	})
}

// UpdateComplaintStatus handles PATCH /api/v1/complaints/:id/status
func (h *Handler) UpdateComplaintStatus(c *gin.Context) {
	claims, ok := GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing claims"})
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	id := c.Param("id")
	complaint, err := h.complaints.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "complaint not found"})
			return
		}
		c.Error(err) //nolint:errcheck // collected by the logger middleware
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load complaint"})
		return
	}

	if domain.BlockRoot(complaint.HostelBlock) != domain.BlockRoot(claims.Block) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: triage.ErrJurisdictionViolation.Error()})
		return
	}

	if !complaint.Status.CanTransition(req.Status) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "invalid status transition"})
		return
	}

	if err := h.complaints.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		c.Error(err) //nolint:errcheck // collected by the logger middleware
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update status"})
		return
	}

	complaint.Status = req.Status
	c.JSON(http.StatusOK, complaint)
}

// Punch handles POST /api/v1/attendance
func (h *Handler) Punch(c *gin.Context) {
	claims, ok := GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing claims"})
		return
	}

	var req PunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	address := req.NetworkAddress
	if address == "" {
		address = c.ClientIP()
	}

	record, err := h.portal.Punch(
		c.Request.Context(), claims.User(),
		address, req.DeviceFingerprint, h.onHostelNetwork(address),
	)
	if err != nil {
		c.Error(err) //nolint:errcheck // collected by the logger middleware
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to record punch"})
		return
	}

	h.metrics.PunchesRecorded.Inc()
	if record.Anomaly {
		h.metrics.PunchesAnomalous.WithLabelValues(record.AnomalyReason).Inc()
	}

	c.JSON(http.StatusCreated, record)
}

// ListAttendance handles GET /api/v1/attendance
func (h *Handler) ListAttendance(c *gin.Context) {
	claims, ok := GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing claims"})
		return
	}

	records, err := h.attendance.ListSince(c.Request.Context(), time.Time{})
	if err != nil {
		c.Error(err) //nolint:errcheck // collected by the logger middleware
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load attendance"})
		return
	}

	ids := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if !seen[rec.StudentID] {
			seen[rec.StudentID] = true
			ids = append(ids, rec.StudentID)
		}
	}

	usersByID, err := h.users.ListByIDs(c.Request.Context(), ids)
	if err != nil {
		c.Error(err) //nolint:errcheck // collected by the logger middleware
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to resolve submitters"})
		return
	}

	scoped := h.queue.AttendanceForWarden(records, usersByID, claims.Block)
	c.JSON(http.StatusOK, AttendanceResponse{
		Block:   domain.BlockRoot(claims.Block),
		Records: scoped,
		Total:   len(scoped),
	})
}

// writeAnalysisError maps engine and analysis failures to HTTP status codes.
func (h *Handler) writeAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrDescriptionTooShort):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, portal.ErrAnalysisUnavailable):
		h.metrics.AnalysisFailed.Inc()
		c.Error(err) //nolint:errcheck // collected by the logger middleware
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "analysis unavailable, please retry"})
	default:
		c.Error(err) //nolint:errcheck // collected by the logger middleware
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// onHostelNetwork reports whether the address belongs to a recognized
// hostel network range.
func (h *Handler) onHostelNetwork(address string) bool {
	ip := net.ParseIP(address)
	if ip == nil {
		return false
	}
	for _, network := range h.networks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
