package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/dto"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/service"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AttendanceHandler class session and attendance HTTP handlers.
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler creates an AttendanceHandler.
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// CreateSession opens an attendance window for the calling lecturer.
// POST /api/v1/sessions
func (h *AttendanceHandler) CreateSession(c *gin.Context) {
	lecturerID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	session, err := h.attendanceSvc.CreateSession(c.Request.Context(), &req, lecturerID)
	if err != nil {
		if errors.Is(err, service.ErrSessionTimeOrder) {
			response.BadRequest(c, 14001, "session end time must be after start time")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, session)
}

// CloseSession closes a session early.
// PUT /api/v1/sessions/:id/close
func (h *AttendanceHandler) CloseSession(c *gin.Context) {
	callerID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	err := h.attendanceSvc.CloseSession(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, 14002, "class session not found")
		case errors.Is(err, service.ErrNotSessionOwner):
			response.Forbidden(c, 14003, "only the session's lecturer can close it")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// ListOpenSessions lists sessions currently accepting marks.
// GET /api/v1/sessions/open
func (h *AttendanceHandler) ListOpenSessions(c *gin.Context) {
	sessions, err := h.attendanceSvc.ListOpenSessions(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, sessions)
}

// ListMySessions lists the calling lecturer's sessions.
// GET /api/v1/sessions/mine
func (h *AttendanceHandler) ListMySessions(c *gin.Context) {
	lecturerID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	sessions, err := h.attendanceSvc.ListLecturerSessions(c.Request.Context(), lecturerID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, sessions)
}

// MarkAttendance records the calling student's presence.
// POST /api/v1/sessions/:id/attendance
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	studentID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.MarkAttendance(c.Request.Context(), c.Param("id"), studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, 14002, "class session not found")
		case errors.Is(err, service.ErrSessionClosed):
			response.Conflict(c, 14004, "class session is not open for attendance")
		case errors.Is(err, service.ErrSessionWindow):
			response.Conflict(c, 14005, "outside the session sign-in window")
		case errors.Is(err, service.ErrAlreadyMarked):
			response.Conflict(c, 14006, "attendance already marked for this session")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, record)
}

// ListSessionRecords lists a session's register.
// GET /api/v1/sessions/:id/attendance
func (h *AttendanceHandler) ListSessionRecords(c *gin.Context) {
	records, err := h.attendanceSvc.ListSessionRecords(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.NotFound(c, 14002, "class session not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, records)
}

// ListMyRecords lists the calling student's attendance history.
// GET /api/v1/attendance/mine
func (h *AttendanceHandler) ListMyRecords(c *gin.Context) {
	studentID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	records, err := h.attendanceSvc.ListStudentRecords(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, records)
}

// ExportRegister downloads a session's register as an Excel workbook.
// GET /api/v1/sessions/:id/register
func (h *AttendanceHandler) ExportRegister(c *gin.Context) {
	buf, filename, err := h.attendanceSvc.ExportRegister(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, 14002, "class session not found")
		case errors.Is(err, service.ErrRegisterNoRecords):
			response.NotFound(c, 14007, "no attendance records for this session")
		default:
			response.InternalError(c)
		}
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// MyCalendar downloads the calling student's attended sessions as an
// iCalendar feed.
// GET /api/v1/attendance/calendar
func (h *AttendanceHandler) MyCalendar(c *gin.Context) {
	studentID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	feed, err := h.attendanceSvc.StudentCalendar(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=attendance.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
