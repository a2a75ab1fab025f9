package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/dto"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/model"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/repository"
)

var (
	ErrSessionNotFound   = errors.New("class session not found")
	ErrSessionClosed     = errors.New("class session is not open for attendance")
	ErrSessionWindow     = errors.New("outside the session sign-in window")
	ErrSessionTimeOrder  = errors.New("session end time must be after start time")
	ErrAlreadyMarked     = errors.New("attendance already marked for this session")
	ErrNotSessionOwner   = errors.New("only the session's lecturer can do this")
	ErrRegisterNoRecords = errors.New("no attendance records for this session")
)

// AttendanceService owns class sessions and attendance records.
type AttendanceService interface {
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest, lecturerID string) (*dto.SessionResponse, error)
	CloseSession(ctx context.Context, sessionID, callerID string) error
	ListOpenSessions(ctx context.Context) ([]dto.SessionResponse, error)
	ListLecturerSessions(ctx context.Context, lecturerID string) ([]dto.SessionResponse, error)
	// MarkAttendance records one student's presence. Rejected when the
	// session is closed, outside its time window, or already marked.
	MarkAttendance(ctx context.Context, sessionID, studentID string) (*dto.AttendanceRecordResponse, error)
	ListSessionRecords(ctx context.Context, sessionID string) ([]dto.AttendanceRecordResponse, error)
	ListStudentRecords(ctx context.Context, studentID string) ([]dto.AttendanceRecordResponse, error)
	// ExportRegister renders a session's register as an Excel workbook.
	ExportRegister(ctx context.Context, sessionID string) (*bytes.Buffer, string, error)
	// StudentCalendar renders a student's attended sessions as an
	// iCalendar feed.
	StudentCalendar(ctx context.Context, studentID string) (string, error)
}

type attendanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAttendanceService creates an AttendanceService instance.
func NewAttendanceService(repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── CreateSession ──────────────────────

func (s *attendanceService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest, lecturerID string) (*dto.SessionResponse, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, ErrSessionTimeOrder
	}

	session := &model.ClassSession{
		LecturerID: lecturerID,
		UnitCode:   req.UnitCode,
		UnitName:   req.UnitName,
		Location:   req.Location,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		IsOpen:     true,
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.logger.Error("failed to create class session", zap.Error(err))
		return nil, err
	}

	return toSessionResponse(session), nil
}

// ────────────────────── CloseSession ──────────────────────

func (s *attendanceService) CloseSession(ctx context.Context, sessionID, callerID string) error {
	session, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	if session.LecturerID != callerID {
		return ErrNotSessionOwner
	}

	session.IsOpen = false
	if err := s.repo.Session.Update(ctx, session); err != nil {
		s.logger.Error("failed to close session", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── listings ──────────────────────

func (s *attendanceService) ListOpenSessions(ctx context.Context) ([]dto.SessionResponse, error) {
	sessions, err := s.repo.Session.ListOpen(ctx)
	if err != nil {
		s.logger.Error("failed to list open sessions", zap.Error(err))
		return nil, err
	}
	return toSessionResponses(sessions), nil
}

func (s *attendanceService) ListLecturerSessions(ctx context.Context, lecturerID string) ([]dto.SessionResponse, error) {
	sessions, err := s.repo.Session.ListByLecturer(ctx, lecturerID)
	if err != nil {
		s.logger.Error("failed to list lecturer sessions", zap.Error(err))
		return nil, err
	}
	return toSessionResponses(sessions), nil
}

// ────────────────────── MarkAttendance ──────────────────────

func (s *attendanceService) MarkAttendance(ctx context.Context, sessionID, studentID string) (*dto.AttendanceRecordResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if !session.IsOpen {
		return nil, ErrSessionClosed
	}
	now := s.now()
	if now.Before(session.StartsAt) || now.After(session.EndsAt) {
		return nil, ErrSessionWindow
	}

	if _, err := s.repo.Attendance.GetBySessionAndStudent(ctx, sessionID, studentID); err == nil {
		return nil, ErrAlreadyMarked
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record := &model.AttendanceRecord{
		SessionID: sessionID,
		StudentID: studentID,
		MarkedAt:  now,
		Status:    "present",
	}

	if err := s.repo.Attendance.Create(ctx, record); err != nil {
		s.logger.Error("failed to mark attendance",
			zap.String("session_id", sessionID),
			zap.String("student_id", studentID),
			zap.Error(err),
		)
		return nil, err
	}

	return toAttendanceResponse(record), nil
}

// ────────────────────── record listings ──────────────────────

func (s *attendanceService) ListSessionRecords(ctx context.Context, sessionID string) ([]dto.AttendanceRecordResponse, error) {
	if _, err := s.repo.Session.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	records, err := s.repo.Attendance.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("failed to list session records", zap.Error(err))
		return nil, err
	}
	return toAttendanceResponses(records), nil
}

func (s *attendanceService) ListStudentRecords(ctx context.Context, studentID string) ([]dto.AttendanceRecordResponse, error) {
	records, err := s.repo.Attendance.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("failed to list student records", zap.Error(err))
		return nil, err
	}
	return toAttendanceResponses(records), nil
}

// ────────────────────── ExportRegister ──────────────────────

// ExportRegister writes one session's register as an .xlsx workbook:
// header row, then one row per marked student in sign-in order.
func (s *attendanceService) ExportRegister(ctx context.Context, sessionID string) (*bytes.Buffer, string, error) {
	session, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrSessionNotFound
		}
		return nil, "", err
	}

	records, err := s.repo.Attendance.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("failed to load register records", zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrRegisterNoRecords
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Register"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Admission No", "First Name", "Last Name", "Marked At", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, rec := range records {
		rowNum := i + 2
		admission, first, last := "", "", ""
		if rec.Student != nil {
			admission = rec.Student.AdmissionNumber
			first = rec.Student.FirstName
			last = rec.Student.LastName
		}
		values := []interface{}{
			admission,
			first,
			last,
			rec.MarkedAt.Format("2006-01-02 15:04"),
			rec.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("failed to generate register workbook", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("register_%s_%s.xlsx", session.UnitCode, session.StartsAt.Format("20060102"))
	return buf, filename, nil
}

// ────────────────────── StudentCalendar ──────────────────────

// StudentCalendar serializes the student's attended sessions as an
// iCalendar document for import into calendar apps.
func (s *attendanceService) StudentCalendar(ctx context.Context, studentID string) (string, error) {
	records, err := s.repo.Attendance.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("failed to load records for calendar", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ZETECH SmartAttend//EN")

	for _, rec := range records {
		if rec.Session == nil {
			continue
		}
		event := cal.AddEvent(rec.RecordID)
		event.SetStartAt(rec.Session.StartsAt)
		event.SetEndAt(rec.Session.EndsAt)
		event.SetSummary(fmt.Sprintf("%s %s", rec.Session.UnitCode, rec.Session.UnitName))
		if rec.Session.Location != "" {
			event.SetLocation(rec.Session.Location)
		}
		event.SetDtStampTime(rec.MarkedAt)
	}

	return cal.Serialize(), nil
}

// ── converters ──

func toSessionResponse(session *model.ClassSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		SessionID:  session.SessionID,
		LecturerID: session.LecturerID,
		UnitCode:   session.UnitCode,
		UnitName:   session.UnitName,
		Location:   session.Location,
		StartsAt:   session.StartsAt,
		EndsAt:     session.EndsAt,
		IsOpen:     session.IsOpen,
	}
	if session.Lecturer != nil {
		resp.LecturerName = session.Lecturer.FirstName + " " + session.Lecturer.LastName
	}
	return resp
}

func toSessionResponses(sessions []model.ClassSession) []dto.SessionResponse {
	result := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		result = append(result, *toSessionResponse(&sessions[i]))
	}
	return result
}

func toAttendanceResponse(record *model.AttendanceRecord) *dto.AttendanceRecordResponse {
	resp := &dto.AttendanceRecordResponse{
		RecordID:  record.RecordID,
		SessionID: record.SessionID,
		StudentID: record.StudentID,
		MarkedAt:  record.MarkedAt,
		Status:    record.Status,
	}
	if record.Student != nil {
		resp.StudentName = record.Student.FirstName + " " + record.Student.LastName
		resp.AdmissionNumber = record.Student.AdmissionNumber
	}
	return resp
}

func toAttendanceResponses(records []model.AttendanceRecord) []dto.AttendanceRecordResponse {
	result := make([]dto.AttendanceRecordResponse, 0, len(records))
	for i := range records {
		result = append(result, *toAttendanceResponse(&records[i]))
	}
	return result
}
