package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/dto"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/model"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/repository"
)

func setupTestProfileService() (ProfileService, *mockProfileRepo) {
	profileRepo := newMockProfileRepo()
	repo := &repository.Repository{
		Profile:    profileRepo,
		Identity:   newMockIdentityRepo(),
		Session:    newMockSessionRepo(),
		Attendance: newMockAttendanceRepo(),
	}
	return NewProfileService(repo, zap.NewNop()), profileRepo
}

// buildRosterFile renders rows into an in-memory xlsx workbook.
func buildRosterFile(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("failed to build test workbook: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialize test workbook: %v", err)
	}
	return buf
}

// ── Create ──

func TestCreateProfile_Student(t *testing.T) {
	svc, _ := setupTestProfileService()

	profile, err := svc.Create(context.Background(), &dto.CreateProfileRequest{
		AdmissionNumber: "SCT221-0001",
		Role:            "student",
		FirstName:       "Alice",
		LastName:        "Wanjiku",
	})
	if err != nil {
		t.Fatalf("Create must succeed: %v", err)
	}
	if profile.UserID != "" {
		t.Error("new profiles start unlinked")
	}
	if profile.ForcePasswordChange {
		t.Error("new profiles start without the gate flag")
	}
}

func TestCreateProfile_StudentWithoutAdmissionNumber(t *testing.T) {
	svc, _ := setupTestProfileService()

	// such a profile exists in the store and is skipped at provisioning
	_, err := svc.Create(context.Background(), &dto.CreateProfileRequest{
		Role:      "student",
		FirstName: "No",
		LastName:  "Admission",
	})
	if err != nil {
		t.Fatalf("a student without an admission number is still a valid profile: %v", err)
	}
}

func TestCreateProfile_DuplicateAdmissionNumber(t *testing.T) {
	svc, _ := setupTestProfileService()

	req := &dto.CreateProfileRequest{
		AdmissionNumber: "SCT221-0001",
		Role:            "student",
		FirstName:       "Alice",
		LastName:        "Wanjiku",
	}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("first create must succeed: %v", err)
	}
	if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrAdmissionNumberExists) {
		t.Errorf("expected ErrAdmissionNumberExists, got: %v", err)
	}
}

// ── List ──

func TestListProfiles_UnlinkedFilter(t *testing.T) {
	svc, profileRepo := setupTestProfileService()

	linkedID := "identity-1"
	_ = profileRepo.Create(context.Background(), &model.Profile{
		Role: model.RoleStudent, AdmissionNumber: "A1", UserID: &linkedID,
	})
	_ = profileRepo.Create(context.Background(), &model.Profile{
		Role: model.RoleStudent, AdmissionNumber: "A2",
	})

	result, total, err := svc.List(context.Background(), &dto.ProfileListRequest{Unlinked: true})
	if err != nil {
		t.Fatalf("List must succeed: %v", err)
	}
	if total != 1 || len(result) != 1 {
		t.Fatalf("expected exactly the unlinked profile, got total=%d len=%d", total, len(result))
	}
	if result[0].AdmissionNumber != "A2" {
		t.Errorf("wrong profile returned: %+v", result[0])
	}
}

// ── Update ──

func TestUpdateProfile_PartialFields(t *testing.T) {
	svc, profileRepo := setupTestProfileService()

	p := &model.Profile{Role: model.RoleLecturer, Email: "old@zetech.ac.ke", FirstName: "Old"}
	_ = profileRepo.Create(context.Background(), p)

	newEmail := "new@zetech.ac.ke"
	updated, err := svc.Update(context.Background(), p.ID, &dto.UpdateProfileRequest{Email: &newEmail})
	if err != nil {
		t.Fatalf("Update must succeed: %v", err)
	}
	if updated.Email != "new@zetech.ac.ke" {
		t.Errorf("email not updated: %s", updated.Email)
	}
	if updated.FirstName != "Old" {
		t.Errorf("unset fields must stay untouched, got %s", updated.FirstName)
	}
}

func TestUpdateProfile_NotFound(t *testing.T) {
	svc, _ := setupTestProfileService()

	name := "X"
	_, err := svc.Update(context.Background(), "missing", &dto.UpdateProfileRequest{FirstName: &name})
	if !errors.Is(err, ErrProfileRecordNotFound) {
		t.Errorf("expected ErrProfileRecordNotFound, got: %v", err)
	}
}

// ── ParseRosterFile ──

func TestParseRosterFile(t *testing.T) {
	svc, _ := setupTestProfileService()

	buf := buildRosterFile(t, [][]interface{}{
		{"first_name", "last_name", "admission_number", "email", "role"},
		{"Alice", "Wanjiku", "SCT221-0001", "", "student"},
		{"John", "Omondi", "", "jomondi@zetech.ac.ke", "lecturer"},
	})

	rows, err := svc.ParseRosterFile(buf)
	if err != nil {
		t.Fatalf("ParseRosterFile must succeed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].AdmissionNumber != "SCT221-0001" || rows[0].Role != "student" {
		t.Errorf("row 1 parsed wrong: %+v", rows[0])
	}
	if rows[1].Email != "jomondi@zetech.ac.ke" || rows[1].Role != "lecturer" {
		t.Errorf("row 2 parsed wrong: %+v", rows[1])
	}
}

func TestParseRosterFile_MissingHeader(t *testing.T) {
	svc, _ := setupTestProfileService()

	buf := buildRosterFile(t, [][]interface{}{
		{"first_name", "last_name"}, // role column missing
		{"Alice", "Wanjiku"},
	})

	_, err := svc.ParseRosterFile(buf)
	if !errors.Is(err, ErrRosterBadHeader) {
		t.Errorf("expected ErrRosterBadHeader, got: %v", err)
	}
}

func TestParseRosterFile_HeaderOnly(t *testing.T) {
	svc, _ := setupTestProfileService()

	buf := buildRosterFile(t, [][]interface{}{
		{"first_name", "last_name", "role"},
	})

	_, err := svc.ParseRosterFile(buf)
	if !errors.Is(err, ErrRosterNoData) {
		t.Errorf("expected ErrRosterNoData, got: %v", err)
	}
}

// ── ImportRoster ──

func TestImportRoster_RowFailuresIsolated(t *testing.T) {
	svc, profileRepo := setupTestProfileService()

	// pre-existing admission number collides with the second row
	_ = profileRepo.Create(context.Background(), &model.Profile{
		Role: model.RoleStudent, AdmissionNumber: "SCT221-0002",
	})

	result, err := svc.ImportRoster(context.Background(), []RosterRow{
		{Row: 2, FirstName: "Alice", LastName: "Wanjiku", AdmissionNumber: "SCT221-0001", Role: "student"},
		{Row: 3, FirstName: "Dup", LastName: "Licate", AdmissionNumber: "SCT221-0002", Role: "student"},
		{Row: 4, FirstName: "Bad", LastName: "Role", Role: "registrar"},
	})
	if err != nil {
		t.Fatalf("ImportRoster must succeed: %v", err)
	}

	if result.Total != 3 || result.Success != 1 || result.Failed != 2 {
		t.Errorf("expected total=3 success=1 failed=2, got %+v", result)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %d", len(result.Errors))
	}
	for _, e := range result.Errors {
		if e.Row == 0 || e.Reason == "" {
			t.Errorf("row errors must name the row and reason: %+v", e)
		}
	}
}
