package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/dto"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/model"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/repository"
)

var (
	ErrAdmissionNumberExists = errors.New("admission number already exists")
	ErrProfileRecordNotFound = errors.New("profile not found")
)

// ProfileService owns the profile store: CRUD, listing and the Excel
// roster import that feeds the bulk provisioning job with unlinked
// profiles.
type ProfileService interface {
	Create(ctx context.Context, req *dto.CreateProfileRequest) (*dto.ProfileResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProfileResponse, error)
	List(ctx context.Context, req *dto.ProfileListRequest) ([]dto.ProfileResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	ParseRosterFile(reader io.Reader) ([]RosterRow, error)
	ImportRoster(ctx context.Context, rows []RosterRow) (*dto.ImportProfileResponse, error)
}

// RosterRow is one parsed row of an imported roster spreadsheet.
type RosterRow struct {
	Row             int
	FirstName       string
	LastName        string
	AdmissionNumber string
	Email           string
	Role            string
}

type profileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService creates a ProfileService instance.
func NewProfileService(repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *profileService) Create(ctx context.Context, req *dto.CreateProfileRequest) (*dto.ProfileResponse, error) {
	// Profiles may be created without the fields needed to derive a
	// default credential; bulk provisioning skips them until the data
	// is filled in.
	role := model.Role(req.Role)

	if req.AdmissionNumber != "" {
		if _, err := s.repo.Profile.GetByAdmissionNumber(ctx, req.AdmissionNumber); err == nil {
			return nil, ErrAdmissionNumberExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	profile := &model.Profile{
		Email:           req.Email,
		AdmissionNumber: req.AdmissionNumber,
		Role:            role,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
	}

	if err := s.repo.Profile.Create(ctx, profile); err != nil {
		s.logger.Error("failed to create profile", zap.Error(err))
		return nil, err
	}

	return toProfileResponse(profile), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *profileService) GetByID(ctx context.Context, id string) (*dto.ProfileResponse, error) {
	profile, err := s.repo.Profile.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileRecordNotFound
		}
		s.logger.Error("failed to load profile", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toProfileResponse(profile), nil
}

// ────────────────────── List ──────────────────────

func (s *profileService) List(ctx context.Context, req *dto.ProfileListRequest) ([]dto.ProfileResponse, int64, error) {
	filters := &repository.ProfileListFilters{
		Role:     model.Role(req.Role),
		Unlinked: req.Unlinked,
		Keyword:  req.Keyword,
	}

	profiles, total, err := s.repo.Profile.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("failed to list profiles", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		result = append(result, *toProfileResponse(&profiles[i]))
	}

	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *profileService) Update(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.repo.Profile.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileRecordNotFound
		}
		s.logger.Error("failed to load profile", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Email != nil {
		profile.Email = *req.Email
	}
	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}

	if err := s.repo.Profile.Update(ctx, profile); err != nil {
		s.logger.Error("failed to update profile", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toProfileResponse(profile), nil
}

// ────────────────────── ParseRosterFile ──────────────────────

const maxRosterRows = 1000

var (
	ErrRosterNoData      = errors.New("roster file has no data rows (first row is the header)")
	ErrRosterTooManyRows = fmt.Errorf("roster exceeds the %d row limit", maxRosterRows)
	ErrRosterBadHeader   = errors.New("roster header is missing required columns (first_name/last_name/role)")
)

// ParseRosterFile parses an uploaded roster spreadsheet into rows.
func (s *profileService) ParseRosterFile(reader io.Reader) ([]RosterRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("cannot parse Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrRosterNoData
	}

	colIndex := parseRosterHeader(excelRows[0])
	if colIndex["first_name"] < 0 || colIndex["last_name"] < 0 || colIndex["role"] < 0 {
		return nil, ErrRosterBadHeader
	}

	var rows []RosterRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := RosterRow{Row: i + 1}

		if idx := colIndex["first_name"]; idx < len(row) {
			item.FirstName = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["last_name"]; idx < len(row) {
			item.LastName = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["admission_number"]; idx >= 0 && idx < len(row) {
			item.AdmissionNumber = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["email"]; idx >= 0 && idx < len(row) {
			item.Email = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["role"]; idx < len(row) {
			item.Role = strings.ToLower(strings.TrimSpace(row[idx]))
		}

		// skip fully empty rows
		if item.FirstName == "" && item.LastName == "" && item.AdmissionNumber == "" && item.Email == "" && item.Role == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrRosterNoData
	}
	if len(rows) > maxRosterRows {
		return nil, ErrRosterTooManyRows
	}

	return rows, nil
}

// parseRosterHeader maps header names to column indices.
func parseRosterHeader(header []string) map[string]int {
	idx := map[string]int{
		"first_name":       -1,
		"last_name":        -1,
		"admission_number": -1,
		"email":            -1,
		"role":             -1,
	}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch lower {
		case "first_name", "first name":
			idx["first_name"] = i
		case "last_name", "last name":
			idx["last_name"] = i
		case "admission_number", "admission number", "admission no":
			idx["admission_number"] = i
		case "email":
			idx["email"] = i
		case "role":
			idx["role"] = i
		}
	}
	return idx
}

// ────────────────────── ImportRoster ──────────────────────

// ImportRoster creates unlinked profiles from parsed roster rows.
// Row failures are collected, not fatal: the import mirrors the bulk
// provisioning job's per-record isolation.
func (s *profileService) ImportRoster(ctx context.Context, rows []RosterRow) (*dto.ImportProfileResponse, error) {
	resp := &dto.ImportProfileResponse{Total: len(rows)}

	for _, row := range rows {
		if err := s.importRow(ctx, row); err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportProfileError{
				Row: row.Row, Reason: err.Error(),
			})
			continue
		}
		resp.Success++
	}

	return resp, nil
}

func (s *profileService) importRow(ctx context.Context, row RosterRow) error {
	if row.FirstName == "" || row.LastName == "" || row.Role == "" {
		return errors.New("required fields missing")
	}

	role := model.Role(row.Role)
	if !role.Valid() {
		return fmt.Errorf("unknown role: %s", row.Role)
	}

	if row.AdmissionNumber != "" {
		if _, err := s.repo.Profile.GetByAdmissionNumber(ctx, row.AdmissionNumber); err == nil {
			return fmt.Errorf("admission number already exists: %s", row.AdmissionNumber)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	profile := &model.Profile{
		Email:           row.Email,
		AdmissionNumber: row.AdmissionNumber,
		Role:            role,
		FirstName:       row.FirstName,
		LastName:        row.LastName,
	}

	if err := s.repo.Profile.Create(ctx, profile); err != nil {
		s.logger.Error("failed to import roster row",
			zap.Int("row", row.Row), zap.Error(err))
		return err
	}

	return nil
}
