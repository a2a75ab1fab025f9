package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/model"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/repository"
)

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	profiles map[string]*model.Profile
	seq      int

	// failLink, when set, fails LinkIdentity for the named profile id.
	failLink map[string]error
	// failList fails ListUnlinked.
	failList error
	// failSetFlag fails SetForcePasswordChange.
	failSetFlag error
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		profiles: make(map[string]*model.Profile),
		failLink: make(map[string]error),
	}
}

func (m *mockProfileRepo) Create(_ context.Context, profile *model.Profile) error {
	if profile.ID == "" {
		m.seq++
		profile.ID = fmt.Sprintf("profile-%d", m.seq)
	}
	m.profiles[profile.ID] = profile
	return nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id string) (*model.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	for _, p := range m.profiles {
		if p.UserID != nil && *p.UserID == userID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) GetByAdmissionNumber(_ context.Context, admissionNumber string) (*model.Profile, error) {
	for _, p := range m.profiles {
		if p.AdmissionNumber == admissionNumber {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) ListUnlinked(_ context.Context) ([]model.Profile, error) {
	if m.failList != nil {
		return nil, m.failList
	}
	var result []model.Profile
	for _, p := range m.profiles {
		if p.UserID == nil {
			result = append(result, *p)
		}
	}
	// deterministic order for assertions
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockProfileRepo) List(_ context.Context, filters *repository.ProfileListFilters, offset, limit int) ([]model.Profile, int64, error) {
	var all []model.Profile
	for _, p := range m.profiles {
		match := true
		if filters != nil {
			if filters.Role != "" && p.Role != filters.Role {
				match = false
			}
			if filters.Unlinked && p.UserID != nil {
				match = false
			}
			if filters.Keyword != "" {
				kw := strings.ToLower(filters.Keyword)
				if !strings.Contains(strings.ToLower(p.FirstName), kw) &&
					!strings.Contains(strings.ToLower(p.LastName), kw) &&
					!strings.Contains(strings.ToLower(p.Email), kw) &&
					!strings.Contains(strings.ToLower(p.AdmissionNumber), kw) {
					match = false
				}
			}
		}
		if match {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockProfileRepo) Update(_ context.Context, profile *model.Profile) error {
	m.profiles[profile.ID] = profile
	return nil
}

func (m *mockProfileRepo) LinkIdentity(_ context.Context, profileID, identityID string) error {
	if err, ok := m.failLink[profileID]; ok {
		return err
	}
	p, ok := m.profiles[profileID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	id := identityID
	p.UserID = &id
	p.ForcePasswordChange = true
	return nil
}

func (m *mockProfileRepo) SetForcePasswordChange(_ context.Context, profileID string, force bool) error {
	if m.failSetFlag != nil {
		return m.failSetFlag
	}
	p, ok := m.profiles[profileID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.ForcePasswordChange = force
	return nil
}

// ── Mock IdentityRepository ──

type mockIdentityRepo struct {
	identities map[string]*model.Identity // key: identity_id
	seq        int
}

func newMockIdentityRepo() *mockIdentityRepo {
	return &mockIdentityRepo{identities: make(map[string]*model.Identity)}
}

func (m *mockIdentityRepo) Create(_ context.Context, identity *model.Identity) error {
	if identity.IdentityID == "" {
		m.seq++
		identity.IdentityID = fmt.Sprintf("identity-%d", m.seq)
	}
	m.identities[identity.IdentityID] = identity
	return nil
}

func (m *mockIdentityRepo) GetByID(_ context.Context, id string) (*model.Identity, error) {
	if i, ok := m.identities[id]; ok {
		return i, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIdentityRepo) GetByEmail(_ context.Context, email string) (*model.Identity, error) {
	for _, i := range m.identities {
		if i.Email == email {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIdentityRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	i, ok := m.identities[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.PasswordHash = passwordHash
	return nil
}

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	sessions map[string]*model.ClassSession
	seq      int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*model.ClassSession)}
}

func (m *mockSessionRepo) Create(_ context.Context, session *model.ClassSession) error {
	if session.SessionID == "" {
		m.seq++
		session.SessionID = fmt.Sprintf("session-%d", m.seq)
	}
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.ClassSession, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) ListByLecturer(_ context.Context, lecturerID string) ([]model.ClassSession, error) {
	var result []model.ClassSession
	for _, s := range m.sessions {
		if s.LecturerID == lecturerID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSessionRepo) ListOpen(_ context.Context) ([]model.ClassSession, error) {
	var result []model.ClassSession
	for _, s := range m.sessions {
		if s.IsOpen {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSessionRepo) Update(_ context.Context, session *model.ClassSession) error {
	m.sessions[session.SessionID] = session
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.AttendanceRecord
	seq     int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

func (m *mockAttendanceRepo) Create(_ context.Context, record *model.AttendanceRecord) error {
	if record.RecordID == "" {
		m.seq++
		record.RecordID = fmt.Sprintf("record-%d", m.seq)
	}
	m.records[record.RecordID] = record
	return nil
}

func (m *mockAttendanceRepo) GetBySessionAndStudent(_ context.Context, sessionID, studentID string) (*model.AttendanceRecord, error) {
	for _, r := range m.records {
		if r.SessionID == sessionID && r.StudentID == studentID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListBySession(_ context.Context, sessionID string) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.SessionID == sessionID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].MarkedAt.Before(result[j].MarkedAt) })
	return result, nil
}

func (m *mockAttendanceRepo) ListByStudent(_ context.Context, studentID string) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.StudentID == studentID {
			result = append(result, *r)
		}
	}
	return result, nil
}

// ── Mock IdentityProvider ──

// mockIdentityProvider counts calls so tests can assert that validation
// failures never reach the provider.
type mockIdentityProvider struct {
	inner       IdentityProvider
	createCalls int
	updateCalls int
	authCalls   int

	failCreate error
	failUpdate error
}

func newMockIdentityProvider(identities repository.IdentityRepository) *mockIdentityProvider {
	return &mockIdentityProvider{inner: NewIdentityProvider(identities)}
}

func (m *mockIdentityProvider) CreateIdentity(ctx context.Context, input NewIdentity) (*model.Identity, error) {
	m.createCalls++
	if m.failCreate != nil {
		return nil, m.failCreate
	}
	return m.inner.CreateIdentity(ctx, input)
}

func (m *mockIdentityProvider) Authenticate(ctx context.Context, email, password string) (*model.Identity, error) {
	m.authCalls++
	return m.inner.Authenticate(ctx, email, password)
}

func (m *mockIdentityProvider) UpdatePassword(ctx context.Context, identityID, newPassword string) error {
	m.updateCalls++
	if m.failUpdate != nil {
		return m.failUpdate
	}
	return m.inner.UpdatePassword(ctx, identityID, newPassword)
}

var errMockDB = errors.New("mock database failure")
