package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/dto"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/service"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/response"
)

// ProfileHandler profile HTTP handlers.
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// CreateProfile creates one unlinked profile.
// POST /api/v1/profiles
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	profile, err := h.profileSvc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrAdmissionNumberExists) {
			response.Conflict(c, 12001, "admission number already exists")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, profile)
}

// GetProfile returns one profile by id.
// GET /api/v1/profiles/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProfileRecordNotFound) {
			response.NotFound(c, 12002, "profile not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, profile)
}

// ListProfiles returns a filtered profile page.
// GET /api/v1/profiles?role=student&unlinked=true&keyword=...
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var req dto.ProfileListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	profiles, total, err := h.profileSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, profiles, total, req.GetPage(), req.GetPageSize())
}

// UpdateProfile updates mutable profile fields.
// PUT /api/v1/profiles/:id
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	profile, err := h.profileSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrProfileRecordNotFound) {
			response.NotFound(c, 12002, "profile not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, profile)
}

// ImportRoster bulk-creates unlinked profiles from an uploaded Excel
// roster. Row failures are reported per row; the upload is not atomic.
// POST /api/v1/profiles/import
func (h *ProfileHandler) ImportRoster(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "roster file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, 12003, "cannot open uploaded file")
		return
	}
	defer src.Close()

	rows, err := h.profileSvc.ParseRosterFile(src)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRosterNoData):
			response.BadRequest(c, 12004, "roster file has no data rows")
		case errors.Is(err, service.ErrRosterTooManyRows):
			response.BadRequest(c, 12005, err.Error())
		case errors.Is(err, service.ErrRosterBadHeader):
			response.BadRequest(c, 12006, err.Error())
		default:
			response.BadRequest(c, 12003, "cannot parse roster file")
		}
		return
	}

	result, err := h.profileSvc.ImportRoster(c.Request.Context(), rows)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
