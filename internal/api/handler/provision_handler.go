package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/service"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/response"
)

// ProvisionHandler bulk provisioning HTTP handlers.
type ProvisionHandler struct {
	provisionSvc service.ProvisionService
}

// NewProvisionHandler creates a ProvisionHandler.
func NewProvisionHandler(provisionSvc service.ProvisionService) *ProvisionHandler {
	return &ProvisionHandler{provisionSvc: provisionSvc}
}

// Run executes one bulk provisioning pass over unlinked profiles and
// returns the batch report. Per-profile failures live inside the
// report; only a failed profile fetch is an HTTP error.
// POST /api/v1/admin/provision
func (h *ProvisionHandler) Run(c *gin.Context) {
	report, err := h.provisionSvc.Run(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, report)
}
