package handler

import "github.com/abdul-maxwell/zetech-smart-attend/internal/service"

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth         *AuthHandler
	Profile      *ProfileHandler
	Provision    *ProvisionHandler
	Attendance   *AttendanceHandler
	Notification *NotificationHandler
}

// NewHandler creates the handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Profile:      NewProfileHandler(svc.Profile),
		Provision:    NewProvisionHandler(svc.Provision),
		Attendance:   NewAttendanceHandler(svc.Attendance),
		Notification: NewNotificationHandler(svc.Notification),
	}
}
