package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abdul-maxwell/zetech-smart-attend/config"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/api/handler"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/api/middleware"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/jwt"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/redis"
)

const (
	jsonBodyLimit   = 1 << 20  // 1MB for JSON endpoints
	uploadBodyLimit = 10 << 20 // 10MB for roster uploads

	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Setup builds the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// auth (unauthenticated)
		auth := v1.Group("/auth")
		auth.Use(middleware.BodyLimit(jsonBodyLimit))
		{
			auth.POST("/login", middleware.RateLimit(rdb, loginRateLimit, loginRateWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// authenticated routes
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// auth (authenticated)
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentProfile)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// profiles
			profiles := authorized.Group("/profiles")
			{
				profiles.GET("", middleware.RoleAuth("admin", "lecturer"), h.Profile.ListProfiles)
				profiles.GET("/:id", middleware.RoleAuth("admin", "lecturer"), h.Profile.GetProfile)
				profiles.POST("", middleware.RoleAuth("admin"), h.Profile.CreateProfile)
				profiles.PUT("/:id", middleware.RoleAuth("admin"), h.Profile.UpdateProfile)
				profiles.POST("/import",
					middleware.RoleAuth("admin"),
					middleware.BodyLimit(uploadBodyLimit),
					h.Profile.ImportRoster,
				)
			}

			// bulk provisioning
			authorized.POST("/admin/provision", middleware.RoleAuth("admin"), h.Provision.Run)

			// class sessions
			sessions := authorized.Group("/sessions")
			{
				sessions.GET("/open", h.Attendance.ListOpenSessions)
				sessions.GET("/mine", middleware.RoleAuth("lecturer", "admin"), h.Attendance.ListMySessions)
				sessions.POST("", middleware.RoleAuth("lecturer", "admin"), h.Attendance.CreateSession)
				sessions.PUT("/:id/close", middleware.RoleAuth("lecturer", "admin"), h.Attendance.CloseSession)
				sessions.POST("/:id/attendance", middleware.RoleAuth("student"), h.Attendance.MarkAttendance)
				sessions.GET("/:id/attendance", middleware.RoleAuth("lecturer", "admin"), h.Attendance.ListSessionRecords)
				sessions.GET("/:id/register", middleware.RoleAuth("lecturer", "admin"), h.Attendance.ExportRegister)
			}

			// attendance (student-facing)
			attendance := authorized.Group("/attendance")
			{
				attendance.GET("/mine", h.Attendance.ListMyRecords)
				attendance.GET("/calendar", h.Attendance.MyCalendar)
			}

			// notifications
			authorized.POST("/notifications/email",
				middleware.RoleAuth("admin"),
				h.Notification.SendEmail,
			)
		}
	}

	return r
}
