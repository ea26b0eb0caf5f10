// Package server exposes the kiosk and its admin panel over HTTP for a
// browser frontend on the shop floor.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hmf-industrial/taller-kiosk/internal/repo"
)

// Server provides the HTTP handlers for the kiosk backend.
type Server struct {
	engine    *gin.Engine
	repo      *repo.Repository
	logger    *slog.Logger
	adminKey  string
	staticDir string
	now       func() time.Time
}

// New constructs the HTTP server with routes and middleware configured.
// adminKey is the admin passphrase from configuration; staticDir optionally
// points at a built kiosk frontend.
func New(r *repo.Repository, logger *slog.Logger, adminKey, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		engine:    router,
		repo:      r,
		logger:    logger,
		adminKey:  adminKey,
		staticDir: staticDir,
		now:       time.Now,
	}
	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		api.GET("/workers", s.handleListWorkers)
		api.GET("/workers/:id/today", s.handleWorkerToday)
		api.GET("/projects", s.handleListProjects)
		api.GET("/logs", s.handleListLogs)
		api.POST("/logs", s.handleRegisterLog)

		api.POST("/admin/auth", s.handleAdminAuth)

		admin := api.Group("/admin", s.requireAdmin)
		{
			admin.POST("/workers", s.handleAddWorker)
			admin.PUT("/workers/:id", s.handleRenameWorker)
			admin.DELETE("/workers/:id", s.handleDeleteWorker)

			admin.POST("/projects", s.handleAddProject)
			admin.PUT("/projects/:id", s.handleRenameProject)
			admin.DELETE("/projects/:id", s.handleDeleteProject)
			admin.POST("/projects/:id/toggle", s.handleToggleProject)

			admin.GET("/export", s.handleExport)
			admin.DELETE("/logs", s.handleResetLogs)
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requireAdmin gates the admin routes on the configured passphrase. The
// comparison is plain text and per-request; the browser keeps the key for
// its page session only.
func (s *Server) requireAdmin(c *gin.Context) {
	if c.GetHeader("X-Admin-Key") != s.adminKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "contraseña incorrecta"})
		return
	}
	c.Next()
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if err != nil {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
