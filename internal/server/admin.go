package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hmf-industrial/taller-kiosk/internal/model"
	"github.com/hmf-industrial/taller-kiosk/internal/report"
	"github.com/hmf-industrial/taller-kiosk/internal/timecalc"
)

type authRequest struct {
	Password string `json:"password"`
}

// handleAdminAuth checks the admin passphrase. The frontend keeps the key
// for its page session and sends it on subsequent admin requests.
func (s *Server) handleAdminAuth(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Password != s.adminKey {
		c.JSON(http.StatusUnauthorized, gin.H{"authorized": false, "error": "contraseña incorrecta"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authorized": true})
}

type nameRequest struct {
	Name string `json:"name"`
}

func (s *Server) bindName(c *gin.Context) (string, bool) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return "", false
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("name is required"))
		return "", false
	}
	return name, true
}

// handleAddWorker appends a worker with a fresh id.
func (s *Server) handleAddWorker(c *gin.Context) {
	name, ok := s.bindName(c)
	if !ok {
		return
	}
	workers, err := s.repo.GetWorkers()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	worker := model.Worker{ID: timecalc.GenerateID(s.now()), Name: name}
	if err := s.repo.SaveWorkers(append(workers, worker)); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"worker": worker})
}

// handleRenameWorker overwrites the name of the matching record in place.
func (s *Server) handleRenameWorker(c *gin.Context) {
	name, ok := s.bindName(c)
	if !ok {
		return
	}
	id := c.Param("id")
	workers, err := s.repo.GetWorkers()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	for i := range workers {
		if workers[i].ID == id {
			workers[i].Name = name
			if err := s.repo.SaveWorkers(workers); err != nil {
				s.respondError(c, http.StatusInternalServerError, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"worker": workers[i]})
			return
		}
	}
	s.respondError(c, http.StatusNotFound, fmt.Errorf("worker %s not found", id))
}

// handleDeleteWorker removes the record; existing logs keep their
// denormalized worker name.
func (s *Server) handleDeleteWorker(c *gin.Context) {
	id := c.Param("id")
	workers, err := s.repo.GetWorkers()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	kept := workers[:0]
	found := false
	for _, w := range workers {
		if w.ID == id {
			found = true
			continue
		}
		kept = append(kept, w)
	}
	if !found {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("worker %s not found", id))
		return
	}
	if err := s.repo.SaveWorkers(kept); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// handleAddProject appends an active project with a fresh id.
func (s *Server) handleAddProject(c *gin.Context) {
	name, ok := s.bindName(c)
	if !ok {
		return
	}
	projects, err := s.repo.GetProjects()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	project := model.Project{ID: timecalc.GenerateID(s.now()), Name: name, Active: true}
	if err := s.repo.SaveProjects(append(projects, project)); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// handleRenameProject overwrites the name, leaving the active flag and the
// record's position unchanged.
func (s *Server) handleRenameProject(c *gin.Context) {
	name, ok := s.bindName(c)
	if !ok {
		return
	}
	id := c.Param("id")
	projects, err := s.repo.GetProjects()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	for i := range projects {
		if projects[i].ID == id {
			projects[i].Name = name
			if err := s.repo.SaveProjects(projects); err != nil {
				s.respondError(c, http.StatusInternalServerError, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"project": projects[i]})
			return
		}
	}
	s.respondError(c, http.StatusNotFound, fmt.Errorf("project %s not found", id))
}

// handleDeleteProject removes the record; existing logs keep their
// denormalized project name.
func (s *Server) handleDeleteProject(c *gin.Context) {
	id := c.Param("id")
	projects, err := s.repo.GetProjects()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	kept := projects[:0]
	found := false
	for _, p := range projects {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("project %s not found", id))
		return
	}
	if err := s.repo.SaveProjects(kept); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// handleToggleProject flips the active flag (soft close / reopen).
func (s *Server) handleToggleProject(c *gin.Context) {
	id := c.Param("id")
	projects, err := s.repo.GetProjects()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	for i := range projects {
		if projects[i].ID == id {
			projects[i].Active = !projects[i].Active
			if err := s.repo.SaveProjects(projects); err != nil {
				s.respondError(c, http.StatusInternalServerError, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"project": projects[i]})
			return
		}
	}
	s.respondError(c, http.StatusNotFound, fmt.Errorf("project %s not found", id))
}

// handleExport streams the grouped xlsx report as a download. An empty
// history aborts with a user-visible error and no file.
func (s *Server) handleExport(c *gin.Context) {
	logs, err := s.repo.GetLogs()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if len(logs) == 0 {
		s.respondError(c, http.StatusConflict, report.ErrNoLogs)
		return
	}

	now := s.now()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(now)))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := report.Write(logs, now, c.Writer); err != nil {
		s.logger.Error("export failed", "error", err)
	}
}

// handleResetLogs clears the entire history.
func (s *Server) handleResetLogs(c *gin.Context) {
	if err := s.repo.ResetLogs(); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
