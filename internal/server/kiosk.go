package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/hmf-industrial/taller-kiosk/internal/model"
	"github.com/hmf-industrial/taller-kiosk/internal/timecalc"
)

// handleListWorkers returns the full worker roster.
func (s *Server) handleListWorkers(c *gin.Context) {
	workers, err := s.repo.GetWorkers()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": workers})
}

// handleListProjects returns the active projects; ?all=true includes closed
// ones for the admin frontend.
func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.repo.GetProjects()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if c.Query("all") != "true" {
		active := make([]model.Project, 0, len(projects))
		for _, p := range projects {
			if p.Active {
				active = append(active, p)
			}
		}
		projects = active
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// handleListLogs returns the history, newest first.
func (s *Server) handleListLogs(c *gin.Context) {
	logs, err := s.repo.GetLogs()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

type todayResponse struct {
	Hours     float64       `json:"hours"`
	Remaining float64       `json:"remaining"`
	Options   []todayOption `json:"options"`
}

type todayOption struct {
	Value      float64 `json:"value"`
	Selectable bool    `json:"selectable"`
}

// handleWorkerToday returns the worker's accumulated hours for the current
// local day plus the hour menu with its selectability.
func (s *Server) handleWorkerToday(c *gin.Context) {
	id := c.Param("id")
	logs, err := s.repo.GetLogs()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	done := timecalc.DailyHours(id, logs, s.now())
	resp := todayResponse{Hours: done, Remaining: timecalc.Remaining(done)}
	for _, h := range timecalc.HourOptions {
		resp.Options = append(resp.Options, todayOption{Value: h, Selectable: timecalc.Selectable(h, done)})
	}
	c.JSON(http.StatusOK, resp)
}

type registerRequest struct {
	WorkerID  string  `json:"workerId"`
	ProjectID string  `json:"projectId"`
	Hours     float64 `json:"hours"`
}

// handleRegisterLog creates one immutable time log. The same guard the
// kiosk screen applies holds here: increments outside the menu, or past the
// daily limit, are rejected so a headless client cannot bypass it.
func (s *Server) handleRegisterLog(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	workers, err := s.repo.GetWorkers()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	var worker *model.Worker
	for i := range workers {
		if workers[i].ID == req.WorkerID {
			worker = &workers[i]
			break
		}
	}
	if worker == nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("unknown worker %q", req.WorkerID))
		return
	}

	projects, err := s.repo.GetProjects()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	var project *model.Project
	for i := range projects {
		if projects[i].ID == req.ProjectID {
			project = &projects[i]
			break
		}
	}
	if project == nil || !project.Active {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("unknown or closed project %q", req.ProjectID))
		return
	}

	offered := false
	for _, h := range timecalc.HourOptions {
		if h == req.Hours {
			offered = true
			break
		}
	}
	if !offered {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("%v is not an offered increment", req.Hours))
		return
	}

	logs, err := s.repo.GetLogs()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	now := s.now()
	done := timecalc.DailyHours(worker.ID, logs, now)
	if !timecalc.Selectable(req.Hours, done) {
		s.respondError(c, http.StatusUnprocessableEntity, fmt.Errorf("increment exceeds daily limit: %v logged today", done))
		return
	}

	log := model.TimeLog{
		ID:          timecalc.GenerateID(now),
		WorkerID:    worker.ID,
		WorkerName:  worker.Name,
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Hours:       req.Hours,
		Timestamp:   now,
	}
	if err := s.repo.SaveLog(log); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	total := done + req.Hours
	c.JSON(http.StatusCreated, gin.H{
		"log":       log,
		"total":     total,
		"completed": total >= timecalc.DailyLimit,
	})
}
