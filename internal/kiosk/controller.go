// Package kiosk implements the screen flow of the time-entry kiosk:
// worker selection, project selection, hour entry and the hand-off to the
// admin panel.
package kiosk

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hmf-industrial/taller-kiosk/internal/model"
	"github.com/hmf-industrial/taller-kiosk/internal/repo"
	"github.com/hmf-industrial/taller-kiosk/internal/timecalc"
)

// View is one of the four kiosk screens.
type View string

const (
	ViewSelectWorker  View = "SELECT_WORKER"
	ViewSelectProject View = "SELECT_PROJECT"
	ViewInputHours    View = "INPUT_HOURS"
	ViewAdmin         View = "ADMIN"
)

// NoticeDuration is how long the day-complete notice stays on screen before
// the kiosk resets to worker selection.
const NoticeDuration = 1500 * time.Millisecond

// ErrNotSelectable is returned when a registration would push the daily
// total above the limit. The menu never offers such an increment; the error
// covers callers that bypass the menu.
var ErrNotSelectable = errors.New("kiosk: increment exceeds daily limit")

// Scheduler runs fn once after d. The returned cancel stops a pending run;
// canceling after the run fired is a no-op.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

func (timerScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// NewScheduler returns the production Scheduler backed by time.AfterFunc.
func NewScheduler() Scheduler { return timerScheduler{} }

// HourOption is one entry of the hour menu: always shown, selectable only
// while it fits under the daily limit.
type HourOption struct {
	Value      float64
	Selectable bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithScheduler overrides the notice scheduler, for tests.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// Controller drives the kiosk screen flow. All exported methods are safe to
// call from the UI goroutine while a scheduled notice reset may fire from a
// timer goroutine.
type Controller struct {
	mu    sync.Mutex
	repo  *repo.Repository
	now   func() time.Time
	sched Scheduler

	view     View
	workers  []model.Worker
	projects []model.Project // active only
	logs     []model.TimeLog

	worker  *model.Worker
	project *model.Project

	notice       bool
	cancelNotice func()
}

// New loads the current data and starts at worker selection.
func New(r *repo.Repository, opts ...Option) (*Controller, error) {
	c := &Controller{
		repo:  r,
		now:   time.Now,
		sched: NewScheduler(),
		view:  ViewSelectWorker,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads workers, active projects and logs from the repository.
func (c *Controller) Reload() error {
	workers, err := c.repo.GetWorkers()
	if err != nil {
		return err
	}
	all, err := c.repo.GetProjects()
	if err != nil {
		return err
	}
	logs, err := c.repo.GetLogs()
	if err != nil {
		return err
	}

	active := make([]model.Project, 0, len(all))
	for _, p := range all {
		if p.Active {
			active = append(active, p)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.workers = workers
	c.projects = active
	c.logs = logs
	return nil
}

// View returns the current screen.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Workers returns the roster offered on the identification screen.
func (c *Controller) Workers() []model.Worker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Worker(nil), c.workers...)
}

// Projects returns the active projects offered during entry.
func (c *Controller) Projects() []model.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Project(nil), c.projects...)
}

// SelectedWorker returns the worker chosen on the first screen, or nil.
func (c *Controller) SelectedWorker() *model.Worker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.worker
}

// SelectedProject returns the project chosen on the second screen, or nil.
func (c *Controller) SelectedProject() *model.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.project
}

// NoticeShown reports whether the day-complete notice is on screen.
func (c *Controller) NoticeShown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// HoursToday returns the selected worker's accumulated hours for the
// current local calendar day, or 0 when no worker is selected.
func (c *Controller) HoursToday() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hoursTodayLocked()
}

func (c *Controller) hoursTodayLocked() float64 {
	if c.worker == nil {
		return 0
	}
	return timecalc.DailyHours(c.worker.ID, c.logs, c.now())
}

// Options returns the hour menu for the selected worker. Increments that
// would push the daily total over the limit are present but not selectable.
func (c *Controller) Options() []HourOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	done := c.hoursTodayLocked()
	opts := make([]HourOption, 0, len(timecalc.HourOptions))
	for _, h := range timecalc.HourOptions {
		opts = append(opts, HourOption{Value: h, Selectable: timecalc.Selectable(h, done)})
	}
	return opts
}

// SelectWorker moves from identification to project selection.
func (c *Controller) SelectWorker(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidatePendingLocked()
	if c.view != ViewSelectWorker {
		return fmt.Errorf("kiosk: cannot select worker from %s", c.view)
	}
	for i := range c.workers {
		if c.workers[i].ID == id {
			w := c.workers[i]
			c.worker = &w
			c.view = ViewSelectProject
			return nil
		}
	}
	return fmt.Errorf("kiosk: unknown worker %q", id)
}

// SelectProject moves from project selection to hour entry. Only active
// projects are offered, so a closed project id is rejected here.
func (c *Controller) SelectProject(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidatePendingLocked()
	if c.view != ViewSelectProject {
		return fmt.Errorf("kiosk: cannot select project from %s", c.view)
	}
	for i := range c.projects {
		if c.projects[i].ID == id {
			p := c.projects[i]
			c.project = &p
			c.view = ViewInputHours
			return nil
		}
	}
	return fmt.Errorf("kiosk: unknown or closed project %q", id)
}

// RegisterHours persists a new log for the selected worker and project and
// advances the flow: back to project selection while the day is open, or
// through the completion notice to worker selection once the daily total
// reaches the limit.
func (c *Controller) RegisterHours(h float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidatePendingLocked()
	if c.view != ViewInputHours || c.worker == nil || c.project == nil {
		return fmt.Errorf("kiosk: cannot register hours from %s", c.view)
	}
	offered := false
	for _, opt := range timecalc.HourOptions {
		if opt == h {
			offered = true
			break
		}
	}
	if !offered {
		return fmt.Errorf("kiosk: %v is not an offered increment", h)
	}
	done := c.hoursTodayLocked()
	if !timecalc.Selectable(h, done) {
		return ErrNotSelectable
	}

	now := c.now()
	log := model.TimeLog{
		ID:          timecalc.GenerateID(now),
		WorkerID:    c.worker.ID,
		WorkerName:  c.worker.Name,
		ProjectID:   c.project.ID,
		ProjectName: c.project.Name,
		Hours:       h,
		Timestamp:   now,
	}
	if err := c.repo.SaveLog(log); err != nil {
		return err
	}
	c.logs = append(c.logs, log)

	if done+h >= timecalc.DailyLimit {
		c.notice = true
		c.cancelNotice = c.sched.After(NoticeDuration, c.finishNotice)
		return nil
	}

	c.project = nil
	c.view = ViewSelectProject
	return nil
}

// finishNotice is the scheduled end of the completion notice: hide it and
// reset the kiosk for the next worker. A transition that happened in the
// meantime has already canceled or invalidated this.
func (c *Controller) finishNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.notice {
		return
	}
	c.notice = false
	c.cancelNotice = nil
	c.worker = nil
	c.project = nil
	c.view = ViewSelectWorker
}

// invalidatePendingLocked cancels a pending notice reset so that an explicit
// transition never races with the delayed one.
func (c *Controller) invalidatePendingLocked() {
	if c.cancelNotice != nil {
		c.cancelNotice()
		c.cancelNotice = nil
	}
	c.notice = false
}

// Back performs backward navigation: project selection returns to
// identification and clears the worker; hour entry returns to project
// selection (the project stays until overwritten); the admin screen returns
// to identification and forces a full data reload.
func (c *Controller) Back() error {
	c.mu.Lock()
	c.invalidatePendingLocked()
	switch c.view {
	case ViewSelectProject:
		c.worker = nil
		c.view = ViewSelectWorker
	case ViewInputHours:
		c.view = ViewSelectProject
	case ViewAdmin:
		c.worker = nil
		c.project = nil
		c.view = ViewSelectWorker
		c.mu.Unlock()
		return c.Reload()
	}
	c.mu.Unlock()
	return nil
}

// EnterAdmin switches to the admin screen from any view, refreshing data on
// the way in so the panel lists current state.
func (c *Controller) EnterAdmin() error {
	c.mu.Lock()
	c.invalidatePendingLocked()
	c.view = ViewAdmin
	c.mu.Unlock()
	return c.Reload()
}

// ExitAdmin leaves the admin screen; equivalent to Back from ViewAdmin.
func (c *Controller) ExitAdmin() error {
	return c.Back()
}
