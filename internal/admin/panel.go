// Package admin implements the passphrase-gated administration panel:
// log history, roster management and the spreadsheet export.
package admin

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hmf-industrial/taller-kiosk/internal/kiosk"
	"github.com/hmf-industrial/taller-kiosk/internal/model"
	"github.com/hmf-industrial/taller-kiosk/internal/repo"
	"github.com/hmf-industrial/taller-kiosk/internal/report"
	"github.com/hmf-industrial/taller-kiosk/internal/timecalc"
)

// AckDuration is how long the "saved" acknowledgment stays visible.
const AckDuration = 1500 * time.Millisecond

// ErrNotAuthorized is returned by every mutating operation before a
// successful Authorize.
var ErrNotAuthorized = errors.New("admin: not authorized")

// ErrNotFound is returned when a rename, delete or toggle names an id that
// is not in its roster.
var ErrNotFound = errors.New("admin: record not found")

// Tab is one of the three panel tabs.
type Tab string

const (
	TabLogs     Tab = "LOGS"
	TabWorkers  Tab = "WORKERS"
	TabProjects Tab = "PROJECTS"
)

// Option configures a Panel.
type Option func(*Panel)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Panel) { p.now = now }
}

// WithScheduler overrides the acknowledgment scheduler, for tests.
func WithScheduler(s kiosk.Scheduler) Option {
	return func(p *Panel) { p.sched = s }
}

// Panel is the admin controller. Authorization lives only in this value:
// a new Panel starts locked, like a reloaded page.
type Panel struct {
	repo   *repo.Repository
	secret string
	now    func() time.Time
	sched  kiosk.Scheduler

	authorized bool
	tab        Tab

	logs     []model.TimeLog // newest first
	workers  []model.Worker
	projects []model.Project

	// ackMu guards the acknowledgment state: the scheduled hide fires on a
	// timer goroutine while the UI goroutine reads and reschedules it.
	ackMu     sync.Mutex
	ack       bool
	cancelAck func()
}

// NewPanel builds a locked panel. The secret comes from configuration; the
// comparison is plain text by design.
func NewPanel(r *repo.Repository, secret string, opts ...Option) *Panel {
	p := &Panel{
		repo:   r,
		secret: secret,
		now:    time.Now,
		sched:  kiosk.NewScheduler(),
		tab:    TabLogs,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Authorize compares the given secret and, on success, unlocks the panel
// and loads all data. Failures leave the panel locked; there is no lockout
// or attempt counting.
func (p *Panel) Authorize(secret string) (bool, error) {
	if secret != p.secret {
		return false, nil
	}
	p.authorized = true
	if err := p.Reload(); err != nil {
		return true, err
	}
	return true, nil
}

// Authorized reports whether the gate has been passed.
func (p *Panel) Authorized() bool { return p.authorized }

// ActiveTab returns the selected tab.
func (p *Panel) ActiveTab() Tab { return p.tab }

// SetTab switches tabs.
func (p *Panel) SetTab(tab Tab) { p.tab = tab }

// Reload re-reads all three collections. Logs are ordered newest first.
func (p *Panel) Reload() error {
	logs, err := p.repo.GetLogs()
	if err != nil {
		return err
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	workers, err := p.repo.GetWorkers()
	if err != nil {
		return err
	}
	projects, err := p.repo.GetProjects()
	if err != nil {
		return err
	}
	p.logs = logs
	p.workers = workers
	p.projects = projects
	return nil
}

// Logs returns the history, newest first.
func (p *Panel) Logs() []model.TimeLog {
	return append([]model.TimeLog(nil), p.logs...)
}

// Workers returns the roster.
func (p *Panel) Workers() []model.Worker {
	return append([]model.Worker(nil), p.workers...)
}

// Projects returns all projects, active and closed.
func (p *Panel) Projects() []model.Project {
	return append([]model.Project(nil), p.projects...)
}

// AckShown reports whether the transient "saved" acknowledgment is visible.
func (p *Panel) AckShown() bool {
	p.ackMu.Lock()
	defer p.ackMu.Unlock()
	return p.ack
}

func (p *Panel) showAck() {
	p.ackMu.Lock()
	defer p.ackMu.Unlock()
	if p.cancelAck != nil {
		p.cancelAck()
	}
	p.ack = true
	p.cancelAck = p.sched.After(AckDuration, func() {
		p.ackMu.Lock()
		defer p.ackMu.Unlock()
		p.ack = false
		p.cancelAck = nil
	})
}

// AddWorker appends a new worker with a fresh id. A blank trimmed name is
// silently ignored, matching the entry form which simply does not confirm.
func (p *Panel) AddWorker(name string) error {
	if !p.authorized {
		return ErrNotAuthorized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	p.workers = append(p.workers, model.Worker{ID: timecalc.GenerateID(p.now()), Name: name})
	if err := p.repo.SaveWorkers(p.workers); err != nil {
		return err
	}
	p.showAck()
	return nil
}

// RenameWorker overwrites the name of the matching record in place; the
// record keeps its id and position. Blank names are silently ignored.
func (p *Panel) RenameWorker(id, name string) error {
	if !p.authorized {
		return ErrNotAuthorized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for i := range p.workers {
		if p.workers[i].ID == id {
			p.workers[i].Name = name
			if err := p.repo.SaveWorkers(p.workers); err != nil {
				return err
			}
			p.showAck()
			return nil
		}
	}
	return fmt.Errorf("%w: worker %s", ErrNotFound, id)
}

// DeleteWorker removes the record from the roster. Existing logs keep their
// denormalized worker name and are never touched.
func (p *Panel) DeleteWorker(id string) error {
	if !p.authorized {
		return ErrNotAuthorized
	}
	kept := p.workers[:0]
	found := false
	for _, w := range p.workers {
		if w.ID == id {
			found = true
			continue
		}
		kept = append(kept, w)
	}
	if !found {
		return fmt.Errorf("%w: worker %s", ErrNotFound, id)
	}
	p.workers = kept
	if err := p.repo.SaveWorkers(p.workers); err != nil {
		return err
	}
	p.showAck()
	return nil
}

// AddProject appends a new active project with a fresh id. Blank names are
// silently ignored.
func (p *Panel) AddProject(name string) error {
	if !p.authorized {
		return ErrNotAuthorized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	p.projects = append(p.projects, model.Project{
		ID:     timecalc.GenerateID(p.now()),
		Name:   name,
		Active: true,
	})
	if err := p.repo.SaveProjects(p.projects); err != nil {
		return err
	}
	p.showAck()
	return nil
}

// RenameProject overwrites the name of the matching record, leaving its
// active flag and position unchanged. Blank names are silently ignored.
func (p *Panel) RenameProject(id, name string) error {
	if !p.authorized {
		return ErrNotAuthorized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for i := range p.projects {
		if p.projects[i].ID == id {
			p.projects[i].Name = name
			if err := p.repo.SaveProjects(p.projects); err != nil {
				return err
			}
			p.showAck()
			return nil
		}
	}
	return fmt.Errorf("%w: project %s", ErrNotFound, id)
}

// DeleteProject removes the record from the roster. Existing logs keep
// their denormalized project name.
func (p *Panel) DeleteProject(id string) error {
	if !p.authorized {
		return ErrNotAuthorized
	}
	kept := p.projects[:0]
	found := false
	for _, pr := range p.projects {
		if pr.ID == id {
			found = true
			continue
		}
		kept = append(kept, pr)
	}
	if !found {
		return fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	p.projects = kept
	if err := p.repo.SaveProjects(p.projects); err != nil {
		return err
	}
	p.showAck()
	return nil
}

// ToggleProject flips the active flag (soft close / reopen) immediately,
// without a confirmation step.
func (p *Panel) ToggleProject(id string) error {
	if !p.authorized {
		return ErrNotAuthorized
	}
	for i := range p.projects {
		if p.projects[i].ID == id {
			p.projects[i].Active = !p.projects[i].Active
			if err := p.repo.SaveProjects(p.projects); err != nil {
				return err
			}
			p.showAck()
			return nil
		}
	}
	return fmt.Errorf("%w: project %s", ErrNotFound, id)
}

// Export writes the grouped spreadsheet report for the full history.
// Exporting with no logs returns report.ErrNoLogs and writes nothing.
func (p *Panel) Export(w io.Writer) error {
	if !p.authorized {
		return ErrNotAuthorized
	}
	logs, err := p.repo.GetLogs()
	if err != nil {
		return err
	}
	return report.Write(logs, p.now(), w)
}

// ExportFile writes the report into dir using the deterministic date-based
// filename and returns the full path.
func (p *Panel) ExportFile(dir string) (string, error) {
	if !p.authorized {
		return "", ErrNotAuthorized
	}
	logs, err := p.repo.GetLogs()
	if err != nil {
		return "", err
	}
	return report.WriteFile(logs, p.now(), dir)
}

// ResetLogs clears the entire history. This is the administrative escape
// hatch; individual logs remain immutable.
func (p *Panel) ResetLogs() error {
	if !p.authorized {
		return ErrNotAuthorized
	}
	if err := p.repo.ResetLogs(); err != nil {
		return err
	}
	p.logs = nil
	p.showAck()
	return nil
}
