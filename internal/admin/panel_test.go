package admin_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/hmf-industrial/taller-kiosk/internal/admin"
	"github.com/hmf-industrial/taller-kiosk/internal/model"
	"github.com/hmf-industrial/taller-kiosk/internal/repo"
	"github.com/hmf-industrial/taller-kiosk/internal/report"
	"github.com/hmf-industrial/taller-kiosk/internal/storage"
)

const testSecret = "admin123"

type fakeScheduler struct {
	pending []func()
}

func (s *fakeScheduler) After(d time.Duration, fn func()) func() {
	i := len(s.pending)
	s.pending = append(s.pending, fn)
	return func() { s.pending[i] = nil }
}

func (s *fakeScheduler) Fire() {
	pending := s.pending
	s.pending = nil
	for _, fn := range pending {
		if fn != nil {
			fn()
		}
	}
}

func newPanel(t *testing.T) (*admin.Panel, *repo.Repository, *fakeScheduler) {
	t.Helper()
	r, err := repo.New(storage.NewMemStore())
	if err != nil {
		t.Fatal(err)
	}
	sched := &fakeScheduler{}
	return admin.NewPanel(r, testSecret, admin.WithScheduler(sched)), r, sched
}

func authorize(t *testing.T, p *admin.Panel) {
	t.Helper()
	ok, err := p.Authorize(testSecret)
	if err != nil || !ok {
		t.Fatalf("Authorize = %v, %v", ok, err)
	}
}

func TestAuthorization(t *testing.T) {
	p, _, _ := newPanel(t)

	ok, err := p.Authorize("wrong")
	if err != nil {
		t.Fatal(err)
	}
	if ok || p.Authorized() {
		t.Error("wrong passphrase must leave the panel locked")
	}
	if err := p.AddWorker("X"); !errors.Is(err, admin.ErrNotAuthorized) {
		t.Errorf("mutation while locked = %v, want ErrNotAuthorized", err)
	}

	authorize(t, p)
	if !p.Authorized() {
		t.Error("correct passphrase must unlock the panel")
	}
	if len(p.Workers()) != 8 {
		t.Errorf("data not loaded on authorize: %d workers", len(p.Workers()))
	}
}

func TestLogsNewestFirst(t *testing.T) {
	p, r, _ := newPanel(t)
	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	for i, id := range []string{"l1", "l2", "l3"} {
		err := r.SaveLog(model.TimeLog{
			ID: id, WorkerID: "w1", WorkerName: "Juan García",
			ProjectID: "p1", ProjectName: "X", Hours: 1,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	authorize(t, p)
	logs := p.Logs()
	if len(logs) != 3 {
		t.Fatalf("logs = %d", len(logs))
	}
	if logs[0].ID != "l3" || logs[2].ID != "l1" {
		t.Errorf("logs not newest first: %s ... %s", logs[0].ID, logs[2].ID)
	}
}

func TestAddAndRenameWorker(t *testing.T) {
	p, r, sched := newPanel(t)
	authorize(t, p)

	if err := p.AddWorker("  Diego Ortega  "); err != nil {
		t.Fatal(err)
	}
	workers, err := r.GetWorkers()
	if err != nil {
		t.Fatal(err)
	}
	if len(workers) != 9 {
		t.Fatalf("workers = %d, want 9", len(workers))
	}
	added := workers[8]
	if added.Name != "Diego Ortega" {
		t.Errorf("name not trimmed: %q", added.Name)
	}
	if added.ID == "" {
		t.Error("added worker has no id")
	}
	if !p.AckShown() {
		t.Error("acknowledgment not shown after add")
	}
	sched.Fire()
	if p.AckShown() {
		t.Error("acknowledgment still shown after its duration")
	}

	if err := p.RenameWorker(added.ID, "Diego Ortega Ruiz"); err != nil {
		t.Fatal(err)
	}
	workers, _ = r.GetWorkers()
	if workers[8].Name != "Diego Ortega Ruiz" || workers[8].ID != added.ID {
		t.Errorf("rename changed more than the name: %+v", workers[8])
	}

	if err := p.RenameWorker("missing", "x"); !errors.Is(err, admin.ErrNotFound) {
		t.Errorf("rename of missing worker = %v, want ErrNotFound", err)
	}
}

// TestAckHidesWithProductionScheduler runs against the real time.AfterFunc
// scheduler: the hide callback fires on a timer goroutine while this
// goroutine keeps reading and rescheduling the acknowledgment, as the
// terminal kiosk does.
func TestAckHidesWithProductionScheduler(t *testing.T) {
	r, err := repo.New(storage.NewMemStore())
	if err != nil {
		t.Fatal(err)
	}
	p := admin.NewPanel(r, testSecret)
	authorize(t, p)

	if err := p.AddWorker("Diego Ortega"); err != nil {
		t.Fatal(err)
	}
	if !p.AckShown() {
		t.Fatal("acknowledgment not shown after add")
	}
	// A second mutation while the first ack is pending reschedules it.
	if err := p.ToggleProject("p1"); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(4 * admin.AckDuration)
	for p.AckShown() {
		if time.Now().After(deadline) {
			t.Fatal("acknowledgment never hidden")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBlankNamesSilentlyIgnored(t *testing.T) {
	p, r, _ := newPanel(t)
	authorize(t, p)

	for _, name := range []string{"", "   ", "\t\n"} {
		if err := p.AddWorker(name); err != nil {
			t.Errorf("AddWorker(%q) = %v, want silent no-op", name, err)
		}
		if err := p.AddProject(name); err != nil {
			t.Errorf("AddProject(%q) = %v, want silent no-op", name, err)
		}
		if err := p.RenameWorker("w1", name); err != nil {
			t.Errorf("RenameWorker(%q) = %v, want silent no-op", name, err)
		}
	}

	workers, _ := r.GetWorkers()
	if len(workers) != 8 {
		t.Errorf("blank add changed the roster: %d workers", len(workers))
	}
	if workers[0].Name != "Juan García" {
		t.Errorf("blank rename changed the name: %q", workers[0].Name)
	}
	if p.AckShown() {
		t.Error("blank input must not show the saved acknowledgment")
	}
}

func TestRenameDoesNotRewriteHistory(t *testing.T) {
	p, r, _ := newPanel(t)
	if err := r.SaveLog(model.TimeLog{
		ID: "l1", WorkerID: "w1", WorkerName: "Juan García",
		ProjectID: "p1", ProjectName: "CAMIÓN SCANIA R450 - GRÚA PALFINGER PK23",
		Hours: 4, Timestamp: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}
	authorize(t, p)

	if err := p.RenameWorker("w1", "Juan G. Segundo"); err != nil {
		t.Fatal(err)
	}
	if err := p.RenameProject("p1", "SCANIA R450 (REWORK)"); err != nil {
		t.Fatal(err)
	}

	logs, err := r.GetLogs()
	if err != nil {
		t.Fatal(err)
	}
	if logs[0].WorkerName != "Juan García" {
		t.Errorf("rename leaked into log workerName: %q", logs[0].WorkerName)
	}
	if logs[0].ProjectName != "CAMIÓN SCANIA R450 - GRÚA PALFINGER PK23" {
		t.Errorf("rename leaked into log projectName: %q", logs[0].ProjectName)
	}
}

func TestDeleteLeavesLogsIntact(t *testing.T) {
	p, r, _ := newPanel(t)
	if err := r.SaveLog(model.TimeLog{
		ID: "l1", WorkerID: "w1", WorkerName: "Juan García",
		ProjectID: "p1", ProjectName: "CAMIÓN SCANIA R450 - GRÚA PALFINGER PK23",
		Hours: 4, Timestamp: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}
	authorize(t, p)

	if err := p.DeleteWorker("w1"); err != nil {
		t.Fatal(err)
	}
	if err := p.DeleteProject("p1"); err != nil {
		t.Fatal(err)
	}

	workers, _ := r.GetWorkers()
	for _, w := range workers {
		if w.ID == "w1" {
			t.Error("worker not removed from roster")
		}
	}
	logs, err := r.GetLogs()
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].WorkerName != "Juan García" {
		t.Error("delete touched existing logs")
	}

	if err := p.DeleteWorker("w1"); !errors.Is(err, admin.ErrNotFound) {
		t.Errorf("double delete = %v, want ErrNotFound", err)
	}
}

func TestToggleProject(t *testing.T) {
	p, r, _ := newPanel(t)
	authorize(t, p)

	if err := p.ToggleProject("p1"); err != nil {
		t.Fatal(err)
	}
	projects, _ := r.GetProjects()
	for _, pr := range projects {
		if pr.ID == "p1" && pr.Active {
			t.Error("toggle did not close the project")
		}
	}

	if err := p.ToggleProject("p1"); err != nil {
		t.Fatal(err)
	}
	projects, _ = r.GetProjects()
	for _, pr := range projects {
		if pr.ID == "p1" && !pr.Active {
			t.Error("toggle did not reopen the project")
		}
	}
}

func TestExportEmptyHistory(t *testing.T) {
	p, _, _ := newPanel(t)
	authorize(t, p)

	var buf bytes.Buffer
	if err := p.Export(&buf); !errors.Is(err, report.ErrNoLogs) {
		t.Errorf("Export with no logs = %v, want ErrNoLogs", err)
	}
	if buf.Len() != 0 {
		t.Error("export wrote data for an empty history")
	}
}

func TestResetLogs(t *testing.T) {
	p, r, _ := newPanel(t)
	if err := r.SaveLog(model.TimeLog{ID: "l1", WorkerID: "w1", Hours: 2, Timestamp: time.Now()}); err != nil {
		t.Fatal(err)
	}
	authorize(t, p)

	if err := p.ResetLogs(); err != nil {
		t.Fatal(err)
	}
	logs, err := r.GetLogs()
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 0 {
		t.Errorf("logs after reset = %d", len(logs))
	}
	if len(p.Logs()) != 0 {
		t.Error("panel still lists logs after reset")
	}
}
