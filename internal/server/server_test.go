package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hmf-industrial/taller-kiosk/internal/repo"
	"github.com/hmf-industrial/taller-kiosk/internal/server"
	"github.com/hmf-industrial/taller-kiosk/internal/storage"
)

const testAdminKey = "admin123"

func newTestServer(t *testing.T) (*server.Server, *repo.Repository) {
	t.Helper()
	r, err := repo.New(storage.NewMemStore())
	if err != nil {
		t.Fatal(err)
	}
	return server.New(r, nil, testAdminKey, ""), r
}

func doJSON(t *testing.T, srv *server.Server, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("X-Admin-Key", testAdminKey)
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestListWorkersSeeded(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/workers", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Workers []struct{ ID, Name string } `json:"workers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Workers) != 8 {
		t.Errorf("seeded workers = %d, want 8", len(resp.Workers))
	}
}

func TestListProjectsFiltersClosed(t *testing.T) {
	srv, r := newTestServer(t)

	projects, _ := r.GetProjects()
	projects[0].Active = false
	if err := r.SaveProjects(projects); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, srv, http.MethodGet, "/api/projects", nil, false)
	var resp struct {
		Projects []struct {
			ID     string `json:"id"`
			Active bool   `json:"active"`
		} `json:"projects"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Projects) != len(projects)-1 {
		t.Errorf("active projects = %d, want %d", len(resp.Projects), len(projects)-1)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/projects?all=true", nil, false)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Projects) != len(projects) {
		t.Errorf("all projects = %d, want %d", len(resp.Projects), len(projects))
	}
}

func registerBody(workerID, projectID string, hours float64) map[string]any {
	return map[string]any{"workerId": workerID, "projectId": projectID, "hours": hours}
}

func TestRegisterLog(t *testing.T) {
	srv, r := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/logs", registerBody("w1", "p1", 3), false)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Total     float64 `json:"total"`
		Completed bool    `json:"completed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 3 || resp.Completed {
		t.Errorf("total = %v completed = %v", resp.Total, resp.Completed)
	}

	logs, _ := r.GetLogs()
	if len(logs) != 1 {
		t.Fatalf("persisted logs = %d", len(logs))
	}
	if logs[0].WorkerName != "Juan García" || logs[0].ProjectName == "" {
		t.Errorf("log not denormalized: %+v", logs[0])
	}
}

func TestRegisterLogReachingLimitReportsCompleted(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/logs", registerBody("w1", "p1", 8), false)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Completed bool `json:"completed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Completed {
		t.Error("expected completed = true at 8 hours")
	}
}

func TestRegisterLogGuards(t *testing.T) {
	srv, r := newTestServer(t)

	// Unknown worker and project.
	if w := doJSON(t, srv, http.MethodPost, "/api/logs", registerBody("nope", "p1", 1), false); w.Code != http.StatusBadRequest {
		t.Errorf("unknown worker: status = %d", w.Code)
	}
	if w := doJSON(t, srv, http.MethodPost, "/api/logs", registerBody("w1", "nope", 1), false); w.Code != http.StatusBadRequest {
		t.Errorf("unknown project: status = %d", w.Code)
	}

	// Increment outside the fixed menu.
	if w := doJSON(t, srv, http.MethodPost, "/api/logs", registerBody("w1", "p1", 1.7), false); w.Code != http.StatusBadRequest {
		t.Errorf("off-menu hours: status = %d", w.Code)
	}

	// Over the daily limit.
	if w := doJSON(t, srv, http.MethodPost, "/api/logs", registerBody("w1", "p1", 6), false); w.Code != http.StatusCreated {
		t.Fatalf("first log: status = %d", w.Code)
	}
	if w := doJSON(t, srv, http.MethodPost, "/api/logs", registerBody("w1", "p1", 3), false); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("over-limit: status = %d", w.Code)
	}
	// Exactly filling the day is allowed.
	if w := doJSON(t, srv, http.MethodPost, "/api/logs", registerBody("w1", "p1", 2), false); w.Code != http.StatusCreated {
		t.Errorf("filling log: status = %d", w.Code)
	}

	// Closed project.
	projects, _ := r.GetProjects()
	projects[1].Active = false
	if err := r.SaveProjects(projects); err != nil {
		t.Fatal(err)
	}
	if w := doJSON(t, srv, http.MethodPost, "/api/logs", registerBody("w2", projects[1].ID, 1), false); w.Code != http.StatusBadRequest {
		t.Errorf("closed project: status = %d", w.Code)
	}
}

func TestWorkerToday(t *testing.T) {
	srv, _ := newTestServer(t)

	if w := doJSON(t, srv, http.MethodPost, "/api/logs", registerBody("w1", "p1", 6), false); w.Code != http.StatusCreated {
		t.Fatal("seed log failed")
	}

	w := doJSON(t, srv, http.MethodGet, "/api/workers/w1/today", nil, false)
	var resp struct {
		Hours     float64 `json:"hours"`
		Remaining float64 `json:"remaining"`
		Options   []struct {
			Value      float64 `json:"value"`
			Selectable bool    `json:"selectable"`
		} `json:"options"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Hours != 6 || resp.Remaining != 2 {
		t.Errorf("hours = %v remaining = %v", resp.Hours, resp.Remaining)
	}
	for _, opt := range resp.Options {
		want := opt.Value <= 2
		if opt.Selectable != want {
			t.Errorf("option %v selectable = %v, want %v", opt.Value, opt.Selectable, want)
		}
	}
}

func TestAdminAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/admin/auth", map[string]string{"password": "wrong"}, false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodPost, "/api/admin/auth", map[string]string{"password": testAdminKey}, false)
	if w.Code != http.StatusOK {
		t.Errorf("correct password: status = %d", w.Code)
	}
}

func TestAdminRoutesRequireKey(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/admin/workers", map[string]string{"name": "X"}, false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "contraseña incorrecta") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestWorkerCRUD(t *testing.T) {
	srv, r := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/admin/workers", map[string]string{"name": "  Carmen Díaz  "}, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("add: status = %d, body %s", w.Code, w.Body.String())
	}
	var created struct {
		Worker struct{ ID, Name string } `json:"worker"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Worker.Name != "Carmen Díaz" {
		t.Errorf("name not trimmed: %q", created.Worker.Name)
	}

	w = doJSON(t, srv, http.MethodPut, "/api/admin/workers/"+created.Worker.ID, map[string]string{"name": "Carmen D. Ruiz"}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("rename: status = %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodDelete, "/api/admin/workers/"+created.Worker.ID, nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", w.Code)
	}

	workers, _ := r.GetWorkers()
	for _, wk := range workers {
		if wk.ID == created.Worker.ID {
			t.Error("worker still present after delete")
		}
	}

	if w = doJSON(t, srv, http.MethodDelete, "/api/admin/workers/"+created.Worker.ID, nil, true); w.Code != http.StatusNotFound {
		t.Errorf("double delete: status = %d", w.Code)
	}
}

func TestBlankNameRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/admin/workers", map[string]string{"name": "   "}, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestToggleProject(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/admin/projects/p1/toggle", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Project struct {
			Active bool `json:"active"`
		} `json:"project"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Project.Active {
		t.Error("project still active after toggle")
	}

	w = doJSON(t, srv, http.MethodPost, "/api/admin/projects/p1/toggle", nil, true)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Project.Active {
		t.Error("project not reopened after second toggle")
	}
}

func TestRenameProjectDoesNotRewriteLogs(t *testing.T) {
	srv, r := newTestServer(t)

	if w := doJSON(t, srv, http.MethodPost, "/api/logs", registerBody("w1", "p1", 2), false); w.Code != http.StatusCreated {
		t.Fatal("seed log failed")
	}
	projects, _ := r.GetProjects()
	original := projects[1].Name

	w := doJSON(t, srv, http.MethodPut, "/api/admin/projects/p1", map[string]string{"name": "OTRO NOMBRE"}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("rename: status = %d", w.Code)
	}

	logs, _ := r.GetLogs()
	if logs[0].ProjectName != original {
		t.Errorf("log project name rewritten: %q", logs[0].ProjectName)
	}
}

func TestExport(t *testing.T) {
	srv, _ := newTestServer(t)

	// Empty history refuses to export.
	w := doJSON(t, srv, http.MethodGet, "/api/admin/export", nil, true)
	if w.Code != http.StatusConflict {
		t.Errorf("empty export: status = %d", w.Code)
	}

	if w := doJSON(t, srv, http.MethodPost, "/api/logs", registerBody("w1", "p1", 2), false); w.Code != http.StatusCreated {
		t.Fatal("seed log failed")
	}

	w = doJSON(t, srv, http.MethodGet, "/api/admin/export", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("export: status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
	wantName := fmt.Sprintf("HMF_Reporte_Taller_%s.xlsx", time.Now().Format("2006-01-02"))
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, wantName) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Error("empty workbook body")
	}
}

func TestResetLogs(t *testing.T) {
	srv, r := newTestServer(t)

	if w := doJSON(t, srv, http.MethodPost, "/api/logs", registerBody("w1", "p1", 2), false); w.Code != http.StatusCreated {
		t.Fatal("seed log failed")
	}

	w := doJSON(t, srv, http.MethodDelete, "/api/admin/logs", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	logs, _ := r.GetLogs()
	if len(logs) != 0 {
		t.Errorf("logs after reset = %d", len(logs))
	}
}
