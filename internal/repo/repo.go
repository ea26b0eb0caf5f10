// Package repo provides typed access to the kiosk collections and performs
// the one-time seeding of the default rosters.
package repo

import (
	"encoding/json"
	"fmt"

	"github.com/hmf-industrial/taller-kiosk/internal/model"
	"github.com/hmf-industrial/taller-kiosk/internal/storage"
)

// seedVersion is written to the seed marker once the default rosters have
// been applied. Bump it only if a future release ships a new mandatory
// baseline roster.
const seedVersion = "v1"

// defaultWorkers is the built-in crew roster written on first run.
var defaultWorkers = []model.Worker{
	{ID: "w1", Name: "Juan García"},
	{ID: "w2", Name: "Pedro Martínez"},
	{ID: "w3", Name: "María Rodríguez"},
	{ID: "w4", Name: "Antonio López"},
	{ID: "w5", Name: "Luis Sánchez"},
	{ID: "w6", Name: "Francisco Fernández"},
	{ID: "w7", Name: "Manuel González"},
	{ID: "w8", Name: "José Pérez"},
}

// defaultProjects is the built-in assembly roster written on first run.
var defaultProjects = []model.Project{
	{ID: "p-limpieza", Name: "LIMPIEZA Y MANTENIMIENTO TALLER", Active: true},
	{ID: "p1", Name: "CAMIÓN SCANIA R450 - GRÚA PALFINGER PK23", Active: true},
	{ID: "p2", Name: "VOLVO FH16 - GRÚA FASSI F545", Active: true},
	{ID: "p3", Name: "MERCEDES ACTROS - GRÚA HIAB X-HIPRO", Active: true},
	{ID: "p4", Name: "IVECO STRALIS - MONTAJE CAJA FIJA", Active: true},
	{ID: "p5", Name: "RENAULT T - MANTENIMIENTO PREVENTIVO", Active: true},
	{ID: "p6", Name: "MAN TGX - REPARACIÓN SISTEMA HIDRÁULICO", Active: true},
}

// Repository wraps a Store with typed accessors. It performs no validation:
// id uniqueness and record shape are the caller's responsibility.
type Repository struct {
	store storage.Store
}

// New builds a Repository and applies the one-time seeding: if the seed
// marker is unset, absent collections (absent, not merely empty) receive the
// default rosters, then the marker is written. A collection the operator has
// deliberately emptied is never reseeded.
func New(store storage.Store) (*Repository, error) {
	r := &Repository{store: store}
	if err := r.ensureSeed(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureSeed() error {
	mark, err := r.store.Get(storage.SeedMark)
	if err != nil {
		return fmt.Errorf("reading seed marker: %w", err)
	}
	if mark != nil {
		return nil
	}

	workers, err := r.store.Get(storage.Workers)
	if err != nil {
		return fmt.Errorf("reading workers: %w", err)
	}
	if workers == nil {
		if err := r.SaveWorkers(defaultWorkers); err != nil {
			return fmt.Errorf("seeding workers: %w", err)
		}
	}

	projects, err := r.store.Get(storage.Projects)
	if err != nil {
		return fmt.Errorf("reading projects: %w", err)
	}
	if projects == nil {
		if err := r.SaveProjects(defaultProjects); err != nil {
			return fmt.Errorf("seeding projects: %w", err)
		}
	}

	if err := r.store.Set(storage.SeedMark, []byte(seedVersion)); err != nil {
		return fmt.Errorf("writing seed marker: %w", err)
	}
	return nil
}

// decode unmarshals a stored collection. Absent or malformed data yields an
// empty collection rather than an error: a corrupt kiosk keeps working.
func decode[T any](data []byte) []T {
	if data == nil {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

func (r *Repository) save(collection string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", collection, err)
	}
	return r.store.Set(collection, data)
}

// GetWorkers returns the worker roster in insertion order.
func (r *Repository) GetWorkers() ([]model.Worker, error) {
	data, err := r.store.Get(storage.Workers)
	if err != nil {
		return nil, err
	}
	return decode[model.Worker](data), nil
}

// SaveWorkers overwrites the worker roster.
func (r *Repository) SaveWorkers(workers []model.Worker) error {
	if workers == nil {
		workers = []model.Worker{}
	}
	return r.save(storage.Workers, workers)
}

// GetProjects returns all projects, active and closed, in insertion order.
func (r *Repository) GetProjects() ([]model.Project, error) {
	data, err := r.store.Get(storage.Projects)
	if err != nil {
		return nil, err
	}
	return decode[model.Project](data), nil
}

// SaveProjects overwrites the project roster.
func (r *Repository) SaveProjects(projects []model.Project) error {
	if projects == nil {
		projects = []model.Project{}
	}
	return r.save(storage.Projects, projects)
}

// GetLogs returns every time log in insertion order.
func (r *Repository) GetLogs() ([]model.TimeLog, error) {
	data, err := r.store.Get(storage.Logs)
	if err != nil {
		return nil, err
	}
	return decode[model.TimeLog](data), nil
}

// SaveLog appends one log: read the full sequence, append, write back.
// Logs are immutable once created; there is no update or per-log delete.
func (r *Repository) SaveLog(log model.TimeLog) error {
	logs, err := r.GetLogs()
	if err != nil {
		return err
	}
	logs = append(logs, log)
	return r.save(storage.Logs, logs)
}

// ResetLogs clears the log collection entirely.
func (r *Repository) ResetLogs() error {
	return r.store.Reset(storage.Logs)
}
