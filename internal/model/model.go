package model

import "time"

// Worker is a person who can log hours at the kiosk.
type Worker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is a unit of work hours are charged against. Closed projects
// (Active == false) stay in the roster but are not offered during entry.
type Project struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// TimeLog is an immutable record of hours worked on a project.
// WorkerName and ProjectName are copies captured at creation time so that
// later roster renames never rewrite historical reports.
type TimeLog struct {
	ID          string    `json:"id"`
	WorkerID    string    `json:"workerId"`
	WorkerName  string    `json:"workerName"`
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	Hours       float64   `json:"hours"`
	Timestamp   time.Time `json:"timestamp"`
}
