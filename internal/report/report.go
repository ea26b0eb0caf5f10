// Package report turns the log history into the structured per-project
// spreadsheet the workshop hands to the office.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hmf-industrial/taller-kiosk/internal/model"
)

// ErrNoLogs is returned when an export is requested with an empty history;
// no file is produced.
var ErrNoLogs = errors.New("report: no logs to export")

// SheetName is the single sheet of the exported workbook.
const SheetName = "Reporte Detallado"

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04:05"
)

// Filename returns the deterministic date-based export name, e.g.
// HMF_Reporte_Taller_2026-09-01.xlsx.
func Filename(now time.Time) string {
	return fmt.Sprintf("HMF_Reporte_Taller_%s.xlsx", now.Format("2006-01-02"))
}

// Group is one project section of the report.
type Group struct {
	Project string
	Logs    []model.TimeLog // ascending by timestamp
	Total   float64
}

// GroupByProject groups logs by their denormalized project name (exact
// string match), orders group keys alphabetically and each group's logs by
// ascending timestamp.
func GroupByProject(logs []model.TimeLog) []Group {
	byName := map[string][]model.TimeLog{}
	for _, log := range logs {
		byName[log.ProjectName] = append(byName[log.ProjectName], log)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		entries := byName[name]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		})
		var total float64
		for _, log := range entries {
			total += log.Hours
		}
		groups = append(groups, Group{Project: name, Logs: entries, Total: total})
	}
	return groups
}

// Rows builds the full cell grid of the report: a title block, then per
// project a section header, column headers, one row per log with local date
// and time, a totals row and two blank separators.
func Rows(logs []model.TimeLog, now time.Time) ([][]any, error) {
	if len(logs) == 0 {
		return nil, ErrNoLogs
	}

	rows := [][]any{
		{"HMF INDUSTRIAL - REPORTE DE HORAS POR PROYECTO"},
		{"Fecha de Reporte:", now.Format(dateLayout + " " + timeLayout)},
		{},
	}

	for _, g := range GroupByProject(logs) {
		rows = append(rows,
			[]any{"PROYECTO:", strings.ToUpper(g.Project)},
			[]any{"OPERARIO", "HORAS REGISTRADAS", "FECHA DE TRABAJO", "HORA REGISTRO"},
		)
		for _, log := range g.Logs {
			local := log.Timestamp.Local()
			rows = append(rows, []any{
				log.WorkerName,
				log.Hours,
				local.Format(dateLayout),
				local.Format(timeLayout),
			})
		}
		rows = append(rows,
			[]any{"TOTAL PROYECTO:", g.Total, "", ""},
			[]any{},
			[]any{},
		)
	}
	return rows, nil
}

// Write serializes the report as an xlsx workbook. With no logs it writes
// nothing and returns ErrNoLogs.
func Write(logs []model.TimeLog, now time.Time, w io.Writer) error {
	rows, err := Rows(logs, now)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetName)
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("report: cell name: %w", err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("report: writing row %d: %w", i+1, err)
		}
	}

	widths := []struct {
		col   string
		width float64
	}{
		{"A", 40}, // operario / section labels
		{"B", 20}, // horas
		{"C", 25}, // fecha
		{"D", 20}, // hora
	}
	for _, cw := range widths {
		if err := f.SetColWidth(SheetName, cw.col, cw.col, cw.width); err != nil {
			return fmt.Errorf("report: column width %s: %w", cw.col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("report: writing workbook: %w", err)
	}
	return nil
}

// WriteFile writes the workbook into dir with the deterministic filename
// and returns the full path. Nothing is created when the history is empty.
func WriteFile(logs []model.TimeLog, now time.Time, dir string) (string, error) {
	if _, err := Rows(logs, now); err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename(now))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("report: creating %s: %w", path, err)
	}
	defer out.Close()
	if err := Write(logs, now, out); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
