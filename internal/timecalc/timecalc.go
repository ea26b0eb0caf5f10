// Package timecalc holds the pure time and hours arithmetic of the kiosk.
package timecalc

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/hmf-industrial/taller-kiosk/internal/model"
)

// DailyLimit is the maximum number of hours a worker may log per local
// calendar day. The entry flow enforces it; the data layer does not.
const DailyLimit = 8.0

// HourOptions is the fixed menu of selectable hour increments.
var HourOptions = []float64{0.5, 1, 2, 3, 4, 5, 6, 7, 8}

// GenerateID creates a unique record ID based on timestamp and random suffix.
func GenerateID(t time.Time) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 5)
	for i := range suffix {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		suffix[i] = chars[n.Int64()]
	}
	return fmt.Sprintf("%s-%s", t.Format("20060102-150405"), string(suffix))
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DailyHours sums the hours a worker has logged on the calendar day of
// `day`, evaluated in day's location. A log exactly at midnight belongs to
// the day it falls on, not the previous one. Logs from other workers or
// other days never contribute.
func DailyHours(workerID string, logs []model.TimeLog, day time.Time) float64 {
	var total float64
	for _, log := range logs {
		if log.WorkerID != workerID {
			continue
		}
		if !SameDay(log.Timestamp.In(day.Location()), day) {
			continue
		}
		total += log.Hours
	}
	return total
}

// Remaining returns how many hours the worker may still log today, never
// negative.
func Remaining(done float64) float64 {
	if done >= DailyLimit {
		return 0
	}
	return DailyLimit - done
}

// Selectable reports whether the increment h may be offered to a worker who
// has already logged done hours today: an increment that would push the
// daily total strictly above the limit is shown but not selectable.
func Selectable(h, done float64) bool {
	return done+h <= DailyLimit
}
