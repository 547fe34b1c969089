package game

import (
	"fmt"
	"time"
)

// StartSessionTimer starts the table clock once; later calls are no-ops
func StartSessionTimer(series Series, now time.Time) Series {
	if series.SessionTimer.StartedAt != nil {
		return series
	}
	next := series.Clone()
	next.SessionTimer = SessionTimer{StartedAt: &now}
	return next
}

// EndSessionTimer stops a running table clock; otherwise it is a no-op
func EndSessionTimer(series Series, now time.Time) Series {
	timer := series.SessionTimer
	if timer.StartedAt == nil || timer.EndedAt != nil {
		return series
	}
	next := series.Clone()
	next.SessionTimer.EndedAt = &now
	return next
}

// IsSessionRunning reports whether the clock has started and not ended
func IsSessionRunning(series Series) bool {
	return series.SessionTimer.StartedAt != nil && series.SessionTimer.EndedAt == nil
}

// SessionElapsed is the time at the table, frozen once the timer ended
func SessionElapsed(series Series, now time.Time) time.Duration {
	timer := series.SessionTimer
	if timer.StartedAt == nil {
		return 0
	}
	end := now
	if timer.EndedAt != nil {
		end = *timer.EndedAt
	}
	if elapsed := end.Sub(*timer.StartedAt); elapsed > 0 {
		return elapsed
	}
	return 0
}

// FormatSessionTime renders a duration as HH:MM:SS
func FormatSessionTime(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
