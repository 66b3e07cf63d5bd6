package leave

import (
	"fmt"
	"time"
)

type DayCountMode string

const (
	DayCountCalendar DayCountMode = "calendar"
	DayCountWorking  DayCountMode = "working"
)

func ParseDayCountMode(v string) (DayCountMode, error) {
	switch m := DayCountMode(v); m {
	case DayCountCalendar, DayCountWorking:
		return m, nil
	default:
		return "", fmt.Errorf("unknown day count mode %q", v)
	}
}

// CountDays counts the leave days in [start, end]. Working mode skips
// weekends and the dates in holidays (keyed "2006-01-02"). A reversed range
// counts as zero.
func CountDays(start, end time.Time, mode DayCountMode, holidays map[string]struct{}) int {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return 0
	}

	if mode == DayCountCalendar {
		return int(end.Sub(start).Hours()/24) + 1
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if _, ok := holidays[d.Format(dateLayout)]; ok {
			continue
		}
		days++
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
