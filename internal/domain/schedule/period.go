package schedule

import "time"

// Window is the half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Periods are the calendar day, week, month and year around an instant.
type Periods struct {
	Day   Window
	Week  Window
	Month Window
	Year  Window
}

// PeriodsAt returns the periods containing now, computed in loc. Weeks start
// on Sunday, like the month grid.
func PeriodsAt(now time.Time, loc *time.Location) Periods {
	lt := now.In(loc)
	day := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	week := day.AddDate(0, 0, -int(day.Weekday()))
	month := time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc)
	year := time.Date(lt.Year(), time.January, 1, 0, 0, 0, 0, loc)

	return Periods{
		Day:   Window{day, day.AddDate(0, 0, 1)},
		Week:  Window{week, week.AddDate(0, 0, 7)},
		Month: Window{month, month.AddDate(0, 1, 0)},
		Year:  Window{year, year.AddDate(1, 0, 0)},
	}
}

// Span is the smallest window covering every period. A week can start in
// the previous year or end in the next one.
func (p Periods) Span() Window {
	out := p.Year
	if p.Week.Start.Before(out.Start) {
		out.Start = p.Week.Start
	}
	if p.Week.End.After(out.End) {
		out.End = p.Week.End
	}
	return out
}
