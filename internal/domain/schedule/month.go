package schedule

import "time"

// Month is the calendar cursor: a year and a month, no day.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func MonthOf(t time.Time, loc *time.Location) Month {
	lt := t.In(loc)
	return Month{Year: lt.Year(), Month: lt.Month()}
}

// Add moves the cursor by n months. Add(1).Add(-1) is always the identity.
func (m Month) Add(n int) Month {
	idx := m.Year*12 + int(m.Month) - 1 + n
	year := idx / 12
	month := idx % 12
	if month < 0 {
		month += 12
		year--
	}
	return Month{Year: year, Month: time.Month(month + 1)}
}

func (m Month) Next() Month { return m.Add(1) }
func (m Month) Prev() Month { return m.Add(-1) }

func (m Month) First(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Month, 1, 12, 0, 0, 0, loc)
}

// Range is the half-open interval [first day 00:00, next month 00:00) in loc.
func (m Month) Range(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

func (m Month) DaysIn() int {
	return time.Date(m.Year, m.Month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// Days lists every day of the month in order.
func (m Month) Days(loc *time.Location) []DateKey {
	n := m.DaysIn()
	out := make([]DateKey, 0, n)
	for d := 1; d <= n; d++ {
		out = append(out, KeyOf(time.Date(m.Year, m.Month, d, 12, 0, 0, 0, loc), loc))
	}
	return out
}

// LeadingBlanks is the number of empty cells before day 1 in a
// Sunday-first week grid.
func (m Month) LeadingBlanks(loc *time.Location) int {
	return int(m.First(loc).Weekday())
}

func (m Month) Contains(k DateKey, loc *time.Location) bool {
	t := k.Time(loc)
	if t.IsZero() {
		return false
	}
	return t.Year() == m.Year && t.Month() == m.Month
}
