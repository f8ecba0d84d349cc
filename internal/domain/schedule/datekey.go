package schedule

import "time"

const keyLayout = "2006-01-02"

// DateKey identifies a calendar day as YYYY-MM-DD in a specific location.
// Two instants are on the same day iff their keys, computed in the same
// location, are equal.
type DateKey string

// KeyOf returns the local calendar day of t in loc. The day is pinned to
// noon before formatting so DST shifts around midnight cannot move it.
func KeyOf(t time.Time, loc *time.Location) DateKey {
	return DateKey(noon(t, loc).Format(keyLayout))
}

// ParseKey validates s as YYYY-MM-DD.
func ParseKey(s string, loc *time.Location) (DateKey, error) {
	t, err := time.ParseInLocation(keyLayout, s, loc)
	if err != nil {
		return "", err
	}
	return KeyOf(t, loc), nil
}

// Time returns noon of the day in loc.
func (k DateKey) Time(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(keyLayout, string(k), loc)
	if err != nil {
		return time.Time{}
	}
	return noon(t, loc)
}

func (k DateKey) String() string {
	return string(k)
}

func noon(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 12, 0, 0, 0, loc)
}
