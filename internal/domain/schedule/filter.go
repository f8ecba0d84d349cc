package schedule

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/models"
)

// PreviewSize is how many appointments a month cell shows before "+N".
const PreviewSize = 2

type Filters struct {
	Status   appointment.Status `json:"status,omitempty"`
	BarberID uint               `json:"barber_id,omitempty"`
}

func (f Filters) Match(ap models.Appointment) bool {
	if f.Status != "" && appointment.Status(ap.Status) != f.Status {
		return false
	}
	if f.BarberID != 0 && ap.BarberID != f.BarberID {
		return false
	}
	return true
}

// BelongsTo reports whether ap falls on day under f.
func BelongsTo(ap models.Appointment, day DateKey, f Filters, loc *time.Location) bool {
	return KeyOf(ap.ScheduledAt, loc) == day && f.Match(ap)
}

// DayAgenda returns the appointments of day that pass f, earliest first.
func DayAgenda(aps []models.Appointment, day DateKey, f Filters, loc *time.Location) []models.Appointment {
	out := []models.Appointment{}
	for _, ap := range aps {
		if BelongsTo(ap, day, f, loc) {
			out = append(out, ap)
		}
	}
	sortByTime(out)
	return out
}

type Cell struct {
	Day      DateKey              `json:"day"`
	Count    int                  `json:"count"`
	Preview  []models.Appointment `json:"preview"`
	More     int                  `json:"more"`
	Empty    bool                 `json:"empty"`
	Today    bool                 `json:"today"`
	Selected bool                 `json:"selected"`
}

type Grid struct {
	Month         Month  `json:"month"`
	LeadingBlanks int    `json:"leading_blanks"`
	Cells         []Cell `json:"cells"`
}

// MonthGrid buckets aps by local day for every day of m. Appointments
// outside m or rejected by f are ignored.
func MonthGrid(
	aps []models.Appointment,
	m Month,
	f Filters,
	loc *time.Location,
	today DateKey,
	selected *DateKey,
) Grid {
	buckets := make(map[DateKey][]models.Appointment)
	for _, ap := range aps {
		if !f.Match(ap) {
			continue
		}
		k := KeyOf(ap.ScheduledAt, loc)
		buckets[k] = append(buckets[k], ap)
	}

	days := m.Days(loc)
	grid := Grid{
		Month:         m,
		LeadingBlanks: m.LeadingBlanks(loc),
		Cells:         make([]Cell, 0, len(days)),
	}

	for _, day := range days {
		dayAps := buckets[day]
		sortByTime(dayAps)

		cell := Cell{
			Day:      day,
			Count:    len(dayAps),
			Preview:  []models.Appointment{},
			Empty:    len(dayAps) == 0,
			Today:    day == today,
			Selected: selected != nil && *selected == day,
		}

		n := len(dayAps)
		if n > PreviewSize {
			n = PreviewSize
			cell.More = len(dayAps) - PreviewSize
		}
		cell.Preview = append(cell.Preview, dayAps[:n]...)

		grid.Cells = append(grid.Cells, cell)
	}

	return grid
}

func sortByTime(aps []models.Appointment) {
	sort.SliceStable(aps, func(i, j int) bool {
		return aps[i].ScheduledAt.Before(aps[j].ScheduledAt)
	})
}
