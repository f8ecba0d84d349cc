package dto

import (
	"github.com/BruksfildServices01/barber-desk/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-desk/internal/models"
)

type DayCellDTO struct {
	Day      string           `json:"day"`
	Count    int              `json:"count"`
	Preview  []AppointmentDTO `json:"preview"`
	More     int              `json:"more"`
	Empty    bool             `json:"empty"`
	Today    bool             `json:"today"`
	Selected bool             `json:"selected"`
}

// MonthViewDTO is the month grid plus, when a day is selected, that day's
// agenda. AgendaEmpty is set when a selected day has nothing to show.
type MonthViewDTO struct {
	Timezone      string       `json:"timezone"`
	Year          int          `json:"year"`
	Month         int          `json:"month"`
	LeadingBlanks int          `json:"leading_blanks"`
	Today         string       `json:"today"`
	Cells         []DayCellDTO `json:"cells"`

	Selected    *string          `json:"selected,omitempty"`
	Agenda      []AppointmentDTO `json:"agenda"`
	AgendaEmpty bool             `json:"agenda_empty"`
}

func MonthView(
	tz string,
	today schedule.DateKey,
	grid schedule.Grid,
	selected *schedule.DateKey,
	agenda []models.Appointment,
) MonthViewDTO {

	out := MonthViewDTO{
		Timezone:      tz,
		Year:          grid.Month.Year,
		Month:         int(grid.Month.Month),
		LeadingBlanks: grid.LeadingBlanks,
		Today:         today.String(),
		Cells:         make([]DayCellDTO, 0, len(grid.Cells)),
		Agenda:        []AppointmentDTO{},
	}

	for _, c := range grid.Cells {
		out.Cells = append(out.Cells, DayCellDTO{
			Day:      c.Day.String(),
			Count:    c.Count,
			Preview:  Appointments(c.Preview),
			More:     c.More,
			Empty:    c.Empty,
			Today:    c.Today,
			Selected: c.Selected,
		})
	}

	if selected != nil {
		s := selected.String()
		out.Selected = &s
		out.Agenda = Appointments(agenda)
		out.AgendaEmpty = len(agenda) == 0
	}

	return out
}
