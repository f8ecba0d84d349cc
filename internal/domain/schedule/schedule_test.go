package schedule

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/models"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func zones(t *testing.T) []*time.Location {
	return []*time.Location{
		time.UTC,
		mustLoad(t, "America/Sao_Paulo"),
		mustLoad(t, "America/Los_Angeles"),
		mustLoad(t, "Asia/Tokyo"),
		mustLoad(t, "Pacific/Kiritimati"),
		mustLoad(t, "Pacific/Pago_Pago"),
	}
}

func TestLateEveningStaysOnItsDay(t *testing.T) {
	for _, loc := range zones(t) {
		at := time.Date(2024, 3, 15, 23, 30, 0, 0, loc)
		ap := models.Appointment{ID: 1, ScheduledAt: at.UTC(), Status: string(appointment.StatusPending)}

		assert.Equal(t, DateKey("2024-03-15"), KeyOf(ap.ScheduledAt, loc), loc.String())
		assert.True(t, BelongsTo(ap, "2024-03-15", Filters{}, loc), loc.String())
		assert.False(t, BelongsTo(ap, "2024-03-16", Filters{}, loc), loc.String())
	}
}

func TestKeyOfAcrossDSTTransition(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	at := time.Date(2024, 3, 10, 0, 30, 0, 0, ny)

	assert.Equal(t, DateKey("2024-03-10"), KeyOf(at, ny))
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("2024-02-29", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, DateKey("2024-02-29"), k)

	_, err = ParseKey("2024-02-30", time.UTC)
	assert.Error(t, err)

	assert.True(t, DateKey("garbage").Time(time.UTC).IsZero())
}

func TestMonthAddIsNonLossy(t *testing.T) {
	m := Month{Year: 2024, Month: time.January}

	assert.Equal(t, Month{Year: 2023, Month: time.December}, m.Prev())
	assert.Equal(t, Month{Year: 2024, Month: time.February}, m.Next())
	assert.Equal(t, m, m.Next().Prev())
	assert.Equal(t, m, m.Prev().Next())
	assert.Equal(t, Month{Year: 2025, Month: time.March}, m.Add(14))
	assert.Equal(t, Month{Year: 2022, Month: time.November}, m.Add(-14))
}

func TestMonthDays(t *testing.T) {
	feb := Month{Year: 2024, Month: time.February}

	days := feb.Days(time.UTC)
	require.Len(t, days, 29)
	assert.Equal(t, DateKey("2024-02-01"), days[0])
	assert.Equal(t, DateKey("2024-02-29"), days[28])
	assert.Equal(t, 4, feb.LeadingBlanks(time.UTC))

	assert.True(t, feb.Contains("2024-02-10", time.UTC))
	assert.False(t, feb.Contains("2024-03-01", time.UTC))
}

func TestViewNavigationKeepsSelection(t *testing.T) {
	sp := mustLoad(t, "America/Sao_Paulo")
	v := NewView(time.Date(2024, 3, 15, 10, 0, 0, 0, sp), sp)

	require.True(t, v.SelectDay(time.Date(2024, 3, 15, 8, 0, 0, 0, sp)))
	original := v.Cursor

	v.NavigateMonth(Forward)
	assert.Equal(t, Month{Year: 2024, Month: time.April}, v.Cursor)
	v.NavigateMonth(Backward)

	assert.Equal(t, original, v.Cursor)
	key, ok := v.SelectedKey()
	require.True(t, ok)
	assert.Equal(t, DateKey("2024-03-15"), key)
}

func TestViewSelectOutsideMonthIsIgnored(t *testing.T) {
	v := NewView(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), time.UTC)

	assert.False(t, v.SelectKey("2024-04-01"))
	_, ok := v.SelectedKey()
	assert.False(t, ok)

	assert.True(t, v.SelectKey("2024-03-31"))
	v.ClearSelection()
	_, ok = v.SelectedKey()
	assert.False(t, ok)
}

func sample(loc *time.Location) []models.Appointment {
	at := func(day, hour int) time.Time { return time.Date(2024, 3, day, hour, 0, 0, 0, loc) }
	return []models.Appointment{
		{ID: 1, BarberID: 1, Status: "PENDING", ScheduledAt: at(15, 16)},
		{ID: 2, BarberID: 2, Status: "CONFIRMED", ScheduledAt: at(15, 9)},
		{ID: 3, BarberID: 1, Status: "DONE", ScheduledAt: at(15, 11)},
		{ID: 4, BarberID: 1, Status: "PENDING", ScheduledAt: at(15, 14)},
		{ID: 5, BarberID: 2, Status: "PENDING", ScheduledAt: at(20, 10)},
		{ID: 6, BarberID: 2, Status: "PENDING", ScheduledAt: time.Date(2024, 4, 1, 10, 0, 0, 0, loc)},
	}
}

func ids(aps []models.Appointment) []uint {
	out := []uint{}
	for _, ap := range aps {
		out = append(out, ap.ID)
	}
	return out
}

func TestDayAgendaFiltersAndSorts(t *testing.T) {
	aps := sample(time.UTC)

	assert.Equal(t, []uint{2, 3, 4, 1}, ids(DayAgenda(aps, "2024-03-15", Filters{}, time.UTC)))
	assert.Equal(t, []uint{4, 1}, ids(DayAgenda(aps, "2024-03-15", Filters{Status: "PENDING"}, time.UTC)))
	assert.Equal(t, []uint{3, 4, 1}, ids(DayAgenda(aps, "2024-03-15", Filters{BarberID: 1}, time.UTC)))
	assert.Equal(t, []uint{3}, ids(DayAgenda(aps, "2024-03-15", Filters{BarberID: 1, Status: "DONE"}, time.UTC)))

	empty := DayAgenda(aps, "2024-03-16", Filters{}, time.UTC)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMonthGrid(t *testing.T) {
	aps := sample(time.UTC)
	selected := DateKey("2024-03-20")

	grid := MonthGrid(aps, Month{Year: 2024, Month: time.March}, Filters{}, time.UTC, "2024-03-15", &selected)

	require.Len(t, grid.Cells, 31)
	assert.Equal(t, 5, grid.LeadingBlanks)

	cell := grid.Cells[14]
	assert.Equal(t, DateKey("2024-03-15"), cell.Day)
	assert.Equal(t, 4, cell.Count)
	assert.Equal(t, []uint{2, 3}, ids(cell.Preview))
	assert.Equal(t, 2, cell.More)
	assert.True(t, cell.Today)
	assert.False(t, cell.Selected)

	cell = grid.Cells[19]
	assert.Equal(t, 1, cell.Count)
	assert.Equal(t, 0, cell.More)
	assert.True(t, cell.Selected)

	total := 0
	for _, c := range grid.Cells {
		total += c.Count
	}
	assert.Equal(t, 5, total)
}

func TestMonthGridAppliesFilters(t *testing.T) {
	grid := MonthGrid(sample(time.UTC), Month{Year: 2024, Month: time.March}, Filters{BarberID: 2}, time.UTC, "", nil)

	assert.Equal(t, 1, grid.Cells[14].Count)
	assert.Equal(t, 1, grid.Cells[19].Count)
}

func TestPeriodsAtUseLocalCalendar(t *testing.T) {
	sp := mustLoad(t, "America/Sao_Paulo")

	// 2024-01-01 23:00 in São Paulo, a Monday, already Jan 2 in UTC
	now := time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC)
	p := PeriodsAt(now, sp)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, sp), p.Day.Start)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, sp), p.Day.End)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, sp), p.Week.Start)
	assert.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, sp), p.Week.End)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, sp), p.Month.End)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, sp), p.Year.End)

	span := p.Span()
	assert.Equal(t, p.Week.Start, span.Start)
	assert.Equal(t, p.Year.End, span.End)

	assert.True(t, p.Day.Contains(now))
	assert.False(t, p.Day.Contains(p.Day.End))
	assert.False(t, p.Year.Contains(p.Week.Start))
	assert.True(t, p.Week.Contains(p.Week.Start))
}
