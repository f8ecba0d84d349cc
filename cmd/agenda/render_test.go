package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-desk/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-desk/internal/models"
)

func TestPrintGrid(t *testing.T) {
	loc := time.UTC
	selected := schedule.DateKey("2024-03-15")
	aps := []models.Appointment{
		{ID: 1, ScheduledAt: time.Date(2024, 3, 15, 10, 0, 0, 0, loc)},
		{ID: 2, ScheduledAt: time.Date(2024, 3, 15, 11, 0, 0, 0, loc)},
	}

	g := schedule.MonthGrid(aps, schedule.Month{Year: 2024, Month: time.March}, schedule.Filters{}, loc, "2024-03-10", &selected)

	var buf bytes.Buffer
	printGrid(&buf, g)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2+6)
	assert.Equal(t, "2024-03", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Dom"))
	assert.Equal(t, strings.Repeat(" ", 5*cellWidth)+" 01      02", strings.TrimRight(lines[2], " "))
	assert.Contains(t, buf.String(), "*10")
	assert.Contains(t, buf.String(), ">15(2)")
}
