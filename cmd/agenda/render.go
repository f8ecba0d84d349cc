package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
	"github.com/BruksfildServices01/barber-desk/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-desk/internal/desk"
	"github.com/BruksfildServices01/barber-desk/internal/models"
)

var weekdays = []string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

const cellWidth = 8

// printGrid draws a Sunday-first month grid. Each cell shows the day, a
// marker for today (*) or the selected day (>) and the appointment count.
func printGrid(out io.Writer, g schedule.Grid) {
	fmt.Fprintf(out, "%d-%02d\n", g.Month.Year, int(g.Month.Month))

	for _, d := range weekdays {
		fmt.Fprintf(out, "%-*s", cellWidth, d)
	}
	fmt.Fprintln(out)

	col := 0
	for ; col < g.LeadingBlanks; col++ {
		fmt.Fprint(out, strings.Repeat(" ", cellWidth))
	}

	for _, c := range g.Cells {
		mark := " "
		switch {
		case c.Selected:
			mark = ">"
		case c.Today:
			mark = "*"
		}

		label := mark + string(c.Day)[8:]
		if c.Count > 0 {
			label += fmt.Sprintf("(%d)", c.Count)
		}
		fmt.Fprintf(out, "%-*s", cellWidth, label)

		col++
		if col%7 == 0 {
			fmt.Fprintln(out)
		}
	}
	if col%7 != 0 {
		fmt.Fprintln(out)
	}
}

func printAgenda(ctx context.Context, out io.Writer, ws *desk.Workspace, agenda []models.Appointment) {
	day, _ := ws.Selected()
	fmt.Fprintf(out, "\nAgenda de %s\n", day)

	if len(agenda) == 0 {
		fmt.Fprintln(out, "  Nenhum agendamento para este dia.")
		return
	}

	for _, ap := range agenda {
		fmt.Fprintf(out, "  #%d %s  %-11s %s com %s: %s\n",
			ap.ID,
			ap.ScheduledAt.In(ws.Location()).Format("15:04"),
			ap.Status,
			ap.Client.Name,
			ap.Barber.Name,
			ap.ServiceText,
		)

		if total, err := ws.Total(ctx, ap.ID); err == nil && total > 0 {
			fmt.Fprintf(out, "      adicional: %s\n", lineitem.FormatBRL(total))
		}

		actions := ws.Actions(ap.ID)
		if len(actions) > 0 {
			names := make([]string, 0, len(actions))
			for _, a := range actions {
				names = append(names, string(a))
			}
			fmt.Fprintf(out, "      ações: %s\n", strings.Join(names, ", "))
		}
	}
}
