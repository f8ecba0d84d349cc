package dto

// PeriodCountsDTO holds one counter for the current day, week, month and
// year in the barbershop timezone.
type PeriodCountsDTO struct {
	Day   int `json:"day"`
	Week  int `json:"week"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

type DashboardMetricsDTO struct {
	Timezone string `json:"timezone"`

	// ClientsServed counts distinct clients with a finished appointment.
	ClientsServed PeriodCountsDTO `json:"clients_served"`
	Appointments  PeriodCountsDTO `json:"appointments"`
}
