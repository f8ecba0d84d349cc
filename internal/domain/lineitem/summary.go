package lineitem

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/barber-desk/internal/models"
)

// Summary is what an operator confirms before an appointment is closed.
type Summary struct {
	AppointmentID uint    `json:"appointment_id"`
	ClientName    string  `json:"client_name"`
	MainService   string  `json:"main_service"`
	Services      []Item  `json:"services"`
	Products      []Item  `json:"products"`
	Total         float64 `json:"total"`
	Text          string  `json:"text"`
}

func BuildSummary(
	ap models.Appointment,
	a *Attachments,
	services []models.Service,
	inventory []models.InventoryItem,
) Summary {
	s := Summary{
		AppointmentID: ap.ID,
		ClientName:    ap.Client.Name,
		MainService:   ap.ServiceText,
		Services:      []Item{},
		Products:      []Item{},
		Total:         ComputeAdditionalTotal(a, services, inventory),
	}

	for _, it := range Items(a, services, inventory) {
		if it.Kind == KindService {
			s.Services = append(s.Services, it)
		} else {
			s.Products = append(s.Products, it)
		}
	}

	s.Text = s.render()
	return s
}

func (s Summary) render() string {
	var b strings.Builder

	b.WriteString("Resumo do Atendimento:\n\n")
	fmt.Fprintf(&b, "Cliente: %s\n", s.ClientName)
	fmt.Fprintf(&b, "Serviço Principal: %s\n\n", s.MainService)

	if len(s.Services) > 0 {
		b.WriteString("Serviços Adicionais:\n")
		for _, it := range s.Services {
			fmt.Fprintf(&b, "  - %s: %s\n", it.Name, FormatBRL(it.UnitPrice))
		}
		b.WriteString("\n")
	}

	if len(s.Products) > 0 {
		b.WriteString("Produtos:\n")
		for _, it := range s.Products {
			fmt.Fprintf(&b, "  - %s (%dx): %s\n", it.Name, it.Quantity, FormatBRL(it.Subtotal))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total Adicional: %s\n", FormatBRL(s.Total))
	return b.String()
}

func FormatBRL(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}
