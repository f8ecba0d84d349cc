package lineitem

import (
	"strings"

	"github.com/BruksfildServices01/barber-desk/internal/models"
)

// ServiceSeparator joins service names in an appointment's service text.
const ServiceSeparator = " + "

// DeriveServicesFromText splits text on '+', trims every fragment and matches
// it case-insensitively against the catalog by exact name. Each catalog
// service is returned at most once, in order of first appearance in text.
// Fragments without a match are returned in unmatched and never fail the
// call.
func DeriveServicesFromText(text string, catalog []models.Service) (ids []uint, unmatched []string) {
	byName := make(map[string]uint, len(catalog))
	for _, s := range catalog {
		key := normalizeName(s.Name)
		if _, taken := byName[key]; !taken {
			byName[key] = s.ID
		}
	}

	seen := make(map[uint]struct{})
	for _, fragment := range strings.Split(text, "+") {
		name := strings.TrimSpace(fragment)
		if name == "" {
			continue
		}

		id, ok := byName[normalizeName(name)]
		if !ok {
			unmatched = append(unmatched, name)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, unmatched
}

// JoinServiceNames folds selected service ids back into service text.
// Ids missing from the catalog are skipped.
func JoinServiceNames(ids []uint, catalog []models.Service) string {
	byID := indexServices(catalog)

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			names = append(names, strings.TrimSpace(s.Name))
		}
	}
	return strings.Join(names, ServiceSeparator)
}

// ActiveServices keeps only active catalog entries, preserving order.
func ActiveServices(catalog []models.Service) []models.Service {
	out := make([]models.Service, 0, len(catalog))
	for _, s := range catalog {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func indexServices(catalog []models.Service) map[uint]models.Service {
	out := make(map[uint]models.Service, len(catalog))
	for _, s := range catalog {
		out[s.ID] = s
	}
	return out
}
