package lifecycle

import (
	"strings"

	"github.com/racketdesk/stringdesk/internal/models"
)

// AllStatuses disables status filtering in Filter.
const AllStatuses = "all"

type Filter struct {
	Status string
	Search string
}

func (f Filter) Match(order models.Order) bool {
	if f.Status != "" && f.Status != AllStatuses && string(order.Status) != f.Status {
		return false
	}

	query := strings.ToLower(strings.TrimSpace(f.Search))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(order.CustomerName), query) ||
		strings.Contains(strings.ToLower(order.RacketModel), query) ||
		strings.Contains(strings.ToLower(order.RacketBrand), query)
}

func (f Filter) Apply(orders []models.Order) []models.Order {
	result := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if f.Match(order) {
			result = append(result, order)
		}
	}
	return result
}

// CountByStatus has an entry for every status in the sequence, including zeros.
func CountByStatus(orders []models.Order) map[models.OrderStatus]int {
	counts := make(map[models.OrderStatus]int, len(models.StatusSequence))
	for _, status := range models.StatusSequence {
		counts[status] = 0
	}
	for _, order := range orders {
		if order.Status.IsValid() {
			counts[order.Status]++
		}
	}
	return counts
}
