// Package lifecycle moves orders through models.StatusSequence. It performs no I/O.
package lifecycle

import (
	"slices"

	"github.com/racketdesk/stringdesk/internal/models"
)

type Direction int

const (
	Advance Direction = iota + 1
	Revert
)

func (d Direction) String() string {
	switch d {
	case Advance:
		return "advance"
	case Revert:
		return "revert"
	default:
		return "unknown"
	}
}

// NextStatus reports false at the terminal status or for a status outside the sequence.
func NextStatus(current models.OrderStatus) (models.OrderStatus, bool) {
	idx := slices.Index(models.StatusSequence, current)
	if idx == -1 || idx == len(models.StatusSequence)-1 {
		return "", false
	}
	return models.StatusSequence[idx+1], true
}

// PreviousStatus reports false at the initial status or for a status outside the sequence.
func PreviousStatus(current models.OrderStatus) (models.OrderStatus, bool) {
	idx := slices.Index(models.StatusSequence, current)
	if idx <= 0 {
		return "", false
	}
	return models.StatusSequence[idx-1], true
}

// AdvanceOrder returns order unchanged when it is already picked up.
func AdvanceOrder(order models.Order) models.Order {
	if next, ok := NextStatus(order.Status); ok {
		order.Status = next
	}
	return order
}

// RevertOrder returns order unchanged when it is still pending.
func RevertOrder(order models.Order) models.Order {
	if prev, ok := PreviousStatus(order.Status); ok {
		order.Status = prev
	}
	return order
}

func Apply(order models.Order, direction Direction) models.Order {
	switch direction {
	case Advance:
		return AdvanceOrder(order)
	case Revert:
		return RevertOrder(order)
	default:
		return order
	}
}

// ApplyBulk moves every order whose id is in ids one step in direction.
// changed holds only the orders whose status actually moved, in input order.
func ApplyBulk(orders []models.Order, ids []string, direction Direction) (updated []models.Order, changed []models.Order) {
	selected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}

	updated = make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if _, ok := selected[order.ID]; !ok {
			updated = append(updated, order)
			continue
		}
		next := Apply(order, direction)
		if next.Status != order.Status {
			changed = append(changed, next)
		}
		updated = append(updated, next)
	}
	return updated, changed
}
