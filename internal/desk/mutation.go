package desk

import (
	"slices"

	"github.com/racketdesk/stringdesk/internal/lifecycle"
	"github.com/racketdesk/stringdesk/internal/models"
)

type ChangeKind int

const (
	ChangePatch ChangeKind = iota + 1
	ChangeDelete
)

// Change is one record the order store has to learn about after a mutation.
type Change struct {
	Kind    ChangeKind
	OrderID string
	Patch   models.OrderPatch
}

// Mutation is a pure function over the order list. It returns the new list
// and the changes to propagate.
type Mutation func(orders []models.Order) ([]models.Order, []Change)

func statusChanges(changed []models.Order) []Change {
	changes := make([]Change, 0, len(changed))
	for _, order := range changed {
		status := order.Status
		changes = append(changes, Change{
			Kind:    ChangePatch,
			OrderID: order.ID,
			Patch:   models.OrderPatch{Status: &status},
		})
	}
	return changes
}

func BulkStatusMutation(ids []string, direction lifecycle.Direction) Mutation {
	return func(orders []models.Order) ([]models.Order, []Change) {
		updated, changed := lifecycle.ApplyBulk(orders, ids, direction)
		return updated, statusChanges(changed)
	}
}

func AdvanceMutation(id string) Mutation {
	return BulkStatusMutation([]string{id}, lifecycle.Advance)
}

func RevertMutation(id string) Mutation {
	return BulkStatusMutation([]string{id}, lifecycle.Revert)
}

// DeleteMutation drops the orders and asks the store to delete every requested
// id, present locally or not.
func DeleteMutation(ids ...string) Mutation {
	return func(orders []models.Order) ([]models.Order, []Change) {
		updated := slices.DeleteFunc(orders, func(order models.Order) bool {
			return slices.Contains(ids, order.ID)
		})

		changes := make([]Change, 0, len(ids))
		for _, id := range ids {
			changes = append(changes, Change{Kind: ChangeDelete, OrderID: id})
		}
		return updated, changes
	}
}

func NotesMutation(id, notes string) Mutation {
	return func(orders []models.Order) ([]models.Order, []Change) {
		var changes []Change
		for i := range orders {
			if orders[i].ID != id || orders[i].AdditionalNotes == notes {
				continue
			}
			orders[i].AdditionalNotes = notes
			changes = append(changes, Change{
				Kind:    ChangePatch,
				OrderID: id,
				Patch:   models.OrderPatch{AdditionalNotes: &notes},
			})
		}
		return orders, changes
	}
}
