// Package desk keeps the staff view of a store's orders. Local state answers
// every call immediately; the order store is updated in the background, once,
// and its failures are only logged.
package desk

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/racketdesk/stringdesk/internal/cache"
	"github.com/racketdesk/stringdesk/internal/handlers/schemas"
	"github.com/racketdesk/stringdesk/internal/lifecycle"
	"github.com/racketdesk/stringdesk/internal/middlewares/logger"
	"github.com/racketdesk/stringdesk/internal/models"
)

const propagationLimit = 8

var ErrForeignStore = errors.New("order belongs to another store")

type RemoteStore interface {
	List(ctx context.Context, storeID int64) ([]models.Order, error)
	Create(ctx context.Context, req schemas.CreateOrderRequest) (models.Order, error)
	Patch(ctx context.Context, id string, patch models.OrderPatch) error
	Delete(ctx context.Context, id string) error
}

type Cache interface {
	Load(ctx context.Context, slot string) ([]models.Order, error)
	Save(ctx context.Context, slot string, orders []models.Order) error
}

// Origin tells whether a created order reached the order store.
type Origin int

const (
	OriginRemote Origin = iota + 1
	OriginLocal
)

func (o Origin) Acknowledgement() string {
	if o == OriginLocal {
		return "Order saved locally"
	}
	return "Order submitted"
}

type Coordinator struct {
	remote RemoteStore
	cache  Cache

	mu      sync.Mutex
	storeID int64
	orders  []models.Order

	pending sync.WaitGroup

	now   func() time.Time
	newID func() string
}

func NewCoordinator(remote RemoteStore, localCache Cache, storeID int64) *Coordinator {
	return &Coordinator{
		remote:  remote,
		cache:   localCache,
		storeID: storeID,
		orders:  []models.Order{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (c *Coordinator) StoreID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storeID
}

// Load makes storeID the active store and returns its orders, newest first.
// It never fails: the order store answer replaces the cached copy, otherwise
// the cached copy is returned, otherwise an empty list.
func (c *Coordinator) Load(ctx context.Context, storeID int64) []models.Order {
	slot := cache.SlotName(storeID)

	orders, err := c.remote.List(ctx, storeID)
	if err == nil {
		if saveErr := c.cache.Save(ctx, slot, orders); saveErr != nil {
			logger.Log.Warn("failed to refresh local cache", zap.String("slot", slot), zap.Error(saveErr))
		}
	} else {
		logger.Log.Warn("using local cache fallback", zap.Int64("store_id", storeID), zap.Error(err))
		orders, err = c.cache.Load(ctx, slot)
		if err != nil {
			logger.Log.Warn("local cache is unreadable", zap.String("slot", slot), zap.Error(err))
			orders = nil
		}
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.storeID = storeID
	c.orders = orders
	return slices.Clone(orders)
}

// Mutate applies mutation to the current list, rewrites the cache slot and
// sends the resulting changes to the order store without waiting for them.
func (c *Coordinator) Mutate(ctx context.Context, mutation Mutation) []models.Order {
	c.mu.Lock()
	next, changes := mutation(slices.Clone(c.orders))
	if next == nil {
		next = []models.Order{}
	}
	c.orders = next
	c.persistLocked(ctx)
	result := slices.Clone(next)
	c.mu.Unlock()

	c.propagate(ctx, changes)
	return result
}

// Create validates req for storeID and tries the order store first. When the
// store cannot take it, the order is kept locally with a generated id.
func (c *Coordinator) Create(ctx context.Context, storeID int64, req schemas.CreateOrderRequest) (models.Order, Origin, error) {
	if err := c.checkStore(storeID); err != nil {
		return models.Order{}, 0, err
	}

	req.StoreID = storeID
	fields, err := req.Validate()
	if err != nil {
		return models.Order{}, 0, err
	}

	origin := OriginRemote
	order, err := c.remote.Create(ctx, req)
	if err != nil {
		logger.Log.Warn("order store rejected the order, saving locally", zap.Error(err))
		origin = OriginLocal
		order = c.localOrder(fields)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.storeID != storeID {
		// another store was loaded while the order store answered
		c.keepInSlot(ctx, storeID, order)
		return order, origin, nil
	}
	c.orders = slices.Insert(c.orders, 0, order)
	c.persistLocked(ctx)

	return order, origin, nil
}

func (c *Coordinator) Delete(ctx context.Context, storeID int64, id string) error {
	if err := c.checkStore(storeID); err != nil {
		return err
	}
	c.Mutate(ctx, DeleteMutation(id))
	return nil
}

func (c *Coordinator) Advance(ctx context.Context, id string) []models.Order {
	return c.Mutate(ctx, AdvanceMutation(id))
}

func (c *Coordinator) Revert(ctx context.Context, id string) []models.Order {
	return c.Mutate(ctx, RevertMutation(id))
}

func (c *Coordinator) BulkAdvance(ctx context.Context, ids []string) []models.Order {
	return c.Mutate(ctx, BulkStatusMutation(ids, lifecycle.Advance))
}

func (c *Coordinator) BulkRevert(ctx context.Context, ids []string) []models.Order {
	return c.Mutate(ctx, BulkStatusMutation(ids, lifecycle.Revert))
}

func (c *Coordinator) BulkDelete(ctx context.Context, ids []string) []models.Order {
	if len(ids) == 0 {
		return c.Orders()
	}
	return c.Mutate(ctx, DeleteMutation(ids...))
}

func (c *Coordinator) UpdateNotes(ctx context.Context, id, notes string) []models.Order {
	return c.Mutate(ctx, NotesMutation(id, notes))
}

func (c *Coordinator) Orders() []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.orders)
}

func (c *Coordinator) Find(filter lifecycle.Filter) []models.Order {
	return filter.Apply(c.Orders())
}

// Wait blocks until every background propagation started so far has ended.
func (c *Coordinator) Wait() {
	c.pending.Wait()
}

func (c *Coordinator) checkStore(storeID int64) error {
	if active := c.StoreID(); storeID != active {
		return fmt.Errorf("%w: store %d, active store %d", ErrForeignStore, storeID, active)
	}
	return nil
}

func (c *Coordinator) localOrder(fields models.NewOrder) models.Order {
	serviceType := strings.ToLower(fields.ServiceType)
	if serviceType == "" {
		serviceType = models.DefaultServiceType
	}
	return models.Order{
		ID:              c.newID(),
		CreatedAt:       c.now().UTC(),
		Status:          models.PendingStatus,
		CustomerName:    fields.CustomerName,
		ContactNumber:   fields.ContactNumber,
		Email:           deref(fields.Email),
		RacketBrand:     fields.RacketBrand,
		RacketModel:     fields.RacketModel,
		StringType:      deref(fields.StringType),
		ServiceType:     serviceType,
		AdditionalNotes: deref(fields.AdditionalNotes),
	}
}

// persistLocked must be called with c.mu held.
func (c *Coordinator) persistLocked(ctx context.Context) {
	slot := cache.SlotName(c.storeID)
	if err := c.cache.Save(ctx, slot, c.orders); err != nil {
		logger.Log.Warn("failed to write local cache", zap.String("slot", slot), zap.Error(err))
	}
}

// keepInSlot prepends order to the cached list of an inactive store.
func (c *Coordinator) keepInSlot(ctx context.Context, storeID int64, order models.Order) {
	slot := cache.SlotName(storeID)
	orders, err := c.cache.Load(ctx, slot)
	if err != nil {
		logger.Log.Warn("local cache is unreadable", zap.String("slot", slot), zap.Error(err))
		orders = nil
	}
	if err := c.cache.Save(ctx, slot, slices.Insert(orders, 0, order)); err != nil {
		logger.Log.Warn("failed to write local cache", zap.String("slot", slot), zap.Error(err))
	}
}

func (c *Coordinator) propagate(ctx context.Context, changes []Change) {
	if len(changes) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()

		var g errgroup.Group
		g.SetLimit(propagationLimit)
		for _, change := range changes {
			g.Go(func() error {
				if err := c.push(ctx, change); err != nil {
					logger.Log.Warn("order store was not updated",
						zap.String("order_id", change.OrderID),
						zap.Error(err),
					)
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}

func (c *Coordinator) push(ctx context.Context, change Change) error {
	switch change.Kind {
	case ChangePatch:
		return c.remote.Patch(ctx, change.OrderID, change.Patch)
	case ChangeDelete:
		return c.remote.Delete(ctx, change.OrderID)
	default:
		return fmt.Errorf("unknown change kind %d", change.Kind)
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
