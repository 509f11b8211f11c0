package desk

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/racketdesk/stringdesk/internal/cache"
	"github.com/racketdesk/stringdesk/internal/customerror"
	"github.com/racketdesk/stringdesk/internal/handlers/schemas"
	"github.com/racketdesk/stringdesk/internal/lifecycle"
	"github.com/racketdesk/stringdesk/internal/models"
)

var errUnreachable = errors.New("dial tcp: connection refused")

type MockRemoteStore struct {
	mock.Mock
}

func (m *MockRemoteStore) List(ctx context.Context, storeID int64) ([]models.Order, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockRemoteStore) Create(ctx context.Context, req schemas.CreateOrderRequest) (models.Order, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *MockRemoteStore) Patch(ctx context.Context, id string, patch models.OrderPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockRemoteStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// memCache is an in-memory Cache that can be told to fail.
type memCache struct {
	mu      sync.Mutex
	slots   map[string][]models.Order
	saves   int
	loadErr error
	saveErr error
}

func newMemCache() *memCache {
	return &memCache{slots: map[string][]models.Order{}}
}

func (c *memCache) Load(_ context.Context, slot string) ([]models.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	orders, ok := c.slots[slot]
	if !ok {
		return []models.Order{}, nil
	}
	return append([]models.Order(nil), orders...), nil
}

func (c *memCache) Save(_ context.Context, slot string, orders []models.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.saves++
	c.slots[slot] = append([]models.Order(nil), orders...)
	return nil
}

func (c *memCache) slot(storeID int64) []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots[cache.SlotName(storeID)]
}

func sampleOrders() []models.Order {
	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	return []models.Order{
		{ID: "3", CreatedAt: base.Add(2 * time.Hour), Status: models.PickedUpStatus, CustomerName: "Venus", RacketBrand: "Wilson", RacketModel: "Blade"},
		{ID: "2", CreatedAt: base.Add(time.Hour), Status: models.PendingStatus, CustomerName: "Stan", RacketBrand: "Yonex", RacketModel: "VCORE"},
		{ID: "1", CreatedAt: base, Status: models.PendingStatus, CustomerName: "Kim", RacketBrand: "Head", RacketModel: "Prestige"},
	}
}

func loadedCoordinator(t *testing.T, remote *MockRemoteStore, localCache Cache) *Coordinator {
	t.Helper()
	remote.On("List", mock.Anything, int64(1)).Return(sampleOrders(), nil).Once()
	c := NewCoordinator(remote, localCache, 1)
	require.Len(t, c.Load(context.Background(), 1), 3)
	return c
}

func statusPatch(status models.OrderStatus) models.OrderPatch {
	return models.OrderPatch{Status: &status}
}

func TestCoordinator_Load_MirrorsRemote(t *testing.T) {
	remote := new(MockRemoteStore)
	localCache := newMemCache()
	localCache.slots[cache.SlotName(1)] = []models.Order{{ID: "stale"}}
	remote.On("List", mock.Anything, int64(1)).Return(sampleOrders(), nil)

	orders := NewCoordinator(remote, localCache, 1).Load(context.Background(), 1)

	assert.Empty(t, cmp.Diff(sampleOrders(), orders))
	assert.Empty(t, cmp.Diff(sampleOrders(), localCache.slot(1)))
	remote.AssertExpectations(t)
}

func TestCoordinator_Load_UnreachableReturnsCachedList(t *testing.T) {
	remote := new(MockRemoteStore)
	localCache := newMemCache()
	cached := sampleOrders()
	localCache.slots[cache.SlotName(1)] = cached
	localCache.slots[cache.SlotName(2)] = []models.Order{{ID: "other-store"}}
	remote.On("List", mock.Anything, int64(1)).Return(nil, errUnreachable)

	var orders []models.Order
	require.NotPanics(t, func() {
		orders = NewCoordinator(remote, localCache, 1).Load(context.Background(), 1)
	})

	assert.Empty(t, cmp.Diff(cached, orders))
	assert.Empty(t, cmp.Diff(cached, localCache.slot(1)))
	assert.Equal(t, 0, localCache.saves)
}

func TestCoordinator_Load_UnreachableAndEmptyCache(t *testing.T) {
	remote := new(MockRemoteStore)
	remote.On("List", mock.Anything, int64(5)).Return(nil, errUnreachable)

	orders := NewCoordinator(remote, newMemCache(), 5).Load(context.Background(), 5)

	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestCoordinator_Load_UnreachableAndUnreadableCache(t *testing.T) {
	remote := new(MockRemoteStore)
	localCache := newMemCache()
	localCache.loadErr = errors.New("slot is corrupted")
	remote.On("List", mock.Anything, int64(1)).Return(nil, errUnreachable)

	orders := NewCoordinator(remote, localCache, 1).Load(context.Background(), 1)

	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestCoordinator_Load_SwitchesActiveStore(t *testing.T) {
	remote := new(MockRemoteStore)
	remote.On("List", mock.Anything, int64(2)).Return([]models.Order{{ID: "9"}}, nil)

	c := NewCoordinator(remote, newMemCache(), 1)
	c.Load(context.Background(), 2)

	assert.Equal(t, int64(2), c.StoreID())
	assert.Len(t, c.Orders(), 1)
}

func TestCoordinator_Load_SaveFailureIsSwallowed(t *testing.T) {
	remote := new(MockRemoteStore)
	localCache := newMemCache()
	localCache.saveErr = errors.New("disk full")
	remote.On("List", mock.Anything, int64(1)).Return(sampleOrders(), nil)

	orders := NewCoordinator(remote, localCache, 1).Load(context.Background(), 1)

	assert.Len(t, orders, 3)
}

func TestCoordinator_Advance(t *testing.T) {
	defer goleak.VerifyNone(t)

	remote := new(MockRemoteStore)
	localCache := newMemCache()
	c := loadedCoordinator(t, remote, localCache)
	remote.On("Patch", mock.Anything, "2", statusPatch(models.InProgressStatus)).Return(nil).Once()

	orders := c.Advance(context.Background(), "2")
	c.Wait()

	assert.Equal(t, models.InProgressStatus, orders[1].Status)
	assert.Equal(t, models.InProgressStatus, localCache.slot(1)[1].Status)
	remote.AssertExpectations(t)
}

func TestCoordinator_Advance_TerminalIsNoOp(t *testing.T) {
	defer goleak.VerifyNone(t)

	remote := new(MockRemoteStore)
	localCache := newMemCache()
	c := loadedCoordinator(t, remote, localCache)

	orders := c.Advance(context.Background(), "3")
	c.Wait()

	assert.Empty(t, cmp.Diff(sampleOrders(), orders))
	remote.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything, mock.Anything)
}

func TestCoordinator_Revert_InitialIsNoOp(t *testing.T) {
	remote := new(MockRemoteStore)
	c := loadedCoordinator(t, remote, newMemCache())

	orders := c.Revert(context.Background(), "1")
	c.Wait()

	assert.Equal(t, models.PendingStatus, orders[2].Status)
	remote.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything, mock.Anything)
}

func TestCoordinator_Revert(t *testing.T) {
	remote := new(MockRemoteStore)
	c := loadedCoordinator(t, remote, newMemCache())
	remote.On("Patch", mock.Anything, "3", statusPatch(models.ReadyStatus)).Return(nil).Once()

	orders := c.Revert(context.Background(), "3")
	c.Wait()

	assert.Equal(t, models.ReadyStatus, orders[0].Status)
	remote.AssertExpectations(t)
}

func TestCoordinator_BulkAdvance_MixedSelection(t *testing.T) {
	defer goleak.VerifyNone(t)

	remote := new(MockRemoteStore)
	localCache := newMemCache()
	c := loadedCoordinator(t, remote, localCache)
	remote.On("Patch", mock.Anything, "2", statusPatch(models.InProgressStatus)).Return(nil).Once()
	remote.On("Patch", mock.Anything, "1", statusPatch(models.InProgressStatus)).Return(nil).Once()

	orders := c.BulkAdvance(context.Background(), []string{"3", "2", "1"})
	c.Wait()

	assert.Equal(t, models.PickedUpStatus, orders[0].Status)
	assert.Equal(t, models.InProgressStatus, orders[1].Status)
	assert.Equal(t, models.InProgressStatus, orders[2].Status)
	remote.AssertExpectations(t)
	remote.AssertNumberOfCalls(t, "Patch", 2)
	assert.Empty(t, cmp.Diff(orders, localCache.slot(1)))
}

func TestCoordinator_RemoteFailureDoesNotRollBack(t *testing.T) {
	defer goleak.VerifyNone(t)

	remote := new(MockRemoteStore)
	localCache := newMemCache()
	c := loadedCoordinator(t, remote, localCache)
	remote.On("Patch", mock.Anything, "2", mock.Anything).Return(errUnreachable).Once()

	orders := c.Advance(context.Background(), "2")
	c.Wait()

	assert.Equal(t, models.InProgressStatus, orders[1].Status)
	assert.Equal(t, models.InProgressStatus, c.Orders()[1].Status)
	assert.Equal(t, models.InProgressStatus, localCache.slot(1)[1].Status)
}

func TestCoordinator_CacheWriteFailureIsSwallowed(t *testing.T) {
	remote := new(MockRemoteStore)
	localCache := newMemCache()
	c := loadedCoordinator(t, remote, localCache)
	localCache.saveErr = errors.New("read-only file system")
	remote.On("Patch", mock.Anything, "1", mock.Anything).Return(nil).Once()

	orders := c.Advance(context.Background(), "1")
	c.Wait()

	assert.Equal(t, models.InProgressStatus, orders[2].Status)
	assert.Equal(t, models.PendingStatus, localCache.slot(1)[2].Status)
}

func TestCoordinator_Delete(t *testing.T) {
	defer goleak.VerifyNone(t)

	remote := new(MockRemoteStore)
	localCache := newMemCache()
	c := loadedCoordinator(t, remote, localCache)
	remote.On("Delete", mock.Anything, "2").Return(errUnreachable).Once()

	require.NoError(t, c.Delete(context.Background(), 1, "2"))
	c.Wait()

	ids := []string{}
	for _, order := range localCache.slot(1) {
		ids = append(ids, order.ID)
	}
	assert.Equal(t, []string{"3", "1"}, ids)
	assert.Len(t, c.Orders(), 2)
	remote.AssertExpectations(t)
}

func TestCoordinator_Delete_ForeignStore(t *testing.T) {
	remote := new(MockRemoteStore)
	c := loadedCoordinator(t, remote, newMemCache())

	err := c.Delete(context.Background(), 2, "1")

	assert.ErrorIs(t, err, ErrForeignStore)
	assert.Len(t, c.Orders(), 3)
	remote.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCoordinator_BulkDelete(t *testing.T) {
	remote := new(MockRemoteStore)
	c := loadedCoordinator(t, remote, newMemCache())
	remote.On("Delete", mock.Anything, "1").Return(nil).Once()
	remote.On("Delete", mock.Anything, "3").Return(nil).Once()

	orders := c.BulkDelete(context.Background(), []string{"1", "3"})
	c.Wait()

	require.Len(t, orders, 1)
	assert.Equal(t, "2", orders[0].ID)
	remote.AssertExpectations(t)
}

func TestCoordinator_BulkDelete_EmptySelection(t *testing.T) {
	remote := new(MockRemoteStore)
	localCache := newMemCache()
	c := loadedCoordinator(t, remote, localCache)
	saves := localCache.saves

	orders := c.BulkDelete(context.Background(), nil)

	assert.Len(t, orders, 3)
	assert.Equal(t, saves, localCache.saves)
}

func TestCoordinator_UpdateNotes(t *testing.T) {
	remote := new(MockRemoteStore)
	c := loadedCoordinator(t, remote, newMemCache())
	notes := "58 lbs, pre-stretch"
	remote.On("Patch", mock.Anything, "1", models.OrderPatch{AdditionalNotes: &notes}).Return(nil).Once()

	orders := c.UpdateNotes(context.Background(), "1", notes)
	c.Wait()

	assert.Equal(t, notes, orders[2].AdditionalNotes)
	remote.AssertExpectations(t)

	c.UpdateNotes(context.Background(), "1", notes)
	c.Wait()
	remote.AssertNumberOfCalls(t, "Patch", 1)
}

func validRequest() schemas.CreateOrderRequest {
	return schemas.CreateOrderRequest{
		CustomerName:  "Casper",
		ContactNumber: "555-3131",
		RacketBrand:   "Babolat",
		RacketModel:   "Pure Drive",
	}
}

func TestCoordinator_Create_Remote(t *testing.T) {
	remote := new(MockRemoteStore)
	localCache := newMemCache()
	c := loadedCoordinator(t, remote, localCache)

	stored := models.Order{ID: "812", Status: models.PendingStatus, CustomerName: "Casper", ServiceType: "standard"}
	remote.On("Create", mock.Anything, mock.MatchedBy(func(req schemas.CreateOrderRequest) bool {
		return req.StoreID == 1 && req.CustomerName == "Casper"
	})).Return(stored, nil).Once()

	order, origin, err := c.Create(context.Background(), 1, validRequest())

	require.NoError(t, err)
	assert.Equal(t, OriginRemote, origin)
	assert.Equal(t, "Order submitted", origin.Acknowledgement())
	assert.Equal(t, "812", order.ID)
	assert.Equal(t, "812", localCache.slot(1)[0].ID)
	assert.Len(t, c.Orders(), 4)
	remote.AssertExpectations(t)
}

func TestCoordinator_Create_LocalFallback(t *testing.T) {
	remote := new(MockRemoteStore)
	localCache := newMemCache()
	c := loadedCoordinator(t, remote, localCache)
	now := time.Date(2025, 8, 1, 15, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return now }
	remote.On("Create", mock.Anything, mock.Anything).Return(models.Order{}, errUnreachable).Once()

	req := validRequest()
	notes := "needs grip"
	req.AdditionalNotes = &notes
	order, origin, err := c.Create(context.Background(), 1, req)

	require.NoError(t, err)
	assert.Equal(t, OriginLocal, origin)
	assert.Equal(t, "Order saved locally", origin.Acknowledgement())
	_, parseErr := uuid.Parse(order.ID)
	assert.NoError(t, parseErr)
	for _, existing := range sampleOrders() {
		assert.NotEqual(t, existing.ID, order.ID)
	}
	assert.Equal(t, models.PendingStatus, order.Status)
	assert.Equal(t, now, order.CreatedAt)
	assert.Equal(t, "standard", order.ServiceType)
	assert.Equal(t, "needs grip", order.AdditionalNotes)
	assert.Equal(t, order, localCache.slot(1)[0])
}

func TestCoordinator_Create_LocalFallbackEmptyServiceType(t *testing.T) {
	remote := new(MockRemoteStore)
	c := loadedCoordinator(t, remote, newMemCache())
	remote.On("Create", mock.Anything, mock.Anything).Return(models.Order{}, errUnreachable).Once()

	req := validRequest()
	empty := ""
	req.ServiceType = &empty
	order, _, err := c.Create(context.Background(), 1, req)

	require.NoError(t, err)
	assert.Equal(t, models.DefaultServiceType, order.ServiceType)
}

func TestCoordinator_Create_ValidationError(t *testing.T) {
	remote := new(MockRemoteStore)
	localCache := newMemCache()
	c := loadedCoordinator(t, remote, localCache)
	saves := localCache.saves

	req := validRequest()
	req.CustomerName = ""
	_, _, err := c.Create(context.Background(), 1, req)

	var validationErr *customerror.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "customerName")
	assert.Len(t, c.Orders(), 3)
	assert.Len(t, localCache.slot(1), 3)
	assert.Equal(t, saves, localCache.saves)
	remote.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCoordinator_Create_ForeignStore(t *testing.T) {
	remote := new(MockRemoteStore)
	c := loadedCoordinator(t, remote, newMemCache())

	_, _, err := c.Create(context.Background(), 7, validRequest())

	assert.ErrorIs(t, err, ErrForeignStore)
}

func TestCoordinator_Create_StoreSwitchedDuringCreate(t *testing.T) {
	remote := new(MockRemoteStore)
	localCache := newMemCache()
	c := loadedCoordinator(t, remote, localCache)
	remote.On("List", mock.Anything, int64(2)).Return([]models.Order{{ID: "200"}}, nil).Once()

	stored := models.Order{ID: "813", Status: models.PendingStatus, CustomerName: "Casper"}
	remote.On("Create", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { c.Load(context.Background(), 2) }).
		Return(stored, nil).Once()

	order, origin, err := c.Create(context.Background(), 1, validRequest())

	require.NoError(t, err)
	assert.Equal(t, OriginRemote, origin)
	assert.Equal(t, int64(2), c.StoreID())
	assert.Equal(t, []models.Order{{ID: "200"}}, c.Orders())
	assert.Equal(t, []models.Order{{ID: "200"}}, localCache.slot(2))
	require.Len(t, localCache.slot(1), 4)
	assert.Equal(t, order, localCache.slot(1)[0])
	remote.AssertExpectations(t)
}

func TestCoordinator_Find(t *testing.T) {
	remote := new(MockRemoteStore)
	c := loadedCoordinator(t, remote, newMemCache())

	found := c.Find(lifecycle.Filter{Status: "pending", Search: "yonex"})

	require.Len(t, found, 1)
	assert.Equal(t, "2", found[0].ID)
}

func TestCoordinator_WithSQLiteCache(t *testing.T) {
	localCache, err := cache.Open(filepath.Join(t.TempDir(), "desk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { localCache.Close() })

	online := new(MockRemoteStore)
	online.On("List", mock.Anything, int64(1)).Return(sampleOrders(), nil).Once()
	online.On("Patch", mock.Anything, "1", mock.Anything).Return(nil).Once()

	c := NewCoordinator(online, localCache, 1)
	c.Load(context.Background(), 1)
	c.Advance(context.Background(), "1")
	c.Wait()

	offline := new(MockRemoteStore)
	offline.On("List", mock.Anything, int64(1)).Return(nil, errUnreachable)

	restarted := NewCoordinator(offline, localCache, 1)
	orders := restarted.Load(context.Background(), 1)

	require.Len(t, orders, 3)
	assert.Equal(t, models.InProgressStatus, orders[2].Status)
	assert.Equal(t, "Kim", orders[2].CustomerName)
}
