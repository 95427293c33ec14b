package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/ledger"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ConditionalTransition(
	ctx context.Context,
	id kernel.UUID,
	expected, next order.Status,
	fields order.TransitionFields,
) (int64, error) {
	args := m.Called(ctx, id, expected, next, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) AppendStatusChange(ctx context.Context, change order.StatusChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) ListByCourier(
	ctx context.Context,
	courierID kernel.UUID,
	statuses ...order.Status,
) ([]*order.Order, error) {
	args := m.Called(ctx, courierID, statuses)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) ListCompletedWithoutEarning(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockLedgerRepository struct{ mock.Mock }

func (m *MockLedgerRepository) Append(ctx context.Context, entry ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) AdjustBalance(
	ctx context.Context,
	userID kernel.UUID,
	delta kernel.Money,
	floor *kernel.Money,
) (bool, error) {
	args := m.Called(ctx, userID, delta, floor)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) GetBalance(ctx context.Context, userID kernel.UUID) (kernel.Money, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(kernel.Money), args.Error(1)
}

func (m *MockLedgerRepository) ListHistory(ctx context.Context, userID kernel.UUID, limit int) ([]ledger.Entry, error) {
	args := m.Called(ctx, userID, limit)
	entries, _ := args.Get(0).([]ledger.Entry)
	return entries, args.Error(1)
}

func (m *MockLedgerRepository) HasOrderEarning(ctx context.Context, orderID kernel.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) GetRole(ctx context.Context, userID kernel.UUID) (account.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(account.Role), args.Error(1)
}

func (m *MockAccountRepository) PromoteToCourier(ctx context.Context, userID kernel.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type MockStoreRepository struct{ mock.Mock }

func (m *MockStoreRepository) OwnerOf(ctx context.Context, storeID kernel.UUID) (kernel.UUID, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type MockOfferRepository struct{ mock.Mock }

func (m *MockOfferRepository) Open(ctx context.Context, o offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Close(ctx context.Context, orderID kernel.UUID, status offer.Status) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOfferRepository) CloseStale(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockChatRepository struct{ mock.Mock }

func (m *MockChatRepository) Add(ctx context.Context, msg chat.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]chat.Message, error) {
	args := m.Called(ctx, orderID)
	msgs, _ := args.Get(0).([]chat.Message)
	return msgs, args.Error(1)
}

func (m *MockChatRepository) MarkRead(ctx context.Context, orderID, receiverID kernel.UUID) (int64, error) {
	args := m.Called(ctx, orderID, receiverID)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, userID kernel.UUID, n ports.Notification) error {
	args := m.Called(ctx, userID, n)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, channel string, event ports.Event) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

// MockUoW satisfies every narrowed unit of work interface.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) SetLockTimeout(ctx context.Context, d time.Duration) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) LedgerRepository() ports.LedgerRepository {
	args := m.Called()
	return args.Get(0).(ports.LedgerRepository)
}

func (m *MockUoW) AccountRepository() ports.AccountRepository {
	args := m.Called()
	return args.Get(0).(ports.AccountRepository)
}

func (m *MockUoW) OfferRepository() ports.OfferRepository {
	args := m.Called()
	return args.Get(0).(ports.OfferRepository)
}

func (m *MockUoW) ChatRepository() ports.ChatRepository {
	args := m.Called()
	return args.Get(0).(ports.ChatRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockLifecycleUoWFactory struct{ mock.Mock }

func (m *MockLifecycleUoWFactory) Create() commands.LifecycleUoW {
	args := m.Called()
	return args.Get(0).(commands.LifecycleUoW)
}

type MockAccountUoWFactory struct{ mock.Mock }

func (m *MockAccountUoWFactory) Create() commands.AccountUoW {
	args := m.Called()
	return args.Get(0).(commands.AccountUoW)
}

type MockLedgerUoWFactory struct{ mock.Mock }

func (m *MockLedgerUoWFactory) Create() commands.LedgerUoW {
	args := m.Called()
	return args.Get(0).(commands.LedgerUoW)
}

type MockChatUoWFactory struct{ mock.Mock }

func (m *MockChatUoWFactory) Create() commands.ChatUoW {
	args := m.Called()
	return args.Get(0).(commands.ChatUoW)
}

type MockOfferUoWFactory struct{ mock.Mock }

func (m *MockOfferUoWFactory) Create() commands.OfferUoW {
	args := m.Called()
	return args.Get(0).(commands.OfferUoW)
}

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func mustAddress(t *testing.T, line string, lat, lng float64) order.Address {
	t.Helper()
	loc, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	addr, err := order.NewAddress(line, loc)
	require.NoError(t, err)
	return addr
}

// orderIn restores an order with shipping fee 5.00 and one 2 × 10.00 item.
func orderIn(t *testing.T, status order.Status, courier *kernel.UUID) *order.Order {
	t.Helper()
	storeID := kernel.NewUUID()
	item, err := order.NewItem(kernel.NewUUID(), storeID, 2, kernel.MustMoney("10.00"))
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.Snapshot{
		ID:            kernel.NewUUID(),
		CustomerID:    kernel.NewUUID(),
		StoreID:       storeID,
		CourierID:     courier,
		Delivery:      mustAddress(t, "12 Le Loi", 10.7769, 106.7009),
		Pickup:        mustAddress(t, "1 Nguyen Hue", 10.7730, 106.7040),
		Items:         []order.Item{item},
		TotalAmount:   kernel.MustMoney("25.00"),
		ShippingFee:   kernel.MustMoney("5.00"),
		PaymentMethod: order.PaymentCash,
		Status:        status,
		CreatedAt:     fixedNow,
		UpdatedAt:     fixedNow,
	})
	require.NoError(t, err)
	return o
}

// sameOrder returns a copy of o in another status, as a concurrent writer would leave it.
func sameOrder(t *testing.T, o *order.Order, status order.Status, courier *kernel.UUID) *order.Order {
	t.Helper()
	moved, err := order.RestoreOrder(order.Snapshot{
		ID:            o.ID(),
		CustomerID:    o.CustomerID(),
		StoreID:       o.StoreID(),
		CourierID:     courier,
		Delivery:      o.Delivery(),
		Pickup:        o.Pickup(),
		Items:         o.Items(),
		TotalAmount:   o.TotalAmount(),
		ShippingFee:   o.ShippingFee(),
		PaymentMethod: o.PaymentMethod(),
		Status:        status,
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     fixedNow.Add(time.Second),
	})
	require.NoError(t, err)
	return moved
}

// quietEffects accepts any notification or publish.
func quietEffects() (*MockNotifier, *MockEventPublisher, commands.EffectDispatcher) {
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return notifier, publisher, commands.NewEffectDispatcher(notifier, publisher, discardLogger())
}

func lifecycleFactory(uows ...*MockUoW) *MockLifecycleUoWFactory {
	f := new(MockLifecycleUoWFactory)
	for _, uow := range uows {
		f.On("Create").Return(uow).Once()
	}
	return f
}
