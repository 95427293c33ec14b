package orderrepo_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/ledger"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func TestOrderRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.pg.DB, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_RoundTrip() {
	ctx := context.Background()
	placed := suite.newOrder(2)

	suite.Require().NoError(suite.repository.Add(ctx, placed))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", placed.ID(), placed)

	loaded, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)

	suite.Equal(placed.ID(), loaded.ID())
	suite.Equal(order.Pending, loaded.Status())
	suite.Nil(loaded.Courier())
	suite.True(placed.TotalAmount().Equal(loaded.TotalAmount()), "total %s vs %s", placed.TotalAmount(), loaded.TotalAmount())
	suite.True(placed.ShippingFee().Equal(loaded.ShippingFee()))
	suite.Equal(placed.Delivery().Line(), loaded.Delivery().Line())
	suite.InDelta(placed.Pickup().Location().Latitude(), loaded.Pickup().Location().Latitude(), 1e-9)
	suite.Require().Len(loaded.Items(), 2)
	for i, item := range loaded.Items() {
		suite.Equal(placed.Items()[i].FoodID(), item.FoodID())
		suite.Equal(placed.Items()[i].Quantity(), item.Quantity())
		suite.True(placed.Items()[i].UnitPrice().Equal(item.UnitPrice()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestConditionalTransition_GuardsStatus() {
	ctx := context.Background()
	placed := suite.newOrder(1)
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	rows, err := suite.repository.ConditionalTransition(ctx, placed.ID(), order.Confirmed, order.Cancelled, order.TransitionFields{})
	suite.Require().NoError(err)
	suite.Zero(rows, "guard on the wrong status must not match")

	rows, err = suite.repository.ConditionalTransition(ctx, placed.ID(), order.Pending, order.Confirmed, order.TransitionFields{})
	suite.Require().NoError(err)
	suite.EqualValues(1, rows)

	loaded, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, loaded.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestConditionalTransition_BindAndRequireCourier() {
	ctx := context.Background()
	placed := suite.newOrder(1)
	suite.Require().NoError(suite.repository.Add(ctx, placed))
	suite.confirm(placed.ID())

	courier, other := kernel.NewUUID(), kernel.NewUUID()

	rows, err := suite.repository.ConditionalTransition(ctx, placed.ID(), order.Confirmed, order.Preparing,
		order.TransitionFields{BindCourier: &courier})
	suite.Require().NoError(err)
	suite.EqualValues(1, rows)

	rows, err = suite.repository.ConditionalTransition(ctx, placed.ID(), order.Preparing, order.Delivering,
		order.TransitionFields{RequireCourier: &other})
	suite.Require().NoError(err)
	suite.Zero(rows, "only the bound courier can move the order")

	rows, err = suite.repository.ConditionalTransition(ctx, placed.ID(), order.Preparing, order.Delivering,
		order.TransitionFields{RequireCourier: &courier})
	suite.Require().NoError(err)
	suite.EqualValues(1, rows)

	loaded, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(loaded.Courier())
	suite.Equal(courier, *loaded.Courier())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestConditionalTransition_ConcurrentClaimsHaveOneWinner() {
	ctx := context.Background()
	placed := suite.newOrder(1)
	suite.Require().NoError(suite.repository.Add(ctx, placed))
	suite.confirm(placed.ID())

	const couriers = 16
	var (
		wg      sync.WaitGroup
		winners atomic.Int64
		start   = make(chan struct{})
	)
	for range couriers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			courier := kernel.NewUUID()
			<-start
			rows, err := suite.repository.ConditionalTransition(ctx, placed.ID(), order.Confirmed, order.Preparing,
				order.TransitionFields{BindCourier: &courier})
			if err == nil {
				winners.Add(rows)
			}
		}()
	}
	close(start)
	wg.Wait()

	suite.EqualValues(1, winners.Load())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCheckConstraint_RejectsUnassignedPreparing() {
	ctx := context.Background()
	placed := suite.newOrder(1)
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	err := suite.pg.DB.Exec("UPDATE orders SET status = 'preparing' WHERE id = ?", placed.ID().Bytes()).Error
	suite.Require().Error(err)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAppendStatusChange() {
	ctx := context.Background()
	placed := suite.newOrder(1)
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	decision, err := order.Decide(placed, order.Cancel(), order.CustomerActor(placed.CustomerID()))
	suite.Require().NoError(err)
	change, err := order.NewStatusChange(placed.ID(), decision, time.Now())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.AppendStatusChange(ctx, change))

	var rows []orderrepo.StatusChangeDTO
	suite.Require().NoError(suite.pg.DB.Find(&rows, "order_id = ?", placed.ID().Bytes()).Error)
	suite.Require().Len(rows, 1)
	suite.Equal("pending", rows[0].FromStatus)
	suite.Equal("cancelled", rows[0].ToStatus)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListByStatusAndCourier() {
	ctx := context.Background()
	courier := kernel.NewUUID()

	first, second, third := suite.newOrder(1), suite.newOrder(1), suite.newOrder(1)
	for _, o := range []*order.Order{first, second, third} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}
	suite.confirm(second.ID())
	suite.confirm(third.ID())
	_, err := suite.repository.ConditionalTransition(ctx, third.ID(), order.Confirmed, order.Preparing,
		order.TransitionFields{BindCourier: &courier})
	suite.Require().NoError(err)

	pending, err := suite.repository.ListByStatus(ctx, order.Pending)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal(first.ID(), pending[0].ID())

	mine, err := suite.repository.ListByCourier(ctx, courier, order.Preparing, order.Delivering)
	suite.Require().NoError(err)
	suite.Require().Len(mine, 1)
	suite.Equal(third.ID(), mine[0].ID())

	done, err := suite.repository.ListByCourier(ctx, courier, order.Completed)
	suite.Require().NoError(err)
	suite.Empty(done)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListCompletedWithoutEarning() {
	ctx := context.Background()
	courier := kernel.NewUUID()

	settled, unsettled := suite.newOrder(1), suite.newOrder(1)
	for _, o := range []*order.Order{settled, unsettled} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
		suite.complete(o.ID(), courier)
	}

	entry, err := ledger.NewOrderEarning(courier, settled.ID(), kernel.MustMoney("4.00"), time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.pg.DB.Exec(
		"INSERT INTO transactions (id, user_id, amount, kind, description, reference_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		entry.ID().Bytes(), courier.Bytes(), entry.Amount().Decimal(), string(entry.Kind()),
		entry.Description(), settled.ID().Bytes(), entry.CreatedAt(),
	).Error)

	missing, err := suite.repository.ListCompletedWithoutEarning(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(missing, 1)
	suite.Equal(unsettled.ID(), missing[0].ID())
	suite.Equal(order.Completed, missing[0].Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(items int) *order.Order {
	storeID := kernel.NewUUID()
	lines := make([]order.Item, 0, items)
	for range items {
		item, err := order.NewItem(kernel.NewUUID(), storeID, 2, kernel.MustMoney("10.50"))
		suite.Require().NoError(err)
		lines = append(lines, item)
	}

	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), storeID,
		suite.address("12 Le Loi", 10.7769, 106.7009),
		suite.address("1 Nguyen Hue", 10.7730, 106.7040),
		lines,
		kernel.MustMoney("15.00"),
		order.PaymentCash,
		"ring twice",
		time.Now(),
	)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) address(line string, lat, lng float64) order.Address {
	loc, err := kernel.NewLocation(lat, lng)
	suite.Require().NoError(err)
	a, err := order.NewAddress(line, loc)
	suite.Require().NoError(err)
	return a
}

func (suite *OrderRepositoryIntegrationTestSuite) confirm(id kernel.UUID) {
	rows, err := suite.repository.ConditionalTransition(context.Background(), id, order.Pending, order.Confirmed,
		order.TransitionFields{})
	suite.Require().NoError(err)
	suite.Require().EqualValues(1, rows)
}

func (suite *OrderRepositoryIntegrationTestSuite) complete(id, courier kernel.UUID) {
	ctx := context.Background()
	suite.confirm(id)
	steps := []struct {
		from, to order.Status
		fields   order.TransitionFields
	}{
		{order.Confirmed, order.Preparing, order.TransitionFields{BindCourier: &courier}},
		{order.Preparing, order.Delivering, order.TransitionFields{RequireCourier: &courier}},
		{order.Delivering, order.Completed, order.TransitionFields{RequireCourier: &courier}},
	}
	for _, step := range steps {
		rows, err := suite.repository.ConditionalTransition(ctx, id, step.from, step.to, step.fields)
		suite.Require().NoError(err)
		suite.Require().EqualValues(1, rows)
	}
}
