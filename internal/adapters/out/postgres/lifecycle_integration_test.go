package postgres_test

import (
	"context"
	"log/slog"
	"sync"
	"time"

	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/storerepo"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type lifecycleFactory func() commands.LifecycleUoW

func (f lifecycleFactory) Create() commands.LifecycleUoW { return f() }

type accountFactory func() commands.AccountUoW

func (f accountFactory) Create() commands.AccountUoW { return f() }

type orderFactory func() commands.OrderUoW

func (f orderFactory) Create() commands.OrderUoW { return f() }

// recorder collects notifications and events delivered after commit.
type recorder struct {
	mu            sync.Mutex
	notifications []ports.Notification
	events        []ports.Event
}

func (r *recorder) Notify(_ context.Context, _ kernel.UUID, n ports.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *recorder) Publish(_ context.Context, _ string, e ports.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

type lifecycle struct {
	create   commands.CreateOrderCommandHandler
	review   commands.ReviewOrderCommandHandler
	claim    commands.ClaimOrderCommandHandler
	start    commands.StartDeliveryCommandHandler
	complete commands.CompleteDeliveryCommandHandler
	cancel   commands.CancelOrderCommandHandler
}

func newLifecycle(factory *postgres_adapter.GormUnitOfWorkFactory, stores ports.StoreRepository, rec *recorder) lifecycle {
	logger := slog.New(slog.DiscardHandler)
	transitioner := commands.NewTransitioner(
		lifecycleFactory(func() commands.LifecycleUoW { return factory.Create() }),
		commands.NewEffectDispatcher(rec, rec, logger),
		2*time.Second,
	)
	return lifecycle{
		create: commands.NewCreateOrderCommandHandler(orderFactory(func() commands.OrderUoW { return factory.Create() })),
		review: commands.NewReviewOrderCommandHandler(transitioner, stores),
		claim: commands.NewClaimOrderCommandHandler(
			accountFactory(func() commands.AccountUoW { return factory.Create() }), transitioner, logger),
		start:    commands.NewStartDeliveryCommandHandler(transitioner),
		complete: commands.NewCompleteDeliveryCommandHandler(transitioner),
		cancel:   commands.NewCancelOrderCommandHandler(transitioner),
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestLifecycle_EndToEnd() {
	ctx := context.Background()
	rec := &recorder{}
	flow := newLifecycle(suite.factory, storerepo.NewGormStoreRepository(suite.pg.DB), rec)

	storeID, owner, customer := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	suite.insertStore(storeID, owner)

	fee := kernel.MustMoney("15.00")
	createCmd, err := commands.NewCreateOrderCommand(customer, storeID,
		suite.address("12 Le Loi", 10.7769, 106.7009),
		suite.address("1 Nguyen Hue", 10.7730, 106.7040),
		[]commands.OrderLine{{FoodID: kernel.NewUUID(), Quantity: 2, UnitPrice: kernel.MustMoney("20.00")}},
		&fee, order.PaymentCash, "")
	suite.Require().NoError(err)
	placed, err := flow.create.Handle(ctx, createCmd)
	suite.Require().NoError(err)
	suite.True(kernel.MustMoney("55.00").Equal(placed.TotalAmount()))

	reviewCmd, err := commands.NewReviewOrderCommand(placed.ID(), owner, true)
	suite.Require().NoError(err)
	confirmed, err := flow.review.Handle(ctx, reviewCmd)
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, confirmed.Status())
	suite.Equal("pending", suite.offerStatus(placed.ID()))

	// Many couriers race for the order: exactly one wins, the rest lose cleanly.
	const couriers = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []kernel.UUID
		losses  []error
		start   = make(chan struct{})
	)
	for range couriers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			courier := kernel.NewUUID()
			claimCmd, cmdErr := commands.NewClaimOrderCommand(placed.ID(), courier)
			if cmdErr != nil {
				return
			}
			<-start
			_, claimErr := flow.claim.Handle(ctx, claimCmd)
			mu.Lock()
			defer mu.Unlock()
			if claimErr == nil {
				winners = append(winners, courier)
				return
			}
			losses = append(losses, claimErr)
		}()
	}
	close(start)
	wg.Wait()

	suite.Require().Len(winners, 1)
	suite.Require().Len(losses, couriers-1)
	for _, lossErr := range losses {
		suite.ErrorIs(lossErr, errs.ErrAlreadyAssigned)
	}
	winner := winners[0]
	suite.Equal("accepted", suite.offerStatus(placed.ID()))

	startCmd, err := commands.NewStartDeliveryCommand(placed.ID(), winner)
	suite.Require().NoError(err)
	delivering, err := flow.start.Handle(ctx, startCmd)
	suite.Require().NoError(err)
	suite.Equal(order.Delivering, delivering.Status())

	// Two completions at once: one succeeds, the other sees the order already completed.
	completeCmd, err := commands.NewCompleteDeliveryCommand(placed.ID(), winner)
	suite.Require().NoError(err)
	results := make(chan error, 2)
	for range 2 {
		go func() {
			_, completeErr := flow.complete.Handle(ctx, completeCmd)
			results <- completeErr
		}()
	}
	var succeeded int
	for range 2 {
		if completeErr := <-results; completeErr == nil {
			succeeded++
		} else {
			suite.ErrorIs(completeErr, errs.ErrInvalidState)
		}
	}
	suite.Equal(1, succeeded)

	ledgerRepo := suite.factory.Create().LedgerRepository()
	balance, err := ledgerRepo.GetBalance(ctx, winner)
	suite.Require().NoError(err)
	suite.True(kernel.MustMoney("12.00").Equal(balance), "courier balance is %s", balance)

	history, err := ledgerRepo.ListHistory(ctx, winner, 10)
	suite.Require().NoError(err)
	suite.Require().Len(history, 1)

	var changes int64
	suite.Require().NoError(suite.pg.DB.Raw(
		"SELECT count(*) FROM order_status_history WHERE order_id = ?", placed.ID().Bytes(),
	).Scan(&changes).Error)
	suite.EqualValues(4, changes)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	suite.Len(rec.notifications, 4, "confirmed, accepted, delivering, completed")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestLifecycle_CancelRacesClaim() {
	ctx := context.Background()
	flow := newLifecycle(suite.factory, storerepo.NewGormStoreRepository(suite.pg.DB), &recorder{})

	placed := suite.placeOrder(kernel.NewUUID())
	suite.Require().NoError(suite.addOrder(placed))
	suite.exec("UPDATE orders SET status = 'confirmed' WHERE id = ?", placed.ID().Bytes())

	cancelCmd, err := commands.NewCancelOrderCommand(placed.ID(), placed.CustomerID())
	suite.Require().NoError(err)
	claimCmd, err := commands.NewClaimOrderCommand(placed.ID(), kernel.NewUUID())
	suite.Require().NoError(err)

	var (
		wg                 sync.WaitGroup
		cancelErr, claimErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, cancelErr = flow.cancel.Handle(ctx, cancelCmd)
	}()
	go func() {
		defer wg.Done()
		_, claimErr = flow.claim.Handle(ctx, claimCmd)
	}()
	wg.Wait()

	final, err := suite.factory.Create().OrderRepository().Get(ctx, placed.ID())
	suite.Require().NoError(err)

	switch final.Status() { //nolint:exhaustive // only these two outcomes are possible
	case order.Cancelled:
		suite.Require().NoError(cancelErr)
		suite.Require().ErrorIs(claimErr, errs.ErrInvalidState)
		suite.Nil(final.Courier())
	case order.Preparing:
		suite.Require().NoError(claimErr)
		suite.Require().ErrorIs(cancelErr, errs.ErrInvalidState)
		suite.NotNil(final.Courier())
	default:
		suite.Failf("unexpected status", "order ended up %s", final.Status())
	}
}
