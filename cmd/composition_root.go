package cmd

import (
	"log/slog"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/fanout"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/accountrepo"
	"dispatch/internal/adapters/out/postgres/storerepo"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot builds every handler from one database handle and the event plumbing.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	publisher  ports.EventPublisher
	notifier   ports.Notifier
	accounts   ports.AccountRepository
	stores     ports.StoreRepository
	logger     *slog.Logger
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
	logger *slog.Logger,
) *CompositionRoot {
	return &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:  publisher,
		notifier:   notifier,
		accounts:   accountrepo.NewGormAccountRepository(gormDB),
		stores:     storerepo.NewGormStoreRepository(gormDB),
		logger:     logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) lifecycleUoWFactory() commands.LifecycleUoWFactory {
	return FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) accountUoWFactory() commands.AccountUoWFactory {
	return FuncAccountUoWFactory(func() commands.AccountUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) ledgerUoWFactory() commands.LedgerUoWFactory {
	return FuncLedgerUoWFactory(func() commands.LedgerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) chatUoWFactory() commands.ChatUoWFactory {
	return FuncChatUoWFactory(func() commands.ChatUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) offerUoWFactory() commands.OfferUoWFactory {
	return FuncOfferUoWFactory(func() commands.OfferUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateTransitioner() commands.Transitioner {
	effects := commands.NewEffectDispatcher(c.notifier, c.publisher, c.logger)
	return commands.NewTransitioner(c.lifecycleUoWFactory(), effects, c.cfg.ClaimLockTimeout)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateReconcileEarningsCommandHandler() commands.ReconcileEarningsCommandHandler {
	return commands.NewReconcileEarningsCommandHandler(c.lifecycleUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateSyncOfferProjectionCommandHandler() commands.SyncOfferProjectionCommandHandler {
	return commands.NewSyncOfferProjectionCommandHandler(c.offerUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateRecordChatMessageCommandHandler() commands.RecordChatMessageCommandHandler {
	return commands.NewRecordChatMessageCommandHandler(c.chatUoWFactory(), c.stores, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

// CreateHTTPServer wires every REST operation. Transitions share one Transitioner.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	transitioner := c.CreateTransitioner()

	return httpin.NewServer(httpin.Handlers{
		CreateOrder:      c.CreateCreateOrderCommandHandler(),
		ReviewOrder:      commands.NewReviewOrderCommandHandler(transitioner, c.stores),
		CancelOrder:      commands.NewCancelOrderCommandHandler(transitioner),
		ClaimOrder:       commands.NewClaimOrderCommandHandler(c.accountUoWFactory(), transitioner, c.logger),
		StartDelivery:    commands.NewStartDeliveryCommandHandler(transitioner),
		CompleteDelivery: commands.NewCompleteDeliveryCommandHandler(transitioner),
		AdjustBalance:    commands.NewAdjustBalanceCommandHandler(c.ledgerUoWFactory()),
		RecordChat:       c.CreateRecordChatMessageCommandHandler(),
		MarkChatRead:     commands.NewMarkChatReadCommandHandler(c.chatUoWFactory(), c.stores),

		GetOrder:        c.CreateGetOrderQueryHandler(),
		ListOrders:      queries.NewListOrdersQueryHandler(c.gormDB),
		StatusHistory:   queries.NewGetStatusHistoryQueryHandler(c.gormDB),
		ChatMessages:    queries.NewGetChatMessagesQueryHandler(c.gormDB),
		Balance:         queries.NewGetBalanceQueryHandler(c.gormDB),
		LedgerHistory:   queries.NewGetLedgerHistoryQueryHandler(c.gormDB),
		CourierEarnings: queries.NewGetCourierEarningsQueryHandler(c.gormDB),
		PlatformRevenue: queries.NewGetPlatformRevenueQueryHandler(c.gormDB),
	}, c.accounts, c.stores, c.logger)
}

func (c *CompositionRoot) CreateSocketEndpoint(hub *fanout.Hub) *ws.Endpoint {
	return ws.NewEndpoint(hub, ws.Handlers{
		Orders:   c.CreateGetOrderQueryHandler(),
		Location: commands.NewPushLocationCommandHandler(c.publisher),
		Chat:     c.CreateRecordChatMessageCommandHandler(),
		Calls:    commands.NewRelayCallSignalCommandHandler(c.publisher),
	}, c.stores, c.cfg.LocationRatePerSec, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateReconcileEarningsCommandHandler(),
		c.cfg.ReconcileSchedule,
		c.CreateSyncOfferProjectionCommandHandler(),
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncLifecycleUoWFactory func() commands.LifecycleUoW

func (f FuncLifecycleUoWFactory) Create() commands.LifecycleUoW {
	return f()
}

type FuncAccountUoWFactory func() commands.AccountUoW

func (f FuncAccountUoWFactory) Create() commands.AccountUoW {
	return f()
}

type FuncLedgerUoWFactory func() commands.LedgerUoW

func (f FuncLedgerUoWFactory) Create() commands.LedgerUoW {
	return f()
}

type FuncChatUoWFactory func() commands.ChatUoW

func (f FuncChatUoWFactory) Create() commands.ChatUoW {
	return f()
}

type FuncOfferUoWFactory func() commands.OfferUoW

func (f FuncOfferUoWFactory) Create() commands.OfferUoW {
	return f()
}
