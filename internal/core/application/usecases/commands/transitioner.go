package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// actorResolver derives the acting party once the current order is known.
type actorResolver func(ctx context.Context, o *order.Order) (order.Actor, error)

func fixedActor(a order.Actor) actorResolver {
	return func(context.Context, *order.Order) (order.Actor, error) {
		return a, nil
	}
}

// Transitioner runs one lifecycle event end to end:
//
//  1. load the order and Decide
//  2. conditional update guarded by the expected status (the arbitration point)
//  3. status history, offer projection and courier earning in the same transaction
//  4. commit, then notifications and real-time events
//
// A conditional update that matches no row is re-read and retried once; a loss that
// persists is reported as NotFound, AlreadyAssigned or InvalidState.
type Transitioner struct {
	uowFactory  LifecycleUoWFactory
	effects     EffectDispatcher
	earnings    earningsRecorder
	lockTimeout time.Duration
}

func NewTransitioner(uowFactory LifecycleUoWFactory, effects EffectDispatcher, lockTimeout time.Duration) Transitioner {
	return Transitioner{
		uowFactory:  uowFactory,
		effects:     effects,
		earnings:    newEarningsRecorder(),
		lockTimeout: lockTimeout,
	}
}

func (t Transitioner) run(
	ctx context.Context,
	orderID kernel.UUID,
	event order.Event,
	resolveActor actorResolver,
) (*order.Order, error) {
	uow := t.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if t.lockTimeout > 0 {
		if err := uow.SetLockTimeout(ctx, t.lockTimeout); err != nil {
			return nil, err
		}
	}

	orders := uow.OrderRepository()

	current, err := orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	actor, err := resolveActor(ctx, current)
	if err != nil {
		return nil, err
	}

	decision, err := order.Decide(current, event, actor)
	if err != nil {
		return nil, err
	}

	affected, err := orders.ConditionalTransition(ctx, current.ID(), decision.From, decision.To, decision.Fields())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if current, decision, err = t.retry(ctx, uow, orderID, event, actor); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	if err = current.Apply(decision, now); err != nil {
		return nil, err
	}

	change, err := order.NewStatusChange(current.ID(), decision, now)
	if err != nil {
		return nil, err
	}
	if err = orders.AppendStatusChange(ctx, change); err != nil {
		return nil, err
	}

	if err = t.applyTransactionalEffects(ctx, uow, current, decision, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	t.effects.Dispatch(ctx, current, decision)
	return current, nil
}

// retry re-reads an order whose guarded update matched no row. Decide on the fresh
// copy reports why the update lost; if the event is still allowed, the update is
// attempted once more. A second miss is surfaced as AlreadyAssigned for claims and
// InvalidState otherwise.
func (t Transitioner) retry(
	ctx context.Context,
	uow LifecycleUoW,
	orderID kernel.UUID,
	event order.Event,
	actor order.Actor,
) (*order.Order, order.Decision, error) {
	orders := uow.OrderRepository()

	fresh, err := orders.Get(ctx, orderID)
	if err != nil {
		return nil, order.Decision{}, err
	}
	decision, err := order.Decide(fresh, event, actor)
	if err != nil {
		return nil, order.Decision{}, err
	}

	affected, err := orders.ConditionalTransition(ctx, fresh.ID(), decision.From, decision.To, decision.Fields())
	if err != nil {
		return nil, order.Decision{}, err
	}
	if affected > 0 {
		return fresh, decision, nil
	}

	if event.Kind() == order.EventCourierClaim {
		return nil, order.Decision{}, errs.NewAlreadyAssignedError(orderID, fresh.Status().String())
	}
	return nil, order.Decision{}, errs.NewInvalidStateErrorWithCause(event.Kind().String(), fresh.Status().String(),
		errs.NewConcurrencyConflictError("order", orderID))
}

func (t Transitioner) applyTransactionalEffects(
	ctx context.Context,
	uow LifecycleUoW,
	o *order.Order,
	d order.Decision,
	now time.Time,
) error {
	for _, effect := range d.Effects {
		var err error
		switch effect.Kind { //nolint:exhaustive // notifications are dispatched after commit
		case order.EffectOfferToCouriers:
			var opened offer.Offer
			if opened, err = offer.NewOffer(o.ID(), now); err == nil {
				err = uow.OfferRepository().Open(ctx, opened)
			}
		case order.EffectCloseOffer:
			err = uow.OfferRepository().Close(ctx, o.ID(), offer.StatusAccepted)
		case order.EffectWithdrawOffer:
			err = uow.OfferRepository().Close(ctx, o.ID(), offer.StatusRejected)
		case order.EffectRecordEarning:
			_, err = t.earnings.record(ctx, uow.LedgerRepository(), o, now)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
