package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// chatParticipants decides who may talk on an order's chat: the customer, the bound
// courier and the store owner.
type chatParticipants struct {
	stores ports.StoreRepository
}

func (p chatParticipants) check(ctx context.Context, o *order.Order, userID kernel.UUID) error {
	if o.IsParticipant(userID) {
		return nil
	}
	owner, err := p.stores.OwnerOf(ctx, o.StoreID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if err == nil && owner.IsEqual(userID) {
		return nil
	}
	return errs.NewUnauthorizedError(userID, "not a participant of order "+o.ID().String())
}

// RecordChatMessageCommandHandler persists a chat message and then pushes it to the
// order's chat channel. The message is durable even if the push is lost.
type RecordChatMessageCommandHandler struct {
	uowFactory   ChatUoWFactory
	participants chatParticipants
	publisher    ports.EventPublisher
	logger       *slog.Logger
}

func NewRecordChatMessageCommandHandler(
	uowFactory ChatUoWFactory,
	stores ports.StoreRepository,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) RecordChatMessageCommandHandler {
	return RecordChatMessageCommandHandler{
		uowFactory:   uowFactory,
		participants: chatParticipants{stores: stores},
		publisher:    publisher,
		logger:       logger.With("component", "chat"),
	}
}

func (h RecordChatMessageCommandHandler) Handle(ctx context.Context, command RecordChatMessageCommand) (chat.Message, error) {
	if err := command.Validate(); err != nil {
		return chat.Message{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return chat.Message{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return chat.Message{}, err
	}
	if err = h.participants.check(ctx, o, command.SenderID()); err != nil {
		return chat.Message{}, err
	}
	if err = h.participants.check(ctx, o, command.ReceiverID()); err != nil {
		return chat.Message{}, err
	}

	msg, err := chat.NewMessage(o.ID(), command.SenderID(), command.ReceiverID(), command.Body(), time.Now())
	if err != nil {
		return chat.Message{}, err
	}

	if err = uow.ChatRepository().Add(ctx, msg); err != nil {
		return chat.Message{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return chat.Message{}, err
	}

	err = h.publisher.Publish(context.WithoutCancel(ctx), ports.ChatChannel(o.ID()), ports.Event{
		Name: EventMessageReceived,
		Data: MessagePayload{
			ID:         msg.ID(),
			OrderID:    msg.OrderID(),
			SenderID:   msg.SenderID(),
			ReceiverID: msg.ReceiverID(),
			Message:    msg.Body(),
			CreatedAt:  msg.CreatedAt(),
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "publish failed", "order_id", o.ID().String(), "error", err)
	}

	return msg, nil
}

type MarkChatReadCommandHandler struct {
	uowFactory   ChatUoWFactory
	participants chatParticipants
}

func NewMarkChatReadCommandHandler(uowFactory ChatUoWFactory, stores ports.StoreRepository) MarkChatReadCommandHandler {
	return MarkChatReadCommandHandler{
		uowFactory:   uowFactory,
		participants: chatParticipants{stores: stores},
	}
}

// Handle returns the number of messages that became read.
func (h MarkChatReadCommandHandler) Handle(ctx context.Context, command MarkChatReadCommand) (int64, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return 0, err
	}
	if err = h.participants.check(ctx, o, command.ReaderID()); err != nil {
		return 0, err
	}

	marked, err := uow.ChatRepository().MarkRead(ctx, o.ID(), command.ReaderID())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return marked, nil
}
