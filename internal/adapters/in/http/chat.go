package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// SendChatMessage handles POST /chat. It is the REST twin of the new-message socket event.
func (s *Server) SendChatMessage(ctx echo.Context) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}

	var body servers.NewChatMessage
	if err = ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	orderID, err := toKernelID("order_id", body.OrderId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	receiverID, err := toKernelID("receiver_id", body.ReceiverId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	cmd, err := commands.NewRecordChatMessageCommand(orderID, caller, receiverID, body.Message)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	msg, err := s.h.RecordChat.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusCreated, servers.ChatMessage{
		Id:         toAPIID(msg.ID()),
		OrderId:    toAPIID(msg.OrderID()),
		SenderId:   toAPIID(msg.SenderID()),
		ReceiverId: toAPIID(msg.ReceiverID()),
		Message:    msg.Body(),
		IsRead:     msg.IsRead(),
		CreatedAt:  msg.CreatedAt(),
	})
}

// GetChatMessages handles GET /chat/{orderId}, oldest first.
func (s *Server) GetChatMessages(ctx echo.Context, orderId servers.OrderId) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	id, err := toKernelID("order_id", orderId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	reqCtx := ctx.Request().Context()
	if _, err = s.loadVisibleOrder(reqCtx, caller, id); err != nil {
		return writeError(ctx, s.logger, err)
	}

	q, err := queries.NewGetChatMessagesQuery(id)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	messages, err := s.h.ChatMessages.Handle(reqCtx, q)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toChatMessages(id, messages))
}

// MarkChatRead handles PUT /chat/{orderId}/read: every message addressed to the caller
// in the order's chat becomes read.
func (s *Server) MarkChatRead(ctx echo.Context, orderId servers.OrderId) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	id, err := toKernelID("order_id", orderId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	cmd, err := commands.NewMarkChatReadCommand(id, caller)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	marked, err := s.h.MarkChatRead.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, servers.ReadReceipt{Marked: marked})
}
