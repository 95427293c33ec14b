package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/fanout"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"
	"golang.org/x/time/rate"
)

const (
	DefaultLocationRate = 2.0

	maxFrameBytes = 64 << 10
	writeTimeout  = 10 * time.Second
)

type (
	OrderReader interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}

	LocationPusher interface {
		Handle(ctx context.Context, command commands.PushLocationCommand) error
	}

	ChatRecorder interface {
		Handle(ctx context.Context, command commands.RecordChatMessageCommand) (chat.Message, error)
	}

	CallRelay interface {
		Handle(ctx context.Context, command commands.RelayCallSignalCommand) error
	}
)

// Handlers groups the use cases reachable from the socket.
type Handlers struct {
	Orders   OrderReader
	Location LocationPusher
	Chat     ChatRecorder
	Calls    CallRelay
}

// Endpoint upgrades authenticated requests to websocket sessions on the hub. The hub
// does no authorization; the endpoint only lets a session into the rooms of orders its
// user is a party to, plus the user's own channel.
type Endpoint struct {
	hub          *fanout.Hub
	h            Handlers
	stores       ports.StoreRepository
	locationRate rate.Limit
	logger       *slog.Logger
}

func NewEndpoint(
	hub *fanout.Hub,
	handlers Handlers,
	stores ports.StoreRepository,
	locationPerSecond float64,
	logger *slog.Logger,
) *Endpoint {
	if locationPerSecond <= 0 {
		locationPerSecond = DefaultLocationRate
	}
	return &Endpoint{
		hub:          hub,
		h:            handlers,
		stores:       stores,
		locationRate: rate.Limit(locationPerSecond),
		logger:       logger.With("component", "ws"),
	}
}

// Handle is the echo handler for GET /ws. It must run behind JWTAuth.
func (e *Endpoint) Handle(ctx echo.Context) error {
	caller, err := httpin.Caller(ctx)
	if err != nil {
		return err
	}

	server := websocket.Server{
		// Origin is policed by the CORS middleware; non-browser clients send none.
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler: func(conn *websocket.Conn) {
			e.serve(ctx.Request().Context(), caller, conn)
		},
	}
	server.ServeHTTP(ctx.Response(), ctx.Request())
	return nil
}

type session struct {
	id      string
	caller  kernel.UUID
	conn    *websocket.Conn
	limiter *rate.Limiter

	writeMu sync.Mutex
}

func (s *session) send(event ports.Event) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return websocket.JSON.Send(s.conn, event)
}

func (e *Endpoint) serve(ctx context.Context, caller kernel.UUID, conn *websocket.Conn) {
	conn.MaxPayloadBytes = maxFrameBytes
	defer func() {
		_ = conn.Close()
	}()

	s := &session{
		id:      uuid.NewString(),
		caller:  caller,
		conn:    conn,
		limiter: rate.NewLimiter(e.locationRate, max(1, int(e.locationRate))),
	}
	logger := e.logger.With("session_id", s.id, "user_id", caller.String())

	sub, err := e.hub.Connect(s.id)
	if err != nil {
		logger.ErrorContext(ctx, "connect session", "error", err)
		return
	}
	if err = e.hub.Join(s.id, ports.UserChannel(caller)); err != nil {
		e.hub.Disconnect(s.id)
		logger.ErrorContext(ctx, "join user channel", "error", err)
		return
	}
	logger.DebugContext(ctx, "session opened")

	written := make(chan struct{})
	go func() {
		defer close(written)
		for event := range sub.Events() {
			if sendErr := s.send(event); sendErr != nil {
				logger.DebugContext(ctx, "write failed, closing session", "error", sendErr)
				// unblocks the reader, which then disconnects the session
				_ = conn.Close()
				return
			}
		}
	}()

	e.read(ctx, s, logger)

	e.hub.Disconnect(s.id)
	<-written
	logger.DebugContext(ctx, "session closed")
}

func (e *Endpoint) read(ctx context.Context, s *session, logger *slog.Logger) {
	for {
		var frame []byte
		if err := websocket.Message.Receive(s.conn, &frame); err != nil {
			if !errors.Is(err, io.EOF) {
				logger.DebugContext(ctx, "read failed", "error", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(frame, &msg); err != nil {
			e.reply(ctx, s, logger, EventError, errorFrame{Message: "frame is not a JSON event"})
			continue
		}

		if err := e.dispatch(ctx, s, msg); err != nil {
			e.reply(ctx, s, logger, EventError, errorFrame{Event: msg.Event, Message: e.clientMessage(ctx, logger, err)})
		}
	}
}

func (e *Endpoint) reply(ctx context.Context, s *session, logger *slog.Logger, name string, data any) {
	if err := s.send(ports.Event{Name: name, Data: data}); err != nil {
		logger.DebugContext(ctx, "reply failed", "event", name, "error", err)
	}
}

func (e *Endpoint) clientMessage(ctx context.Context, logger *slog.Logger, err error) string {
	if httpin.StatusOf(err) >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "socket event failed", "error", err)
		return http.StatusText(http.StatusInternalServerError)
	}
	return err.Error()
}

func (e *Endpoint) dispatch(ctx context.Context, s *session, msg inbound) error {
	switch msg.Event {
	case EventJoinDeliveryRoom:
		return e.join(ctx, s, msg.Data, ports.OrderChannel)
	case EventJoinChat:
		return e.join(ctx, s, msg.Data, ports.ChatChannel)
	case EventLeave:
		var req leaveRequest
		if err := decode(msg.Data, &req); err != nil {
			return err
		}
		if req.Channel == ports.UserChannel(s.caller) {
			return errs.NewValueIsInvalidErrorWithCause("channel", errors.New("the user channel cannot be left"))
		}
		e.hub.Leave(s.id, req.Channel)
		return s.send(ports.Event{Name: EventLeft, Data: channelAck{Channel: req.Channel}})
	case EventShipperLocation:
		return e.pushLocation(ctx, s, msg.Data)
	case EventNewMessage:
		return e.recordMessage(ctx, s, msg.Data)
	case EventInitiateCall, EventCallAccepted, EventCallRejected, EventEndCall:
		return e.relayCall(ctx, s, msg.Event, msg.Data)
	default:
		return errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("%q is not supported", msg.Event))
	}
}

func (e *Endpoint) join(ctx context.Context, s *session, data json.RawMessage, channelOf func(kernel.UUID) string) error {
	var req roomRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromBytes(req.OrderID[:])
	if err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}

	if _, err = e.requireParty(ctx, s.caller, orderID); err != nil {
		return err
	}

	channel := channelOf(orderID)
	if err = e.hub.Join(s.id, channel); err != nil {
		return err
	}
	return s.send(ports.Event{Name: EventJoined, Data: channelAck{Channel: channel}})
}

// pushLocation forwards a courier position to the order room while the order is being
// prepared or delivered. Samples over the session's rate are dropped silently: a newer
// one follows shortly.
func (e *Endpoint) pushLocation(ctx context.Context, s *session, data json.RawMessage) error {
	if !s.limiter.Allow() {
		return nil
	}

	var req locationRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromBytes(req.OrderID[:])
	if err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}

	view, err := e.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if view.ShipperID == nil || !view.ShipperID.IsEqual(s.caller) {
		return errs.NewUnauthorizedError(s.caller.String(), "only the assigned shipper reports its location")
	}
	if view.Status != order.Preparing.String() && view.Status != order.Delivering.String() {
		return errs.NewInvalidStateError("report location", view.Status)
	}

	cmd, err := commands.NewPushLocationCommand(orderID, s.caller, req.Latitude, req.Longitude)
	if err != nil {
		return err
	}
	return e.h.Location.Handle(ctx, cmd)
}

// recordMessage persists the message; the chat handler fans it out to the chat room.
func (e *Endpoint) recordMessage(ctx context.Context, s *session, data json.RawMessage) error {
	var req messageRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromBytes(req.OrderID[:])
	if err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	receiverID, err := kernel.UUIDFromBytes(req.ReceiverID[:])
	if err != nil {
		return errs.NewValueIsRequiredErrorWithCause("receiverId", err)
	}

	cmd, err := commands.NewRecordChatMessageCommand(orderID, s.caller, receiverID, req.Message)
	if err != nil {
		return err
	}
	_, err = e.h.Chat.Handle(ctx, cmd)
	return err
}

var callSignals = map[string]commands.CallSignal{
	EventInitiateCall: commands.CallInitiate,
	EventCallAccepted: commands.CallAccept,
	EventCallRejected: commands.CallReject,
	EventEndCall:      commands.CallEnd,
}

func (e *Endpoint) relayCall(ctx context.Context, s *session, event string, data json.RawMessage) error {
	var req callRequest
	if err := decode(data, &req); err != nil {
		return err
	}

	signal := callSignals[event]
	peer := req.ReceiverID
	if signal == commands.CallAccept || signal == commands.CallReject {
		peer = req.CallerID
	}
	peerID, err := kernel.UUIDFromBytes(peer[:])
	if err != nil {
		return errs.NewValueIsRequiredErrorWithCause("peer", err)
	}

	var orderID *kernel.UUID
	if req.OrderID != nil {
		id, idErr := kernel.UUIDFromBytes(req.OrderID[:])
		if idErr != nil {
			return errs.NewValueIsInvalidErrorWithCause("orderId", idErr)
		}
		orderID = &id
	}

	extra := map[string]string{}
	for k, v := range map[string]string{
		"channelName": req.ChannelName,
		"token":       req.Token,
		"callerName":  req.CallerName,
	} {
		if v != "" {
			extra[k] = v
		}
	}

	cmd, err := commands.NewRelayCallSignalCommand(signal, s.caller, peerID, orderID, req.CallType, extra)
	if err != nil {
		return err
	}
	return e.h.Calls.Handle(ctx, cmd)
}

func (e *Endpoint) loadOrder(ctx context.Context, orderID kernel.UUID) (queries.OrderView, error) {
	q, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return queries.OrderView{}, err
	}
	return e.h.Orders.Handle(ctx, q)
}

// requireParty allows the order's customer, its courier and the owner of its store.
func (e *Endpoint) requireParty(ctx context.Context, userID, orderID kernel.UUID) (queries.OrderView, error) {
	view, err := e.loadOrder(ctx, orderID)
	if err != nil {
		return queries.OrderView{}, err
	}

	if userID.IsEqual(view.CustomerID) || (view.ShipperID != nil && userID.IsEqual(*view.ShipperID)) {
		return view, nil
	}

	owner, err := e.stores.OwnerOf(ctx, view.StoreID)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return queries.OrderView{}, err
	}
	if err == nil && userID.IsEqual(owner) {
		return view, nil
	}

	return queries.OrderView{}, errs.NewUnauthorizedError(userID.String(), "not a party to the order")
}

func decode(data json.RawMessage, dst any) error {
	if len(data) == 0 {
		return errs.NewValueIsRequiredError("data")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("data", err)
	}
	return nil
}
