package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/fanout"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

var secret = []byte("ws-test-secret")

type orderStub struct {
	mu    sync.Mutex
	views map[kernel.UUID]queries.OrderView
}

func (s *orderStub) set(v queries.OrderView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[v.ID] = v
}

func (s *orderStub) Handle(_ context.Context, q queries.GetOrderQuery) (queries.OrderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[q.OrderID()]
	if !ok {
		return queries.OrderView{}, errs.NewObjectNotFoundError("order", q.OrderID().String())
	}
	return v, nil
}

type storeStub map[kernel.UUID]kernel.UUID

func (s storeStub) OwnerOf(_ context.Context, storeID kernel.UUID) (kernel.UUID, error) {
	owner, ok := s[storeID]
	if !ok {
		return kernel.UUID{}, errs.NewObjectNotFoundError("store", storeID.String())
	}
	return owner, nil
}

type chatRecorderMock struct {
	mock.Mock
}

func (m *chatRecorderMock) Handle(ctx context.Context, command commands.RecordChatMessageCommand) (chat.Message, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(chat.Message), args.Error(1)
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type fixture struct {
	server   *httptest.Server
	chat     *chatRecorderMock
	orders   *orderStub
	order    queries.OrderView
	customer kernel.UUID
	courier  kernel.UUID
	owner    kernel.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := fanout.NewHub(16, logger)

	f := &fixture{
		chat:     &chatRecorderMock{},
		customer: kernel.NewUUID(),
		courier:  kernel.NewUUID(),
		owner:    kernel.NewUUID(),
	}
	courier := f.courier
	f.order = queries.OrderView{
		ID:         kernel.NewUUID(),
		CustomerID: f.customer,
		StoreID:    kernel.NewUUID(),
		ShipperID:  &courier,
		Status:     "delivering",
	}
	f.orders = &orderStub{views: map[kernel.UUID]queries.OrderView{f.order.ID: f.order}}

	endpoint := NewEndpoint(hub, Handlers{
		Orders:   f.orders,
		Location: commands.NewPushLocationCommandHandler(hub),
		Chat:     f.chat,
		Calls:    commands.NewRelayCallSignalCommandHandler(hub),
	}, storeStub{f.order.StoreID: f.owner}, 100, logger)

	e := echo.New()
	e.HTTPErrorHandler = httpin.ErrorHandler(logger)
	e.GET("/ws", endpoint.Handle, httpin.JWTAuth(secret, nil))

	f.server = httptest.NewServer(e)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) dial(t *testing.T, userID kernel.UUID) *websocket.Conn {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, httpin.Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?token=" + token
	conn, err := websocket.Dial(url, "", "http://localhost/")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// a round trip proves the session is registered on the hub
	send(t, conn, EventLeave, map[string]string{"channel": "nothing"})
	assert.Equal(t, EventLeft, receive(t, conn).Event)
	return conn
}

func send(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, websocket.JSON.Send(conn, frame{Event: event, Data: raw}))
}

func receive(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f frame
	require.NoError(t, websocket.JSON.Receive(conn, &f))
	return f
}

func TestEndpoint_RequiresToken(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.server.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEndpoint_LocationReachesDeliveryRoom(t *testing.T) {
	f := newFixture(t)
	customer := f.dial(t, f.customer)
	courier := f.dial(t, f.courier)

	send(t, customer, EventJoinDeliveryRoom, map[string]string{"orderId": f.order.ID.String()})
	joined := receive(t, customer)
	require.Equal(t, EventJoined, joined.Event)
	assert.Contains(t, string(joined.Data), "order-"+f.order.ID.String())

	send(t, courier, EventShipperLocation, map[string]any{
		"orderId":   f.order.ID.String(),
		"latitude":  10.7769,
		"longitude": 106.7009,
	})

	update := receive(t, customer)
	require.Equal(t, commands.EventLocationUpdate, update.Event)
	var payload commands.LocationPayload
	require.NoError(t, json.Unmarshal(update.Data, &payload))
	assert.InDelta(t, 10.7769, payload.Latitude, 1e-9)
	assert.True(t, f.courier.IsEqual(payload.ShipperID))
}

func TestEndpoint_StoreOwnerMayJoinChat(t *testing.T) {
	f := newFixture(t)
	owner := f.dial(t, f.owner)

	send(t, owner, EventJoinChat, map[string]string{"orderId": f.order.ID.String()})

	assert.Equal(t, EventJoined, receive(t, owner).Event)
}

func TestEndpoint_StrangerCannotJoin(t *testing.T) {
	f := newFixture(t)
	stranger := f.dial(t, kernel.NewUUID())

	send(t, stranger, EventJoinDeliveryRoom, map[string]string{"orderId": f.order.ID.String()})

	reply := receive(t, stranger)
	require.Equal(t, EventError, reply.Event)
	assert.Contains(t, string(reply.Data), EventJoinDeliveryRoom)
}

func TestEndpoint_OnlyAssignedShipperPushesLocation(t *testing.T) {
	f := newFixture(t)
	customer := f.dial(t, f.customer)

	send(t, customer, EventShipperLocation, map[string]any{
		"orderId":   f.order.ID.String(),
		"latitude":  10.0,
		"longitude": 106.0,
	})

	reply := receive(t, customer)
	assert.Equal(t, EventError, reply.Event)
}

func TestEndpoint_CallSignalsReachTheReceiver(t *testing.T) {
	f := newFixture(t)
	caller := f.dial(t, f.customer)
	callee := f.dial(t, f.courier)

	send(t, caller, EventInitiateCall, map[string]string{
		"receiverId":  f.courier.String(),
		"channelName": "order-call",
		"callType":    "video",
	})

	incoming := receive(t, callee)
	require.Equal(t, commands.EventCallIncoming, incoming.Event)
	assert.Contains(t, string(incoming.Data), "order-call")

	send(t, callee, EventCallAccepted, map[string]string{"callerId": f.customer.String()})

	assert.Equal(t, commands.EventCallAccepted, receive(t, caller).Event)
}

func TestEndpoint_NewMessageIsRecordedAsTheCaller(t *testing.T) {
	f := newFixture(t)
	customer := f.dial(t, f.customer)

	f.chat.On("Handle", mock.Anything, mock.MatchedBy(func(c commands.RecordChatMessageCommand) bool {
		return c.SenderID().IsEqual(f.customer) && c.ReceiverID().IsEqual(f.courier) && c.Body() == "at the gate"
	})).Return(chat.Message{}, nil).Once()

	send(t, customer, EventNewMessage, map[string]string{
		"orderId":    f.order.ID.String(),
		"receiverId": f.courier.String(),
		"message":    "at the gate",
	})

	// frames are handled in order, so this ack means the message was handled
	send(t, customer, EventLeave, map[string]string{"channel": "nothing"})
	assert.Equal(t, EventLeft, receive(t, customer).Event)
	f.chat.AssertExpectations(t)
}

func TestEndpoint_BadFramesKeepTheSessionOpen(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, f.customer)

	require.NoError(t, websocket.Message.Send(conn, "not json"))
	assert.Equal(t, EventError, receive(t, conn).Event)

	send(t, conn, "dance", map[string]string{})
	reply := receive(t, conn)
	assert.Equal(t, EventError, reply.Event)
	assert.Contains(t, string(reply.Data), "dance")

	send(t, conn, EventLeave, map[string]string{"channel": "user-" + f.customer.String()})
	assert.Equal(t, EventError, receive(t, conn).Event)
}

// expectSilence asserts that nothing arrives on conn for a short while.
func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	var f frame
	assert.Error(t, websocket.JSON.Receive(conn, &f), "unexpected frame %s", f.Event)
}

func TestEndpoint_CompletedOrderTakesNoLocation(t *testing.T) {
	f := newFixture(t)
	f.order.Status = "completed"
	f.orders.set(f.order)

	customer := f.dial(t, f.customer)
	courier := f.dial(t, f.courier)

	send(t, customer, EventJoinDeliveryRoom, map[string]string{"orderId": f.order.ID.String()})
	require.Equal(t, EventJoined, receive(t, customer).Event)

	send(t, courier, EventShipperLocation, map[string]any{
		"orderId":   f.order.ID.String(),
		"latitude":  10.0,
		"longitude": 106.0,
	})

	reply := receive(t, courier)
	require.Equal(t, EventError, reply.Event)
	assert.Contains(t, string(reply.Data), "completed")
	expectSilence(t, customer)
}

func TestEndpoint_LocationStopsWhenOrderCompletes(t *testing.T) {
	f := newFixture(t)
	customer := f.dial(t, f.customer)
	courier := f.dial(t, f.courier)

	send(t, customer, EventJoinDeliveryRoom, map[string]string{"orderId": f.order.ID.String()})
	require.Equal(t, EventJoined, receive(t, customer).Event)

	sample := map[string]any{"orderId": f.order.ID.String(), "latitude": 10.7769, "longitude": 106.7009}
	send(t, courier, EventShipperLocation, sample)
	require.Equal(t, commands.EventLocationUpdate, receive(t, customer).Event)

	f.order.Status = "completed"
	f.orders.set(f.order)

	send(t, courier, EventShipperLocation, sample)

	assert.Equal(t, EventError, receive(t, courier).Event)
	expectSilence(t, customer)
}
