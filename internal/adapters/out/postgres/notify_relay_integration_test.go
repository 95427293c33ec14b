package postgres_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"time"

	"dispatch/internal/adapters/out/fanout"
	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/ports"
)

func (suite *UnitOfWorkIntegrationTestSuite) TestNotifyRelay_DeliversThroughPostgres() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := fanout.NewHub(8, logger)
	sub, err := hub.Connect("s1")
	suite.Require().NoError(err)
	suite.Require().NoError(hub.Join("s1", "order-42"))

	relay := postgres_adapter.NewNotifyRelay(suite.pg.DB, suite.pg.DSN, "test_events", hub, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()
	defer func() {
		cancel()
		suite.NoError(<-done)
	}()

	type location struct {
		Latitude float64 `json:"latitude"`
	}

	var got ports.Event
	// The listener subscribes asynchronously; keep publishing until one arrives.
	suite.Eventually(func() bool {
		err := relay.Publish(context.Background(), "order-42", ports.Event{
			Name: "location-update",
			Data: location{Latitude: 10.5},
		})
		if err != nil {
			return false
		}
		select {
		case got = <-sub.Events():
			return true
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 10*time.Second, 100*time.Millisecond)

	suite.Equal("location-update", got.Name)
	raw, ok := got.Data.(json.RawMessage)
	suite.Require().True(ok)

	var decoded location
	suite.Require().NoError(json.Unmarshal(raw, &decoded))
	suite.InDelta(10.5, decoded.Latitude, 1e-9)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestNotifyRelay_LargeEventStaysLocal() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := fanout.NewHub(1, logger)
	sub, err := hub.Connect("s1")
	suite.Require().NoError(err)
	suite.Require().NoError(hub.Join("s1", "chat-1"))

	relay := postgres_adapter.NewNotifyRelay(suite.pg.DB, suite.pg.DSN, "", hub, logger)

	err = relay.Publish(context.Background(), "chat-1", ports.Event{
		Name: "message-received",
		Data: strings.Repeat("x", 9000),
	})

	suite.Require().NoError(err)
	suite.Len(sub.Events(), 1)
}
