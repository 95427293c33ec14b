package queries_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueries_NotConstructedViaConstructor(t *testing.T) {
	tests := []struct {
		name     string
		validate func() error
		want     error
	}{
		{"get order", queries.GetOrderQuery{}.Validate, queries.ErrGetOrderQueryIsNotConstructed},
		{"list orders", queries.ListOrdersQuery{}.Validate, queries.ErrListOrdersQueryIsNotConstructed},
		{"status history", queries.GetStatusHistoryQuery{}.Validate, queries.ErrGetStatusHistoryQueryIsNotConstructed},
		{"chat", queries.GetChatMessagesQuery{}.Validate, queries.ErrGetChatMessagesQueryIsNotConstructed},
		{"balance", queries.GetBalanceQuery{}.Validate, queries.ErrGetBalanceQueryIsNotConstructed},
		{"ledger history", queries.GetLedgerHistoryQuery{}.Validate, queries.ErrGetLedgerHistoryQueryIsNotConstructed},
		{"courier earnings", queries.GetCourierEarningsQuery{}.Validate, queries.ErrGetCourierEarningsQueryIsNotConstructed},
		{"platform revenue", queries.GetPlatformRevenueQuery{}.Validate, queries.ErrGetPlatformRevenueQueryIsNotConstructed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.validate(), tt.want)
		})
	}
}

func TestQueries_RejectMissingIDs(t *testing.T) {
	var zero kernel.UUID

	_, err := queries.NewGetOrderQuery(zero)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewListCustomerOrdersQuery(zero)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewListCourierActiveOrdersQuery(zero)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewGetCourierEarningsQuery(zero, time.Now())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewGetLedgerHistoryQuery_Limit(t *testing.T) {
	user := kernel.NewUUID()

	q, err := queries.NewGetLedgerHistoryQuery(user, 0)
	require.NoError(t, err)
	require.NoError(t, q.Validate())

	_, err = queries.NewGetLedgerHistoryQuery(user, queries.MaxHistoryLimit+1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = queries.NewGetLedgerHistoryQuery(user, -1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestNewListAvailableOrdersQuery(t *testing.T) {
	q, err := queries.NewListAvailableOrdersQuery(nil)
	require.NoError(t, err)
	assert.Equal(t, queries.ListAvailable, q.Listing())

	_, err = queries.NewListAvailableOrdersQuery(&kernel.Location{})
	require.Error(t, err, "an unconstructed location cannot rank")
}

func TestPeriodsAt(t *testing.T) {
	// Thursday.
	now := time.Date(2026, 3, 12, 15, 30, 0, 0, time.UTC)

	p := queries.PeriodsAt(now)

	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), p.Today)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), p.Week, "weeks start on Sunday")
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), p.Month)
}

func TestPeriodsAt_ConvertsToUTC(t *testing.T) {
	zone := time.FixedZone("ICT", 7*60*60)
	// 02:00 on the 1st in UTC+7 is still the last day of the previous month in UTC.
	now := time.Date(2026, 4, 1, 2, 0, 0, 0, zone)

	p := queries.PeriodsAt(now)

	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), p.Today)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), p.Month)
}
