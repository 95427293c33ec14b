package servers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSwagger_IsValid(t *testing.T) {
	swagger, err := GetSwagger()
	require.NoError(t, err)

	require.NoError(t, swagger.Validate(context.Background()))
	assert.Equal(t, "/api/v1", swagger.Servers[0].URL)
}

func TestGetSwagger_DocumentsEveryOperation(t *testing.T) {
	swagger, err := GetSwagger()
	require.NoError(t, err)

	operations := map[string]bool{}
	for _, item := range swagger.Paths.Map() {
		for _, op := range item.Operations() {
			operations[op.OperationID] = true
		}
	}

	for _, id := range []string{
		"CreateOrder", "GetOrder", "ListPendingOrders", "ListAvailableOrders",
		"ListCustomerOrders", "ListStoreOrders", "ListShipperActiveOrders", "ListShipperCompletedOrders",
		"ReviewOrder", "CancelOrder", "AcceptOrder", "StartDelivery", "CompleteDelivery", "GetOrderHistory",
		"GetChatMessages", "SendChatMessage", "MarkChatRead",
		"GetBalance", "Deposit", "Withdraw", "GetTransactionHistory",
		"GetShipperEarnings", "GetPlatformRevenue",
	} {
		assert.True(t, operations[id], id)
	}
	assert.Len(t, operations, 23)
}
