package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T, lat, lng float64) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return loc
}

func TestOfferRanker_Rank(t *testing.T) {
	courier := mustLocation(t, 10.7769, 106.7009)

	far := services.Candidate{OrderID: kernel.NewUUID(), Pickup: mustLocation(t, 10.85, 106.77)}
	near := services.Candidate{OrderID: kernel.NewUUID(), Pickup: mustLocation(t, 10.7780, 106.7010)}
	mid := services.Candidate{OrderID: kernel.NewUUID(), Pickup: mustLocation(t, 10.80, 106.72)}

	t.Run("should sort nearest pickup first", func(t *testing.T) {
		ranked, err := services.NewOfferRanker().Rank(courier, []services.Candidate{far, near, mid})

		require.NoError(t, err)
		require.Len(t, ranked, 3)
		assert.True(t, ranked[0].OrderID.IsEqual(near.OrderID))
		assert.True(t, ranked[1].OrderID.IsEqual(mid.OrderID))
		assert.True(t, ranked[2].OrderID.IsEqual(far.OrderID))
		assert.Less(t, ranked[0].DistanceKm, ranked[1].DistanceKm)
	})

	t.Run("should keep input order on ties", func(t *testing.T) {
		first := services.Candidate{OrderID: kernel.NewUUID(), Pickup: near.Pickup}
		second := services.Candidate{OrderID: kernel.NewUUID(), Pickup: near.Pickup}

		ranked, err := services.NewOfferRanker().Rank(courier, []services.Candidate{first, second})

		require.NoError(t, err)
		assert.True(t, ranked[0].OrderID.IsEqual(first.OrderID))
		assert.True(t, ranked[1].OrderID.IsEqual(second.OrderID))
	})

	t.Run("should fail on empty input", func(t *testing.T) {
		_, err := services.NewOfferRanker().Rank(courier, nil)
		require.ErrorIs(t, err, services.ErrNoCandidates)
	})

	t.Run("should fail on unconstructed pickup", func(t *testing.T) {
		_, err := services.NewOfferRanker().Rank(courier, []services.Candidate{{OrderID: kernel.NewUUID()}})
		require.Error(t, err)
	})
}

func TestOfferRanker_Nearest(t *testing.T) {
	courier := mustLocation(t, 0, 0)
	a := services.Candidate{OrderID: kernel.NewUUID(), Pickup: mustLocation(t, 1, 1)}
	b := services.Candidate{OrderID: kernel.NewUUID(), Pickup: mustLocation(t, 0.1, 0.1)}

	nearest, err := services.NewOfferRanker().Nearest(courier, []services.Candidate{a, b})

	require.NoError(t, err)
	assert.True(t, nearest.OrderID.IsEqual(b.OrderID))
}
