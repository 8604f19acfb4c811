package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidTransitionError(t *testing.T) {
	err := errs.NewInvalidTransitionError("cancelled", "shipping")

	assert.Equal(t, "transition is invalid: cancelled -> shipping", err.Error())
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestNotArrivedError(t *testing.T) {
	err := errs.NewNotArrivedError("SO1")

	assert.Equal(t, "shipment has not arrived: order SO1 has not reached its destination", err.Error())
	require.ErrorIs(t, err, errs.ErrNotArrived)
}

func TestStationErrors(t *testing.T) {
	t.Run("should describe already arrived station", func(t *testing.T) {
		err := errs.NewAlreadyArrivedError(2)

		assert.Equal(t, "station already arrived: station 2", err.Error())
		require.ErrorIs(t, err, errs.ErrAlreadyArrived)
	})

	t.Run("should name the missing predecessor", func(t *testing.T) {
		err := errs.NewOutOfSequenceError(3)

		assert.Equal(t, "station is out of sequence: station 3 requires station 2 to be arrived first", err.Error())
		require.ErrorIs(t, err, errs.ErrOutOfSequence)
	})
}

func TestProviderErrors(t *testing.T) {
	t.Run("geocode failure unwraps to sentinel and cause", func(t *testing.T) {
		limited := errs.NewRateLimitedError("amap", errors.New("CUQPS_HAS_EXCEEDED_THE_LIMIT"))
		err := errs.NewGeocodeFailedError("上海市", limited)

		require.ErrorIs(t, err, errs.ErrGeocodeFailed)
		require.ErrorIs(t, err, errs.ErrRateLimited)
		assert.Contains(t, err.Error(), "geocode failed: 上海市")
	})

	t.Run("route planning failure keeps geocode cause", func(t *testing.T) {
		cause := errs.NewGeocodeFailedError("nowhere", nil)
		err := fmt.Errorf("ship: %w", errs.NewRoutePlanningFailedError("北京", "nowhere", cause))

		require.ErrorIs(t, err, errs.ErrRoutePlanningFailed)
		require.ErrorIs(t, err, errs.ErrGeocodeFailed)

		var target *errs.RoutePlanningFailedError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "北京", target.Origin)
	})

	t.Run("errors without cause unwrap only to sentinel", func(t *testing.T) {
		err := errs.NewRoutePlanningFailedError("a", "b", nil)

		assert.Equal(t, "route planning failed: a -> b", err.Error())
		require.ErrorIs(t, err, errs.ErrRoutePlanningFailed)
		assert.NotErrorIs(t, err, errs.ErrGeocodeFailed)
	})
}
