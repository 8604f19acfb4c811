package order_test

import (
	"testing"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArrivalStatus(t *testing.T) {
	tests := []struct {
		in       string
		expected order.ArrivalStatus
	}{
		{in: "", expected: order.ArrivalPending},
		{in: "pending", expected: order.ArrivalPending},
		{in: "arrived", expected: order.ArrivalArrived},
	}

	for _, tt := range tests {
		got, err := order.ParseArrivalStatus(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}

	_, err := order.ParseArrivalStatus("lost")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRestoreStation(t *testing.T) {
	c, _ := kernel.NewCoordinate(117.0, 36.6)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("should restore arrived station", func(t *testing.T) {
		s, err := order.RestoreStation(1, "济南转运中心", c, order.ArrivalArrived, &at)

		require.NoError(t, err)
		assert.Equal(t, 1, s.Index())
		assert.Equal(t, "济南转运中心", s.Location())
		assert.True(t, s.Coordinate().IsEqual(c))
		assert.Equal(t, "arrived", s.ArrivalStatus().String())
		assert.Equal(t, at, *s.ArrivalTime())
	})

	t.Run("should return a copy of the arrival time", func(t *testing.T) {
		s, _ := order.RestoreStation(0, "a", c, order.ArrivalArrived, &at)

		got := s.ArrivalTime()
		*got = got.Add(time.Hour)

		assert.Equal(t, at, *s.ArrivalTime())
	})

	t.Run("should reject inconsistent state", func(t *testing.T) {
		_, err := order.RestoreStation(-1, "a", c, order.ArrivalArrived, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "station index")
		assert.Contains(t, err.Error(), "arrival time")
	})
}
