package kernel_test

import (
	"math"
	"testing"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		lng     float64
		lat     float64
		wantErr string
	}{
		{name: "beijing", lng: 116.407526, lat: 39.904030},
		{name: "lower bounds", lng: -180, lat: -90},
		{name: "upper bounds", lng: 180, lat: 90},
		{name: "longitude too large", lng: 180.1, lat: 0, wantErr: "longitude"},
		{name: "latitude too small", lng: 0, lat: -90.5, wantErr: "latitude"},
		{name: "nan longitude", lng: math.NaN(), lat: 0, wantErr: "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := kernel.NewCoordinate(tt.lng, tt.lat)

			if tt.wantErr != "" {
				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, c.IsZero())
				return
			}

			require.NoError(t, err)
			require.NoError(t, c.Validate())
			assert.InDelta(t, tt.lng, c.Lng(), 1e-9)
			assert.InDelta(t, tt.lat, c.Lat(), 1e-9)
		})
	}

	t.Run("should join both component errors", func(t *testing.T) {
		_, err := kernel.NewCoordinate(500, 500)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "longitude")
		assert.Contains(t, err.Error(), "latitude")
	})
}

func TestParseCoordinate(t *testing.T) {
	t.Run("should parse provider format", func(t *testing.T) {
		c, err := kernel.ParseCoordinate("121.473701,31.230416")

		require.NoError(t, err)
		assert.InDelta(t, 121.473701, c.Lng(), 1e-9)
		assert.InDelta(t, 31.230416, c.Lat(), 1e-9)
		assert.Equal(t, "121.473701,31.230416", c.String())
	})

	t.Run("should tolerate spaces", func(t *testing.T) {
		c, err := kernel.ParseCoordinate(" 113.264385 , 23.129112 ")

		require.NoError(t, err)
		assert.InDelta(t, 23.129112, c.Lat(), 1e-9)
	})

	for _, input := range []string{"", "116.4", "a,b", "1,2,3"} {
		t.Run("should reject "+input, func(t *testing.T) {
			_, err := kernel.ParseCoordinate(input)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		})
	}
}

func TestCoordinateFromComponents(t *testing.T) {
	t.Run("should report absent for fewer than two components", func(t *testing.T) {
		for _, in := range [][]float64{nil, {}, {116.4}} {
			_, ok, err := kernel.CoordinateFromComponents(in)

			require.NoError(t, err)
			assert.False(t, ok)
		}
	})

	t.Run("should ignore extra components", func(t *testing.T) {
		c, ok, err := kernel.CoordinateFromComponents([]float64{104.066541, 30.572269, 500})

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []float64{104.066541, 30.572269}, c.Components())
	})

	t.Run("should fail for out of range components", func(t *testing.T) {
		_, ok, err := kernel.CoordinateFromComponents([]float64{200, 10})

		require.Error(t, err)
		assert.False(t, ok)
	})
}

func TestCoordinate_Interpolate(t *testing.T) {
	from, _ := kernel.NewCoordinate(116.0, 40.0)
	to, _ := kernel.NewCoordinate(121.0, 30.0)

	t.Run("should return endpoints at ratio 0 and 1", func(t *testing.T) {
		assert.True(t, from.Interpolate(to, 0).IsEqual(from))
		assert.True(t, from.Interpolate(to, 1).IsEqual(to))
	})

	t.Run("should return midpoint", func(t *testing.T) {
		mid := from.Interpolate(to, 0.5)

		assert.InDelta(t, 118.5, mid.Lng(), 1e-9)
		assert.InDelta(t, 35.0, mid.Lat(), 1e-9)
		require.NoError(t, mid.Validate())
	})
}

func TestCoordinate_Offset(t *testing.T) {
	t.Run("should shift both components", func(t *testing.T) {
		c, _ := kernel.NewCoordinate(100, 30)

		moved := c.Offset(0.25, -0.15)

		assert.InDelta(t, 100.25, moved.Lng(), 1e-9)
		assert.InDelta(t, 29.85, moved.Lat(), 1e-9)
	})

	t.Run("should clamp to bounds", func(t *testing.T) {
		c, _ := kernel.NewCoordinate(179.9, 89.9)

		moved := c.Offset(1, 1)

		assert.InDelta(t, kernel.MaxLongitude, moved.Lng(), 1e-9)
		assert.InDelta(t, kernel.MaxLatitude, moved.Lat(), 1e-9)
	})
}

func TestCoordinate_IsEqual(t *testing.T) {
	a, _ := kernel.NewCoordinate(1, 2)
	b, _ := kernel.NewCoordinate(1, 2)
	c, _ := kernel.NewCoordinate(2, 1)

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
	assert.False(t, a.IsEqual(kernel.Coordinate{}))
}
