package commands_test

import (
	"testing"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	t.Run("should create command with trimmed values", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand(" SO1 ", " sf ",
			"北京市朝阳区", []float64{116.48, 39.99},
			"上海市浦东新区", nil)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, "SO1", cmd.OrderNo())
		assert.Equal(t, "sf", cmd.CourierCode())
		assert.Equal(t, "北京市朝阳区", cmd.Origin().Text)
		assert.InDelta(t, 116.48, cmd.Origin().Coordinate.Lng(), 1e-9)
		assert.False(t, cmd.Destination().HasCoordinate())
	})

	t.Run("should allow blank courier code", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand("SO1", "", "a", nil, "b", nil)

		require.NoError(t, err)
		assert.Empty(t, cmd.CourierCode())
	})

	t.Run("should treat a single component as no coordinate", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand("SO1", "sf", "a", []float64{116}, "b", nil)

		require.NoError(t, err)
		assert.False(t, cmd.Origin().HasCoordinate())
	})

	t.Run("should require order number and addresses", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(" ", "sf", "", nil, "\t", nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "orderNo")
		assert.Contains(t, err.Error(), "origin")
		assert.Contains(t, err.Error(), "destination")
	})

	t.Run("should reject malformed coordinates", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand("SO1", "sf", "a", []float64{116, 95}, "b", []float64{200, 10})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "origin coordinate")
		assert.Contains(t, err.Error(), "destination coordinate")
	})

	t.Run("should fail validation when not constructed", func(t *testing.T) {
		var cmd commands.CreateOrderCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
	})
}
