package guard_test

import (
	"errors"
	"testing"

	"logistics/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed guard returns nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero value guard returns supplied error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("entity not constructed")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero value guard falls back to default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
	})
}

func TestConstructorGuard_Embedded(t *testing.T) {
	type waypoint struct {
		name  string
		guard guard.ConstructorGuard
	}
	errNotConstructed := errors.New("waypoint must be created via newWaypoint")

	newWaypoint := func(name string) (waypoint, error) {
		if name == "" {
			return waypoint{}, errors.New("name is required")
		}
		return waypoint{name: name, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("should accept constructor built value", func(t *testing.T) {
		w, err := newWaypoint("济南转运中心")

		require.NoError(t, err)
		require.NoError(t, w.guard.Validate(errNotConstructed))
		assert.Equal(t, "济南转运中心", w.name)
	})

	t.Run("should reject struct literal", func(t *testing.T) {
		w := waypoint{name: "literal"}

		assert.Equal(t, errNotConstructed, w.guard.Validate(errNotConstructed))
	})
}
