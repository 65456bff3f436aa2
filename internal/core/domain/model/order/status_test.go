package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	valid := []order.Status{
		order.Pending, order.Confirmed, order.Preparing, order.Ready,
		order.PickedUp, order.InTransit, order.Delivered, order.Cancelled, order.Refunded,
	}
	for _, s := range valid {
		require.NoError(t, s.Validate(), s.String())
	}

	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(99).Validate())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "pending", order.Pending.String())
	assert.Equal(t, "picked_up", order.PickedUp.String())
	assert.Equal(t, "in_transit", order.InTransit.String())
	assert.Equal(t, "unknown", order.Unknown.String())
	assert.Equal(t, "unknown", order.Status(99).String())
}

func TestStatusFromString(t *testing.T) {
	s, err := order.StatusFromString("in_transit")
	require.NoError(t, err)
	assert.Equal(t, order.InTransit, s)

	_, err = order.StatusFromString("unknown")
	require.Error(t, err)

	_, err = order.StatusFromString("shipped")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_TransitionTo(t *testing.T) {
	t.Run("normal flow edges are allowed", func(t *testing.T) {
		flow := []order.Status{
			order.Pending, order.Confirmed, order.Preparing, order.Ready,
			order.PickedUp, order.InTransit, order.Delivered, order.Refunded,
		}
		for i := 0; i < len(flow)-1; i++ {
			next, err := flow[i].TransitionTo(flow[i+1])
			require.NoError(t, err, "%s -> %s", flow[i], flow[i+1])
			assert.Equal(t, flow[i+1], next)
		}
	})

	t.Run("cancellation allowed only before pickup", func(t *testing.T) {
		for _, s := range []order.Status{order.Pending, order.Confirmed, order.Preparing} {
			next, err := s.TransitionTo(order.Cancelled)
			require.NoError(t, err, s.String())
			assert.Equal(t, order.Cancelled, next)
		}
		for _, s := range []order.Status{order.Ready, order.PickedUp, order.InTransit, order.Delivered} {
			_, err := s.TransitionTo(order.Cancelled)
			require.Error(t, err, s.String())
			assert.ErrorIs(t, err, errs.ErrConflict)
		}
	})

	t.Run("skipping edges is rejected", func(t *testing.T) {
		cases := [][2]order.Status{
			{order.Pending, order.Delivered},
			{order.Pending, order.Preparing},
			{order.Confirmed, order.Ready},
			{order.Ready, order.InTransit},
			{order.PickedUp, order.Delivered},
		}
		for _, c := range cases {
			_, err := c[0].TransitionTo(c[1])
			require.Error(t, err, "%s -> %s", c[0], c[1])
			assert.ErrorIs(t, err, errs.ErrConflict)
		}
	})

	t.Run("backward edges are rejected", func(t *testing.T) {
		_, err := order.Confirmed.TransitionTo(order.Pending)
		require.Error(t, err)
		_, err = order.Delivered.TransitionTo(order.InTransit)
		require.Error(t, err)
	})

	t.Run("terminal states allow nothing", func(t *testing.T) {
		for _, s := range []order.Status{order.Cancelled, order.Refunded} {
			for _, next := range []order.Status{
				order.Pending, order.Confirmed, order.Preparing, order.Ready,
				order.PickedUp, order.InTransit, order.Delivered, order.Refunded,
			} {
				if s == next {
					continue
				}
				_, err := s.TransitionTo(next)
				require.Error(t, err, "%s -> %s", s, next)
			}
		}
	})

	t.Run("refund reachable only from delivered", func(t *testing.T) {
		next, err := order.Delivered.TransitionTo(order.Refunded)
		require.NoError(t, err)
		assert.Equal(t, order.Refunded, next)

		for _, s := range []order.Status{order.Pending, order.Ready, order.InTransit, order.Cancelled} {
			_, err := s.TransitionTo(order.Refunded)
			require.Error(t, err, s.String())
		}
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Cancelled.IsTerminal())
	assert.True(t, order.Refunded.IsTerminal())
	assert.False(t, order.Delivered.IsTerminal()) // reserved refund edge remains
	assert.False(t, order.Pending.IsTerminal())
	assert.False(t, order.InTransit.IsTerminal())
}

func TestStatus_ValidateCanClaim(t *testing.T) {
	require.NoError(t, order.Ready.ValidateCanClaim())

	for _, s := range []order.Status{order.Pending, order.Preparing, order.PickedUp, order.Delivered} {
		err := s.ValidateCanClaim()
		require.Error(t, err, s.String())
		assert.ErrorIs(t, err, errs.ErrConflict)
	}
}

func TestStatus_ValidateCanHaveCourier(t *testing.T) {
	t.Run("pre-claim statuses must have no courier", func(t *testing.T) {
		for _, s := range []order.Status{order.Pending, order.Confirmed, order.Preparing, order.Ready, order.Cancelled} {
			require.NoError(t, s.ValidateCanHaveCourier(false), s.String())
			require.Error(t, s.ValidateCanHaveCourier(true), s.String())
		}
	})

	t.Run("post-claim statuses require a courier", func(t *testing.T) {
		for _, s := range []order.Status{order.PickedUp, order.InTransit, order.Delivered, order.Refunded} {
			require.NoError(t, s.ValidateCanHaveCourier(true), s.String())
			require.Error(t, s.ValidateCanHaveCourier(false), s.String())
		}
	})
}
