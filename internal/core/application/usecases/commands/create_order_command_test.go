package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItems() []commands.OrderItemInput {
	return []commands.OrderItemInput{
		{ProductID: kernel.NewUUID(), Quantity: 2},
	}
}

func validAddress() commands.AddressInput {
	return commands.AddressInput{Street: "12 Lake Rd", City: "Colombo", PostalCode: "00300"}
}

func TestNewCreateOrderCommand(t *testing.T) {
	customer := principalOf(t, kernel.NewUUID(), access.RoleCustomer)

	t.Run("valid", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand(customer, validItems(), validAddress(), order.PaymentCash, "ring twice")
		require.NoError(t, err)
		assert.NoError(t, cmd.Validate())
		assert.Equal(t, "ring twice", cmd.Instructions())
		assert.Len(t, cmd.Items(), 1)
	})

	t.Run("empty items rejected", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(customer, nil, validAddress(), order.PaymentCash, "")
		require.ErrorIs(t, err, commands.ErrItemsAreRequired)
	})

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		items := []commands.OrderItemInput{{ProductID: kernel.NewUUID(), Quantity: 0}}
		_, err := commands.NewCreateOrderCommand(customer, items, validAddress(), order.PaymentCash, "")
		require.Error(t, err)
	})

	t.Run("unknown payment method rejected", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(customer, validItems(), validAddress(), order.PaymentMethodUnknown, "")
		require.Error(t, err)
	})

	t.Run("unconstructed principal rejected", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(access.Principal{}, validItems(), validAddress(), order.PaymentCash, "")
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var cmd commands.CreateOrderCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
	})
}
