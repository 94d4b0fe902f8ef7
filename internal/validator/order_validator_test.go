package validator

import (
	"testing"

	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func validInput() usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		ShippingAddress: usecase.ShippingAddressInput{
			Street: "1 Market St",
			City:   "Springfield",
			State:  "IL",
			Zip:    "62701",
		},
		PaymentMethod: "COD",
	}
}

func TestValidateCreateOrder_OK(t *testing.T) {
	v := NewOrderValidator()
	assert.NoError(t, v.ValidateCreateOrder(validInput()))
}

func TestValidateCreateOrder_MissingPaymentMethod(t *testing.T) {
	v := NewOrderValidator()

	in := validInput()
	in.PaymentMethod = ""

	err := v.ValidateCreateOrder(in)
	assert.EqualError(t, err, "payment method required")
}

func TestValidateCreateOrder_MissingAddressFields(t *testing.T) {
	v := NewOrderValidator()

	cases := []struct {
		name   string
		mutate func(*usecase.CreateOrderInput)
	}{
		{"missing street", func(in *usecase.CreateOrderInput) { in.ShippingAddress.Street = "" }},
		{"missing city", func(in *usecase.CreateOrderInput) { in.ShippingAddress.City = "" }},
		{"missing state", func(in *usecase.CreateOrderInput) { in.ShippingAddress.State = "" }},
		{"missing zip", func(in *usecase.CreateOrderInput) { in.ShippingAddress.Zip = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			err := v.ValidateCreateOrder(in)
			assert.EqualError(t, err, "shipping address is incomplete")
		})
	}
}
