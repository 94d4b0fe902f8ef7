package validator

import (
	"errors"

	"app/internal/usecase"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type orderValidator struct{}

// Usecaseは interface を依存注入
func NewOrderValidator() usecase.OrderValidator {
	return &orderValidator{}
}

// チェックアウト入力を検証。
// 配送先の4項目（street/city/state/zip）と支払い方法はすべて必須。
func (v *orderValidator) ValidateCreateOrder(in usecase.CreateOrderInput) error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].StructField() {
			case "PaymentMethod":
				return errors.New("payment method required")
			default:
				return errors.New("shipping address is incomplete")
			}
		}
		return errors.New("invalid input")
	}
	return nil
}
