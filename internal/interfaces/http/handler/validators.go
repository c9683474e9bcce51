package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/stocklot/backend/internal/domain/trade"
)

// Domain value types own their vocabularies; the binding tags delegate to
// them so the handler layer never repeats the valid value lists.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		return trade.PaymentStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return trade.PaymentMethod(fl.Field().String()).IsValid()
	})
}
