package router

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxAddressLen = 128

// validAddress accepts opaque participant addresses: non-empty, bounded,
// no whitespace.
func validAddress(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	if addr == "" || len(addr) > maxAddressLen {
		return false
	}
	return !strings.ContainsAny(addr, " \t\n\r")
}

// RegisterValidations installs the custom binding rules on gin's
// validator engine. Safe to call more than once.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("address", validAddress)
	}
}
