package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest checks the struct's validate tags. Failures come back as
// a 400 fiber error so handlers can return them directly and let the error
// middleware shape the response.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		fields := make([]string, 0, len(invalid))
		for _, f := range invalid {
			fields = append(fields, fmt.Sprintf("%s failed on '%s'", f.Field(), f.Tag()))
		}
		return fiber.NewError(fiber.StatusBadRequest, strings.Join(fields, "; "))
	}

	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}
