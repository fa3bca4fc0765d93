// Package validation собирает общий validator для HTTP-слоя и сервисов.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/barbershop-booking/internal/lib/password"
)

// TagPasswordBytes ограничивает длину пароля в байтах, как bcrypt.
const TagPasswordBytes = "pwbytes"

// New возвращает validator, который называет поля по json-тегам
// и знает правило pwbytes.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation(TagPasswordBytes, func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= password.MaxBytes
	}); err != nil {
		panic(err)
	}
	return v
}
