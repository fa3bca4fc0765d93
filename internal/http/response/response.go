// Package response содержит единый формат JSON-ответов HTTP-обработчиков:
// {success, error, fields} плюс полезная нагрузка конкретного обработчика.
package response

import (
	"fmt"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/barbershop-booking/internal/lib/password"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/validation"
)

// Response стандартный конверт ответа. Обработчики встраивают его в свои ответы,
// чтобы добавить поля вроде appointment или appointments.
type Response struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Success bool              `json:"success" example:"false"`
	Error   string            `json:"error" example:"invalid request body"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Сообщения, которые видит клиент.
const (
	MsgInvalidBody        = "invalid request body"
	MsgValidation         = "validation failed"
	MsgInvalidCredentials = "invalid email or password"
	MsgSlotUnavailable    = "slot no longer available"
	MsgTryAgainLater      = "try again later"
	MsgForbidden          = "forbidden"
	MsgNotFound           = "not found"
	MsgTooManyRequests    = "too many requests"
)

// OK возвращает успешный Response.
func OK() Response {
	return Response{Success: true}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{Error: msg}
}

// Fields возвращает ответ об ошибке проверки с сообщениями по полям.
func Fields(fields map[string]string) Response {
	return Response{Error: MsgValidation, Fields: fields}
}

// ValidationError переводит ошибки validator в сообщения по полям.
func ValidationError(errs validator.ValidationErrors) Response {
	fields := make(map[string]string, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			fields[err.Field()] = "is required"
		case "email":
			fields[err.Field()] = "must be a valid email"
		case "min":
			fields[err.Field()] = fmt.Sprintf("must be at least %s characters", err.Param())
		case "max":
			fields[err.Field()] = fmt.Sprintf("must be at most %s characters", err.Param())
		case validation.TagPasswordBytes:
			fields[err.Field()] = fmt.Sprintf("must be at most %d bytes", password.MaxBytes)
		default:
			fields[err.Field()] = "is not valid"
		}
	}
	return Fields(fields)
}
