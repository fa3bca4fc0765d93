// Package docs регистрирует Swagger-описание HTTP API для /docs/*.
// После изменения аннотаций обработчиков шаблон обновляется через swag init.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Вход",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/login.Request"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.Session"}},
                    "401": {"description": "invalid email or password", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "429": {"description": "Слишком много запросов", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/v1/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Регистрация клиента",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/register.Request"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/auth.Session"}},
                    "400": {"description": "registration failed", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/v1/logout": {
            "post": {"tags": ["Auth"], "summary": "Выход", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/session": {
            "get": {
                "tags": ["Auth"],
                "summary": "Текущая сессия",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Identity"}},
                    "401": {"description": "Нет сессии", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/client/appointments": {
            "get": {
                "tags": ["Appointments"],
                "summary": "История записей",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Appointment"}}},
                    "303": {"description": "Редирект на вход"}
                }
            },
            "post": {
                "tags": ["Appointments"],
                "summary": "Записаться к мастеру",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.BookingInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Appointment"}},
                    "303": {"description": "Редирект на вход"},
                    "409": {"description": "slot no longer available", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "try again later", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/client/appointments/{id}/cancel": {
            "post": {
                "tags": ["Appointments"],
                "summary": "Отменить свою запись",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Appointment"}},
                    "403": {"description": "Чужая запись"},
                    "404": {"description": "Запись не найдена"},
                    "409": {"description": "Переход запрещён"}
                }
            }
        },
        "/client/availability": {
            "get": {
                "tags": ["Appointments"],
                "summary": "Свободен ли интервал",
                "parameters": [
                    {"in": "query", "name": "providerId", "type": "string", "required": true},
                    {"in": "query", "name": "startTime", "type": "string", "required": true},
                    {"in": "query", "name": "endTime", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Ошибка валидации"}}
            }
        },
        "/barber/appointments": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Расписание мастера",
                "parameters": [
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Чужое расписание"}}
            }
        },
        "/barber/appointments/{id}/status": {
            "patch": {
                "tags": ["Appointments"],
                "summary": "Сменить статус записи",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/status.Request"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Appointment"}},
                    "403": {"description": "Чужая запись"},
                    "409": {"description": "Переход запрещён"}
                }
            }
        },
        "/admin/appointments": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Записи любого мастера",
                "parameters": [
                    {"in": "query", "name": "providerId", "type": "string"},
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/services": {
            "get": {"tags": ["Catalogue"], "summary": "Каталог услуг", "responses": {"200": {"description": "OK"}, "500": {"description": "try again later", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/login": {
            "get": {"tags": ["Auth"], "summary": "Точка входа для редиректа", "responses": {"401": {"description": "login required", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/healthz": {
            "get": {"tags": ["Health"], "summary": "Состояние сервиса", "responses": {"200": {"description": "OK"}, "503": {"description": "База недоступна"}}}
        }
    },
    "definitions": {
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"type": "string", "example": "invalid request body"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "login.Request": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "register.Request": {
            "type": "object",
            "required": ["email", "password", "name"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string", "minLength": 8}, "name": {"type": "string"}}
        },
        "status.Request": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string", "enum": ["CONFIRMED", "CANCELLED", "COMPLETED"]}}
        },
        "models.Identity": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "role": {"type": "string", "enum": ["CLIENT", "BARBER", "ADMIN"]}}
        },
        "auth.Session": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "identity": {"$ref": "#/definitions/models.Identity"}, "expiresAt": {"type": "string"}}
        },
        "models.BookingInput": {
            "type": "object",
            "required": ["providerId", "serviceId"],
            "properties": {
                "providerId": {"type": "string"},
                "serviceId": {"type": "string"},
                "date": {"type": "string", "example": "2030-03-10"},
                "time": {"type": "string", "example": "10:00"},
                "startTime": {"type": "string", "example": "2030-03-10T10:00:00Z"},
                "endTime": {"type": "string", "example": "2030-03-10T10:45:00Z"}
            }
        },
        "models.Appointment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "clientId": {"type": "string"},
                "providerId": {"type": "string"},
                "serviceId": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "status": {"type": "string", "enum": ["PENDING", "CONFIRMED", "CANCELLED", "COMPLETED"]},
                "createdAt": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo общие сведения об API.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Barbershop Booking API",
	Description:      "Запись клиентов к мастерам барбершопа.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
