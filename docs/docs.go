// Package docs registers the OpenAPI description served at /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness probe", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"tags": ["health"], "summary": "Readiness probe", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/v1/auth/login": {
            "post": {"tags": ["auth"], "summary": "Login", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}
        },
        "/v1/auth/logout": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Logout",
                "responses": {"204": {"description": "No Content"}}}
        },
        "/v1/auth/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current account", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Admin"}}}}
        },
        "/v1/auth/register": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Register an admin or operator",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}
        },
        "/v1/track/{tracking_number}": {
            "get": {"tags": ["tracking"], "summary": "Track a shipment", "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "tracking_number", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.trackingResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}
        },
        "/v1/shipments": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["shipments"], "summary": "List shipments", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "query", "name": "status"},
                    {"type": "string", "in": "query", "name": "search"},
                    {"type": "string", "in": "query", "name": "date_from"},
                    {"type": "string", "in": "query", "name": "date_to"},
                    {"type": "integer", "in": "query", "name": "page"},
                    {"type": "integer", "in": "query", "name": "limit"}
                ],
                "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["shipments"], "summary": "Book a new shipment",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "header", "name": "Idempotency-Key"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.shipmentRequest"}}
                ],
                "responses": {"200": {"description": "Replayed"}, "201": {"description": "Created"},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}
        },
        "/v1/shipments/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["shipments"], "summary": "Get a shipment",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["shipments"], "summary": "Replace the editable fields of a shipment",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.shipmentRequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["shipments"], "summary": "Delete a shipment",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/v1/events": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Report a stop status change",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.stopEventRequest"}}],
                "responses": {"202": {"description": "Accepted"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/v1/events/batch": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Report a batch of stop status changes",
                "parameters": [{"in": "body", "name": "body", "required": true,
                    "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.stopEventRequest"}}}],
                "responses": {"202": {"description": "Accepted"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/v1/bills/{id}/document": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Download a document as DOCX",
                "produces": ["application/vnd.openxmlformats-officedocument.wordprocessingml.document"],
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "404": {"description": "Not Found"}}}
        },
        "/v1/site/services": {
            "get": {"tags": ["site"], "summary": "List offered services", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/site/services/{slug}": {
            "get": {"tags": ["site"], "summary": "Get one service",
                "parameters": [{"type": "string", "in": "path", "name": "slug", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/v1/site/branches": {
            "get": {"tags": ["site"], "summary": "List branch offices", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/site/testimonials": {
            "get": {"tags": ["site"], "summary": "List customer testimonials", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.loginRequest": {"type": "object", "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.registerRequest": {"type": "object", "required": ["email", "name", "password", "role"],
            "properties": {"email": {"type": "string"}, "name": {"type": "string"}, "password": {"type": "string", "minLength": 8},
                "role": {"type": "string", "enum": ["admin", "operator"]}}},
        "handler.authResponse": {"type": "object",
            "properties": {"token": {"type": "string"}, "expires_at": {"type": "string"}, "admin": {"$ref": "#/definitions/domain.Admin"}}},
        "domain.Admin": {"type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "role": {"type": "string"},
                "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "handler.transitStopRequest": {"type": "object", "required": ["location", "expected_arrival", "expected_departure"],
            "properties": {"location": {"type": "string"}, "expected_arrival": {"type": "string"},
                "expected_departure": {"type": "string"}, "status": {"type": "string"}}},
        "handler.shipmentRequest": {"type": "object", "required": ["consignor", "consignee", "origin", "destination"],
            "properties": {"status": {"type": "string"}, "origin": {"type": "string"}, "destination": {"type": "string"},
                "description": {"type": "string"}, "booking_date": {"type": "string"},
                "transit_stops": {"type": "array", "items": {"$ref": "#/definitions/handler.transitStopRequest"}}}},
        "handler.trackingResponse": {"type": "object",
            "properties": {"tracking_number": {"type": "string"}, "status": {"type": "string"}, "current_location": {"type": "string"},
                "progress": {"type": "number"}, "booking_date": {"type": "string"}, "evaluated_at": {"type": "string"}}},
        "handler.stopEventRequest": {"type": "object", "required": ["tracking_number", "stop_index", "status", "timestamp", "source"],
            "properties": {"tracking_number": {"type": "string"}, "stop_index": {"type": "integer"}, "status": {"type": "string"},
                "timestamp": {"type": "string"}, "source": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Movers Portal API",
	Description:      "Back office and public tracking API for a packers and movers company.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
