// Package docs is generated by swaggo/swag from the annotations in
// cmd/tracker and internal/inventory/delivery/http.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "http://github.com/tair/inventory-tracker"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/items": {
            "get": {
                "description": "Reload the inventory and return it, optionally filtered by a case-insensitive name substring",
                "produces": ["application/json"],
                "tags": ["Inventory"],
                "summary": "List inventory items",
                "parameters": [
                    {"type": "string", "description": "Name filter", "name": "q", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "description": "Create the item with quantity 1 or increase an existing one. Multipart requests may carry an image.",
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Inventory"],
                "summary": "Add or increment an item",
                "parameters": [
                    {"type": "string", "description": "Item name (multipart)", "name": "name", "in": "formData"},
                    {"type": "file", "description": "Item image (multipart)", "name": "image", "in": "formData"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/items/{name}": {
            "get": {
                "description": "Read a single item by name",
                "produces": ["application/json"],
                "tags": ["Inventory"],
                "summary": "Get an item",
                "parameters": [
                    {"type": "string", "description": "Item name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "500": {"description": "Internal Server Error"}}
            },
            "delete": {
                "description": "Delete the item whatever its quantity",
                "produces": ["application/json"],
                "tags": ["Inventory"],
                "summary": "Remove an item",
                "parameters": [
                    {"type": "string", "description": "Item name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/items/{name}/increment": {
            "post": {
                "description": "Add one unit, creating the item when missing",
                "produces": ["application/json"],
                "tags": ["Inventory"],
                "summary": "Increase an item",
                "parameters": [
                    {"type": "string", "description": "Item name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/items/{name}/decrement": {
            "post": {
                "description": "Take one unit, deleting the item at the last one. Missing items are ignored.",
                "produces": ["application/json"],
                "tags": ["Inventory"],
                "summary": "Decrease an item",
                "parameters": [
                    {"type": "string", "description": "Item name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health": {
            "get": {
                "description": "Check service health and document store connectivity",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Inventory Tracker API",
	Description:      "Inventory tracker with a server-rendered page and a JSON API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
