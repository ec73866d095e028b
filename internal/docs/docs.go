// Package docs holds the OpenAPI description served at /swagger/.
// Regenerate with: swag init -g cmd/testerhub/main.go -o internal/docs
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
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/server.HealthResponse"}}
                }
            }
        },
        "/catalog/tools": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Filter tools",
                "parameters": [
                    {"type": "string", "description": "Search text", "name": "search", "in": "query"},
                    {"type": "string", "description": "Category name or key, or All", "name": "category", "in": "query"},
                    {"type": "string", "description": "All, Free/OS or Paid", "name": "pricing", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Required tags", "name": "tag", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.ToolsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        },
        "/catalog/tools/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Get tool",
                "parameters": [{"type": "string", "description": "Tool ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Tool"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        },
        "/catalog/tools/{id}/related": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Related tools",
                "parameters": [{"type": "string", "description": "Tool ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Tool"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        },
        "/catalog/facets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List facets",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.Facets"}}}
            }
        },
        "/catalog/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Summarize filtered tools",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/export.Summary"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        },
        "/catalog/export": {
            "get": {
                "produces": ["application/json", "text/csv"],
                "tags": ["catalog"],
                "summary": "Export filtered tools",
                "parameters": [{"enum": ["json", "csv"], "type": "string", "description": "Export format", "name": "format", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Tool"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        },
        "/catalog/live": {
            "get": {
                "tags": ["catalog"],
                "summary": "Live filtering",
                "description": "WebSocket. Send Criteria JSON messages, receive a LiveResponse for each.",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        },
        "/compare/sessions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["compare"],
                "summary": "Create comparison session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/compare.Snapshot"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.Problem"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        },
        "/compare/sessions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["compare"],
                "summary": "Get comparison session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/compare.Snapshot"}}}
            },
            "delete": {
                "tags": ["compare"],
                "summary": "Delete comparison session",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/advice": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["advice"],
                "summary": "Generate agent advice",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/advice.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.Problem"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        },
        "/settings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Get display settings",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/settings.Settings"}}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Update display settings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/settings.Settings"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        }
    },
    "definitions": {
        "server.Problem": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "instance": {"type": "string"}
            }
        },
        "server.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "service": {"type": "string"},
                "version": {"type": "object", "additionalProperties": {"type": "string"}},
                "checks": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "models.Tool": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "url": {"type": "string"},
                "howToUse": {"type": "string"},
                "frameworks": {"type": "array", "items": {"type": "string"}},
                "tags": {"type": "array", "items": {"type": "string"}},
                "isPaid": {"type": "boolean"},
                "isOpenSource": {"type": "boolean"},
                "agentStrategy": {"type": "string"},
                "version": {"type": "string"},
                "logo": {"type": "string"}
            }
        },
        "catalog.ToolsResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "criteria": {"type": "object"},
                "tools": {"type": "array", "items": {"$ref": "#/definitions/models.Tool"}}
            }
        },
        "catalog.Facets": {
            "type": "object",
            "properties": {
                "categories": {"type": "array", "items": {"type": "string"}},
                "pricing": {"type": "array", "items": {"type": "string"}},
                "groups": {"type": "array", "items": {"type": "object"}}
            }
        },
        "export.Summary": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "openSource": {"type": "integer"},
                "paid": {"type": "integer"},
                "neither": {"type": "integer"},
                "byCategory": {"type": "array", "items": {"type": "object"}}
            }
        },
        "compare.Snapshot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "focal": {"$ref": "#/definitions/models.Tool"},
                "picks": {"type": "array", "items": {"$ref": "#/definitions/models.Tool"}},
                "full": {"type": "boolean"},
                "updated_at": {"type": "string"}
            }
        },
        "advice.Result": {
            "type": "object",
            "properties": {
                "tool": {"type": "string"},
                "framework": {"type": "string"},
                "advice": {"type": "string"},
                "fallback": {"type": "boolean"},
                "model": {"type": "string"}
            }
        },
        "settings.Settings": {
            "type": "object",
            "properties": {
                "theme": {"type": "string", "enum": ["dark", "light"]},
                "language": {"type": "string"},
                "fontSize": {"type": "string", "enum": ["sm", "md", "lg"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "testerhub API",
	Description:      "Faceted search over a directory of software testing tools.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
