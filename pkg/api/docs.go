package api

import (
	"net/http"

	"github.com/swaggo/swag"
)

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
        "/health": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["health"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/replays": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["replays"],
                "summary": "List catalog replays",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["replays"],
                "summary": "Import a REC file",
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Catalog name", "name": "name", "in": "query"},
                    {"description": "REC file", "name": "body", "in": "body", "required": true,
                        "schema": {"type": "string", "format": "binary"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Not a REC file", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "413": {"description": "Upload too large", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/replays/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["replays"],
                "summary": "Get replay metadata",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Replay id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["replays"],
                "summary": "Delete a replay",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Replay id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/replays/{id}/raw": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["replays"],
                "summary": "Download the stored REC file",
                "produces": ["application/octet-stream"],
                "parameters": [{"type": "string", "description": "Replay id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "REC bytes", "schema": {"type": "string", "format": "binary"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/replays/{id}/moves": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["moves"],
                "summary": "List move records",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Replay id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["moves"],
                "summary": "Insert a move record",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Replay id", "name": "id", "in": "path", "required": true},
                    {"description": "Move and insert position", "name": "body", "in": "body", "required": true,
                        "schema": {"$ref": "#/definitions/api.InsertMoveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Invalid move or index", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/replays/{id}/moves/{index}": {
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["moves"],
                "summary": "Delete a move record",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Replay id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Move index", "name": "index", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Index out of range", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/replays/{id}/playback": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["moves"],
                "summary": "Tick-ordered playback inputs",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Replay id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"type": "string"}
            }
        },
        "api.InsertMoveRequest": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "move": {"$ref": "#/definitions/rec.Move"}
            }
        },
        "rec.Move": {
            "type": "object",
            "properties": {
                "tick": {"type": "integer"},
                "extra": {"type": "integer"},
                "player_id": {"type": "integer"},
                "raw_action": {"type": "integer"},
                "action": {"type": "string", "example": "up+right+punch"},
                "extra_data": {"type": "array", "items": {"type": "integer"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "shadowrec REST API",
	Description:      "Catalog, inspect and edit REC replay files.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	<title>shadowrec API Documentation</title>
	<link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	<div id="swagger-ui"></div>
	<script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	<script>
	  window.onload = function() {
	    SwaggerUIBundle({
	      url: '/swagger/swagger.json',
	      dom_id: '#swagger-ui',
	      presets: [
	        SwaggerUIBundle.presets.apis,
	        SwaggerUIBundle.presets.standalone
	      ]
	    });
	  };
	</script>
</body>
</html>`

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerUI))
	case "/swagger/swagger.json":
		doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
		if err != nil {
			s.logger.Error("render swagger doc", "error", err)
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	default:
		http.NotFound(w, r)
	}
}
