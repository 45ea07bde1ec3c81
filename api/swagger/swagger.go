package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "GradeVue API",
        "description": "StudentVue gradebook client with what-if grade simulation",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "District login and session lifecycle"},
        {"name": "Gradebook", "description": "Normalised gradebook views"},
        {"name": "Hypothetical", "description": "What-if grade simulation"},
        {"name": "Changes", "description": "Grade change history"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate against the district",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Credentials"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload"},
                    "401": {"description": "District rejected credentials"},
                    "504": {"description": "District timed out"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "responses": {
                    "204": {"description": "Logged out"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/gradebook": {
            "get": {
                "tags": ["Gradebook"],
                "summary": "Get the current gradebook",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/gradebook/refresh": {
            "post": {
                "tags": ["Gradebook"],
                "summary": "Refresh the gradebook from the district",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"},
                    "502": {"description": "District unavailable"},
                    "504": {"description": "District timed out"}
                }
            }
        },
        "/gradebook/period": {
            "put": {
                "tags": ["Gradebook"],
                "summary": "Switch reporting period",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"index": {"type": "integer"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/hypothetical/mode": {
            "put": {
                "tags": ["Hypothetical"],
                "summary": "Toggle what-if mode",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"enabled": {"type": "boolean"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/hypothetical/courses/{id}/assignments": {
            "post": {
                "tags": ["Hypothetical"],
                "summary": "Add a hypothetical assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/HypotheticalAssignment"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown course"}
                }
            }
        },
        "/hypothetical/courses/{id}/assignments/{index}": {
            "put": {
                "tags": ["Hypothetical"],
                "summary": "Override an assignment score",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "index", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScoreOverride"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown course"}
                }
            },
            "delete": {
                "tags": ["Hypothetical"],
                "summary": "Remove a hypothetical assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "index", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Removed"},
                    "404": {"description": "Unknown assignment"}
                }
            }
        },
        "/changes": {
            "get": {
                "tags": ["Changes"],
                "summary": "List grade changes",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Changes"],
                "summary": "Clear grade changes",
                "responses": {
                    "204": {"description": "Cleared"}
                }
            }
        }
    },
    "definitions": {
        "Credentials": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "district_url": {"type": "string"},
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ScoreOverride": {
            "type": "object",
            "required": ["points_earned", "points_possible"],
            "properties": {
                "points_earned": {"type": "number"},
                "points_possible": {"type": "number"}
            }
        },
        "HypotheticalAssignment": {
            "type": "object",
            "required": ["points_earned", "points_possible"],
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"},
                "points_earned": {"type": "number"},
                "points_possible": {"type": "number"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
