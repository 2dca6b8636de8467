// Package docs registers the swagger document served under /swagger.
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
        "/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["project"],
                "summary": "List project categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Check credentials and start a new session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Admin login",
                "parameters": [
                    {"description": "Credentials", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/serializer.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/serializer.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/serializer.Response"}}
                }
            }
        },
        "/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/serializer.Response"}}
                }
            }
        },
        "/projects": {
            "get": {
                "description": "Return every project in storage order",
                "produces": ["application/json"],
                "tags": ["project"],
                "summary": "List projects",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Project"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/serializer.Response"}}
                }
            },
            "post": {
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["project"],
                "summary": "Create project",
                "parameters": [
                    {"description": "CreateProject payload", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ProjectInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Project"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/serializer.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/serializer.Response"}}
                }
            }
        },
        "/projects/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["project"],
                "summary": "Get project",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Project"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/serializer.Response"}}
                }
            },
            "delete": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["project"],
                "summary": "Delete project",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/serializer.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/serializer.Response"}}
                }
            },
            "patch": {
                "security": [{"SessionCookie": []}],
                "description": "Replace every field except id and views",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["project"],
                "summary": "Update project",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "id", "in": "path", "required": true},
                    {"description": "UpdateProject payload", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ProjectInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Project"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/serializer.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/serializer.Response"}}
                }
            }
        },
        "/projects/{id}/views": {
            "post": {
                "description": "Atomically increment the view counter and return the new value",
                "produces": ["application/json"],
                "tags": ["project"],
                "summary": "Record a project view",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ViewsResp"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/serializer.Response"}}
                }
            }
        },
        "/user": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/serializer.Response"}}
                }
            }
        }
    },
    "definitions": {
        "handler.LoginReq": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.ViewsResp": {
            "type": "object",
            "properties": {
                "views": {"type": "integer"}
            }
        },
        "model.Project": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "client": {"type": "string"},
                "date": {"type": "string"},
                "description": {"type": "string"},
                "galleryImages": {"type": "array", "items": {"type": "string"}},
                "id": {"type": "string"},
                "imageUrl": {"type": "string"},
                "liveUrl": {"type": "string"},
                "repoUrl": {"type": "string"},
                "role": {"type": "string"},
                "shortDescription": {"type": "string"},
                "techStack": {"type": "array", "items": {"type": "string"}},
                "title": {"type": "string"},
                "views": {"type": "integer"}
            }
        },
        "model.ProjectInput": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "client": {"type": "string"},
                "date": {"type": "string"},
                "description": {"type": "string"},
                "galleryImages": {"type": "array", "items": {"type": "string"}},
                "imageUrl": {"type": "string"},
                "liveUrl": {"type": "string"},
                "repoUrl": {"type": "string"},
                "role": {"type": "string"},
                "shortDescription": {"type": "string"},
                "techStack": {"type": "array", "items": {"type": "string"}},
                "title": {"type": "string"}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "isAdmin": {"type": "boolean"},
                "username": {"type": "string"}
            }
        },
        "serializer.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "error": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}},
                "msg": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "SessionCookie": {
            "description": "Session cookie issued by POST /login",
            "type": "apiKey",
            "name": "portfolio.sid",
            "in": "cookie"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Portfolio API",
	Description:      "API for the portfolio site and its admin dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
