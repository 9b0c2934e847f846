package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SIGA Proyectos API",
        "description": "Backend for the academic project tracking workflow",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Ideas", "description": "Idea intake and queries"},
        {"name": "Workflow", "description": "Review, progression and the proposal bank"},
        {"name": "Notifications", "description": "In-app notifications and fan-out jobs"}
    ],
    "paths": {
        "/ideas": {
            "get": {
                "tags": ["Ideas"],
                "summary": "List ideas",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "userCode", "in": "query", "type": "string"},
                    {"name": "subjectCode", "in": "query", "type": "string"},
                    {"name": "groupLetter", "in": "query", "type": "string"},
                    {"name": "period", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Ideas"],
                "summary": "Register a new idea",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateIdeaRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/ideas/{id}": {
            "get": {
                "tags": ["Ideas"],
                "summary": "Get an idea with its review trail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/ideas/{id}/review": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Review an idea",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/ideas/{id}/project": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Formalize an approved idea into a project",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateProjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{id}/review": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Review a project",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{id}/reject-correction": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Decline requested corrections",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RejectCorrectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{id}/release": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Release a project's idea back to the proposal bank",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Caller does not lead the team"}
                }
            }
        },
        "/projects/{id}/adopt": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Adopt a free proposal from the bank",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TargetGroupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{id}/continue": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Continue a graded project in a new course section",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TargetGroupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{id}/grade": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Grade a project, closing its cycle",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeProjectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/proposals/free": {
            "get": {
                "tags": ["Workflow"],
                "summary": "List the proposal bank",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List the caller's notifications",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/jobs/{id}": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Poll a notification fan-out job",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Job not found or expired"}
                }
            }
        }
    },
    "definitions": {
        "GroupAffiliation": {
            "type": "object",
            "properties": {
                "subject_code": {"type": "string"},
                "group_letter": {"type": "string"},
                "period": {"type": "string"},
                "year": {"type": "integer"}
            },
            "required": ["subject_code", "group_letter", "period", "year"]
        },
        "CreateIdeaRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "problem_statement": {"type": "string"},
                "justification": {"type": "string"},
                "general_objective": {"type": "string"},
                "specific_objectives": {"type": "string"},
                "group": {"$ref": "#/definitions/GroupAffiliation"}
            },
            "required": ["title", "problem_statement", "justification", "general_objective", "specific_objectives", "group"]
        },
        "ReviewRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["Aprobar", "Aprobar_Con_Observacion", "Rechazar"]},
                "observation": {"type": "string"}
            },
            "required": ["action"]
        },
        "CreateProjectRequest": {
            "type": "object",
            "properties": {
                "research_line": {"type": "string"},
                "technologies": {"type": "string"},
                "keywords": {"type": "string"}
            },
            "required": ["research_line"]
        },
        "RejectCorrectionRequest": {
            "type": "object",
            "properties": {
                "idea_id": {"type": "string"}
            },
            "required": ["idea_id"]
        },
        "TargetGroupRequest": {
            "type": "object",
            "properties": {
                "group": {"$ref": "#/definitions/GroupAffiliation"}
            },
            "required": ["group"]
        },
        "GradeProjectRequest": {
            "type": "object",
            "properties": {
                "observation": {"type": "string"}
            },
            "required": ["observation"]
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
                "message": {"type": "string"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"type": "object"},
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
