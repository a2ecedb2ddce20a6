// Package docs serves the OpenAPI document for the review workflow API.
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
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	},
	"paths": {
		"/bids": {
			"post": {
				"summary": "Submit or change a bid",
				"tags": [
					"bids"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/SubmitBidRequest"
						}
					}
				]
			}
		},
		"/bids/me": {
			"get": {
				"summary": "List my bids",
				"tags": [
					"bids"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				}
			}
		},
		"/submissions/{submission_id}/conflict": {
			"get": {
				"summary": "Check conflict of interest",
				"tags": [
					"bids"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "submission_id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "conference_id",
						"in": "query",
						"required": false
					}
				]
			}
		},
		"/assignments": {
			"post": {
				"summary": "Assign a reviewer",
				"tags": [
					"assignments"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/AssignReviewerRequest"
						}
					}
				]
			}
		},
		"/assignments/self": {
			"post": {
				"summary": "Self-assign a submission",
				"tags": [
					"assignments"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/SelfAssignRequest"
						}
					}
				]
			}
		},
		"/assignments/me": {
			"get": {
				"summary": "List my assignments",
				"tags": [
					"assignments"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "page",
						"in": "query",
						"required": false
					},
					{
						"type": "string",
						"name": "limit",
						"in": "query",
						"required": false
					}
				]
			}
		},
		"/assignments/submission/{submission_id}/exists": {
			"get": {
				"summary": "Check my assignment for a submission",
				"tags": [
					"assignments"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "submission_id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/assignments/{assignment_id}/accept": {
			"put": {
				"summary": "Accept a pending assignment",
				"tags": [
					"assignments"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "assignment_id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/assignments/{assignment_id}/reject": {
			"put": {
				"summary": "Reject a pending assignment",
				"tags": [
					"assignments"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "assignment_id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/reviews": {
			"post": {
				"summary": "Submit or edit a review",
				"tags": [
					"reviews"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/SubmitReviewRequest"
						}
					}
				]
			}
		},
		"/reviews/assignment/{assignment_id}": {
			"get": {
				"summary": "Get my review for an assignment",
				"tags": [
					"reviews"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "assignment_id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/reviews/submission/{submission_id}": {
			"get": {
				"summary": "List reviews of a submission",
				"tags": [
					"reviews"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "submission_id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "page",
						"in": "query",
						"required": false
					},
					{
						"type": "string",
						"name": "limit",
						"in": "query",
						"required": false
					}
				]
			}
		},
		"/reviews/submission/{submission_id}/anonymized": {
			"get": {
				"summary": "List anonymized reviews of a submission",
				"tags": [
					"reviews"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "submission_id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/submissions/{submission_id}/progress": {
			"get": {
				"summary": "Review progress of a submission",
				"tags": [
					"progress"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "submission_id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/conferences/{conference_id}/progress": {
			"get": {
				"summary": "Review progress of a conference",
				"tags": [
					"progress"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "conference_id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/submissions/{submission_id}/decision-summary": {
			"get": {
				"summary": "Decision summary of a submission",
				"tags": [
					"decisions"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "submission_id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/decisions": {
			"post": {
				"summary": "Record the decision for a submission",
				"tags": [
					"decisions"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/UpsertDecisionRequest"
						}
					}
				]
			}
		},
		"/reviewer/submissions": {
			"get": {
				"summary": "List submissions visible to me as reviewer",
				"tags": [
					"reviewer"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "invalid input"
					},
					"401": {
						"description": "missing caller"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "status",
						"in": "query",
						"required": false
					}
				]
			}
		}
	},
	"definitions": {
		"SubmitBidRequest": {
			"type": "object",
			"required": [
				"submission_id",
				"preference_kind"
			],
			"properties": {
				"submission_id": {
					"type": "string"
				},
				"conference_id": {
					"type": "string"
				},
				"preference_kind": {
					"type": "string"
				}
			}
		},
		"SelfAssignRequest": {
			"type": "object",
			"required": [
				"submission_id"
			],
			"properties": {
				"submission_id": {
					"type": "string"
				},
				"conference_id": {
					"type": "string"
				}
			}
		},
		"AssignReviewerRequest": {
			"type": "object",
			"required": [
				"reviewer_id",
				"submission_id"
			],
			"properties": {
				"reviewer_id": {
					"type": "string"
				},
				"submission_id": {
					"type": "string"
				},
				"conference_id": {
					"type": "string"
				},
				"due_date": {
					"type": "string"
				}
			}
		},
		"SubmitReviewRequest": {
			"type": "object",
			"required": [
				"assignment_id",
				"score",
				"confidence",
				"recommendation"
			],
			"properties": {
				"assignment_id": {
					"type": "string"
				},
				"score": {
					"type": "integer"
				},
				"confidence": {
					"type": "string"
				},
				"comment_for_author": {
					"type": "string"
				},
				"comment_for_pc": {
					"type": "string"
				},
				"recommendation": {
					"type": "string"
				}
			}
		},
		"UpsertDecisionRequest": {
			"type": "object",
			"required": [
				"submission_id",
				"decision"
			],
			"properties": {
				"submission_id": {
					"type": "string"
				},
				"conference_id": {
					"type": "string"
				},
				"decision": {
					"type": "string"
				},
				"note": {
					"type": "string"
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:		  "1.0",
	Host:			 "",
	BasePath:		 "/",
	Schemes:		  []string{},
	Title:			"Confman Review Workflow API",
	Description:	  "Bidding, reviewer assignment, review submission and decision recording.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:		"{{",
	RightDelim:	   "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
