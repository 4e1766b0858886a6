// Package docs holds the OpenAPI document of the automation API. It mirrors
// the swag annotations on the HTTP handlers; regenerate it with
// swag init -g cmd/server/main.go after changing them.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {
			"name": "API Support",
			"url": "https://github.com/erp/automation"
		},
		"license": {
			"name": "Apache 2.0",
			"url": "http://www.apache.org/licenses/LICENSE-2.0.html"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/automation/catalog": {
			"get": {
				"description": "Returns keys, labels, input and output fields and a sample record for every handler",
				"produces": [
					"application/json"
				],
				"tags": [
					"automation"
				],
				"summary": "List triggers, actions and searches",
				"operationId": "getAutomationCatalog",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/automation.Catalog"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/automation/triggers/{key}/subscribe": {
			"post": {
				"description": "Registers bundle.targetUrl with the ERP for the trigger's event and returns the subscription handle",
				"produces": [
					"application/json"
				],
				"tags": [
					"triggers"
				],
				"summary": "Subscribe a trigger",
				"operationId": "subscribeAutomationTrigger",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"example": "newTask",
						"description": "Trigger key",
						"name": "key",
						"in": "path",
						"required": true
					},
					{
						"description": "Bundle with authData and targetUrl",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/domain.Bundle"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/domain.Record"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"502": {
						"description": "Bad Gateway",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/automation/triggers/{key}/unsubscribe": {
			"post": {
				"description": "Deletes the subscription named by bundle.subscribeData.id",
				"produces": [
					"application/json"
				],
				"tags": [
					"triggers"
				],
				"summary": "Unsubscribe a trigger",
				"operationId": "unsubscribeAutomationTrigger",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"example": "newTask",
						"description": "Trigger key",
						"name": "key",
						"in": "path",
						"required": true
					},
					{
						"description": "Bundle with authData and subscribeData",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/domain.Bundle"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/domain.Record"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"502": {
						"description": "Bad Gateway",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/automation/triggers/{key}/list": {
			"post": {
				"description": "Returns the most recent records, newest first, with their dedupe keys",
				"produces": [
					"application/json"
				],
				"tags": [
					"triggers"
				],
				"summary": "Poll a trigger",
				"operationId": "listAutomationTrigger",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"example": "newTask",
						"description": "Trigger key",
						"name": "key",
						"in": "path",
						"required": true
					},
					{
						"description": "Bundle with authData and optional meta.limit and meta.page",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/domain.Bundle"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.TriggerResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"502": {
						"description": "Bad Gateway",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/automation/triggers/{key}/perform": {
			"post": {
				"description": "Returns bundle.cleanedRequest unchanged when present, otherwise polls like list",
				"produces": [
					"application/json"
				],
				"tags": [
					"triggers"
				],
				"summary": "Run a trigger",
				"operationId": "performAutomationTrigger",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"example": "newTask",
						"description": "Trigger key",
						"name": "key",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "HMAC-SHA256 of cleanedRequest, hex encoded",
						"name": "X-Webhook-Signature",
						"in": "header"
					},
					{
						"description": "Bundle with cleanedRequest or authData",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/domain.Bundle"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.TriggerResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"502": {
						"description": "Bad Gateway",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/automation/actions/{key}": {
			"post": {
				"description": "Creates or updates one ERP entity from bundle.inputData. Every call carries a fresh Idempotency-Key.",
				"produces": [
					"application/json"
				],
				"tags": [
					"actions"
				],
				"summary": "Run an action",
				"operationId": "performAutomationAction",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"example": "createTask",
						"description": "Action key",
						"name": "key",
						"in": "path",
						"required": true
					},
					{
						"description": "Bundle with authData and inputData",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/domain.Bundle"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/domain.Record"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"502": {
						"description": "Bad Gateway",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/automation/searches/{key}": {
			"post": {
				"description": "Looks up ERP entities by the non-empty inputData fields; no match is an empty list",
				"produces": [
					"application/json"
				],
				"tags": [
					"searches"
				],
				"summary": "Run a search",
				"operationId": "performAutomationSearch",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"example": "findContact",
						"description": "Search key",
						"name": "key",
						"in": "path",
						"required": true
					},
					{
						"description": "Bundle with authData and inputData",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/domain.Bundle"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.SearchResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"502": {
						"description": "Bad Gateway",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/oauth/authorize": {
			"get": {
				"description": "Stores a PKCE verifier under a fresh state and redirects to the ERP authorize page",
				"produces": [
					"application/json"
				],
				"tags": [
					"oauth"
				],
				"summary": "Start an OAuth flow",
				"operationId": "authorizeOAuth",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Overrides the configured redirect URI",
						"name": "redirect_uri",
						"in": "query"
					},
					{
						"enum": [
							"json"
						],
						"type": "string",
						"description": "json returns the URL instead of redirecting",
						"name": "format",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.AuthorizeResponse"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"302": {
						"description": "Found"
					}
				}
			}
		},
		"/oauth/callback": {
			"get": {
				"description": "Exchanges the code with the verifier stored for state. Reached by the user's browser without a host token.",
				"produces": [
					"application/json"
				],
				"tags": [
					"oauth"
				],
				"summary": "Complete an OAuth flow",
				"operationId": "callbackOAuth",
				"parameters": [
					{
						"type": "string",
						"description": "State returned by authorize",
						"name": "state",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"description": "Authorization code",
						"name": "code",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Error reported by the authorization server",
						"name": "error",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Error detail",
						"name": "error_description",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.TokenResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/oauth/token": {
			"post": {
				"description": "For callers that ran the flow themselves and hold the PKCE verifier",
				"produces": [
					"application/json"
				],
				"tags": [
					"oauth"
				],
				"summary": "Exchange an authorization code",
				"operationId": "tokenOAuth",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "Authorization code",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.TokenRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.TokenResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/oauth/refresh": {
			"post": {
				"description": "Trades a refresh token for a new token pair; the old refresh token is kept when not rotated",
				"produces": [
					"application/json"
				],
				"tags": [
					"oauth"
				],
				"summary": "Refresh an access token",
				"operationId": "refreshOAuth",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "Refresh token",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.RefreshRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/dto.TokenResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/oauth/test": {
			"post": {
				"description": "Verifies an access token against the ERP and returns the connection label",
				"produces": [
					"application/json"
				],
				"tags": [
					"oauth"
				],
				"summary": "Test a connection",
				"operationId": "testOAuth",
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "Access token, directly or as authData",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.TestRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/automation.ConnectionTest"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/system/info": {
			"get": {
				"description": "Returns version, uptime and handler counts. May be restricted to an IP allowlist.",
				"produces": [
					"application/json"
				],
				"tags": [
					"system"
				],
				"summary": "Get system information",
				"operationId": "getSystemInfo",
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/handler.SystemInfoResponse"
										}
									}
								}
							]
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/system/health": {
			"get": {
				"description": "Runs dependency checks such as the Redis ping",
				"produces": [
					"application/json"
				],
				"tags": [
					"system"
				],
				"summary": "Health check",
				"operationId": "getSystemHealth",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.HealthResponse"
						}
					},
					"503": {
						"description": "Service Unavailable",
						"schema": {
							"$ref": "#/definitions/dto.HealthResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"domain.Record": {
			"type": "object",
			"additionalProperties": true
		},
		"domain.Credentials": {
			"type": "object",
			"properties": {
				"access_token": {
					"type": "string"
				},
				"refresh_token": {
					"type": "string"
				}
			}
		},
		"domain.Meta": {
			"type": "object",
			"properties": {
				"limit": {
					"type": "integer"
				},
				"page": {
					"type": "integer"
				},
				"isLoadingSample": {
					"type": "boolean"
				}
			}
		},
		"domain.Bundle": {
			"type": "object",
			"properties": {
				"authData": {
					"$ref": "#/definitions/domain.Credentials"
				},
				"inputData": {
					"$ref": "#/definitions/domain.Record"
				},
				"meta": {
					"$ref": "#/definitions/domain.Meta"
				},
				"targetUrl": {
					"type": "string"
				},
				"subscribeData": {
					"$ref": "#/definitions/domain.Record"
				},
				"cleanedRequest": {
					"type": "object"
				}
			}
		},
		"domain.Field": {
			"type": "object",
			"properties": {
				"key": {
					"type": "string"
				},
				"label": {
					"type": "string"
				},
				"type": {
					"type": "string",
					"enum": [
						"string",
						"text",
						"integer",
						"money",
						"boolean",
						"datetime",
						"email"
					]
				},
				"required": {
					"type": "boolean"
				},
				"choices": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"helpText": {
					"type": "string"
				}
			}
		},
		"automation.Entry": {
			"type": "object",
			"properties": {
				"key": {
					"type": "string"
				},
				"kind": {
					"type": "string",
					"enum": [
						"trigger",
						"action",
						"search",
						"auth"
					]
				},
				"noun": {
					"type": "string"
				},
				"label": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"event": {
					"type": "string"
				},
				"important": {
					"type": "boolean"
				},
				"inputFields": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Field"
					}
				},
				"outputFields": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Field"
					}
				},
				"sample": {
					"$ref": "#/definitions/domain.Record"
				}
			}
		},
		"automation.Catalog": {
			"type": "object",
			"properties": {
				"triggers": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/automation.Entry"
					}
				},
				"actions": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/automation.Entry"
					}
				},
				"searches": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/automation.Entry"
					}
				}
			}
		},
		"automation.Delivery": {
			"type": "object",
			"properties": {
				"dedupeKey": {
					"type": "string"
				},
				"record": {
					"$ref": "#/definitions/domain.Record"
				}
			}
		},
		"automation.ConnectionTest": {
			"type": "object",
			"properties": {
				"profile": {
					"$ref": "#/definitions/oauth.UserProfile"
				},
				"label": {
					"type": "string"
				}
			}
		},
		"oauth.UserProfile": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"raw": {
					"$ref": "#/definitions/domain.Record"
				}
			}
		},
		"dto.ErrorInfo": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"field": {
					"type": "string"
				},
				"upstream_status": {
					"type": "integer"
				},
				"request_id": {
					"type": "string"
				}
			}
		},
		"dto.Response": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"data": {},
				"error": {
					"$ref": "#/definitions/dto.ErrorInfo"
				}
			}
		},
		"dto.TriggerResponse": {
			"type": "object",
			"properties": {
				"records": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Record"
					}
				},
				"deliveries": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/automation.Delivery"
					}
				}
			}
		},
		"dto.SearchResponse": {
			"type": "object",
			"properties": {
				"records": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Record"
					}
				}
			}
		},
		"dto.TokenRequest": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"redirect_uri": {
					"type": "string"
				},
				"code_verifier": {
					"type": "string"
				}
			},
			"required": [
				"code"
			]
		},
		"dto.RefreshRequest": {
			"type": "object",
			"properties": {
				"refresh_token": {
					"type": "string"
				}
			},
			"required": [
				"refresh_token"
			]
		},
		"dto.TestRequest": {
			"type": "object",
			"properties": {
				"access_token": {
					"type": "string"
				},
				"authData": {
					"$ref": "#/definitions/domain.Credentials"
				}
			}
		},
		"dto.TokenResponse": {
			"type": "object",
			"properties": {
				"access_token": {
					"type": "string"
				},
				"refresh_token": {
					"type": "string"
				},
				"expires_in": {
					"type": "integer"
				},
				"token_type": {
					"type": "string"
				},
				"authData": {
					"$ref": "#/definitions/domain.Credentials"
				}
			}
		},
		"dto.AuthorizeResponse": {
			"type": "object",
			"properties": {
				"authorize_url": {
					"type": "string"
				},
				"state": {
					"type": "string"
				}
			}
		},
		"dto.HealthResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"time": {
					"type": "string"
				},
				"version": {
					"type": "string"
				},
				"checks": {
					"type": "object",
					"additionalProperties": {
						"type": "string"
					}
				}
			}
		},
		"handler.SystemInfoResponse": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"version": {
					"type": "string"
				},
				"go_version": {
					"type": "string"
				},
				"uptime": {
					"type": "string"
				},
				"triggers": {
					"type": "integer"
				},
				"actions": {
					"type": "integer"
				},
				"searches": {
					"type": "integer"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Host platform token. Format: \"Bearer {token}\"",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ERP Automation API",
	Description:      "Triggers, actions and searches over the ERP API for automation platforms.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
