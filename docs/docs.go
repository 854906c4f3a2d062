// Package docs registers the OpenAPI description served under /swagger/.
// The path list is maintained by hand alongside the router; the controllers'
// godoc annotations carry the full request and response details.
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
        "/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/token/refresh": {"post": {"tags": ["auth"], "summary": "Refresh an access token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/users/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Get the current user", "responses": {"200": {"description": "OK"}}}},
        "/events": {"post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Create an event", "responses": {"201": {"description": "Created"}, "429": {"description": "Daily quota reached"}}}},
        "/events/list": {"get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "List events", "responses": {"200": {"description": "OK"}}}},
        "/events/hosted": {"get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "List events hosted by the current user", "responses": {"200": {"description": "OK"}}}},
        "/events/{eventID}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Get an event", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Replace an event", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Partially update an event", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Delete an event", "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}}
        },
        "/events/{eventID}/calendar.ics": {"get": {"security": [{"BearerAuth": []}], "produces": ["text/calendar"], "tags": ["events"], "summary": "Export an event as iCalendar", "responses": {"200": {"description": "OK"}}}},
        "/events/{eventID}/register": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["participants"], "summary": "Register for an event", "responses": {"201": {"description": "Created"}, "400": {"description": "Already registered or event full"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["participants"], "summary": "Cancel a registration", "responses": {"204": {"description": "No Content"}}}
        },
        "/events/{eventID}/participants": {"get": {"security": [{"BearerAuth": []}], "tags": ["participants"], "summary": "List the participants of an event", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/participants/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["participants"], "summary": "List the events the current user joined", "responses": {"200": {"description": "OK"}}}},
        "/events/{eventID}/invitations": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["invitations"], "summary": "Invite a user to an event", "responses": {"201": {"description": "Created"}}},
            "get": {"security": [{"BearerAuth": []}], "tags": ["invitations"], "summary": "List invitations sent for an event", "responses": {"200": {"description": "OK"}}}
        },
        "/events/{eventID}/invitation": {"patch": {"security": [{"BearerAuth": []}], "tags": ["invitations"], "summary": "Accept or decline an invitation", "responses": {"200": {"description": "OK"}, "409": {"description": "Already answered"}}}},
        "/invitations": {"get": {"security": [{"BearerAuth": []}], "tags": ["invitations"], "summary": "List invitations received by the current user", "responses": {"200": {"description": "OK"}}}},
        "/events/{eventID}/feedback": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["feedback"], "summary": "Rate an event", "responses": {"201": {"description": "Created"}}},
            "get": {"security": [{"BearerAuth": []}], "tags": ["feedback"], "summary": "List feedback for an event", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/events/purge": {"post": {"tags": ["admin"], "summary": "Purge expired events", "responses": {"200": {"description": "OK"}, "404": {"description": "Disabled"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Event Management API",
	Description:      "Events, participant registration, invitations and feedback.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
