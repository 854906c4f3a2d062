package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDoc(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "/api", doc.BasePath)

	for _, path := range []string{
		"/register", "/login", "/token/refresh", "/users/me",
		"/events", "/events/list", "/events/hosted", "/events/{eventID}", "/events/{eventID}/calendar.ics",
		"/events/{eventID}/register", "/events/{eventID}/participants", "/participants/me",
		"/events/{eventID}/invitations", "/events/{eventID}/invitation", "/invitations",
		"/events/{eventID}/feedback", "/admin/events/purge",
	} {
		assert.Contains(t, doc.Paths, path)
	}
}
