package keeper_test

import (
	"encoding/json"
	"testing"

	"github.com/aussiebroadwan/tokenkeeper/api/keeper"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDocIsRegistered(t *testing.T) {
	doc, err := swag.ReadDoc(keeper.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed struct {
		Swagger string                    `json:"swagger"`
		Host    string                    `json:"host"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	require.Equal(t, "2.0", parsed.Swagger)
	require.Equal(t, "127.0.0.1:8090", parsed.Host)
	for _, route := range []string{"/v1/token", "/v1/login", "/v1/refresh", "/v1/tenant", "/v1/logout", "/livez", "/readyz"} {
		require.Contains(t, parsed.Paths, route)
	}
	require.Contains(t, parsed.Paths["/v1/login"], "post")
}
