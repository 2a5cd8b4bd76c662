package ecosmock

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	s := New()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	post := func(t *testing.T, payload map[string]interface{}) map[string]interface{} {
		t.Helper()
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		resp, err := http.Post(ts.URL+"/api/client/guide/login", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	t.Run("Success", func(t *testing.T) {
		out := post(t, map[string]interface{}{
			"clientType":    "BROWSER",
			"clientVersion": "1.0",
			"email":         DefaultEmail,
			"password":      DefaultPassword,
		})
		assert.Equal(t, true, out["success"])
		data := out["data"].(map[string]interface{})
		assert.Equal(t, s.AccessToken, data["accessToken"])
		assert.Equal(t, s.RefreshToken, data["refreshToken"])
	})

	t.Run("WrongPassword", func(t *testing.T) {
		out := post(t, map[string]interface{}{
			"clientType":    "BROWSER",
			"clientVersion": "1.0",
			"email":         DefaultEmail,
			"password":      "nope",
		})
		assert.Equal(t, false, out["success"])
		assert.EqualValues(t, 20414, out["code"])
	})

	t.Run("MissingFields", func(t *testing.T) {
		out := post(t, map[string]interface{}{
			"clientType": "CONSOLE",
		})
		assert.Equal(t, false, out["success"])
		assert.EqualValues(t, 20000, out["code"])
		assert.Equal(t, "cannot be blank", out["message"])
		data := out["data"].(map[string]interface{})
		assert.Equal(t, "Invalid terminal type", data["clientType"])
		assert.Contains(t, data, "email")
		assert.Contains(t, data, "password")
		assert.Contains(t, data, "clientVersion")
	})

	t.Run("BadClientType", func(t *testing.T) {
		out := post(t, map[string]interface{}{
			"clientType":    "CONSOLE",
			"clientVersion": "1.0",
			"email":         DefaultEmail,
			"password":      DefaultPassword,
		})
		assert.EqualValues(t, 20000, out["code"])
		assert.Equal(t, "Invalid terminal type", out["message"])
		data := out["data"].(map[string]interface{})
		assert.Len(t, data, 1)
	})
}

func TestRequireAuth(t *testing.T) {
	s := New()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	req, err := http.NewRequest("GET", ts.URL+"/api/client/settings/user/info", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "wrong_token")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.EqualValues(t, 401, out["code"])
}

func TestNotFound(t *testing.T) {
	s := New()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/client/does/not/exist")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Not Found", out["error"])
	assert.Equal(t, "/api/client/does/not/exist", out["path"])
}

func TestTokensDiffer(t *testing.T) {
	s := New()
	assert.NotEqual(t, s.AccessToken, s.RefreshToken)
	assert.Len(t, s.AccessToken, 20+1+155+86)
}
