package ecos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Datacenter", func(t *testing.T) {
		c, err := New(Options{Datacenter: "EU"})
		require.NoError(t, err)
		assert.Equal(t, "https://api-ecos-eu.weiheng-tech.com", c.BaseURL())
	})

	t.Run("UnknownDatacenter", func(t *testing.T) {
		_, err := New(Options{Datacenter: "US"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AU, CN, EU")
	})

	t.Run("URLWinsAndTrimsSlash", func(t *testing.T) {
		c, err := New(Options{Datacenter: "AU", URL: "http://localhost:8080/"})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", c.BaseURL())
	})

	t.Run("NeitherURLNorDatacenter", func(t *testing.T) {
		_, err := New(Options{Email: "a@b.c", Password: "p"})
		require.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	t.Run("Payload", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/client/guide/login", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Empty(t, r.Header.Get("Authorization"))

			var payload map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "user@example.com", payload["email"])
			assert.Equal(t, "pass", payload["password"])
			assert.Equal(t, "BROWSER", payload["clientType"])
			assert.Equal(t, "1.0", payload["clientVersion"])
			assert.InDelta(t, time.Now().Unix(), payload["_t"], 5)

			json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    0,
				"message": "success",
				"success": true,
				"data": map[string]interface{}{
					"accessToken":  "access-123",
					"refreshToken": "refresh-456",
				},
			})
		}))
		defer ts.Close()

		c, err := New(Options{URL: ts.URL, HTTPClient: ts.Client()})
		require.NoError(t, err)

		require.NoError(t, c.Login(context.Background(), "user@example.com", "pass"))

		access, refresh := c.Tokens()
		assert.Equal(t, "access-123", access)
		assert.Equal(t, "refresh-456", refresh)
	})

	t.Run("BadCredentials", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    20414,
				"message": "Account or password or country error",
				"success": false,
			})
		}))
		defer ts.Close()

		c, err := New(Options{URL: ts.URL, HTTPClient: ts.Client()})
		require.NoError(t, err)

		err = c.Login(context.Background(), "user@example.com", "wrong")
		require.ErrorIs(t, err, ErrAuthentication)
		assert.Contains(t, err.Error(), "Account or password or country error")
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		c, err := New(Options{Datacenter: "EU"})
		require.NoError(t, err)
		require.Error(t, c.Login(context.Background(), "", "pass"))
		require.Error(t, c.Login(context.Background(), "user@example.com", ""))
	})
}

func TestTokenRefresh(t *testing.T) {
	// the first authenticated call fails with an expired token, the client
	// should log in again and retry transparently
	var logins, calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/client/guide/login" {
			logins++
			json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    0,
				"success": true,
				"data": map[string]interface{}{
					"accessToken":  "fresh-token",
					"refreshToken": "fresh-refresh",
				},
			})
			return
		}

		calls++
		if r.Header.Get("Authorization") != "fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    401,
				"message": "Unauthorized",
				"success": false,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    0,
			"success": true,
			"data": map[string]interface{}{
				"username": "user@example.com",
			},
		})
	}))
	defer ts.Close()

	c, err := New(Options{
		URL:         ts.URL,
		Email:       "user@example.com",
		Password:    "pass",
		AccessToken: "stale-token",
		HTTPClient:  ts.Client(),
	})
	require.NoError(t, err)

	user, err := c.GetUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Username)

	assert.Equal(t, 1, logins, "should have logged in once")
	assert.Equal(t, 2, calls, "should have retried after the refresh")
}

func TestTokenRefreshWithoutCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    401,
			"message": "Unauthorized",
			"success": false,
		})
	}))
	defer ts.Close()

	c, err := New(Options{URL: ts.URL, AccessToken: "stale-token", HTTPClient: ts.Client()})
	require.NoError(t, err)

	_, err = c.GetUser(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestErrorMapping(t *testing.T) {
	t.Run("APIError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    20404,
				"message": "Parameter verification failed",
				"success": false,
			})
		}))
		defer ts.Close()

		c, err := New(Options{URL: ts.URL, AccessToken: "tok", HTTPClient: ts.Client()})
		require.NoError(t, err)

		_, err = c.GetUser(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 20404, apiErr.Code)
		assert.Equal(t, "Parameter verification failed", apiErr.Message)
	})

	t.Run("HTTPError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer ts.Close()

		c, err := New(Options{URL: ts.URL, AccessToken: "tok", HTTPClient: ts.Client()})
		require.NoError(t, err)

		_, err = c.GetUser(context.Background())
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer ts.Close()

		c, err := New(Options{URL: ts.URL, AccessToken: "tok", HTTPClient: ts.Client()})
		require.NoError(t, err)

		_, err = c.GetUser(context.Background())
		require.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestDatacenters(t *testing.T) {
	assert.Equal(t, []string{"AU", "CN", "EU"}, Datacenters())
}
