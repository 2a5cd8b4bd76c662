// Package ecosmock implements a mock of the ECOS cloud API for tests and
// local development. It replays the vendor's JSON contract: the
// code/message/success/data envelope, the well-known error codes and the
// fixture entities below.
package ecosmock

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Fixture identifiers recognized by the mock handlers.
const (
	DefaultEmail    = "test@test.com"
	DefaultPassword = "test"

	HomeID       = "9876543210987654321"
	SharedHomeID = "1234567890123456789"
	DeviceID     = "1234567890123456789"
	DeviceSerial = "SHC000000000000001"
)

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Server holds the credentials and tokens the mock accepts. The zero value is
// not usable; construct with New.
type Server struct {
	Email    string
	Password string

	AccessToken  string
	RefreshToken string
}

// New returns a mock server accepting the default credentials, with freshly
// generated tokens.
func New() *Server {
	base := randomString(tokenAlphabet, 20) + "." + randomString(tokenAlphabet, 155)
	return &Server{
		Email:        DefaultEmail,
		Password:     DefaultPassword,
		AccessToken:  base + randomString(tokenAlphabet+"-_", 86),
		RefreshToken: base + randomString(tokenAlphabet+"-_", 86),
	}
}

func randomString(allowed string, length int) string {
	out := make([]byte, length)
	for i := range out {
		out[i] = allowed[rand.Intn(len(allowed))]
	}
	return string(out)
}

// Handler returns the routed mock API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/client/guide/login", s.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/api/client/settings/user/info", s.handleUserInfo)
		r.Get("/api/client/v2/home/family/query", s.handleHomes)
		r.Get("/api/client/v2/home/device/query", s.handleHomeDevices)
		r.Get("/api/client/home/device/list", s.handleAllDevices)
		r.Post("/api/client/home/now/device/realtime", s.handleTodayDeviceData)
		r.Post("/api/client/home/now/device/runData", s.handleDeviceRunData)
		r.Get("/api/client/v2/home/device/runData", s.handleHomeRunData)
		r.Post("/api/client/home/history/home", s.handleHistory)
		r.Post("/api/client/v2/device/three/device/insight", s.handleInsight)
		r.Get("/api/client/v2/home/device/energy", s.handleHomeEnergy)
		r.Post("/api/client/v2/home/device/incrRefresh", s.handleIncrRefresh)
	})
	r.NotFound(s.handleNotFound)
	return r
}

type envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, envelope{Code: 0, Message: "success", Success: true, Data: data})
}

// writeAPIError reports a vendor-level failure inside a 200 response.
func writeAPIError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, http.StatusOK, envelope{Code: code, Message: message, Success: false})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != s.AccessToken {
			writeJSON(w, http.StatusUnauthorized, envelope{Code: 401, Message: "Unauthorized", Success: false})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleNotFound mimics the vendor's Spring-style 404 body, which is not the
// usual envelope.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]interface{}{
		"timestamp": time.Now().UnixMilli(),
		"status":    404,
		"error":     "Not Found",
		"message":   "",
		"path":      r.URL.Path,
	})
}
