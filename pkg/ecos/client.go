package ecos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ecactus/ecos/pkg/common"
	"github.com/ecactus/ecos/pkg/log"
)

const loginPath = "api/client/guide/login"

// Values the web client sends in the login payload.
const (
	clientType    = "BROWSER"
	clientVersion = "1.0"
)

// datacenterURLs maps region codes to API base URLs.
// TODO: fetch the live list from https://dcdn-config.weiheng-tech.com/prod/config.json
var datacenterURLs = map[string]string{
	"CN": "https://api-ecos-hu.weiheng-tech.com",
	"EU": "https://api-ecos-eu.weiheng-tech.com",
	"AU": "https://api-ecos-au.weiheng-tech.com",
}

// Datacenters returns the known region codes, sorted.
func Datacenters() []string {
	out := make([]string, 0, len(datacenterURLs))
	for dc := range datacenterURLs {
		out = append(out, dc)
	}
	sort.Strings(out)
	return out
}

// Options configures a Client. Either Datacenter or URL must be set; URL wins
// when both are given. Email/Password enable automatic login, alternatively a
// previously obtained AccessToken can be supplied directly.
type Options struct {
	Datacenter string
	URL        string

	Email    string
	Password string

	AccessToken  string
	RefreshToken string

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client interacts with the ECOS energy-management cloud API. It is safe for
// concurrent use; token state is guarded by a mutex.
type Client struct {
	client  *http.Client
	baseURL string

	mu           sync.Mutex
	email        string
	password     string
	accessToken  string
	refreshToken string
}

// New creates a Client from the given options.
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(opts.URL, "/")
	if baseURL == "" {
		if opts.Datacenter == "" {
			return nil, errors.New("ecos: url or datacenter must be specified")
		}
		u, ok := datacenterURLs[opts.Datacenter]
		if !ok {
			return nil, fmt.Errorf("ecos: datacenter must be one of %s", strings.Join(Datacenters(), ", "))
		}
		baseURL = u
	}

	client := opts.HTTPClient
	if client == nil {
		client = common.HTTPClient(common.DefaultTimeout)
	}

	return &Client{
		client:       client,
		baseURL:      baseURL,
		email:        opts.Email,
		password:     opts.Password,
		accessToken:  opts.AccessToken,
		refreshToken: opts.RefreshToken,
	}, nil
}

// BaseURL returns the API base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Tokens returns the current access and refresh tokens so the caller can
// persist them and skip a login next time.
func (c *Client) Tokens() (access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *Client) newGetRequest(ctx context.Context, endpoint string, params url.Values) (*http.Request, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	u.Path, err = url.JoinPath(u.Path, endpoint)
	if err != nil {
		return nil, err
	}

	u.RawQuery = params.Encode()
	return http.NewRequestWithContext(ctx, "GET", u.String(), nil)
}

func (c *Client) newPostJSONRequest(ctx context.Context, endpoint string, data interface{}) (*http.Request, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	u.Path, err = url.JoinPath(u.Path, endpoint)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// apiResponse is the envelope every endpoint responds with.
type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// canLogin reports whether credentials for a fresh login are available.
// Must be called with c.mu held.
func (c *Client) canLogin() bool {
	return c.email != "" && c.password != ""
}

// ensureLogin logs in when no access token is held. Must be called with c.mu
// held.
func (c *Client) ensureLogin(ctx context.Context) error {
	if c.accessToken != "" {
		return nil
	}
	if !c.canLogin() {
		return fmt.Errorf("%w: no access token and no credentials to log in with", ErrUnauthorized)
	}
	return c.login(ctx, c.email, c.password)
}

// doRequest executes the request, unwraps the response envelope and decodes
// the data field into dest. Must be called with c.mu held.
func (c *Client) doRequest(req *http.Request, dest interface{}) error {
	isLogin := strings.HasSuffix(req.URL.Path, "/"+loginPath)

	// we try up to 2 times because we might have an expired token
	for i := 0; i < 2; i++ {
		if !isLogin {
			req.Header.Set("Authorization", c.accessToken)
		}
		if i > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return err
			}
			req.Body = body
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}

		var env apiResponse
		if err := json.Unmarshal(body, &env); err != nil {
			if resp.StatusCode != http.StatusOK {
				return &HTTPError{StatusCode: resp.StatusCode}
			}
			log.Ctx(req.Context()).ErrorContext(req.Context(), "failed to decode ecos response", slog.Any("error", err), slog.String("body", string(body)))
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}

		if resp.StatusCode == http.StatusUnauthorized || (!env.Success && env.Code == 401) {
			if !isLogin && i == 0 && c.canLogin() {
				log.Ctx(req.Context()).DebugContext(req.Context(), "ecos access token expired, logging in again")
				c.accessToken = ""
				if err := c.ensureLogin(req.Context()); err != nil {
					return err
				}
				continue
			}
			if env.Message != "" {
				return fmt.Errorf("%w: %s", ErrUnauthorized, env.Message)
			}
			return ErrUnauthorized
		}

		if resp.StatusCode != http.StatusOK {
			return &HTTPError{StatusCode: resp.StatusCode, Message: env.Message}
		}

		if !env.Success {
			log.Ctx(req.Context()).DebugContext(req.Context(), "ecos api error", slog.Int("code", env.Code), slog.String("message", env.Message))
			return &APIError{Code: env.Code, Message: env.Message}
		}

		if dest != nil && len(env.Data) > 0 && string(env.Data) != "null" {
			if err := json.Unmarshal(env.Data, dest); err != nil {
				log.Ctx(req.Context()).ErrorContext(req.Context(), "failed to decode ecos data", slog.Any("error", err))
				return fmt.Errorf("%w: decoding data: %v", ErrInvalidResponse, err)
			}
		}
		return nil
	}
	return nil
}

type loginPayload struct {
	Timestamp     int64  `json:"_t"`
	ClientType    string `json:"clientType"`
	ClientVersion string `json:"clientVersion"`
	Email         string `json:"email"`
	Password      string `json:"password"`
}

type loginResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// login performs the credential exchange and stores the resulting tokens.
// Must be called with c.mu held.
func (c *Client) login(ctx context.Context, email, password string) error {
	if email == "" {
		return errors.New("ecos: missing email")
	}
	if password == "" {
		return errors.New("ecos: missing password")
	}

	payload := loginPayload{
		Timestamp:     time.Now().Unix(),
		ClientType:    clientType,
		ClientVersion: clientVersion,
		Email:         email,
		Password:      password,
	}
	req, err := c.newPostJSONRequest(ctx, loginPath, payload)
	if err != nil {
		return err
	}

	var res loginResult
	if err := c.doRequest(req, &res); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == codeAuthenticationFailed {
			return fmt.Errorf("%w: %s", ErrAuthentication, apiErr.Message)
		}
		log.Ctx(ctx).ErrorContext(ctx, "ecos login failed", slog.Any("error", err))
		return fmt.Errorf("login failed: %w", err)
	}
	log.Ctx(ctx).DebugContext(ctx, "ecos login success", slog.String("email", email))

	c.accessToken = res.AccessToken
	c.refreshToken = res.RefreshToken
	return nil
}

// Login authenticates with the given email and password and stores the
// resulting access and refresh tokens for subsequent calls. It returns
// ErrAuthentication when the credentials are rejected.
func (c *Client) Login(ctx context.Context, email, password string) error {
	log.Ctx(ctx).InfoContext(ctx, "ecos login")
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.login(ctx, email, password); err != nil {
		return err
	}
	// remember the credentials so expired tokens can be refreshed transparently
	c.email = email
	c.password = password
	return nil
}
