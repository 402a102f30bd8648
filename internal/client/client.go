// Package client talks to the catalog API.  Reads go through a per-resource
// query cache and identical concurrent reads share one request; every
// successful mutation drops the cache entries it could have made stale.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/policy"
)

// DefaultTTL is how long a cached read stays fresh.
const DefaultTTL = 30 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// APIError is a non-2xx answer.  Message is the server's own text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

// Session is what Login returns and what the CLI persists between runs.
type Session struct {
	UserID       string     `json:"userId"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         model.Role `json:"role"`
	Token        string     `json:"token"`
	RefreshToken string     `json:"refreshToken"`
}

// Requester returns the session's identity for client-side view logic.
func (s Session) Requester() policy.Requester {
	return policy.Requester{ID: s.UserID, Role: s.Role}
}

// Client is safe for concurrent use.
type Client struct {
	BaseURL string // e.g. http://localhost:5000/api
	HTTP    *http.Client

	mu      sync.RWMutex
	session Session

	cache *queryCache
	group singleflight.Group
}

// New returns a client for baseURL caching reads for ttl.
func New(baseURL string, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		cache:   newQueryCache(ttl),
	}
}

// Session returns the current session.  It is zero before Login or
// SetSession.
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// SetSession switches identity.  Cached reads belong to the previous
// identity's visibility and are dropped.
func (c *Client) SetSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	c.cache.flush()
}

// SetToken replaces only the bearer credential.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.session.Token = token
	c.mu.Unlock()
	c.cache.flush()
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Token
}

type loginResp struct {
	User struct {
		ID    string     `json:"id"`
		Name  string     `json:"name"`
		Email string     `json:"email"`
		Role  model.Role `json:"role"`
	} `json:"user"`
	Token   string `json:"token"`
	Refresh struct {
		Token string `json:"token"`
	} `json:"refresh"`
}

// Login exchanges credentials for a session and starts using it.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var resp loginResp
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return Session{}, err
	}
	s := Session{
		UserID:       resp.User.ID,
		Name:         resp.User.Name,
		Email:        resp.User.Email,
		Role:         resp.User.Role,
		Token:        resp.Token,
		RefreshToken: resp.Refresh.Token,
	}
	c.SetSession(s)
	return s, nil
}

// Register creates an account.  It does not log in.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/register", body, nil)
}

// Logout revokes the session's refresh token and forgets the session.
func (c *Client) Logout(ctx context.Context) error {
	s := c.Session()
	var body any
	if s.RefreshToken != "" {
		body = map[string]string{"refresh_token": s.RefreshToken}
	}
	err := c.do(ctx, http.MethodPost, "/auth/logout", body, nil)
	c.SetSession(Session{})
	return err
}

// do sends one request.  body is JSON encoded when non-nil and out, when
// non-nil, receives the decoded 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError pulls the server message out of {"error": ...} or
// {"message": ...}, falling back to the status text.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if json.Unmarshal(raw, &body) == nil {
		msg = body.Error
		if msg == "" {
			msg = body.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
