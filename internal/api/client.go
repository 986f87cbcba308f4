package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Trace describes one settled request.
type Trace struct {
	Method  string
	URL     string
	Status  int // 0 when no response was received
	Latency time.Duration
	Err     error
}

// Tracer observes every request the client makes. TraceRequest is called
// before the request is sent; the returned function, when not nil, receives
// the outcome once the request settles.
type Tracer interface {
	TraceRequest(ctx context.Context, method, url string) func(Trace)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its cookie jar is kept
// if set; otherwise the client's own jar is installed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTracer installs a request tracer.
func WithTracer(t Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// Client talks to the LearnPath backend. The session lives in the cookie
// jar, so one Client corresponds to one signed-in session.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  Tracer
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	c := &Client{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login signs in with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var u User
	body := Credentials{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Register creates an account and signs in.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	var u User
	body := Credentials{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/users/register", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Profile fetches the signed-in user's record.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile replaces the signed-in user's progress and optionally name.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", update, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout ends the session on the server.
func (c *Client) Logout(ctx context.Context) (*Ack, error) {
	var ack Ack
	if err := c.do(ctx, http.MethodPost, "/api/users/logout", nil, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// ListSkills returns all skills stored on the backend.
func (c *Client) ListSkills(ctx context.Context) ([]Skill, error) {
	var skills []Skill
	if err := c.do(ctx, http.MethodGet, "/api/skills", nil, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// CreateSkill stores a new skill.
func (c *Client) CreateSkill(ctx context.Context, payload SkillPayload) (*Skill, error) {
	var s Skill
	if err := c.do(ctx, http.MethodPost, "/api/skills", payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSkill replaces the skill with the given ID.
func (c *Client) UpdateSkill(ctx context.Context, id string, payload SkillPayload) (*Skill, error) {
	var s Skill
	if err := c.do(ctx, http.MethodPut, "/api/skills/"+url.PathEscape(id), payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSkill removes the skill with the given ID.
func (c *Client) DeleteSkill(ctx context.Context, id string) (*Ack, error) {
	var ack Ack
	if err := c.do(ctx, http.MethodDelete, "/api/skills/"+url.PathEscape(id), nil, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// do performs one request and decodes a 2xx body into out. An empty or
// unparsable success body leaves out at its zero value.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (err error) {
	target := c.baseURL + path
	var finish func(Trace)
	if c.tracer != nil {
		finish = c.tracer.TraceRequest(ctx, method, target)
	}
	start := time.Now()
	status := 0
	defer func() {
		if finish != nil {
			finish(Trace{
				Method:  method,
				URL:     target,
				Status:  status,
				Latency: time.Since(start),
				Err:     err,
			})
		}
	}()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Reset partially decoded output to the zero value.
		resetZero(out)
	}
	return nil
}

// errorMessage extracts the backend's message field from an error body.
func errorMessage(status int, data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		return statusMessage(status)
	}
	return body.Message
}

func resetZero(out any) {
	switch v := out.(type) {
	case *User:
		*v = User{}
	case *Skill:
		*v = Skill{}
	case *Ack:
		*v = Ack{}
	case *[]Skill:
		*v = nil
	}
}
