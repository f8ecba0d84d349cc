package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 15 * time.Second

// Client talks to the barber-desk API on behalf of one logged-in operator.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   SessionStore
	log        zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, sessions SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		sessions:   sessions,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the stored session, or ErrNoSession.
func (c *Client) Session() (*Session, error) {
	return c.sessions.Load()
}

// ======================================================
// AUTH
// ======================================================

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

func (r sessionResponse) session() *Session {
	return &Session{Token: r.Token, RefreshToken: r.RefreshToken, User: r.User}
}

// Login authenticates and stores the new session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out sessionResponse
	if err := c.send(ctx, http.MethodPost, "/api/auth/login", nil, loginRequest{email, password}, &out, ""); err != nil {
		return nil, err
	}

	sess := out.session()
	if err := c.sessions.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (c *Client) Logout() error {
	return c.sessions.Clear()
}

func (c *Client) refresh(ctx context.Context, sess *Session) (*Session, error) {
	if sess.RefreshToken == "" {
		return nil, ErrUnauthorized
	}

	var out sessionResponse
	body := map[string]string{"refresh_token": sess.RefreshToken}
	if err := c.send(ctx, http.MethodPost, "/api/auth/refresh", nil, body, &out, ""); err != nil {
		return nil, err
	}

	next := out.session()
	if err := c.sessions.Save(next); err != nil {
		return nil, err
	}
	return next, nil
}

// ======================================================
// TRANSPORT
// ======================================================

// do sends an authenticated request. A 401 triggers one refresh attempt;
// when that fails too the stored session is cleared.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	sess, err := c.sessions.Load()
	if err != nil {
		return err
	}

	err = c.send(ctx, method, path, query, body, out, sess.Token)
	if !errors.Is(err, ErrUnauthorized) {
		return err
	}

	next, rerr := c.refresh(ctx, sess)
	if rerr == nil {
		err = c.send(ctx, method, path, query, body, out, next.Token)
		if !errors.Is(err, ErrUnauthorized) {
			return err
		}
	}

	c.log.Warn().Str("path", path).Msg("session rejected, clearing")
	if cerr := c.sessions.Clear(); cerr != nil {
		c.log.Error().Err(cerr).Msg("clear session")
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any, token string) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api call")

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	apiErr.Status = resp.StatusCode
	return apiErr
}
