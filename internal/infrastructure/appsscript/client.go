package appsscript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/tile-inventory/internal/domain/constants"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
)

// Config describes the deployed web app and the account used against it.
type Config struct {
	BaseURL string
	Email   string
	Hash    string
	Timeout time.Duration
}

// Client talks to the spreadsheet-backed Apps Script web app.
type Client struct {
	baseURL string
	email   string
	hash    string
	http    *http.Client
	now     func() time.Time
}

// RemoteError is returned when the web app answers success=false.
type RemoteError struct {
	Action  string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error { return entity.ErrRemote }

// envelope is the common response shape of every action.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (e envelope) ok() bool         { return e.Success }
func (e envelope) errorText() string { return e.Error }

type result interface {
	ok() bool
	errorText() string
}

// NewClient builds a client. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("apps script url is empty")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("apps script url: %w", err)
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = time.Duration(constants.DefaultRemoteTimeoutSeconds) * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: base,
		email:   cfg.Email,
		hash:    cfg.Hash,
		http:    httpClient,
		now:     time.Now,
	}, nil
}

// queryURL builds a GET url with the cache-busting t parameter.
func (c *Client) queryURL(action string, params url.Values, withAuth bool) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("action", action)
	if withAuth {
		q.Set("email", c.email)
		q.Set("hash", c.hash)
	}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("t", strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, action string, params url.Values, withAuth bool, fallback string, out result) error {
	urlStr, err := c.queryURL(action, params, withAuth)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return err
	}
	return c.do(req, action, fallback, out)
}

// postForm sends an url-encoded body with the account credentials attached.
func (c *Client) postForm(ctx context.Context, action string, fields url.Values, fallback string) error {
	form := url.Values{}
	form.Set("action", action)
	form.Set("email", c.email)
	form.Set("hash", c.hash)
	for k, vs := range fields {
		for _, v := range vs {
			form.Add(k, v)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var out envelope
	return c.do(req, action, fallback, &out)
}

// postJSON sends a JSON document as text/plain, which Apps Script accepts
// without a CORS preflight.
func (c *Client) postJSON(ctx context.Context, action string, payload any, fallback string, out result) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")
	return c.do(req, action, fallback, out)
}

func (c *Client) do(req *http.Request, action, fallback string, out result) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("%s: status=%d: %s", action, resp.StatusCode, msg)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, constants.MaxRemoteResponseBytes))
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: empty response", action)
		}
		return fmt.Errorf("%s: json decode error: %w", action, err)
	}
	if !out.ok() {
		msg := strings.TrimSpace(out.errorText())
		if msg == "" {
			msg = fallback
		}
		return &RemoteError{Action: action, Message: msg}
	}
	return nil
}
