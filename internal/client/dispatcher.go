package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 15 * time.Second

// Request describes one outbound API call.
type Request struct {
	Method string
	Path   string // joined onto the base URL, may carry a query string
	Body   any    // JSON-encoded when non-nil
	Header http.Header
	Out    any // JSON-decoded from a 2xx body when non-nil
}

// Dispatcher sends API requests, attaching the bearer credential from the
// session store when one exists. It never retries.
type Dispatcher struct {
	baseURL string
	http    *http.Client
	store   Store
	log     zerolog.Logger
}

func NewDispatcher(baseURL string, store Store, httpClient *http.Client, log zerolog.Logger) *Dispatcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Dispatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		store:   store,
		log:     log,
	}
}

// Do performs r. Transport failures wrap ErrNetwork; non-2xx responses are
// returned as *APIError.
func (d *Dispatcher) Do(ctx context.Context, r Request) error {
	var body io.Reader
	if r.Body != nil {
		buf, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, d.baseURL+r.Path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	session, err := d.store.Get()
	if err != nil {
		d.log.Warn().Err(err).Msg("session unreadable, sending without credential")
	}
	if session.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	start := time.Now()
	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, r.Method, r.Path, err)
	}
	defer resp.Body.Close()

	d.log.Debug().
		Str("method", r.Method).
		Str("path", r.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api call")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, errorMessage(data))
	}

	if r.Out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, r.Out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls the message out of an {"error": "..."} or
// {"detail": "..."} envelope, falling back to the raw body.
func errorMessage(data []byte) string {
	var env struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &env); err == nil {
		for _, m := range []string{env.Error, env.Detail, env.Message} {
			if m != "" {
				return m
			}
		}
	}
	return strings.TrimSpace(string(data))
}
