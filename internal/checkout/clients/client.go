// Package clients contains the HTTP adapters for the checkout
// collaborators. Each adapter speaks the collaborator's JSON API and
// maps transport failures onto the checkout error taxonomy; Money
// crosses every boundary as {currency_code, units, nanos}.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// httpError is a non-2xx response, kept so adapters can branch on the
// status code when mapping to taxonomy sentinels.
type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.status, e.body)
}

// base is the shared plumbing for one collaborator endpoint.
type base struct {
	url    string
	client *http.Client
}

func newBase(url string, client *http.Client) base {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return base{url: url, client: client}
}

func (b base) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.url+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &httpError{status: resp.StatusCode, body: string(snippet)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (b base) getJSON(ctx context.Context, path string, out any) error {
	return b.do(ctx, http.MethodGet, path, nil, out)
}

func (b base) postJSON(ctx context.Context, path string, in, out any) error {
	return b.do(ctx, http.MethodPost, path, in, out)
}

func (b base) delete(ctx context.Context, path string) error {
	return b.do(ctx, http.MethodDelete, path, nil, nil)
}
