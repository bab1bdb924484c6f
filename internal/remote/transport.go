package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jjc-attendance/internal/shared/apperror"
)

// Transport handles low-level HTTP and authentication against the
// authoritative attendance server. Non-2xx responses and non-JSON bodies are
// hard failures for the current cycle; the caller retries next cycle.
type Transport struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
}

func NewTransport(baseURL, token string, timeout time.Duration) *Transport {
	return &Transport{
		BaseURL:    baseURL,
		AuthToken:  token,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (t *Transport) buildURL(path string, query map[string]string) string {
	u, _ := url.Parse(t.BaseURL + path)
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (t *Transport) Get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.buildURL(path, query), nil)
	if err != nil {
		return nil, err
	}
	return t.do(req, path)
}

func (t *Transport) Post(ctx context.Context, path string, data any) ([]byte, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.buildURL(path, nil), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return t.do(req, path)
}

func (t *Transport) do(req *http.Request, path string) ([]byte, error) {
	if t.AuthToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", t.AuthToken))
	}

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, apperror.NetworkFailure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, apperror.ServerError(
			fmt.Errorf("%s %s failed with status %d: %s", req.Method, path, resp.StatusCode, string(b)))
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return nil, apperror.ServerError(
			fmt.Errorf("%s %s returned non-JSON content-type %q", req.Method, path, ct))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NetworkFailure(err)
	}
	return data, nil
}
