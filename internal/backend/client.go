package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Toshiki-Isokawa/Trainora/internal/models"
)

// Error is a non-2xx answer from the calculation backend. The body is kept
// verbatim so callers can surface it unchanged.
type Error struct {
	StatusCode int
	Body       []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: status %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Client talks to the external calculation/persistence backend. It never
// retries; every call is a single request bound to the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// FetchProfile probes for an existing profile. A 404 reports found=false with
// no error; any other non-2xx status is returned as *Error.
func (c *Client) FetchProfile(ctx context.Context, userID string) (*models.RemoteProfile, json.RawMessage, bool, error) {
	query := url.Values{"userId": {userID}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user/profile?"+query.Encode(), nil)
	if err != nil {
		return nil, nil, false, fmt.Errorf("build profile request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, false, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, false, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, false, fmt.Errorf("read profile response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, nil, false, &Error{StatusCode: resp.StatusCode, Body: body}
	}

	var profile models.RemoteProfile
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&profile); err != nil {
		return nil, nil, false, fmt.Errorf("decode profile response: %w", err)
	}
	return &profile, json.RawMessage(body), true, nil
}

// RegisterProfile submits the consolidated onboarding payload. update selects
// PUT over POST for users editing an existing profile.
func (c *Client) RegisterProfile(ctx context.Context, payload models.RegisterPayload, update bool) (*models.SummaryResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal register payload: %w", err)
	}

	method := http.MethodPost
	if update {
		method = http.MethodPut
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/user/register", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build register request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("register profile: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read register response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{StatusCode: resp.StatusCode, Body: respBody}
	}

	var summary models.SummaryResponse
	if err := json.Unmarshal(respBody, &summary); err != nil {
		return nil, fmt.Errorf("decode register response: %w", err)
	}
	return &summary, nil
}

// Forward relays one request to the backend and hands back the raw status and
// body for pass-through routes.
func (c *Client) Forward(ctx context.Context, method, path string, query url.Values, body []byte) (int, []byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	return resp.StatusCode, respBody, nil
}
