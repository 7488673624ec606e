package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the production query endpoint.
const DefaultEndpoint = "https://police-procedures-new.onrender.com/query"

// Response is the decoded endpoint reply.
type Response struct {
	StatusCode int
	Message    string // empty when the body carried no usable message
}

// HTTPPoster sends payloads to the query endpoint. It never retries.
type HTTPPoster struct {
	Endpoint string
	PingURL  string
	client   *http.Client
}

// NewHTTPPoster builds a poster for endpoint. A zero timeout means the request
// waits as long as the caller's context allows.
func NewHTTPPoster(endpoint string, timeout time.Duration) *HTTPPoster {
	return &HTTPPoster{
		Endpoint: endpoint,
		PingURL:  PingURLFor(endpoint),
		client:   &http.Client{Timeout: timeout},
	}
}

// PingURLFor replaces the last path element of endpoint with "ping".
func PingURLFor(endpoint string) string {
	i := strings.LastIndex(endpoint, "/")
	if i < len("https://") {
		return strings.TrimRight(endpoint, "/") + "/ping"
	}
	return endpoint[:i] + "/ping"
}

// Post issues exactly one POST with the JSON-encoded payload.
func (p *HTTPPoster) Post(ctx context.Context, payload Payload) (Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, newTransportError("marshal payload", err)
	}
	return p.do(ctx, p.Endpoint, body)
}

// Ping posts an empty JSON object to the ping URL and expects a 2xx reply.
func (p *HTTPPoster) Ping(ctx context.Context) (Response, error) {
	return p.do(ctx, p.PingURL, []byte("{}"))
}

func (p *HTTPPoster) do(ctx context.Context, url string, body []byte) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Response{}, newTransportError("create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Response{}, newTransportError("http POST", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{StatusCode: resp.StatusCode}, newTransportError("read body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{StatusCode: resp.StatusCode},
			newTransportError("unexpected status", fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, truncate(raw, 200)))
	}

	msg, err := decodeMessage(raw)
	if err != nil {
		return Response{StatusCode: resp.StatusCode}, newTransportError("json unmarshal", err)
	}
	return Response{StatusCode: resp.StatusCode, Message: msg}, nil
}

// decodeMessage requires raw to be JSON and extracts a non-empty string
// "message" from it when raw is an object.
func decodeMessage(raw []byte) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return "", nil
	}
	msg, _ := obj["message"].(string)
	return msg, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "…"
}
