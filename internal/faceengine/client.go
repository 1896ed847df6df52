package faceengine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to a face engine sidecar (InsightFace behind a small HTTP
// wrapper) over JSON.
type Client struct {
	baseURL *url.URL
	client  *http.Client
}

// NewClient creates a face engine client. timeout bounds each request;
// swaps on large images can take tens of seconds on CPU.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse face engine URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: parsed,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type detectRequest struct {
	Image string `json:"image"` // base64
}

type detectResponse struct {
	Faces []Detection `json:"faces"`
}

// DetectFaces sends the image to the sidecar's /detect endpoint.
func (c *Client) DetectFaces(ctx context.Context, image []byte) ([]Detection, error) {
	var resp detectResponse
	err := c.postJSON(ctx, "detect", detectRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Faces, nil
}

type swapRequest struct {
	Target     string      `json:"target"` // base64
	TargetFace Detection   `json:"target_face"`
	Source     string      `json:"source"` // base64
	SourceFace Detection   `json:"source_face"`
}

type swapResponse struct {
	Image string `json:"image"` // base64
}

// SwapFace sends a single-face swap to the sidecar's /swap endpoint.
func (c *Client) SwapFace(ctx context.Context, target []byte, face Detection, source *ReferenceFace) ([]byte, error) {
	var resp swapResponse
	err := c.postJSON(ctx, "swap", swapRequest{
		Target:     base64.StdEncoding.EncodeToString(target),
		TargetFace: face,
		Source:     base64.StdEncoding.EncodeToString(source.Image),
		SourceFace: source.Face,
	}, &resp)
	if err != nil {
		return nil, err
	}

	image, err := base64.StdEncoding.DecodeString(resp.Image)
	if err != nil {
		return nil, fmt.Errorf("could not decode swapped image: %w", err)
	}
	return image, nil
}

// postJSON performs a POST request with a JSON body and unmarshals the JSON
// response into result.
func (c *Client) postJSON(ctx context.Context, endpoint string, requestBody, result any) error {
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("could not marshal request body: %w", err)
	}

	u := c.baseURL.JoinPath(endpoint).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s request failed with status %d: %s", endpoint, resp.StatusCode, bytes.TrimSpace(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("could not unmarshal response: %w", err)
	}
	return nil
}
