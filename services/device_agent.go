package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/JaneshKapoor/nayraa/models"
)

// Device error codes returned by the agent. Machine-readable so callers
// never have to pattern-match message text.
const (
	DeviceCodePermissionDenied  = "permission_denied"
	DeviceCodeCameraUnavailable = "camera_unavailable"
	DeviceCodeCanceled          = "canceled"
)

// DeviceError is a coded failure from the device agent.
type DeviceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device agent error %s: %s", e.Code, e.Message)
}

// PermissionRequester acquires a single device capability.
type PermissionRequester interface {
	Request(ctx context.Context, capability models.Capability) (models.PermissionStatus, error)
}

// RecordingOptions bound a video recording. Mute is set when microphone
// permission was denied.
type RecordingOptions struct {
	MaxDuration time.Duration `json:"-"`
	Mute        bool          `json:"mute"`
}

// Camera drives the device camera through the agent. TakePicture and
// StopRecording return device-local asset URIs.
type Camera interface {
	TakePicture(ctx context.Context) (string, error)
	StartRecording(ctx context.Context, opts RecordingOptions) error
	StopRecording(ctx context.Context) (string, error)
}

// LocationProvider performs the one-shot current position fetch.
type LocationProvider interface {
	CurrentPosition(ctx context.Context) (*models.Coordinates, error)
}

// AssetReader reads the bytes behind a device-local asset URI.
type AssetReader interface {
	ReadAsset(ctx context.Context, uri string) ([]byte, error)
}

// DeviceAgentClient talks to the companion agent that owns the camera,
// location and permission surfaces on the device. It implements all four
// collaborator interfaces.
type DeviceAgentClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewDeviceAgentClient(baseURL string) *DeviceAgentClient {
	return &DeviceAgentClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Recording can legitimately run for the full 30s bound.
			Timeout: 60 * time.Second,
		},
	}
}

func (c *DeviceAgentClient) Request(ctx context.Context, capability models.Capability) (models.PermissionStatus, error) {
	var out struct {
		Status models.PermissionStatus `json:"status"`
	}
	path := fmt.Sprintf("/v1/permissions/%s", capability)
	if err := c.post(ctx, path, nil, &out); err != nil {
		return models.PermissionUnknown, err
	}
	return out.Status, nil
}

func (c *DeviceAgentClient) TakePicture(ctx context.Context) (string, error) {
	var out struct {
		URI string `json:"uri"`
	}
	if err := c.post(ctx, "/v1/camera/picture", nil, &out); err != nil {
		return "", err
	}
	return out.URI, nil
}

func (c *DeviceAgentClient) StartRecording(ctx context.Context, opts RecordingOptions) error {
	body := struct {
		MaxDurationSeconds int  `json:"max_duration_seconds"`
		Mute               bool `json:"mute"`
	}{
		MaxDurationSeconds: int(opts.MaxDuration.Seconds()),
		Mute:               opts.Mute,
	}
	return c.post(ctx, "/v1/camera/recording/start", body, nil)
}

func (c *DeviceAgentClient) StopRecording(ctx context.Context) (string, error) {
	var out struct {
		URI string `json:"uri"`
	}
	if err := c.post(ctx, "/v1/camera/recording/stop", nil, &out); err != nil {
		return "", err
	}
	return out.URI, nil
}

func (c *DeviceAgentClient) CurrentPosition(ctx context.Context) (*models.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/location", nil)
	if err != nil {
		return nil, err
	}
	var out models.Coordinates
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *DeviceAgentClient) ReadAsset(ctx context.Context, uri string) ([]byte, error) {
	u := fmt.Sprintf("%s/v1/assets?uri=%s", c.baseURL, url.QueryEscape(uri))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeDeviceError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset body: %w", err)
	}
	return data, nil
}

func (c *DeviceAgentClient) post(ctx context.Context, path string, body, out interface{}) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *DeviceAgentClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach device agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeDeviceError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode device agent response: %w", err)
	}
	return nil
}

func decodeDeviceError(resp *http.Response) error {
	var body struct {
		Error DeviceError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error.Code == "" {
		return &DeviceError{
			Code:    "internal",
			Message: fmt.Sprintf("device agent returned status %d", resp.StatusCode),
		}
	}
	return &body.Error
}
