package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/carouselhq/carousel/pkg/log"
	"github.com/carouselhq/carousel/pkg/types"
)

// Config holds settings for the bridge driver
type Config struct {
	// HostURL is the base URL of the automation host.
	HostURL string

	// UDID optionally pins a specific device.
	UDID string

	// Timeout caps each HTTP call. UI runs are slow; uploads routinely take
	// tens of seconds.
	Timeout time.Duration
}

// BridgeDriver implements Driver against an HTTP automation host that
// translates requests into scripted UI actions on the phone.
type BridgeDriver struct {
	hostURL string
	udid    string
	client  *http.Client

	mu        sync.Mutex
	connected bool
}

// NewBridgeDriver creates a driver for the given automation host
func NewBridgeDriver(cfg Config) *BridgeDriver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	return &BridgeDriver{
		hostURL: strings.TrimRight(cfg.HostURL, "/"),
		udid:    cfg.UDID,
		client:  &http.Client{Timeout: timeout},
	}
}

// result is the automation host's uniform response envelope
type result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
	Path    string `json:"path"`
}

func (d *BridgeDriver) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return nil
	}

	body := map[string]string{}
	if d.udid != "" {
		body["udid"] = d.udid
	}

	res, err := d.post(ctx, "/session/connect", body)
	if err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	if !res.Success {
		return fmt.Errorf("connect refused: %s", res.Message)
	}

	d.connected = true
	logger := log.WithComponent("device")
	logger.Info().Str("host", d.hostURL).Msg("connected to device")
	return nil
}

func (d *BridgeDriver) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	_, err := d.post(ctx, "/session/disconnect", nil)
	d.connected = false
	if err != nil {
		return fmt.Errorf("disconnect failed: %w", err)
	}

	logger := log.WithComponent("device")
	logger.Info().Msg("disconnected from device")
	return nil
}

func (d *BridgeDriver) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

func (d *BridgeDriver) SwitchAccount(ctx context.Context, username string) error {
	res, err := d.post(ctx, "/account/switch", map[string]string{"username": username})
	if err != nil {
		return fmt.Errorf("switch account failed: %w", err)
	}
	if !res.Success {
		return fmt.Errorf("switch account refused: %s", res.Message)
	}
	return nil
}

func (d *BridgeDriver) UploadVideo(ctx context.Context, req UploadRequest) error {
	res, err := d.post(ctx, "/video/upload", req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	if !res.Success {
		return fmt.Errorf("upload refused: %s", res.Message)
	}
	return nil
}

func (d *BridgeDriver) DeleteRecentVideos(ctx context.Context, count int) (int, error) {
	res, err := d.post(ctx, "/video/delete-recent", map[string]int{"count": count})
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}
	if !res.Success {
		return res.Deleted, fmt.Errorf("delete refused: %s", res.Message)
	}
	return res.Deleted, nil
}

func (d *BridgeDriver) VPN(ctx context.Context, action VPNAction) error {
	if action != VPNConnect && action != VPNDisconnect {
		return fmt.Errorf("invalid vpn action: %s", action)
	}

	res, err := d.post(ctx, "/vpn", map[string]string{"action": string(action)})
	if err != nil {
		return fmt.Errorf("vpn %s failed: %w", action, err)
	}
	if !res.Success {
		return fmt.Errorf("vpn %s refused: %s", action, res.Message)
	}
	return nil
}

func (d *BridgeDriver) Screenshot(ctx context.Context) (string, error) {
	res, err := d.post(ctx, "/screenshot", nil)
	if err != nil {
		return "", fmt.Errorf("screenshot failed: %w", err)
	}
	if !res.Success || res.Path == "" {
		return "", fmt.Errorf("screenshot refused: %s", res.Message)
	}
	return res.Path, nil
}

func (d *BridgeDriver) DeviceInfo(ctx context.Context) (*types.DeviceInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.hostURL+"/device/info", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("device info failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("device info failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var info types.DeviceInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode device info: %w", err)
	}
	return &info, nil
}

// post sends a JSON body and decodes the uniform response envelope
func (d *BridgeDriver) post(ctx context.Context, path string, body interface{}) (*result, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.hostURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var res result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &res, nil
}
