package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps the carousel REST API for CLI usage
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Account mirrors the API's account representation
type Account struct {
	ID                  string `json:"id"`
	Username            string `json:"username"`
	DisplayName         string `json:"display_name,omitempty"`
	Status              string `json:"status"`
	VideosUploadedToday int    `json:"videos_uploaded_today"`
	TotalVideosUploaded int    `json:"total_videos_uploaded"`
}

// Video mirrors the API's video representation
type Video struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name,omitempty"`
	FileSize     int64  `json:"file_size"`
	UploadCount  int    `json:"upload_count"`
}

// Session mirrors the API's session representation
type Session struct {
	ID                  string     `json:"id"`
	AccountID           string     `json:"account_id"`
	VideoID             string     `json:"video_id"`
	Status              string     `json:"status"`
	VideosUploaded      int        `json:"videos_uploaded"`
	TargetUploads       int        `json:"target_uploads"`
	WaitDurationMinutes int        `json:"wait_duration_minutes"`
	NextActionAt        *time.Time `json:"next_action_at,omitempty"`
	CurrentCycle        int        `json:"current_cycle"`
	TotalCycles         *int       `json:"total_cycles,omitempty"`
	AutoRestart         bool       `json:"auto_restart"`
	Logs                []string   `json:"logs,omitempty"`
}

// SessionSpec describes a session to create
type SessionSpec struct {
	AccountID           string `json:"account_id"`
	VideoID             string `json:"video_id"`
	TargetUploads       int    `json:"target_uploads"`
	WaitDurationMinutes int    `json:"wait_duration_minutes"`
	TotalCycles         *int   `json:"total_cycles,omitempty"`
	AutoRestart         bool   `json:"auto_restart"`
}

// DeviceStatus reports the automation host connection
type DeviceStatus struct {
	Connected bool `json:"connected"`
	Info      *struct {
		DeviceName      string `json:"device_name"`
		PlatformVersion string `json:"platform_version"`
		UDID            string `json:"udid"`
	} `json:"info,omitempty"`
}

// SystemStatus is the dashboard summary
type SystemStatus struct {
	DeviceConnected bool           `json:"device_connected"`
	Accounts        int            `json:"accounts"`
	Videos          int            `json:"videos"`
	Sessions        map[string]int `json:"sessions"`
	ActiveSessions  int            `json:"active_sessions"`
}

func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var out []Account
	err := c.call(ctx, http.MethodGet, "/api/accounts", nil, &out)
	return out, err
}

func (c *Client) CreateAccount(ctx context.Context, username, displayName string) (*Account, error) {
	body := map[string]string{"username": username, "display_name": displayName}
	var out Account
	if err := c.call(ctx, http.MethodPost, "/api/accounts", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/accounts/"+id, nil, nil)
}

func (c *Client) ListVideos(ctx context.Context) ([]Video, error) {
	var out []Video
	err := c.call(ctx, http.MethodGet, "/api/videos", nil, &out)
	return out, err
}

func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var out []Session
	err := c.call(ctx, http.MethodGet, "/api/carousel-sessions", nil, &out)
	return out, err
}

func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	var out Session
	if err := c.call(ctx, http.MethodGet, "/api/carousel-sessions/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSession(ctx context.Context, spec SessionSpec) (*Session, error) {
	var out Session
	if err := c.call(ctx, http.MethodPost, "/api/carousel-sessions", spec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SessionAction(ctx context.Context, id, action string) (*Session, error) {
	body := map[string]string{"action": action}
	var out Session
	if err := c.call(ctx, http.MethodPost, "/api/carousel-sessions/"+id+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/carousel-sessions/"+id, nil, nil)
}

func (c *Client) DeviceStatus(ctx context.Context) (*DeviceStatus, error) {
	var out DeviceStatus
	if err := c.call(ctx, http.MethodGet, "/api/device/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConnectDevice(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/api/device/connect", nil, nil)
}

func (c *Client) DisconnectDevice(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/api/device/disconnect", nil, nil)
}

func (c *Client) Status(ctx context.Context) (*SystemStatus, error) {
	var out SystemStatus
	if err := c.call(ctx, http.MethodGet, "/api/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
