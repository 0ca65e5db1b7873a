package device

import (
	"context"

	"github.com/carouselhq/carousel/pkg/types"
)

// VPNAction selects what to do with the device's VPN profile
type VPNAction string

const (
	VPNConnect    VPNAction = "connect"
	VPNDisconnect VPNAction = "disconnect"
)

// UploadRequest carries everything one upload needs
type UploadRequest struct {
	VideoPath   string   `json:"video_path"`
	Description string   `json:"description"`
	Hashtags    []string `json:"hashtags"`
}

// Driver controls the phone through the external automation host. Every
// call may take seconds and may fail; callers treat failures as transient
// and retry on a later tick.
//
// The driver is a single exclusively-owned resource: the reconciler
// processes sessions one at a time, so no two operations run concurrently.
type Driver interface {
	// Connect establishes the automation session. Idempotent: a no-op when
	// already connected.
	Connect(ctx context.Context) error

	// Disconnect tears down the automation session.
	Disconnect(ctx context.Context) error

	// IsConnected reports whether an automation session is live.
	IsConnected() bool

	// SwitchAccount makes the given username the active account in the app.
	SwitchAccount(ctx context.Context, username string) error

	// UploadVideo posts one video with description and hashtags.
	UploadVideo(ctx context.Context, req UploadRequest) error

	// DeleteRecentVideos removes the count most recently posted videos from
	// the active profile and returns how many were actually removed.
	DeleteRecentVideos(ctx context.Context, count int) (int, error)

	// VPN toggles the device VPN profile.
	VPN(ctx context.Context, action VPNAction) error

	// Screenshot captures the current screen and returns the saved path.
	Screenshot(ctx context.Context) (string, error)

	// DeviceInfo returns descriptive information about the connected phone.
	DeviceInfo(ctx context.Context) (*types.DeviceInfo, error)
}
