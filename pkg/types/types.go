package types

import (
	"time"
)

// Account represents a social-app account controlled on the device
type Account struct {
	ID                  string
	Username            string
	DisplayName         string
	Status              AccountStatus
	LastLogin           *time.Time
	VideosUploadedToday int
	TotalVideosUploaded int
	Notes               string
	CreatedAt           time.Time
}

// AccountStatus represents the current state of an account
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusInactive  AccountStatus = "inactive"
	AccountStatusBanned    AccountStatus = "banned"
	AccountStatusSuspended AccountStatus = "suspended"
)

// Valid reports whether s is one of the known account statuses
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusActive, AccountStatusInactive, AccountStatusBanned, AccountStatusSuspended:
		return true
	}
	return false
}

// Video represents a stored media file plus its reusable description template
type Video struct {
	ID                  string
	Filename            string
	OriginalName        string
	FilePath            string
	FileSize            int64
	DurationSeconds     float64
	DescriptionTemplate string
	Hashtags            []string
	UploadCount         int
	LastUsed            *time.Time
	CreatedAt           time.Time
}

// Session tracks one account/video pairing's upload-wait-delete cycle.
// It is the unit of work the reconciler polls and drives.
type Session struct {
	ID                  string
	AccountID           string
	VideoID             string
	Status              SessionStatus
	VideosUploaded      int
	TargetUploads       int
	WaitDurationMinutes int

	// NextActionAt is set when the session enters the waiting phase and
	// cleared when it leaves it.
	NextActionAt   *time.Time
	StartTime      *time.Time
	CompletionTime *time.Time

	// CurrentCycle counts completed upload-wait-delete passes. TotalCycles
	// caps the number of cycles; nil means unlimited.
	CurrentCycle int
	TotalCycles  *int
	AutoRestart  bool

	CreatedAt time.Time

	// Logs is an append-only audit trail of timestamped human-readable lines.
	Logs []string
}

// SessionStatus represents the phase of a session's cycle
type SessionStatus string

const (
	SessionStatusIdle      SessionStatus = "idle"
	SessionStatusUploading SessionStatus = "uploading"
	SessionStatusWaiting   SessionStatus = "waiting"
	SessionStatusDeleting  SessionStatus = "deleting"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusPaused    SessionStatus = "paused"
)

// ActiveStatuses returns the statuses the reconciler polls for. Idle,
// completed and paused sessions require an external call to re-enter the
// active set.
func ActiveStatuses() []SessionStatus {
	return []SessionStatus{
		SessionStatusUploading,
		SessionStatusWaiting,
		SessionStatusDeleting,
	}
}

// HashtagTemplate holds a base tag set plus the variations already served
// from it, so later selections can avoid repeats
type HashtagTemplate struct {
	ID                  string
	Name                string
	BaseHashtags        []string
	GeneratedVariations [][]string
	LastGenerated       *time.Time
	UsageCount          int
	CreatedAt           time.Time
}

// DeviceInfo describes the connected phone
type DeviceInfo struct {
	DeviceName      string `json:"device_name"`
	PlatformVersion string `json:"platform_version"`
	UDID            string `json:"udid"`
	AutomationName  string `json:"automation_name"`
	AppBundle       string `json:"app_bundle"`
}
