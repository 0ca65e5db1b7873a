package api

import (
	"time"

	"github.com/carouselhq/carousel/pkg/types"
)

// Wire representations. Field names follow the snake_case convention the
// frontend already speaks.

type accountDTO struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	DisplayName         string     `json:"display_name,omitempty"`
	Status              string     `json:"status"`
	LastLogin           *time.Time `json:"last_login,omitempty"`
	VideosUploadedToday int        `json:"videos_uploaded_today"`
	TotalVideosUploaded int        `json:"total_videos_uploaded"`
	Notes               string     `json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func toAccountDTO(a *types.Account) accountDTO {
	return accountDTO{
		ID:                  a.ID,
		Username:            a.Username,
		DisplayName:         a.DisplayName,
		Status:              string(a.Status),
		LastLogin:           a.LastLogin,
		VideosUploadedToday: a.VideosUploadedToday,
		TotalVideosUploaded: a.TotalVideosUploaded,
		Notes:               a.Notes,
		CreatedAt:           a.CreatedAt,
	}
}

type videoDTO struct {
	ID                  string     `json:"id"`
	Filename            string     `json:"filename"`
	OriginalName        string     `json:"original_name,omitempty"`
	FilePath            string     `json:"file_path"`
	FileSize            int64      `json:"file_size"`
	DurationSeconds     float64    `json:"duration_seconds,omitempty"`
	DescriptionTemplate string     `json:"description_template,omitempty"`
	Hashtags            []string   `json:"hashtags,omitempty"`
	UploadCount         int        `json:"upload_count"`
	LastUsed            *time.Time `json:"last_used,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func toVideoDTO(v *types.Video) videoDTO {
	return videoDTO{
		ID:                  v.ID,
		Filename:            v.Filename,
		OriginalName:        v.OriginalName,
		FilePath:            v.FilePath,
		FileSize:            v.FileSize,
		DurationSeconds:     v.DurationSeconds,
		DescriptionTemplate: v.DescriptionTemplate,
		Hashtags:            v.Hashtags,
		UploadCount:         v.UploadCount,
		LastUsed:            v.LastUsed,
		CreatedAt:           v.CreatedAt,
	}
}

type sessionDTO struct {
	ID                  string     `json:"id"`
	AccountID           string     `json:"account_id"`
	VideoID             string     `json:"video_id"`
	Status              string     `json:"status"`
	VideosUploaded      int        `json:"videos_uploaded"`
	TargetUploads       int        `json:"target_uploads"`
	WaitDurationMinutes int        `json:"wait_duration_minutes"`
	NextActionAt        *time.Time `json:"next_action_at,omitempty"`
	StartTime           *time.Time `json:"start_time,omitempty"`
	CompletionTime      *time.Time `json:"completion_time,omitempty"`
	CurrentCycle        int        `json:"current_cycle"`
	TotalCycles         *int       `json:"total_cycles,omitempty"`
	AutoRestart         bool       `json:"auto_restart"`
	CreatedAt           time.Time  `json:"created_at"`
	Logs                []string   `json:"logs,omitempty"`
}

func toSessionDTO(s *types.Session) sessionDTO {
	return sessionDTO{
		ID:                  s.ID,
		AccountID:           s.AccountID,
		VideoID:             s.VideoID,
		Status:              string(s.Status),
		VideosUploaded:      s.VideosUploaded,
		TargetUploads:       s.TargetUploads,
		WaitDurationMinutes: s.WaitDurationMinutes,
		NextActionAt:        s.NextActionAt,
		StartTime:           s.StartTime,
		CompletionTime:      s.CompletionTime,
		CurrentCycle:        s.CurrentCycle,
		TotalCycles:         s.TotalCycles,
		AutoRestart:         s.AutoRestart,
		CreatedAt:           s.CreatedAt,
		Logs:                s.Logs,
	}
}

type templateDTO struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	BaseHashtags        []string   `json:"base_hashtags"`
	GeneratedVariations [][]string `json:"generated_variations,omitempty"`
	LastGenerated       *time.Time `json:"last_generated,omitempty"`
	UsageCount          int        `json:"usage_count"`
	CreatedAt           time.Time  `json:"created_at"`
}

func toTemplateDTO(t *types.HashtagTemplate) templateDTO {
	return templateDTO{
		ID:                  t.ID,
		Name:                t.Name,
		BaseHashtags:        t.BaseHashtags,
		GeneratedVariations: t.GeneratedVariations,
		LastGenerated:       t.LastGenerated,
		UsageCount:          t.UsageCount,
		CreatedAt:           t.CreatedAt,
	}
}
