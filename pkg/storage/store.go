package storage

import (
	"github.com/carouselhq/carousel/pkg/types"
)

// Store defines the interface for Carousel's document storage
// This is implemented by BoltDB-backed storage
type Store interface {
	// Accounts
	CreateAccount(account *types.Account) error
	GetAccount(id string) (*types.Account, error)
	GetAccountByUsername(username string) (*types.Account, error)
	ListAccounts() ([]*types.Account, error)
	UpdateAccount(account *types.Account) error
	DeleteAccount(id string) error

	// Videos
	CreateVideo(video *types.Video) error
	GetVideo(id string) (*types.Video, error)
	ListVideos() ([]*types.Video, error)
	UpdateVideo(video *types.Video) error
	DeleteVideo(id string) error

	// Sessions
	CreateSession(session *types.Session) error
	GetSession(id string) (*types.Session, error)
	ListSessions() ([]*types.Session, error)
	ListSessionsByStatus(statuses []types.SessionStatus, limit int) ([]*types.Session, error)
	UpdateSession(session *types.Session) error
	DeleteSession(id string) error

	// Hashtag templates
	CreateHashtagTemplate(template *types.HashtagTemplate) error
	GetHashtagTemplate(id string) (*types.HashtagTemplate, error)
	ListHashtagTemplates() ([]*types.HashtagTemplate, error)
	UpdateHashtagTemplate(template *types.HashtagTemplate) error
	DeleteHashtagTemplate(id string) error

	// Utility
	Close() error
}
