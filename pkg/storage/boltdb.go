package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/carouselhq/carousel/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	// Bucket names
	bucketAccounts         = []byte("accounts")
	bucketVideos           = []byte("videos")
	bucketSessions         = []byte("sessions")
	bucketHashtagTemplates = []byte("hashtag_templates")
)

// BoltStore implements Store interface using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "carousel.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketAccounts,
			bucketVideos,
			bucketSessions,
			bucketHashtagTemplates,
		}

		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Account operations
func (s *BoltStore) CreateAccount(account *types.Account) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		data, err := json.Marshal(account)
		if err != nil {
			return err
		}
		return b.Put([]byte(account.ID), data)
	})
}

func (s *BoltStore) GetAccount(id string) (*types.Account, error) {
	var account types.Account
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("account not found: %s", id)
		}
		return json.Unmarshal(data, &account)
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *BoltStore) GetAccountByUsername(username string) (*types.Account, error) {
	var found *types.Account
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		return b.ForEach(func(k, v []byte) error {
			var account types.Account
			if err := json.Unmarshal(v, &account); err != nil {
				return err
			}
			if account.Username == username {
				found = &account
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("account not found: %s", username)
	}
	return found, nil
}

func (s *BoltStore) ListAccounts() ([]*types.Account, error) {
	var accounts []*types.Account
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		return b.ForEach(func(k, v []byte) error {
			var account types.Account
			if err := json.Unmarshal(v, &account); err != nil {
				return err
			}
			accounts = append(accounts, &account)
			return nil
		})
	})
	return accounts, err
}

func (s *BoltStore) UpdateAccount(account *types.Account) error {
	return s.CreateAccount(account) // Same as create (upsert)
}

func (s *BoltStore) DeleteAccount(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		return b.Delete([]byte(id))
	})
}

// Video operations
func (s *BoltStore) CreateVideo(video *types.Video) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVideos)
		data, err := json.Marshal(video)
		if err != nil {
			return err
		}
		return b.Put([]byte(video.ID), data)
	})
}

func (s *BoltStore) GetVideo(id string) (*types.Video, error) {
	var video types.Video
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVideos)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("video not found: %s", id)
		}
		return json.Unmarshal(data, &video)
	})
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (s *BoltStore) ListVideos() ([]*types.Video, error) {
	var videos []*types.Video
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVideos)
		return b.ForEach(func(k, v []byte) error {
			var video types.Video
			if err := json.Unmarshal(v, &video); err != nil {
				return err
			}
			videos = append(videos, &video)
			return nil
		})
	})
	return videos, err
}

func (s *BoltStore) UpdateVideo(video *types.Video) error {
	return s.CreateVideo(video)
}

func (s *BoltStore) DeleteVideo(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVideos)
		return b.Delete([]byte(id))
	})
}

// Session operations
func (s *BoltStore) CreateSession(session *types.Session) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		data, err := json.Marshal(session)
		if err != nil {
			return err
		}
		return b.Put([]byte(session.ID), data)
	})
}

func (s *BoltStore) GetSession(id string) (*types.Session, error) {
	var session types.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("session not found: %s", id)
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *BoltStore) ListSessions() ([]*types.Session, error) {
	var sessions []*types.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		return b.ForEach(func(k, v []byte) error {
			var session types.Session
			if err := json.Unmarshal(v, &session); err != nil {
				return err
			}
			sessions = append(sessions, &session)
			return nil
		})
	})
	return sessions, err
}

// ListSessionsByStatus returns sessions whose status is in the given set,
// bounded by limit. Ordering follows bucket key order; sessions beyond the
// limit wait for a later query.
func (s *BoltStore) ListSessionsByStatus(statuses []types.SessionStatus, limit int) ([]*types.Session, error) {
	wanted := make(map[types.SessionStatus]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}

	var sessions []*types.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if limit > 0 && len(sessions) >= limit {
				break
			}
			var session types.Session
			if err := json.Unmarshal(v, &session); err != nil {
				return err
			}
			if wanted[session.Status] {
				sessions = append(sessions, &session)
			}
		}
		return nil
	})
	return sessions, err
}

func (s *BoltStore) UpdateSession(session *types.Session) error {
	return s.CreateSession(session)
}

func (s *BoltStore) DeleteSession(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		return b.Delete([]byte(id))
	})
}

// Hashtag template operations
func (s *BoltStore) CreateHashtagTemplate(template *types.HashtagTemplate) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHashtagTemplates)
		data, err := json.Marshal(template)
		if err != nil {
			return err
		}
		return b.Put([]byte(template.ID), data)
	})
}

func (s *BoltStore) GetHashtagTemplate(id string) (*types.HashtagTemplate, error) {
	var template types.HashtagTemplate
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHashtagTemplates)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("hashtag template not found: %s", id)
		}
		return json.Unmarshal(data, &template)
	})
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (s *BoltStore) ListHashtagTemplates() ([]*types.HashtagTemplate, error) {
	var templates []*types.HashtagTemplate
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHashtagTemplates)
		return b.ForEach(func(k, v []byte) error {
			var template types.HashtagTemplate
			if err := json.Unmarshal(v, &template); err != nil {
				return err
			}
			templates = append(templates, &template)
			return nil
		})
	})
	return templates, err
}

func (s *BoltStore) UpdateHashtagTemplate(template *types.HashtagTemplate) error {
	return s.CreateHashtagTemplate(template)
}

func (s *BoltStore) DeleteHashtagTemplate(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHashtagTemplates)
		return b.Delete([]byte(id))
	})
}
