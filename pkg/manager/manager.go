package manager

import (
	"fmt"
	"time"

	"github.com/carouselhq/carousel/pkg/events"
	"github.com/carouselhq/carousel/pkg/log"
	"github.com/carouselhq/carousel/pkg/storage"
	"github.com/carouselhq/carousel/pkg/types"
)

// Manager owns the store and mediates all state mutations. Components
// (reconciler, API, collector) go through the manager rather than the
// store directly, so transitions are logged and published uniformly.
type Manager struct {
	store       storage.Store
	eventBroker *events.Broker
}

// NewManager creates a manager over the given store
func NewManager(store storage.Store) *Manager {
	broker := events.NewBroker()
	broker.Start()

	return &Manager{
		store:       store,
		eventBroker: broker,
	}
}

// GetEventBroker returns the event broker for subscriptions
func (m *Manager) GetEventBroker() *events.Broker {
	return m.eventBroker
}

// PublishEvent publishes an event to all subscribers
func (m *Manager) PublishEvent(event *events.Event) {
	m.eventBroker.Publish(event)
}

// Shutdown stops the broker and closes the store
func (m *Manager) Shutdown() error {
	m.eventBroker.Stop()
	return m.store.Close()
}

// Account operations

func (m *Manager) CreateAccount(account *types.Account) error {
	return m.store.CreateAccount(account)
}

func (m *Manager) GetAccount(id string) (*types.Account, error) {
	return m.store.GetAccount(id)
}

func (m *Manager) GetAccountByUsername(username string) (*types.Account, error) {
	return m.store.GetAccountByUsername(username)
}

func (m *Manager) ListAccounts() ([]*types.Account, error) {
	return m.store.ListAccounts()
}

func (m *Manager) UpdateAccount(account *types.Account) error {
	return m.store.UpdateAccount(account)
}

func (m *Manager) DeleteAccount(id string) error {
	return m.store.DeleteAccount(id)
}

// Video operations

func (m *Manager) CreateVideo(video *types.Video) error {
	return m.store.CreateVideo(video)
}

func (m *Manager) GetVideo(id string) (*types.Video, error) {
	return m.store.GetVideo(id)
}

func (m *Manager) ListVideos() ([]*types.Video, error) {
	return m.store.ListVideos()
}

func (m *Manager) UpdateVideo(video *types.Video) error {
	return m.store.UpdateVideo(video)
}

func (m *Manager) DeleteVideo(id string) error {
	return m.store.DeleteVideo(id)
}

// Hashtag template operations

func (m *Manager) CreateHashtagTemplate(template *types.HashtagTemplate) error {
	return m.store.CreateHashtagTemplate(template)
}

func (m *Manager) GetHashtagTemplate(id string) (*types.HashtagTemplate, error) {
	return m.store.GetHashtagTemplate(id)
}

func (m *Manager) ListHashtagTemplates() ([]*types.HashtagTemplate, error) {
	return m.store.ListHashtagTemplates()
}

func (m *Manager) UpdateHashtagTemplate(template *types.HashtagTemplate) error {
	return m.store.UpdateHashtagTemplate(template)
}

// Session operations

func (m *Manager) CreateSession(session *types.Session) error {
	if err := m.store.CreateSession(session); err != nil {
		return err
	}

	m.PublishEvent(&events.Event{
		Type:      events.EventSessionCreated,
		SessionID: session.ID,
		AccountID: session.AccountID,
		Message:   "session created",
	})
	return nil
}

func (m *Manager) GetSession(id string) (*types.Session, error) {
	return m.store.GetSession(id)
}

func (m *Manager) ListSessions() ([]*types.Session, error) {
	return m.store.ListSessions()
}

// ListActiveSessions returns the batch of sessions the reconciler should
// process this tick.
func (m *Manager) ListActiveSessions(limit int) ([]*types.Session, error) {
	return m.store.ListSessionsByStatus(types.ActiveStatuses(), limit)
}

func (m *Manager) UpdateSession(session *types.Session) error {
	return m.store.UpdateSession(session)
}

func (m *Manager) DeleteSession(id string) error {
	return m.store.DeleteSession(id)
}

// AppendSessionLog appends a timestamped line to the session's audit trail
// and persists it. The trail is append-only; lines are never rewritten.
func (m *Manager) AppendSessionLog(session *types.Session, message string) error {
	session.Logs = append(session.Logs, logLine(message))
	return m.store.UpdateSession(session)
}

// UpdateSessionStatus transitions a session to the given status, appending
// a log line and maintaining the status-derived timestamps.
func (m *Manager) UpdateSessionStatus(id string, status types.SessionStatus, message string) error {
	session, err := m.store.GetSession(id)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	return m.TransitionSession(session, status, message)
}

// TransitionSession is UpdateSessionStatus for an already-loaded session.
func (m *Manager) TransitionSession(session *types.Session, status types.SessionStatus, message string) error {
	now := time.Now().UTC()

	session.Status = status
	if message == "" {
		message = fmt.Sprintf("Status changed to %s", status)
	}
	session.Logs = append(session.Logs, logLine(message))

	switch status {
	case types.SessionStatusUploading:
		if session.StartTime == nil {
			session.StartTime = &now
		}
	case types.SessionStatusCompleted:
		session.CompletionTime = &now
	}

	if err := m.store.UpdateSession(session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	m.PublishEvent(&events.Event{
		Type:      statusEvent(status),
		SessionID: session.ID,
		AccountID: session.AccountID,
		Message:   message,
	})

	logger := log.WithSessionID(session.ID)
	logger.Info().
		Str("status", string(status)).
		Msg("session status changed")
	return nil
}

func statusEvent(status types.SessionStatus) events.EventType {
	switch status {
	case types.SessionStatusUploading:
		return events.EventSessionUploading
	case types.SessionStatusWaiting:
		return events.EventSessionWaiting
	case types.SessionStatusDeleting:
		return events.EventSessionDeleting
	case types.SessionStatusCompleted:
		return events.EventSessionCompleted
	case types.SessionStatusPaused:
		return events.EventSessionPaused
	default:
		return events.EventSessionCreated
	}
}

func logLine(message string) string {
	return fmt.Sprintf("%s: %s", time.Now().UTC().Format(time.RFC3339), message)
}
