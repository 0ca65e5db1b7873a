package manager

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carouselhq/carousel/pkg/events"
	"github.com/carouselhq/carousel/pkg/storage"
	"github.com/carouselhq/carousel/pkg/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	mgr := NewManager(store)
	t.Cleanup(func() { _ = mgr.Shutdown() })
	return mgr
}

func seedSession(t *testing.T, mgr *Manager) *types.Session {
	t.Helper()
	session := &types.Session{
		ID:            "sess-1",
		AccountID:     "acc-1",
		VideoID:       "vid-1",
		Status:        types.SessionStatusIdle,
		TargetUploads: 3,
	}
	require.NoError(t, mgr.CreateSession(session))
	return session
}

func TestTransitionAppendsTimestampedLog(t *testing.T) {
	mgr := newTestManager(t)
	session := seedSession(t, mgr)

	require.NoError(t, mgr.TransitionSession(session, types.SessionStatusUploading, "Kicking off"))

	stored, err := mgr.GetSession("sess-1")
	require.NoError(t, err)
	require.Len(t, stored.Logs, 1)
	assert.Contains(t, stored.Logs[0], "Kicking off")
	// line starts with an RFC3339 timestamp
	parts := strings.SplitN(stored.Logs[0], ": ", 2)
	require.Len(t, parts, 2)
	_, err = time.Parse(time.RFC3339, parts[0])
	assert.NoError(t, err)
}

func TestTransitionSetsStartTimeOnce(t *testing.T) {
	mgr := newTestManager(t)
	session := seedSession(t, mgr)

	require.NoError(t, mgr.TransitionSession(session, types.SessionStatusUploading, ""))
	require.NotNil(t, session.StartTime)
	first := *session.StartTime

	require.NoError(t, mgr.TransitionSession(session, types.SessionStatusWaiting, ""))
	require.NoError(t, mgr.TransitionSession(session, types.SessionStatusUploading, ""))
	assert.Equal(t, first, *session.StartTime)
}

func TestTransitionSetsCompletionTime(t *testing.T) {
	mgr := newTestManager(t)
	session := seedSession(t, mgr)

	require.NoError(t, mgr.TransitionSession(session, types.SessionStatusCompleted, ""))

	stored, err := mgr.GetSession("sess-1")
	require.NoError(t, err)
	assert.Equal(t, types.SessionStatusCompleted, stored.Status)
	assert.NotNil(t, stored.CompletionTime)
}

func TestTransitionPublishesEvent(t *testing.T) {
	mgr := newTestManager(t)
	session := seedSession(t, mgr)
	sub := mgr.GetEventBroker().Subscribe()

	require.NoError(t, mgr.TransitionSession(session, types.SessionStatusPaused, "Paused: device busy"))

	// the subscription may still see events published before it was
	// created, so scan until the transition event arrives
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-sub:
			if ev.Type != events.EventSessionPaused {
				continue
			}
			assert.Equal(t, "sess-1", ev.SessionID)
			assert.Contains(t, ev.Message, "device busy")
			return
		case <-timeout:
			t.Fatal("no session.paused event received")
		}
	}
}

func TestUpdateSessionStatusLoadsFromStore(t *testing.T) {
	mgr := newTestManager(t)
	seedSession(t, mgr)

	require.NoError(t, mgr.UpdateSessionStatus("sess-1", types.SessionStatusUploading, ""))

	stored, err := mgr.GetSession("sess-1")
	require.NoError(t, err)
	assert.Equal(t, types.SessionStatusUploading, stored.Status)
	// default message names the new status
	assert.Contains(t, stored.Logs[len(stored.Logs)-1], "uploading")
}

func TestUpdateSessionStatusUnknownID(t *testing.T) {
	mgr := newTestManager(t)
	err := mgr.UpdateSessionStatus("missing", types.SessionStatusPaused, "")
	assert.Error(t, err)
}

func TestAppendSessionLogPersists(t *testing.T) {
	mgr := newTestManager(t)
	session := seedSession(t, mgr)

	require.NoError(t, mgr.AppendSessionLog(session, "Uploaded video 1/3"))
	require.NoError(t, mgr.AppendSessionLog(session, "Uploaded video 2/3"))

	stored, err := mgr.GetSession("sess-1")
	require.NoError(t, err)
	require.Len(t, stored.Logs, 2)
	assert.Contains(t, stored.Logs[1], "2/3")
}

func TestListActiveSessionsFiltersTerminalStatuses(t *testing.T) {
	mgr := newTestManager(t)
	for i, status := range []types.SessionStatus{
		types.SessionStatusUploading,
		types.SessionStatusWaiting,
		types.SessionStatusDeleting,
		types.SessionStatusIdle,
		types.SessionStatusCompleted,
		types.SessionStatusPaused,
	} {
		require.NoError(t, mgr.CreateSession(&types.Session{
			ID:     string(rune('a' + i)),
			Status: status,
		}))
	}

	active, err := mgr.ListActiveSessions(0)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}
