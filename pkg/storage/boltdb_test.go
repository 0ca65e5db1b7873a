package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/carouselhq/carousel/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()

	store, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAccountCRUD(t *testing.T) {
	store := newTestStore(t)

	account := &types.Account{
		ID:          "acc-1",
		Username:    "dater_one",
		DisplayName: "Dater One",
		Status:      types.AccountStatusActive,
		CreatedAt:   time.Now().UTC(),
	}

	require.NoError(t, store.CreateAccount(account))

	got, err := store.GetAccount("acc-1")
	require.NoError(t, err)
	assert.Equal(t, "dater_one", got.Username)

	byName, err := store.GetAccountByUsername("dater_one")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", byName.ID)

	got.VideosUploadedToday = 3
	require.NoError(t, store.UpdateAccount(got))

	updated, err := store.GetAccount("acc-1")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.VideosUploadedToday)

	require.NoError(t, store.DeleteAccount("acc-1"))
	_, err = store.GetAccount("acc-1")
	assert.Error(t, err)
}

func TestGetAccountNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetAccount("missing")
	assert.Error(t, err)

	_, err = store.GetAccountByUsername("missing")
	assert.Error(t, err)
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	next := time.Now().UTC().Add(50 * time.Minute)
	cycles := 2
	session := &types.Session{
		ID:                  "sess-1",
		AccountID:           "acc-1",
		VideoID:             "vid-1",
		Status:              types.SessionStatusWaiting,
		VideosUploaded:      6,
		TargetUploads:       6,
		WaitDurationMinutes: 50,
		NextActionAt:        &next,
		TotalCycles:         &cycles,
		AutoRestart:         true,
		CreatedAt:           time.Now().UTC(),
		Logs:                []string{"created"},
	}

	require.NoError(t, store.CreateSession(session))

	got, err := store.GetSession("sess-1")
	require.NoError(t, err)
	assert.Equal(t, types.SessionStatusWaiting, got.Status)
	require.NotNil(t, got.NextActionAt)
	assert.WithinDuration(t, next, *got.NextActionAt, time.Second)
	require.NotNil(t, got.TotalCycles)
	assert.Equal(t, 2, *got.TotalCycles)
	assert.Equal(t, []string{"created"}, got.Logs)
}

func TestListSessionsByStatus(t *testing.T) {
	store := newTestStore(t)

	statuses := []types.SessionStatus{
		types.SessionStatusUploading,
		types.SessionStatusWaiting,
		types.SessionStatusDeleting,
		types.SessionStatusCompleted,
		types.SessionStatusPaused,
		types.SessionStatusIdle,
	}

	for i, status := range statuses {
		session := &types.Session{
			ID:     fmt.Sprintf("sess-%d", i),
			Status: status,
		}
		require.NoError(t, store.CreateSession(session))
	}

	active, err := store.ListSessionsByStatus(types.ActiveStatuses(), 100)
	require.NoError(t, err)
	assert.Len(t, active, 3)

	for _, session := range active {
		assert.Contains(t, types.ActiveStatuses(), session.Status)
	}
}

func TestListSessionsByStatusLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 10; i++ {
		session := &types.Session{
			ID:     fmt.Sprintf("sess-%02d", i),
			Status: types.SessionStatusUploading,
		}
		require.NoError(t, store.CreateSession(session))
	}

	limited, err := store.ListSessionsByStatus(types.ActiveStatuses(), 4)
	require.NoError(t, err)
	assert.Len(t, limited, 4)

	all, err := store.ListSessionsByStatus(types.ActiveStatuses(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func TestHashtagTemplatePersistence(t *testing.T) {
	store := newTestStore(t)

	template := &types.HashtagTemplate{
		ID:           "tpl-1",
		Name:         "dating-default",
		BaseHashtags: []string{"#dating", "#love"},
		CreatedAt:    time.Now().UTC(),
	}

	require.NoError(t, store.CreateHashtagTemplate(template))

	template.GeneratedVariations = append(template.GeneratedVariations, []string{"#single", "#romance"})
	template.UsageCount++
	require.NoError(t, store.UpdateHashtagTemplate(template))

	got, err := store.GetHashtagTemplate("tpl-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsageCount)
	require.Len(t, got.GeneratedVariations, 1)
	assert.Equal(t, []string{"#single", "#romance"}, got.GeneratedVariations[0])

	templates, err := store.ListHashtagTemplates()
	require.NoError(t, err)
	assert.Len(t, templates, 1)
}

func TestVideoUsageCounters(t *testing.T) {
	store := newTestStore(t)

	video := &types.Video{
		ID:           "vid-1",
		Filename:     "vid-1.mp4",
		OriginalName: "clip.mp4",
		FilePath:     "/videos/vid-1.mp4",
		FileSize:     1024,
	}
	require.NoError(t, store.CreateVideo(video))

	now := time.Now().UTC()
	video.UploadCount++
	video.LastUsed = &now
	require.NoError(t, store.UpdateVideo(video))

	got, err := store.GetVideo("vid-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.UploadCount)
	require.NotNil(t, got.LastUsed)
}
