package reconciler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carouselhq/carousel/pkg/device"
	"github.com/carouselhq/carousel/pkg/hashtag"
	"github.com/carouselhq/carousel/pkg/manager"
	"github.com/carouselhq/carousel/pkg/storage"
	"github.com/carouselhq/carousel/pkg/types"
)

// fakeDriver records calls and fails on demand
type fakeDriver struct {
	mu          sync.Mutex
	connected   bool
	connectErr  error
	switchErr   error
	uploadErr   error
	deleteErr   error
	deleteCount func(requested int) int
	uploads     []device.UploadRequest
	switched    []string
	deleteReqs  []int
}

func (d *fakeDriver) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.connectErr != nil {
		return d.connectErr
	}
	d.connected = true
	return nil
}

func (d *fakeDriver) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = false
	return nil
}

func (d *fakeDriver) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

func (d *fakeDriver) SwitchAccount(ctx context.Context, username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.switchErr != nil {
		return d.switchErr
	}
	d.switched = append(d.switched, username)
	return nil
}

func (d *fakeDriver) UploadVideo(ctx context.Context, req device.UploadRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.uploadErr != nil {
		return d.uploadErr
	}
	d.uploads = append(d.uploads, req)
	return nil
}

func (d *fakeDriver) DeleteRecentVideos(ctx context.Context, count int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.deleteErr != nil {
		return 0, d.deleteErr
	}
	d.deleteReqs = append(d.deleteReqs, count)
	if d.deleteCount != nil {
		return d.deleteCount(count), nil
	}
	return count, nil
}

func (d *fakeDriver) VPN(ctx context.Context, action device.VPNAction) error { return nil }

func (d *fakeDriver) Screenshot(ctx context.Context) (string, error) { return "", nil }

func (d *fakeDriver) DeviceInfo(ctx context.Context) (*types.DeviceInfo, error) {
	return &types.DeviceInfo{DeviceName: "fake"}, nil
}

// errGenerator always fails, forcing the hashtag source onto its fallback
type errGenerator struct{}

func (errGenerator) Generate(ctx context.Context, theme string, count int) ([]string, error) {
	return nil, errors.New("generator unavailable")
}

type fixture struct {
	rec *Reconciler
	mgr *manager.Manager
	drv *fakeDriver
	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)

	mgr := manager.NewManager(store)
	t.Cleanup(func() { _ = mgr.Shutdown() })

	drv := &fakeDriver{}
	tags := hashtag.NewSource(store, errGenerator{}, "dating")

	f := &fixture{
		rec: NewReconciler(mgr, drv, tags, Options{}),
		mgr: mgr,
		drv: drv,
		now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.rec.nowFn = func() time.Time { return f.now }
	return f
}

func (f *fixture) tick(t *testing.T) {
	t.Helper()
	require.NoError(t, f.rec.reconcile(context.Background()))
}

func (f *fixture) seedSession(t *testing.T, mutate func(*types.Session)) *types.Session {
	t.Helper()

	account := &types.Account{
		ID:       "acc-1",
		Username: "tester",
		Status:   types.AccountStatusActive,
	}
	if _, err := f.mgr.GetAccount(account.ID); err != nil {
		require.NoError(t, f.mgr.CreateAccount(account))
	}

	video := &types.Video{
		ID:                  "vid-1",
		Filename:            "clip.mp4",
		FilePath:            "/videos/clip.mp4",
		DescriptionTemplate: "check this out",
	}
	if _, err := f.mgr.GetVideo(video.ID); err != nil {
		require.NoError(t, f.mgr.CreateVideo(video))
	}

	session := &types.Session{
		ID:                  "sess-1",
		AccountID:           account.ID,
		VideoID:             video.ID,
		Status:              types.SessionStatusUploading,
		TargetUploads:       3,
		WaitDurationMinutes: 30,
	}
	if mutate != nil {
		mutate(session)
	}
	require.NoError(t, f.mgr.CreateSession(session))
	return session
}

func (f *fixture) reload(t *testing.T, id string) *types.Session {
	t.Helper()
	session, err := f.mgr.GetSession(id)
	require.NoError(t, err)
	return session
}

func TestUploadingUploadsOneVideoPerPass(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, nil)

	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusUploading, session.Status)
	assert.Equal(t, 1, session.VideosUploaded)
	require.Len(t, f.drv.uploads, 1)
	assert.Equal(t, "/videos/clip.mp4", f.drv.uploads[0].VideoPath)
	assert.Equal(t, []string{"tester"}, f.drv.switched)

	f.tick(t)
	assert.Equal(t, 2, f.reload(t, "sess-1").VideosUploaded)
}

func TestUploadAlwaysCarriesHashtags(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, nil)

	f.tick(t)

	require.Len(t, f.drv.uploads, 1)
	assert.NotEmpty(t, f.drv.uploads[0].Hashtags)
	for _, tag := range f.drv.uploads[0].Hashtags {
		assert.True(t, strings.HasPrefix(tag, "#"), "tag %q missing # prefix", tag)
	}
}

func TestTargetReachedMovesToWaitingWithTimer(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, func(s *types.Session) {
		s.VideosUploaded = 3
	})

	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusWaiting, session.Status)
	assert.Equal(t, 3, session.VideosUploaded)
	require.NotNil(t, session.NextActionAt)
	assert.Equal(t, f.now.Add(30*time.Minute), session.NextActionAt.UTC())
	assert.Empty(t, f.drv.uploads)
}

func TestWaitingHoldsUntilTimerElapses(t *testing.T) {
	f := newFixture(t)
	deadline := f.now.Add(10 * time.Minute)
	f.seedSession(t, func(s *types.Session) {
		s.Status = types.SessionStatusWaiting
		s.VideosUploaded = 3
		s.NextActionAt = &deadline
	})

	f.tick(t)
	assert.Equal(t, types.SessionStatusWaiting, f.reload(t, "sess-1").Status)

	f.now = deadline
	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusDeleting, session.Status)
	assert.Nil(t, session.NextActionAt)
}

func TestWaitingWithoutTimerProceedsToDeletion(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, func(s *types.Session) {
		s.Status = types.SessionStatusWaiting
		s.VideosUploaded = 3
		s.NextActionAt = nil
	})

	f.tick(t)

	assert.Equal(t, types.SessionStatusDeleting, f.reload(t, "sess-1").Status)
}

func TestDeletingCompletesSession(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, func(s *types.Session) {
		s.Status = types.SessionStatusDeleting
		s.VideosUploaded = 3
	})

	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusCompleted, session.Status)
	assert.Equal(t, 0, session.CurrentCycle)
	require.NotNil(t, session.CompletionTime)
	assert.Equal(t, []int{3}, f.drv.deleteReqs)
}

func TestDeletingWithZeroUploadsIsTrivialSuccess(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, func(s *types.Session) {
		s.Status = types.SessionStatusDeleting
		s.VideosUploaded = 0
	})

	f.tick(t)

	assert.Equal(t, types.SessionStatusCompleted, f.reload(t, "sess-1").Status)
	assert.Empty(t, f.drv.deleteReqs)
}

func TestPartialDeletionStillCounts(t *testing.T) {
	f := newFixture(t)
	f.drv.deleteCount = func(requested int) int { return requested - 1 }
	f.seedSession(t, func(s *types.Session) {
		s.Status = types.SessionStatusDeleting
		s.VideosUploaded = 3
	})

	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusCompleted, session.Status)
	assert.Contains(t, strings.Join(session.Logs, "\n"), "Deleted 2 of 3 videos")
}

func TestZeroDeletionsIsFailure(t *testing.T) {
	f := newFixture(t)
	f.drv.deleteCount = func(requested int) int { return 0 }
	f.seedSession(t, func(s *types.Session) {
		s.Status = types.SessionStatusDeleting
		s.VideosUploaded = 3
	})

	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusPaused, session.Status)
	assert.Contains(t, strings.Join(session.Logs, "\n"), "no videos were deleted")
}

func TestDeletionErrorPausesSession(t *testing.T) {
	f := newFixture(t)
	f.drv.deleteErr = errors.New("app crashed")
	f.seedSession(t, func(s *types.Session) {
		s.Status = types.SessionStatusDeleting
		s.VideosUploaded = 2
		// auto-restart must not rescue a failed deletion
		s.AutoRestart = true
	})

	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusPaused, session.Status)
	assert.Contains(t, strings.Join(session.Logs, "\n"), "app crashed")
}

func TestPausingClearsStaleTimer(t *testing.T) {
	f := newFixture(t)
	f.drv.deleteErr = errors.New("app crashed")
	stale := f.now.Add(-time.Minute)
	f.seedSession(t, func(s *types.Session) {
		s.Status = types.SessionStatusDeleting
		s.VideosUploaded = 2
		s.NextActionAt = &stale
	})

	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusPaused, session.Status)
	assert.Nil(t, session.NextActionAt)
}

func TestUploadErrorRetriesNextPass(t *testing.T) {
	f := newFixture(t)
	f.drv.uploadErr = errors.New("upload button not found")
	f.seedSession(t, nil)

	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusUploading, session.Status)
	assert.Equal(t, 0, session.VideosUploaded)

	// the fault clears and the next pass picks up where it left off
	f.drv.uploadErr = nil
	f.tick(t)

	session = f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusUploading, session.Status)
	assert.Equal(t, 1, session.VideosUploaded)
}

func TestConnectErrorRetriesNextPass(t *testing.T) {
	f := newFixture(t)
	f.drv.connectErr = errors.New("automation host unreachable")
	f.seedSession(t, nil)

	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusUploading, session.Status)
	assert.Equal(t, 0, session.VideosUploaded)
	assert.Empty(t, f.drv.uploads)

	f.drv.connectErr = nil
	f.tick(t)
	assert.Equal(t, 1, f.reload(t, "sess-1").VideosUploaded)
}

func TestSwitchErrorRetriesNextPass(t *testing.T) {
	f := newFixture(t)
	f.drv.switchErr = errors.New("profile switcher missing")
	f.seedSession(t, nil)

	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusUploading, session.Status)
	assert.Equal(t, 0, session.VideosUploaded)
	assert.Empty(t, f.drv.uploads)
}

func TestMissingAccountRetriesWithoutStateChange(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, func(s *types.Session) {
		s.AccountID = "nonexistent"
	})

	f.tick(t)
	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusUploading, session.Status)
	assert.Equal(t, 0, session.VideosUploaded)
	assert.Empty(t, f.drv.uploads)
}

func TestMissingVideoRetriesWithoutStateChange(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, func(s *types.Session) {
		s.VideoID = "nonexistent"
	})

	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusUploading, session.Status)
	assert.Empty(t, f.drv.uploads)
}

func TestUploadUpdatesAccountAndVideoCounters(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, nil)

	f.tick(t)

	account, err := f.mgr.GetAccount("acc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, account.VideosUploadedToday)
	assert.Equal(t, 1, account.TotalVideosUploaded)

	video, err := f.mgr.GetVideo("vid-1")
	require.NoError(t, err)
	assert.Equal(t, 1, video.UploadCount)
	require.NotNil(t, video.LastUsed)
	assert.Equal(t, f.now, video.LastUsed.UTC())
}

func TestAutoRestartRunsConfiguredCycles(t *testing.T) {
	f := newFixture(t)
	total := 2
	f.seedSession(t, func(s *types.Session) {
		s.TargetUploads = 1
		s.WaitDurationMinutes = 0
		s.AutoRestart = true
		s.TotalCycles = &total
	})

	// cycle 1: upload, enter waiting, enter deleting, delete + restart
	f.tick(t)
	f.tick(t)
	f.tick(t)
	f.tick(t)

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusUploading, session.Status)
	assert.Equal(t, 1, session.CurrentCycle)
	assert.Equal(t, 0, session.VideosUploaded)
	assert.Nil(t, session.NextActionAt)
	assert.Contains(t, strings.Join(session.Logs, "\n"), "starting cycle 2")

	// cycle 2 ends the session
	f.tick(t)
	f.tick(t)
	f.tick(t)
	f.tick(t)

	session = f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusCompleted, session.Status)
	assert.Equal(t, 1, session.CurrentCycle)
	require.NotNil(t, session.CompletionTime)
	assert.Equal(t, []int{1, 1}, f.drv.deleteReqs)
}

func TestAutoRestartUnlimitedKeepsCycling(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, func(s *types.Session) {
		s.TargetUploads = 1
		s.WaitDurationMinutes = 0
		s.AutoRestart = true
		s.TotalCycles = nil
	})

	for i := 0; i < 12; i++ {
		f.tick(t)
	}

	session := f.reload(t, "sess-1")
	assert.Equal(t, types.SessionStatusUploading, session.Status)
	assert.Equal(t, 3, session.CurrentCycle)
}

func TestIdleAndPausedSessionsAreIgnored(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, func(s *types.Session) {
		s.Status = types.SessionStatusIdle
	})
	require.NoError(t, f.mgr.CreateSession(&types.Session{
		ID:        "sess-2",
		AccountID: "acc-1",
		VideoID:   "vid-1",
		Status:    types.SessionStatusPaused,
	}))

	f.tick(t)

	assert.Empty(t, f.drv.uploads)
	assert.Equal(t, types.SessionStatusIdle, f.reload(t, "sess-1").Status)
	assert.Equal(t, types.SessionStatusPaused, f.reload(t, "sess-2").Status)
}

func TestBatchLimitCapsOnePass(t *testing.T) {
	f := newFixture(t)
	f.rec.batchSize = 2
	f.seedSession(t, nil)
	for i := 2; i <= 4; i++ {
		require.NoError(t, f.mgr.CreateSession(&types.Session{
			ID:            fmt.Sprintf("sess-%d", i),
			AccountID:     "acc-1",
			VideoID:       "vid-1",
			Status:        types.SessionStatusUploading,
			TargetUploads: 3,
		}))
	}

	f.tick(t)

	assert.Len(t, f.drv.uploads, 2)
}

func TestSessionFailureDoesNotAbortPass(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, func(s *types.Session) {
		s.Status = types.SessionStatusDeleting
		s.VideosUploaded = 1
	})
	require.NoError(t, f.mgr.CreateSession(&types.Session{
		ID:            "sess-2",
		AccountID:     "acc-1",
		VideoID:       "vid-1",
		Status:        types.SessionStatusUploading,
		TargetUploads: 3,
	}))
	f.drv.deleteErr = errors.New("device busy")

	f.tick(t)

	assert.Equal(t, types.SessionStatusPaused, f.reload(t, "sess-1").Status)
	// the second session was still processed this pass
	assert.Equal(t, 1, f.reload(t, "sess-2").VideosUploaded)
}

func TestStartStopTerminatesCleanly(t *testing.T) {
	f := newFixture(t)
	f.rec.pollInterval = 10 * time.Millisecond

	f.rec.Start()
	time.Sleep(30 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		f.rec.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reconciler did not stop in time")
	}
}
