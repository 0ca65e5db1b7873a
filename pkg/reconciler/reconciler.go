package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/carouselhq/carousel/pkg/device"
	"github.com/carouselhq/carousel/pkg/events"
	"github.com/carouselhq/carousel/pkg/hashtag"
	"github.com/carouselhq/carousel/pkg/log"
	"github.com/carouselhq/carousel/pkg/manager"
	"github.com/carouselhq/carousel/pkg/metrics"
	"github.com/carouselhq/carousel/pkg/types"
)

const (
	// DefaultPollInterval is the fixed delay between passes. It is measured
	// from the end of one pass to the start of the next, not tick-aligned,
	// so a slow pass never causes overlapping work.
	DefaultPollInterval = 30 * time.Second

	// DefaultErrorBackoff replaces the poll interval after a pass-level
	// failure (typically the store being unreadable).
	DefaultErrorBackoff = 60 * time.Second

	// DefaultBatchSize caps how many active sessions one pass picks up.
	DefaultBatchSize = 100
)

// Options tunes the reconciliation loop. Zero values take the defaults.
type Options struct {
	PollInterval time.Duration
	ErrorBackoff time.Duration
	BatchSize    int
}

// Reconciler drives every active session through its upload-wait-delete
// cycle. It is the only component that talks to the device driver, and it
// processes sessions strictly one at a time because the phone is a single
// exclusive resource.
type Reconciler struct {
	manager  *manager.Manager
	driver   device.Driver
	hashtags *hashtag.Source

	pollInterval time.Duration
	errorBackoff time.Duration
	batchSize    int

	stopCh chan struct{}
	doneCh chan struct{}

	// nowFn stands in for time.Now so tests can control the clock
	nowFn func() time.Time
}

// NewReconciler creates a reconciler over the given manager, driver and
// hashtag source
func NewReconciler(mgr *manager.Manager, drv device.Driver, tags *hashtag.Source, opts Options) *Reconciler {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.ErrorBackoff <= 0 {
		opts.ErrorBackoff = DefaultErrorBackoff
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	return &Reconciler{
		manager:      mgr,
		driver:       drv,
		hashtags:     tags,
		pollInterval: opts.PollInterval,
		errorBackoff: opts.ErrorBackoff,
		batchSize:    opts.BatchSize,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		nowFn:        time.Now,
	}
}

// Start begins the reconciliation loop
func (r *Reconciler) Start() {
	go r.run()
}

// Stop stops the reconciler and waits for the current pass to finish
func (r *Reconciler) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

func (r *Reconciler) run() {
	defer close(r.doneCh)
	logger := log.WithComponent("reconciler")
	ctx := context.Background()

	for {
		delay := r.pollInterval
		if err := r.reconcile(ctx); err != nil {
			logger.Error().Err(err).Msg("reconcile pass failed")
			metrics.ReconcileErrorsTotal.Inc()
			delay = r.errorBackoff
		}

		select {
		case <-r.stopCh:
			return
		case <-time.After(delay):
		}
	}
}

// reconcile performs one pass over the active sessions. A returned error
// means the pass itself could not run; per-session failures are absorbed
// by pausing the session and never abort the pass.
func (r *Reconciler) reconcile(ctx context.Context) error {
	timer := metrics.NewTimer()
	defer func() {
		timer.ObserveDuration(metrics.ReconcileDuration)
		metrics.ReconcilePassesTotal.Inc()
	}()

	sessions, err := r.manager.ListActiveSessions(r.batchSize)
	if err != nil {
		return fmt.Errorf("failed to list active sessions: %w", err)
	}

	for _, session := range sessions {
		r.processSession(ctx, session)
	}

	return nil
}

// processSession dispatches one session to its phase handler. Any error or
// panic pauses the session so it stops consuming device time until an
// operator resumes it.
func (r *Reconciler) processSession(ctx context.Context, session *types.Session) {
	defer func() {
		if rec := recover(); rec != nil {
			r.pauseSession(session, fmt.Sprintf("internal error: %v", rec))
		}
	}()

	var err error
	switch session.Status {
	case types.SessionStatusUploading:
		err = r.handleUploading(ctx, session)
	case types.SessionStatusWaiting:
		err = r.handleWaiting(session)
	case types.SessionStatusDeleting:
		err = r.handleDeleting(ctx, session)
	default:
		// idle, completed and paused sessions are never returned by the
		// active-session query; seeing one here means nothing to do
		return
	}

	if err != nil {
		r.pauseSession(session, err.Error())
	}
}

// handleUploading uploads the next video, or moves the session to waiting
// once the target count is reached.
func (r *Reconciler) handleUploading(ctx context.Context, session *types.Session) error {
	if session.VideosUploaded >= session.TargetUploads {
		wait := time.Duration(session.WaitDurationMinutes) * time.Minute
		next := r.nowFn().Add(wait)
		session.NextActionAt = &next
		return r.manager.TransitionSession(session, types.SessionStatusWaiting,
			fmt.Sprintf("All %d videos uploaded, waiting %d minutes before deletion",
				session.VideosUploaded, session.WaitDurationMinutes))
	}

	return r.uploadVideo(ctx, session)
}

// handleWaiting checks the deletion timer. A session that reaches waiting
// without a timer proceeds straight to deletion rather than sitting in the
// active set forever.
func (r *Reconciler) handleWaiting(session *types.Session) error {
	if session.NextActionAt != nil && r.nowFn().Before(*session.NextActionAt) {
		return nil
	}

	session.NextActionAt = nil
	return r.manager.TransitionSession(session, types.SessionStatusDeleting,
		"Wait period over, starting deletion")
}

// handleDeleting removes the uploaded videos and then either restarts the
// cycle or completes the session.
func (r *Reconciler) handleDeleting(ctx context.Context, session *types.Session) error {
	if err := r.deleteVideos(ctx, session); err != nil {
		metrics.DeletionsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.DeletionsTotal.WithLabelValues("success").Inc()

	completed := session.CurrentCycle + 1

	if session.AutoRestart && (session.TotalCycles == nil || completed < *session.TotalCycles) {
		session.CurrentCycle = completed
		session.VideosUploaded = 0
		session.NextActionAt = nil
		if err := r.manager.TransitionSession(session, types.SessionStatusUploading,
			fmt.Sprintf("Cycle %d complete, starting cycle %d", completed, completed+1)); err != nil {
			return err
		}
		r.manager.PublishEvent(&events.Event{
			Type:      events.EventCycleRestarted,
			SessionID: session.ID,
			AccountID: session.AccountID,
			Message:   fmt.Sprintf("starting cycle %d", completed+1),
		})
		return nil
	}

	return r.manager.TransitionSession(session, types.SessionStatusCompleted,
		fmt.Sprintf("Session completed after %d cycle(s)", completed))
}

// uploadVideo performs one upload for the session and records it across
// the session, account and video records. Driver failures here are
// transient by contract: they are logged and the session stays in
// uploading so the next pass retries, with no counters changed.
func (r *Reconciler) uploadVideo(ctx context.Context, session *types.Session) error {
	logger := log.WithSessionID(session.ID)

	// A missing account or video is not fatal: the operator may still be
	// filling in the records. Leave the session untouched and retry on the
	// next pass.
	account, err := r.manager.GetAccount(session.AccountID)
	if err != nil {
		logger.Warn().Str("account_id", session.AccountID).Err(err).
			Msg("account not found, will retry")
		return nil
	}
	video, err := r.manager.GetVideo(session.VideoID)
	if err != nil {
		logger.Warn().Str("video_id", session.VideoID).Err(err).
			Msg("video not found, will retry")
		return nil
	}

	if err := r.ensureConnected(ctx); err != nil {
		logger.Warn().Err(err).Msg("device unavailable, will retry upload")
		return nil
	}

	if err := r.driver.SwitchAccount(ctx, account.Username); err != nil {
		metrics.DriverErrorsTotal.WithLabelValues("switch_account").Inc()
		logger.Warn().Str("username", account.Username).Err(err).
			Msg("account switch failed, will retry upload")
		return nil
	}

	req := device.UploadRequest{
		VideoPath:   video.FilePath,
		Description: video.DescriptionTemplate,
		Hashtags:    r.hashtags.ForUpload(ctx),
	}
	if err := r.driver.UploadVideo(ctx, req); err != nil {
		metrics.UploadsTotal.WithLabelValues("failure").Inc()
		metrics.DriverErrorsTotal.WithLabelValues("upload_video").Inc()
		r.manager.PublishEvent(&events.Event{
			Type:      events.EventUploadFailed,
			SessionID: session.ID,
			AccountID: session.AccountID,
			Message:   err.Error(),
		})
		logger.Warn().Err(err).Msg("upload failed, will retry")
		return nil
	}
	metrics.UploadsTotal.WithLabelValues("success").Inc()

	session.VideosUploaded++
	if err := r.manager.AppendSessionLog(session,
		fmt.Sprintf("Uploaded video %d/%d", session.VideosUploaded, session.TargetUploads)); err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}

	r.manager.PublishEvent(&events.Event{
		Type:      events.EventUploadSucceeded,
		SessionID: session.ID,
		AccountID: session.AccountID,
		Message:   fmt.Sprintf("uploaded video %d/%d", session.VideosUploaded, session.TargetUploads),
	})

	// Account and video counters are independent of the session record; a
	// failed write here costs a stale counter, not a broken cycle.
	account.VideosUploadedToday++
	account.TotalVideosUploaded++
	if err := r.manager.UpdateAccount(account); err != nil {
		logger.Warn().Err(err).Msg("failed to update account counters")
	}

	now := r.nowFn()
	video.UploadCount++
	video.LastUsed = &now
	if err := r.manager.UpdateVideo(video); err != nil {
		logger.Warn().Err(err).Msg("failed to update video counters")
	}

	return nil
}

// deleteVideos removes everything the session uploaded this cycle. Zero
// uploads is a trivial success; otherwise at least one video must actually
// come down for the deletion to count.
func (r *Reconciler) deleteVideos(ctx context.Context, session *types.Session) error {
	count := session.VideosUploaded
	if count == 0 {
		return nil
	}

	if err := r.ensureConnected(ctx); err != nil {
		return err
	}

	deleted, err := r.driver.DeleteRecentVideos(ctx, count)
	if err != nil {
		metrics.DriverErrorsTotal.WithLabelValues("delete_recent").Inc()
		return fmt.Errorf("deletion failed: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("no videos were deleted (requested %d)", count)
	}

	if err := r.manager.AppendSessionLog(session,
		fmt.Sprintf("Deleted %d of %d videos", deleted, count)); err != nil {
		return fmt.Errorf("failed to record deletion: %w", err)
	}

	r.manager.PublishEvent(&events.Event{
		Type:      events.EventVideosDeleted,
		SessionID: session.ID,
		AccountID: session.AccountID,
		Message:   fmt.Sprintf("deleted %d video(s)", deleted),
	})

	return nil
}

func (r *Reconciler) ensureConnected(ctx context.Context) error {
	if r.driver.IsConnected() {
		return nil
	}
	if err := r.driver.Connect(ctx); err != nil {
		metrics.DriverErrorsTotal.WithLabelValues("connect").Inc()
		return fmt.Errorf("failed to connect to device: %w", err)
	}
	r.manager.PublishEvent(&events.Event{
		Type:    events.EventDeviceConnected,
		Message: "device automation session established",
	})
	return nil
}

func (r *Reconciler) pauseSession(session *types.Session, reason string) {
	metrics.SessionsPausedTotal.Inc()
	// A paused session has no pending timer; resume derives its phase
	// from the counters.
	session.NextActionAt = nil
	if err := r.manager.TransitionSession(session, types.SessionStatusPaused,
		fmt.Sprintf("Paused: %s", reason)); err != nil {
		logger := log.WithSessionID(session.ID)
		logger.Error().Err(err).Msg("failed to pause session")
	}
}
