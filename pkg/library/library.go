package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carouselhq/carousel/pkg/log"
	"github.com/carouselhq/carousel/pkg/manager"
	"github.com/carouselhq/carousel/pkg/types"
)

// mediaExtensions lists the file types the intake registers. Anything else
// dropped into the videos directory is ignored.
var mediaExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".m4v": true,
}

// debounceInterval absorbs the write burst while a file is still being
// copied into the directory.
const debounceInterval = 500 * time.Millisecond

// Library keeps the video store in sync with a directory on disk. Files
// dropped into the directory become video records automatically, so an
// operator can stage uploads with a file copy instead of an API call.
type Library struct {
	manager *manager.Manager
	dir     string
	logger  zerolog.Logger

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	doneCh chan struct{}

	debounceMu     sync.Mutex
	debounceTimers map[string]*time.Timer
}

// NewLibrary creates a library over the given directory, creating it if
// needed
func NewLibrary(mgr *manager.Manager, dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create videos directory: %w", err)
	}

	return &Library{
		manager:        mgr,
		dir:            dir,
		logger:         log.WithComponent("library"),
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
		debounceTimers: make(map[string]*time.Timer),
	}, nil
}

// Scan registers every media file already present in the directory that
// the store does not know about yet.
func (l *Library) Scan() error {
	known, err := l.knownPaths()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("failed to read videos directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		if !isMediaFile(path) || known[path] {
			continue
		}
		if err := l.register(path); err != nil {
			l.logger.Warn().Str("path", path).Err(err).
				Msg("failed to register video")
		}
	}

	return nil
}

// Start performs an initial scan and then watches the directory for new
// files until Stop is called.
func (l *Library) Start() error {
	if err := l.Scan(); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(l.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch videos directory: %w", err)
	}
	l.fsw = fsw

	l.logger.Info().Str("dir", l.dir).Msg("watching videos directory")
	go l.processEvents()
	return nil
}

// Stop stops the watcher and waits for the event loop to exit
func (l *Library) Stop() {
	if l.fsw == nil {
		return
	}
	close(l.stopCh)
	l.fsw.Close()
	<-l.doneCh

	l.debounceMu.Lock()
	for _, timer := range l.debounceTimers {
		timer.Stop()
	}
	l.debounceTimers = nil
	l.debounceMu.Unlock()
}

func (l *Library) processEvents() {
	defer close(l.doneCh)

	for {
		select {
		case <-l.stopCh:
			return
		case event, ok := <-l.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isMediaFile(event.Name) {
				continue
			}
			l.debounce(event.Name)
		case err, ok := <-l.fsw.Errors:
			if !ok {
				return
			}
			l.logger.Error().Err(err).Msg("file watcher error")
		}
	}
}

// debounce coalesces the event burst a single file copy produces into one
// registration attempt.
func (l *Library) debounce(path string) {
	l.debounceMu.Lock()
	defer l.debounceMu.Unlock()

	if l.debounceTimers == nil {
		return
	}
	if timer, ok := l.debounceTimers[path]; ok {
		timer.Stop()
	}

	l.debounceTimers[path] = time.AfterFunc(debounceInterval, func() {
		l.debounceMu.Lock()
		delete(l.debounceTimers, path)
		l.debounceMu.Unlock()

		known, err := l.knownPaths()
		if err != nil {
			l.logger.Error().Err(err).Msg("failed to list videos")
			return
		}
		if known[path] {
			return
		}
		if err := l.register(path); err != nil {
			l.logger.Warn().Str("path", path).Err(err).
				Msg("failed to register video")
		}
	})
}

func (l *Library) register(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	video := &types.Video{
		ID:           uuid.New().String(),
		Filename:     filepath.Base(path),
		OriginalName: filepath.Base(path),
		FilePath:     path,
		FileSize:     info.Size(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := l.manager.CreateVideo(video); err != nil {
		return err
	}

	l.logger.Info().
		Str("video_id", video.ID).
		Str("filename", video.Filename).
		Int64("size", video.FileSize).
		Msg("registered video")
	return nil
}

func (l *Library) knownPaths() (map[string]bool, error) {
	videos, err := l.manager.ListVideos()
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	known := make(map[string]bool, len(videos))
	for _, v := range videos {
		known[v.FilePath] = true
	}
	return known, nil
}

func isMediaFile(path string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(path))]
}
