package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carouselhq/carousel/pkg/types"
)

// maxUploadBytes caps inbound video uploads at 500MB
const maxUploadBytes = 500 << 20

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.manager.ListVideos()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]videoDTO, 0, len(videos))
	for _, v := range videos {
		out = append(out, toVideoDTO(v))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleUploadVideo accepts a multipart upload and stores the file in the
// videos directory under a fresh name, keeping the original for display.
func (s *Server) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".mp4", ".mov", ".avi", ".m4v":
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type %s", ext))
		return
	}

	id := uuid.New().String()
	filename := id + ext
	path := filepath.Join(s.videosDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	size, err := io.Copy(dst, file)
	dst.Close()
	if err != nil {
		os.Remove(path)
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	video := &types.Video{
		ID:                  id,
		Filename:            filename,
		OriginalName:        header.Filename,
		FilePath:            path,
		FileSize:            size,
		DescriptionTemplate: r.FormValue("description"),
		CreatedAt:           time.Now().UTC(),
	}
	if tags := r.FormValue("hashtags"); tags != "" {
		video.Hashtags = strings.Fields(tags)
	}

	if err := s.manager.CreateVideo(video); err != nil {
		os.Remove(path)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toVideoDTO(video))
}

func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := s.manager.GetVideo(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	writeJSON(w, http.StatusOK, toVideoDTO(video))
}

// handleDeleteVideo removes the record and the backing file. A missing
// file is not an error; the record is the source of truth.
func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	video, err := s.manager.GetVideo(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	if err := s.manager.DeleteVideo(video.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if video.FilePath != "" {
		_ = os.Remove(video.FilePath)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
