package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carouselhq/carousel/pkg/types"
)

type sessionRequest struct {
	AccountID           string `json:"account_id"`
	VideoID             string `json:"video_id"`
	TargetUploads       int    `json:"target_uploads"`
	WaitDurationMinutes int    `json:"wait_duration_minutes"`
	TotalCycles         *int   `json:"total_cycles"`
	AutoRestart         bool   `json:"auto_restart"`
}

type sessionActionRequest struct {
	Action string `json:"action"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.manager.ListSessions()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]sessionDTO, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, toSessionDTO(sess))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateSession validates the referenced account and video, then
// creates the session directly in the uploading phase so the next
// reconcile pass picks it up.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetUploads <= 0 {
		writeError(w, http.StatusBadRequest, "target_uploads must be positive")
		return
	}
	if req.WaitDurationMinutes < 0 {
		writeError(w, http.StatusBadRequest, "wait_duration_minutes must not be negative")
		return
	}
	if req.TotalCycles != nil && *req.TotalCycles <= 0 {
		writeError(w, http.StatusBadRequest, "total_cycles must be positive")
		return
	}
	if _, err := s.manager.GetAccount(req.AccountID); err != nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if _, err := s.manager.GetVideo(req.VideoID); err != nil {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}

	now := time.Now().UTC()
	session := &types.Session{
		ID:                  uuid.New().String(),
		AccountID:           req.AccountID,
		VideoID:             req.VideoID,
		Status:              types.SessionStatusUploading,
		TargetUploads:       req.TargetUploads,
		WaitDurationMinutes: req.WaitDurationMinutes,
		TotalCycles:         req.TotalCycles,
		AutoRestart:         req.AutoRestart,
		StartTime:           &now,
		CreatedAt:           now,
		Logs:                []string{fmt.Sprintf("%s: Session created", now.Format(time.RFC3339))},
	}
	if err := s.manager.CreateSession(session); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toSessionDTO(session))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.manager.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(session))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.DeleteSession(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleSessionAction pauses, resumes or stops a session. Resume puts the
// session back into the phase its counters imply rather than blindly
// restarting uploads.
func (s *Server) handleSessionAction(w http.ResponseWriter, r *http.Request) {
	session, err := s.manager.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req sessionActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case "pause":
		if session.Status == types.SessionStatusCompleted {
			writeError(w, http.StatusConflict, "session already completed")
			return
		}
		// paused sessions carry no pending timer
		session.NextActionAt = nil
		err = s.manager.TransitionSession(session, types.SessionStatusPaused, "Paused by operator")

	case "resume":
		if session.Status != types.SessionStatusPaused {
			writeError(w, http.StatusConflict, "session is not paused")
			return
		}
		err = s.manager.TransitionSession(session, resumePhase(session), "Resumed by operator")

	case "stop":
		err = s.manager.TransitionSession(session, types.SessionStatusCompleted, "Stopped by operator")

	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown action %q", req.Action))
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(session))
}

// resumePhase picks where a paused session should continue. Pausing
// clears the deletion timer, so the counters alone decide: a full batch
// resumes in waiting, where the reconciler proceeds to deletion on the
// next pass; anything else resumes uploading.
func resumePhase(session *types.Session) types.SessionStatus {
	if session.VideosUploaded >= session.TargetUploads && session.VideosUploaded > 0 {
		return types.SessionStatusWaiting
	}
	return types.SessionStatusUploading
}

type nextActionResponse struct {
	Status           string     `json:"status"`
	NextActionAt     *time.Time `json:"next_action_at,omitempty"`
	SecondsRemaining *int64     `json:"seconds_remaining,omitempty"`
}

// handleNextAction reports when the reconciler will act on the session
// next, so the frontend can show a countdown.
func (s *Server) handleNextAction(w http.ResponseWriter, r *http.Request) {
	session, err := s.manager.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	resp := nextActionResponse{
		Status:       string(session.Status),
		NextActionAt: session.NextActionAt,
	}
	if session.NextActionAt != nil {
		remaining := int64(time.Until(*session.NextActionAt).Seconds())
		if remaining < 0 {
			remaining = 0
		}
		resp.SecondsRemaining = &remaining
	}
	writeJSON(w, http.StatusOK, resp)
}
