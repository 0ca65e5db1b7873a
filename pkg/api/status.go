package api

import (
	"net/http"

	"github.com/carouselhq/carousel/pkg/types"
)

type statusResponse struct {
	DeviceConnected bool           `json:"device_connected"`
	Accounts        int            `json:"accounts"`
	Videos          int            `json:"videos"`
	Sessions        map[string]int `json:"sessions"`
	ActiveSessions  int            `json:"active_sessions"`
}

// handleStatus gives the frontend one call to render the dashboard header
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.manager.ListAccounts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	videos, err := s.manager.ListVideos()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sessions, err := s.manager.ListSessions()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	byStatus := make(map[string]int)
	active := 0
	for _, sess := range sessions {
		byStatus[string(sess.Status)]++
		switch sess.Status {
		case types.SessionStatusUploading, types.SessionStatusWaiting, types.SessionStatusDeleting:
			active++
		}
	}

	writeJSON(w, http.StatusOK, statusResponse{
		DeviceConnected: s.driver.IsConnected(),
		Accounts:        len(accounts),
		Videos:          len(videos),
		Sessions:        byStatus,
		ActiveSessions:  active,
	})
}
