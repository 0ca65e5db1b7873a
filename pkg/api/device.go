package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carouselhq/carousel/pkg/device"
	"github.com/carouselhq/carousel/pkg/types"
)

type deviceStatusResponse struct {
	Connected bool              `json:"connected"`
	Info      *types.DeviceInfo `json:"info,omitempty"`
}

func (s *Server) handleDeviceStatus(w http.ResponseWriter, r *http.Request) {
	resp := deviceStatusResponse{Connected: s.driver.IsConnected()}
	if resp.Connected {
		if info, err := s.driver.DeviceInfo(r.Context()); err == nil {
			resp.Info = info
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeviceConnect(w http.ResponseWriter, r *http.Request) {
	if err := s.driver.Connect(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"connected": true})
}

func (s *Server) handleDeviceDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.driver.Disconnect(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"connected": false})
}

func (s *Server) handleDeviceVPN(w http.ResponseWriter, r *http.Request) {
	action := device.VPNAction(chi.URLParam(r, "action"))
	switch action {
	case device.VPNConnect, device.VPNDisconnect:
	default:
		writeError(w, http.StatusBadRequest, "action must be connect or disconnect")
		return
	}

	if err := s.driver.VPN(r.Context(), action); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"vpn": string(action)})
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	path, err := s.driver.Screenshot(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}
