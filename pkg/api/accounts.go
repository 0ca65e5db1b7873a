package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carouselhq/carousel/pkg/types"
)

type accountRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.manager.ListAccounts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]accountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountDTO(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	if existing, err := s.manager.GetAccountByUsername(req.Username); err == nil && existing != nil {
		writeError(w, http.StatusConflict, "username already exists")
		return
	}

	status := types.AccountStatusActive
	if req.Status != "" {
		status = types.AccountStatus(req.Status)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid account status")
			return
		}
	}

	account := &types.Account{
		ID:          uuid.New().String(),
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Status:      status,
		Notes:       req.Notes,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.manager.CreateAccount(account); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(account))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.manager.GetAccount(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account))
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.manager.GetAccount(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	var req accountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username != "" {
		account.Username = req.Username
	}
	if req.DisplayName != "" {
		account.DisplayName = req.DisplayName
	}
	if req.Status != "" {
		status := types.AccountStatus(req.Status)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid account status")
			return
		}
		account.Status = status
	}
	if req.Notes != "" {
		account.Notes = req.Notes
	}

	if err := s.manager.UpdateAccount(account); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.DeleteAccount(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
