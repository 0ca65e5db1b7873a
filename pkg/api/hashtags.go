package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carouselhq/carousel/pkg/hashtag"
	"github.com/carouselhq/carousel/pkg/log"
	"github.com/carouselhq/carousel/pkg/types"
)

type generateRequest struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

type generateResponse struct {
	Hashtags []string `json:"hashtags"`
	Source   string   `json:"source"`
}

// handleGenerateHashtags asks the generator for fresh tags, falling back
// to the built-in list so the response is never empty.
func (s *Server) handleGenerateHashtags(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count <= 0 {
		req.Count = 20
	}
	if req.Theme == "" {
		req.Theme = "dating"
	}

	tags, err := s.generator.Generate(r.Context(), req.Theme, req.Count)
	source := "generated"
	if err != nil || len(tags) == 0 {
		if err != nil {
			logger := log.WithComponent("api")
			logger.Warn().Err(err).Msg("hashtag generation failed, using fallback")
		}
		tags = hashtag.Fallback(req.Count)
		source = "fallback"
	}
	writeJSON(w, http.StatusOK, generateResponse{Hashtags: tags, Source: source})
}

type templateRequest struct {
	Name         string   `json:"name"`
	BaseHashtags []string `json:"base_hashtags"`
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.manager.ListHashtagTemplates()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]templateDTO, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateDTO(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || len(req.BaseHashtags) == 0 {
		writeError(w, http.StatusBadRequest, "name and base_hashtags are required")
		return
	}

	template := &types.HashtagTemplate{
		ID:           uuid.New().String(),
		Name:         req.Name,
		BaseHashtags: req.BaseHashtags,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.manager.CreateHashtagTemplate(template); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toTemplateDTO(template))
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := s.manager.GetHashtagTemplate(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, toTemplateDTO(template))
}

type variationResponse struct {
	Hashtags []string `json:"hashtags"`
}

// handleTemplateVariation serves a fresh variation from the template,
// recording it so later variations avoid the same tags.
func (s *Server) handleTemplateVariation(w http.ResponseWriter, r *http.Request) {
	template, err := s.manager.GetHashtagTemplate(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	tags, err := s.hashtags.NewVariation(r.Context(), template)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, variationResponse{Hashtags: tags})
}
