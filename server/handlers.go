package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bnfm/core/service"
	"bnfm/logger"
)

type errorResponse struct {
	Message string `json:"message"`
}

// handleTrackList serves GET /api/v1/tracklist?limit=&lastTrack=&filterAds.
func (s *Server) handleTrackList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 1
	if v := q.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Limit has to be between 1 and 25"})
			return
		}
		limit = parsed
	}

	var lastTrack int64
	if v := q.Get("lastTrack"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			lastTrack = parsed
		}
	}

	_, filterAds := q["filterAds"]

	page, err := s.svc.GetTrackList(r.Context(), limit, filterAds, lastTrack)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLimit) {
			respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Limit has to be between 1 and 25"})
			return
		}
		logger.Error("getting track list", logger.ErrorField(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "Error obtaining the track list"})
		return
	}

	respondJSON(w, http.StatusOK, page)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("encoding response", logger.ErrorField(err))
	}
}
