package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"enemyintel/internal/service"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Health())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Search(r.URL.Query().Get("q"), level(r)))
}

// handleEnemy blocks on advice unless async=true, in which case a miss
// answers "pending" and the advice lands in the cache later.
func (s *Server) handleEnemy(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	location := r.URL.Query().Get("location")

	if r.URL.Query().Get("async") == "true" {
		view, _, ok := s.svc.EnemyAsync(name, location, level(r))
		if !ok {
			writeError(w, http.StatusNotFound, "Enemy not found")
			return
		}
		writeJSON(w, http.StatusOK, view)
		return
	}

	view, ok := s.svc.Enemy(r.Context(), name, location, level(r))
	if !ok {
		writeError(w, http.StatusNotFound, "Enemy not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	view, ok := s.svc.Region(r.Context(), r.PathValue("region"), level(r))
	if !ok {
		writeError(w, http.StatusNotFound, "Region not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRegionEnemies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.RegionEnemies(r.PathValue("region"), level(r)))
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	view, ok := s.svc.Columns(level(r))
	if !ok {
		writeError(w, http.StatusNotFound, "NG level not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Reload())
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	cov, ok := s.svc.CacheStats(level(r))
	if !ok {
		writeError(w, http.StatusNotFound, "NG level not found")
		return
	}
	writeJSON(w, http.StatusOK, cov)
}

type updateRequest struct {
	EnemyName string `json:"enemy_name"`
	Location  string `json:"location"`
	Strategy  string `json:"strategy"`
}

type updateResponse struct {
	Status string `json:"status"`
	service.CacheEntry
}

func (s *Server) handleCacheUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	entry, err := s.svc.CacheUpdate(r.Context(), req.EnemyName, req.Location, req.Strategy)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "enemy_name and strategy are required")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to persist strategy")
	default:
		writeJSON(w, http.StatusOK, updateResponse{Status: "updated", CacheEntry: entry})
	}
}

func (s *Server) handleCacheDebug(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.CacheDebug())
}

func (s *Server) handleCacheView(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.svc.CacheView(r.PathValue("name"), r.URL.Query().Get("location"))
	if !ok {
		writeError(w, http.StatusNotFound, "No cached strategy found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
