package service

import (
	"encoding/json"
	"expvar"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router собирает HTTP-маршруты сервера
func (s *KitchenService) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleWS)
	r.Get("/healthz", s.handleHealth)
	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", s.handleListRooms)
		r.Post("/", s.handleCreateRoom)
		r.Get("/{code}", s.handleGetRoom)
	})
	r.Handle("/debug/vars", expvar.Handler())
	return r
}

func (s *KitchenService) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.closing.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "stopping"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "rooms": s.rooms.Len()})
}

func (s *KitchenService) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.rooms.List())
}

func (s *KitchenService) handleCreateRoom(w http.ResponseWriter, _ *http.Request) {
	if s.closing.Load() {
		writeError(w, http.StatusServiceUnavailable, errShuttingDown.Error())
		return
	}
	rm := s.rooms.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"code": rm.Code})
}

func (s *KitchenService) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.rooms.Get(chi.URLParam(r, "code"))
	if !ok {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, rm.Info())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
