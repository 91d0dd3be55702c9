package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vidroom/server/pkg/rest"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", c.healthz)

		r.Route("/ws/room", func(r chi.Router) {
			r.Get("/create", c.createRoom)
			r.Get("/{room-id}/join", c.joinRoom)
		})
	})

	if c.staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(c.staticDir)))
	}

	return r
}

func (c controller) healthz(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"status": "ok",
		"rooms":  c.roomService.RoomCount(r.Context()),
	})
}
