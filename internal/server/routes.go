package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"p2p_market/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			// unauthorized zone
			r.Route("/market/{side}", func(r chi.Router) {
				r.Get("/", handler(s.getV1Market))
				r.Get("/statistics", handler(s.getV1MarketStatistics))
				r.Get("/projection", handler(s.getV1MarketProjection))
				r.Post("/projection", handler(s.postV1MarketProjection))
				r.Post("/refresh", handler(s.postV1MarketRefresh))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
