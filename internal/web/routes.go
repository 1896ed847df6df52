package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/memeforge/memeforge/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	memesHandler := handlers.NewMemesHandler(s.deps.Cache)
	swapHandler := handlers.NewSwapHandler(s.deps.Transformer)
	trendsHandler := handlers.NewTrendsHandler(s.deps.Fetcher, s.deps.Config.Trends.Subreddits)
	searchHandler := handlers.NewSearchHandler(s.deps.Search)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/memes", memesHandler.List)
		r.Post("/memes/regenerate", memesHandler.Regenerate)
		r.Get("/memes/status", memesHandler.Status)
		r.Delete("/memes", memesHandler.Invalidate)

		r.Get("/swap", swapHandler.Get)
		r.Post("/memes/custom", swapHandler.Custom)

		r.Get("/trends", trendsHandler.List)
		r.Get("/search", searchHandler.Get)
	})

	// Swapped images are written to the artifact directory and served
	// straight from disk.
	artifactServer := http.StripPrefix("/static/", http.FileServer(http.Dir(s.deps.Config.Artifacts.Dir)))
	s.router.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
		artifactServer.ServeHTTP(w, r)
	})
}
