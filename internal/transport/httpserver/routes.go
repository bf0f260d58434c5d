package httpserver

import (
	"net/http"
	"time"

	"genealogy-app-go/internal/config"
	"genealogy-app-go/internal/transport/httpserver/handler"
	authmw "genealogy-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Instrumentation exposes request metrics and their scrape endpoint.
type Instrumentation interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.JWTAuth, metrics Instrumentation) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))
	r.Use(metrics.Middleware)

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Common.AuthMe)
			r.Get("/me/genealogies", handlers.Roles.ListMyGenealogies)

			r.Post("/genealogies", handlers.Genealogies.CreateGenealogy)
			r.Get("/genealogies/code/{code}", handlers.Genealogies.GetGenealogyByCode)

			r.Route("/genealogies/{id}", func(r chi.Router) {
				r.Get("/", handlers.Genealogies.GetGenealogy)
				r.Put("/", handlers.Genealogies.UpdateGenealogy)
				r.Delete("/", handlers.Genealogies.DeleteGenealogy)
				r.Get("/tree", handlers.Genealogies.GetTree)

				r.Get("/members", handlers.Genealogies.ListMembers)
				r.Post("/members", handlers.Genealogies.AddMember)
				r.Get("/members/{member_id}", handlers.Genealogies.GetMember)
				r.Put("/members/{member_id}", handlers.Genealogies.UpdateMember)
				r.Delete("/members/{member_id}", handlers.Genealogies.DeleteMember)
				r.Post("/members/{member_id}/edit-requests", handlers.Approvals.SubmitEdit)

				r.Post("/relationships", handlers.Genealogies.AddRelationship)
				r.Post("/join-requests", handlers.Approvals.SubmitJoin)

				r.Get("/approvals", handlers.Approvals.ListFamilyRequests)
				r.Post("/approvals/{request_id}/handle", handlers.Approvals.Handle)

				r.Put("/roles/{user_id}", handlers.Roles.SetRole)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(authmw.RequireSuperAdmin)

				r.Get("/approvals", handlers.Approvals.ListAllRequests)
				r.Post("/genealogies/{id}/approvals/{request_id}/handle", handlers.Approvals.HandleAdmin)

				r.Get("/genealogies", handlers.Genealogies.ListAllGenealogies)
				r.Get("/members", handlers.Genealogies.ListAllMembers)

				r.Get("/users", handlers.Users.ListUsers)
				r.Post("/users/{user_id}/disable", handlers.Users.DisableUser)
				r.Post("/users/{user_id}/enable", handlers.Users.EnableUser)
			})
		})
	})

	return r
}
