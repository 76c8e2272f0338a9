package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/turnoshq/queue-service/internal/application"
	"github.com/turnoshq/queue-service/internal/domain"
	"github.com/turnoshq/queue-service/internal/ports"
)

// Handler is the HTTP adapter entrypoint for queue use-cases.
type Handler struct {
	service *application.Service
	signer  ports.TokenSigner
	ready   func(ctx context.Context) error
}

// NewHandler constructs an HTTP handler bound to the application service.
// ready may be nil; readyz then only reports process liveness.
func NewHandler(service *application.Service, signer ports.TokenSigner, ready func(ctx context.Context) error) *Handler {
	return &Handler{service: service, signer: signer, ready: ready}
}

// NewRouter registers the queue service HTTP routes and middleware stack.
// Centralizing routes here keeps auth and error behavior consistent across
// endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", handler.login)

		// Public lobby display: the pending queues and, per submission flow,
		// ticket creation at the reception kiosk.
		r.Post("/tickets", handler.submitTicket)
		r.Get("/tickets/queue", handler.queueSummary)
		r.Get("/tickets/{ticket_id}", handler.getTicket)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)

			r.Get("/auth/me", handler.me)
			r.Post("/tickets/{ticket_id}/complete", handler.completeTicket)
			r.Get("/agents/me", handler.myAgentState)
			r.Post("/agents/{user_id}/status", handler.setAgentStatus)
			r.Post("/agents/{user_id}/next", handler.pullNext)

			r.Group(func(r chi.Router) {
				r.Use(handler.requireRoles(domain.RoleAdmin))
				r.Get("/agents", handler.listAgents)
				r.Get("/reports", handler.reports)
				r.Get("/users", handler.listUsers)
			})
		})
	})

	return r
}
