package router

import (
	"net/http"

	_ "github.com/extremegraphics/lead-pipeline-api/docs" // generated swagger document
	"github.com/extremegraphics/lead-pipeline-api/internal/auth"
	"github.com/extremegraphics/lead-pipeline-api/internal/config"
	"github.com/extremegraphics/lead-pipeline-api/internal/http/handler"
	"github.com/extremegraphics/lead-pipeline-api/internal/http/middleware"
	"github.com/extremegraphics/lead-pipeline-api/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Health      *handler.HealthHandler
	Lead        *handler.LeadHandler
	Quote       *handler.QuoteHandler
	Estimate    *handler.EstimateHandler
	Dashboard   *handler.DashboardHandler
	ChatSession *handler.ChatSessionHandler
	File        *handler.FileHandler
	CrmUser     *handler.CrmUserHandler
	Note        *handler.NoteHandler
	Ticket      *handler.TicketHandler
	Intake      *handler.IntakeHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	metrics        *metrics.Metrics
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	h              Handlers
}

// NewRouter wires the handlers. m may be nil when metrics are disabled.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		metrics:        m,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		h:              handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Metrics(rt.metrics))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)
	if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
		r.Use(chimw.Timeout(timeout))
	}

	// Health checks
	r.Get("/health", rt.h.Health.Live)
	r.Get("/health/db", rt.h.Health.Database)
	r.Get("/health/ready", rt.h.Health.Ready)

	if rt.cfg.Metrics.Enabled && rt.metrics != nil {
		r.Method(http.MethodGet, rt.cfg.Metrics.Path, rt.metrics.Handler())
	}

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes, reachable by website visitors
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.OptionalAuthenticate)
			r.Use(middleware.TagUser)

			r.Post("/leads", rt.h.Lead.Create)
			r.Get("/products", rt.h.Quote.ListProducts)
			r.Get("/products/{id}", rt.h.Quote.GetProduct)
			r.Post("/chat-sessions", rt.h.ChatSession.Create)
			r.Post("/files", rt.h.File.Upload)
			r.Get("/files", rt.h.File.List)
			r.Get("/files/{id}/content", rt.h.File.Download)
			r.Post("/tickets", rt.h.Ticket.Create)

			r.Route("/intake", func(r chi.Router) {
				r.Use(rt.rateLimiter.LimitIntake)
				r.Post("/wizard", rt.h.Intake.SubmitWizard)
				r.Post("/wizard/{id}/logo", rt.h.Intake.RetryLogo)
				r.Post("/chat", rt.h.Intake.StartChat)
				r.Post("/chat/{conversationId}/messages", rt.h.Intake.SendMessage)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(middleware.TagUser)
			r.Use(rt.rateLimiter.Limit)

			r.Get("/auth/me", rt.h.CrmUser.Me)

			// Leads; PATCH and DELETE also accept ?id= on the collection
			r.Get("/leads", rt.h.Lead.List)
			r.Patch("/leads", rt.h.Lead.Update)
			r.Delete("/leads", rt.h.Lead.Delete)
			r.Get("/leads/{id}", rt.h.Lead.GetByID)
			r.Patch("/leads/{id}", rt.h.Lead.Update)
			r.Delete("/leads/{id}", rt.h.Lead.Delete)

			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", rt.h.Quote.List)
				r.Post("/", rt.h.Quote.Create)
				r.Patch("/", rt.h.Quote.Update)
				r.Delete("/", rt.h.Quote.Delete)
				r.Get("/{id}", rt.h.Quote.GetByID)
				r.Patch("/{id}", rt.h.Quote.Update)
				r.Delete("/{id}", rt.h.Quote.Delete)
			})

			r.Route("/estimates", func(r chi.Router) {
				r.Get("/", rt.h.Estimate.List)
				r.Post("/", rt.h.Estimate.Create)
				r.Patch("/", rt.h.Estimate.Update)
				r.Delete("/", rt.h.Estimate.Delete)
				r.Get("/{id}", rt.h.Estimate.GetByID)
				r.Patch("/{id}", rt.h.Estimate.Update)
				r.Delete("/{id}", rt.h.Estimate.Delete)
			})

			r.Get("/dashboard/stats", rt.h.Dashboard.GetStats)

			r.Get("/chat-sessions", rt.h.ChatSession.List)
			r.Patch("/chat-sessions", rt.h.ChatSession.Update)
			r.Get("/chat-sessions/{id}", rt.h.ChatSession.GetByID)
			r.Patch("/chat-sessions/{id}", rt.h.ChatSession.Update)

			r.Delete("/files/{id}", rt.h.File.Delete)

			r.Get("/tickets", rt.h.Ticket.List)

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", rt.h.Note.List)
				r.Post("/", rt.h.Note.Create)
				r.Patch("/{id}", rt.h.Note.Update)
				r.Delete("/{id}", rt.h.Note.Delete)
			})

			r.Route("/crm-users", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)
				r.Get("/", rt.h.CrmUser.List)
				r.Post("/", rt.h.CrmUser.Create)
				r.Get("/{id}", rt.h.CrmUser.GetByID)
				r.Patch("/{id}", rt.h.CrmUser.Update)
			})
		})
	})

	return r
}
