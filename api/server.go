/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Structured request logging (httplog, ECS schema)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend
  5. Heartbeat:  GET /health for load balancers

ROUTE GROUPS:
  /api/slips, /api/ledger, /api/payroll,
  /api/attendance, /api/calendar  Stateless computation
  /api/employees/*                Stored inputs and per-employee slips
  /api/admin/*                    Admin operations
  /api/scenarios/*                Demo scenarios

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterOptions configures cross-cutting middleware.
type RouterOptions struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	// LogLevel is the level request logs are written at.
	LogLevel slog.Level
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(h.Logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))
	r.Use(middleware.Heartbeat("/health"))

	r.Route("/api", func(r chi.Router) {
		// Stateless computation
		r.Post("/slips", h.GenerateSlip)
		r.Post("/slips/batch", h.GenerateSlipBatch)
		r.Post("/ledger", h.BuildLedger)
		r.Post("/payroll", h.ComputePayroll)
		r.Post("/attendance/classify", h.ClassifyAttendance)
		r.Get("/calendar/{year}/{month}", h.GetCalendar)

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetEmployee)
				r.Delete("/", h.DeleteEmployee)
				r.Get("/attendance", h.GetAttendance)
				r.Post("/attendance", h.UploadAttendance)
				r.Post("/leaves", h.SaveLeaveMonth)
				r.Get("/salary", h.GetSalary)
				r.Put("/salary", h.PutSalary)
				r.Get("/ledger", h.GetLedger)
				r.Get("/slips/{month}", h.GetEmployeeSlip)
			})
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/accruals", h.RunAccruals)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
