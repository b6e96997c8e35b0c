package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/payraise-portal/internal/access"
	"github.com/frahmantamala/payraise-portal/internal/auth"
	"github.com/frahmantamala/payraise-portal/internal/employee"
	"github.com/frahmantamala/payraise-portal/internal/payraise"
	"github.com/frahmantamala/payraise-portal/internal/transport"
	"github.com/frahmantamala/payraise-portal/internal/transport/middleware"
	"github.com/frahmantamala/payraise-portal/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type RouterDeps struct {
	Policy          access.Checker
	Sessions        middleware.SessionResolver
	AuthHandler     *auth.Handler
	EmployeeHandler *employee.Handler
	PayRaiseHandler *payraise.Handler
	Health          *HealthHandler
	// Docs is optional; without it /openapi.json and /swagger are not served.
	Docs   *swagger.Document
	Logger *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps RouterDeps) {
	// Unknown routes and unsupported methods look exactly like a denial.
	router.NotFound(transport.NotFound)
	router.MethodNotAllowed(transport.NotFound)

	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(chiMiddleware.NoCache)
	router.Use(middleware.Session(deps.Sessions))

	if deps.Docs != nil {
		router.Get("/openapi.json", deps.Docs.ServeJSON)
		router.Handle("/swagger/*", swagger.Handler())
	}

	guard := func(op access.Operation) func(http.Handler) http.Handler {
		return middleware.RequireOperation(deps.Policy, op)
	}

	router.Route("/api/v1", func(r chi.Router) {
		if deps.Health != nil {
			r.Get("/health", deps.Health.healthCheckHandler)
			r.Get("/ping", deps.Health.pingHandler)
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Get("/login", deps.AuthHandler.LoginInfo)
			sr.Post("/login", deps.AuthHandler.Login)
			sr.With(middleware.RequireAuthenticated).Post("/logout", deps.AuthHandler.Logout)
			sr.With(middleware.RequireAuthenticated).Get("/me", deps.AuthHandler.Me)
		})

		r.Route("/employees", func(er chi.Router) {
			er.With(guard(access.AddEmployee)).Post("/", deps.EmployeeHandler.CreateEmployee)
			er.With(guard(access.ListEmployees)).Get("/", deps.EmployeeHandler.ListEmployees)
		})

		r.Route("/payraises", func(pr chi.Router) {
			pr.With(guard(access.AddPayRaise)).Post("/", deps.PayRaiseHandler.CreatePayRaise)
			pr.With(guard(access.ListAllPayRaises)).Get("/", deps.PayRaiseHandler.ListAll)
			pr.With(guard(access.ListOwnPayRaises)).Get("/mine", deps.PayRaiseHandler.ListMine)
		})
	})
}
