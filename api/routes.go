package api

import (
	"net/http"

	"github.com/garnizeh/offerdesk/internal/config"
	"github.com/garnizeh/offerdesk/internal/notify"
	"github.com/garnizeh/offerdesk/internal/workflow"
	"github.com/garnizeh/offerdesk/pkg/models"
	"github.com/garnizeh/offerdesk/pkg/repository"
	"github.com/gorilla/mux"
)

// Deps are the collaborators the HTTP layer is wired with.
type Deps struct {
	DB            Pinger
	Workflow      *workflow.Service
	Offers        repository.OfferRepo
	Roles         repository.RoleRepo
	Operators     repository.OperatorRepo
	Notifications repository.NotificationRepo
	// Notifier is used by the test endpoint only.
	Notifier notify.Notifier
	Schemas  *Schemas
}

func SetupRoutes(cfg *config.Config, version, buildTime string, d Deps) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	if d.Schemas == nil {
		d.Schemas = MustLoadSchemas()
	}

	// Create handlers
	systemHandler := &SystemHandler{DB: d.DB}
	authHandler := NewAuthHandler(d.Operators, cfg.JWTSecret, cfg.TokenDuration)
	offersHandler := NewOffersHandler(d.Workflow, d.Offers, d.Schemas)
	rolesHandler := NewRolesHandler(d.Roles, d.Schemas)
	notificationsHandler := NewNotificationsHandler(d.Notifications, d.Notifier, cfg.Company.Name)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Offer endpoints
	apiV1.HandleFunc("/offers", offersHandler.Create).Methods("POST")
	apiV1.HandleFunc("/offers", offersHandler.List).Methods("GET")
	apiV1.HandleFunc("/offers/summary", offersHandler.Summary).Methods("GET")
	apiV1.HandleFunc("/offers/{id}", offersHandler.Get).Methods("GET")
	apiV1.HandleFunc("/offers/{id}", offersHandler.Edit).Methods("PATCH")
	apiV1.HandleFunc("/offers/{id}/regenerate", offersHandler.Regenerate).Methods("POST")
	apiV1.HandleFunc("/offers/{id}/letter", offersHandler.Letter).Methods("GET")
	apiV1.HandleFunc("/offers/{id}/confirm", offersHandler.Confirm).Methods("POST")
	apiV1.HandleFunc("/offers/{id}/send", offersHandler.Send).Methods("POST")
	apiV1.HandleFunc("/offers/{id}/accept", offersHandler.Accept).Methods("POST")
	apiV1.HandleFunc("/offers/{id}/onboarding-complete", offersHandler.OnboardingComplete).Methods("POST")
	apiV1.HandleFunc("/offers/{id}/onboarding-email", offersHandler.OnboardingEmail).Methods("POST")

	// Role catalog
	hrOnly := RequireRole(models.OperatorHR)
	apiV1.HandleFunc("/roles", rolesHandler.List).Methods("GET")
	apiV1.Handle("/roles/{name}", hrOnly(http.HandlerFunc(rolesHandler.Upsert))).Methods("PUT")

	// Dispatch history
	apiV1.HandleFunc("/notifications", notificationsHandler.List).Methods("GET")
	apiV1.Handle("/notifications/test", hrOnly(http.HandlerFunc(notificationsHandler.Test))).Methods("POST")

	return r
}
