// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	analyticsfeature "github.com/dalemusser/parishhub/internal/app/features/analytics"
	announcementsfeature "github.com/dalemusser/parishhub/internal/app/features/announcements"
	attendancefeature "github.com/dalemusser/parishhub/internal/app/features/attendance"
	authgooglefeature "github.com/dalemusser/parishhub/internal/app/features/authgoogle"
	dashboardfeature "github.com/dalemusser/parishhub/internal/app/features/dashboard"
	eventsfeature "github.com/dalemusser/parishhub/internal/app/features/events"
	healthfeature "github.com/dalemusser/parishhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/parishhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/parishhub/internal/app/features/logout"
	prayerfeature "github.com/dalemusser/parishhub/internal/app/features/prayer"
	teamsfeature "github.com/dalemusser/parishhub/internal/app/features/teams"
	usersfeature "github.com/dalemusser/parishhub/internal/app/features/users"
	visitorsfeature "github.com/dalemusser/parishhub/internal/app/features/visitors"
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. ParishHub initializes the cookie session
// store, applies the session middleware, and mounts one JSON feature router
// per application area.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	db := deps.ParishHubMongoDatabase

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.ParishHubMongoClient, logger)))

	// Authentication
	r.Mount("/login", loginfeature.Routes(loginfeature.NewHandler(db, logger)))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(logger)))
	if appCfg.GoogleClientID != "" {
		googleHandler := authgooglefeature.NewHandler(db,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret,
			appCfg.BaseURL, appCfg.SessionKey, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	// Visitor monitoring core
	r.Mount("/visitors", visitorsfeature.Routes(visitorsfeature.NewHandler(db, logger)))
	r.Mount("/attendance", attendancefeature.Routes(attendancefeature.NewHandler(db, logger)))

	// Staff and team administration
	r.Mount("/users", usersfeature.Routes(usersfeature.NewHandler(db, logger)))
	r.Mount("/teams", teamsfeature.Routes(teamsfeature.NewHandler(db, logger)))

	// Congregation surface
	r.Mount("/events", eventsfeature.Routes(eventsfeature.NewHandler(db, logger)))
	r.Mount("/prayer-requests", prayerfeature.Routes(prayerfeature.NewHandler(db, logger)))
	r.Mount("/announcements", announcementsfeature.Routes(announcementsfeature.NewHandler(db, logger)))

	// Reporting
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardfeature.NewHandler(db, logger)))
	r.Mount("/analytics", analyticsfeature.Routes(analyticsfeature.NewHandler(db, appCfg.AnalyticsCacheTTL, logger)))

	return r, nil
}
