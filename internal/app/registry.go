package app

import (
	"jjc-attendance/internal/clockevent"
	"jjc-attendance/internal/config"
	"jjc-attendance/internal/employee"
	"jjc-attendance/internal/events"
	"jjc-attendance/internal/reconcile"
	"jjc-attendance/internal/remote"
	"jjc-attendance/internal/summary"
	"jjc-attendance/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *gorm.DB,
	cfg config.Config,
	publisher events.Publisher,
	listener clockevent.ChangeListener,
) {
	logger := zap.L()

	// --- Repositories ---
	eventsRepo := clockevent.NewRepository(db)
	employeeRepo := employee.NewRepository(db)
	summariesRepo := summary.NewRepository(db)

	// --- Core services ---
	builder := summary.NewBuilder(eventsRepo, summariesRepo, logger)
	validator := validation.NewValidator(db, eventsRepo, builder, publisher, logger)
	client := remote.NewClient(cfg.RemoteURL, cfg.RemoteToken, cfg.RemoteTimeout)
	engine := reconcile.NewEngine(db, eventsRepo, summariesRepo, validator, client, publisher, logger, cfg.FetchLimit)
	scanService := clockevent.NewService(db, eventsRepo, employeeRepo, publisher, listener, logger)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		clockevent.RegisterRoutes(api, clockevent.NewHandler(scanService))
		employee.RegisterRoutes(api, employee.NewHandler(employeeRepo))
		summary.RegisterRoutes(api, summary.NewHandler(summariesRepo))
		validation.RegisterRoutes(api, validation.NewHandler(validator))
		reconcile.RegisterRoutes(api, reconcile.NewHandler(engine))
	}
}
