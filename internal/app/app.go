package app

import (
	"net/http"

	"jjc-attendance/internal/clockevent"
	"jjc-attendance/internal/config"
	"jjc-attendance/internal/employee"
	"jjc-attendance/internal/events"
	"jjc-attendance/internal/middleware"
	"jjc-attendance/internal/reconcile"
	"jjc-attendance/internal/shared/connection"
	"jjc-attendance/internal/summary"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp wires the kiosk API process: local store, event publisher, and the
// HTTP surface. The background sync rhythm lives in the worker process; the
// API registers reconcile endpoints for manual triggers only.
func BuildApp(router *gin.Engine, cfg config.Config) error {
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	zap.L().Info("attendance store ready", zap.String("path", cfg.DBPath))

	publisher := newPublisher(cfg)

	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))

	router.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	registerModules(router, db, cfg, publisher, clockevent.NopListener{})
	return nil
}

// openStore opens sqlite and migrates every table the engine owns.
func openStore(cfg config.Config) (*gorm.DB, error) {
	db, err := connection.ConnectSQLiteWithRetry(cfg.DBPath, 5)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&employee.Employee{},
		&clockevent.ClockEvent{},
		&summary.DailySummary{},
		&reconcile.SyncCheckpoint{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

// newPublisher picks kafka when brokers are configured, a no-op otherwise.
// A kiosk in the field usually runs without a broker.
func newPublisher(cfg config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NewNoopPublisher()
	}
	writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBrokers, 5)
	if err != nil {
		zap.L().Warn("kafka unavailable, events disabled", zap.Error(err))
		return events.NewNoopPublisher()
	}
	zap.L().Info("kafka publisher ready", zap.Strings("brokers", cfg.KafkaBrokers))
	return events.NewKafkaPublisher(writer)
}
