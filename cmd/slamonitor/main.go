package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/complaintdesk/complaint-api/config"
	"github.com/complaintdesk/complaint-api/internal/email"
	healthHandler "github.com/complaintdesk/complaint-api/internal/handler/health"
	"github.com/complaintdesk/complaint-api/internal/repository/postgres"
	"github.com/complaintdesk/complaint-api/internal/service/escalation"
	"github.com/complaintdesk/complaint-api/internal/worker"
	"github.com/complaintdesk/complaint-api/pkg/logger"
	"github.com/complaintdesk/complaint-api/pkg/messaging/redis"
	"github.com/complaintdesk/complaint-api/pkg/metrics"
)

const adminCacheTTL = time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	lg := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Console:    cfg.Logging.Console,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		lg.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &lg.ZL)
	if err != nil {
		lg.Fatal(err, "failed to create redis broker")
	}
	defer broker.Close()

	baseRepo := postgres.NewBaseRepository(db)
	complaintRepo := postgres.NewComplaintRepository(baseRepo)
	userRepo := postgres.NewUserRepository(baseRepo)
	notificationRepo := postgres.NewNotificationRepository(baseRepo)

	var emailSvc email.Service
	if cfg.Monitor.NotifyEmail {
		emailSvc = email.NewSMTPService(cfg.SMTP, cfg.Monitor.EmailRatePerSecond)
	}

	m := metrics.NewMetrics("sla_monitor")

	resolver := escalation.NewAdminResolver(userRepo, adminCacheTTL)
	notifier := escalation.NewNotifier(notificationRepo, broker, emailSvc, lg, m)
	svc := escalation.NewService(complaintRepo, resolver, notifier, lg, m, cfg.Monitor.BatchSize)

	scheduler := worker.NewScheduler(svc.Tick, lg, m)
	if err := scheduler.Start(cfg.Monitor.Schedule); err != nil {
		lg.Fatal(err, "failed to start scheduler")
	}

	setupOpsServer(cfg.Server.Port, db, lg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	lg.Info("shutting down")
	scheduler.Stop()
}

func setupOpsServer(port int, db *sqlx.DB, lg *logger.Logger) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	healthHandler.NewHandler(db).RegisterRoutes(r)

	go func() {
		if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
			lg.Error(err, "ops server failed")
			os.Exit(1)
		}
	}()
}
