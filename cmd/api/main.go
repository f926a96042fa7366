package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rahmatrdn/go-ch-insight/entity"
	"github.com/rahmatrdn/go-ch-insight/internal/analyzer"
	"github.com/rahmatrdn/go-ch-insight/internal/config"
	"github.com/rahmatrdn/go-ch-insight/internal/http/handler"
	"github.com/rahmatrdn/go-ch-insight/internal/http/middleware"
	"github.com/rahmatrdn/go-ch-insight/internal/logger"
	"github.com/rahmatrdn/go-ch-insight/internal/queue"
	clickhouserepo "github.com/rahmatrdn/go-ch-insight/internal/repository/clickhouse"
	sqliterepo "github.com/rahmatrdn/go-ch-insight/internal/repository/sqlite"
	"github.com/rahmatrdn/go-ch-insight/internal/scheduler"
	"github.com/rahmatrdn/go-ch-insight/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
	if err != nil {
		log.Fatal("opening sqlite", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&entity.CHConnection{},
		&entity.WorkloadReportRow{},
		&entity.RejectedRecord{},
	); err != nil {
		log.Fatal("migrating sqlite schema", zap.Error(err))
	}

	connectionRepo := sqliterepo.NewConnectionRepository(db, cfg.SecretKey)
	reportRepo := sqliterepo.NewWorkloadReportRepository(db)
	rejectedRepo := sqliterepo.NewRejectedRecordRepository(db)

	chClient := clickhouserepo.NewClient(log)
	defer func() { _ = chClient.Close() }()

	an := analyzer.New(cfg.BucketWidth)
	workloadUsecase := usecase.NewWorkloadUsecase(reportRepo, rejectedRepo, connectionRepo, chClient, an, log, cfg.AnalysisWindowDays)
	connectionUsecase := usecase.NewConnectionUsecase(connectionRepo, chClient)

	var publisher *queue.Publisher
	if cfg.AMQPUrl != "" {
		publisher, err = queue.NewPublisher(cfg.AMQPUrl, cfg.AMQPExchange)
		if err != nil {
			log.Fatal("connecting to amqp", zap.Error(err))
		}
		defer func() { _ = publisher.Close() }()
	}

	sched, err := scheduler.New(cfg.RefreshInterval, workloadUsecase, connectionRepo, publisher, log)
	if err != nil {
		log.Fatal("building scheduler", zap.Error(err))
	}
	sched.Start()
	defer func() { _ = sched.Stop() }()

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(middleware.BearerAuth(cfg.JWTSecret))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	handler.NewConnectionHandler(connectionUsecase).Register(app)
	handler.NewWorkloadHandler(workloadUsecase).Register(app)

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTPPort)); err != nil {
			log.Fatal("http server", zap.Error(err))
		}
	}()
	log.Info("ch-insight started", zap.Int("port", cfg.HTTPPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
}
