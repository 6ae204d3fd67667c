package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	gmw "github.com/Laisky/gin-middlewares/v6"
	glog "github.com/Laisky/go-utils/v5/log"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dastarkhwan/dastarkhwan/common"
	"github.com/dastarkhwan/dastarkhwan/common/config"
	"github.com/dastarkhwan/dastarkhwan/common/graceful"
	"github.com/dastarkhwan/dastarkhwan/common/logger"
	"github.com/dastarkhwan/dastarkhwan/middleware"
	"github.com/dastarkhwan/dastarkhwan/model"
	"github.com/dastarkhwan/dastarkhwan/monitor"
	"github.com/dastarkhwan/dastarkhwan/router"
)

func main() {
	common.Init()
	logger.SetupLogger()
	logger.Logger.Info("dastarkhwan started", zap.String("version", common.Version))

	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	} else if !config.DebugEnabled {
		gin.SetMode(gin.ReleaseMode)
	}

	model.InitDB()
	defer func() {
		if err := model.CloseDB(); err != nil {
			logger.Logger.Error("failed to close database", zap.Error(err))
		}
	}()

	if config.SeedOnBoot {
		if err := model.SeedIfEmpty(); err != nil {
			logger.Logger.Fatal("failed to seed database", zap.Error(err))
		}
	}

	if config.EnablePrometheusMetrics {
		if err := monitor.InitPrometheusMonitoring(); err != nil {
			logger.Logger.Fatal("failed to initialize Prometheus monitoring", zap.Error(err))
		}
	}

	logLevel := glog.LevelInfo
	if config.DebugEnabled {
		logLevel = glog.LevelDebug
	}

	server := gin.New()
	server.RedirectTrailingSlash = false
	server.Use(
		middleware.PanicRecover(),
		gmw.NewLoggerMiddleware(
			gmw.WithLoggerMwColored(),
			gmw.WithLevel(logLevel.String()),
			gmw.WithLogger(logger.Logger.Named("gin")),
		),
	)
	server.Use(middleware.RequestId(), middleware.TrackInFlight())
	if config.EnablePrometheusMetrics {
		server.Use(middleware.Prometheus())
		server.GET("/metrics", gin.WrapH(promhttp.Handler()))
		logger.Logger.Info("Prometheus metrics endpoint available at /metrics")
	}

	router.SetRouter(server)

	port := config.ServerPort
	if port == "" {
		port = strconv.Itoa(*common.Port)
	}

	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: server,
	}

	go func() {
		logger.Logger.Info("server started", zap.String("address", "http://localhost:"+port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("shutdown signal received, draining")
	graceful.SetDraining()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Logger.Error("server shutdown error", zap.Error(err))
	}
	if err := graceful.Drain(ctx); err != nil {
		logger.Logger.Error("drain error", zap.Error(err))
	}
	logger.Logger.Info("server stopped")
}
