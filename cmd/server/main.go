// Package main runs the NexLoop course front-end HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nexloop/web/config"
	"github.com/nexloop/web/internal/api"
	"github.com/nexloop/web/internal/catalog"
	"github.com/nexloop/web/internal/checkout"
	"github.com/nexloop/web/internal/enroll"
	"github.com/nexloop/web/internal/middleware"
	"github.com/nexloop/web/internal/payments"
	"github.com/nexloop/web/internal/session"
	"github.com/nexloop/web/pkg/redis"
	"github.com/nexloop/web/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	store := session.NewRedisStore(rdb.Client, sessionTTL)
	cookie := session.Cookie{Name: cfg.Session.CookieName, TTL: sessionTTL}

	backend := api.New(cfg.Upstream.BaseURL, time.Duration(cfg.Upstream.RequestTimeout)*time.Second, logger)
	hosted := checkout.NewHosted(cfg.Checkout.Mode, logger)

	catalogHandler := catalog.NewHandler(backend, logger)
	enrollHandler := enroll.NewHandler(backend, store, cookie, logger)
	paymentHandler := payments.NewHandler(
		backend, store, cookie, hosted, hosted,
		cfg.Checkout.PublicBaseURL+"/payment/return",
		cfg.Support.Email,
		logger,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))
	router.LoadHTMLGlob("web/templates/*.tmpl")
	router.Static("/static", "web/static")

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Marketing pages
	router.GET("/", catalogHandler.Index)
	router.GET("/about", catalogHandler.About)

	// Registration
	router.GET("/register", enrollHandler.ShowForm)
	router.POST("/enroll", enrollHandler.Submit)

	// Payment hand-off
	router.GET("/payment", paymentHandler.Page)
	router.POST("/payment/coupon", paymentHandler.ApplyCoupon)
	router.DELETE("/payment/coupon", paymentHandler.RemoveCoupon)
	router.POST("/payment/checkout", paymentHandler.StartCheckout)
	router.GET("/payment/return", paymentHandler.Return)
	router.GET("/payment/verification", paymentHandler.Verify)
	router.GET("/payment/success", paymentHandler.Success)
	router.GET("/payment/failure", paymentHandler.Failure)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
